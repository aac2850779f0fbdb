package tasksolver

import (
	"errors"
	"fmt"
)

// Sentinel errors. Parse failures are the only retryable kind; everything else
// signals a programming or configuration mistake and fails fast.
var (
	// ErrParse is wrapped by every answer parser failure.
	ErrParse = errors.New("tasksolver: answer could not be parsed")

	// ErrMaxTriesExceeded is returned when a solver exhausts its retry bound.
	ErrMaxTriesExceeded = errors.New("tasksolver: max tries exceeded")

	// ErrUnsupportedContent is returned when a Question holds content that a
	// serializer or provider cannot represent.
	ErrUnsupportedContent = errors.New("tasksolver: unsupported question content")

	// ErrUnknownImageFormat is returned when an encoded image does not start
	// with a JPEG, PNG, GIF or WEBP signature.
	ErrUnknownImageFormat = errors.New("tasksolver: unknown image format")

	// ErrMissingKey is returned by KeyChain.Get for unregistered services.
	ErrMissingKey = errors.New("tasksolver: no key registered for service")

	// ErrInvalidExample is returned when a task example lacks a question or answer.
	ErrInvalidExample = errors.New("tasksolver: invalid task example")

	// ErrNoFollowUp is returned when a follow-up question is requested from a
	// task or agent that has no follow-up function.
	ErrNoFollowUp = errors.New("tasksolver: no follow-up function configured")

	// ErrNoCompletion is returned when reflection is requested on a task
	// without a completion function.
	ErrNoCompletion = errors.New("tasksolver: no completion function configured")

	// ErrInvalidEvent is returned when an event's kind and payload disagree.
	ErrInvalidEvent = errors.New("tasksolver: invalid event")

	// ErrInvalidTask is returned when a task cannot parse answers.
	ErrInvalidTask = errors.New("tasksolver: invalid task")

	// ErrInvalidConfig is returned when a configuration or task file is
	// malformed.
	ErrInvalidConfig = errors.New("tasksolver: invalid configuration")
)

// ParseError describes why raw model text did not satisfy an answer grammar.
type ParseError struct {
	// Answer is the name of the answer type that rejected the text.
	Answer string

	// Reason is a short human readable explanation.
	Reason string

	// Raw is the offending model output.
	Raw string
}

// NewParseError creates a ParseError for the given answer type.
func NewParseError(answer, reason, raw string) *ParseError {
	return &ParseError{Answer: answer, Reason: reason, Raw: raw}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Answer, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// MaxTriesError is returned when every attempt of a retry loop failed to parse.
type MaxTriesError struct {
	// Tries is the configured retry bound.
	Tries int

	// Attempts is the number of provider round-trips that were made.
	Attempts int

	// Last is the parse error of the final attempt.
	Last error
}

func (e *MaxTriesError) Error() string {
	return fmt.Sprintf(
		"max tries (%d) exceeded after %d attempts: %v",
		e.Tries, e.Attempts, e.Last,
	)
}

// Is reports ErrMaxTriesExceeded so callers can use errors.Is. The last parse
// error is kept in Last rather than unwrapped: exhaustion is terminal and must
// not look retryable to errors.Is(err, ErrParse).
func (e *MaxTriesError) Is(target error) bool {
	return target == ErrMaxTriesExceeded
}

// IsParseError reports whether err is an answer parse failure.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}
