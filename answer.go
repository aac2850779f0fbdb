package tasksolver

// ParsedAnswer is a typed answer extracted from raw model output.
type ParsedAnswer interface {
	// String renders the answer the way it is shown to a model, for example
	// inside task examples.
	String() string

	// Raw returns the provider text the answer was parsed from. Answers built
	// by hand return their rendering.
	Raw() string
}

// Successer is implemented by answers that can judge task completion, such as
// yes/no decisions.
type Successer interface {
	Success() bool
}

// Parser turns raw model output into a ParsedAnswer. Failures must wrap
// ErrParse, usually through *ParseError.
type Parser func(raw string) (ParsedAnswer, error)

// AnswerType describes one answer grammar.
type AnswerType struct {
	// Name identifies the grammar in configuration files.
	Name string

	// Parse converts raw text into the answer.
	Parse Parser

	// Guidance tells a model how to format its output for this grammar. Empty
	// when the grammar accepts anything.
	Guidance string
}

// IsSuccess reports whether answer is a Successer that succeeded.
func IsSuccess(answer ParsedAnswer) bool {
	s, ok := answer.(Successer)
	return ok && s.Success()
}
