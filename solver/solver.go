// Package solver is the request/parse/retry engine shared by every provider.
//
// A Solver pairs one [tasksolver.Provider] with one [tasksolver.TaskSpec]. It
// serializes questions into provider payloads, asks the provider, parses the
// reply with the task's answer grammar and asks again when the reply does not
// parse:
//
//	s := solver.New(provider, task, solver.WithMaxTries(3))
//	guess, err := s.RunOnce(ctx, tasksolver.Texts("Which way is north?"))
//	if errors.Is(err, tasksolver.ErrMaxTriesExceeded) {
//	    // the model never produced a parseable answer
//	}
//
// Only parse failures are retried. Provider errors and serialization errors
// are returned on first sight.
package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/rickchristie/tasksolver"
	"github.com/rickchristie/tasksolver/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxTokens = 1000
	DefaultMaxTries  = 10
)

// Guess is a parsed answer together with how it was obtained.
type Guess struct {
	Answer  tasksolver.ParsedAnswer
	Message tasksolver.Message
	Usage   tasksolver.Usage
	Request *tasksolver.Request

	// Attempts is the number of provider round-trips it took, counting the
	// successful one.
	Attempts int
}

// Solver asks one provider questions about one task. It holds no per-call
// state and is safe for concurrent use.
type Solver struct {
	provider  tasksolver.Provider
	task      *tasksolver.TaskSpec
	maxTokens int
	maxTries  int
	failures  *FailureSink
	logger    *zerolog.Logger
}

// Option configures a Solver.
type Option func(*Solver)

// WithMaxTokens sets the generation limit of every request.
func WithMaxTokens(n int) Option {
	return func(s *Solver) { s.maxTokens = n }
}

// WithMaxTries sets the retry bound. A guess is attempted at most n+1 times.
func WithMaxTries(n int) Option {
	return func(s *Solver) { s.maxTries = n }
}

// WithFailureDir saves every unparseable reply as a JSON file under dir.
func WithFailureDir(dir string) Option {
	return func(s *Solver) { s.failures = NewFailureSink(dir, nil) }
}

// WithFailureSink sets where unparseable replies are saved.
func WithFailureSink(f *FailureSink) Option {
	return func(s *Solver) { s.failures = f }
}

// WithLogger sets the logger. The global zerolog logger is used otherwise.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Solver) { s.logger = &l }
}

// New creates a Solver for task on provider.
func New(p tasksolver.Provider, task *tasksolver.TaskSpec, opts ...Option) *Solver {
	s := &Solver{
		provider:  p,
		task:      task,
		maxTokens: DefaultMaxTokens,
		maxTries:  DefaultMaxTries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provider returns the provider the solver asks.
func (s *Solver) Provider() tasksolver.Provider { return s.provider }

// Task returns the task the solver parses answers for.
func (s *Solver) Task() *tasksolver.TaskSpec { return s.task }

// MaxTries returns the retry bound.
func (s *Solver) MaxTries() int { return s.maxTries }

// MaxTokens returns the generation limit of every request.
func (s *Solver) MaxTokens() int { return s.maxTokens }

func (s *Solver) log() zerolog.Logger {
	base := log.Logger
	if s.logger != nil {
		base = *s.logger
	}
	return base.With().Fields(map[string]any{
		logging.ProviderField: s.provider.Name(),
		logging.ModelField:    s.provider.Model(),
		logging.TaskField:     s.task.Name,
	}).Logger()
}

// PreparePayload serializes q and builds the provider request for it.
func (s *Solver) PreparePayload(q *tasksolver.Question) (*tasksolver.Request, error) {
	parts, err := q.Parts()
	if err != nil {
		return nil, err
	}
	return s.provider.BuildRequest(parts, tasksolver.RequestOptions{MaxTokens: s.maxTokens})
}

type choiceKey struct{}

// ChoiceIndex returns the position of the call within an Ask batch. It is set
// on the context Ask hands to Provider.Execute.
func ChoiceIndex(ctx context.Context) (int, bool) {
	i, ok := ctx.Value(choiceKey{}).(int)
	return i, ok
}

// Ask sends req n times concurrently and returns the replies in call order:
// results[i] is the reply of the call whose ChoiceIndex is i. The first
// provider error cancels the remaining calls and is returned.
func (s *Solver) Ask(ctx context.Context, req *tasksolver.Request, n int) ([]*tasksolver.Response, error) {
	if n < 1 {
		return nil, fmt.Errorf("ask: n must be at least 1, got %d", n)
	}

	results := make([]*tasksolver.Response, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			resp, err := s.provider.Execute(context.WithValue(gctx, choiceKey{}, i), req)
			if err != nil {
				return err
			}
			results[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ask %s: %w", s.provider.Name(), err)
	}
	return results, nil
}

// RoughGuess asks q until the reply parses, at most MaxTries+1 times.
func (s *Solver) RoughGuess(ctx context.Context, q *tasksolver.Question) (*Guess, error) {
	guesses, err := s.guess(ctx, q, 1)
	if err != nil {
		return nil, err
	}
	return &guesses[0], nil
}

// ManyRoughGuesses asks q for n replies at once. If any reply fails to parse
// the whole batch is discarded and asked again, so either n guesses come back
// or an error does.
func (s *Solver) ManyRoughGuesses(ctx context.Context, n int, q *tasksolver.Question) ([]Guess, error) {
	return s.guess(ctx, q, n)
}

// RunOnce wraps q in the task's opening prompt and guesses.
func (s *Solver) RunOnce(ctx context.Context, q *tasksolver.Question) (*Guess, error) {
	return s.RoughGuess(ctx, s.task.FirstQuestion(q))
}

func (s *Solver) guess(ctx context.Context, q *tasksolver.Question, n int) ([]Guess, error) {
	if err := s.task.Validate(); err != nil {
		return nil, err
	}
	req, err := s.PreparePayload(q)
	if err != nil {
		return nil, err
	}

	l := s.log()
	for attempt := 1; ; attempt++ {
		responses, err := s.Ask(ctx, req, n)
		if err != nil {
			return nil, err
		}

		guesses, raw, perr := s.parseAll(req, responses, attempt)
		if perr == nil {
			l.Debug().Int(logging.AttemptField, attempt).Int("choices", n).Msg("guess parsed")
			return guesses, nil
		}
		if !tasksolver.IsParseError(perr) {
			return nil, perr
		}

		l.Warn().Err(perr).Int(logging.AttemptField, attempt).Msg("reply did not parse, asking again")
		if s.failures != nil {
			if ferr := s.failures.Save(s.provider, attempt, raw, perr); ferr != nil {
				l.Error().Err(ferr).Msg("could not save unparseable reply")
			}
		}

		if attempt > s.maxTries {
			return nil, &tasksolver.MaxTriesError{Tries: s.maxTries, Attempts: attempt, Last: perr}
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(err, perr)
		}
	}
}

// parseAll parses every response. On failure it returns the offending text.
func (s *Solver) parseAll(
	req *tasksolver.Request,
	responses []*tasksolver.Response,
	attempt int,
) ([]Guess, string, error) {
	guesses := make([]Guess, len(responses))
	for i, resp := range responses {
		answer, err := s.task.Parse(resp.Message.Content)
		if err != nil {
			return nil, resp.Message.Content, err
		}
		guesses[i] = Guess{
			Answer:   answer,
			Message:  resp.Message,
			Usage:    resp.Usage,
			Request:  req,
			Attempts: attempt,
		}
	}
	return guesses, "", nil
}
