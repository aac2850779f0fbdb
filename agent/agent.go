// Package agent drives a task through think, act, observe and reflect steps,
// recording each step as an event of the session log.
//
// The environment side of the cycle is supplied by an [Actor]. Completion and
// follow-up questions come from the task:
//
//	a := agent.New(provider, task, myActor)
//	err := a.Run(ctx, tasksolver.Texts("Tidy the living room."))
//
// An Agent is not safe for concurrent use.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rickchristie/tasksolver"
	"github.com/rickchristie/tasksolver/internal/logging"
	"github.com/rickchristie/tasksolver/solver"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Action describes what an Actor did with an answer.
type Action struct {
	Name   string
	Detail string
}

// Observation is the environment state seen after acting.
type Observation struct {
	Summary string
	State   map[string]any
}

// Actor carries answers out in the environment and reports back.
type Actor interface {
	Act(ctx context.Context, answer tasksolver.ParsedAnswer) (*Action, error)
	Observe(ctx context.Context, state map[string]any) (*Observation, error)
}

// ActionError is returned by Agent.Act when the Actor fails. The failure is
// also recorded as an ACT_ERROR event.
type ActionError struct {
	Answer string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("act on %q: %v", e.Answer, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// Errors returned when an Actor or a task hook reports nothing.
var (
	ErrNoAction      = errors.New("agent: actor returned no action")
	ErrNoObservation = errors.New("agent: actor returned no observation")
	ErrNoEvaluation  = errors.New("agent: completion returned no answer")
)

// Recorder receives every event the agent records.
type Recorder interface {
	Append(ctx context.Context, e tasksolver.Event) error
}

// Agent owns one solver, one task and one session log.
type Agent struct {
	solver   *solver.Solver
	task     *tasksolver.TaskSpec
	actor    Actor
	followUp tasksolver.NextQuestionFunc
	store    Recorder
	loop     Loop
	clock    tasksolver.TimeProvider
	keys     *tasksolver.KeyChain
	baseURL  string
	logger   *zerolog.Logger

	solverOpts []solver.Option

	session string
	events  *tasksolver.EventCollection
}

// Option configures an Agent.
type Option func(*Agent)

// WithFollowUp sets the function producing the next question after a failed
// evaluation. The task's NextQuestionFunc is used otherwise.
func WithFollowUp(f tasksolver.NextQuestionFunc) Option {
	return func(a *Agent) { a.followUp = f }
}

// WithRecorder saves every recorded event to r as well.
func WithRecorder(r Recorder) Option {
	return func(a *Agent) { a.store = r }
}

// WithLoop sets the loop Run drives. DefaultLoop is used otherwise.
func WithLoop(l Loop) Option {
	return func(a *Agent) { a.loop = l }
}

// WithClock sets the clock used to timestamp events.
func WithClock(c tasksolver.TimeProvider) Option {
	return func(a *Agent) { a.clock = c }
}

// WithKeyChain attaches the credentials that Save writes into snapshots.
func WithKeyChain(k *tasksolver.KeyChain) Option {
	return func(a *Agent) { a.keys = k }
}

// WithBaseURL records the provider endpoint for snapshots.
func WithBaseURL(url string) Option {
	return func(a *Agent) { a.baseURL = url }
}

// WithSolverOptions passes options to the underlying solver.
func WithSolverOptions(opts ...solver.Option) Option {
	return func(a *Agent) { a.solverOpts = append(a.solverOpts, opts...) }
}

// WithLogger sets the logger of the agent and its solver.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Agent) { a.logger = &l }
}

// New creates an agent thinking with p about task. The agent starts with a
// fresh session.
func New(p tasksolver.Provider, task *tasksolver.TaskSpec, actor Actor, opts ...Option) *Agent {
	a := &Agent{
		task:  task,
		actor: actor,
		loop:  DefaultLoop{},
		clock: tasksolver.NewDefaultTimeProvider(),
	}
	for _, opt := range opts {
		opt(a)
	}

	sopts := a.solverOpts
	if a.logger != nil {
		sopts = append([]solver.Option{solver.WithLogger(*a.logger)}, sopts...)
	}
	a.solver = solver.New(p, task, sopts...)
	a.NewSession()
	return a
}

// NewSession starts over with a fresh session id and an empty log.
func (a *Agent) NewSession() {
	a.session = uuid.NewString()
	a.events = tasksolver.NewEventCollection()
}

// SessionID returns the id of the current session.
func (a *Agent) SessionID() string { return a.session }

// Events returns the session log.
func (a *Agent) Events() *tasksolver.EventCollection { return a.events }

// Provider returns the backend the agent thinks with.
func (a *Agent) Provider() tasksolver.Provider { return a.solver.Provider() }

// Solver returns the agent's solver.
func (a *Agent) Solver() *solver.Solver { return a.solver }

// Task returns the agent's task.
func (a *Agent) Task() *tasksolver.TaskSpec { return a.task }

func (a *Agent) log() *zerolog.Logger {
	base := log.Logger
	if a.logger != nil {
		base = *a.logger
	}
	l := base.With().Str(logging.SessionField, a.session).Str(logging.TaskField, a.task.Name).Logger()
	return &l
}

// Think answers q. The first thought of a session gets the full opening
// prompt. Once the agent has acted, q is sent after the task description
// only, without background or examples.
func (a *Agent) Think(ctx context.Context, q *tasksolver.Question) (*solver.Guess, error) {
	var (
		g   *solver.Guess
		err error
	)
	if a.events.Has(tasksolver.KindAct) {
		g, err = a.solver.RoughGuess(ctx, tasksolver.Concat(a.task.TaskComponent(), q))
	} else {
		g, err = a.solver.RunOnce(ctx, q)
	}
	if err != nil {
		return nil, fmt.Errorf("think: %w", err)
	}

	think := &tasksolver.Think{Exchanges: []tasksolver.Exchange{{Question: q, Answer: g.Answer}}}
	if err := a.record(ctx, think); err != nil {
		return nil, err
	}
	return g, nil
}

// Act hands answer to the Actor. A failure is recorded as ACT_ERROR and
// returned as *ActionError.
func (a *Agent) Act(ctx context.Context, answer tasksolver.ParsedAnswer) (*Action, error) {
	action, err := a.actor.Act(ctx, answer)
	if err == nil && action == nil {
		err = ErrNoAction
	}
	if err != nil {
		failed := &tasksolver.ActError{Action: answer.String(), Error: err.Error()}
		if rerr := a.record(ctx, failed); rerr != nil {
			return nil, rerr
		}
		a.log().Warn().Err(err).Str("answer", answer.String()).Msg("action failed")
		return nil, &ActionError{Answer: answer.String(), Err: err}
	}

	if err := a.record(ctx, &tasksolver.Act{Action: action.Name, Detail: action.Detail}); err != nil {
		return nil, err
	}
	return action, nil
}

// Observe asks the Actor to look at state and records what it saw.
func (a *Agent) Observe(ctx context.Context, state map[string]any) (*Observation, error) {
	obs, err := a.actor.Observe(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("observe: %w", err)
	}
	if obs == nil {
		return nil, fmt.Errorf("observe: %w", ErrNoObservation)
	}
	if err := a.record(ctx, &tasksolver.Observe{Summary: obs.Summary, State: obs.State}); err != nil {
		return nil, err
	}
	return obs, nil
}

// Reflect asks the task whether the session is complete. It returns nil when
// it is, and the follow-up question otherwise. Both the evaluation and the
// follow-up are recorded. An unsuccessful evaluation without a follow-up
// question is an error wrapping tasksolver.ErrNoFollowUp.
func (a *Agent) Reflect(ctx context.Context) (*tasksolver.Question, error) {
	if a.task.Completed == nil {
		return nil, fmt.Errorf("%w: task %q", tasksolver.ErrNoCompletion, a.task.Name)
	}

	question, answer, err := a.task.Completed(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("reflect: %w", err)
	}
	if answer == nil {
		return nil, fmt.Errorf("reflect: %w", ErrNoEvaluation)
	}
	success := tasksolver.IsSuccess(answer)
	eval := &tasksolver.Evaluate{Question: question, Answer: answer, Success: success}
	if err := a.record(ctx, eval); err != nil {
		return nil, err
	}
	a.log().Info().Bool("success", success).Str("answer", answer.String()).Msg("evaluated")
	if success {
		return nil, nil
	}

	var next *tasksolver.Question
	if a.followUp != nil {
		next, err = a.followUp(ctx, tasksolver.HistoryOf(a.events))
	} else {
		next, err = a.task.NextQuestion(ctx, tasksolver.HistoryOf(a.events))
	}
	if err != nil {
		return nil, fmt.Errorf("reflect: %w", err)
	}
	if next.Len() == 0 {
		return nil, fmt.Errorf("reflect: %w: follow-up returned no question", tasksolver.ErrNoFollowUp)
	}
	if err := a.record(ctx, &tasksolver.Feedback{Question: next}); err != nil {
		return nil, err
	}
	return next, nil
}

// Interject records a human correction. It does not change what the agent
// does next.
func (a *Agent) Interject(ctx context.Context, in tasksolver.Interact) error {
	return a.record(ctx, &in)
}

// Run drives the agent's loop from q.
func (a *Agent) Run(ctx context.Context, q *tasksolver.Question) error {
	return a.loop.Run(ctx, a, q)
}

func (a *Agent) record(ctx context.Context, p tasksolver.Payload) error {
	e := tasksolver.NewEvent(a.session, a.clock.Now(), p)
	if err := a.events.Add(e); err != nil {
		return err
	}
	a.log().Debug().Str(logging.EventField, string(e.Kind)).Msg("event recorded")

	if a.store == nil {
		return nil
	}
	if err := a.store.Append(ctx, e); err != nil {
		return fmt.Errorf("record %s: %w", e.Kind, err)
	}
	return nil
}

// Compile-time check that Agent implements tasksolver.Session.
var _ tasksolver.Session = (*Agent)(nil)
