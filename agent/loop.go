package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/rickchristie/tasksolver"
)

// DefaultMaxIterations bounds DefaultLoop when MaxIterations is unset.
const DefaultMaxIterations = 10

// ErrMaxIterations is returned when a loop runs out of iterations before the
// task is complete.
var ErrMaxIterations = errors.New("agent: max iterations reached")

// Loop orders an agent's steps into a run.
type Loop interface {
	Run(ctx context.Context, a *Agent, q *tasksolver.Question) error
}

// DefaultLoop thinks, acts, observes and reflects until reflection returns no
// follow-up question.
type DefaultLoop struct {
	MaxIterations int

	// State, when set, supplies the state handed to Observe on each
	// iteration.
	State func(ctx context.Context) map[string]any
}

// Run implements Loop.
func (l DefaultLoop) Run(ctx context.Context, a *Agent, q *tasksolver.Question) error {
	limit := l.MaxIterations
	if limit <= 0 {
		limit = DefaultMaxIterations
	}

	for i := 0; i < limit; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		g, err := a.Think(ctx, q)
		if err != nil {
			return err
		}
		if _, err := a.Act(ctx, g.Answer); err != nil {
			return err
		}

		var state map[string]any
		if l.State != nil {
			state = l.State(ctx)
		}
		if _, err := a.Observe(ctx, state); err != nil {
			return err
		}

		next, err := a.Reflect(ctx)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		q = next
	}
	return fmt.Errorf("%w: %d", ErrMaxIterations, limit)
}

var _ Loop = DefaultLoop{}
