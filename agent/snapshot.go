package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rickchristie/tasksolver"
	"github.com/rickchristie/tasksolver/providers"
	"github.com/rickchristie/tasksolver/solver"
)

// Snapshot is everything Save writes about an agent. Task and Actor are code
// and are supplied again on Load.
type Snapshot struct {
	Provider  providers.Settings          `json:"provider"`
	Keys      *tasksolver.KeyChain        `json:"keys,omitempty"`
	Task      string                      `json:"task"`
	SessionID string                      `json:"session"`
	MaxTries  int                         `json:"max_tries"`
	MaxTokens int                         `json:"max_tokens"`
	Events    *tasksolver.EventCollection `json:"events"`
}

// DialFunc builds the provider a restored agent thinks with.
type DialFunc func(ctx context.Context, s providers.Settings, keys *tasksolver.KeyChain) (tasksolver.Provider, error)

// Snapshot captures the agent's provider settings, credentials and session.
func (a *Agent) Snapshot() Snapshot {
	p := a.solver.Provider()
	return Snapshot{
		Provider: providers.Settings{
			Kind:    providers.Kind(p.Name()),
			Model:   p.Model(),
			BaseURL: a.baseURL,
		},
		Keys:      a.keys,
		Task:      a.task.Name,
		SessionID: a.session,
		MaxTries:  a.solver.MaxTries(),
		MaxTokens: a.solver.MaxTokens(),
		Events:    a.events,
	}
}

// Save writes the agent to w as one JSON document. The document contains the
// agent's credentials in clear text.
func (a *Agent) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a.Snapshot()); err != nil {
		return fmt.Errorf("save agent: %w", err)
	}
	return nil
}

// Load restores an agent saved with Save. dial builds the provider from the
// saved settings; providers.Build is used when dial is nil. Nothing is
// returned unless the whole document restores.
func Load(
	ctx context.Context,
	r io.Reader,
	task *tasksolver.TaskSpec,
	actor Actor,
	dial DialFunc,
	opts ...Option,
) (*Agent, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("load agent: %w", err)
	}
	if snap.SessionID == "" || snap.Events == nil {
		return nil, fmt.Errorf("load agent: snapshot has no session")
	}
	if snap.Task != "" && snap.Task != task.Name {
		return nil, fmt.Errorf("load agent: snapshot is for task %q, not %q", snap.Task, task.Name)
	}
	for _, e := range snap.Events.Events() {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("load agent: %w", err)
		}
	}

	if dial == nil {
		dial = providers.Build
	}
	p, err := dial(ctx, snap.Provider, snap.Keys)
	if err != nil {
		return nil, fmt.Errorf("load agent: %w", err)
	}

	restored := []Option{
		WithKeyChain(snap.Keys),
		WithBaseURL(snap.Provider.BaseURL),
		WithSolverOptions(solver.WithMaxTries(snap.MaxTries), solver.WithMaxTokens(snap.MaxTokens)),
	}
	a := New(p, task, actor, append(restored, opts...)...)
	a.session = snap.SessionID
	a.events = snap.Events
	return a, nil
}
