// Package eventstore persists session event logs.
//
// FileStore keeps one JSON file per event under a directory per session.
// RedisStore keeps one list per session. Both return events ordered by
// timestamp on Load.
package eventstore

import (
	"context"
	"slices"

	"github.com/rickchristie/tasksolver"
)

// Store appends events and loads a session back.
type Store interface {
	Append(ctx context.Context, e tasksolver.Event) error
	Load(ctx context.Context, sessionID string) (*tasksolver.EventCollection, error)
}

// collect builds a collection from events sorted by timestamp. Events with
// equal timestamps keep the order they were read in.
func collect(events []tasksolver.Event) (*tasksolver.EventCollection, error) {
	slices.SortStableFunc(events, func(a, b tasksolver.Event) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	c := tasksolver.NewEventCollection()
	for _, e := range events {
		if err := c.Add(e); err != nil {
			return nil, err
		}
	}
	return c, nil
}
