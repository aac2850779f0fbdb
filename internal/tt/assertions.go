package tt

import (
	"testing"

	"github.com/rickchristie/tasksolver"
	"github.com/stretchr/testify/assert"
)

// -----------------------------------------------------------------------------
// Event Collection Helpers
// -----------------------------------------------------------------------------

// Kinds returns the kind of every event in c, in insertion order.
func Kinds(c *tasksolver.EventCollection) []tasksolver.EventKind {
	var out []tasksolver.EventKind
	for _, e := range c.Events() {
		out = append(out, e.Kind)
	}
	return out
}

// CountKinds returns how many events of each kind c holds.
func CountKinds(c *tasksolver.EventCollection) map[tasksolver.EventKind]int {
	counts := make(map[tasksolver.EventKind]int)
	for _, e := range c.Events() {
		counts[e.Kind]++
	}
	return counts
}

// AssertEventsEqual compares two event sequences by session, timestamp and
// payload. Event ids are generated and are not compared.
func AssertEventsEqual(t *testing.T, expected, actual []tasksolver.Event) {
	t.Helper()

	if !assert.Len(t, actual, len(expected), "event count mismatch") {
		return
	}
	for i := range expected {
		assertEventEqual(t, i, expected[i], actual[i])
	}
}

func assertEventEqual(t *testing.T, i int, expected, actual tasksolver.Event) {
	t.Helper()

	assert.Equal(t, expected.Kind, actual.Kind, "event %d: kind", i)
	assert.Equal(t, expected.SessionID, actual.SessionID, "event %d: session", i)
	assert.True(t, expected.Timestamp.Equal(actual.Timestamp),
		"event %d: timestamp %s != %s", i, expected.Timestamp, actual.Timestamp)

	// Answers and questions do not survive JSON as the same Go types, so
	// compare payloads through their rendered form.
	assert.Equal(t, expected.String(), actual.String(), "event %d: payload", i)
}
