package tasksolver

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func TestEvent_JSONByKind(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		check   func(t *testing.T, e Event)
	}{
		{
			name: "think",
			payload: &Think{Exchanges: []Exchange{
				{Question: Texts("which way?"), Answer: word("yes")},
			}},
			check: func(t *testing.T, e Event) {
				require.NotNil(t, e.Think)
				require.Len(t, e.Think.Exchanges, 1)
				x := e.Think.Exchanges[0]
				assert.Equal(t, "which way?", x.Question.String())
				assert.Equal(t, "yes", x.Answer.String())
				assert.True(t, IsSuccess(x.Answer))
			},
		},
		{
			name:    "act",
			payload: &Act{Action: "move left", Detail: "x=3"},
			check: func(t *testing.T, e Event) {
				assert.Equal(t, &Act{Action: "move left", Detail: "x=3"}, e.Act)
			},
		},
		{
			name:    "act error",
			payload: &ActError{Action: "jump", Error: "blocked"},
			check: func(t *testing.T, e Event) {
				assert.Equal(t, &ActError{Action: "jump", Error: "blocked"}, e.ActError)
			},
		},
		{
			name:    "observe",
			payload: &Observe{Summary: "door open", State: map[string]any{"door": "open"}},
			check: func(t *testing.T, e Event) {
				require.NotNil(t, e.Observe)
				assert.Equal(t, "door open", e.Observe.Summary)
				assert.Equal(t, "open", e.Observe.State["door"])
			},
		},
		{
			name:    "evaluate",
			payload: &Evaluate{Question: Texts("done?"), Answer: word("no"), Success: false},
			check: func(t *testing.T, e Event) {
				require.NotNil(t, e.Evaluate)
				assert.Equal(t, "done?", e.Evaluate.Question.String())
				assert.Equal(t, "no", e.Evaluate.Answer.Raw())
				assert.False(t, e.Evaluate.Success)
			},
		},
		{
			name:    "feedback",
			payload: &Feedback{Question: Texts("try again")},
			check: func(t *testing.T, e Event) {
				require.NotNil(t, e.Feedback)
				assert.Equal(t, "try again", e.Feedback.Question.String())
			},
		},
		{
			name:    "interact",
			payload: &Interact{Author: "ana", Correction: "use the red key", Reason: "blue is wrong"},
			check: func(t *testing.T, e Event) {
				assert.Equal(t, &Interact{Author: "ana", Correction: "use the red key", Reason: "blue is wrong"}, e.Interact)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvent("session-1", fixedTime, tt.payload)
			data, err := json.Marshal(e)
			require.NoError(t, err)

			var back Event
			require.NoError(t, json.Unmarshal(data, &back))
			require.NoError(t, back.Validate())

			assert.Equal(t, e.ID, back.ID)
			assert.Equal(t, tt.payload.EventKind(), back.Kind)
			assert.Equal(t, "session-1", back.SessionID)
			assert.True(t, fixedTime.Equal(back.Timestamp))
			tt.check(t, back)
		})
	}
}

func TestEvent_UnmarshalRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unknown type", input: `{"id":"1","type":"DANCE","payload":{}}`},
		{name: "missing payload", input: `{"id":"1","type":"ACT"}`},
		{name: "null payload", input: `{"id":"1","type":"ACT","payload":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Event
			assert.ErrorIs(t, json.Unmarshal([]byte(tt.input), &e), ErrInvalidEvent)
		})
	}
}

func TestEvent_Validate(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		valid bool
	}{
		{name: "matching payload", event: Event{Kind: KindAct, Act: &Act{}}, valid: true},
		{name: "no payload", event: Event{Kind: KindAct}},
		{name: "two payloads", event: Event{Kind: KindAct, Act: &Act{}, Observe: &Observe{}}},
		{name: "kind mismatch", event: Event{Kind: KindThink, Act: &Act{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidEvent)
			_, err = json.Marshal(tt.event)
			assert.Error(t, err)
		})
	}
}

func TestEventCollection(t *testing.T) {
	c := NewEventCollection()
	assert.NotEmpty(t, c.ID)

	require.NoError(t, c.Add(NewEvent("s", fixedTime.Add(2*time.Second), &Act{Action: "second"})))
	require.NoError(t, c.Add(NewEvent("s", fixedTime, &Act{Action: "first"})))
	require.NoError(t, c.Add(NewEvent("s", fixedTime.Add(2*time.Second), &Observe{Summary: "third"})))
	assert.ErrorIs(t, c.Add(Event{Kind: KindAct}), ErrInvalidEvent)

	assert.Equal(t, 3, c.Len())
	assert.True(t, c.Has(KindObserve))
	assert.False(t, c.Has(KindThink))
	assert.Len(t, c.Filter(KindAct), 2)

	sorted := c.TimeSorted()
	assert.Equal(t, "first", sorted[0].Act.Action)
	assert.Equal(t, "second", sorted[1].Act.Action)
	assert.Equal(t, "third", sorted[2].Observe.Summary)

	// insertion order is untouched
	assert.Equal(t, "second", c.Events()[0].Act.Action)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	var back EventCollection
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c.ID, back.ID)
	assert.Equal(t, 3, back.Len())

	assert.Contains(t, c.String(), "[ACT] second")
}

func TestEvent_StringSummary(t *testing.T) {
	tests := []struct {
		name     string
		action   string
		expected string
	}{
		{
			name:     "whitespace collapsed",
			action:   "  move\n\tleft  ",
			expected: "move left",
		},
		{
			name:     "exactly the limit",
			action:   strings.Repeat("é", 120),
			expected: strings.Repeat("é", 120),
		},
		{
			name:     "multi-byte runes cut on a boundary",
			action:   strings.Repeat("猫", 130),
			expected: strings.Repeat("猫", 117) + "...",
		},
		{
			name:     "ascii cut",
			action:   strings.Repeat("a", 200),
			expected: strings.Repeat("a", 117) + "...",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewEvent("s", fixedTime, &Act{Action: tc.action}).String()
			assert.True(t, utf8.ValidString(s))
			assert.True(t, strings.HasSuffix(s, "[ACT] "+tc.expected), s)
		})
	}
}
