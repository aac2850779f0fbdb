package tasksolver

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// EventKind discriminates the payload of an Event.
type EventKind string

const (
	KindThink    EventKind = "THINK"
	KindAct      EventKind = "ACT"
	KindActError EventKind = "ACT_ERROR"
	KindObserve  EventKind = "OBSERVE"
	KindEvaluate EventKind = "EVALUATE"
	KindFeedback EventKind = "FEEDBACK"
	KindInteract EventKind = "INTERACT"
)

// Payload is implemented by every event payload type.
type Payload interface {
	EventKind() EventKind
}

// Think records the exchanges a model went through to produce a thought.
type Think struct {
	Exchanges []Exchange `json:"exchanges"`
}

// Act records an action carried out in the environment.
type Act struct {
	Action string `json:"action"`
	Detail string `json:"detail,omitempty"`
}

// ActError records an action that failed.
type ActError struct {
	Action string `json:"action"`
	Error  string `json:"error"`
}

// Observe records the environment state after acting.
type Observe struct {
	Summary string         `json:"summary"`
	State   map[string]any `json:"state,omitempty"`
}

// Evaluate records a completion check.
type Evaluate struct {
	Question *Question
	Answer   ParsedAnswer
	Success  bool
}

// Feedback records the follow-up question produced after a failed evaluation.
type Feedback struct {
	Question *Question `json:"question"`
}

// Interact records a human correction.
type Interact struct {
	Author     string `json:"author,omitempty"`
	Correction string `json:"correction"`
	Reason     string `json:"reason,omitempty"`
}

func (*Think) EventKind() EventKind    { return KindThink }
func (*Act) EventKind() EventKind      { return KindAct }
func (*ActError) EventKind() EventKind { return KindActError }
func (*Observe) EventKind() EventKind  { return KindObserve }
func (*Evaluate) EventKind() EventKind { return KindEvaluate }
func (*Feedback) EventKind() EventKind { return KindFeedback }
func (*Interact) EventKind() EventKind { return KindInteract }

// Event is one entry of a session log. Exactly one payload field is set, the
// one matching Kind.
type Event struct {
	ID        string
	Kind      EventKind
	SessionID string
	Timestamp time.Time

	Think    *Think
	Act      *Act
	ActError *ActError
	Observe  *Observe
	Evaluate *Evaluate
	Feedback *Feedback
	Interact *Interact
}

// NewEvent creates an event carrying p.
func NewEvent(sessionID string, at time.Time, p Payload) Event {
	e := Event{
		ID:        uuid.NewString(),
		Kind:      p.EventKind(),
		SessionID: sessionID,
		Timestamp: at,
	}
	e.setPayload(p)
	return e
}

func (e *Event) setPayload(p Payload) {
	switch v := p.(type) {
	case *Think:
		e.Think = v
	case *Act:
		e.Act = v
	case *ActError:
		e.ActError = v
	case *Observe:
		e.Observe = v
	case *Evaluate:
		e.Evaluate = v
	case *Feedback:
		e.Feedback = v
	case *Interact:
		e.Interact = v
	}
}

// Payload returns the event's payload, or nil if none is set.
func (e Event) Payload() Payload {
	var set []Payload
	if e.Think != nil {
		set = append(set, e.Think)
	}
	if e.Act != nil {
		set = append(set, e.Act)
	}
	if e.ActError != nil {
		set = append(set, e.ActError)
	}
	if e.Observe != nil {
		set = append(set, e.Observe)
	}
	if e.Evaluate != nil {
		set = append(set, e.Evaluate)
	}
	if e.Feedback != nil {
		set = append(set, e.Feedback)
	}
	if e.Interact != nil {
		set = append(set, e.Interact)
	}
	if len(set) != 1 {
		return nil
	}
	return set[0]
}

// Validate checks that exactly one payload is set and that it matches Kind.
func (e Event) Validate() error {
	p := e.Payload()
	if p == nil {
		return fmt.Errorf("%w: event %s must carry exactly one payload", ErrInvalidEvent, e.ID)
	}
	if p.EventKind() != e.Kind {
		return fmt.Errorf("%w: event %s is %s but carries a %s payload",
			ErrInvalidEvent, e.ID, e.Kind, p.EventKind())
	}
	return nil
}

// String renders a one-line summary of the event.
func (e Event) String() string {
	var detail string
	switch {
	case e.Think != nil:
		if n := len(e.Think.Exchanges); n > 0 {
			if a := e.Think.Exchanges[n-1].Answer; a != nil {
				detail = a.String()
			}
		}
	case e.Act != nil:
		detail = e.Act.Action
	case e.ActError != nil:
		detail = e.ActError.Action + ": " + e.ActError.Error
	case e.Observe != nil:
		detail = e.Observe.Summary
	case e.Evaluate != nil:
		detail = fmt.Sprintf("success=%t", e.Evaluate.Success)
	case e.Feedback != nil:
		detail = e.Feedback.Question.String()
	case e.Interact != nil:
		detail = e.Interact.Correction
	}
	return fmt.Sprintf("%s [%s] %s", e.Timestamp.Format(time.RFC3339), e.Kind, oneLine(detail))
}

// oneLine collapses whitespace and cuts s to 120 runes.
func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= 120 {
		return s
	}
	runes := []rune(s)
	return string(runes[:117]) + "..."
}

type eventJSON struct {
	ID        string          `json:"id"`
	Type      EventKind       `json:"type"`
	SessionID string          `json:"session"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// MarshalJSON encodes the event with a "type" discriminator.
func (e Event) MarshalJSON() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(e.Payload())
	if err != nil {
		return nil, err
	}
	return json.Marshal(eventJSON{
		ID:        e.ID,
		Type:      e.Kind,
		SessionID: e.SessionID,
		Timestamp: e.Timestamp,
		Payload:   payload,
	})
}

// UnmarshalJSON decodes an event, rejecting unknown types.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw eventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var p Payload
	switch raw.Type {
	case KindThink:
		p = &Think{}
	case KindAct:
		p = &Act{}
	case KindActError:
		p = &ActError{}
	case KindObserve:
		p = &Observe{}
	case KindEvaluate:
		p = &Evaluate{}
	case KindFeedback:
		p = &Feedback{}
	case KindInteract:
		p = &Interact{}
	default:
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidEvent, raw.Type)
	}
	if len(raw.Payload) == 0 || string(raw.Payload) == "null" {
		return fmt.Errorf("%w: %s event %s has no payload", ErrInvalidEvent, raw.Type, raw.ID)
	}
	if err := json.Unmarshal(raw.Payload, p); err != nil {
		return fmt.Errorf("decode %s payload: %w", raw.Type, err)
	}

	*e = Event{
		ID:        raw.ID,
		Kind:      raw.Type,
		SessionID: raw.SessionID,
		Timestamp: raw.Timestamp,
	}
	e.setPayload(p)
	return nil
}

type exchangeJSON struct {
	Question *Question     `json:"question"`
	Answer   *StoredAnswer `json:"answer,omitempty"`
}

// MarshalJSON encodes the answer through its rendering and raw text.
func (x Exchange) MarshalJSON() ([]byte, error) {
	return json.Marshal(exchangeJSON{Question: x.Question, Answer: storeAnswer(x.Answer)})
}

// UnmarshalJSON restores the answer as a *StoredAnswer.
func (x *Exchange) UnmarshalJSON(data []byte) error {
	var raw exchangeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	x.Question = raw.Question
	x.Answer = nil
	if raw.Answer != nil {
		x.Answer = raw.Answer
	}
	return nil
}

type evaluateJSON struct {
	Question *Question     `json:"question"`
	Answer   *StoredAnswer `json:"answer,omitempty"`
	Success  bool          `json:"success"`
}

func (ev Evaluate) MarshalJSON() ([]byte, error) {
	return json.Marshal(evaluateJSON{
		Question: ev.Question,
		Answer:   storeAnswer(ev.Answer),
		Success:  ev.Success,
	})
}

func (ev *Evaluate) UnmarshalJSON(data []byte) error {
	var raw evaluateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*ev = Evaluate{Question: raw.Question, Success: raw.Success}
	if raw.Answer != nil {
		ev.Answer = raw.Answer
	}
	return nil
}

// StoredAnswer is a ParsedAnswer restored from a serialized event. It keeps
// the rendering and raw text of the original answer.
type StoredAnswer struct {
	Text      string `json:"text"`
	Source    string `json:"raw"`
	Succeeded *bool  `json:"success,omitempty"`
}

func (a *StoredAnswer) String() string { return a.Text }
func (a *StoredAnswer) Raw() string    { return a.Source }

// Success reports the stored judgement; false when the original answer was
// not a Successer.
func (a *StoredAnswer) Success() bool {
	return a.Succeeded != nil && *a.Succeeded
}

func storeAnswer(a ParsedAnswer) *StoredAnswer {
	if a == nil {
		return nil
	}
	if s, ok := a.(*StoredAnswer); ok {
		return s
	}
	stored := &StoredAnswer{Text: a.String(), Source: a.Raw()}
	if s, ok := a.(Successer); ok {
		ok := s.Success()
		stored.Succeeded = &ok
	}
	return stored
}

// EventCollection is the ordered event log of one session.
type EventCollection struct {
	ID     string
	events []Event
}

// NewEventCollection creates an empty collection with a fresh id.
func NewEventCollection() *EventCollection {
	return &EventCollection{ID: uuid.NewString()}
}

// Add appends e after validating it.
func (c *EventCollection) Add(e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	c.events = append(c.events, e)
	return nil
}

// Len returns the number of events.
func (c *EventCollection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.events)
}

// Events returns the events in insertion order.
func (c *EventCollection) Events() []Event {
	if c == nil {
		return nil
	}
	return slices.Clone(c.events)
}

// Filter returns the events of the given kinds, in insertion order.
func (c *EventCollection) Filter(kinds ...EventKind) []Event {
	var out []Event
	for _, e := range c.Events() {
		if slices.Contains(kinds, e.Kind) {
			out = append(out, e)
		}
	}
	return out
}

// Has reports whether the collection holds an event of kind.
func (c *EventCollection) Has(kind EventKind) bool {
	return len(c.Filter(kind)) > 0
}

// TimeSorted returns the events ordered by timestamp. Events with equal
// timestamps keep their insertion order.
func (c *EventCollection) TimeSorted() []Event {
	out := c.Events()
	slices.SortStableFunc(out, func(a, b Event) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return out
}

func (c *EventCollection) String() string {
	var sb strings.Builder
	for i, e := range c.Events() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.String())
	}
	return sb.String()
}

type collectionJSON struct {
	ID     string  `json:"id"`
	Events []Event `json:"events"`
}

func (c *EventCollection) MarshalJSON() ([]byte, error) {
	events := c.Events()
	if events == nil {
		events = []Event{}
	}
	return json.Marshal(collectionJSON{ID: c.ID, Events: events})
}

func (c *EventCollection) UnmarshalJSON(data []byte) error {
	var raw collectionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.ID = raw.ID
	c.events = raw.Events
	return nil
}
