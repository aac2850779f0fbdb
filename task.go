package tasksolver

import (
	"context"
	"fmt"
)

// Tags attached to the items of a task prompt. Filter a prompt with them to
// extract or drop whole sections.
const (
	TagTaskDescTitle   = "TASK_DESC_TITLE"
	TagTaskDescContent = "TASK_DESC_CONTENT"
	TagTaskFormat      = "TASK_FORMAT_CONTENT"

	TagBackgroundTitle   = "BACKGROUND_TITLE"
	TagBackgroundContent = "BACKGROUND_CONTENT"

	TagExamplesTitle           = "EXAMPLES_TITLE"
	TagExamplesContent         = "EXAMPLES_CONTENT"
	TagExamplesQuestionTitle   = "EXAMPLES_QUESTION_TITLE"
	TagExamplesQuestionContent = "EXAMPLES_QUESTION_CONTENT"
	TagExamplesReasonTitle     = "EXAMPLES_REASON_TITLE"
	TagExamplesReasonContent   = "EXAMPLES_REASON_CONTENT"
	TagExamplesAnswerTitle     = "EXAMPLES_ANSWER_TITLE"
	TagExamplesAnswerContent   = "EXAMPLES_ANSWER_CONTENT"

	TagQuestionTitle   = "QUESTION_TITLE"
	TagQuestionContent = "QUESTION_CONTENT"
)

// TagExample returns the tag shared by every item of the i-th example
// (1-based).
func TagExample(i int) string {
	return fmt.Sprintf("EXAMPLE_%d", i)
}

const (
	taskDescTitle   = "# Task Description"
	backgroundTitle = "# Background information"
	examplesTitle   = "# Examples"
	questionTitle   = "# Your turn -- please complete the following task:"
)

// Example is a worked question/answer pair shown to the model.
type Example struct {
	Question    *Question
	Answer      ParsedAnswer
	Explanation string
}

// Exchange is one question posed to a model and the answer it produced.
type Exchange struct {
	Question *Question
	Answer   ParsedAnswer
}

// History is what a follow-up function sees of a session so far.
type History struct {
	Exchanges   []Exchange
	Evaluations []Evaluate
}

// Session is the view of a running agent given to completion functions.
type Session interface {
	SessionID() string
	Events() *EventCollection

	// Provider is the backend the session thinks with. Completion checks
	// usually ask it a yes/no question through their own task.
	Provider() Provider
}

// NextQuestionFunc produces the follow-up question after a failed evaluation.
type NextQuestionFunc func(ctx context.Context, h History) (*Question, error)

// CompletionFunc judges whether a session has finished its task. It returns
// the evaluation question it asked and the answer it got; the session is
// complete when the answer is a successful Successer.
type CompletionFunc func(ctx context.Context, s Session) (*Question, ParsedAnswer, error)

// TaskSpec describes a task: its description, answer grammar, worked examples
// and optional background. Add examples before first use; a TaskSpec is
// read-only afterwards and safe for concurrent use.
type TaskSpec struct {
	Name        string
	Description string
	AnswerType  AnswerType
	Background  *Question
	Examples    []Example

	// FormatGuidance adds the answer type's guidance to the task description.
	FormatGuidance bool

	NextQuestionFunc NextQuestionFunc
	Completed        CompletionFunc
}

// NewTaskSpec creates a task with the given description and answer grammar.
func NewTaskSpec(name, description string, answer AnswerType) *TaskSpec {
	return &TaskSpec{Name: name, Description: description, AnswerType: answer}
}

// AddExample appends a worked example. Explanation may be empty.
func (t *TaskSpec) AddExample(q *Question, answer ParsedAnswer, explanation string) error {
	if q == nil || q.Len() == 0 {
		return fmt.Errorf("%w: example %d has no question", ErrInvalidExample, len(t.Examples)+1)
	}
	if answer == nil {
		return fmt.Errorf("%w: example %d has no answer", ErrInvalidExample, len(t.Examples)+1)
	}
	t.Examples = append(t.Examples, Example{Question: q, Answer: answer, Explanation: explanation})
	return nil
}

// Parse runs the task's answer grammar on raw model output.
func (t *TaskSpec) Parse(raw string) (ParsedAnswer, error) {
	if t.AnswerType.Parse == nil {
		return nil, fmt.Errorf("%w: task %q has no answer parser", ErrInvalidTask, t.Name)
	}
	return t.AnswerType.Parse(raw)
}

// Validate reports whether the task can be used by a solver.
func (t *TaskSpec) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil task", ErrInvalidTask)
	}
	if t.AnswerType.Parse == nil {
		return fmt.Errorf("%w: task %q has no answer parser", ErrInvalidTask, t.Name)
	}
	return nil
}

// TaskComponent returns the task description section.
func (t *TaskSpec) TaskComponent(filter ...string) *Question {
	items := []Item{
		Tagged(Text(taskDescTitle), TagTaskDescTitle),
		Tagged(Text(t.Description), TagTaskDescContent),
	}
	if t.FormatGuidance && t.AnswerType.Guidance != "" {
		items = append(items, Tagged(Text(t.AnswerType.Guidance), TagTaskFormat))
	}
	return NewQuestion(items...).Subquestion(filter...)
}

// BackgroundComponent returns the background section, empty when the task has
// no background.
func (t *TaskSpec) BackgroundComponent(filter ...string) *Question {
	if t.Background.Len() == 0 {
		return NewQuestion()
	}
	return NewQuestion(
		Tagged(Text(backgroundTitle), TagBackgroundTitle),
		Tagged(t.Background, TagBackgroundContent),
	).Subquestion(filter...)
}

// ExamplesComponent returns the worked examples section, empty when the task
// has no examples.
func (t *TaskSpec) ExamplesComponent(filter ...string) *Question {
	if len(t.Examples) == 0 {
		return NewQuestion()
	}
	items := []Item{
		Tagged(Text(examplesTitle), TagExamplesTitle),
		Tagged(Text(fmt.Sprintf("Here are %d examples:", len(t.Examples))), TagExamplesContent),
	}
	for i, ex := range t.Examples {
		n := i + 1
		tag := TagExample(n)
		items = append(items,
			Tagged(Text(fmt.Sprintf("(Ex #%d) Question:", n)), TagExamplesQuestionTitle, tag),
			Tagged(ex.Question, TagExamplesQuestionContent, tag),
		)
		if ex.Explanation != "" {
			items = append(items,
				Tagged(Text(fmt.Sprintf("(Ex #%d) Reasoning:", n)), TagExamplesReasonTitle, tag),
				Tagged(Text(ex.Explanation), TagExamplesReasonContent, tag),
			)
		}
		items = append(items,
			Tagged(Text(fmt.Sprintf("(Ex #%d) Answer:", n)), TagExamplesAnswerTitle, tag),
			Tagged(ex.Answer, TagExamplesAnswerContent, tag),
			T("\n\n"),
		)
	}
	return NewQuestion(items...).Subquestion(filter...)
}

// PromptComponent wraps the user's question in the "your turn" section.
func (t *TaskSpec) PromptComponent(q *Question, filter ...string) *Question {
	return NewQuestion(
		Tagged(Text(questionTitle), TagQuestionTitle),
		Tagged(q, TagQuestionContent),
	).Subquestion(filter...)
}

// FirstQuestion builds the full opening prompt for q: description, background,
// examples, then the question itself.
func (t *TaskSpec) FirstQuestion(q *Question) *Question {
	return Concat(
		t.TaskComponent(),
		t.BackgroundComponent(),
		t.ExamplesComponent(),
		t.PromptComponent(q),
	)
}

// NextQuestion asks the task's follow-up function for the next question.
func (t *TaskSpec) NextQuestion(ctx context.Context, h History) (*Question, error) {
	if t.NextQuestionFunc == nil {
		return nil, fmt.Errorf("%w: task %q", ErrNoFollowUp, t.Name)
	}
	return t.NextQuestionFunc(ctx, h)
}

// HistoryOf collects the exchanges and evaluations recorded in events.
func HistoryOf(events *EventCollection) History {
	var h History
	for _, e := range events.Events() {
		switch {
		case e.Think != nil:
			h.Exchanges = append(h.Exchanges, e.Think.Exchanges...)
		case e.Evaluate != nil:
			h.Evaluations = append(h.Evaluations, *e.Evaluate)
		}
	}
	return h
}
