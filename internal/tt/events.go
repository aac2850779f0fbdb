package tt

import (
	"time"

	"github.com/rickchristie/tasksolver"
)

// Base is the time fixture events are stamped relative to.
var Base = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

// At returns Base plus sec seconds.
func At(sec int) time.Time {
	return Base.Add(time.Duration(sec) * time.Second)
}

// -----------------------------------------------------------------------------
// Event Builders
// -----------------------------------------------------------------------------

// Think creates a THINK event with one exchange.
func Think(session string, sec int, question, answer string) tasksolver.Event {
	return tasksolver.NewEvent(session, At(sec), &tasksolver.Think{
		Exchanges: []tasksolver.Exchange{{
			Question: tasksolver.Texts(question),
			Answer:   &tasksolver.StoredAnswer{Text: answer, Source: answer},
		}},
	})
}

// Act creates an ACT event.
func Act(session string, sec int, action string) tasksolver.Event {
	return tasksolver.NewEvent(session, At(sec), &tasksolver.Act{Action: action})
}

// ActError creates an ACT_ERROR event.
func ActError(session string, sec int, action, err string) tasksolver.Event {
	return tasksolver.NewEvent(session, At(sec), &tasksolver.ActError{Action: action, Error: err})
}

// Observe creates an OBSERVE event.
func Observe(session string, sec int, summary string) tasksolver.Event {
	return tasksolver.NewEvent(session, At(sec), &tasksolver.Observe{Summary: summary})
}

// Evaluate creates an EVALUATE event.
func Evaluate(session string, sec int, success bool) tasksolver.Event {
	answer := "no"
	if success {
		answer = "yes"
	}
	return tasksolver.NewEvent(session, At(sec), &tasksolver.Evaluate{
		Question: tasksolver.Texts("Is the task complete?"),
		Answer:   &tasksolver.StoredAnswer{Text: answer, Source: answer, Succeeded: &success},
		Success:  success,
	})
}

// Feedback creates a FEEDBACK event.
func Feedback(session string, sec int, question string) tasksolver.Event {
	return tasksolver.NewEvent(session, At(sec), &tasksolver.Feedback{Question: tasksolver.Texts(question)})
}

// Interact creates an INTERACT event.
func Interact(session string, sec int, correction string) tasksolver.Event {
	return tasksolver.NewEvent(session, At(sec), &tasksolver.Interact{Correction: correction})
}
