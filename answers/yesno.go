package answers

import (
	"errors"
	"regexp"
	"strings"

	"github.com/rickchristie/tasksolver"
)

var punctuation = regexp.MustCompile(`[^\w\s]`)

// YesNo is a yes/no decision.
type YesNo struct {
	Decision string
	raw      string
}

// NewYesNo creates a decision by hand, for use in task examples.
func NewYesNo(yes bool) *YesNo {
	if yes {
		return &YesNo{Decision: "yes", raw: "yes"}
	}
	return &YesNo{Decision: "no", raw: "no"}
}

// ParseYesNo lowercases raw, strips punctuation and reads the first word,
// which must be "yes" or "no".
func ParseYesNo(raw string) (*YesNo, error) {
	normalized := punctuation.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "")
	fields := strings.Fields(normalized)
	if len(fields) == 0 {
		return nil, tasksolver.NewParseError(NameYesNo, "empty answer", raw)
	}
	switch fields[0] {
	case "yes", "no":
		return &YesNo{Decision: fields[0], raw: raw}, nil
	}
	return nil, tasksolver.NewParseError(NameYesNo, fields[0]+" cannot be parsed to yes/no", raw)
}

func (a *YesNo) String() string { return a.Decision }
func (a *YesNo) Raw() string    { return a.raw }

// Success reports a "yes" decision.
func (a *YesNo) Success() bool { return a.Decision == "yes" }

// YesNoType is the AnswerType of YesNo.
var YesNoType = tasksolver.AnswerType{
	Name:     NameYesNo,
	Parse:    parser(ParseYesNo),
	Guidance: "Answer with yes or no only, and no other words.\nFor example,\nyes.",
}

const (
	reasonMarker = "[#reason]"
	finalMarker  = "[#finalanswer]"
)

// YesNoWhy is a yes/no decision with the reasoning that led to it.
type YesNoWhy struct {
	Decision string
	Reason   string
	raw      string
}

// ParseYesNoWhy reads the reasoning between [#reason] and [#finalanswer] and
// the decision after [#finalanswer].
func ParseYesNoWhy(raw string) (*YesNoWhy, error) {
	if !strings.Contains(raw, reasonMarker) {
		return nil, tasksolver.NewParseError(NameYesNoWhy, "missing "+reasonMarker+" tag", raw)
	}
	if !strings.Contains(raw, finalMarker) {
		return nil, tasksolver.NewParseError(NameYesNoWhy, "missing "+finalMarker+" tag", raw)
	}

	_, afterReason, _ := strings.Cut(raw, reasonMarker)
	reason, _, _ := strings.Cut(afterReason, finalMarker)

	idx := strings.Index(raw, finalMarker)
	decision, err := ParseYesNo(raw[idx+len(finalMarker):])
	if err != nil {
		var perr *tasksolver.ParseError
		if errors.As(err, &perr) {
			return nil, tasksolver.NewParseError(NameYesNoWhy, "final answer: "+perr.Reason, raw)
		}
		return nil, err
	}

	return &YesNoWhy{Decision: decision.Decision, Reason: strings.TrimSpace(reason), raw: raw}, nil
}

func (a *YesNoWhy) String() string { return a.Decision + ": " + a.Reason }
func (a *YesNoWhy) Raw() string    { return a.raw }

// Success reports a "yes" decision.
func (a *YesNoWhy) Success() bool { return a.Decision == "yes" }

// YesNoWhyType is the AnswerType of YesNoWhy.
var YesNoWhyType = tasksolver.AnswerType{
	Name:  NameYesNoWhy,
	Parse: parser(ParseYesNoWhy),
	Guidance: "Write the tag [#reason] followed by your reasoning for the final decision, " +
		"then the tag [#finalanswer] followed by the final answer (yes/no).\n" +
		"For example,\n[#reason]\nyour reasoning goes here.\n\n[#finalanswer]\nyes.",
}
