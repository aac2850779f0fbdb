package answers

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rickchristie/tasksolver"
)

// DefaultLanguage is the fence language of CodeType and CodeDiffType.
const DefaultLanguage = "python"

const fence = "```"

// Code is a block of source code extracted from a fenced block.
type Code struct {
	Lang   string
	Source string
	raw    string
}

// NewCode creates a code answer by hand, for use in task examples.
func NewCode(lang, source string) *Code {
	c := &Code{Lang: lang, Source: source}
	c.raw = c.String()
	return c
}

// ParseCode extracts the code after the last ```<lang> fence, up to the next
// closing fence. Surrounding newlines are trimmed.
func ParseCode(lang, raw string) (*Code, error) {
	source, err := extractCode(lang, raw)
	if err != nil {
		return nil, tasksolver.NewParseError(NameCode, err.Error(), raw)
	}
	return &Code{Lang: lang, Source: source, raw: raw}, nil
}

type fenceError string

func (e fenceError) Error() string { return string(e) }

func extractCode(lang, s string) (string, error) {
	open := fence + lang
	idx := strings.LastIndex(s, open)
	if idx < 0 {
		return "", fenceError("no " + open + " found in the input")
	}
	rest := s[idx+len(open):]
	end := strings.Index(rest, fence)
	if end < 0 {
		return "", fenceError("no " + fence + " found to close the code block")
	}
	return strings.Trim(rest[:end], "\r\n"), nil
}

// String renders the code inside a fenced block.
func (a *Code) String() string {
	return fence + a.Lang + "\n" + a.Source + "\n" + fence
}

func (a *Code) Raw() string { return a.raw }

// CodeFor returns the AnswerType of Code fenced with lang.
func CodeFor(lang string) tasksolver.AnswerType {
	name := NameCode
	if lang != DefaultLanguage {
		name = NameCode + ":" + lang
	}
	return tasksolver.AnswerType{
		Name: name,
		Parse: parser(func(raw string) (*Code, error) {
			return ParseCode(lang, raw)
		}),
		Guidance: "Write a block of " + lang + " code, fenced with " + fence + lang + " and " + fence + ". " +
			"Add comments to explain what you are doing.\nFor example,\n" +
			fence + lang + "\n# create a, and give it an initial value\na = 1\n# increment it\na += 1\n" + fence,
	}
}

// CodeType is the AnswerType of python Code.
var CodeType = CodeFor(DefaultLanguage)

// CodeDiff is a change from one block of code to another, labelled Before and
// After.
type CodeDiff struct {
	Lang string
	From string
	To   string
	raw  string
}

// ParseCodeDiff reads the code before the first "After" label, which must
// contain "Before", and the code after the last "After" label.
func ParseCodeDiff(lang, raw string) (*CodeDiff, error) {
	first := strings.Index(raw, "After")
	if first < 0 {
		return nil, tasksolver.NewParseError(NameCodeDiff, "missing After label", raw)
	}
	beforeText := raw[:first]
	if !strings.Contains(beforeText, "Before") {
		return nil, tasksolver.NewParseError(NameCodeDiff, "missing Before label", raw)
	}
	afterText := raw[strings.LastIndex(raw, "After")+len("After"):]

	from, err := extractCode(lang, beforeText)
	if err != nil {
		return nil, tasksolver.NewParseError(NameCodeDiff, "before: "+err.Error(), raw)
	}
	to, err := extractCode(lang, afterText)
	if err != nil {
		return nil, tasksolver.NewParseError(NameCodeDiff, "after: "+err.Error(), raw)
	}
	return &CodeDiff{Lang: lang, From: from, To: to, raw: raw}, nil
}

// String renders the Before/After blocks in the form ParseCodeDiff reads.
func (a *CodeDiff) String() string {
	return "Before:\n" + fence + a.Lang + "\n" + a.From + "\n" + fence + "\n" +
		"After:\n" + fence + a.Lang + "\n" + a.To + "\n" + fence
}

func (a *CodeDiff) Raw() string { return a.raw }

// Diff renders the change as a unified diff.
func (a *CodeDiff) Diff() (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a.From + "\n"),
		B:        difflib.SplitLines(a.To + "\n"),
		FromFile: "before",
		ToFile:   "after",
		Context:  3,
	})
}

// CodeDiffFor returns the AnswerType of CodeDiff fenced with lang.
func CodeDiffFor(lang string) tasksolver.AnswerType {
	name := NameCodeDiff
	if lang != DefaultLanguage {
		name = NameCodeDiff + ":" + lang
	}
	return tasksolver.AnswerType{
		Name: name,
		Parse: parser(func(raw string) (*CodeDiff, error) {
			return ParseCodeDiff(lang, raw)
		}),
		Guidance: "Describe a change to a single line with \"Before:\" and \"After:\" labels, each followed " +
			"by a " + lang + " code block.\nFor example,\nBefore:\n" + fence + lang + "\na = 1\n" + fence +
			"\nAfter:\n" + fence + lang + "\na = 2\n" + fence,
	}
}

// CodeDiffType is the AnswerType of python CodeDiff.
var CodeDiffType = CodeDiffFor(DefaultLanguage)
