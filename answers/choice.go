package answers

import (
	"regexp"
	"strings"

	"github.com/rickchristie/tasksolver"
)

var fencedBlock = regexp.MustCompile("(?s)```\\s*([^`]+)```")

// LeftOrRight is a choice between two options shown side by side.
type LeftOrRight struct {
	Choice string
	raw    string
}

// ParseLeftOrRight joins every ``` fenced block and expects "left" or "right".
func ParseLeftOrRight(raw string) (*LeftOrRight, error) {
	matches := fencedBlock.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil, tasksolver.NewParseError(NameLeftOrRight, "no ``` fenced block found", raw)
	}
	blocks := make([]string, len(matches))
	for i, m := range matches {
		blocks[i] = m[1]
	}

	choice := strings.ToLower(strings.TrimSpace(strings.Join(blocks, "\n")))
	if choice != "left" && choice != "right" {
		return nil, tasksolver.NewParseError(NameLeftOrRight, "output should be either 'left' or 'right'", raw)
	}
	return &LeftOrRight{Choice: choice, raw: raw}, nil
}

func (a *LeftOrRight) String() string { return a.Choice }
func (a *LeftOrRight) Raw() string    { return a.raw }

// LeftOrRightType is the AnswerType of LeftOrRight.
var LeftOrRightType = tasksolver.AnswerType{
	Name:  NameLeftOrRight,
	Parse: parser(ParseLeftOrRight),
	Guidance: "Put a single word, either \"left\" or \"right\", in a text block indicated by ```.\n" +
		"For example,\nThough the sample on the left is more realistic, the sample on the right " +
		"is better aligned with the prompt.\n```\nright\n```",
}
