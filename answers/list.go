package answers

import (
	"strings"

	"github.com/rickchristie/tasksolver"
)

// StarredList is a bullet list written with "* " markers.
type StarredList struct {
	Items []string
	raw   string
}

// NewStarredList creates a list by hand, for use in task examples.
func NewStarredList(items ...string) *StarredList {
	l := &StarredList{Items: items}
	l.raw = l.String()
	return l
}

// ParseStarredList never fails. A line starting with "* " opens an item and
// following lines continue it. Text before the first item is ignored.
func ParseStarredList(raw string) (*StarredList, error) {
	var items []string
	var current strings.Builder
	open := false

	flush := func() {
		if open {
			items = append(items, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		if rest, ok := strings.CutPrefix(line, "* "); ok {
			flush()
			open = true
			current.WriteString(rest)
			current.WriteByte(' ')
			continue
		}
		if open {
			current.WriteString(line)
			current.WriteByte(' ')
		}
	}
	flush()

	return &StarredList{Items: items, raw: raw}, nil
}

// String renders one "* item" line per item, which parses back to the same
// items.
func (a *StarredList) String() string {
	lines := make([]string, len(a.Items))
	for i, it := range a.Items {
		lines[i] = "* " + it
	}
	return strings.Join(lines, "\n")
}

func (a *StarredList) Raw() string { return a.raw }

// StarredListType is the AnswerType of StarredList.
var StarredListType = tasksolver.AnswerType{
	Name:     NameStarredList,
	Parse:    parser(ParseStarredList),
	Guidance: "Write a new-line separated bullet point list.\nFor example,\n* first item\n* second item",
}
