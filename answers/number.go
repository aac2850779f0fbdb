package answers

import (
	"strconv"
	"strings"

	"github.com/rickchristie/tasksolver"
)

// Number is a bare non-negative integer. Digits are kept as text so leading
// zeros and very large values survive.
type Number struct {
	Digits string
	raw    string
}

// ParseNumber trims whitespace, then surrounding '.' and ',' characters, and
// expects only ASCII digits.
func ParseNumber(raw string) (*Number, error) {
	s := strings.Trim(strings.Trim(strings.TrimSpace(raw), "."), ",")
	if s == "" {
		return nil, tasksolver.NewParseError(NameNumber, "output should only contain a number", raw)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil, tasksolver.NewParseError(NameNumber, "output should only contain a number", raw)
		}
	}
	return &Number{Digits: s, raw: raw}, nil
}

func (a *Number) String() string { return a.Digits }
func (a *Number) Raw() string    { return a.raw }

// Int converts the digits to an int.
func (a *Number) Int() (int, error) {
	return strconv.Atoi(a.Digits)
}

// NumberType is the AnswerType of Number.
var NumberType = tasksolver.AnswerType{
	Name:     NameNumber,
	Parse:    parser(ParseNumber),
	Guidance: "Reply with just a simple number.\nFor example,\n90",
}
