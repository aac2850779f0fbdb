package answers

import "github.com/rickchristie/tasksolver"

// Text is raw model output, unparsed.
type Text string

func ParseText(raw string) (Text, error) { return Text(raw), nil }

func (a Text) String() string { return string(a) }
func (a Text) Raw() string    { return string(a) }

// TextType is the AnswerType of Text.
var TextType = tasksolver.AnswerType{
	Name:  NameText,
	Parse: parser(ParseText),
}
