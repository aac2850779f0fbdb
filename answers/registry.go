package answers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rickchristie/tasksolver"
)

// Grammar names, as used in task files.
const (
	NameYesNo       = "yesno"
	NameYesNoWhy    = "yesnowhy"
	NameLeftOrRight = "leftorright"
	NameStarredList = "starredlist"
	NameNumber      = "number"
	NameCode        = "code"
	NameCodeDiff    = "codediff"
	NameText        = "text"
)

// parser adapts a typed parse function to tasksolver.Parser without leaking
// typed nil pointers on failure.
func parser[T tasksolver.ParsedAnswer](parse func(string) (T, error)) tasksolver.Parser {
	return func(raw string) (tasksolver.ParsedAnswer, error) {
		a, err := parse(raw)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
}

func registry() map[string]tasksolver.AnswerType {
	return map[string]tasksolver.AnswerType{
		NameYesNo:       YesNoType,
		NameYesNoWhy:    YesNoWhyType,
		NameLeftOrRight: LeftOrRightType,
		NameStarredList: StarredListType,
		NameNumber:      NumberType,
		NameCode:        CodeType,
		NameCodeDiff:    CodeDiffType,
		NameText:        TextType,
	}
}

// Lookup returns the answer type registered under name. Code grammars accept
// a language suffix, as in "code:go" or "codediff:rust".
func Lookup(name string) (tasksolver.AnswerType, error) {
	if base, lang, ok := strings.Cut(name, ":"); ok && lang != "" {
		switch base {
		case NameCode:
			return CodeFor(lang), nil
		case NameCodeDiff:
			return CodeDiffFor(lang), nil
		}
	}
	t, ok := registry()[name]
	if !ok {
		return tasksolver.AnswerType{}, fmt.Errorf("%w: unknown answer type %q", tasksolver.ErrInvalidTask, name)
	}
	return t, nil
}

// Names returns the registered grammar names, sorted.
func Names() []string {
	r := registry()
	out := make([]string, 0, len(r))
	for name := range r {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
