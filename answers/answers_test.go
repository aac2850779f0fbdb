package answers

import (
	"strings"
	"testing"

	"github.com/rickchristie/tasksolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYesNo(t *testing.T) {
	type expected struct {
		decision string
		success  bool
		err      bool
	}

	tests := []struct {
		name     string
		input    string
		expected expected
	}{
		{name: "plain yes", input: "yes", expected: expected{decision: "yes", success: true}},
		{name: "case and punctuation", input: "  YES!  ", expected: expected{decision: "yes", success: true}},
		{name: "no with period", input: "No.", expected: expected{decision: "no"}},
		{name: "trailing words", input: "Yes, definitely.", expected: expected{decision: "yes", success: true}},
		{name: "empty", input: "   ", expected: expected{err: true}},
		{name: "punctuation only", input: "?!", expected: expected{err: true}},
		{name: "maybe", input: "maybe", expected: expected{err: true}},
		{name: "yes later in sentence", input: "I think yes", expected: expected{err: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := YesNoType.Parse(tt.input)
			if tt.expected.err {
				assert.ErrorIs(t, err, tasksolver.ErrParse)
				assert.Nil(t, a)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.decision, a.String())
			assert.Equal(t, tt.input, a.Raw())
			assert.Equal(t, tt.expected.success, tasksolver.IsSuccess(a))
		})
	}
}

func TestParseYesNoWhy(t *testing.T) {
	type expected struct {
		decision string
		reason   string
		err      bool
	}

	tests := []struct {
		name     string
		input    string
		expected expected
	}{
		{
			name:     "well formed",
			input:    "[#reason]\nthe door is open\n\n[#finalanswer]\nyes.",
			expected: expected{decision: "yes", reason: "the door is open"},
		},
		{
			name:     "text before reason is ignored",
			input:    "Let me think.\n[#reason] too dark [#finalanswer] No",
			expected: expected{decision: "no", reason: "too dark"},
		},
		{name: "missing reason", input: "[#finalanswer] yes", expected: expected{err: true}},
		{name: "missing final answer", input: "[#reason] because", expected: expected{err: true}},
		{name: "bad decision", input: "[#reason] x [#finalanswer] perhaps", expected: expected{err: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseYesNoWhy(tt.input)
			if tt.expected.err {
				assert.ErrorIs(t, err, tasksolver.ErrParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.decision, a.Decision)
			assert.Equal(t, tt.expected.reason, a.Reason)
			assert.Equal(t, tt.expected.decision == "yes", a.Success())
			assert.Equal(t, tt.expected.decision+": "+tt.expected.reason, a.String())
		})
	}
}

func TestParseLeftOrRight(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		err      bool
	}{
		{
			name:     "fenced right",
			input:    "The right sample matches the prompt better.\n```\nright\n```",
			expected: "right",
		},
		{name: "uppercase", input: "```LEFT```", expected: "left"},
		{name: "no fence", input: "left", err: true},
		{name: "other word", input: "```\nup\n```", err: true},
		{name: "two blocks", input: "```left``` and ```right```", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseLeftOrRight(tt.input)
			if tt.err {
				assert.ErrorIs(t, err, tasksolver.ErrParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, a.String())
		})
	}
}

func TestParseStarredList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple",
			input:    "* first item\n* second item",
			expected: []string{"first item", "second item"},
		},
		{
			name:     "preamble and continuation",
			input:    "Here you go:\n* first\ncontinued here\n* second",
			expected: []string{"first continued here", "second"},
		},
		{
			name:     "no items",
			input:    "nothing to list",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseStarredList(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, a.Items)
		})
	}
}

func TestStarredList_RenderIdempotent(t *testing.T) {
	first, err := ParseStarredList("intro\n* alpha\n  beta\n* gamma")
	require.NoError(t, err)

	second, err := ParseStarredList(first.String())
	require.NoError(t, err)
	third, err := ParseStarredList(second.String())
	require.NoError(t, err)

	assert.Equal(t, first.Items, second.Items)
	assert.Equal(t, second.Items, third.Items)
	assert.Equal(t, []string{"alpha   beta", "gamma"}, first.Items)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		err      bool
	}{
		{name: "plain", input: "90", expected: "90"},
		{name: "whitespace and period", input: " 42.\n", expected: "42"},
		{name: "trailing comma", input: "7,", expected: "7"},
		{name: "negative", input: "-3", err: true},
		{name: "decimal", input: "1.5", err: true},
		{name: "words", input: "ninety", err: true},
		{name: "empty", input: "..", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseNumber(tt.input)
			if tt.err {
				assert.ErrorIs(t, err, tasksolver.ErrParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, a.String())
			n, err := a.Int()
			require.NoError(t, err)
			assert.Positive(t, n)
		})
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		name     string
		lang     string
		input    string
		expected string
		err      bool
	}{
		{
			name:     "single block",
			lang:     "python",
			input:    "We increment a.\n```python\na = 1\na += 1\n```\nDone.",
			expected: "a = 1\na += 1",
		},
		{
			name:     "last block wins",
			lang:     "python",
			input:    "```python\nold\n```\nbetter:\n```python\nnew\n```",
			expected: "new",
		},
		{
			name:     "other language",
			lang:     "go",
			input:    "```go\nx := 1\n```",
			expected: "x := 1",
		},
		{name: "missing opening fence", lang: "python", input: "a = 1", err: true},
		{name: "missing closing fence", lang: "python", input: "```python\na = 1", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseCode(tt.lang, tt.input)
			if tt.err {
				assert.ErrorIs(t, err, tasksolver.ErrParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, a.Source)
		})
	}
}

func TestParseCodeDiff(t *testing.T) {
	raw := "Before:\n```python\na=1\n```\nAfter:\n```python\na=2\n```"

	a, err := CodeDiffType.Parse(raw)
	require.NoError(t, err)
	diff := a.(*CodeDiff)
	assert.Equal(t, "a=1", diff.From)
	assert.Equal(t, "a=2", diff.To)
	assert.Equal(t, raw, diff.String())

	unified, err := diff.Diff()
	require.NoError(t, err)
	assert.Contains(t, unified, "-a=1")
	assert.Contains(t, unified, "+a=2")
}

func TestParseCodeDiff_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "no after label", input: "Before:\n```python\na=1\n```"},
		{name: "no before label", input: "```python\na=1\n```\nAfter:\n```python\na=2\n```"},
		{name: "after block missing", input: "Before:\n```python\na=1\n```\nAfter: nothing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCodeDiff(DefaultLanguage, tt.input)
			assert.ErrorIs(t, err, tasksolver.ErrParse)
		})
	}
}

func TestText(t *testing.T) {
	a, err := TextType.Parse("  anything goes  ")
	require.NoError(t, err)
	assert.Equal(t, "  anything goes  ", a.String())
	assert.Equal(t, "  anything goes  ", a.Raw())
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		typ, err := Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, typ.Name)
		assert.NotNil(t, typ.Parse)
	}

	goCode, err := Lookup("code:go")
	require.NoError(t, err)
	assert.Equal(t, "code:go", goCode.Name)

	_, err = Lookup("haiku")
	assert.ErrorIs(t, err, tasksolver.ErrInvalidTask)
}

func TestCatTask(t *testing.T) {
	task := tasksolver.NewTaskSpec("cat", "Is the image a cat?", YesNoType)
	require.NoError(t, task.AddExample(
		tasksolver.NewQuestion(tasksolver.Untagged(tasksolver.ImageURL("https://example.com/cat.jpg"))),
		NewYesNo(true),
		"",
	))

	q := task.FirstQuestion(tasksolver.Texts("what about this one?"))
	s := q.String()
	desc := indexOf(t, s, "Is the image a cat?")
	example := indexOf(t, s, "(Ex #1) Question:")
	prompt := indexOf(t, s, "what about this one?")
	assert.Less(t, desc, example)
	assert.Less(t, example, prompt)

	a, err := task.Parse("Yes, definitely.")
	require.NoError(t, err)
	assert.True(t, tasksolver.IsSuccess(a))
}

func indexOf(t *testing.T, s, sub string) int {
	t.Helper()
	i := strings.Index(s, sub)
	require.GreaterOrEqual(t, i, 0, "%q not found", sub)
	return i
}
