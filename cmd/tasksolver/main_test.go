package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rickchristie/tasksolver"
	"github.com/rickchristie/tasksolver/agent"
	"github.com/rickchristie/tasksolver/answers"
	"github.com/rickchristie/tasksolver/internal/tt"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tasksolver.Content
	}{
		{
			name:     "text only",
			input:    "  is it   a cat? ",
			expected: []tasksolver.Content{tasksolver.Text("is it a cat?")},
		},
		{
			name:  "images anywhere",
			input: "@a.jpg is this a cat? @dir/b.png",
			expected: []tasksolver.Content{
				tasksolver.Text("is this a cat?"),
				tasksolver.ImagePath("a.jpg"),
				tasksolver.ImagePath("dir/b.png"),
			},
		},
		{
			name:     "lone at sign is text",
			input:    "email me @ home",
			expected: []tasksolver.Content{tasksolver.Text("email me @ home")},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseLine(tc.input).Components())
		})
	}
}

func TestCommand(t *testing.T) {
	task := tasksolver.NewTaskSpec("cat", "Is the image a cat?", answers.YesNoType)
	task.Completed = func(context.Context, tasksolver.Session) (*tasksolver.Question, tasksolver.ParsedAnswer, error) {
		return tasksolver.Texts("done?"), answers.NewYesNo(true), nil
	}

	var out bytes.Buffer
	a := agent.New(tt.NewMockProvider("yes"), task, &consoleActor{out: &out},
		agent.WithLogger(zerolog.Nop()))
	ctx := context.Background()

	quit, err := command(ctx, a, ":interject it is a dog", &out)
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Equal(t, "it is a dog", a.Events().Events()[0].Interact.Correction)

	require.NoError(t, ask(ctx, a, ParseLine("cat?")))
	assert.Contains(t, out.String(), "yes")

	_, err = command(ctx, a, ":reflect", &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Task complete.")

	path := filepath.Join(t.TempDir(), "agent.json")
	_, err = command(ctx, a, ":save "+path, &out)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), a.SessionID())

	old := a.SessionID()
	_, err = command(ctx, a, ":new", &out)
	require.NoError(t, err)
	assert.NotEqual(t, old, a.SessionID())

	_, err = command(ctx, a, ":bogus", &out)
	assert.Error(t, err)
	_, err = command(ctx, a, ":save", &out)
	assert.Error(t, err)

	quit, err = command(ctx, a, ":quit", &out)
	require.NoError(t, err)
	assert.True(t, quit)
}
