package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rickchristie/tasksolver"
	"github.com/rickchristie/tasksolver/answers"
	"github.com/rickchristie/tasksolver/eventstore"
	"github.com/rickchristie/tasksolver/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
log:
  level: debug
  pretty: true
provider:
  kind: anthropic
  model: claude-sonnet-4-5
keys:
  anthropic: sk-ant-1234
solver:
  max_tries: 3
  failure_dir: failures
events:
  backend: file
  dir: /tmp/events
  ttl: 2h
agent:
  max_iterations: 4
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, LogConfig{Level: "debug", Pretty: true}, cfg.Log)
	assert.Equal(t, providers.Settings{Kind: providers.KindAnthropic, Model: "claude-sonnet-4-5"}, cfg.Provider)
	assert.Equal(t, 3, cfg.Solver.MaxTries)
	assert.Equal(t, 1000, cfg.Solver.MaxTokens, "unset keys keep their defaults")
	assert.Equal(t, "failures", cfg.Solver.FailureDir)
	assert.Equal(t, 4, cfg.Agent.MaxIterations)

	ttl, err := cfg.EventsTTL()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, ttl)

	assert.Len(t, cfg.SolverOptions(), 3)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not yaml", input: "log: [unclosed"},
		{name: "unknown section", input: "logging:\n  level: info\n"},
		{name: "unknown provider", input: "provider:\n  kind: mainframe\n"},
		{name: "negative tries", input: "solver:\n  max_tries: -2\n"},
		{name: "bad ttl", input: "events:\n  ttl: forever\n"},
		{name: "key not a string", input: "keys:\n  openai: [a, b]\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			assert.ErrorIs(t, err, tasksolver.ErrInvalidConfig)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasksolver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	t.Setenv("TASKSOLVER_MODEL", "claude-haiku-4-5")
	t.Setenv("TASKSOLVER_MAX_TRIES", "7")
	t.Setenv("TASKSOLVER_LOG_PRETTY", "false")
	t.Setenv("TASKSOLVER_KEY_OPENAI", "sk-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "claude-haiku-4-5", cfg.Provider.Model)
	assert.Equal(t, providers.KindAnthropic, cfg.Provider.Kind)
	assert.Equal(t, 7, cfg.Solver.MaxTries)
	assert.False(t, cfg.Log.Pretty)
	assert.Equal(t, "sk-env", cfg.Keys["openai"])
	assert.Equal(t, "sk-ant-1234", cfg.Keys["anthropic"])
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, tasksolver.ErrInvalidConfig)

	t.Setenv("TASKSOLVER_MAX_TOKENS", "lots")
	_, err = Load("")
	assert.ErrorIs(t, err, tasksolver.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Events.Backend = BackendRedis
	assert.ErrorIs(t, cfg.Validate(), tasksolver.ErrInvalidConfig)

	cfg.Events.RedisAddr = "localhost:6379"
	assert.NoError(t, cfg.Validate())

	cfg.Events.Backend = "postgres"
	assert.ErrorIs(t, cfg.Validate(), tasksolver.ErrInvalidConfig)
}

func TestKeyChain(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "openai.key")
	require.NoError(t, os.WriteFile(keyFile, []byte("sk-from-file\nsecond line\n"), 0o600))

	cfg := Default()
	cfg.Keys = map[string]string{"openai": keyFile, "gemini": "g-literal"}

	keys, err := cfg.KeyChain()
	require.NoError(t, err)

	openai, err := keys.Get("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-from-file", openai)

	gemini, err := keys.Get("gemini")
	require.NoError(t, err)
	assert.Equal(t, "g-literal", gemini)
}

func TestEventStore(t *testing.T) {
	cfg := Default()
	store, err := cfg.EventStore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, store)

	cfg.Events.Backend = BackendFile
	cfg.Events.Dir = t.TempDir()
	store, err = cfg.EventStore(context.Background())
	require.NoError(t, err)
	fs, ok := store.(*eventstore.FileStore)
	require.True(t, ok)
	assert.Equal(t, cfg.Events.Dir, fs.Dir())
}

const catTask = `
name: cat
description: Is the image a cat?
answer: yesno
background: Cats have whiskers.
examples:
  - question: Is this a cat?
    images: [img/tabby.jpg, /abs/siamese.png]
    answer: "Yes."
    explanation: It has whiskers.
`

func TestParseTask(t *testing.T) {
	task, err := ParseTask([]byte(catTask), "/tasks")
	require.NoError(t, err)

	assert.Equal(t, "cat", task.Name)
	assert.Equal(t, answers.NameYesNo, task.AnswerType.Name)
	assert.Equal(t, "Cats have whiskers.", task.Background.String())
	require.Len(t, task.Examples, 1)

	ex := task.Examples[0]
	assert.Equal(t, "yes", ex.Answer.String())
	assert.Equal(t, "It has whiskers.", ex.Explanation)
	assert.Equal(t, []tasksolver.Content{
		tasksolver.Text("Is this a cat?"),
		tasksolver.ImagePath("/tasks/img/tabby.jpg"),
		tasksolver.ImagePath("/abs/siamese.png"),
	}, ex.Question.Components())

	answer, err := task.Parse("Yes, definitely.")
	require.NoError(t, err)
	assert.True(t, tasksolver.IsSuccess(answer))
}

func TestParseTask_CodeLanguage(t *testing.T) {
	task, err := ParseTask([]byte("name: fix\ndescription: Fix the bug.\nanswer: code:go\n"), "")
	require.NoError(t, err)

	answer, err := task.Parse("```go\nfmt.Println(1)\n```")
	require.NoError(t, err)
	assert.Equal(t, "go", answer.(*answers.Code).Lang)
}

func TestParseTask_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing description", input: "name: cat\nanswer: yesno\n"},
		{name: "unknown answer type", input: "name: cat\ndescription: d\nanswer: haiku\n"},
		{
			name:  "example answer does not parse",
			input: "name: cat\ndescription: d\nanswer: yesno\nexamples:\n  - question: q\n    answer: maybe\n",
		},
		{
			name:  "example without question",
			input: "name: cat\ndescription: d\nanswer: yesno\nexamples:\n  - answer: 'yes'\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTask([]byte(tc.input), "")
			assert.ErrorIs(t, err, tasksolver.ErrInvalidConfig)
		})
	}
}

func TestLoadTask(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catTask), 0o644))

	task, err := LoadTask(path)
	require.NoError(t, err)
	assert.Equal(t,
		tasksolver.ImagePath(filepath.Join(dir, "img/tabby.jpg")),
		task.Examples[0].Question.Components()[1])
}
