package tasksolver

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyChain(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "openai.key")
	require.NoError(t, os.WriteFile(keyFile, []byte("sk-from-file\nsecond line\n"), 0o600))

	tests := []struct {
		name     string
		service  string
		key      string
		expected string
	}{
		{name: "literal key", service: "anthropic", key: "sk-ant-literal", expected: "sk-ant-literal"},
		{name: "key from file", service: "openai", key: keyFile, expected: "sk-from-file"},
		{name: "directory is a literal", service: "gemini", key: dir, expected: dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := NewKeyChain()
			require.NoError(t, k.Add(tt.service, tt.key))
			got, err := k.Get(tt.service)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestKeyChain_Missing(t *testing.T) {
	k := NewKeyChain()
	_, err := k.Get("openai")
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestKeyChain_JSON(t *testing.T) {
	k := NewKeyChain()
	require.NoError(t, k.Add("openai", "a"))
	require.NoError(t, k.Add("anthropic", "b"))

	data, err := json.Marshal(k)
	require.NoError(t, err)

	back := NewKeyChain()
	require.NoError(t, json.Unmarshal(data, back))
	assert.Equal(t, []string{"anthropic", "openai"}, back.Services())
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", Mask("abc"))
	assert.Equal(t, "****cdef", Mask("sk-abcdef"))
}
