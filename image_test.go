package tasksolver

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectImageFormat(t *testing.T) {
	type expected struct {
		mime string
		err  error
	}

	tests := []struct {
		name     string
		input    string
		expected expected
	}{
		{name: "jpeg", input: "/9j/4AAQSkZJRg", expected: expected{mime: "image/jpeg"}},
		{name: "png", input: "iVBORw0KGgoAAAANS", expected: expected{mime: "image/png"}},
		{name: "gif", input: "R0lGODlhAQABAIAAAP", expected: expected{mime: "image/gif"}},
		{name: "webp", input: "UklGRiQAAABXRUJQ", expected: expected{mime: "image/webp"}},
		{name: "unknown", input: "AAAA", expected: expected{err: ErrUnknownImageFormat}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, err := DetectImageFormat(tt.input)
			if tt.expected.err != nil {
				assert.ErrorIs(t, err, tt.expected.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.mime, mime)
		})
	}
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{name: "jpeg", input: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10}, expected: "image/jpeg"},
		{name: "png", input: []byte("\x89PNG\r\n\x1a\n\x00\x00"), expected: "image/png"},
		{name: "gif", input: []byte("GIF89a"), expected: "image/gif"},
		{name: "webp", input: []byte("RIFF\x24\x00\x00\x00WEBP"), expected: "image/webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, err := DetectMIMEType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mime)
		})
	}
}

func TestSplitDataURL(t *testing.T) {
	url := DataURL([]byte("GIF89a"))

	mime, payload, ok := SplitDataURL(url)
	require.True(t, ok)
	assert.Equal(t, "image/gif", mime)
	assert.Equal(t, "R0lGODlh", payload)

	_, _, ok = SplitDataURL("https://example.com/x.png")
	assert.False(t, ok)
}

func TestEncodePNG_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, err := EncodePNG(dotImage())
			assert.NoError(t, err)
			results[i] = data
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
}
