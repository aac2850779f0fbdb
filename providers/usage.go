package providers

import (
	"time"

	"github.com/rickchristie/tasksolver"
)

// usageFrom normalizes the generation info of a choice. Providers report the
// same counts under different keys.
func usageFrom(info map[string]any, duration time.Duration) tasksolver.Usage {
	u := tasksolver.Usage{Raw: info, Duration: duration}
	if info == nil {
		return u
	}
	u.InputTokens = firstInt(info, "PromptTokens", "InputTokens", "input_tokens")
	u.OutputTokens = firstInt(info, "CompletionTokens", "OutputTokens", "output_tokens")
	u.TotalTokens = firstInt(info, "TotalTokens", "total_tokens")
	if u.TotalTokens == 0 {
		u.TotalTokens = u.InputTokens + u.OutputTokens
	}
	return u
}

// firstInt returns the first positive value found under keys.
func firstInt(m map[string]any, keys ...string) int {
	for _, k := range keys {
		if v := getIntFromMap(m, k); v > 0 {
			return v
		}
	}
	return 0
}

// getIntFromMap extracts an int value from a map, handling various numeric types.
func getIntFromMap(m map[string]any, key string) int {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return 0
	}
}
