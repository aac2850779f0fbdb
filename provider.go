package tasksolver

import (
	"context"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// Provider adapts one LLM backend. Implementations hold a credential and a
// model id, keep no per-call state and are safe for concurrent use.
type Provider interface {
	// Name identifies the backend ("openai", "anthropic", "gemini", "ollama").
	Name() string

	// Model returns the model id requests are sent to.
	Model() string

	// BuildRequest converts serialized question parts into the backend's
	// message layout.
	BuildRequest(parts []Part, opts RequestOptions) (*Request, error)

	// Execute performs exactly one completion call.
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// RequestOptions are the generation settings applied to a request.
type RequestOptions struct {
	MaxTokens int
}

// Request is a provider payload. It is kept on every guess so calls can be
// audited or replayed.
type Request struct {
	Provider  string
	Model     string
	MaxTokens int
	Messages  []llms.MessageContent
}

// Message is the assistant reply of a completion.
type Message struct {
	Role    string
	Content string
}

// Response is the result of one Execute call.
type Response struct {
	Message Message
	Usage   Usage
}

// Usage is the normalized token accounting of a call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int

	// Raw is the provider specific generation info it was normalized from.
	Raw map[string]any

	Duration time.Duration
}

// Add returns the sum of two usages. Raw info is not merged.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + o.InputTokens,
		OutputTokens: u.OutputTokens + o.OutputTokens,
		TotalTokens:  u.TotalTokens + o.TotalTokens,
		Duration:     u.Duration + o.Duration,
	}
}
