package tt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rickchristie/tasksolver"
	"github.com/tmc/langchaingo/llms"
)

// -----------------------------------------------------------------------------
// MockLLM - implements llms.Model
// -----------------------------------------------------------------------------

// MockLLM is a configurable llms.Model. Queued responses are returned in call
// order; once the queue is drained the default response is returned.
type MockLLM struct {
	mu        sync.Mutex
	responses []*llms.ContentResponse
	errors    []error
	callCount int

	// CapturedMessages stores the messages passed to each GenerateContent call.
	CapturedMessages [][]llms.MessageContent

	// CapturedOptions stores the resolved call options of each call.
	CapturedOptions []llms.CallOptions
}

// NewMockLLM creates an empty MockLLM.
func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

// AddResponse queues a response with the given content and token counts,
// reported under OpenAI-style generation info keys.
func (m *MockLLM) AddResponse(content string, inputTokens, outputTokens int) *MockLLM {
	return m.AddRawResponse(&llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content: content,
			GenerationInfo: map[string]any{
				"PromptTokens":     inputTokens,
				"CompletionTokens": outputTokens,
			},
		}},
	})
}

// AddRawResponse queues a raw ContentResponse.
// Use this when you need full control over the response
// structure (e.g., empty Choices slice).
func (m *MockLLM) AddRawResponse(resp *llms.ContentResponse) *MockLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
	m.errors = append(m.errors, nil)
	return m
}

// AddError queues an error for the next call.
func (m *MockLLM) AddError(err error) *MockLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, nil)
	m.errors = append(m.errors, err)
	return m
}

// CallCount returns the number of times GenerateContent has been called.
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// GenerateContent implements llms.Model.
func (m *MockLLM) GenerateContent(
	_ context.Context,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	var opts llms.CallOptions
	for _, o := range options {
		o(&opts)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.callCount
	m.callCount++
	m.CapturedMessages = append(m.CapturedMessages, messages)
	m.CapturedOptions = append(m.CapturedOptions, opts)

	if idx < len(m.errors) && m.errors[idx] != nil {
		return nil, m.errors[idx]
	}
	if idx < len(m.responses) && m.responses[idx] != nil {
		return m.responses[idx], nil
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "done"}},
	}, nil
}

// Call implements llms.Model.
func (m *MockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

var _ llms.Model = (*MockLLM)(nil)

// -----------------------------------------------------------------------------
// MockProvider - implements tasksolver.Provider
// -----------------------------------------------------------------------------

// ErrScriptExhausted is returned by MockProvider when no reply is left.
var ErrScriptExhausted = errors.New("tt: mock provider script exhausted")

// Reply is one scripted Execute result.
type Reply struct {
	Text  string
	Err   error
	Delay time.Duration
}

// MockProvider is a scripted tasksolver.Provider. Each Execute call consumes
// the next reply. It is safe for concurrent use.
type MockProvider struct {
	mu      sync.Mutex
	name    string
	model   string
	replies []Reply
	next    int

	// Requests records every executed request.
	Requests []*tasksolver.Request

	// Respond, when set, computes the reply instead of the script. It receives
	// the zero-based call index.
	Respond func(call int, req *tasksolver.Request) Reply
}

// NewMockProvider creates a provider that returns texts in order.
func NewMockProvider(texts ...string) *MockProvider {
	p := &MockProvider{name: "mock", model: "mock-model"}
	for _, t := range texts {
		p.replies = append(p.replies, Reply{Text: t})
	}
	return p
}

// Add queues more replies.
func (p *MockProvider) Add(replies ...Reply) *MockProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies = append(p.replies, replies...)
	return p
}

// Calls returns the number of Execute calls made.
func (p *MockProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.next
}

func (p *MockProvider) Name() string  { return p.name }
func (p *MockProvider) Model() string { return p.model }

// BuildRequest puts every part, in order, into one human message.
func (p *MockProvider) BuildRequest(parts []tasksolver.Part, opts tasksolver.RequestOptions) (*tasksolver.Request, error) {
	content := make([]llms.ContentPart, 0, len(parts))
	for _, part := range parts {
		if part.Type == tasksolver.PartText {
			content = append(content, llms.TextPart(part.Text))
			continue
		}
		content = append(content, llms.ImageURLPart(part.URL))
	}
	return &tasksolver.Request{
		Provider:  p.name,
		Model:     p.model,
		MaxTokens: opts.MaxTokens,
		Messages:  []llms.MessageContent{{Role: llms.ChatMessageTypeHuman, Parts: content}},
	}, nil
}

// Execute returns the next scripted reply.
func (p *MockProvider) Execute(ctx context.Context, req *tasksolver.Request) (*tasksolver.Response, error) {
	p.mu.Lock()
	call := p.next
	p.next++
	p.Requests = append(p.Requests, req)
	var r Reply
	switch {
	case p.Respond != nil:
		r = p.Respond(call, req)
	case call < len(p.replies):
		r = p.replies[call]
	default:
		r = Reply{Err: ErrScriptExhausted}
	}
	p.mu.Unlock()

	if r.Delay > 0 {
		select {
		case <-time.After(r.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return &tasksolver.Response{
		Message: tasksolver.Message{Role: "assistant", Content: r.Text},
		Usage:   tasksolver.Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15, Duration: r.Delay},
	}, nil
}

var _ tasksolver.Provider = (*MockProvider)(nil)
