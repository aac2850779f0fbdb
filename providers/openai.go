package providers

import (
	"github.com/rickchristie/tasksolver"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAI sends questions as a single user message mixing text and image URLs.
// Local images travel as base64 data URLs.
type OpenAI struct {
	client
}

// NewOpenAI wraps an existing langchaingo model.
func NewOpenAI(llm llms.Model, model string) *OpenAI {
	return &OpenAI{client{kind: KindOpenAI, model: model, llm: llm}}
}

// DialOpenAI creates an OpenAI provider from an API key. An empty baseURL uses
// the public endpoint.
func DialOpenAI(apiKey, model, baseURL string) (*OpenAI, error) {
	opts := []openai.Option{openai.WithToken(apiKey), openai.WithModel(model)}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return NewOpenAI(llm, model), nil
}

// BuildRequest keeps every part in place: text as text, images as URLs.
func (p *OpenAI) BuildRequest(parts []tasksolver.Part, opts tasksolver.RequestOptions) (*tasksolver.Request, error) {
	content := make([]llms.ContentPart, 0, len(parts))
	for _, part := range parts {
		switch part.Type {
		case tasksolver.PartText:
			content = append(content, llms.TextPart(part.Text))
		case tasksolver.PartImage:
			content = append(content, llms.ImageURLPart(part.URL))
		}
	}
	return p.request(opts, content...), nil
}

var _ tasksolver.Provider = (*OpenAI)(nil)
