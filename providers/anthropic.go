package providers

import (
	"github.com/rickchristie/tasksolver"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
)

// Anthropic sends questions as a single user message. Images are inlined as
// base64 with a media type read from their signature; remote image URLs are
// not accepted.
type Anthropic struct {
	client
}

// NewAnthropic wraps an existing langchaingo model.
func NewAnthropic(llm llms.Model, model string) *Anthropic {
	return &Anthropic{client{kind: KindAnthropic, model: model, llm: llm}}
}

// DialAnthropic creates an Anthropic provider from an API key.
func DialAnthropic(apiKey, model, baseURL string) (*Anthropic, error) {
	opts := []anthropic.Option{anthropic.WithToken(apiKey), anthropic.WithModel(model)}
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	llm, err := anthropic.New(opts...)
	if err != nil {
		return nil, err
	}
	return NewAnthropic(llm, model), nil
}

// BuildRequest keeps the part order, converting images to inline bytes.
func (p *Anthropic) BuildRequest(parts []tasksolver.Part, opts tasksolver.RequestOptions) (*tasksolver.Request, error) {
	content := make([]llms.ContentPart, 0, len(parts))
	for _, part := range parts {
		switch part.Type {
		case tasksolver.PartText:
			content = append(content, llms.TextPart(part.Text))
		case tasksolver.PartImage:
			img, err := binaryPart(KindAnthropic, part)
			if err != nil {
				return nil, err
			}
			content = append(content, img)
		}
	}
	return p.request(opts, content...), nil
}

var _ tasksolver.Provider = (*Anthropic)(nil)
