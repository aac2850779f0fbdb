package providers

import (
	"github.com/rickchristie/tasksolver"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Ollama talks to a locally hosted model. It needs no credential.
type Ollama struct {
	client
}

// NewOllama wraps an existing langchaingo model.
func NewOllama(llm llms.Model, model string) *Ollama {
	return &Ollama{client{kind: KindOllama, model: model, llm: llm}}
}

// DialOllama creates an Ollama provider. An empty serverURL uses the default
// local address.
func DialOllama(model, serverURL string) (*Ollama, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, err
	}
	return NewOllama(llm, model), nil
}

// BuildRequest joins the text parts with newlines and inlines the images.
func (p *Ollama) BuildRequest(parts []tasksolver.Part, opts tasksolver.RequestOptions) (*tasksolver.Request, error) {
	text, images := joinedText(parts)
	content := make([]llms.ContentPart, 0, len(images)+1)
	content = append(content, llms.TextPart(text))
	for _, img := range images {
		part, err := binaryPart(KindOllama, img)
		if err != nil {
			return nil, err
		}
		content = append(content, part)
	}
	return p.request(opts, content...), nil
}

var _ tasksolver.Provider = (*Ollama)(nil)
