package providers

import (
	"context"

	"github.com/rickchristie/tasksolver"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Gemini sends all text as one leading part followed by the images.
type Gemini struct {
	client
}

// NewGemini wraps an existing langchaingo model.
func NewGemini(llm llms.Model, model string) *Gemini {
	return &Gemini{client{kind: KindGemini, model: model, llm: llm}}
}

// DialGemini creates a Gemini provider from an API key.
func DialGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, err
	}
	return NewGemini(llm, model), nil
}

// BuildRequest joins the text parts with newlines, then appends the images.
// Remote images stay URLs; local ones are inlined.
func (p *Gemini) BuildRequest(parts []tasksolver.Part, opts tasksolver.RequestOptions) (*tasksolver.Request, error) {
	text, images := joinedText(parts)
	content := make([]llms.ContentPart, 0, len(images)+1)
	content = append(content, llms.TextPart(text))
	for _, img := range images {
		if img.IsRemote() {
			content = append(content, llms.ImageURLPart(img.URL))
			continue
		}
		part, err := binaryPart(KindGemini, img)
		if err != nil {
			return nil, err
		}
		content = append(content, part)
	}
	return p.request(opts, content...), nil
}

var _ tasksolver.Provider = (*Gemini)(nil)
