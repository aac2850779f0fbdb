package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rickchristie/tasksolver"
	"github.com/tmc/langchaingo/llms"
)

// ErrNoChoices is returned when a backend answers without any completion.
var ErrNoChoices = errors.New("providers: response has no choices")

// client is the part every backend shares: a langchaingo model, the model id
// and the single-call Execute path.
type client struct {
	kind  Kind
	model string
	llm   llms.Model
}

func (c *client) Name() string  { return string(c.kind) }
func (c *client) Model() string { return c.model }

// Unwrap returns the underlying llms.Model.
func (c *client) Unwrap() llms.Model { return c.llm }

func (c *client) request(opts tasksolver.RequestOptions, parts ...llms.ContentPart) *tasksolver.Request {
	return &tasksolver.Request{
		Provider:  string(c.kind),
		Model:     c.model,
		MaxTokens: opts.MaxTokens,
		Messages: []llms.MessageContent{{
			Role:  llms.ChatMessageTypeHuman,
			Parts: parts,
		}},
	}
}

// Execute issues exactly one GenerateContent call and returns its first choice.
func (c *client) Execute(ctx context.Context, req *tasksolver.Request) (*tasksolver.Response, error) {
	callOpts := []llms.CallOption{llms.WithModel(req.Model)}
	if req.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(req.MaxTokens))
	}

	start := time.Now()
	resp, err := c.llm.GenerateContent(ctx, req.Messages, callOpts...)
	duration := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("%s: generate content: %w", c.kind, err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return nil, fmt.Errorf("%s: %w", c.kind, ErrNoChoices)
	}

	choice := resp.Choices[0]
	return &tasksolver.Response{
		Message: tasksolver.Message{Role: "assistant", Content: choice.Content},
		Usage:   usageFrom(choice.GenerationInfo, duration),
	}, nil
}

// joinedText concatenates every text part with newlines and returns the image
// parts separately, in order.
func joinedText(parts []tasksolver.Part) (string, []tasksolver.Part) {
	var text []string
	var images []tasksolver.Part
	for _, p := range parts {
		if p.Type == tasksolver.PartText {
			text = append(text, p.Text)
			continue
		}
		images = append(images, p)
	}
	return strings.Join(text, "\n"), images
}

// binaryPart converts a local image part into inline bytes. The media type is
// read from the signature of the base64 payload.
func binaryPart(kind Kind, p tasksolver.Part) (llms.ContentPart, error) {
	if p.IsRemote() {
		return nil, fmt.Errorf("%s: %w: remote image %s", kind, tasksolver.ErrUnsupportedContent, p.URL)
	}
	_, payload, ok := tasksolver.SplitDataURL(p.URL)
	if !ok {
		return nil, fmt.Errorf("%s: %w: image part without data url", kind, tasksolver.ErrUnsupportedContent)
	}
	mime, err := tasksolver.DetectImageFormat(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return llms.BinaryPart(mime, p.Data), nil
}
