package providers

import (
	"context"
	"fmt"

	"github.com/rickchristie/tasksolver"
)

// Settings selects and configures a backend.
type Settings struct {
	// Kind selects the backend. Inferred from Model when empty.
	Kind Kind `yaml:"kind" json:"kind"`

	// Model is the model id. The kind's default when empty.
	Model string `yaml:"model" json:"model"`

	// BaseURL overrides the API endpoint (OpenAI, Anthropic) or the server
	// address (Ollama).
	BaseURL string `yaml:"base_url" json:"base_url,omitempty"`
}

// Resolved fills in the kind and model defaults.
func (s Settings) Resolved() Settings {
	if s.Kind == "" && s.Model != "" {
		s.Kind = KindForModel(s.Model)
	}
	if s.Kind == "" {
		s.Kind = KindOpenAI
	}
	if s.Model == "" {
		s.Model = DefaultModel(s.Kind)
	}
	return s
}

// Build creates the provider described by s, reading its credential from keys
// under the kind's name. Ollama needs no credential.
func Build(ctx context.Context, s Settings, keys *tasksolver.KeyChain) (tasksolver.Provider, error) {
	s = s.Resolved()

	var (
		p   tasksolver.Provider
		err error
	)
	switch s.Kind {
	case KindOllama:
		p, err = asProvider(DialOllama(s.Model, s.BaseURL))
	case KindOpenAI, KindAnthropic, KindGemini:
		if keys == nil {
			return nil, fmt.Errorf("%w: %s", tasksolver.ErrMissingKey, s.Kind)
		}
		key, kerr := keys.Get(string(s.Kind))
		if kerr != nil {
			return nil, kerr
		}
		switch s.Kind {
		case KindOpenAI:
			p, err = asProvider(DialOpenAI(key, s.Model, s.BaseURL))
		case KindAnthropic:
			p, err = asProvider(DialAnthropic(key, s.Model, s.BaseURL))
		default:
			p, err = asProvider(DialGemini(ctx, key, s.Model))
		}
	default:
		return nil, fmt.Errorf("unknown provider kind %q", s.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", s.Kind, err)
	}
	return p, nil
}

// asProvider drops the concrete type without leaking a typed nil on error.
func asProvider[P tasksolver.Provider](p P, err error) (tasksolver.Provider, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}
