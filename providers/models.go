package providers

import "strings"

// Kind identifies a provider backend.
type Kind string

const (
	KindOpenAI    Kind = "openai"
	KindAnthropic Kind = "anthropic"
	KindGemini    Kind = "gemini"
	KindOllama    Kind = "ollama"
)

// =============================================================================
// OpenAI Models
// https://platform.openai.com/docs/models/
// =============================================================================

const (
	ModelOpenAIGPT41     = "gpt-4.1"
	ModelOpenAIGPT41Mini = "gpt-4.1-mini"
	ModelOpenAIGPT4o     = "gpt-4o"
	ModelOpenAIGPT4oMini = "gpt-4o-mini"
)

// =============================================================================
// Anthropic Claude Models
// https://docs.anthropic.com/en/docs/about-claude/models/overview
// =============================================================================

const (
	ModelAnthropicClaude45Sonnet = "claude-sonnet-4-5-20250929"
	ModelAnthropicClaude45Haiku  = "claude-haiku-4-5-20251001"
	ModelAnthropicClaude35Sonnet = "claude-3-5-sonnet-20241022"
)

// =============================================================================
// Google Gemini Models
// https://ai.google.dev/gemini-api/docs/models
// =============================================================================

const (
	ModelGoogleGemini25Pro   = "gemini-2.5-pro"
	ModelGoogleGemini25Flash = "gemini-2.5-flash"
)

// =============================================================================
// Ollama Models (local vision models)
// https://ollama.com/search?c=vision
// =============================================================================

const (
	ModelOllamaLlava      = "llava"
	ModelOllamaLlama32Vis = "llama3.2-vision"
)

// KindForModel infers the backend of a model id from its name. Unknown ids are
// assumed to be served by a local Ollama instance.
func KindForModel(model string) Kind {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "gpt-"), strings.HasPrefix(m, "o1"),
		strings.HasPrefix(m, "o3"), strings.HasPrefix(m, "o4"):
		return KindOpenAI
	case strings.HasPrefix(m, "claude"):
		return KindAnthropic
	case strings.HasPrefix(m, "gemini"):
		return KindGemini
	default:
		return KindOllama
	}
}

// DefaultModel returns the model used when settings name a kind but no model.
func DefaultModel(kind Kind) string {
	switch kind {
	case KindOpenAI:
		return ModelOpenAIGPT4o
	case KindAnthropic:
		return ModelAnthropicClaude45Sonnet
	case KindGemini:
		return ModelGoogleGemini25Flash
	default:
		return ModelOllamaLlava
	}
}
