// internal/llm/provider.go

package llm

import (
	"errors"
	"fmt"
	"strings"
)

// Provider selects one of the supported LLM backends.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
	ProviderGemini Provider = "gemini"
	ProviderLlama  Provider = "llama"
)

// ErrUnknownProvider is returned when a selector does not name a supported
// backend. It is always returned before any network call.
var ErrUnknownProvider = errors.New("unknown llm provider")

// Providers lists every supported backend.
func Providers() []Provider {
	return []Provider{ProviderOpenAI, ProviderClaude, ProviderGemini, ProviderLlama}
}

// ParseProvider parses a provider selector, case-insensitively.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(s)) {
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderClaude:
		return ProviderClaude, nil
	case ProviderGemini:
		return ProviderGemini, nil
	case ProviderLlama:
		return ProviderLlama, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
}
