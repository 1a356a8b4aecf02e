package evolve

import (
	"fmt"
	"strings"
)

// Provider identifies a model provider.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderGoogle    Provider = "google"
	ProviderOpenAI    Provider = "openai"
	ProviderOllama    Provider = "ollama"
	ProviderAnthropic Provider = "anthropic"
)

// ParseProvider maps a configuration value to a Provider. Matching ignores
// case and "gemini" is accepted for Google.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderGoogle, ProviderOpenAI, ProviderOllama, ProviderAnthropic:
		return p, nil
	case "gemini":
		return ProviderGoogle, nil
	case "":
		return "", fmt.Errorf("provider not set")
	default:
		return "", fmt.Errorf("unknown provider %q", s)
	}
}
