// Package model lists known chat models and their token pricing, used to
// report what an agent run cost.
package model

import (
	"strings"

	evolve "github.com/Inventure71/EvolveProject"
)

// ChatModel represents a chat/completion model from any provider.
type ChatModel struct {
	id       string
	provider evolve.Provider
	pricing  ChatPricing
}

// String returns the API identifier for this model.
func (m ChatModel) String() string { return m.id }

// Provider returns which provider this model belongs to.
func (m ChatModel) Provider() evolve.Provider { return m.provider }

// Pricing returns the pricing for this model.
func (m ChatModel) Pricing() ChatPricing { return m.pricing }

// Cost returns the USD cost of usage on this model.
func (m ChatModel) Cost(usage evolve.Usage) float64 { return m.pricing.Cost(usage) }

// Anthropic
var (
	ClaudeOpus45   = ChatModel{id: "claude-opus-4-5", provider: evolve.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 5.00, OutputPerMillion: 25.00}}
	ClaudeSonnet45 = ChatModel{id: "claude-sonnet-4-5", provider: evolve.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 3.00, OutputPerMillion: 15.00}}
	ClaudeHaiku45  = ChatModel{id: "claude-haiku-4-5", provider: evolve.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 1.00, OutputPerMillion: 5.00}}
)

// OpenAI
var (
	GPT4o     = ChatModel{id: "gpt-4o", provider: evolve.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 2.50, OutputPerMillion: 10.00}}
	GPT4oMini = ChatModel{id: "gpt-4o-mini", provider: evolve.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 0.15, OutputPerMillion: 0.60}}
	GPT5      = ChatModel{id: "gpt-5", provider: evolve.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 1.25, OutputPerMillion: 10.00}}
	GPT5Mini  = ChatModel{id: "gpt-5-mini", provider: evolve.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 0.25, OutputPerMillion: 1.00}}
)

// Google
var (
	Gemini20Flash = ChatModel{id: "gemini-2.0-flash", provider: evolve.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 0.10, OutputPerMillion: 0.40}}
	Gemini25Flash = ChatModel{id: "gemini-2.5-flash", provider: evolve.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 0.30, OutputPerMillion: 2.50}}
	Gemini25Pro   = ChatModel{id: "gemini-2.5-pro", provider: evolve.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 1.25, OutputPerMillion: 10.00, InputPerMillionLong: 2.50, OutputPerMillionLong: 15.00}}
)

var known = []ChatModel{
	ClaudeOpus45, ClaudeSonnet45, ClaudeHaiku45,
	GPT4o, GPT4oMini, GPT5, GPT5Mini,
	Gemini20Flash, Gemini25Flash, Gemini25Pro,
}

// Lookup finds a model by provider and ID. Dated snapshots such as
// "claude-sonnet-4-5-20250929" resolve to their alias. Ollama models run
// locally and are never found.
func Lookup(provider evolve.Provider, id string) (ChatModel, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	var best ChatModel
	found := false
	for _, m := range known {
		if m.provider != provider {
			continue
		}
		if m.id == id {
			return m, true
		}
		// prefer the longest alias prefix so gpt-4o-mini-x is not gpt-4o
		if strings.HasPrefix(id, m.id+"-") && len(m.id) > len(best.id) {
			best, found = m, true
		}
	}
	return best, found
}
