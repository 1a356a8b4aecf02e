package model

import evolve "github.com/Inventure71/EvolveProject"

// longContextThreshold is the prompt size above which long-context rates apply.
const longContextThreshold = 200_000

// ChatPricing contains pricing per million tokens (USD) for chat models.
type ChatPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
	// InputPerMillionLong and OutputPerMillionLong apply to prompts above
	// 200K tokens. Zero means the standard rate holds.
	InputPerMillionLong  float64
	OutputPerMillionLong float64
}

// HasLongContextPricing returns true if the model has tiered pricing for long context.
func (p ChatPricing) HasLongContextPricing() bool {
	return p.InputPerMillionLong > 0 || p.OutputPerMillionLong > 0
}

// Cost returns the USD cost of usage at these rates.
func (p ChatPricing) Cost(usage evolve.Usage) float64 {
	in, out := p.InputPerMillion, p.OutputPerMillion
	if usage.InputTokens > longContextThreshold && p.HasLongContextPricing() {
		if p.InputPerMillionLong > 0 {
			in = p.InputPerMillionLong
		}
		if p.OutputPerMillionLong > 0 {
			out = p.OutputPerMillionLong
		}
	}
	return float64(usage.InputTokens)/1e6*in + float64(usage.OutputTokens)/1e6*out
}
