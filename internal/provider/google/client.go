// Package google adapts the Gemini API to evolve.ChatProvider.
package google

import (
	"context"
	"strings"

	evolve "github.com/Inventure71/EvolveProject"
	"google.golang.org/genai"
)

// DefaultModel is used when neither the client nor the request names one.
const DefaultModel = "gemini-2.0-flash"

// Client wraps the Google GenAI SDK to implement evolve.ChatProvider.
type Client struct {
	client *genai.Client
	model  string
}

// ClientOption configures the Google client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	model   string
	baseURL string
}

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *clientConfig) {
		c.model = model
	}
}

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// New creates a Gemini API client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	cfg := &clientConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(cfg)
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Client{client: client, model: cfg.model}, nil
}

// Model returns the default model.
func (c *Client) Model() string {
	return c.model
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []evolve.Message, opts ...evolve.Option) (*evolve.Response, error) {
	options := evolve.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, convertMessages(messages), buildConfig(options))
	if err != nil {
		return nil, wrapError(err)
	}
	return convertResponse(resp)
}

func buildConfig(options *evolve.Options) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if options.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(options.SystemInstruction, genai.RoleUser)
	}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}
	if len(options.StopSequences) > 0 {
		config.StopSequences = options.StopSequences
	}
	if len(options.Tools) > 0 {
		config.Tools = convertTools(options.Tools)
	}
	return config
}

func convertResponse(resp *genai.GenerateContentResponse) (*evolve.Response, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, evolve.NewUserInputError(
			(&BlockedError{Reason: string(resp.PromptFeedback.BlockReason)}).Error(), 400, nil)
	}

	out := &evolve.Response{}
	if len(resp.Candidates) > 0 {
		cand := resp.Candidates[0]
		if cand.Content != nil {
			var text strings.Builder
			for _, part := range cand.Content.Parts {
				if part.Text != "" && !part.Thought {
					text.WriteString(part.Text)
				}
			}
			out.Content = text.String()
			out.ToolCalls = extractToolCalls(cand.Content.Parts)
		}
		out.FinishReason = finishReason(cand.FinishReason, len(out.ToolCalls) > 0)
	}

	if resp.UsageMetadata != nil {
		out.Usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.Usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

func finishReason(reason genai.FinishReason, hasCalls bool) string {
	if hasCalls {
		return evolve.FinishToolCalls
	}
	switch reason {
	case genai.FinishReasonStop:
		return evolve.FinishStop
	case genai.FinishReasonMaxTokens:
		return evolve.FinishLength
	case "":
		return ""
	default:
		return evolve.FinishOther
	}
}

var _ evolve.ChatProvider = (*Client)(nil)
