// Package openai adapts the OpenAI chat completions API to
// evolve.ChatProvider. Any compatible server, such as Ollama, can be used
// through WithBaseURL.
package openai

import (
	"context"

	evolve "github.com/Inventure71/EvolveProject"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultModel is used when neither the client nor the request names one.
	DefaultModel = "gpt-4o-mini"

	// OllamaBaseURL is the OpenAI-compatible endpoint of a local Ollama.
	OllamaBaseURL = "http://localhost:11434/v1/"
)

// Client wraps the OpenAI SDK to implement evolve.ChatProvider.
type Client struct {
	client *openai.Client
	model  string
}

// ClientOption configures the OpenAI client.
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

// WithBaseURL points the client at a compatible server.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// New creates an OpenAI client with the given API key. The SDK's own
// retries are disabled; retry.Transport owns the retry policy.
func New(apiKey string, opts ...ClientOption) *Client {
	cfg := &clientConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}

	client := openai.NewClient(reqOpts...)
	return &Client{client: &client, model: cfg.model}
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

	resp, err := c.client.Chat.Completions.New(ctx, buildParams(model, messages, options))
	if err != nil {
		return nil, wrapError(err)
	}
	return convertResponse(resp), nil
}

func buildParams(model string, messages []evolve.Message, options *evolve.Options) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: convertMessages(options.SystemInstruction, messages),
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}
	if len(options.StopSequences) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: options.StopSequences}
	}
	if len(options.Tools) > 0 {
		params.Tools = convertTools(options.Tools)
	}
	return params
}

func convertResponse(resp *openai.ChatCompletion) *evolve.Response {
	out := &evolve.Response{
		Usage: evolve.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
	}
	if len(resp.Choices) == 0 {
		return out
	}

	choice := resp.Choices[0]
	out.Content = choice.Message.Content
	out.ToolCalls = extractToolCalls(choice.Message)
	out.FinishReason = finishReason(choice.FinishReason, len(out.ToolCalls) > 0)
	return out
}

func finishReason(reason string, hasCalls bool) string {
	if hasCalls {
		return evolve.FinishToolCalls
	}
	switch reason {
	case "stop":
		return evolve.FinishStop
	case "length":
		return evolve.FinishLength
	case "tool_calls", "function_call":
		return evolve.FinishToolCalls
	case "":
		return ""
	default:
		return evolve.FinishOther
	}
}

var _ evolve.ChatProvider = (*Client)(nil)
