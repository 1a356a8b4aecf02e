// Package anthropic adapts the Anthropic Messages API to
// evolve.ChatProvider.
package anthropic

import (
	"context"
	"strings"

	evolve "github.com/Inventure71/EvolveProject"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	// DefaultModel is used when neither the client nor the request names one.
	DefaultModel = "claude-sonnet-4-5"

	// defaultMaxTokens is required by the API on every request.
	defaultMaxTokens = 4096
)

// Client wraps the Anthropic SDK to implement evolve.ChatProvider.
type Client struct {
	client *anthropic.Client
	model  string
}

// ClientOption configures the Anthropic client.
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

// New creates an Anthropic client with the given API key. The SDK's own
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

	client := anthropic.NewClient(reqOpts...)
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

	resp, err := c.client.Messages.New(ctx, buildParams(model, messages, options))
	if err != nil {
		return nil, wrapError(err)
	}
	return convertResponse(resp), nil
}

func buildParams(model string, messages []evolve.Message, options *evolve.Options) anthropic.MessageNewParams {
	maxTokens := int64(defaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  convertMessages(messages),
	}
	if options.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: options.SystemInstruction}}
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}
	if len(options.StopSequences) > 0 {
		params.StopSequences = options.StopSequences
	}
	if len(options.Tools) > 0 {
		params.Tools = convertTools(options.Tools)
	}
	return params
}

func convertResponse(resp *anthropic.Message) *evolve.Response {
	var text strings.Builder
	var toolCalls []evolve.ToolCall
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			args := string(block.Input)
			if args == "" || args == "null" {
				args = "{}"
			}
			toolCalls = append(toolCalls, evolve.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: args,
			})
		}
	}

	return &evolve.Response{
		Content:      text.String(),
		FinishReason: finishReason(resp.StopReason),
		Usage: evolve.Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
		ToolCalls: toolCalls,
	}
}

func finishReason(reason anthropic.StopReason) string {
	switch reason {
	case anthropic.StopReasonEndTurn, anthropic.StopReasonStopSequence:
		return evolve.FinishStop
	case anthropic.StopReasonMaxTokens:
		return evolve.FinishLength
	case anthropic.StopReasonToolUse:
		return evolve.FinishToolCalls
	case "":
		return ""
	default:
		return evolve.FinishOther
	}
}

var _ evolve.ChatProvider = (*Client)(nil)
