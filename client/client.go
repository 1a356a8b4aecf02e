package client

import (
	"context"
	"fmt"
	"log/slog"

	evolve "github.com/Inventure71/EvolveProject"
	"github.com/Inventure71/EvolveProject/internal/provider/anthropic"
	"github.com/Inventure71/EvolveProject/internal/provider/google"
	"github.com/Inventure71/EvolveProject/internal/provider/openai"
	"github.com/Inventure71/EvolveProject/ratelimit"
	"github.com/Inventure71/EvolveProject/retry"
)

// DefaultOllamaModel is used for Ollama when no model is configured.
const DefaultOllamaModel = "llama3.1"

// Config holds configuration for creating a client.
type Config struct {
	// Provider selects the backend. Defaults to Google.
	Provider evolve.Provider

	// APIKey authenticates against the provider. Ollama does not need one.
	APIKey string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// Model is the default model. Each provider has its own fallback.
	Model string

	// RequestsPerMinute sizes the rate limiter. Zero uses
	// ratelimit.DefaultPerMinute; a negative value disables limiting.
	RequestsPerMinute int

	// Limiter, when set, is used instead of a new limiter.
	Limiter retry.Limiter

	// Retry configures retry behavior. If nil, retry.DefaultConfig is used.
	Retry *retry.Config

	// Events receives retry events. Sends never block.
	Events chan<- retry.Event
}

// ErrMissingAPIKey is returned when the provider needs a key and none is set.
type ErrMissingAPIKey struct {
	Provider evolve.Provider
}

func (e *ErrMissingAPIKey) Error() string {
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// ErrUnsupportedProvider is returned for an unknown provider name.
type ErrUnsupportedProvider struct {
	Provider evolve.Provider
}

func (e *ErrUnsupportedProvider) Error() string {
	return fmt.Sprintf("unsupported provider: %q", string(e.Provider))
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithDefaultTemperature sets the default temperature for chat requests.
// Per-request options override this default.
func WithDefaultTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, evolve.WithTemperature(t))
	}
}

// WithDefaultMaxTokens sets the default max tokens for chat requests.
// Per-request options override this default.
func WithDefaultMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, evolve.WithMaxTokens(n))
	}
}

// WithDefaultChatOptions sets default options for all chat requests.
// Per-request options override these defaults.
func WithDefaultChatOptions(opts ...evolve.Option) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, opts...)
	}
}

// Client is a rate limited, retrying chat provider.
type Client struct {
	provider        evolve.Provider
	model           string
	transport       *retry.Transport
	defaultChatOpts []evolve.Option
}

// modeled is implemented by every provider adapter.
type modeled interface {
	evolve.ChatProvider
	Model() string
}

// New creates a client for cfg.Provider.
func New(ctx context.Context, cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.Provider == "" {
		cfg.Provider = evolve.ProviderGoogle
	}

	backend, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	retryCfg := retry.DefaultConfig()
	if cfg.Retry != nil {
		retryCfg = *cfg.Retry
	}

	tOpts := []retry.TransportOption{retry.WithConfig(retryCfg), retry.WithEvents(cfg.Events)}
	switch {
	case cfg.Limiter != nil:
		tOpts = append(tOpts, retry.WithLimiter(cfg.Limiter))
	case cfg.RequestsPerMinute >= 0:
		perMinute := cfg.RequestsPerMinute
		if perMinute == 0 {
			perMinute = ratelimit.DefaultPerMinute
		}
		tOpts = append(tOpts, retry.WithLimiter(ratelimit.New(perMinute)))
	}

	c := &Client{
		provider:  cfg.Provider,
		model:     backend.Model(),
		transport: retry.NewTransport(backend, tOpts...),
	}
	for _, opt := range opts {
		opt(c)
	}

	slog.Debug("Chat client ready", "provider", c.provider, "model", c.model, "max_retries", retryCfg.MaxRetries)
	return c, nil
}

func newBackend(ctx context.Context, cfg Config) (modeled, error) {
	switch cfg.Provider {
	case evolve.ProviderGoogle:
		if cfg.APIKey == "" {
			return nil, &ErrMissingAPIKey{Provider: cfg.Provider}
		}
		var gOpts []google.ClientOption
		if cfg.Model != "" {
			gOpts = append(gOpts, google.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			gOpts = append(gOpts, google.WithBaseURL(cfg.BaseURL))
		}
		c, err := google.New(ctx, cfg.APIKey, gOpts...)
		if err != nil {
			return nil, fmt.Errorf("initialize google client: %w", err)
		}
		return c, nil

	case evolve.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, &ErrMissingAPIKey{Provider: cfg.Provider}
		}
		return openai.New(cfg.APIKey, openaiOptions(cfg, "")...), nil

	case evolve.ProviderOllama:
		key := cfg.APIKey
		if key == "" {
			key = "ollama"
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = openai.OllamaBaseURL
		}
		cfg.BaseURL = baseURL
		return openai.New(key, openaiOptions(cfg, DefaultOllamaModel)...), nil

	case evolve.ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, &ErrMissingAPIKey{Provider: cfg.Provider}
		}
		var aOpts []anthropic.ClientOption
		if cfg.Model != "" {
			aOpts = append(aOpts, anthropic.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			aOpts = append(aOpts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		return anthropic.New(cfg.APIKey, aOpts...), nil

	default:
		return nil, &ErrUnsupportedProvider{Provider: cfg.Provider}
	}
}

func openaiOptions(cfg Config, fallbackModel string) []openai.ClientOption {
	var opts []openai.ClientOption
	switch {
	case cfg.Model != "":
		opts = append(opts, openai.WithModel(cfg.Model))
	case fallbackModel != "":
		opts = append(opts, openai.WithModel(fallbackModel))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	return opts
}

// Provider returns the backend in use.
func (c *Client) Provider() evolve.Provider {
	return c.provider
}

// Model returns the default model.
func (c *Client) Model() string {
	return c.model
}

// Chat sends a conversation through the limiter and retry policy.
func (c *Client) Chat(ctx context.Context, messages []evolve.Message, opts ...evolve.Option) (*evolve.Response, error) {
	if len(c.defaultChatOpts) > 0 {
		opts = append(append([]evolve.Option{}, c.defaultChatOpts...), opts...)
	}
	return c.transport.Chat(ctx, messages, opts...)
}

var _ evolve.ChatProvider = (*Client)(nil)
