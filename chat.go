package evolve

import "context"

// ChatProvider defines the interface for model providers.
type ChatProvider interface {
	// Chat sends a conversation and returns a complete response.
	Chat(ctx context.Context, messages []Message, opts ...Option) (*Response, error)
}

// ChatProviderFunc adapts a function to the ChatProvider interface.
type ChatProviderFunc func(ctx context.Context, messages []Message, opts ...Option) (*Response, error)

// Chat calls f.
func (f ChatProviderFunc) Chat(ctx context.Context, messages []Message, opts ...Option) (*Response, error) {
	return f(ctx, messages, opts...)
}
