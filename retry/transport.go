package retry

import (
	"context"

	evolve "github.com/Inventure71/EvolveProject"
)

// Limiter gates outgoing requests. *ratelimit.Limiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Transport wraps a ChatProvider so every attempt passes the limiter and
// transient failures are retried.
type Transport struct {
	provider evolve.ChatProvider
	limiter  Limiter
	cfg      Config
	events   chan<- Event
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithLimiter gates every attempt, retries included, on l.
func WithLimiter(l Limiter) TransportOption {
	return func(t *Transport) {
		t.limiter = l
	}
}

// WithConfig replaces the retry configuration.
func WithConfig(cfg Config) TransportOption {
	return func(t *Transport) {
		t.cfg = cfg
	}
}

// WithEvents sends retry events to ch.
func WithEvents(ch chan<- Event) TransportOption {
	return func(t *Transport) {
		t.events = ch
	}
}

// NewTransport wraps provider using DefaultConfig unless overridden.
func NewTransport(provider evolve.ChatProvider, opts ...TransportOption) *Transport {
	t := &Transport{
		provider: provider,
		cfg:      DefaultConfig(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Chat implements evolve.ChatProvider.
func (t *Transport) Chat(ctx context.Context, messages []evolve.Message, opts ...evolve.Option) (*evolve.Response, error) {
	return DoWithEvents(ctx, t.cfg, t.events, func() (*evolve.Response, error) {
		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		return t.provider.Chat(ctx, messages, opts...)
	})
}

var _ evolve.ChatProvider = (*Transport)(nil)
