package retry

import (
	"context"
	"testing"

	evolve "github.com/Inventure71/EvolveProject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLimiter struct {
	calls int
	err   error
}

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.calls++
	return l.err
}

func TestTransportRetriesThroughLimiter(t *testing.T) {
	delays := recordSleeps(t)
	limiter := &countingLimiter{}
	callCount := 0

	provider := evolve.ChatProviderFunc(func(ctx context.Context, messages []evolve.Message, opts ...evolve.Option) (*evolve.Response, error) {
		callCount++
		if callCount < 3 {
			return nil, evolve.NewOverloadedError("overloaded", 503, nil)
		}
		return &evolve.Response{Content: "done", FinishReason: evolve.FinishStop}, nil
	})

	tr := NewTransport(provider, WithLimiter(limiter))
	resp, err := tr.Chat(context.Background(), []evolve.Message{evolve.NewUserMessage("hi")})

	require.NoError(t, err)
	assert.Equal(t, "done", resp.Content)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, limiter.calls)
	assert.Len(t, *delays, 2)
}

func TestTransportLimiterErrorAborts(t *testing.T) {
	recordSleeps(t)
	limiter := &countingLimiter{err: context.Canceled}
	called := false

	provider := evolve.ChatProviderFunc(func(ctx context.Context, messages []evolve.Message, opts ...evolve.Option) (*evolve.Response, error) {
		called = true
		return &evolve.Response{}, nil
	})

	tr := NewTransport(provider, WithLimiter(limiter), WithConfig(DefaultConfig()))
	_, err := tr.Chat(context.Background(), nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestTransportPassesOptions(t *testing.T) {
	var got *evolve.Options
	provider := evolve.ChatProviderFunc(func(ctx context.Context, messages []evolve.Message, opts ...evolve.Option) (*evolve.Response, error) {
		got = evolve.ApplyOptions(opts...)
		return &evolve.Response{Content: "x"}, nil
	})

	tr := NewTransport(provider)
	_, err := tr.Chat(context.Background(), nil, evolve.WithModel("m"), evolve.WithStopSequences("!FINISHED_TASK!"))

	require.NoError(t, err)
	assert.Equal(t, "m", got.Model)
	assert.Equal(t, []string{"!FINISHED_TASK!"}, got.StopSequences)
}
