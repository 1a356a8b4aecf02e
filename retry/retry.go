package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	evolve "github.com/Inventure71/EvolveProject"
)

// ErrRetriesExhausted wraps the last error once every retry has failed.
var ErrRetriesExhausted = errors.New("retries exhausted")

// sleep waits for d or until ctx ends. Tests replace it.
var sleep = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do executes fn, retrying overloaded and quota failures.
// It respects context cancellation during backoff waits.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	return DoWithEvents(ctx, cfg, nil, fn)
}

// DoWithEvents is like Do but emits events for observability.
// Events are sent non-blocking; if the channel is full, events are dropped.
// Pass nil for events to disable event emission (equivalent to Do).
func DoWithEvents[T any](ctx context.Context, cfg Config, events chan<- Event, fn func() (T, error)) (T, error) {
	var zero T
	maxAttempts := cfg.MaxRetries + 1
	backoffStep := 0

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		emit(events, Event{Type: EventAttemptStart, Attempt: attempt, MaxAttempts: maxAttempts})

		result, err := fn()
		if err == nil {
			emit(events, Event{Type: EventSuccess, Attempt: attempt, MaxAttempts: maxAttempts})
			return result, nil
		}

		kind, suggested := Classify(err)
		emit(events, Event{
			Type:        EventAttemptFailed,
			Attempt:     attempt,
			MaxAttempts: maxAttempts,
			Kind:        kind,
			Error:       err,
		})

		if kind != evolve.KindOverloaded && kind != evolve.KindQuotaExceeded {
			return zero, err
		}

		if attempt >= maxAttempts {
			slog.Error("Provider error after retries",
				"kind", kind,
				"retries", cfg.MaxRetries,
				"error", err)
			emit(events, Event{
				Type:        EventExhausted,
				Attempt:     attempt,
				MaxAttempts: maxAttempts,
				Kind:        kind,
				Error:       err,
			})
			return zero, fmt.Errorf("%w after %d retries: %w", ErrRetriesExhausted, cfg.MaxRetries, err)
		}

		delay := suggested
		if delay <= 0 {
			delay = cfg.Delay(backoffStep)
			backoffStep++
		}

		slog.Warn("Transient provider error, retrying",
			"kind", kind,
			"retry", attempt,
			"max_retries", cfg.MaxRetries,
			"delay", delay,
			"suggested", suggested > 0)
		emit(events, Event{
			Type:        EventRetrying,
			Attempt:     attempt,
			MaxAttempts: maxAttempts,
			Kind:        kind,
			Error:       err,
			Delay:       delay,
			Suggested:   suggested > 0,
		})

		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
}
