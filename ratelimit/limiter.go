// Package ratelimit provides a fixed-window requests-per-minute limiter.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultPerMinute is the request ceiling used when none is configured.
const DefaultPerMinute = 30

// Window is the length of one counting window.
const Window = time.Minute

// Limiter enforces a fixed requests-per-minute ceiling.
//
// It counts requests in a fixed one-minute window. Once the ceiling is
// reached the caller blocks until the window ends, after which the window
// restarts. Bursts straddling a window boundary are allowed.
type Limiter struct {
	mu          sync.Mutex
	perMinute   int
	windowStart time.Time
	count       int

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithSleep replaces the blocking wait. The function must return ctx.Err()
// if the context ends before d elapses.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Limiter) {
		l.sleep = sleep
	}
}

// New creates a limiter allowing perMinute requests per window.
// A non-positive perMinute selects DefaultPerMinute.
func New(perMinute int, opts ...Option) *Limiter {
	if perMinute <= 0 {
		perMinute = DefaultPerMinute
	}
	l := &Limiter{
		perMinute: perMinute,
		now:       time.Now,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.windowStart = l.now()
	return l
}

// PerMinute returns the configured ceiling.
func (l *Limiter) PerMinute() int {
	return l.perMinute
}

// Wait must be called before each outgoing request. It blocks while the
// current window is full and returns ctx.Err() if cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	elapsed := l.now().Sub(l.windowStart)
	if elapsed > Window {
		l.reset()
		elapsed = 0
	}

	if l.count >= l.perMinute {
		remaining := Window - elapsed
		if remaining > 0 {
			slog.Info("Rate limit reached, waiting",
				"wait", remaining.Round(time.Millisecond),
				"limit", l.perMinute)
			if err := l.sleep(ctx, remaining); err != nil {
				return err
			}
		}
		l.reset()
	}

	l.count++
	return nil
}

func (l *Limiter) reset() {
	l.windowStart = l.now()
	l.count = 0
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
