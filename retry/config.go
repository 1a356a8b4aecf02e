// Package retry retries provider calls that fail with transient errors.
//
// Only two failure classes are retried: an overloaded provider and an
// exceeded quota. When the provider suggests a delay it is used verbatim;
// otherwise the delay grows exponentially from InitialDelay, capped at
// MaxDelay. Every other error is returned immediately.
package retry

import (
	"math"
	"time"
)

// Config holds retry configuration parameters.
type Config struct {
	// MaxRetries is the number of retries after the initial attempt (default: 5).
	MaxRetries int

	// InitialDelay is the backoff before the first retry (default: 5s).
	InitialDelay time.Duration

	// MaxDelay caps the backoff (default: 60s).
	MaxDelay time.Duration

	// Multiplier grows the backoff after each backoff-driven retry (default: 1.5).
	Multiplier float64
}

// DefaultConfig returns the default retry configuration.
//   - 5 retries (6 attempts total)
//   - 5 second initial delay
//   - 60 second max delay
//   - 1.5x exponential multiplier
func DefaultConfig() Config {
	return Config{
		MaxRetries:   5,
		InitialDelay: 5 * time.Second,
		MaxDelay:     60 * time.Second,
		Multiplier:   1.5,
	}
}

// Disabled returns a configuration that disables retries (single attempt).
func Disabled() Config {
	return Config{MaxRetries: 0}
}

// Delay calculates the nth backoff delay (0-indexed).
// Formula: min(maxDelay, initialDelay * multiplier^n)
func (c Config) Delay(n int) time.Duration {
	if n < 0 {
		n = 0
	}
	mult := c.Multiplier
	if mult <= 0 {
		mult = 1
	}

	delay := float64(c.InitialDelay) * math.Pow(mult, float64(n))
	if c.MaxDelay > 0 && delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}
	return time.Duration(delay)
}
