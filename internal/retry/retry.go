// Package retry provides bounded retry with constant backoff.
package retry

import (
	"context"
	"time"
)

// Default retry configuration constants.
const (
	// DefaultMaxAttempts is the default total number of attempts.
	DefaultMaxAttempts = 5

	// DefaultDelay is the default delay between failed attempts.
	DefaultDelay = 5 * time.Second
)

// Config contains retry configuration parameters.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Default is 5.
	MaxAttempts int

	// Delay is the fixed delay between failed attempts.
	// Default is 5s.
	Delay time.Duration
}

// DefaultConfig returns the default retry configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultDelay,
	}
}

// GetMaxAttempts returns the effective number of attempts.
func (c *Config) GetMaxAttempts() int {
	if c == nil || c.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return c.MaxAttempts
}

// GetDelay returns the effective delay between attempts.
func (c *Config) GetDelay() time.Duration {
	if c == nil || c.Delay <= 0 {
		return DefaultDelay
	}
	return c.Delay
}

// RetryableFunc is a function that can be retried.
type RetryableFunc func() error

// OnRetryFunc is called before each retry attempt.
type OnRetryFunc func(attempt int, err error, delay time.Duration)

// Options contains optional retry behavior configuration.
type Options struct {
	// OnRetry is called before each retry attempt.
	OnRetry OnRetryFunc
}

// Do executes fn up to cfg.MaxAttempts times, waiting cfg.Delay between
// failed attempts. It returns nil on the first success and the last error
// once attempts are exhausted. Context cancellation aborts both the wait
// and any further attempts.
func Do(ctx context.Context, cfg *Config, fn RetryableFunc, opts *Options) error {
	maxAttempts := cfg.GetMaxAttempts()
	delay := cfg.GetDelay()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		// No wait after the final attempt.
		if attempt < maxAttempts {
			if opts != nil && opts.OnRetry != nil {
				opts.OnRetry(attempt, lastErr, delay)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return lastErr
}
