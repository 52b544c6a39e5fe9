package anglify

import (
	"context"
	"errors"
	"time"
)

// RetryConfig controls how a failing backend connection is retried.
type RetryConfig struct {
	MaxRetries int           // Retries after the first attempt
	BaseDelay  time.Duration // Delay before the first retry, doubled each time
	MaxDelay   time.Duration // Upper bound for a single delay

	// OnRetry, if set, is called before each retry sleep.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultRetryConfig gives a backend that is still starting about fifteen
// seconds to come up.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 5,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   8 * time.Second,
	}
}

// Backoff returns the delay after the given failed attempt (0-based).
func (c RetryConfig) Backoff(attempt int) time.Duration {
	if c.BaseDelay <= 0 {
		return 0
	}
	delay := c.BaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if c.MaxDelay > 0 && delay >= c.MaxDelay {
			return c.MaxDelay
		}
	}
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		return c.MaxDelay
	}
	return delay
}

// WithRetry calls fn until it succeeds, fails with an error IsRetryable
// rejects, or runs out of retries. The last error is returned.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) || attempt >= cfg.MaxRetries {
			return zero, err
		}

		delay := cfg.Backoff(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// IsRetryable reports whether err is a cache failure worth retrying. A
// *CacheError carries its own verdict; anything else is final.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var cacheErr *CacheError
	if errors.As(err, &cacheErr) {
		return cacheErr.Retryable
	}
	return false
}
