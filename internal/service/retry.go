package service

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/chainguard-dev/clog"
)

type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// backoff doubles BaseDelay per attempt up to MaxDelay, with up to 25% jitter
// either way.
func (c RetryConfig) backoff(attempt int) time.Duration {
	delay := c.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		delay = c.MaxDelay
	}

	jitter := int64(delay) / 4
	if jitter > 0 {
		delay += time.Duration(rand.Int64N(2*jitter+1) - jitter)
	}
	return delay
}

// retryWithBackoff calls fn until it succeeds, returns an error that
// retryable rejects, or MaxRetries retries have been spent.
func retryWithBackoff[T any](ctx context.Context, cfg RetryConfig, retryable func(error) bool, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := cfg.backoff(attempt)
			clog.FromContext(ctx).Infof("retry attempt %d/%d after %v: %v", attempt, cfg.MaxRetries, delay, lastErr)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, fmt.Errorf("context done during retry: %w", ctx.Err())
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !retryable(err) {
			return zero, err
		}
	}

	return zero, fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, lastErr)
}
