package paypal

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/DanielPopoola/booking-paypal-capture/internal/application"
	"github.com/DanielPopoola/booking-paypal-capture/internal/config"
)

type retryPolicy struct {
	baseDelay  time.Duration
	maxRetries int
}

func newRetryPolicy(cfg config.RetryConfig) retryPolicy {
	return retryPolicy{
		baseDelay:  cfg.BaseDelay,
		maxRetries: max(cfg.MaxRetries, 1),
	}
}

// withRetry runs an idempotent provider call until it succeeds, fails permanently,
// or the attempts are spent.
func withRetry[T any](ctx context.Context, p retryPolicy, operation func(ctx context.Context) (*T, error)) (*T, error) {
	var lastErr error

	for attempt := 0; attempt < p.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt < p.maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.backoff(attempt)):
			}
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

func isRetryable(err error) bool {
	if provErr, ok := application.IsProviderError(err); ok {
		return provErr.IsRetryable()
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	return true
}

// backoff doubles the base delay per attempt and adds up to one base delay of jitter.
func (p retryPolicy) backoff(attempt int) time.Duration {
	base := p.baseDelay * time.Duration(1<<attempt)
	if p.baseDelay <= 0 {
		return base
	}

	jitter := time.Duration(rand.Int63n(int64(p.baseDelay) + 1))

	return base + jitter
}
