package paypal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DanielPopoola/booking-paypal-capture/internal/application"
	"github.com/DanielPopoola/booking-paypal-capture/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenStub struct{ value string }

func TestWithRetry_RetriesOn5xx(t *testing.T) {
	policy := newRetryPolicy(config.RetryConfig{BaseDelay: time.Millisecond, MaxRetries: 3})

	calls := 0
	resp, err := withRetry(context.Background(), policy, func(context.Context) (*tokenStub, error) {
		calls++
		if calls < 3 {
			return nil, &application.ProviderError{Name: "INTERNAL_SERVER_ERROR", StatusCode: 500}
		}
		return &tokenStub{value: "A21AA"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "A21AA", resp.value)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_NoRetryOn4xx(t *testing.T) {
	policy := newRetryPolicy(config.RetryConfig{BaseDelay: time.Millisecond, MaxRetries: 3})

	calls := 0
	_, err := withRetry(context.Background(), policy, func(context.Context) (*tokenStub, error) {
		calls++
		return nil, &application.ProviderError{Name: "invalid_client", StatusCode: 401}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)

	provErr, ok := application.IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, 401, provErr.StatusCode)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	policy := newRetryPolicy(config.RetryConfig{BaseDelay: time.Millisecond, MaxRetries: 2})
	netErr := errors.New("connection reset by peer")

	calls := 0
	_, err := withRetry(context.Background(), policy, func(context.Context) (*tokenStub, error) {
		calls++
		return nil, netErr
	})

	assert.ErrorIs(t, err, netErr)
	assert.Contains(t, err.Error(), "maximum retries exceeded")
	assert.Equal(t, 2, calls)
}

func TestWithRetry_StopsWhenContextCancelled(t *testing.T) {
	policy := newRetryPolicy(config.RetryConfig{BaseDelay: time.Hour, MaxRetries: 3})
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := withRetry(ctx, policy, func(context.Context) (*tokenStub, error) {
		calls++
		cancel()
		return nil, &application.ProviderError{StatusCode: 503}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestBackoff_GrowsWithJitterBound(t *testing.T) {
	policy := retryPolicy{baseDelay: 10 * time.Millisecond, maxRetries: 3}

	for attempt := 0; attempt < 3; attempt++ {
		d := policy.backoff(attempt)
		floor := policy.baseDelay * time.Duration(1<<attempt)
		assert.GreaterOrEqual(t, d, floor)
		assert.LessOrEqual(t, d, floor+policy.baseDelay)
	}
}
