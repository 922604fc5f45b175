package paypal

import (
	"context"
	"errors"
	"log/slog"

	"github.com/DanielPopoola/booking-paypal-capture/internal/application"
	"github.com/DanielPopoola/booking-paypal-capture/internal/config"
	"github.com/sony/gobreaker"
)

const breakerName = "paypal-capture"

func newCircuitBreaker(cfg config.BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

// countsAsSuccess keeps merchant-side rejections from opening the breaker; only
// outages and throttling count against PayPal.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}

	if provErr, ok := application.IsProviderError(err); ok {
		return !provErr.IsRetryable()
	}

	return errors.Is(err, context.Canceled)
}
