package paypal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/DanielPopoola/booking-paypal-capture/internal/application"
	"github.com/DanielPopoola/booking-paypal-capture/internal/config"
	"github.com/DanielPopoola/booking-paypal-capture/internal/domain"
	"github.com/sony/gobreaker"
)

// Factory builds merchant-bound clients that share one transport, breaker and token cache.
type Factory struct {
	baseURL      string
	httpClient   *http.Client
	cache        application.TokenCache
	breaker      *gobreaker.CircuitBreaker
	retry        retryPolicy
	expiryMargin time.Duration
	recorder     application.CaptureRecorder
	logger       *slog.Logger
}

// NewFactory wires the provider client. cache may be nil, in which case every capture
// fetches a fresh access token.
func NewFactory(
	cfg *config.Config,
	cache application.TokenCache,
	recorder application.CaptureRecorder,
	logger *slog.Logger,
) *Factory {
	return &Factory{
		baseURL: cfg.PayPalBaseURL(),
		httpClient: &http.Client{
			Timeout: cfg.PayPal.ConnTimeout,
		},
		cache:        cache,
		breaker:      newCircuitBreaker(cfg.Breaker, logger),
		retry:        newRetryPolicy(cfg.Retry),
		expiryMargin: cfg.PayPal.TokenExpiryMargin,
		recorder:     recorder,
		logger:       logger,
	}
}

func (f *Factory) NewClient(creds domain.PaymentCredentials) application.PaymentProvider {
	return &Client{
		baseURL:      f.baseURL,
		creds:        creds,
		httpClient:   f.httpClient,
		cache:        f.cache,
		breaker:      f.breaker,
		retry:        f.retry,
		expiryMargin: f.expiryMargin,
		recorder:     f.recorder,
		logger:       f.logger.With("paypal_client_id", creds.ClientID),
	}
}

var _ application.ProviderFactory = (*Factory)(nil)
