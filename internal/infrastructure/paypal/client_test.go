package paypal_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DanielPopoola/booking-paypal-capture/internal/application"
	"github.com/DanielPopoola/booking-paypal-capture/internal/application/mocks"
	"github.com/DanielPopoola/booking-paypal-capture/internal/config"
	"github.com/DanielPopoola/booking-paypal-capture/internal/domain"
	"github.com/DanielPopoola/booking-paypal-capture/internal/infrastructure/paypal"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var merchant = domain.PaymentCredentials{ClientID: "client-1", SecretKey: "secret-1", WebhookID: "wh-1"}

type memoryTokenCache struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemoryTokenCache() *memoryTokenCache {
	return &memoryTokenCache{tokens: make(map[string]string)}
}

func (m *memoryTokenCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[key]
	return token, ok, nil
}

func (m *memoryTokenCache) Set(_ context.Context, key, token string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[key] = token
	return nil
}

func (m *memoryTokenCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, key)
	return nil
}

// fakePayPal serves the two endpoints the client uses and counts hits.
type fakePayPal struct {
	tokenHits   atomic.Int32
	captureHits atomic.Int32

	tokenHandler   http.HandlerFunc
	captureHandler http.HandlerFunc
}

func newFakePayPal(t *testing.T) (*fakePayPal, *httptest.Server) {
	f := &fakePayPal{
		tokenHandler: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"access_token": "A21-token",
				"token_type":   "Bearer",
				"expires_in":   32400,
			})
		},
		captureHandler: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, completedCapture("ORDER-1", "CAP-9"))
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenHits.Add(1)
		f.tokenHandler(w, r)
	})
	mux.HandleFunc("POST /v2/checkout/orders/{id}/capture", func(w http.ResponseWriter, r *http.Request) {
		f.captureHits.Add(1)
		f.captureHandler(w, r)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func completedCapture(orderID, captureID string) map[string]any {
	return map[string]any{
		"id":     orderID,
		"status": "COMPLETED",
		"purchase_units": []map[string]any{{
			"reference_id": "default",
			"payments": map[string]any{
				"captures": []map[string]any{{"id": captureID, "status": "COMPLETED"}},
			},
		}},
	}
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Primary: config.Primary{Env: "test"},
		PayPal: config.PayPalConfig{
			LiveBaseURL:       baseURL,
			SandboxBaseURL:    baseURL,
			ConnTimeout:       5 * time.Second,
			TokenExpiryMargin: time.Minute,
		},
		Retry: config.RetryConfig{BaseDelay: time.Millisecond, MaxRetries: 3},
		Breaker: config.BreakerConfig{
			MaxRequests:         1,
			Interval:            time.Minute,
			Timeout:             time.Minute,
			ConsecutiveFailures: 2,
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCaptureOrder_CompletedIsRecorded(t *testing.T) {
	fake, srv := newFakePayPal(t)

	fake.tokenHandler = func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-1" || pass != "secret-1" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid_client", "error_description": "Client Authentication failed"})
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unsupported_grant_type"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "A21-token", "expires_in": 32400})
	}
	fake.captureHandler = func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer A21-token" || r.Header.Get("PayPal-Request-Id") == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"name": "AUTHENTICATION_FAILURE"})
			return
		}
		assert.Equal(t, "ORDER-1", r.PathValue("id"))
		writeJSON(w, http.StatusCreated, completedCapture("ORDER-1", "CAP-9"))
	}

	recorder := mocks.NewMockCaptureRecorder(t)
	recorder.On("RecordCapture", mock.Anything, "ORDER-1", "CAP-9").Return(nil).Once()

	client := paypal.NewFactory(testConfig(srv.URL), nil, recorder, testLogger()).NewClient(merchant)

	result, err := client.CaptureOrder(context.Background(), "ORDER-1")

	require.NoError(t, err)
	assert.True(t, result.Completed())
	assert.Equal(t, "CAP-9", result.ID)
}

func TestCaptureOrder_NotCompletedIsNotRecorded(t *testing.T) {
	fake, srv := newFakePayPal(t)
	fake.captureHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": "ORDER-1", "status": "PAYER_ACTION_REQUIRED"})
	}

	recorder := mocks.NewMockCaptureRecorder(t)
	client := paypal.NewFactory(testConfig(srv.URL), nil, recorder, testLogger()).NewClient(merchant)

	result, err := client.CaptureOrder(context.Background(), "ORDER-1")

	require.NoError(t, err)
	assert.False(t, result.Completed())
	assert.Equal(t, "ORDER-1", result.ID)
	recorder.AssertNotCalled(t, "RecordCapture", mock.Anything, mock.Anything, mock.Anything)
}

func TestCaptureOrder_ProviderRejection(t *testing.T) {
	fake, srv := newFakePayPal(t)
	fake.captureHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"name":     "UNPROCESSABLE_ENTITY",
			"message":  "The requested action could not be performed.",
			"debug_id": "f1d2c3",
		})
	}

	recorder := mocks.NewMockCaptureRecorder(t)
	client := paypal.NewFactory(testConfig(srv.URL), nil, recorder, testLogger()).NewClient(merchant)

	result, err := client.CaptureOrder(context.Background(), "ORDER-1")

	require.Error(t, err)
	assert.Nil(t, result)

	provErr, ok := application.IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, "UNPROCESSABLE_ENTITY", provErr.Name)
	assert.Equal(t, "f1d2c3", provErr.DebugID)
	assert.Equal(t, http.StatusUnprocessableEntity, provErr.StatusCode)
	assert.Equal(t, int32(1), fake.captureHits.Load(), "capture must not be retried")
}

func TestCaptureOrder_AccessTokenIsCached(t *testing.T) {
	fake, srv := newFakePayPal(t)

	recorder := mocks.NewMockCaptureRecorder(t)
	recorder.On("RecordCapture", mock.Anything, "ORDER-1", "CAP-9").Return(nil).Twice()

	factory := paypal.NewFactory(testConfig(srv.URL), newMemoryTokenCache(), recorder, testLogger())

	for i := 0; i < 2; i++ {
		_, err := factory.NewClient(merchant).CaptureOrder(context.Background(), "ORDER-1")
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), fake.tokenHits.Load())
	assert.Equal(t, int32(2), fake.captureHits.Load())
}

func TestCaptureOrder_TokenRequestRetriedOnServerError(t *testing.T) {
	fake, srv := newFakePayPal(t)
	fake.tokenHandler = func(w http.ResponseWriter, r *http.Request) {
		if fake.tokenHits.Load() == 1 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"name": "SERVICE_UNAVAILABLE"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "A21-token", "expires_in": 32400})
	}

	recorder := mocks.NewMockCaptureRecorder(t)
	recorder.On("RecordCapture", mock.Anything, "ORDER-1", "CAP-9").Return(nil).Once()

	client := paypal.NewFactory(testConfig(srv.URL), nil, recorder, testLogger()).NewClient(merchant)

	result, err := client.CaptureOrder(context.Background(), "ORDER-1")

	require.NoError(t, err)
	assert.True(t, result.Completed())
	assert.Equal(t, int32(2), fake.tokenHits.Load())
}

func TestCaptureOrder_TokenRequestNotRetriedOnAuthFailure(t *testing.T) {
	fake, srv := newFakePayPal(t)
	fake.tokenHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error":             "invalid_client",
			"error_description": "Client Authentication failed",
		})
	}

	recorder := mocks.NewMockCaptureRecorder(t)
	client := paypal.NewFactory(testConfig(srv.URL), nil, recorder, testLogger()).NewClient(merchant)

	_, err := client.CaptureOrder(context.Background(), "ORDER-1")

	require.Error(t, err)
	provErr, ok := application.IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, "invalid_client", provErr.Name)
	assert.Equal(t, "Client Authentication failed", provErr.Message)
	assert.Equal(t, int32(1), fake.tokenHits.Load())
	assert.Equal(t, int32(0), fake.captureHits.Load())
}

func TestCaptureOrder_BreakerOpensOnOutage(t *testing.T) {
	fake, srv := newFakePayPal(t)
	fake.captureHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"name": "INTERNAL_SERVER_ERROR"})
	}

	recorder := mocks.NewMockCaptureRecorder(t)
	factory := paypal.NewFactory(testConfig(srv.URL), newMemoryTokenCache(), recorder, testLogger())

	for i := 0; i < 2; i++ {
		_, err := factory.NewClient(merchant).CaptureOrder(context.Background(), "ORDER-1")
		_, ok := application.IsProviderError(err)
		require.True(t, ok)
	}

	_, err := factory.NewClient(merchant).CaptureOrder(context.Background(), "ORDER-1")

	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), fake.captureHits.Load())
}

func TestCaptureOrder_RecorderFailure(t *testing.T) {
	_, srv := newFakePayPal(t)

	recorder := mocks.NewMockCaptureRecorder(t)
	recorder.On("RecordCapture", mock.Anything, "ORDER-1", "CAP-9").Return(domain.ErrPaymentNotFound).Once()

	client := paypal.NewFactory(testConfig(srv.URL), nil, recorder, testLogger()).NewClient(merchant)

	result, err := client.CaptureOrder(context.Background(), "ORDER-1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestCaptureOrder_RejectedCachedTokenIsRefreshed(t *testing.T) {
	fake, srv := newFakePayPal(t)

	var requestIDs []string
	var mu sync.Mutex
	fake.captureHandler = func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requestIDs = append(requestIDs, r.Header.Get("PayPal-Request-Id"))
		mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer A21-token" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"name": "AUTHENTICATION_FAILURE", "message": "token invalid"})
			return
		}
		writeJSON(w, http.StatusCreated, completedCapture("ORDER-1", "CAP-9"))
	}

	tokens := newMemoryTokenCache()
	require.NoError(t, tokens.Set(context.Background(), merchant.ClientID, "REVOKED", time.Hour))

	recorder := mocks.NewMockCaptureRecorder(t)
	recorder.On("RecordCapture", mock.Anything, "ORDER-1", "CAP-9").Return(nil).Once()

	client := paypal.NewFactory(testConfig(srv.URL), tokens, recorder, testLogger()).NewClient(merchant)

	result, err := client.CaptureOrder(context.Background(), "ORDER-1")

	require.NoError(t, err)
	assert.True(t, result.Completed())
	assert.Equal(t, int32(1), fake.tokenHits.Load())
	assert.Equal(t, int32(2), fake.captureHits.Load())

	require.Len(t, requestIDs, 2)
	assert.NotEmpty(t, requestIDs[0])
	assert.Equal(t, requestIDs[0], requestIDs[1], "re-sent capture must reuse the request id")

	cached, ok, _ := tokens.Get(context.Background(), merchant.ClientID)
	assert.True(t, ok)
	assert.Equal(t, "A21-token", cached)
}

func TestCaptureOrder_AuthFailureEvictsToken(t *testing.T) {
	unauthorized := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"name": "AUTHENTICATION_FAILURE", "message": "token invalid"})
	}

	t.Run("cached token still rejected after refresh", func(t *testing.T) {
		fake, srv := newFakePayPal(t)
		fake.captureHandler = unauthorized

		tokens := newMemoryTokenCache()
		require.NoError(t, tokens.Set(context.Background(), merchant.ClientID, "REVOKED", time.Hour))

		client := paypal.NewFactory(testConfig(srv.URL), tokens, mocks.NewMockCaptureRecorder(t), testLogger()).NewClient(merchant)

		_, err := client.CaptureOrder(context.Background(), "ORDER-1")

		provErr, ok := application.IsProviderError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
		assert.Equal(t, int32(1), fake.tokenHits.Load())
		assert.Equal(t, int32(2), fake.captureHits.Load())

		_, cached, _ := tokens.Get(context.Background(), merchant.ClientID)
		assert.False(t, cached)
	})

	t.Run("fresh token is not re-sent", func(t *testing.T) {
		fake, srv := newFakePayPal(t)
		fake.captureHandler = unauthorized

		tokens := newMemoryTokenCache()
		client := paypal.NewFactory(testConfig(srv.URL), tokens, mocks.NewMockCaptureRecorder(t), testLogger()).NewClient(merchant)

		_, err := client.CaptureOrder(context.Background(), "ORDER-1")

		require.Error(t, err)
		assert.Equal(t, int32(1), fake.tokenHits.Load())
		assert.Equal(t, int32(1), fake.captureHits.Load())

		_, cached, _ := tokens.Get(context.Background(), merchant.ClientID)
		assert.False(t, cached)
	})
}
