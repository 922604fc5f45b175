// Package paypal talks to the PayPal REST API on behalf of a single merchant.
package paypal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DanielPopoola/booking-paypal-capture/internal/application"
	"github.com/DanielPopoola/booking-paypal-capture/internal/domain"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

const (
	tokenPath   = "/v1/oauth2/token"
	capturePath = "/v2/checkout/orders/%s/capture"

	headerRequestID = "PayPal-Request-Id"
)

var errEmptyAccessToken = errors.New("paypal returned an empty access token")

// Client is bound to one merchant's credentials. It is cheap to build per request;
// the HTTP client, breaker and token cache are shared through the Factory.
type Client struct {
	baseURL      string
	creds        domain.PaymentCredentials
	httpClient   *http.Client
	cache        application.TokenCache
	breaker      *gobreaker.CircuitBreaker
	retry        retryPolicy
	expiryMargin time.Duration
	recorder     application.CaptureRecorder
	logger       *slog.Logger
}

// CaptureOrder captures the order approved by the buyer. A COMPLETED capture is recorded
// before it is returned; any other status is returned as-is without recording.
// The capture is only re-sent once, with the same PayPal-Request-Id, when PayPal rejects
// a cached access token.
func (c *Client) CaptureOrder(ctx context.Context, token string) (*domain.CaptureResult, error) {
	accessToken, cached, err := c.accessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("paypal access token: %w", err)
	}

	endpoint := c.baseURL + fmt.Sprintf(capturePath, url.PathEscape(token))
	requestID := uuid.NewString()

	resp, err := c.capture(ctx, endpoint, accessToken, requestID)
	if cached && isAuthFailure(err) {
		c.logger.Warn("cached paypal access token rejected, refreshing", "error", err)
		c.evictToken(ctx)

		accessToken, err = c.fetchToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("paypal access token: %w", err)
		}

		resp, err = c.capture(ctx, endpoint, accessToken, requestID)
	}
	if err != nil {
		if isAuthFailure(err) {
			c.evictToken(ctx)
		}
		return nil, err
	}

	result := &domain.CaptureResult{
		ID:     resp.captureID(),
		Status: resp.Status,
	}

	if !result.Completed() {
		return result, nil
	}

	if err := c.recorder.RecordCapture(ctx, token, result.ID); err != nil {
		return nil, fmt.Errorf("record capture: %w", err)
	}

	return result, nil
}

func (c *Client) capture(ctx context.Context, endpoint, accessToken, requestID string) (*captureResponse, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+accessToken)
	header.Set("Content-Type", "application/json")
	header.Set(headerRequestID, requestID)

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return sendRequest[captureResponse](ctx, c.httpClient, http.MethodPost, endpoint, nil, header)
	})
	if err != nil {
		return nil, err
	}

	return out.(*captureResponse), nil
}

func isAuthFailure(err error) bool {
	provErr, ok := application.IsProviderError(err)
	return ok && provErr.StatusCode == http.StatusUnauthorized
}

// accessToken returns a usable token and whether it came from the cache.
func (c *Client) accessToken(ctx context.Context) (string, bool, error) {
	if c.cache != nil {
		token, ok, err := c.cache.Get(ctx, c.creds.ClientID)
		if err != nil {
			c.logger.Warn("token cache read failed", "error", err)
		} else if ok {
			return token, true, nil
		}
	}

	token, err := c.fetchToken(ctx)
	return token, false, err
}

func (c *Client) evictToken(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Delete(ctx, c.creds.ClientID); err != nil {
		c.logger.Warn("token cache delete failed", "error", err)
	}
}

// fetchToken requests a new token from PayPal and caches it.
func (c *Client) fetchToken(ctx context.Context) (string, error) {
	resp, err := withRetry(ctx, c.retry, c.requestToken)
	if err != nil {
		return "", err
	}

	ttl := time.Duration(resp.ExpiresIn)*time.Second - c.expiryMargin
	if c.cache != nil && ttl > 0 {
		if err := c.cache.Set(ctx, c.creds.ClientID, resp.AccessToken, ttl); err != nil {
			c.logger.Warn("token cache write failed", "error", err)
		}
	}

	return resp.AccessToken, nil
}

func (c *Client) requestToken(ctx context.Context) (*tokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	basic := base64.StdEncoding.EncodeToString([]byte(c.creds.ClientID + ":" + c.creds.SecretKey))

	header := http.Header{}
	header.Set("Authorization", "Basic "+basic)
	header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := sendRequest[tokenResponse](ctx, c.httpClient, http.MethodPost, c.baseURL+tokenPath, strings.NewReader(form.Encode()), header)
	if err != nil {
		return nil, err
	}

	if resp.AccessToken == "" {
		return nil, errEmptyAccessToken
	}

	return resp, nil
}

func sendRequest[Resp any](ctx context.Context, httpClient *http.Client, method, endpoint string, body io.Reader, header http.Header) (*Resp, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	for k, v := range header {
		httpReq.Header[k] = v
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp)
	}

	var out Resp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &out, nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var errResp errorResponse
	if err := json.Unmarshal(raw, &errResp); err != nil {
		return &application.ProviderError{
			Name:       http.StatusText(resp.StatusCode),
			Message:    string(bytes.TrimSpace(raw)),
			StatusCode: resp.StatusCode,
		}
	}

	name := errResp.Name
	if name == "" {
		name = errResp.Error
	}
	message := errResp.Message
	if message == "" {
		message = errResp.ErrorDescription
	}

	return &application.ProviderError{
		Name:       name,
		Message:    message,
		DebugID:    errResp.DebugID,
		StatusCode: resp.StatusCode,
	}
}
