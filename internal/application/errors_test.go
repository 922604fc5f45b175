package application_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/DanielPopoola/booking-paypal-capture/internal/application"
	"github.com/DanielPopoola/booking-paypal-capture/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCaptureError_Messages(t *testing.T) {
	tests := []struct {
		kind application.ErrorKind
		want string
	}{
		{application.KindInvalidMethod, "Invalid method"},
		{application.KindMalformedRequest, "Request is malformed"},
		{application.KindBookingNotFound, "Booking not found"},
		{application.KindCredentialsNotFound, "Credentials not found"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := application.NewCaptureError(tt.kind, nil)
			assert.Equal(t, tt.want, err.Error())
			assert.NotEmpty(t, err.Stack)
		})
	}
}

func TestNewCaptureError_ProviderKeepsCause(t *testing.T) {
	cause := &application.ProviderError{Name: "UNPROCESSABLE_ENTITY", Message: "order not approved", StatusCode: 422}
	err := application.NewCaptureError(application.KindProviderCaptureError, cause)

	assert.Equal(t, cause.Error(), err.Error())

	provErr, ok := application.IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, 422, provErr.StatusCode)
}

func TestIsCaptureError_Wrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", application.NewCaptureError(application.KindBookingNotFound, domain.ErrBookingNotFound))

	capErr, ok := application.IsCaptureError(err)
	require.True(t, ok)
	assert.Equal(t, application.KindBookingNotFound, capErr.Kind)
	assert.True(t, errors.Is(err, domain.ErrBookingNotFound))
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want application.ErrorCategory
	}{
		{"nil", nil, ""},
		{"deadline", context.DeadlineExceeded, application.CategoryTransient},
		{"booking missing", application.NewCaptureError(application.KindBookingNotFound, domain.ErrBookingNotFound), application.CategoryClientError},
		{"malformed", application.NewCaptureError(application.KindMalformedRequest, nil), application.CategoryClientError},
		{"provider 503", &application.ProviderError{StatusCode: 503}, application.CategoryTransient},
		{"provider 429", &application.ProviderError{StatusCode: 429}, application.CategoryTransient},
		{"provider 422", &application.ProviderError{StatusCode: 422}, application.CategoryPermanent},
		{"payment row missing", fmt.Errorf("record: %w", domain.ErrPaymentNotFound), application.CategoryPermanent},
		{"internal", application.NewInternalError(errors.New("boom")), application.CategoryInfrastructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, application.CategorizeError(tt.err))
		})
	}
}

func TestToHTTPStatusAndCode(t *testing.T) {
	internal := application.NewInternalError(errors.New("panic"))
	assert.Equal(t, http.StatusInternalServerError, application.ToHTTPStatus(internal))
	assert.Equal(t, application.ErrCodeInternal, application.ToErrorCode(internal))

	timeout := fmt.Errorf("capture: %w", context.DeadlineExceeded)
	assert.Equal(t, application.ErrCodeTimeout, application.ToErrorCode(timeout))

	assert.Equal(t, http.StatusOK, application.ToHTTPStatus(nil))
	assert.Equal(t, http.StatusRequestTimeout, application.ToHTTPStatus(context.DeadlineExceeded))
}
