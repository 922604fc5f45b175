package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/DanielPopoola/booking-paypal-capture/internal/domain"
)

// ErrorCategory describes the nature of a failure for logging and alerting.
type ErrorCategory string

const (
	CategoryTransient      ErrorCategory = "TRANSIENT"
	CategoryPermanent      ErrorCategory = "PERMANENT"
	CategoryClientError    ErrorCategory = "CLIENT_ERROR"
	CategoryInfrastructure ErrorCategory = "INFRASTRUCTURE"
)

// CategorizeError determines the category of an error raised anywhere in the capture flow.
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTransient
	}

	if errors.Is(err, domain.ErrBookingNotFound) ||
		errors.Is(err, domain.ErrCredentialsNotFound) {
		return CategoryClientError
	}

	if errors.Is(err, domain.ErrPaymentNotFound) {
		return CategoryPermanent
	}

	if provErr, ok := IsProviderError(err); ok {
		if provErr.IsRetryable() {
			return CategoryTransient
		}
		return CategoryPermanent
	}

	if capErr, ok := IsCaptureError(err); ok {
		switch capErr.Kind {
		case KindInvalidMethod, KindMalformedRequest:
			return CategoryClientError
		case KindProviderCaptureError:
			// Unwrapped provider failures without a ProviderError are transport problems.
			return CategoryTransient
		case KindLookupError:
			return CategoryInfrastructure
		}
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeTimeout:
			return CategoryTransient
		case ErrCodeInternal:
			return CategoryInfrastructure
		}
	}

	return CategoryInfrastructure
}

// ToHTTPStatus maps an error to the status used when a JSON error body is the response.
// Capture failures never get one: they always end in the failure redirect.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return http.StatusRequestTimeout
	}

	return http.StatusInternalServerError
}

// ToErrorCode returns the stable code put in JSON error bodies.
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}

	return ErrCodeInternal
}
