package application

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
)

// ErrorKind classifies why a capture request could not be completed. KindLookupError is a
// booking or credential lookup that failed for a reason other than absence.
type ErrorKind string

const (
	KindInvalidMethod        ErrorKind = "INVALID_METHOD"
	KindMalformedRequest     ErrorKind = "MALFORMED_REQUEST"
	KindBookingNotFound      ErrorKind = "BOOKING_NOT_FOUND"
	KindCredentialsNotFound  ErrorKind = "CREDENTIALS_NOT_FOUND"
	KindProviderCaptureError ErrorKind = "PROVIDER_CAPTURE_ERROR"
	KindLookupError          ErrorKind = "LOOKUP_ERROR"
)

var kindMessages = map[ErrorKind]string{
	KindInvalidMethod:       "Invalid method",
	KindMalformedRequest:    "Request is malformed",
	KindBookingNotFound:     "Booking not found",
	KindCredentialsNotFound: "Credentials not found",
}

// CaptureError is the single error type leaving the capture flow.
// Stack is recorded where the error is created and is only ever shown outside production.
type CaptureError struct {
	Kind    ErrorKind
	Message string
	Err     error
	Stack   string
}

func (e *CaptureError) Error() string {
	return e.Message
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// NewCaptureError builds a CaptureError of the given kind. Provider and lookup failures
// carry the cause's message; every other kind uses its fixed message.
func NewCaptureError(kind ErrorKind, err error) *CaptureError {
	msg, ok := kindMessages[kind]
	if !ok {
		msg = "Capture failed"
		if err != nil {
			msg = err.Error()
		}
	}

	return &CaptureError{
		Kind:    kind,
		Message: msg,
		Err:     err,
		Stack:   string(debug.Stack()),
	}
}

func IsCaptureError(err error) (*CaptureError, bool) {
	var capErr *CaptureError
	ok := errors.As(err, &capErr)
	return capErr, ok
}

// ServiceError is reported by infrastructure that sits in front of the capture flow.
type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeTimeout  = "TIMEOUT"
	ErrCodeInternal = "INTERNAL_ERROR"
)

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "An internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}

// ProviderError is a non-2xx answer from the payment provider.
type ProviderError struct {
	Name       string
	Message    string
	DebugID    string
	StatusCode int
}

func (e *ProviderError) Error() string {
	if e.DebugID != "" {
		return fmt.Sprintf("paypal error [%s]: %s (status: %d, debug_id: %s)", e.Name, e.Message, e.StatusCode, e.DebugID)
	}
	return fmt.Sprintf("paypal error [%s]: %s (status: %d)", e.Name, e.Message, e.StatusCode)
}

// IsRetryable is true for throttling and server-side failures.
func (e *ProviderError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

func IsProviderError(err error) (*ProviderError, bool) {
	var provErr *ProviderError
	ok := errors.As(err, &provErr)
	return provErr, ok
}
