package application

import (
	"context"
	"time"

	"github.com/DanielPopoola/booking-paypal-capture/internal/domain"
)

// BookingStore finds bookings by their public uid. Absence is domain.ErrBookingNotFound.
type BookingStore interface {
	FindByUID(ctx context.Context, uid string) (*domain.BookingRef, error)
}

// CredentialResolver finds the merchant credentials that apply to a booking.
// Absence is domain.ErrCredentialsNotFound.
type CredentialResolver interface {
	FindPaymentCredentials(ctx context.Context, bookingID int64) (*domain.PaymentCredentials, error)
}

// PaymentProvider captures a previously approved order.
type PaymentProvider interface {
	CaptureOrder(ctx context.Context, token string) (*domain.CaptureResult, error)
}

// ProviderFactory binds a PaymentProvider to one merchant's credentials.
type ProviderFactory interface {
	NewClient(creds domain.PaymentCredentials) PaymentProvider
}

// CaptureRecorder persists a completed capture against the payment row whose
// external id is the provider order token.
type CaptureRecorder interface {
	RecordCapture(ctx context.Context, externalID, captureID string) error
}

// TokenCache stores provider access tokens between requests. Delete drops a token the
// provider no longer accepts.
type TokenCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, token string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
