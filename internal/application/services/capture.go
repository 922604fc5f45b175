package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/DanielPopoola/booking-paypal-capture/internal/application"
	"github.com/DanielPopoola/booking-paypal-capture/internal/domain"
)

// CaptureService resolves a booking to its merchant and captures the approved order.
type CaptureService struct {
	bookings    application.BookingStore
	credentials application.CredentialResolver
	providers   application.ProviderFactory
	logger      *slog.Logger
}

func NewCaptureService(
	bookings application.BookingStore,
	credentials application.CredentialResolver,
	providers application.ProviderFactory,
	logger *slog.Logger,
) *CaptureService {
	return &CaptureService{
		bookings:    bookings,
		credentials: credentials,
		providers:   providers,
		logger:      logger,
	}
}

// Capture reports whether the provider completed the capture. A false result with a nil
// error means the provider answered but did not move funds. Every error is a
// *application.CaptureError.
func (s *CaptureService) Capture(ctx context.Context, cmd CaptureCommand) (bool, error) {
	booking, err := s.bookings.FindByUID(ctx, cmd.BookingUID)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			return false, application.NewCaptureError(application.KindBookingNotFound, err)
		}
		return false, application.NewCaptureError(application.KindLookupError, err)
	}

	creds, err := s.credentials.FindPaymentCredentials(ctx, booking.ID)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialsNotFound) {
			return false, application.NewCaptureError(application.KindCredentialsNotFound, err)
		}
		return false, application.NewCaptureError(application.KindLookupError, err)
	}

	client := s.providers.NewClient(*creds)

	result, err := client.CaptureOrder(ctx, cmd.Token)
	if err != nil {
		return false, application.NewCaptureError(application.KindProviderCaptureError, err)
	}

	if !result.Completed() {
		s.logger.Warn("paypal capture not completed",
			"booking_uid", cmd.BookingUID,
			"booking_id", booking.ID,
			"status", captureStatus(result),
		)
		return false, nil
	}

	s.logger.Info("paypal capture completed",
		"booking_uid", cmd.BookingUID,
		"booking_id", booking.ID,
		"capture_id", result.ID,
	)

	return true, nil
}

func captureStatus(r *domain.CaptureResult) string {
	if r == nil {
		return ""
	}
	return r.Status
}
