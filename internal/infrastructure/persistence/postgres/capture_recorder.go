package postgres

import (
	"context"
	"log/slog"

	"github.com/DanielPopoola/booking-paypal-capture/internal/application"
	"github.com/DanielPopoola/booking-paypal-capture/internal/domain"
)

// CaptureRecorder marks the payment successful and accepts its booking atomically.
type CaptureRecorder struct {
	tc     *TransactionCoordinator
	logger *slog.Logger
}

func NewCaptureRecorder(tc *TransactionCoordinator, logger *slog.Logger) *CaptureRecorder {
	return &CaptureRecorder{
		tc:     tc,
		logger: logger,
	}
}

func (r *CaptureRecorder) RecordCapture(ctx context.Context, externalID, captureID string) error {
	return r.tc.WithTransaction(ctx, func(ctx context.Context, payments *PaymentRepository, bookings *BookingRepository) error {
		payment, err := payments.FindByExternalIDForUpdate(ctx, externalID)
		if err != nil {
			return err
		}

		if err := payments.MarkCaptured(ctx, payment.ID, captureID); err != nil {
			return err
		}

		if err := bookings.UpdateStatus(ctx, payment.BookingID, domain.BookingStatusAccepted); err != nil {
			return err
		}

		r.logger.Info("capture recorded",
			"payment_id", payment.ID,
			"booking_id", payment.BookingID,
			"capture_id", captureID,
		)
		return nil
	})
}

var _ application.CaptureRecorder = (*CaptureRecorder)(nil)
