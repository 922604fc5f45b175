package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/booking-paypal-capture/internal/domain"
	"github.com/jackc/pgx/v5"
)

// PaymentRepository is only built by TransactionCoordinator, bound to its transaction.
type PaymentRepository struct {
	q Executor
}

// FindByExternalIDForUpdate locks the payment created for a provider order.
// Only meaningful inside a transaction.
func (r *PaymentRepository) FindByExternalIDForUpdate(ctx context.Context, externalID string) (*domain.PaymentRef, error) {
	query := `
		SELECT id, booking_id
		FROM payments
		WHERE external_id = $1
		ORDER BY id
		LIMIT 1
		FOR UPDATE
	`

	var m paymentModel
	err := r.q.QueryRow(ctx, query, externalID).Scan(&m.ID, &m.BookingID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}

	return toPaymentRef(m), nil
}

// MarkCaptured flags the payment as successful and merges the capture id into its data.
func (r *PaymentRepository) MarkCaptured(ctx context.Context, id int64, captureID string) error {
	query := `
		UPDATE payments
		SET success = TRUE,
		    data = COALESCE(data, '{}'::jsonb) || jsonb_build_object('capture', $2::text)
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, id, captureID)
	if err != nil {
		return fmt.Errorf("failed to mark payment captured: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}

	return nil
}
