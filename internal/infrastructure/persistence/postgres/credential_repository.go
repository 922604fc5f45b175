package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DanielPopoola/booking-paypal-capture/internal/application"
	"github.com/DanielPopoola/booking-paypal-capture/internal/domain"
	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5"
)

const payPalAppID = "paypal"

type CredentialRepository struct {
	q        Executor
	validate *validator.Validate
}

func NewCredentialRepository(db *DB) *CredentialRepository {
	return &CredentialRepository{
		q:        db.Pool,
		validate: validator.New(),
	}
}

// FindPaymentCredentials resolves the PayPal credentials of the user who owns the booking.
// A key without client_id or secret_key is treated as absent.
func (r *CredentialRepository) FindPaymentCredentials(ctx context.Context, bookingID int64) (*domain.PaymentCredentials, error) {
	query := `
		SELECT c.key
		FROM bookings b
		JOIN credentials c ON c.user_id = b.user_id
		WHERE b.id = $1 AND c.app_id = $2
		ORDER BY c.id
		LIMIT 1
	`

	var raw []byte
	err := r.q.QueryRow(ctx, query, bookingID, payPalAppID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCredentialsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find payment credentials: %w", err)
	}

	var key credentialKeyModel
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("%w: malformed key: %v", domain.ErrCredentialsNotFound, err)
	}

	if err := r.validate.Struct(key); err != nil {
		return nil, fmt.Errorf("%w: incomplete key: %v", domain.ErrCredentialsNotFound, err)
	}

	return toPaymentCredentials(key), nil
}

var _ application.CredentialResolver = (*CredentialRepository)(nil)
