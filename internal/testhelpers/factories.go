package testhelpers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DanielPopoola/booking-paypal-capture/internal/infrastructure/persistence/postgres"
	"github.com/stretchr/testify/require"
)

func CreateUser(t *testing.T, ctx context.Context, db *postgres.DB, email string) int64 {
	var id int64
	err := db.Pool.QueryRow(ctx, `INSERT INTO users (email) VALUES ($1) RETURNING id`, email).Scan(&id)
	require.NoError(t, err)
	return id
}

func CreateBooking(t *testing.T, ctx context.Context, db *postgres.DB, uid string, userID *int64) int64 {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO bookings (uid, user_id, title) VALUES ($1, $2, 'Intro call') RETURNING id`,
		uid, userID,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func CreatePayPalCredential(t *testing.T, ctx context.Context, db *postgres.DB, userID int64, key map[string]string) int64 {
	raw, err := json.Marshal(key)
	require.NoError(t, err)

	var id int64
	err = db.Pool.QueryRow(ctx,
		`INSERT INTO credentials (type, key, user_id, app_id) VALUES ('paypal_payment', $1, $2, 'paypal') RETURNING id`,
		raw, userID,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func CreatePayment(t *testing.T, ctx context.Context, db *postgres.DB, uid string, bookingID int64, externalID string) int64 {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO payments (uid, app_id, booking_id, amount, currency, external_id, data)
		 VALUES ($1, 'paypal', $2, 5000, 'USD', $3, '{"order":"created"}'::jsonb) RETURNING id`,
		uid, bookingID, externalID,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
