package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/booking-paypal-capture/internal/application"
	"github.com/DanielPopoola/booking-paypal-capture/internal/domain"
	"github.com/jackc/pgx/v5"
)

type BookingRepository struct {
	q Executor
}

func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{q: db.Pool}
}

// FindByUID looks a booking up by its public uid.
func (r *BookingRepository) FindByUID(ctx context.Context, uid string) (*domain.BookingRef, error) {
	query := `SELECT id, user_id FROM bookings WHERE uid = $1`

	var m bookingModel
	err := r.q.QueryRow(ctx, query, uid).Scan(&m.ID, &m.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return toBookingRef(m), nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}

	return nil
}

var _ application.BookingStore = (*BookingRepository)(nil)
