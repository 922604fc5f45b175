// Package domain holds the request-scoped values that flow through a booking payment capture.
package domain

// BookingStatus mirrors the status column of a booking row. New rows default to
// "pending" in the schema; the capture flow only ever moves them to accepted.
type BookingStatus string

const BookingStatusAccepted BookingStatus = "accepted"

// BookingRef is the part of a booking the capture flow needs: its internal id and owner.
type BookingRef struct {
	ID     int64
	UserID *int64
}
