package domain

// PaymentRef identifies the payment row created when the buyer was sent to PayPal.
type PaymentRef struct {
	ID        int64
	BookingID int64
}
