package postgres

import "github.com/DanielPopoola/booking-paypal-capture/internal/domain"

func toBookingRef(m bookingModel) *domain.BookingRef {
	return &domain.BookingRef{
		ID:     m.ID,
		UserID: m.UserID,
	}
}

func toPaymentCredentials(m credentialKeyModel) *domain.PaymentCredentials {
	return &domain.PaymentCredentials{
		ClientID:  m.ClientID,
		SecretKey: m.SecretKey,
		WebhookID: m.WebhookID,
	}
}

func toPaymentRef(m paymentModel) *domain.PaymentRef {
	return &domain.PaymentRef{
		ID:        m.ID,
		BookingID: m.BookingID,
	}
}
