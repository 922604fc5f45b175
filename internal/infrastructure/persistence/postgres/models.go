package postgres

type bookingModel struct {
	ID     int64
	UserID *int64
}

// credentialKeyModel is the JSON stored in credentials.key for the PayPal app.
type credentialKeyModel struct {
	ClientID  string `json:"client_id" validate:"required"`
	SecretKey string `json:"secret_key" validate:"required"`
	WebhookID string `json:"webhook_id"`
}

type paymentModel struct {
	ID        int64
	BookingID int64
}
