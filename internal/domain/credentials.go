package domain

// PaymentCredentials authenticate a merchant against the PayPal REST API.
// Callers outside the provider client treat the value as opaque.
type PaymentCredentials struct {
	ClientID  string
	SecretKey string
	WebhookID string
}
