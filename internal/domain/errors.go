package domain

import "errors"

// Absence is reported through these sentinels so callers can branch with errors.Is
// instead of inspecting nil results.
var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrPaymentNotFound     = errors.New("payment not found")
)
