package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/DanielPopoola/booking-paypal-capture/internal/application"
)

const timeoutBody = `{"success":false,"error":{"code":"` + application.ErrCodeTimeout + `","message":"Request timeout"}}`

// Timeout bounds the whole request, including the provider call made by the capture handler.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)

			timeoutHandler := http.TimeoutHandler(
				next,
				timeout,
				timeoutBody,
			)

			timeoutHandler.ServeHTTP(w, r)
		})
	}
}
