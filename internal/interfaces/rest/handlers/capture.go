package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"

	"github.com/DanielPopoola/booking-paypal-capture/internal/application"
	"github.com/DanielPopoola/booking-paypal-capture/internal/application/services"
	"github.com/DanielPopoola/booking-paypal-capture/internal/interfaces/rest"
	"github.com/oapi-codegen/runtime"
)

const (
	statusSuccess = "success"
	statusFailed  = "failed"

	// missingUID stands in for a bookingUid that was not sent at all.
	missingUID = "undefined"
)

type CaptureRequest struct {
	BookingUID string `validate:"required"`
	Token      string `validate:"required"`
}

// outcome is the single terminal result of a capture request.
type outcome struct {
	bookingUID string
	captured   bool
	err        error
}

func (o outcome) location() string {
	status := statusFailed
	if o.captured {
		status = statusSuccess
	}
	return fmt.Sprintf("/booking/%s?paypalPaymentStatus=%s", url.PathEscape(o.bookingUID), status)
}

// HandleCapture captures an approved PayPal order for a booking and redirects the
// browser to the booking page with the result.
func (h *Handlers) HandleCapture(w http.ResponseWriter, r *http.Request) {
	h.writeOutcome(w, r, h.capture(r))
}

func (h *Handlers) capture(r *http.Request) outcome {
	rawUID := rawBookingUID(r.URL.Query())

	if r.Method != http.MethodGet {
		return outcome{bookingUID: rawUID, err: application.NewCaptureError(application.KindInvalidMethod, nil)}
	}

	req, err := h.bindCaptureRequest(r.URL.Query())
	if err != nil {
		return outcome{bookingUID: rawUID, err: application.NewCaptureError(application.KindMalformedRequest, err)}
	}

	captured, err := h.captureService.Capture(r.Context(), services.CaptureCommand{
		BookingUID: req.BookingUID,
		Token:      req.Token,
	})

	return outcome{bookingUID: req.BookingUID, captured: captured, err: err}
}

func (h *Handlers) bindCaptureRequest(query url.Values) (*CaptureRequest, error) {
	var req CaptureRequest

	if err := runtime.BindQueryParameter("form", true, true, "bookingUid", query, &req.BookingUID); err != nil {
		return nil, err
	}
	if err := runtime.BindQueryParameter("form", true, true, "token", query, &req.Token); err != nil {
		return nil, err
	}

	if err := h.validate.Struct(req); err != nil {
		return nil, err
	}

	return &req, nil
}

// rawBookingUID renders the bookingUid query value as sent, joining repeated values.
func rawBookingUID(query url.Values) string {
	values, ok := query["bookingUid"]
	if !ok {
		return missingUID
	}
	return strings.Join(values, ",")
}

func (h *Handlers) writeOutcome(w http.ResponseWriter, r *http.Request, o outcome) {
	w.Header().Set("Location", o.location())

	if o.err == nil {
		w.WriteHeader(http.StatusFound)
		return
	}

	body := h.diagnostic(o.err)

	h.logger.Error("paypal capture failed",
		"request_id", rest.RequestID(r.Context()),
		"booking_uid", o.bookingUID,
		"kind", errorKind(o.err),
		"category", application.CategorizeError(o.err),
		"error", o.err,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusFound)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode diagnostic body", "error", err)
	}
}

func (h *Handlers) diagnostic(err error) rest.DiagnosticResponse {
	resp := rest.DiagnosticResponse{Message: err.Error()}
	if h.production {
		return resp
	}

	if capErr, ok := application.IsCaptureError(err); ok && capErr.Stack != "" {
		resp.Stack = capErr.Stack
	} else {
		resp.Stack = string(debug.Stack())
	}

	return resp
}

func errorKind(err error) string {
	if capErr, ok := application.IsCaptureError(err); ok {
		return string(capErr.Kind)
	}
	return ""
}
