package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/booking-paypal-capture/internal/application/services"
	"github.com/go-playground/validator"
)

const CapturePath = "/api/integrations/paypal/capture"

// CaptureService is the part of services.CaptureService the handlers need.
type CaptureService interface {
	Capture(ctx context.Context, cmd services.CaptureCommand) (bool, error)
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	captureService CaptureService
	checks         map[string]Pinger
	production     bool
	validate       *validator.Validate
	logger         *slog.Logger
}

// NewHandlers builds the HTTP handlers. When production is set, failure bodies carry
// no stack trace.
func NewHandlers(
	captureService CaptureService,
	checks map[string]Pinger,
	production bool,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		captureService: captureService,
		checks:         checks,
		production:     production,
		validate:       validator.New(),
		logger:         logger,
	}
}

// RegisterRoutes mounts every route on mux. The capture route accepts all methods so
// that a wrong one still ends in a failure redirect.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc(CapturePath, h.HandleCapture)
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /openapi.json", h.HandleOpenAPI)
}
