package handlers

import (
	"net/http"

	"github.com/DanielPopoola/booking-paypal-capture/internal/interfaces/rest"
)

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HandleHealth pings every dependency and answers 503 if any of them fails.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "ok",
		Checks: make(map[string]string, len(h.checks)),
	}
	status := http.StatusOK

	for name, check := range h.checks {
		if err := check.Ping(r.Context()); err != nil {
			h.logger.Warn("health check failed", "dependency", name, "error", err)
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	rest.WriteJSON(w, status, resp, h.logger)
}
