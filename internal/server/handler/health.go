package handler

import (
	"net/http"
	"time"
)

// HealthHandler serves the health-check endpoint.
type HealthHandler struct {
	state StateReader
}

// NewHealthHandler creates a HealthHandler. The state may be nil when the
// server runs without a scanner.
func NewHealthHandler(state StateReader) *HealthHandler {
	return &HealthHandler{state: state}
}

// HealthCheck responds with a simple JSON status. When a scanner is attached
// it includes the latest run so dashboards can tell a fresh deployment from a
// stalled one.
// GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.state != nil {
		if run, ok := h.state.LastRun(); ok {
			body["last_run"] = run
		}
	}
	writeJSON(w, http.StatusOK, body)
}
