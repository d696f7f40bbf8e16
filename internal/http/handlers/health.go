package handlers

import (
	"log/slog"
	"net/http"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	ready  func() bool
	logger *slog.Logger
}

// NewHealthHandler constructs a HealthHandler. A nil ready func reports ready.
func NewHealthHandler(ready func() bool, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{ready: ready, logger: logger}
}

// Health reports the service health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether persisted state has been loaded.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.ready == nil || h.ready() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	writeError(w, r, http.StatusServiceUnavailable, "state not loaded", h.logger)
}
