package http

import (
	"net/http"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status string `json:"status"`
}

const StatusOK = "ok"

// Health is the liveness check. It touches no dependency and never fails.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthStatus{Status: StatusOK})
}
