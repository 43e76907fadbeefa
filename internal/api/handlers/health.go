// Package handlers implements the HTTP handlers for the timeline API.
package handlers

import (
	"net/http"
	"time"

	"showrunner/internal/api/response"
)

// HealthHandler reports service liveness
type HealthHandler struct {
	version   string
	startedAt time.Time
}

// NewHealthHandler creates a health handler
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version, startedAt: time.Now()}
}

// Handle responds with the service health status
func (h *HealthHandler) Handle(w http.ResponseWriter, _ *http.Request) {
	response.WriteSuccess(w, map[string]interface{}{
		"status":         "healthy",
		"version":        h.version,
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
	})
}
