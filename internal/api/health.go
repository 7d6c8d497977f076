package api

import (
	"net/http"
	"time"

	"github.com/michela/coach/internal/api/respond"
)

// HealthSource reports aggregated and per-component health.
type HealthSource interface {
	IsHealthy() bool
	Components() map[string]bool
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	src HealthSource
}

// NewHealthHandler creates a health handler. A nil src always reports healthy.
func NewHealthHandler(src HealthSource) *HealthHandler { return &HealthHandler{src: src} }

// CheckHealth handles GET /api/health
// Always returns 200; body reports healthy/unhealthy. 500 indicates handler failure only.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	var components map[string]bool
	if h.src != nil {
		components = h.src.Components()
		if !h.src.IsHealthy() {
			status = "unhealthy"
		}
	}
	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if len(components) > 0 {
		response["components"] = components
	}
	respond.WriteJSON(w, http.StatusOK, response)
}
