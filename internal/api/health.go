package api

import (
	"net/http"
	"time"

	"github.com/sanzuisann/my-chat-app/internal/api/respond"
)

const timeLayout = time.RFC3339Nano

// HealthReporter is the aggregated dependency state.
type HealthReporter interface {
	IsHealthy() bool
	Components() map[string]bool
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	health HealthReporter
}

func NewHealthHandler(h HealthReporter) *HealthHandler { return &HealthHandler{health: h} }

// CheckHealth handles GET /health.
// Always returns 200; the body reports healthy/unhealthy.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	resp := map[string]interface{}{}
	if h.health != nil {
		if !h.health.IsHealthy() {
			status = "unhealthy"
		}
		resp["components"] = h.health.Components()
	}
	resp["status"] = status
	resp["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	respond.WriteJSON(w, http.StatusOK, resp)
}

// Root handles GET /.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"message": "Character chat server is running"})
}
