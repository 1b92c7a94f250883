package controllers

import (
	"encoding/json"
	"net/http"

	"scout/scout/services/scraper"
	"scout/scout/utils/types"
)

// Readier reports whether a long-lived component can serve requests.
type Readier interface {
	Ready() bool
}

type HealthController struct {
	renderer Readier
	model    Readier
}

func NewHealthController(renderer, model Readier) *HealthController {
	return &HealthController{renderer: renderer, model: model}
}

// Status reports component readiness, plus page pool usage when the
// renderer has a pool.
func (h *HealthController) Status() types.HealthResponse {
	resp := types.HealthResponse{
		Status: "healthy",
		Components: map[string]bool{
			"renderer": ready(h.renderer),
			"model":    ready(h.model),
		},
	}
	if p, ok := h.renderer.(scraper.PoolReporter); ok {
		size, available := p.PoolStats()
		if size > 0 {
			resp.Pages = &types.PageStats{Size: size, Available: available}
		}
	}
	return resp
}

func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(h.Status())
}

// Root is the liveness endpoint.
func (h *HealthController) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "scout web scraper API is running"}`))
}

func ready(r Readier) bool {
	return r != nil && r.Ready()
}
