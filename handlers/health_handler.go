package handlers

import (
	"net/http"
	"time"

	"github.com/geoview/poimap/app"
	"github.com/geoview/poimap/utils"
	"go.uber.org/zap"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	deps   *app.Dependencies
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(deps *app.Dependencies, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		deps:   deps,
		logger: logger,
	}
}

// HandleHealth handles GET /healthz
// Basic health check - always returns 200 if service is running
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	_ = utils.WriteOK(w, response)
}

// HandleReadiness handles GET /readyz
// Readiness check - validates that tile serving dependencies are available
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	allHealthy := true

	if h.deps.Catalog == nil || h.deps.Catalog.Len() == 0 {
		checks["catalog"] = "unhealthy"
		allHealthy = false
	} else {
		checks["catalog"] = "healthy"
	}

	if _, _, err := h.deps.Proxy.ActiveLayer(); err != nil {
		h.logger.Warn("no tile layer mounted", zap.Error(err))
		checks["tile_layer"] = "unhealthy"
		allHealthy = false
	} else {
		checks["tile_layer"] = "healthy"
	}

	if h.deps.DiskCacheOpen() {
		checks["disk_cache"] = "healthy"
	} else {
		checks["disk_cache"] = "unhealthy"
		allHealthy = false
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if err := utils.WriteJSON(w, httpStatus, utils.SuccessResponse{Data: response}); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}
