package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"divstreak/internal/services"
)

// HealthHandler serves the probe and version endpoints
type HealthHandler struct {
	service *services.HealthService
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service *services.HealthService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeStatus(w, r, h.service.HealthCheck(r.Context()), http.StatusOK)
}

// ReadinessCheck handles GET /api/health/ready. Until a ranking has been
// computed it answers 503 so load balancers hold traffic back.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := h.service.ReadinessCheck(r.Context())
	code := http.StatusOK
	if status.Status != "ready" {
		code = http.StatusServiceUnavailable
		h.logger.DebugContext(r.Context(), "readiness probe failed",
			slog.Any("services", status.Services))
	}
	h.writeStatus(w, r, status, code)
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	h.writeStatus(w, r, h.service.LivenessCheck(r.Context()), http.StatusOK)
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Version())
}

// writeStatus renders a probe result; probes must never be cached.
func (h *HealthHandler) writeStatus(w http.ResponseWriter, r *http.Request, status services.HealthStatus, code int) {
	w.Header().Set("Cache-Control", "no-store")
	render.Status(r, code)
	render.JSON(w, r, status)
}
