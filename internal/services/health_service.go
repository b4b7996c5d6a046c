package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"divstreak/internal/infrastructure"
)

// StatusReporter exposes the state a readiness check depends on
type StatusReporter interface {
	Status() RankingStatus
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	ranking   StatusReporter
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Runtime   map[string]any `json:"runtime,omitempty"`
	Services  map[string]any `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service. ranking may be nil, in
// which case the service never reports ready.
func NewHealthService(version, buildTime string, ranking StatusReporter, logger *slog.Logger) *HealthService {
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		ranking:   ranking,
		startTime: time.Now(),
		logger:    infrastructure.WithComponent(logger, "health_service"),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]any{
			"ranking": hs.checkRankingHealth(),
		},
	}

	hs.logger.DebugContext(ctx, "health check completed", slog.String("status", status.Status))
	return status
}

// ReadinessCheck reports ready once a ranking has been computed
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	ranking := hs.checkRankingHealth()

	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  map[string]any{"ranking": ranking},
	}
	if ranking.Status != "ready" {
		status.Status = "not_ready"
		hs.logger.WarnContext(ctx, "readiness check failed", slog.String("reason", ranking.Message))
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]any{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]any {
	return map[string]any{
		"version":    hs.version,
		"build_time": hs.buildTime,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"uptime":     time.Since(hs.startTime).Seconds(),
		"start_time": hs.startTime.Format(time.RFC3339),
	}
}

func (hs *HealthService) checkRankingHealth() ServiceHealth {
	if hs.ranking == nil {
		return ServiceHealth{Status: "not_ready", Message: "ranking service not configured"}
	}

	st := hs.ranking.Status()
	switch {
	case st.Ready && st.LastError != "":
		return ServiceHealth{Status: "ready", Message: "serving cached ranking; last refresh failed: " + st.LastError}
	case st.Ready:
		return ServiceHealth{Status: "ready"}
	case st.LastError != "":
		return ServiceHealth{Status: "not_ready", Message: st.LastError}
	default:
		return ServiceHealth{Status: "not_ready", Message: "ranking not computed yet"}
	}
}
