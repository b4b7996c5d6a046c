package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"divstreak/internal/config"
	"divstreak/internal/infrastructure"
	"divstreak/internal/shared/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	cfg := config.Default()
	cfg.Server.Port = 18080
	cfg.Logging.Output = "console"
	cfg.Logging.Level = "error"
	cfg.Telemetry.MetricExporter = "prometheus"
	cfg.Security.RateLimit.Enabled = false
	cfg.Source.Paths = []string{testutil.WriteCSV(t, "dividends.csv", testutil.SampleHistories())}
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	a, err := NewApplication(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = a.OTelProviders.Shutdown(context.Background())
	})
	return a
}

func get(a *Application, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestNewApplication_RequiresConfig(t *testing.T) {
	_, err := NewApplication(nil)
	assert.Error(t, err)
}

func TestNewApplication_UnsupportedExporter(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.TraceExporter = "zipkin"

	_, err := NewApplication(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telemetry")
}

func TestApplication_Wiring(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	assert.NotNil(t, a.RankingService)
	assert.NotNil(t, a.HealthService)
	assert.Equal(t, ":18080", a.Server.Addr)
	assert.Equal(t, 15*time.Second, a.Server.ReadTimeout)
	assert.Contains(t, a.Source.Name(), "dividends.csv")
}

func TestApplication_Routes(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{name: "health", target: "/api/health", wantStatus: http.StatusOK},
		{name: "live", target: "/api/health/live", wantStatus: http.StatusOK},
		{name: "version", target: "/api/version", wantStatus: http.StatusOK},
		{name: "ranking", target: "/api/dividends/ranking", wantStatus: http.StatusOK},
		{name: "markets", target: "/api/dividends/markets", wantStatus: http.StatusOK},
		{name: "entity", target: "/api/dividends/entities/1001", wantStatus: http.StatusOK},
		{name: "unknown entity", target: "/api/dividends/entities/4242", wantStatus: http.StatusNotFound},
		{name: "unknown route", target: "/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(a, tt.target)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestApplication_RankingDefaults(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ranking.DefaultMinStreak = 6
	a := newTestApp(t, cfg)

	w := get(a, "/api/dividends/ranking")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Rows []struct {
			Code string `json:"code"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Rows, 1)
	assert.Equal(t, "1004", body.Rows[0].Code)
}

func TestApplication_MetricsEndpoint(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	require.Equal(t, http.StatusOK, get(a, "/api/dividends/ranking").Code)

	w := get(a, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "divstreak_pipeline_runs_total")
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestApplication_MetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.MetricExporter = "none"
	a := newTestApp(t, cfg)

	assert.Equal(t, http.StatusNotFound, get(a, "/metrics").Code)
}

func TestApplication_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	a := newTestApp(t, cfg)

	assert.Equal(t, http.StatusOK, get(a, "/api/health").Code)

	w := get(a, "/api/health")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestApplication_StartStop(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Port = 0
	a := newTestApp(t, cfg)

	ctx := context.Background()
	require.NoError(t, a.Start(ctx))
	assert.True(t, a.RankingService.Status().Ready)

	require.NoError(t, a.Stop(ctx))
}

func TestApplication_StartWithBrokenSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Port = 0
	cfg.Source.Paths = []string{testutil.WriteFile(t, "bad.csv", "code,name\n1,a\n")}
	a := newTestApp(t, cfg)

	ctx := context.Background()
	require.NoError(t, a.Start(ctx))
	assert.False(t, a.RankingService.Status().Ready)

	assert.Equal(t, http.StatusServiceUnavailable, get(a, "/api/health/ready").Code)
	require.NoError(t, a.Stop(ctx))
}
