package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"divstreak/internal/config"
	apierrors "divstreak/internal/errors"
	"divstreak/internal/infrastructure"
	customMiddleware "divstreak/internal/middleware"
	"divstreak/internal/services"
	"divstreak/internal/source"
	handlers "divstreak/internal/transport/http"
)

// BuildTime is set at link time with -ldflags "-X divstreak/internal/app.BuildTime=..."
var BuildTime = ""

// Application holds every wired component of the API server
type Application struct {
	Config         *config.Config
	Logger         *slog.Logger
	OTelProviders  *infrastructure.OTelProviders
	Metrics        *infrastructure.Metrics
	Source         source.Source
	RankingService *services.RankingService
	HealthService  *services.HealthService
	ErrorHandler   *apierrors.ErrorHandler
	Router         *chi.Mux
	Server         *http.Server

	serverErr chan error
}

// NewApplication wires the server from cfg. The process logger is
// initialized from cfg.Logging on first use.
func NewApplication(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		serverErr: make(chan error, 1),
	}

	if err := app.initializeTelemetry(); err != nil {
		return nil, err
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

func (a *Application) initializeTelemetry() error {
	providers, err := infrastructure.InitializeOTel(a.Config.Telemetry, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	a.OTelProviders = providers

	metrics, err := infrastructure.NewMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}
	a.Metrics = metrics
	return nil
}

func (a *Application) initializeServices() error {
	src, err := source.Open(a.Config.Source, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	a.Source = src

	a.RankingService = services.NewRankingService(src, services.RankingOptions{
		TTL:              a.Config.Ranking.CacheTTL,
		DefaultMinStreak: a.Config.Ranking.DefaultMinStreak,
		MaxLimit:         a.Config.Ranking.MaxLimit,
		Tracer:           a.OTelProviders.Tracer,
		Metrics:          a.Metrics,
	}, a.Logger)

	a.HealthService = services.NewHealthService(config.AppVersion, BuildTime, a.RankingService, a.Logger)

	// Stack traces only outside production
	a.ErrorHandler = apierrors.NewErrorHandler(a.Logger, a.Config.Telemetry.Environment == "development")

	a.Logger.Info("Services initialized", slog.String("source", src.Name()))
	return nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID → RealIP → OTel → Logger → Recoverer → Timeout
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	if rl := a.Config.Security.RateLimit; rl.Enabled {
		r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.ErrorHandler, a.Logger).Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.setupAPIRoutes(r)

	metricsHandler := handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.ErrorHandler)
	if metricsHandler.Enabled() {
		r.Handle("/metrics", metricsHandler)
	}

	a.Router = r
}

func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		dividendHandler := handlers.NewDividendHandler(a.RankingService, a.Config.Ranking.DefaultMinStreak, a.Logger, a.ErrorHandler)
		r.Mount("/dividends", dividendHandler.Routes())
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start computes the first ranking and begins serving. A failed warm-up is
// logged and left to the next request or refresh to retry.
func (a *Application) Start(ctx context.Context) error {
	ctx = infrastructure.EnsureTraceID(ctx)
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.Int("port", a.Config.Server.Port),
		slog.String("source", a.Source.Name()))

	if ranking, err := a.RankingService.Refresh(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Initial ranking failed", slog.String("error", err.Error()))
	} else {
		a.Logger.InfoContext(ctx, "Initial ranking ready",
			slog.Int("entities", len(ranking.Rows)),
			slog.Int("max_streak", ranking.MaxStreak))
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("Server error", slog.String("error", err.Error()))
			a.serverErr <- err
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop drains in-flight requests within the shutdown timeout and flushes
// telemetry.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
	defer cancel()

	var shutdownErr error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		shutdownErr = fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	_ = infrastructure.CloseLogFile()
	return shutdownErr
}

// Run serves until ctx is cancelled, SIGINT or SIGTERM arrives, or the
// listener fails.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Received shutdown signal")
	case serveErr = <-a.serverErr:
	}

	if err := a.Stop(ctx); err != nil {
		return err
	}
	if serveErr != nil {
		return fmt.Errorf("server failed: %w", serveErr)
	}
	return nil
}

