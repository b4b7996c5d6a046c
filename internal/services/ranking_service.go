package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"divstreak/internal/dividend"
	apierrors "divstreak/internal/errors"
	"divstreak/internal/infrastructure"
	"divstreak/internal/ranking"
	"divstreak/internal/source"
)

// RankingOptions configures a RankingService
type RankingOptions struct {
	// TTL is how long a computed ranking is served before the source is
	// read again. Zero or negative recomputes on every request.
	TTL time.Duration
	// DefaultMinStreak seeds the minimum-streak control.
	DefaultMinStreak int
	// MaxLimit caps the number of rows a view may return.
	MaxLimit int
	Tracer   trace.Tracer
	Metrics  *infrastructure.Metrics
}

// RankingView is a filtered, ordered ranking ready for display
type RankingView struct {
	Rows []dividend.RankingRow `json:"rows"`
	// Total is the number of entities in the ranking before filtering.
	Total int `json:"total"`
	// Matched is the number of rows passing the filter before the limit.
	Matched     int                  `json:"matched"`
	MaxStreak   int                  `json:"max_streak"`
	Markets     []string             `json:"markets"`
	Bounds      ranking.SliderBounds `json:"bounds"`
	Filter      ranking.Filter       `json:"filter"`
	Stats       dividend.Stats       `json:"stats"`
	GeneratedAt time.Time            `json:"generated_at"`
	Empty       bool                 `json:"empty"`
}

// EntityDetail is one entity's row with the history it was computed from
type EntityDetail struct {
	Row         dividend.RankingRow   `json:"row"`
	Series      dividend.EntitySeries `json:"series"`
	Comparisons []dividend.Comparison `json:"comparisons"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// RankingStatus summarizes the cache for readiness checks
type RankingStatus struct {
	Source      string    `json:"source"`
	Ready       bool      `json:"ready"`
	GeneratedAt time.Time `json:"generated_at,omitempty"`
	Entities    int       `json:"entities"`
	LastError   string    `json:"last_error,omitempty"`
}

// RankingService loads dividend history from a source, computes the
// ranking and serves filtered views of it from a TTL cache.
type RankingService struct {
	source  source.Source
	engine  *dividend.Engine
	opts    RankingOptions
	tracer  trace.Tracer
	metrics *infrastructure.Metrics
	logger  *slog.Logger
	now     func() time.Time

	group singleflight.Group

	mu          sync.RWMutex
	current     *dividend.Ranking
	generatedAt time.Time
	lastErr     error
}

// NewRankingService creates a ranking service reading from src
func NewRankingService(src source.Source, opts RankingOptions, logger *slog.Logger) *RankingService {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.ServiceName)
	}

	logger = infrastructure.WithComponent(logger, "ranking_service")
	logger.Info("RankingService initialized",
		slog.String("source", src.Name()),
		slog.Duration("ttl", opts.TTL),
		slog.Int("default_min_streak", opts.DefaultMinStreak))

	return &RankingService{
		source:  src,
		engine:  dividend.NewEngine(logger),
		opts:    opts,
		tracer:  tracer,
		metrics: opts.Metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Refresh reads the source and recomputes the ranking, replacing the cached
// one on success. Concurrent callers share a single computation.
func (s *RankingService) Refresh(ctx context.Context) (*dividend.Ranking, error) {
	ch := s.group.DoChan("refresh", func() (any, error) {
		// Detached so that one caller going away does not fail the others.
		return s.compute(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*dividend.Ranking), nil
	}
}

func (s *RankingService) compute(ctx context.Context) (*dividend.Ranking, error) {
	ctx, span := s.tracer.Start(ctx, "ranking.refresh",
		trace.WithAttributes(attribute.String("source", s.source.Name())))
	defer span.End()

	start := time.Now()
	result, err := s.load(ctx)

	var dropped map[string]int
	entities := 0
	if result != nil {
		entities = result.Stats.Entities
		dropped = make(map[string]int, len(result.Stats.DroppedByReason))
		for reason, n := range result.Stats.DroppedByReason {
			dropped[string(reason)] = n
		}
	}
	s.metrics.RecordPipelineRun(ctx, s.source.Name(), time.Since(start), entities, dropped, err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.lastErr = err
		s.logger.ErrorContext(ctx, "ranking refresh failed",
			slog.String("source", s.source.Name()),
			slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("ranking.entities", result.Stats.Entities),
		attribute.Int("ranking.dropped", result.Stats.Dropped),
		attribute.Int("ranking.max_streak", result.MaxStreak),
	)

	s.current = result
	s.generatedAt = s.now()
	s.lastErr = nil
	return result, nil
}

func (s *RankingService) load(ctx context.Context) (*dividend.Ranking, error) {
	table, err := s.source.Load(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, apierrors.NewSourceError(s.source.Name(), err)
	}
	return s.engine.Run(ctx, table)
}

// cached returns the current ranking, refreshing it when absent or stale
func (s *RankingService) cached(ctx context.Context) (*dividend.Ranking, time.Time, error) {
	s.mu.RLock()
	current, at := s.current, s.generatedAt
	s.mu.RUnlock()

	if current != nil && s.opts.TTL > 0 && s.now().Sub(at) < s.opts.TTL {
		return current, at, nil
	}

	result, err := s.Refresh(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}

	s.mu.RLock()
	at = s.generatedAt
	s.mu.RUnlock()
	return result, at, nil
}

// Ranking returns the rows passing filter in display order, at most limit
// of them. limit <= 0 returns every matching row up to MaxLimit.
func (s *RankingService) Ranking(ctx context.Context, filter ranking.Filter, limit int) (*RankingView, error) {
	if filter.MinStreak < 0 {
		return nil, apierrors.NewAppValidationError("min_streak must not be negative")
	}
	if s.opts.MaxLimit > 0 && (limit <= 0 || limit > s.opts.MaxLimit) {
		limit = s.opts.MaxLimit
	}

	result, at, err := s.cached(ctx)
	if err != nil {
		return nil, err
	}

	matched := ranking.Apply(result.Rows, filter)
	rows := ranking.Top(matched, limit)

	view := &RankingView{
		Rows:        rows,
		Total:       len(result.Rows),
		Matched:     len(matched),
		MaxStreak:   result.MaxStreak,
		Markets:     ranking.Markets(result.Rows),
		Bounds:      ranking.Bounds(result, s.opts.DefaultMinStreak),
		Filter:      filter,
		Stats:       result.Stats,
		GeneratedAt: at,
		Empty:       len(rows) == 0,
	}

	s.logger.DebugContext(ctx, "ranking view built",
		slog.Int("min_streak", filter.MinStreak),
		slog.String("market", filter.Market),
		slog.Int("matched", view.Matched),
		slog.Int("returned", len(view.Rows)))

	return view, nil
}

// Markets returns the distinct markets present in the ranking
func (s *RankingService) Markets(ctx context.Context) ([]string, error) {
	result, _, err := s.cached(ctx)
	if err != nil {
		return nil, err
	}
	return ranking.Markets(result.Rows), nil
}

// Entity returns the row and series for code
func (s *RankingService) Entity(ctx context.Context, code string) (*EntityDetail, error) {
	result, at, err := s.cached(ctx)
	if err != nil {
		return nil, err
	}

	row, ok := result.Row(code)
	if !ok {
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("entity %q", code))
	}

	series := result.Series[code]
	return &EntityDetail{
		Row:         row,
		Series:      series,
		Comparisons: dividend.Comparisons(series),
		GeneratedAt: at,
	}, nil
}

// Status reports whether a ranking is available and how the last refresh went
func (s *RankingService) Status() RankingStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := RankingStatus{
		Source:      s.source.Name(),
		Ready:       s.current != nil,
		GeneratedAt: s.generatedAt,
	}
	if s.current != nil {
		st.Entities = s.current.Stats.Entities
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}
