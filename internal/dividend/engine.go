package dividend

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Compute runs the full pipeline over t. It is a pure function of its
// input: no state is shared between calls and t is not modified.
//
// A table whose rows are all dropped yields an empty ranking, not an error.
func Compute(t Table) (*Ranking, error) {
	norm, err := Normalize(t)
	if err != nil {
		return nil, err
	}

	series := BuildSeries(norm.Records)
	ranking := Assemble(series, Streaks(series), CAGRs(series))
	ranking.Stats = Stats{
		InputRows:       norm.InputRows,
		Retained:        len(norm.Records),
		Dropped:         norm.Dropped,
		DroppedByReason: norm.DroppedByReason,
		Entities:        len(ranking.Rows),
	}
	return &ranking, nil
}

// Engine runs Compute and logs what each run did.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an engine. A nil logger falls back to slog.Default.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger.With(slog.String("component", "dividend_engine"))}
}

// Run computes the ranking for t.
func (e *Engine) Run(ctx context.Context, t Table) (*Ranking, error) {
	start := time.Now()

	e.logger.DebugContext(ctx, "starting dividend ranking",
		"rows", len(t.Rows),
		"columns", t.Columns,
	)

	ranking, err := Compute(t)
	if err != nil {
		e.logger.ErrorContext(ctx, "dividend ranking failed", "error", err)
		return nil, fmt.Errorf("compute ranking: %w", err)
	}

	if ranking.Stats.Dropped > 0 {
		e.logger.WarnContext(ctx, "dropped unusable dividend rows",
			"dropped", ranking.Stats.Dropped,
			"by_reason", ranking.Stats.DroppedByReason,
		)
	}

	e.logger.InfoContext(ctx, "dividend ranking completed",
		"input_rows", ranking.Stats.InputRows,
		"retained", ranking.Stats.Retained,
		"entities", ranking.Stats.Entities,
		"max_streak", ranking.MaxStreak,
		"duration", time.Since(start),
	)

	return ranking, nil
}
