// Package services implements the business logic layer between the HTTP
// handlers and the dividend engine.
//
// # Ranking
//
// RankingService owns the pipeline run: it loads a table from a
// source.Source, runs the dividend engine over it and caches the result for
// a configurable TTL. Views are derived from the cached ranking on every
// call, so changing the minimum streak or the market never recomputes
// streaks or CAGR values:
//
//	svc := services.NewRankingService(src, services.RankingOptions{
//	    TTL:              15 * time.Minute,
//	    DefaultMinStreak: 3,
//	}, logger)
//
//	view, err := svc.Ranking(ctx, ranking.Filter{MinStreak: 5, Market: "Prime"}, 50)
//
// Concurrent refreshes are collapsed into one source read. A failed refresh
// keeps serving the previous ranking until the TTL runs out and is reported
// through Status.
//
// # Errors
//
// Source failures are returned as *errors.AppError of type SOURCE, unknown
// entities as NOT_FOUND, and schema problems as *dividend.MissingColumnsError
// wrapped by the engine. Handlers pass them to errors.ErrorHandler
// unchanged.
//
// # Health
//
// HealthService answers liveness, readiness and version probes. Readiness
// follows the ranking cache: the service is ready once one ranking has been
// computed.
package services
