// Package http implements the HTTP handlers of the divstreak API server.
// Handlers stay thin: they bind and validate query parameters, call a
// service and render the result or hand the error to errors.ErrorHandler,
// which writes an RFC 7807 problem response.
//
// # Endpoints
//
//	GET  /api/dividends/ranking   filtered ranking view (min_streak, market, limit)
//	GET  /api/dividends/export    same rows as a csv, json, xlsx or md attachment
//	GET  /api/dividends/markets   distinct markets for the market filter
//	GET  /api/dividends/entities/{code}
//	                              one entity with its series and streak walk
//	POST /api/dividends/refresh   reload the source and recompute
//	GET  /api/health[/ready|/live], /api/version
//	GET  /metrics                 Prometheus scrape endpoint
//
// min_streak defaults to the configured default when absent and must be
// non-negative. limit 0 means no limit beyond the server cap.
package http
