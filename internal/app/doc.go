// Package app wires the divstreak API server together and owns its
// lifecycle.
//
// NewApplication builds, in order, the logger, the OpenTelemetry
// providers and instruments, the dividend source, the ranking and health
// services, and finally the chi router and http.Server. Nothing touches
// the source until Start, which computes the first ranking before the
// listener comes up. A failed warm-up is logged, readiness stays 503 and
// the next request or POST /api/dividends/refresh retries.
//
// Run blocks until the context is cancelled or SIGINT/SIGTERM arrives,
// then shuts the server down within Server.ShutdownTimeout and flushes
// telemetry. Errors are returned to the caller; the package never exits
// the process itself.
package app
