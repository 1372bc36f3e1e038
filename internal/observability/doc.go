// Package observability groups structured logging, Prometheus metrics and
// OpenTelemetry tracing.
//
// Subpackages:
//   - logging: slog JSON logger and request-scoped loggers
//   - metrics: HTTP and storage metrics on the default registry
//   - tracing: tracer provider setup, HTTP middleware and span helpers
package observability
