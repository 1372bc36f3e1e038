// Package tracing provides OpenTelemetry tracing integration.
//
// Init installs an SDK tracer provider and the W3C trace context
// propagator. Middleware opens a server span per HTTP request and returns
// its trace ID in the X-Trace-Id header; Start opens child spans for the
// summarize, convert and cleanup operations.
//
// Example usage:
//
//	shutdown := tracing.Init("textforge-api", config.APIVersion, 1.0)
//	defer func() { _ = shutdown(context.Background()) }()
//
//	ctx, span := tracing.Start(ctx, "summary.Summarize")
//	defer span.End()
package tracing
