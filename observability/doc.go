// Package observability provides structured logging, metrics, and tracing
// for the event admin API.
//
// Logging is zap-based. Gate decisions and identity lookups are exported as
// Prometheus metrics, and identity lookups open an OpenTelemetry span using
// the globally installed tracer provider.
package observability
