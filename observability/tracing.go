package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/upb/event-admin-api"

// Tracer returns the application tracer from the global provider.
// Without an installed SDK every span is a no-op.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
