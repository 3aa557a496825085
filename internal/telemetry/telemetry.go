// Package telemetry wraps the engine's Run/Discover/Introspect operations
// in spans when the binary is built with `-tags otel`, exactly as the
// teacher gates its own OTel OTLP export behind a build tag ("compiled via
// build tags... build with -tags otel", cmd/gateway.go). The default build
// links no OTel dependency at all: Start is a zero-overhead no-op.
package telemetry

import "context"

// Span is closed when the operation it wraps completes.
type Span interface {
	End()
	SetError(err error)
}

type noopSpan struct{}

func (noopSpan) End()           {}
func (noopSpan) SetError(error) {}

// Start begins a span named name as a child of ctx's span, if any. The
// default (non-otel) build returns ctx unchanged and a no-op Span.
var Start = func(ctx context.Context, name string) (context.Context, Span) {
	return ctx, noopSpan{}
}

// Shutdown flushes and closes any exporter opened by the otel build's
// package init (when CLIMB_OTEL_ENDPOINT is set). The default
// build's Shutdown is a no-op.
var Shutdown = func(ctx context.Context) error { return nil }
