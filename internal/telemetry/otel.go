//go:build otel

package telemetry

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

var tracer oteltrace.Tracer

// init wires a real OTLP/HTTP exporter when built with -tags otel, matching
// the teacher's own build-tag-gated OTel integration (cmd/gateway.go). The
// endpoint is read from CLIMB_OTEL_ENDPOINT; when unset, export is skipped
// and Start/Shutdown fall back to the package's no-op defaults.
func init() {
	endpoint := os.Getenv("CLIMB_OTEL_ENDPOINT")
	if endpoint == "" {
		return
	}

	ctx := context.Background()
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		slog.Warn("telemetry.otel_init_failed", "endpoint", endpoint, "error", err)
		return
	}

	res, _ := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName("climb"),
	))

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	tracer = provider.Tracer("climb")

	Start = func(ctx context.Context, name string) (context.Context, Span) {
		ctx, span := tracer.Start(ctx, name)
		return ctx, otelSpan{span}
	}
	Shutdown = provider.Shutdown

	slog.Info("telemetry.otel_enabled", "endpoint", endpoint)
}

type otelSpan struct {
	span oteltrace.Span
}

func (s otelSpan) End() { s.span.End() }

func (s otelSpan) SetError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
}
