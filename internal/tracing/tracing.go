// Package tracing configures OpenTelemetry for the HTTP server and the
// upstream API clients.
package tracing

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentation = "daysync"

// Config holds tracing configuration.
type Config struct {
	Enabled      bool
	Endpoint     string
	SamplingRate float64
	ServiceName  string
	Version      string
}

// ShutdownFunc flushes pending spans.
type ShutdownFunc func(context.Context) error

// Setup installs the global tracer provider. When tracing is disabled the
// no-op provider stays in place and the returned ShutdownFunc does nothing.
func Setup(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithInsecure()}
	if cfg.Endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(cfg.Endpoint))
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SamplingRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// sampler honors the parent's decision and samples root spans at rate.
// Rates outside (0, 1) sample everything.
func sampler(rate float64) sdktrace.Sampler {
	if rate > 0 && rate < 1 {
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	}
	return sdktrace.AlwaysSample()
}

// Tracer returns the application tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentation)
}

// TraceIDFromContext returns the trace ID of the active span, or "".
func TraceIDFromContext(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

// WithUpstreamAttributes tags a span with the third-party API it calls.
// Query strings are dropped so API keys never reach the exporter.
func WithUpstreamAttributes(api, endpoint string) trace.SpanStartOption {
	endpoint, _, _ = strings.Cut(endpoint, "?")
	return trace.WithAttributes(
		attribute.String("upstream.api", api),
		attribute.String("http.url", endpoint),
	)
}
