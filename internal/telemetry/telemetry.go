// Package telemetry installs the global OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const serviceName = "inkpress-api"

// ShutdownFunc flushes pending spans.
type ShutdownFunc func(context.Context) error

// Setup configures tracing for the given exporter: "none", "stdout",
// "otlp-http" or "otlp-grpc". The OTLP exporters read their endpoint from
// the standard OTEL_EXPORTER_OTLP_* variables.
func Setup(ctx context.Context, exporter string) (ShutdownFunc, error) {
	if exporter == "" || exporter == "none" {
		return func(context.Context) error { return nil }, nil
	}

	exp, err := newExporter(ctx, exporter)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s exporter: %w", exporter, err)
	}

	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		return errors.Join(tp.ForceFlush(ctx), tp.Shutdown(ctx))
	}, nil
}

func newExporter(ctx context.Context, exporter string) (sdktrace.SpanExporter, error) {
	switch exporter {
	case "stdout":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "otlp-http":
		return otlptracehttp.New(ctx)
	case "otlp-grpc":
		return otlptracegrpc.New(ctx)
	}
	return nil, fmt.Errorf("unsupported exporter %q", exporter)
}
