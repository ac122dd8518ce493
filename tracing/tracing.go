package tracing

import (
	"context"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace"
)

type Config struct {
	Enabled bool
	Output  io.Writer
}

// Init installs the global tracer provider. With tracing disabled the otel no-op provider stays in place.
func Init(c Config) (shutdown func(ctx context.Context) error, err error) {
	otel.SetTextMapPropagator(newPropagator())
	if !c.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	tracerProvider, err := newTraceProvider(c.Output)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tracerProvider)

	return tracerProvider.Shutdown, nil
}

func newTraceProvider(out io.Writer) (*trace.TracerProvider, error) {
	if out == nil {
		out = os.Stdout
	}
	traceExporter, err := stdouttrace.New(
		stdouttrace.WithWriter(out),
		stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	traceProvider := trace.NewTracerProvider(
		trace.WithBatcher(traceExporter,
			trace.WithBatchTimeout(time.Second)),
	)
	return traceProvider, nil
}

func newPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}
