// Package telemetry installs the OpenTelemetry tracer used for narration runs.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// Config describes the tracer provider.
type Config struct {
	ServiceName string
	// SampleRatio is the share of root spans recorded. Values outside (0, 1)
	// record every span.
	SampleRatio float64
	// Processors receive finished spans; none means spans only carry IDs.
	Processors []sdktrace.SpanProcessor
}

// Tracing owns the installed provider. Shutdown puts the previous global
// provider back.
type Tracing struct {
	provider *sdktrace.TracerProvider
	previous trace.TracerProvider
}

// Setup builds a provider from cfg and makes it the global one.
func Setup(cfg Config) (*Tracing, error) {
	if cfg.ServiceName == "" {
		return nil, errors.New("tracing: service name is required")
	}
	res := resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(cfg.ServiceName))
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRatio)),
	}
	for _, p := range cfg.Processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}

	t := &Tracing{
		provider: sdktrace.NewTracerProvider(opts...),
		previous: otel.GetTracerProvider(),
	}
	otel.SetTracerProvider(t.provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return t, nil
}

func sampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// Provider returns the installed provider.
func (t *Tracing) Provider() *sdktrace.TracerProvider {
	return t.provider
}

// Shutdown flushes processors and restores the previous global provider.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	otel.SetTracerProvider(t.previous)
	if err := t.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("tracing shutdown: %w", err)
	}
	return nil
}
