// Package telemetry installs the process-wide OpenTelemetry tracer provider
// that the otelhttp router wrapper reports into.
package telemetry

import (
	"context"
	"fmt"

	"property-service/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Options struct {
	ServiceName string
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

// Tracing is the installed provider. A zero Tracing is disabled and its
// Shutdown is a no-op.
type Tracing struct {
	provider *sdktrace.TracerProvider
}

func (t *Tracing) Enabled() bool {
	return t != nil && t.provider != nil
}

// Shutdown flushes pending spans.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if !t.Enabled() {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// Setup exports spans over OTLP/gRPC to opts.Endpoint. Without an endpoint
// tracing stays disabled and the global no-op provider is left in place.
func Setup(ctx context.Context, opts Options) (*Tracing, error) {
	log := config.Config.Logger
	if opts.Endpoint == "" {
		log.Debugw("tracing disabled", "reason", "no OTLP endpoint")
		return &Tracing{}, nil
	}

	clientOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		clientOpts = append(clientOpts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(opts.ServiceName)),
		resource.WithHost(),
		resource.WithProcessRuntimeName(),
	)
	if err != nil {
		// partial resources are still usable
		log.Warnw("tracing resource incomplete", "error", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(opts.SampleRatio)),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	log.Infow("tracing enabled",
		"endpoint", opts.Endpoint,
		"service", opts.ServiceName,
		"insecure", opts.Insecure,
		"sample_ratio", opts.SampleRatio,
	)
	return &Tracing{provider: provider}, nil
}

// sampler honours the caller's sampling decision and samples root spans at
// ratio. Ratios outside (0, 1] mean sample everything.
func sampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}
