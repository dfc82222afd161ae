package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Version is reported as service.version on every span and metric.
var Version = "1.0.0"

const metricInterval = 30 * time.Second

type ShutdownFunc func(context.Context) error

// Options describes one process (api or worker) to the collector.
type Options struct {
	ServiceName string
	Environment string
	// Endpoint is the OTLP/HTTP collector address. An https:// scheme
	// enables TLS; anything else is sent in plain text.
	Endpoint string
	// SampleRatio is the fraction of root traces kept, clamped to [0, 1].
	SampleRatio float64
}

type endpoint struct {
	host     string
	insecure bool
}

func parseEndpoint(raw string) endpoint {
	if host, ok := strings.CutPrefix(raw, "https://"); ok {
		return endpoint{host: host}
	}
	return endpoint{host: strings.TrimPrefix(raw, "http://"), insecure: true}
}

// Init installs global OTLP/HTTP tracer and meter providers. The returned
// function flushes and stops both.
func Init(ctx context.Context, opts Options) (ShutdownFunc, error) {
	res, err := newResource(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	target := parseEndpoint(opts.Endpoint)

	tracerProvider, err := newTracerProvider(ctx, res, target, opts.SampleRatio)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer provider: %w", err)
	}

	meterProvider, err := newMeterProvider(ctx, res, target)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to create meter provider: %w", err),
			tracerProvider.Shutdown(ctx),
		)
	}

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		return errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
		)
	}, nil
}

func newResource(ctx context.Context, opts Options) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(resourceAttributes(opts)...),
	)
}

func resourceAttributes(opts Options) []attribute.KeyValue {
	environment := opts.Environment
	if environment == "" {
		environment = "development"
	}

	return []attribute.KeyValue{
		semconv.ServiceName(opts.ServiceName),
		semconv.ServiceVersion(Version),
		semconv.ServiceNamespace("inventory"),
		attribute.String("deployment.environment", environment),
	}
}

func sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case ratio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

func newTracerProvider(ctx context.Context, res *resource.Resource, target endpoint, ratio float64) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(target.host)}
	if target.insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(ratio)),
	), nil
}

func newMeterProvider(ctx context.Context, res *resource.Resource, target endpoint) (*metric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(target.host)}
	if target.insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(metricInterval))),
		metric.WithResource(res),
	), nil
}
