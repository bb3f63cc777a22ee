package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// DefaultMetricsInterval is the default interval for metric collection
const DefaultMetricsInterval = 60 * time.Second

func noopTracerProvider() trace.TracerProvider {
	return tracenoop.NewTracerProvider()
}

func noopMeterProvider() metric.MeterProvider {
	return metricnoop.NewMeterProvider()
}

func newResource(ctx context.Context, cfg *Config) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.GetServiceName()),
			semconv.ServiceVersion(cfg.GetServiceVersion()),
		),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

// newTracerProvider builds an OTLP/HTTP backed tracer provider and registers it globally.
// It returns a no-op provider when tracing is off.
func newTracerProvider(
	ctx context.Context,
	cfg *Config,
	res *resource.Resource,
	logger *zap.Logger,
) (trace.TracerProvider, error) {
	if !cfg.TracingEnabled() {
		logger.Debug("Tracing disabled, using no-op tracer provider")
		return noopTracerProvider(), nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.GetEndpoint())}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	sampling := cfg.Tracing.GetSampling()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampling))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.Insecure {
		logger.Warn("Tracing configured with an insecure connection, spans are sent over plain HTTP")
	}
	logger.Info("Tracing initialized",
		zap.String("endpoint", cfg.GetEndpoint()),
		zap.Float64("sampling_ratio", sampling),
	)

	return tp, nil
}

// newMeterProvider builds an OTLP/HTTP backed meter provider and registers it globally.
// It returns a no-op provider when metrics are off.
func newMeterProvider(
	ctx context.Context,
	cfg *Config,
	res *resource.Resource,
	logger *zap.Logger,
) (metric.MeterProvider, error) {
	if !cfg.MetricsEnabled() {
		logger.Debug("Metrics disabled, using no-op meter provider")
		return noopMeterProvider(), nil
	}

	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.GetEndpoint())}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(DefaultMetricsInterval)),
		),
	)
	otel.SetMeterProvider(mp)

	logger.Info("Metrics initialized", zap.String("endpoint", cfg.GetEndpoint()))

	return mp, nil
}
