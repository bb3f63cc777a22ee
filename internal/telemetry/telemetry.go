package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Telemetry owns the OpenTelemetry providers and their lifecycle
type Telemetry struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	logger         *zap.Logger
}

// Option is a function that configures the telemetry setup
type Option func(*telemetryConfig)

type telemetryConfig struct {
	config *Config
	logger *zap.Logger
}

// WithTelemetryConfig sets the telemetry configuration
func WithTelemetryConfig(cfg *Config) Option {
	return func(tc *telemetryConfig) {
		tc.config = cfg
	}
}

// WithLogger sets the logger used while providers start and stop
func WithLogger(logger *zap.Logger) Option {
	return func(tc *telemetryConfig) {
		if logger != nil {
			tc.logger = logger
		}
	}
}

// New creates the tracer and meter providers described by the configuration.
// A nil or disabled configuration yields no-op providers.
// The caller must call Shutdown when the application exits.
func New(ctx context.Context, opts ...Option) (*Telemetry, error) {
	tc := &telemetryConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(tc)
	}
	logger := tc.logger.Named("telemetry")

	if err := tc.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry configuration: %w", err)
	}

	if tc.config == nil || !tc.config.Enabled {
		logger.Debug("Telemetry disabled")
		return NewNoop(), nil
	}

	logger.Info("Initializing telemetry",
		zap.String("service_name", tc.config.GetServiceName()),
		zap.String("service_version", tc.config.GetServiceVersion()),
	)

	res, err := newResource(ctx, tc.config)
	if err != nil {
		return nil, err
	}

	tracerProvider, err := newTracerProvider(ctx, tc.config, res, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer provider: %w", err)
	}

	meterProvider, err := newMeterProvider(ctx, tc.config, res, logger)
	if err != nil {
		if sdkProvider, ok := tracerProvider.(*sdktrace.TracerProvider); ok {
			_ = sdkProvider.Shutdown(ctx)
		}
		return nil, fmt.Errorf("failed to create meter provider: %w", err)
	}

	logger.Info("Telemetry initialized")

	return &Telemetry{
		tracerProvider: tracerProvider,
		meterProvider:  meterProvider,
		logger:         logger,
	}, nil
}

// NewNoop returns telemetry backed by no-op providers
func NewNoop() *Telemetry {
	return &Telemetry{
		tracerProvider: noopTracerProvider(),
		meterProvider:  noopMeterProvider(),
		logger:         zap.NewNop(),
	}
}

// TracerProvider returns the configured tracer provider
func (t *Telemetry) TracerProvider() trace.TracerProvider {
	return t.tracerProvider
}

// MeterProvider returns the configured meter provider
func (t *Telemetry) MeterProvider() metric.MeterProvider {
	return t.meterProvider
}

// Tracer returns a named tracer from the tracer provider
func (t *Telemetry) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return t.tracerProvider.Tracer(name, opts...)
}

// Shutdown flushes and stops the SDK providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if tp, ok := t.tracerProvider.(*sdktrace.TracerProvider); ok {
		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown tracer provider: %w", err))
		}
	}

	if mp, ok := t.meterProvider.(*sdkmetric.MeterProvider); ok {
		if err := mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown meter provider: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	t.logger.Debug("Telemetry shutdown complete")
	return nil
}
