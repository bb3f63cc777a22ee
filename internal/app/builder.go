package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/David256/quizzed-backend/internal/config"
	"github.com/David256/quizzed-backend/internal/httpclient"
	"github.com/David256/quizzed-backend/internal/logger"
	"github.com/David256/quizzed-backend/internal/provider"
	"github.com/David256/quizzed-backend/internal/quiz"
	"github.com/David256/quizzed-backend/internal/sources"
	"github.com/David256/quizzed-backend/internal/telemetry"
)

// instrumentationName names the tracer used by the provider and quiz layers
const instrumentationName = "github.com/David256/quizzed-backend"

// QuizzedAppOptions is a function that configures the app builder
type QuizzedAppOptions func(*quizzedAppConfig) error

// quizzedAppConfig collects the inputs of NewQuizzedApp.
// Every component can be injected for testing, the rest is built from config.
type quizzedAppConfig struct {
	config *config.Config

	// Optional component overrides (primarily for testing)
	logger        *zap.Logger
	telemetry     *telemetry.Telemetry
	httpClient    httpclient.Client
	sourceFactory sources.SourceFactory
	randomizer    sources.Randomizer
}

func baseConfig(opts ...QuizzedAppOptions) (*quizzedAppConfig, error) {
	cfg := &quizzedAppConfig{}

	// Apply options
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return cfg, nil
}

// NewQuizzedApp builds the application from the given options
func NewQuizzedApp(ctx context.Context, opts ...QuizzedAppOptions) (*QuizzedApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	if err := cfg.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.logger == nil {
		cfg.logger, err = logger.New(cfg.config)
		if err != nil {
			return nil, err
		}
	}

	// Telemetry built here is owned by the app and shut down on Close
	var shutdown func(context.Context) error
	if cfg.telemetry == nil {
		cfg.telemetry, err = telemetry.New(ctx,
			telemetry.WithTelemetryConfig(cfg.config.Telemetry),
			telemetry.WithLogger(cfg.logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		shutdown = cfg.telemetry.Shutdown
	}

	// Ensure cleanup happens on error
	var cleanupNeeded = true
	defer func() {
		if cleanupNeeded && shutdown != nil {
			_ = shutdown(ctx)
		}
	}()

	if err := buildSourceComponents(cfg); err != nil {
		return nil, fmt.Errorf("failed to build source components: %w", err)
	}

	components, err := buildServiceComponents(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build service components: %w", err)
	}

	cleanupNeeded = false

	return &QuizzedApp{
		config:     cfg.config,
		logger:     cfg.logger,
		components: components,
		shutdown:   shutdown,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) QuizzedAppOptions {
	return func(cfg *quizzedAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithLogger sets the logger instead of building one from the configuration
func WithLogger(l *zap.Logger) QuizzedAppOptions {
	return func(cfg *quizzedAppConfig) error {
		if l == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		cfg.logger = l
		return nil
	}
}

// WithTelemetry sets telemetry providers owned by the caller.
// The app does not shut them down.
func WithTelemetry(t *telemetry.Telemetry) QuizzedAppOptions {
	return func(cfg *quizzedAppConfig) error {
		if t == nil {
			return fmt.Errorf("telemetry cannot be nil")
		}
		cfg.telemetry = t
		return nil
	}
}

// WithHTTPClient allows injecting the HTTP client used by remote sources (for testing)
func WithHTTPClient(c httpclient.Client) QuizzedAppOptions {
	return func(cfg *quizzedAppConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithSourceFactory allows injecting a custom source factory (for testing)
func WithSourceFactory(f sources.SourceFactory) QuizzedAppOptions {
	return func(cfg *quizzedAppConfig) error {
		cfg.sourceFactory = f
		return nil
	}
}

// WithRandomizer sets the randomizer shared by the sources and the provider
func WithRandomizer(r sources.Randomizer) QuizzedAppOptions {
	return func(cfg *quizzedAppConfig) error {
		cfg.randomizer = r
		return nil
	}
}

// buildSourceComponents builds the HTTP client and the source factory
func buildSourceComponents(b *quizzedAppConfig) error {
	log := b.logger.Named("app")
	log.Debug("Initializing source components")

	if b.sourceFactory != nil {
		return nil
	}

	if b.httpClient == nil {
		var tp, mp = b.telemetry.TracerProvider(), b.telemetry.MeterProvider()
		if !b.config.Telemetry.TracingEnabled() {
			tp = nil
		}
		if !b.config.Telemetry.MetricsEnabled() {
			mp = nil
		}

		transport, err := telemetry.NewTransport(nil, tp, mp)
		if err != nil {
			return fmt.Errorf("failed to create HTTP transport: %w", err)
		}

		b.httpClient = httpclient.NewDefaultClient(b.config.HTTP.Timeout,
			httpclient.WithMaxRetries(b.config.HTTP.MaxRetries),
			httpclient.WithTransport(transport),
			httpclient.WithLogger(b.logger.Named("httpclient")),
		)
	}

	factoryOpts := []sources.FactoryOption{sources.WithHTTPClient(b.httpClient)}
	if b.randomizer != nil {
		factoryOpts = append(factoryOpts, sources.WithRandomizer(b.randomizer))
	}
	b.sourceFactory = sources.NewSourceFactory(b.config, factoryOpts...)

	log.Debug("Source components initialized",
		zap.Bool("quizapi_token", b.sourceFactory.HasAPIToken()))
	return nil
}

// buildServiceComponents builds the provider options and the quiz service
func buildServiceComponents(b *quizzedAppConfig) (*AppComponents, error) {
	var metrics *telemetry.SourceMetrics
	if b.config.Telemetry.MetricsEnabled() {
		var err error
		metrics, err = telemetry.NewSourceMetrics(b.telemetry.MeterProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create source metrics: %w", err)
		}
		b.logger.Named("app").Debug("Source metrics enabled")
	}

	tracer := b.telemetry.Tracer(instrumentationName)
	providerOpts := []provider.Option{
		provider.WithTracer(tracer),
		provider.WithMetrics(metrics),
	}
	if b.randomizer != nil {
		providerOpts = append(providerOpts, provider.WithRandomizer(b.randomizer))
	}

	svc := quiz.NewService(b.config, b.sourceFactory, providerOpts,
		quiz.WithLogger(b.logger),
		quiz.WithTracer(tracer),
	)

	return &AppComponents{
		HTTPClient:    b.httpClient,
		SourceFactory: b.sourceFactory,
		QuizService:   svc,
		SourceMetrics: metrics,
	}, nil
}
