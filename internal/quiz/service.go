// Package quiz assembles quizzes from the question providers and applies the
// fallback policy used when the preferred provider cannot serve a request.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/David256/quizzed-backend/internal/config"
	"github.com/David256/quizzed-backend/internal/logger"
	"github.com/David256/quizzed-backend/internal/otel"
	"github.com/David256/quizzed-backend/internal/provider"
	"github.com/David256/quizzed-backend/internal/question"
	"github.com/David256/quizzed-backend/internal/sources"
)

//go:generate mockgen -destination=mocks/mock_provider.go -package=mocks -source=service.go Provider

// Provider produces a batch of questions
type Provider interface {
	Provide(ctx context.Context, callbacks ...provider.Callback) ([]question.Question, error)
}

// ProviderBuilder builds a Provider restricted by filter
type ProviderBuilder func(filter provider.Filter) (Provider, error)

// Service hands out questions and quizzes
type Service struct {
	cfg         *config.Config
	newProvider ProviderBuilder
	logger      *zap.Logger
	tracer      trace.Tracer
}

// Option configures a Service
type Option func(*Service)

// WithProviderBuilder replaces how providers are built
func WithProviderBuilder(builder ProviderBuilder) Option {
	return func(s *Service) {
		if builder != nil {
			s.newProvider = builder
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracer sets the tracer
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// NewService creates a Service asking factory for sources. providerOpts are
// passed to every provider.Manager the Service builds.
func NewService(
	cfg *config.Config,
	factory sources.SourceFactory,
	providerOpts []provider.Option,
	opts ...Option,
) *Service {
	s := &Service{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("quiz")

	if s.newProvider == nil {
		managerOpts := append([]provider.Option{provider.WithLogger(s.logger)}, providerOpts...)
		s.newProvider = func(filter provider.Filter) (Provider, error) {
			m, err := provider.New(factory, filter, cfg.Amount, managerOpts...)
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	return s
}

// Questions returns questions from the provider named by wanted.
// In the test environment only the local provider is used.
// A missing QuizAPI token retries without preference, any other failure retries
// with the local provider. The retry result is returned as is.
func (s *Service) Questions(ctx context.Context, wanted string) ([]question.Question, error) {
	filter := provider.ParseFilter(wanted)
	if s.cfg.IsTest() {
		filter = provider.FilterLocal
	}

	ctx, span := otel.StartSpan(ctx, s.tracer, "quiz.Questions",
		trace.WithAttributes(otel.AttrFilter.String(filter.String())))
	defer span.End()

	log := logger.WithTrace(ctx, s.logger)
	log.Debug("Providing questions",
		zap.String("wanted", wanted),
		zap.Stringer("filter", filter),
		zap.Int("amount", s.cfg.Amount))

	questions, err := s.provide(ctx, filter)
	if err == nil {
		span.SetAttributes(otel.AttrResultCount.Int(len(questions)))
		return questions, nil
	}

	fallback := provider.FilterLocal
	if errors.Is(err, sources.ErrMissingAPIToken) {
		fallback = provider.FilterNone
	}
	log.Warn("Question provider failed, falling back",
		zap.Stringer("filter", filter),
		zap.Stringer("fallback", fallback),
		zap.Error(err))

	questions, err = s.provide(ctx, fallback)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to provide questions: %w", err)
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(questions)))
	return questions, nil
}

// CreateQuiz builds a named quiz filled with questions from Questions
func (s *Service) CreateQuiz(ctx context.Context, name, wanted string) (*question.Quiz, error) {
	// name is checked before any provider runs
	if strings.TrimSpace(name) == "" {
		return nil, question.ErrMissingName
	}

	ctx, span := otel.StartSpan(ctx, s.tracer, "quiz.CreateQuiz",
		trace.WithAttributes(otel.AttrQuizName.String(name)))
	defer span.End()

	questions, err := s.Questions(ctx, wanted)
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}

	quiz, err := question.NewQuiz(name, questions)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	logger.WithTrace(ctx, s.logger).Info("Quiz created",
		zap.String("id", quiz.ID),
		zap.String("name", quiz.Name),
		zap.Int("questions", len(quiz.Questions)))
	return quiz, nil
}

func (s *Service) provide(ctx context.Context, filter provider.Filter) ([]question.Question, error) {
	p, err := s.newProvider(filter)
	if err != nil {
		return nil, err
	}
	return p.Provide(ctx)
}
