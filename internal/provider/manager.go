// Package provider selects among question sources and falls back across them.
package provider

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/David256/quizzed-backend/internal/logger"
	"github.com/David256/quizzed-backend/internal/otel"
	"github.com/David256/quizzed-backend/internal/question"
	"github.com/David256/quizzed-backend/internal/sources"
	"github.com/David256/quizzed-backend/internal/telemetry"
)

// Callback receives the result of a Provide call, nil when every source failed
type Callback func([]question.Question)

// Manager tries its candidate sources in random order until one returns questions.
// A Manager holds no per-call state and may be shared between goroutines.
type Manager struct {
	filter     Filter
	amount     int
	candidates []sources.QuestionSource
	random     sources.Randomizer
	logger     *zap.Logger
	tracer     trace.Tracer
	metrics    *telemetry.SourceMetrics
}

// Option configures a Manager
type Option func(*Manager)

// WithRandomizer sets the randomizer used to pick the next source
func WithRandomizer(random sources.Randomizer) Option {
	return func(m *Manager) {
		if random != nil {
			m.random = random
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithTracer sets the tracer used for provide and fetch spans
func WithTracer(tracer trace.Tracer) Option {
	return func(m *Manager) {
		m.tracer = tracer
	}
}

// WithMetrics sets the source metrics
func WithMetrics(metrics *telemetry.SourceMetrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// New builds a Manager for filter. It fails with sources.ErrMissingAPIToken when
// filter is FilterQuizAPI and the factory has no token; no source is called.
func New(factory sources.SourceFactory, filter Filter, amount int, opts ...Option) (*Manager, error) {
	names, err := candidateNames(filter, factory.HasAPIToken())
	if err != nil {
		return nil, err
	}

	if amount < 1 {
		amount = 1
	}

	m := &Manager{
		filter: filter,
		amount: amount,
		random: sources.DefaultRandomizer(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.Named("provider")

	m.candidates = make([]sources.QuestionSource, 0, len(names))
	for _, name := range names {
		source, err := factory.CreateSource(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create source %s: %w", name, err)
		}
		m.candidates = append(m.candidates, source)
	}

	return m, nil
}

// Filter returns the filter the Manager was built with
func (m *Manager) Filter() Filter {
	return m.filter
}

// Candidates returns the names of the sources the Manager may use
func (m *Manager) Candidates() []string {
	names := make([]string, len(m.candidates))
	for i, source := range m.candidates {
		names[i] = source.Name()
	}
	return names
}

// Provide returns the questions of the first candidate that produces any.
// Candidates are drawn at random without replacement, one at a time.
// When all of them fail it returns a KindNoData error joining every cause.
// Callbacks are invoked with the returned questions, or nil on failure.
// A done context does not stop the walk: remote sources fail on their own
// and the local source still answers.
func (m *Manager) Provide(ctx context.Context, callbacks ...Callback) ([]question.Question, error) {
	ctx, span := otel.StartSpan(ctx, m.tracer, "provider.Provide",
		trace.WithAttributes(
			otel.AttrFilter.String(m.filter.String()),
			otel.AttrAmount.Int(m.amount),
			otel.AttrCandidates.Int(len(m.candidates)),
		),
	)
	defer span.End()

	log := logger.WithTrace(ctx, m.logger)
	ctx = logger.IntoContext(ctx, log)

	remaining := make([]int, len(m.candidates))
	for i := range remaining {
		remaining[i] = i
	}

	var errs []error
	for len(remaining) > 0 {
		pick := m.random.IntN(len(remaining))
		source := m.candidates[remaining[pick]]
		remaining = slices.Delete(remaining, pick, pick+1)

		questions, err := m.fetch(ctx, source)
		if err == nil {
			span.SetAttributes(
				otel.AttrSource.String(source.Name()),
				otel.AttrResultCount.Int(len(questions)),
			)
			log.Debug("Questions provided",
				zap.String("source", source.Name()),
				zap.Int("count", len(questions)))
			notify(callbacks, questions)
			return questions, nil
		}

		log.Debug("Question source failed, trying another one",
			zap.String("source", source.Name()),
			zap.Int("remaining", len(remaining)),
			zap.Error(err))
		errs = append(errs, err)
	}

	err := &sources.Error{Kind: sources.KindNoData, Err: errors.Join(errs...)}
	if ctx.Err() != nil {
		log.Warn("Provide cancelled", zap.Error(err))
	} else {
		log.Error("All question sources failed",
			zap.String("filter", m.filter.String()),
			zap.Strings("candidates", m.Candidates()),
			zap.Error(err))
		m.metrics.RecordExhausted(ctx, m.filter.String())
	}
	otel.RecordError(span, err)
	notify(callbacks, nil)
	return nil, err
}

// fetch calls one source and reports an empty result as KindNoData
func (m *Manager) fetch(ctx context.Context, source sources.QuestionSource) ([]question.Question, error) {
	ctx, span := otel.StartSpan(ctx, m.tracer, "source.FetchQuestions",
		trace.WithAttributes(
			otel.AttrSource.String(source.Name()),
			otel.AttrAmount.Int(m.amount),
		),
	)
	defer span.End()

	start := time.Now()
	questions, err := source.FetchQuestions(ctx, m.amount)
	if err == nil && len(questions) == 0 {
		err = sources.NewNoDataError(source.Name(), errors.New("empty result"))
	}
	m.metrics.RecordFetch(ctx, source.Name(), outcome(err), time.Since(start), len(questions))

	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(otel.AttrResultCount.Int(len(questions)))
	return questions, nil
}

func outcome(err error) string {
	if err == nil {
		return telemetry.OutcomeSuccess
	}
	switch sources.KindOf(err) {
	case sources.KindNoData:
		return telemetry.OutcomeNoData
	case sources.KindMissingAPIToken:
		return telemetry.OutcomeMissingToken
	default:
		return telemetry.OutcomeError
	}
}

func notify(callbacks []Callback, questions []question.Question) {
	for _, cb := range callbacks {
		if cb != nil {
			cb(questions)
		}
	}
}
