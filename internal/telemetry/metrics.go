package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// SourceMetricsMeterName is the name used for the question source meter
	SourceMetricsMeterName = "github.com/David256/quizzed-backend/sources"

	// OutcomeSuccess marks a fetch that produced questions
	OutcomeSuccess = "success"
	// OutcomeNoData marks a fetch that produced nothing usable
	OutcomeNoData = "no_data"
	// OutcomeMissingToken marks a fetch refused for lack of credentials
	OutcomeMissingToken = "missing_token"
	// OutcomeError marks any other failure, including cancellation
	OutcomeError = "error"
)

// SourceMetrics holds the instruments recorded around question source fetches.
// A nil *SourceMetrics records nothing.
type SourceMetrics struct {
	fetchDuration  metric.Float64Histogram
	fetchTotal     metric.Int64Counter
	questionsTotal metric.Int64Counter
	exhaustedTotal metric.Int64Counter
}

// NewSourceMetrics creates the source instruments from the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSourceMetrics(provider metric.MeterProvider) (*SourceMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SourceMetricsMeterName)

	fetchDuration, err := meter.Float64Histogram(
		"quizzed_source_fetch_duration_seconds",
		metric.WithDescription("Duration of question source fetches in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30),
	)
	if err != nil {
		return nil, err
	}

	fetchTotal, err := meter.Int64Counter(
		"quizzed_source_fetches_total",
		metric.WithDescription("Number of question source fetches by outcome"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, err
	}

	questionsTotal, err := meter.Int64Counter(
		"quizzed_source_questions_total",
		metric.WithDescription("Number of questions produced by each source"),
		metric.WithUnit("{question}"),
	)
	if err != nil {
		return nil, err
	}

	exhaustedTotal, err := meter.Int64Counter(
		"quizzed_provider_exhausted_total",
		metric.WithDescription("Number of provide calls where every candidate source failed"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	return &SourceMetrics{
		fetchDuration:  fetchDuration,
		fetchTotal:     fetchTotal,
		questionsTotal: questionsTotal,
		exhaustedTotal: exhaustedTotal,
	}, nil
}

// RecordFetch records one fetch attempt against a source
func (m *SourceMetrics) RecordFetch(ctx context.Context, source, outcome string, duration time.Duration, questions int) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome),
	)
	m.fetchDuration.Record(ctx, duration.Seconds(), attrs)
	m.fetchTotal.Add(ctx, 1, attrs)

	if questions > 0 {
		m.questionsTotal.Add(ctx, int64(questions), metric.WithAttributes(attribute.String("source", source)))
	}
}

// RecordExhausted records a provide call where no candidate source succeeded
func (m *SourceMetrics) RecordExhausted(ctx context.Context, filter string) {
	if m == nil {
		return
	}

	m.exhaustedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("filter", filter)))
}
