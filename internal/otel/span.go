// Package otel provides OpenTelemetry span helpers shared by the question providers.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used on question sourcing spans
const (
	AttrSource      = attribute.Key("quiz.source")
	AttrFilter      = attribute.Key("quiz.filter")
	AttrAmount      = attribute.Key("quiz.amount")
	AttrCandidates  = attribute.Key("quiz.candidates")
	AttrQuizName    = attribute.Key("quiz.name")
	AttrResultCount = attribute.Key("result.count")
)

// StartSpan starts a new span if the tracer is non-nil, otherwise returns the span already in ctx.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records err on span and marks the span as failed.
// The status description stays generic so upstream URLs and tokens never land in it.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
