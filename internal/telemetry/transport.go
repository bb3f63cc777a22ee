package telemetry

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// HTTPClientInstrumentationName names the tracer and meter used for outgoing requests
const HTTPClientInstrumentationName = "github.com/David256/quizzed-backend/httpclient"

// Transport is an http.RoundTripper that traces and measures outgoing requests
type Transport struct {
	base            http.RoundTripper
	tracer          trace.Tracer
	propagator      propagation.TextMapPropagator
	requestDuration metric.Float64Histogram
	requestsTotal   metric.Int64Counter
}

// TransportOption configures a Transport
type TransportOption func(*Transport)

// WithPropagator overrides the global text map propagator
func WithPropagator(p propagation.TextMapPropagator) TransportOption {
	return func(t *Transport) {
		t.propagator = p
	}
}

// NewTransport wraps base with client spans and request metrics.
// Either provider may be nil. When both are nil base is returned unchanged.
func NewTransport(
	base http.RoundTripper,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
	opts ...TransportOption,
) (http.RoundTripper, error) {
	if base == nil {
		base = http.DefaultTransport
	}
	if tp == nil && mp == nil {
		return base, nil
	}

	t := &Transport{
		base:       base,
		propagator: otel.GetTextMapPropagator(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if tp != nil {
		t.tracer = tp.Tracer(HTTPClientInstrumentationName)
	}

	if mp != nil {
		meter := mp.Meter(HTTPClientInstrumentationName)

		var err error
		t.requestDuration, err = meter.Float64Histogram(
			"quizzed_http_client_request_duration_seconds",
			metric.WithDescription("Duration of outgoing HTTP requests in seconds"),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
		)
		if err != nil {
			return nil, err
		}

		t.requestsTotal, err = meter.Int64Counter(
			"quizzed_http_client_requests_total",
			metric.WithDescription("Total number of outgoing HTTP requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			return nil, err
		}
	}

	return t, nil
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()

	var span trace.Span
	if t.tracer != nil {
		ctx, span = t.tracer.Start(ctx, fmt.Sprintf("%s %s", req.Method, req.URL.Host),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(req.Method),
				semconv.ServerAddress(req.URL.Hostname()),
				semconv.URLPath(req.URL.Path),
			),
		)
		defer span.End()

		// RoundTrippers must not modify the caller's request.
		req = req.Clone(ctx)
		t.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))
	}

	resp, err := t.base.RoundTrip(req)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	if span != nil {
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, "request failed")
		case resp.StatusCode >= 400:
			span.SetAttributes(semconv.HTTPResponseStatusCode(resp.StatusCode))
			span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		default:
			span.SetAttributes(semconv.HTTPResponseStatusCode(resp.StatusCode))
			span.SetStatus(codes.Ok, "")
		}
	}

	if t.requestsTotal != nil {
		attrs := metric.WithAttributes(
			attribute.String("method", req.Method),
			attribute.String("host", req.URL.Host),
			attribute.String("status_code", status),
		)
		t.requestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		t.requestsTotal.Add(ctx, 1, attrs)
	}

	return resp, err
}
