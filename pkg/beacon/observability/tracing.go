package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("beacon")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartTrackSpan starts a span covering one tracking batch.
	StartTrackSpan(ctx context.Context, batchID string, urlCount int) (context.Context, trace.Span)

	// StartSendSpan starts a span for one beacon, as a child of the batch span.
	StartSendSpan(ctx context.Context, url string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return otelSpanManager{}
}

// StartTrackSpan starts a span for a tracking batch.
func (otelSpanManager) StartTrackSpan(ctx context.Context, batchID string, urlCount int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "beacon.track",
		trace.WithAttributes(
			attribute.String("batch.id", batchID),
			attribute.Int("batch.urls", urlCount),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartSendSpan starts a client span for a beacon request.
func (otelSpanManager) StartSendSpan(ctx context.Context, url string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "beacon.send",
		trace.WithAttributes(
			attribute.String("url.full", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
