package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest installs a tracer provider backed by an in-memory exporter.
func setupTracingTest(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = otel.Tracer("beacon")

	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		tracer = otel.Tracer("beacon")
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	})
	return exporter
}

func TestSpanManager_TrackAndSend(t *testing.T) {
	exporter := setupTracingTest(t)
	sm := NewSpanManager()

	ctx, trackSpan := sm.StartTrackSpan(context.Background(), "b-1", 2)
	_, sendSpan := sm.StartSendSpan(ctx, "http://t.example/imp")
	sm.EndSpanWithError(sendSpan, errors.New("HTTP 500"))
	sm.EndSpanWithError(trackSpan, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	send, track := spans[0], spans[1]
	assert.Equal(t, "beacon.send", send.Name)
	assert.Equal(t, codes.Error, send.Status.Code)
	assert.Equal(t, track.SpanContext.SpanID(), send.Parent.SpanID())

	assert.Equal(t, "beacon.track", track.Name)
	assert.Equal(t, codes.Ok, track.Status.Code)

	var batchID string
	for _, attr := range track.Attributes {
		if attr.Key == "batch.id" {
			batchID = attr.Value.AsString()
		}
	}
	assert.Equal(t, "b-1", batchID)
}

func TestSpanManager_EndNilSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		NewSpanManager().EndSpanWithError(nil, errors.New("x"))
	})
}
