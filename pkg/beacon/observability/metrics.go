package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records beacon metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordResolve records how many URLs a batch resolved to.
	RecordResolve(ctx context.Context, urlCount int)

	// RecordSend records one beacon dispatch with its duration and error status.
	RecordSend(ctx context.Context, duration time.Duration, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	resolvedURLs metric.Int64Counter
	sends        metric.Int64Counter
	sendErrors   metric.Int64Counter
	sendLatency  metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("beacon")

	resolvedURLs, err := meter.Int64Counter("beacon.resolve.urls",
		metric.WithDescription("Number of tracking URLs resolved"),
	)
	if err != nil {
		return nil, err
	}

	sends, err := meter.Int64Counter("beacon.send.count",
		metric.WithDescription("Number of beacons dispatched"),
	)
	if err != nil {
		return nil, err
	}

	sendErrors, err := meter.Int64Counter("beacon.send.errors",
		metric.WithDescription("Number of beacons the sender reported as failed"),
	)
	if err != nil {
		return nil, err
	}

	sendLatency, err := meter.Float64Histogram("beacon.send.latency_ms",
		metric.WithDescription("Beacon dispatch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		resolvedURLs: resolvedURLs,
		sends:        sends,
		sendErrors:   sendErrors,
		sendLatency:  sendLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordResolve records resolved URLs.
func (m *otelMetrics) RecordResolve(ctx context.Context, urlCount int) {
	m.resolvedURLs.Add(ctx, int64(urlCount))
}

// RecordSend records a dispatch.
func (m *otelMetrics) RecordSend(ctx context.Context, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	m.sends.Add(ctx, 1, attrs)
	m.sendLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err != nil {
		m.sendErrors.Add(ctx, 1)
	}
}
