// Package observability provides logging, metrics and tracing for beacon
// dispatch.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// NewLogger builds a slog.Logger writing text or JSON to w.
// Unknown levels fall back to info, unknown formats to text. A nil w writes
// to stderr.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EnrichLogger adds the batch id to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, "b-123")
//	enriched.Info("firing") // includes batch_id
func EnrichLogger(logger *slog.Logger, batchID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("batch_id", batchID))
}

// LogTrackStart logs the start of a tracking batch. Pass a logger from
// EnrichLogger so the record carries the batch id.
func LogTrackStart(logger *slog.Logger, urlCount int) {
	if logger == nil {
		return
	}
	logger.Debug("tracking batch starting",
		slog.Int("urls", urlCount),
	)
}

// LogTrackComplete logs the end of a tracking batch.
func LogTrackComplete(logger *slog.Logger, sent, failed int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("tracking batch completed",
		slog.Int("sent", sent),
		slog.Int("failed", failed),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogBeaconSent logs a beacon the sender accepted.
func LogBeaconSent(logger *slog.Logger, url string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("beacon sent",
		slog.String("url", url),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogBeaconError logs a failed beacon. Failures never abort a batch.
func LogBeaconError(logger *slog.Logger, url string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("beacon failed",
		slog.String("url", url),
		slog.String("error", err.Error()),
	)
}

// LogJournalError logs a journal write failure (non-fatal).
func LogJournalError(logger *slog.Logger, url string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("journal write failed",
		slog.String("url", url),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
