package beacon

import (
	"log/slog"

	"github.com/randalmurphal/beacon/pkg/beacon/journal"
	"github.com/randalmurphal/beacon/pkg/beacon/macro"
	"github.com/randalmurphal/beacon/pkg/beacon/observability"
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithResolver sets the macro resolver. Default: macro.NewResolver()
func WithResolver(r *macro.Resolver) Option {
	return func(t *Tracker) {
		if r != nil {
			t.resolver = r
		}
	}
}

// WithLogger sets the logger. Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Default: observability.NoopMetrics{}
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(t *Tracker) {
		if m != nil {
			t.metrics = m
		}
	}
}

// WithSpans sets the span manager. Default: observability.NoopSpanManager{}
func WithSpans(sm observability.SpanManager) Option {
	return func(t *Tracker) {
		if sm != nil {
			t.spans = sm
		}
	}
}

// WithJournal records every dispatched beacon in store.
// The tracker closes the store in Close.
func WithJournal(store journal.Store) Option {
	return func(t *Tracker) {
		t.journal = store
	}
}

// WithMaxInFlight bounds concurrent sends per batch. Values below 1 mean 1.
func WithMaxInFlight(n int) Option {
	return func(t *Tracker) {
		t.maxInFlight = max(n, 1)
	}
}

// WithDefaults sets variables merged under every call's variables.
func WithDefaults(vars macro.Variables) Option {
	return func(t *Tracker) {
		t.defaults = vars
	}
}

// WithCustomErrorCode forces ResolveOptions.IsCustomCode on every call.
func WithCustomErrorCode(enabled bool) Option {
	return func(t *Tracker) {
		t.customErrorCode = enabled
	}
}
