package beacon

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/beacon/pkg/beacon/config"
	"github.com/randalmurphal/beacon/pkg/beacon/journal"
	"github.com/randalmurphal/beacon/pkg/beacon/macro"
	"github.com/randalmurphal/beacon/pkg/beacon/observability"
	"github.com/randalmurphal/beacon/pkg/beacon/sender"
)

// Sender dispatches one resolved URL.
type Sender interface {
	Send(ctx context.Context, url string) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, url string) error

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, url string) error {
	return f(ctx, url)
}

// Failure is a beacon the sender did not accept.
type Failure struct {
	URL string
	Err error
}

// Report describes one Track call.
type Report struct {
	// BatchID identifies the call in logs, spans and the journal.
	BatchID string

	// URLs are the resolved URLs, in template order.
	URLs []string

	// Sent and Failed count dispatch outcomes. Both are zero without a Sender.
	Sent   int
	Failed int

	// Failures lists failed beacons in URL order.
	Failures []Failure
}

// Tracker resolves tracking templates and hands the URLs to a Sender.
// It is safe for concurrent use.
type Tracker struct {
	sender          Sender
	resolver        *macro.Resolver
	logger          *slog.Logger
	metrics         observability.MetricsRecorder
	spans           observability.SpanManager
	journal         journal.Store
	maxInFlight     int
	defaults        macro.Variables
	customErrorCode bool
}

// NewTracker creates a Tracker. A nil sender makes Track resolve only.
func NewTracker(s Sender, opts ...Option) *Tracker {
	t := &Tracker{
		sender:      s,
		resolver:    macro.NewResolver(),
		metrics:     observability.NoopMetrics{},
		spans:       observability.NoopSpanManager{},
		maxInFlight: config.DefaultMaxInFlight,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FromSettings builds a Tracker with an HTTP sender and, when a journal path
// is set, a SQLite journal. Extra options are applied last.
func FromSettings(s config.Settings, opts ...Option) (*Tracker, error) {
	httpSender := sender.NewHTTPSender(
		sender.WithTimeout(s.Sender.Timeout),
		sender.WithUserAgent(s.Sender.UserAgent),
	)

	base := []Option{
		WithMaxInFlight(s.Sender.MaxInFlight),
		WithDefaults(s.Macros.Variables),
		WithCustomErrorCode(s.Macros.CustomErrorCode),
	}
	if s.Journal.Path != "" {
		store, err := journal.NewSQLiteStore(s.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		base = append(base, WithJournal(store))
	}

	return NewTracker(httpSender, append(base, opts...)...), nil
}

// Resolve returns the URLs for templates without sending anything.
func (t *Tracker) Resolve(templates []macro.Template, vars macro.Variables, opts macro.ResolveOptions) []string {
	if t.customErrorCode {
		opts.IsCustomCode = true
	}
	return t.resolver.Resolve(templates, t.withDefaults(vars), opts)
}

// Track resolves templates and sends every URL.
//
// Sends run concurrently up to the in-flight limit and Track waits for all
// of them. A failed send never stops the others. When ctx is cancelled,
// beacons not yet started are reported and journaled as failed with the
// context error.
func (t *Tracker) Track(ctx context.Context, templates []macro.Template, vars macro.Variables, opts macro.ResolveOptions) Report {
	urls := t.Resolve(templates, vars, opts)
	report := Report{BatchID: uuid.NewString(), URLs: urls}
	t.metrics.RecordResolve(ctx, len(urls))

	if t.sender == nil || len(urls) == 0 {
		return report
	}

	logger := observability.EnrichLogger(t.logger, report.BatchID)
	observability.LogTrackStart(logger, len(urls))
	elapsed := observability.TimedOperation()

	ctx, span := t.spans.StartTrackSpan(ctx, report.BatchID, len(urls))

	results := make([]error, len(urls))
	sem := make(chan struct{}, t.maxInFlight)
	var wg sync.WaitGroup

dispatch:
	for i, u := range urls {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			for j := i; j < len(urls); j++ {
				results[j] = ctx.Err()
				t.record(logger, report.BatchID, urls[j], results[j])
			}
			break dispatch
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = t.send(ctx, logger, report.BatchID, u)
		}()
	}
	wg.Wait()

	for i, err := range results {
		if err != nil {
			report.Failed++
			report.Failures = append(report.Failures, Failure{URL: urls[i], Err: err})
			continue
		}
		report.Sent++
	}

	var batchErr error
	if report.Failed > 0 {
		batchErr = fmt.Errorf("%d of %d beacons failed", report.Failed, len(urls))
	}
	t.spans.EndSpanWithError(span, batchErr)
	observability.LogTrackComplete(logger, report.Sent, report.Failed, elapsed())

	return report
}

// send dispatches one URL and records the outcome.
func (t *Tracker) send(ctx context.Context, logger *slog.Logger, batchID, url string) error {
	ctx, span := t.spans.StartSendSpan(ctx, url)
	start := time.Now()

	err := t.sender.Send(ctx, url)

	duration := time.Since(start)
	t.metrics.RecordSend(ctx, duration, err)
	t.spans.EndSpanWithError(span, err)

	if err != nil {
		observability.LogBeaconError(logger, url, err)
	} else {
		observability.LogBeaconSent(logger, url, float64(duration.Microseconds())/1000)
	}

	t.record(logger, batchID, url, err)
	return err
}

// record writes the outcome of one beacon to the journal, if any.
func (t *Tracker) record(logger *slog.Logger, batchID, url string, sendErr error) {
	if t.journal == nil {
		return
	}
	if err := t.journal.Record(journal.NewEntry(batchID, url, sendErr)); err != nil {
		observability.LogJournalError(logger, url, err)
	}
}

// Journal returns the configured journal store, or nil.
func (t *Tracker) Journal() journal.Store {
	return t.journal
}

// Close releases the journal, if any.
func (t *Tracker) Close() error {
	if t.journal == nil {
		return nil
	}
	return t.journal.Close()
}

// withDefaults layers vars over the configured defaults without touching either.
func (t *Tracker) withDefaults(vars macro.Variables) macro.Variables {
	if len(t.defaults) == 0 {
		return vars
	}
	merged := make(macro.Variables, len(t.defaults)+len(vars))
	maps.Copy(merged, t.defaults)
	maps.Copy(merged, vars)
	return merged
}
