/*
Package beacon resolves tracking URL templates and fires them as beacons.

# Overview

beacon ties together the macro resolver, an HTTP beacon sender, an optional
journal of dispatched URLs, and OpenTelemetry instrumentation. The macro
package does the actual template work and can be used on its own.

# Basic Usage

	tracker := beacon.NewTracker(sender.NewHTTPSender(),
	    beacon.WithLogger(slog.Default()),
	)

	report := tracker.Track(ctx,
	    []macro.Template{macro.Named("imp-1", "https://t.example/imp?cb=[CACHEBUSTING]")},
	    macro.Variables{"ASSETURI": assetURL},
	    macro.ResolveOptions{},
	)
	fmt.Println(report.Sent, report.Failed)

# Failure Handling

A failing beacon never aborts the batch. Send errors are logged, counted,
recorded on the span and in the journal, and listed in Report.Failures.

# Resolve Only

A Tracker without a Sender only resolves, which is useful for previews:

	urls := beacon.NewTracker(nil).Track(ctx, templates, vars, macro.ResolveOptions{}).URLs

# Observability

	tracker := beacon.NewTracker(s,
	    beacon.WithMetrics(observability.NewMetricsRecorder()),
	    beacon.WithSpans(observability.NewSpanManager()),
	)
*/
package beacon
