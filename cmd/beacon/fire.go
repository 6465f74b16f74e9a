package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/beacon/pkg/beacon"
	"github.com/randalmurphal/beacon/pkg/beacon/observability"
)

func newFireCmd(root *rootOptions) *cobra.Command {
	var in inputFlags
	var journalPath string

	cmd := &cobra.Command{
		Use:   "fire [URL...]",
		Short: "Resolve tracking URLs and send each one as a beacon",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, err := root.load(cmd)
			if err != nil {
				return err
			}
			templates, err := in.templates(args)
			if err != nil {
				return err
			}
			vars, err := in.variables()
			if err != nil {
				return err
			}
			if journalPath != "" {
				settings.Journal.Path = journalPath
			}

			tracker, err := beacon.FromSettings(settings,
				beacon.WithLogger(logger),
				beacon.WithMetrics(observability.NewMetricsRecorder()),
				beacon.WithSpans(observability.NewSpanManager()),
			)
			if err != nil {
				return err
			}
			defer tracker.Close()

			report := tracker.Track(cmd.Context(), templates, vars, in.options())

			fmt.Fprintf(cmd.OutOrStdout(), "batch %s: sent %d, failed %d\n", report.BatchID, report.Sent, report.Failed)
			for _, f := range report.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %v\n", f.URL, f.Err)
			}
			if report.Failed > 0 {
				return fmt.Errorf("%d of %d beacons failed", report.Failed, len(report.URLs))
			}
			return nil
		},
	}

	in.bind(cmd)
	cmd.Flags().StringVar(&journalPath, "journal", "", "SQLite journal path (overrides journal.path)")
	return cmd
}
