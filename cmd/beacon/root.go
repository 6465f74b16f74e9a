package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/beacon/pkg/beacon/config"
	"github.com/randalmurphal/beacon/pkg/beacon/observability"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "beacon",
		Short: "Resolve tracking URL templates and fire them as beacons",
		Long: `beacon fills VAST-style tracking macros such as [ERRORCODE], [CACHEBUSTING]
and %%TIMESTAMP%% into URL templates, then optionally fires each URL as an
HTTP beacon.

Examples:
  # Preview resolved URLs
  beacon resolve --var ERRORCODE=303 'https://t.example/err?c=[ERRORCODE]&cb=[CACHEBUSTING]'

  # Fire every template in a file and keep a journal
  beacon fire --file impressions.yaml --journal beacons.db

  # Inspect the journal
  beacon journal list --journal beacons.db --limit 10`,
		Version:       Version + " (" + Commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML or JSON settings file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newResolveCmd(opts),
		newFireCmd(opts),
		newJournalCmd(opts),
	)
	return cmd
}

// load reads the settings file and builds the logger for cmd.
func (o *rootOptions) load(cmd *cobra.Command) (config.Settings, *slog.Logger, error) {
	settings, err := config.Load(o.configPath)
	if err != nil {
		return config.Settings{}, nil, err
	}
	level := settings.Log.Level
	if o.verbose {
		level = "debug"
	}
	logger := observability.NewLogger(level, settings.Log.Format, cmd.ErrOrStderr())
	return settings, logger, nil
}
