package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/beacon/pkg/beacon"
)

func newResolveCmd(root *rootOptions) *cobra.Command {
	var in inputFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve [URL...]",
		Short: "Print resolved tracking URLs without sending them",
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

			tracker := beacon.NewTracker(nil,
				beacon.WithLogger(logger),
				beacon.WithDefaults(settings.Macros.Variables),
				beacon.WithCustomErrorCode(settings.Macros.CustomErrorCode),
			)
			urls := tracker.Resolve(templates, vars, in.options())

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(urls)
			}
			for _, u := range urls {
				fmt.Fprintln(out, u)
			}
			return nil
		},
	}

	in.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print a JSON array instead of one URL per line")
	return cmd
}
