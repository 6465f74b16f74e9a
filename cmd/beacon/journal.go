package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/beacon/pkg/beacon/journal"
)

func newJournalCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the beacon journal",
	}
	cmd.AddCommand(newJournalListCmd(root))
	return cmd
}

func newJournalListCmd(root *rootOptions) *cobra.Command {
	var (
		path    string
		batchID string
		limit   int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List journal entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, _, err := root.load(cmd)
			if err != nil {
				return err
			}
			if path == "" {
				path = settings.Journal.Path
			}
			if path == "" {
				return errors.New("no journal configured: use --journal or journal.path")
			}

			store, err := journal.NewSQLiteStore(path)
			if err != nil {
				return err
			}
			defer store.Close()

			var entries []journal.Entry
			if batchID != "" {
				entries, err = store.List(batchID)
			} else {
				entries, err = store.Recent(limit)
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SENT_AT\tBATCH\tSTATUS\tURL")
			for _, e := range entries {
				status := "ok"
				if e.Failed() {
					status = "failed: " + e.Error
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.SentAt.Format(time.RFC3339), e.BatchID, status, e.URL)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&path, "journal", "", "SQLite journal path (overrides journal.path)")
	cmd.Flags().StringVar(&batchID, "batch", "", "Only show entries of this batch")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries (0 for all)")
	return cmd
}
