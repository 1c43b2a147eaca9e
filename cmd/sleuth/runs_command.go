package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sleuth/internal/report"
	"sleuth/internal/store"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List journaled runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(journal *store.Journal) error {
				runs, err := journal.ListRuns(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("list runs: %w", err)
				}

				if jsonOutput {
					return writeJSON(cmd, buildRunListViews(runs))
				}

				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}

				fmt.Fprint(out, report.RunsTable(runs, report.Interactive(out)))
				stats, err := journal.Stats(cmd.Context())
				if err != nil {
					return fmt.Errorf("journal stats: %w", err)
				}
				fmt.Fprintf(out, "%d runs, %d lookups journaled (%d matched, %d failed)\n",
					stats.Runs, stats.Outcomes, stats.Matched, stats.Failed)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit runs as JSON")
	return cmd
}
