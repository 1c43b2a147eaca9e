package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sleuth/internal/report"
	"sleuth/internal/store"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var details bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "report [run-id]",
		Short: "Render a journaled run",
		Long: `Render a journaled run as a summary table, the full per-lookup details
report (--details), or JSON (--json). Without a run id the latest run is
rendered; a unique run id prefix is accepted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var idOrPrefix string
			if len(args) == 1 {
				idOrPrefix = args[0]
			}
			return ctx.withJournal(func(journal *store.Journal) error {
				run, entries, err := loadRunEntries(cmd.Context(), journal, idOrPrefix)
				if err != nil {
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, buildRunView(run, entries))
				}

				out := cmd.OutOrStdout()
				if details {
					header := report.Header{
						Title:       "Business Lookup Details",
						GeneratedAt: time.Now(),
						Source:      fmt.Sprintf("run %s", run.ID),
						Total:       len(entries),
					}
					return report.WriteDetails(out, header, entries)
				}

				fmt.Fprint(out, report.SummaryTable(entries, report.Interactive(out)))
				fmt.Fprintln(out, runSummaryLine(run))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&details, "details", false, "Render the full per-lookup details report")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run as JSON")
	return cmd
}

// loadRunEntries resolves a run by id, unique prefix, or latest, and loads
// its outcomes as report entries.
func loadRunEntries(ctx context.Context, journal *store.Journal, idOrPrefix string) (store.Run, []report.Entry, error) {
	run, err := resolveRun(ctx, journal, idOrPrefix)
	if err != nil {
		return store.Run{}, nil, err
	}
	records, err := journal.Outcomes(ctx, run.ID)
	if err != nil {
		return store.Run{}, nil, fmt.Errorf("load outcomes: %w", err)
	}
	return run, report.FromRecords(records), nil
}

func resolveRun(ctx context.Context, journal *store.Journal, idOrPrefix string) (store.Run, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		run, err := journal.LatestRun(ctx)
		if errors.Is(err, store.ErrRunNotFound) {
			return store.Run{}, errors.New("no runs recorded yet")
		}
		return run, err
	}

	run, err := journal.FindRun(ctx, idOrPrefix)
	switch {
	case errors.Is(err, store.ErrRunNotFound):
		return store.Run{}, fmt.Errorf("run %q not found", idOrPrefix)
	case errors.Is(err, store.ErrRunAmbiguous):
		return store.Run{}, fmt.Errorf("run prefix %q matches more than one run; use a longer prefix", idOrPrefix)
	}
	return run, err
}

func runSummaryLine(run store.Run) string {
	status := "running"
	if run.Finished() {
		status = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
	}
	return fmt.Sprintf("Run %s: %d lookups, %d matched, %d failed (%s)",
		report.ShortRunID(run.ID), run.Processed, run.Matched, run.Failed, status)
}
