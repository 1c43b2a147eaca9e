package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sleuth/internal/config"
	"sleuth/internal/report"
	"sleuth/internal/store"
	"sleuth/internal/textutil"
)

func newFilterCommand(ctx *commandContext) *cobra.Command {
	var businessType string
	var unmatched bool
	var jsonOutput bool
	var save bool

	cmd := &cobra.Command{
		Use:   "filter [run-id]",
		Short: "Filter a journaled run's lookups",
		Long: `Filter a journaled run down to lookups with a given extracted business
type, or to lookups that found no accepted match. Without a run id the
latest run is filtered.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			businessType = strings.TrimSpace(businessType)
			if (businessType != "") == unmatched {
				return errors.New("specify exactly one of --business-type or --unmatched")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var idOrPrefix string
			if len(args) == 1 {
				idOrPrefix = args[0]
			}
			return ctx.withJournal(func(journal *store.Journal) error {
				run, entries, err := loadRunEntries(cmd.Context(), journal, idOrPrefix)
				if err != nil {
					return err
				}
				if unmatched {
					return renderUnmatched(cmd, cfg, run, entries, jsonOutput, save)
				}
				return renderBusinessType(cmd, cfg, run, entries, businessType, jsonOutput, save)
			})
		},
	}

	cmd.Flags().StringVar(&businessType, "business-type", "", "Keep lookups whose extracted business type equals this value")
	cmd.Flags().BoolVar(&unmatched, "unmatched", false, "Keep lookups that found no accepted match")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the filtered lookups as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "Also write the filtered report to the output directory (skipped when nothing matches)")
	return cmd
}

func renderBusinessType(cmd *cobra.Command, cfg *config.Config, run store.Run, entries []report.Entry, businessType string, jsonOutput, save bool) error {
	filtered := report.ByBusinessType(entries, businessType)
	out := cmd.OutOrStdout()
	if len(filtered) == 0 {
		if jsonOutput {
			return writeJSON(cmd, buildEntryViews(filtered))
		}
		fmt.Fprintf(out, "No lookups with business type %q\n", businessType)
		order, counts := report.BusinessTypes(entries)
		if len(order) > 0 {
			fmt.Fprintln(out, "Business types in this run:")
			for _, name := range order {
				fmt.Fprintf(out, "  %s (%d)\n", name, counts[name])
			}
		}
		return nil
	}

	header := report.Header{
		Title:       "Filtered Business Lookup Report - " + businessType,
		GeneratedAt: time.Now(),
		Source:      fmt.Sprintf("run %s", run.ID),
		Total:       len(filtered),
	}
	if save {
		stem := "business_type_" + textutil.SanitizeToken(businessType)
		path, err := saveFilteredReport(cfg, stem, header, filtered, report.WriteBusinessTypeSummary)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Filtered report: %s\n", path)
	}
	if jsonOutput {
		return writeJSON(cmd, buildEntryViews(filtered))
	}
	return report.WriteBusinessTypeSummary(out, header, filtered)
}

func renderUnmatched(cmd *cobra.Command, cfg *config.Config, run store.Run, entries []report.Entry, jsonOutput, save bool) error {
	filtered := report.Unmatched(entries)
	out := cmd.OutOrStdout()
	if len(filtered) == 0 {
		if jsonOutput {
			return writeJSON(cmd, buildEntryViews(filtered))
		}
		fmt.Fprintln(out, "Every lookup in this run matched")
		return nil
	}

	header := report.Header{
		Title:       "Unmatched Business Lookups",
		GeneratedAt: time.Now(),
		Source:      fmt.Sprintf("run %s", run.ID),
		Total:       len(filtered),
	}
	if save {
		path, err := saveFilteredReport(cfg, "unmatched_businesses", header, filtered, report.WriteUnmatchedSummary)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Filtered report: %s\n", path)
	}
	if jsonOutput {
		return writeJSON(cmd, buildEntryViews(filtered))
	}
	return report.WriteUnmatchedSummary(out, header, filtered)
}

// saveFilteredReport writes a filtered report next to the batch details
// reports, stamped the same way.
func saveFilteredReport(cfg *config.Config, stem string, header report.Header, entries []report.Entry, write func(io.Writer, report.Header, []report.Entry) error) (string, error) {
	stamp := time.Now().Format("20060102_150405")
	path := filepath.Join(cfg.Paths.OutputDir, fmt.Sprintf("%s_%s.txt", stem, stamp))

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	err = write(file, header, entries)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", err
	}
	return path, nil
}
