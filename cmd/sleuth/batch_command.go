package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sleuth/internal/artifacts"
	"sleuth/internal/batch"
	"sleuth/internal/browser"
	"sleuth/internal/config"
	"sleuth/internal/geojson"
	"sleuth/internal/logging"
	"sleuth/internal/logs"
	"sleuth/internal/report"
	"sleuth/internal/services"
	"sleuth/internal/store"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var fromGeoJSON bool
	var capturesDir string

	cmd := &cobra.Command{
		Use:   "batch <names-file>",
		Short: "Look up a batch of names against the registry portal",
		Long: `Look up every name in a line-per-name file (or stdin with "-") against the
registry portal, then write the details report and journal the run.

With --geojson the input is a parcel FeatureCollection: owner names are
collected from the features, corporate registrants are skipped, and the
remaining private owners are looked up.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			queries, source, err := loadQueries(cmd, args[0], fromGeoJSON)
			if err != nil {
				return err
			}
			if len(queries) == 0 {
				return services.Wrap(services.ErrValidation, "cli", "batch", "no names to look up", nil)
			}
			driver, err := buildDriver(capturesDir)
			if err != nil {
				return err
			}
			defer driver.Close()
			return runBatch(cmd, cfg, driver, queries, source, ctx.verbose())
		},
	}

	cmd.Flags().BoolVar(&fromGeoJSON, "geojson", false, "Treat the input as a parcel GeoJSON FeatureCollection")
	cmd.Flags().StringVar(&capturesDir, "captures", "", "Run against recorded result documents in this directory")
	return cmd
}

func runBatch(cmd *cobra.Command, cfg *config.Config, driver browser.Driver, queries []string, source string, verbose bool) error {
	runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One batch run per journal: concurrent invocations would interleave
	// journal writes and fight over the portal.
	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "sleuth.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return errors.New("another sleuth batch run is already in progress")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	runID := uuid.NewString()
	runLogPath := filepath.Join(cfg.Paths.LogDir, logs.RunLogName(report.ShortRunID(runID)))
	logger, runLogCloser, err := buildRunLogger(cfg, verbose, runID, runLogPath)
	if err != nil {
		return err
	}
	defer runLogCloser.Close()

	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: logs.RunLogPattern, Exclude: []string{runLogPath}},
	)

	var opts batch.Options
	var journal *store.Journal
	if cfg.Storage.JournalEnabled {
		journal, err = store.Open(cfg)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer journal.Close()
		opts.Journal = journal
	}
	sink, err := artifacts.FromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("init capture sink: %w", err)
	}
	opts.Sink = sink

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Looking up %d names from %s (run %s)\n", len(queries), source, report.ShortRunID(runID))

	orchestrator := batch.New(cfg, driver, logger, opts)
	started := time.Now()
	outcomes, runErr := orchestrator.Run(services.WithRunID(runCtx, runID), queries)
	if len(outcomes) == 0 {
		return runErr
	}

	entries := report.FromOutcomes(outcomes)
	reportPath, reportErr := writeDetailsReport(cfg, entries, source)

	fmt.Fprint(out, report.SummaryTable(entries, report.Interactive(out)))
	matched, failed := tallyEntries(entries)
	fmt.Fprintf(out, "Processed %d lookups in %s: %d matched, %d failed\n",
		len(entries), time.Since(started).Round(time.Second), matched, failed)
	if reportErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warn: details report not written: %v\n", reportErr)
	} else {
		fmt.Fprintf(out, "Details report: %s\n", reportPath)
	}
	if journal != nil {
		fmt.Fprintf(out, "Journaled as run %s\n", report.ShortRunID(runID))
	}
	return runErr
}

// buildRunLogger assembles the batch logger: the console/main-log base teed
// with the per-run JSON log. Handlers are built debug-capable and the level
// override sets the effective floor, so --verbose can lower it to debug
// without rebuilding the handler chain.
func buildRunLogger(cfg *config.Config, verbose bool, runID, runLogPath string) (*slog.Logger, io.Closer, error) {
	debugCfg := *cfg
	debugCfg.Logging.Level = "debug"
	base, err := logging.NewFromConfig(&debugCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	level := "debug"
	if !verbose {
		level = cfg.Logging.Level
	}
	runHandler, closer, err := logging.NewRunLogHandler(runLogPath, level)
	if err != nil {
		return nil, nil, fmt.Errorf("open run log: %w", err)
	}

	console := logging.WithLevelOverride(base, logging.ParseLevel(level))
	return logging.TeeLogger(console, logging.NewRunIDHandler(runHandler, runID)), closer, nil
}

// loadQueries reads lookup names from a file or stdin ("-"). GeoJSON input
// narrows the owner list to private registrants before lookup.
func loadQueries(cmd *cobra.Command, arg string, fromGeoJSON bool) ([]string, string, error) {
	if arg == "-" {
		names, err := readInput(cmd.InOrStdin(), fromGeoJSON)
		if err != nil {
			return nil, "", err
		}
		return narrowOwners(cmd, names, fromGeoJSON), "stdin", nil
	}

	path, err := config.ExpandPath(arg)
	if err != nil {
		return nil, "", err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open names file: %w", err)
	}
	defer file.Close()

	names, err := readInput(file, fromGeoJSON)
	if err != nil {
		return nil, "", err
	}
	return narrowOwners(cmd, names, fromGeoJSON), path, nil
}

func readInput(r io.Reader, fromGeoJSON bool) ([]string, error) {
	if fromGeoJSON {
		return geojson.ParseOwners(r)
	}
	return readNameLines(r)
}

func narrowOwners(cmd *cobra.Command, names []string, fromGeoJSON bool) []string {
	if !fromGeoJSON {
		return names
	}
	private, corporate := geojson.SplitPrivate(names)
	if len(corporate) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Skipping %d corporate registrants\n", len(corporate))
	}
	return private
}

// readNameLines collects trimmed, deduplicated names, one per line.
func readNameLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var names []string
	seen := make(map[string]struct{})
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read names: %w", err)
	}
	return names, nil
}

func buildDriver(capturesDir string) (browser.Driver, error) {
	dir := strings.TrimSpace(capturesDir)
	if dir == "" {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "batch",
			"no browser driver configured; pass --captures to replay recorded result documents", nil)
	}
	expanded, err := config.ExpandPath(dir)
	if err != nil {
		return nil, err
	}
	driver, err := browser.NewReplayDriver(expanded)
	if err != nil {
		return nil, fmt.Errorf("open captures: %w", err)
	}
	return driver, nil
}

func writeDetailsReport(cfg *config.Config, entries []report.Entry, source string) (string, error) {
	stamp := time.Now().Format("20060102_150405")
	path := filepath.Join(cfg.Paths.OutputDir, fmt.Sprintf("business_lookup_details_%s.txt", stamp))

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	header := report.Header{
		Title:       "Business Lookup Details",
		GeneratedAt: time.Now(),
		Source:      source,
		Total:       len(entries),
	}
	err = report.WriteDetails(file, header, entries)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

func tallyEntries(entries []report.Entry) (matched, failed int) {
	for _, entry := range entries {
		if entry.Matched {
			matched++
		}
		if !entry.Succeeded {
			failed++
		}
	}
	return matched, failed
}
