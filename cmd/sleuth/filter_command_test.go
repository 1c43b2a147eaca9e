package main

import (
	"context"
	"path/filepath"
	"testing"

	"sleuth/internal/config"
	"sleuth/internal/markup"
	"sleuth/internal/store"
)

// seedJournalRun journals a finished two-lookup run: one charity match and one
// lookup that found nothing.
func seedJournalRun(t *testing.T, cfg *config.Config, runID string) {
	t.Helper()
	journal, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer journal.Close()

	ctx := context.Background()
	if err := journal.BeginRun(ctx, runID, 2); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}

	var fields markup.FieldMap
	fields.Set(markup.FieldCompanyName, "HELPING HANDS SOCIETY")
	fields.Set(markup.FieldStatus, "Active")
	fields.Set(markup.FieldBusinessType, "Charity & Co")
	records := []store.OutcomeRecord{
		{RunID: runID, Position: 0, Query: "Helping Hands Society", Succeeded: true, Matched: true, MatchedName: "HELPING HANDS SOCIETY", Confidence: 0.95, Fields: fields},
		{RunID: runID, Position: 1, Query: "Solo Ventures", Succeeded: true},
	}
	for _, record := range records {
		if err := journal.RecordOutcome(ctx, record); err != nil {
			t.Fatalf("RecordOutcome failed: %v", err)
		}
	}
	if err := journal.FinishRun(ctx, runID, 2, 1, 0); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
}

func TestFilterSaveWritesBusinessTypeReport(t *testing.T) {
	env := setupCLITestEnv(t)
	seedJournalRun(t, env.cfg, "run-aaaa-1111")

	out, _, err := runCLI(t, []string{"filter", "--business-type", "Charity & Co", "--save"}, env.configPath)
	if err != nil {
		t.Fatalf("filter --save: %v", err)
	}
	requireContains(t, out, "Filtered report: ")
	requireContains(t, out, "SUMMARY OF FILTERED BUSINESSES")

	matches, err := filepath.Glob(filepath.Join(env.cfg.Paths.OutputDir, "business_type_charity___co_*.txt"))
	if err != nil {
		t.Fatalf("glob saved reports: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one saved report, got %v", matches)
	}
	saved := readFile(t, matches[0])
	requireContains(t, saved, "FILTERED BUSINESS LOOKUP REPORT - CHARITY & CO")
	requireContains(t, saved, "HELPING HANDS SOCIETY")
	requireNotContains(t, saved, "Solo Ventures")
}

func TestFilterUnmatchedSaveWritesReport(t *testing.T) {
	env := setupCLITestEnv(t)
	seedJournalRun(t, env.cfg, "run-bbbb-2222")

	out, _, err := runCLI(t, []string{"filter", "--unmatched", "--save"}, env.configPath)
	if err != nil {
		t.Fatalf("filter --unmatched --save: %v", err)
	}
	requireContains(t, out, "Filtered report: ")

	matches, err := filepath.Glob(filepath.Join(env.cfg.Paths.OutputDir, "unmatched_businesses_*.txt"))
	if err != nil {
		t.Fatalf("glob saved reports: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one saved report, got %v", matches)
	}
	saved := readFile(t, matches[0])
	requireContains(t, saved, "SEARCHED FOR: Solo Ventures")
	requireNotContains(t, saved, "Helping Hands Society")
}

func TestFilterSaveSkipsEmptyFilter(t *testing.T) {
	env := setupCLITestEnv(t)
	seedJournalRun(t, env.cfg, "run-cccc-3333")

	out, _, err := runCLI(t, []string{"filter", "--business-type", "Droid Works", "--save"}, env.configPath)
	if err != nil {
		t.Fatalf("filter --save: %v", err)
	}
	requireContains(t, out, `No lookups with business type "Droid Works"`)
	requireNotContains(t, out, "Filtered report:")

	matches, err := filepath.Glob(filepath.Join(env.cfg.Paths.OutputDir, "business_type_droid_works_*.txt"))
	if err != nil {
		t.Fatalf("glob saved reports: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no saved report, got %v", matches)
	}
}
