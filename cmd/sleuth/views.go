package main

import (
	"time"

	"sleuth/internal/markup"
	"sleuth/internal/report"
	"sleuth/internal/store"
)

type entryView struct {
	Position     int             `json:"position"`
	Query        string          `json:"query"`
	Succeeded    bool            `json:"succeeded"`
	ErrorKind    string          `json:"error_kind,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Matched      bool            `json:"matched"`
	MatchedName  string          `json:"matched_name,omitempty"`
	Confidence   float64         `json:"confidence"`
	BusinessType string          `json:"business_type,omitempty"`
	Fields       markup.FieldMap `json:"fields"`
	ElapsedSec   float64         `json:"elapsed_seconds"`
}

type runView struct {
	ID         string      `json:"id"`
	StartedAt  string      `json:"started_at"`
	FinishedAt string      `json:"finished_at,omitempty"`
	Total      int         `json:"total"`
	Processed  int         `json:"processed"`
	Matched    int         `json:"matched"`
	Failed     int         `json:"failed"`
	Entries    []entryView `json:"entries,omitempty"`
}

func buildEntryViews(entries []report.Entry) []entryView {
	views := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, entryView{
			Position:     entry.Position,
			Query:        entry.Query,
			Succeeded:    entry.Succeeded,
			ErrorKind:    entry.ErrorKind,
			ErrorMessage: entry.ErrorMessage,
			Matched:      entry.Matched,
			MatchedName:  entry.MatchedName,
			Confidence:   entry.Confidence,
			BusinessType: entry.BusinessType(),
			Fields:       entry.Fields,
			ElapsedSec:   entry.Elapsed.Seconds(),
		})
	}
	return views
}

func buildRunView(run store.Run, entries []report.Entry) runView {
	view := runView{
		ID:        run.ID,
		StartedAt: run.StartedAt.Format(time.RFC3339),
		Total:     run.Total,
		Processed: run.Processed,
		Matched:   run.Matched,
		Failed:    run.Failed,
		Entries:   buildEntryViews(entries),
	}
	if run.Finished() {
		view.FinishedAt = run.FinishedAt.Format(time.RFC3339)
	}
	return view
}

func buildRunListViews(runs []store.Run) []runView {
	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		views = append(views, buildRunView(run, nil))
	}
	return views
}
