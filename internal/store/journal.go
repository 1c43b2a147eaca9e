package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"sleuth/internal/markup"
)

// ErrRunNotFound indicates the requested run is not journaled.
var ErrRunNotFound = errors.New("run not found")

// ErrRunAmbiguous indicates a run id prefix matched more than one run.
var ErrRunAmbiguous = errors.New("run id prefix is ambiguous")

// Run is one journaled batch run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Processed  int
	Matched    int
	Failed     int
}

// Finished reports whether the run has been closed out.
func (r Run) Finished() bool { return !r.FinishedAt.IsZero() }

// OutcomeRecord is one journaled lookup outcome.
type OutcomeRecord struct {
	RunID         string
	Position      int
	Query         string
	Succeeded     bool
	ErrorKind     string
	ErrorMessage  string
	Matched       bool
	MatchedName   string
	Confidence    float64
	BusinessType  string
	Fields        markup.FieldMap
	DocumentBytes int
	Elapsed       time.Duration
	RecordedAt    time.Time
}

// Stats summarizes journal contents.
type Stats struct {
	Runs     int
	Outcomes int
	Matched  int
	Failed   int
}

const runColumns = "id, started_at, finished_at, total, processed, matched, failed"

const outcomeColumns = "run_id, position, query, succeeded, error_kind, error_message, matched, matched_name, confidence, business_type, fields_json, document_bytes, elapsed_ms, recorded_at"

// BeginRun journals a new run in flight.
func (j *Journal) BeginRun(ctx context.Context, runID string, total int) error {
	started := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO runs (id, started_at, total, processed, matched, failed) VALUES (?, ?, ?, 0, 0, 0)",
		runID, started, total,
	)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// RecordOutcome journals one lookup outcome, replacing any previous record at
// the same position.
func (j *Journal) RecordOutcome(ctx context.Context, record OutcomeRecord) error {
	if record.BusinessType == "" {
		record.BusinessType = record.Fields.Value(markup.FieldBusinessType)
	}
	recordedAt := record.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	var fieldsJSON string
	if record.Fields.Len() > 0 {
		data, err := json.Marshal(record.Fields)
		if err != nil {
			return fmt.Errorf("encode outcome fields: %w", err)
		}
		fieldsJSON = string(data)
	}

	_, err := j.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO outcomes ("+outcomeColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		record.RunID,
		record.Position,
		record.Query,
		boolToInt(record.Succeeded),
		nullableString(record.ErrorKind),
		nullableString(record.ErrorMessage),
		boolToInt(record.Matched),
		nullableString(record.MatchedName),
		record.Confidence,
		nullableString(record.BusinessType),
		nullableString(fieldsJSON),
		record.DocumentBytes,
		record.Elapsed.Milliseconds(),
		recordedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// FinishRun closes out a run with its final tallies.
func (j *Journal) FinishRun(ctx context.Context, runID string, processed, matched, failed int) error {
	finished := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := j.db.ExecContext(ctx,
		"UPDATE runs SET finished_at = ?, processed = ?, matched = ?, failed = ? WHERE id = ?",
		finished, processed, matched, failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

// GetRun returns the run with the exact id.
func (j *Journal) GetRun(ctx context.Context, runID string) (Run, error) {
	row := j.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	return run, err
}

// FindRun resolves an exact run id or an unambiguous id prefix.
func (j *Journal) FindRun(ctx context.Context, idOrPrefix string) (Run, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return Run{}, fmt.Errorf("empty run id: %w", ErrRunNotFound)
	}
	rows, err := j.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\\' ORDER BY started_at DESC LIMIT 2",
		idOrPrefix, escapeLike(idOrPrefix)+"%",
	)
	if err != nil {
		return Run{}, fmt.Errorf("find run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("find run: %w", err)
	}
	switch len(matches) {
	case 0:
		return Run{}, fmt.Errorf("run %s: %w", idOrPrefix, ErrRunNotFound)
	case 1:
		return matches[0], nil
	default:
		return Run{}, fmt.Errorf("run %s: %w", idOrPrefix, ErrRunAmbiguous)
	}
}

// LatestRun returns the most recently started run.
func (j *Journal) LatestRun(ctx context.Context) (Run, error) {
	row := j.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs ORDER BY started_at DESC LIMIT 1")
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

// ListRuns returns up to limit runs, most recent first. A non-positive limit
// lists the 50 most recent.
func (j *Journal) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY started_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Outcomes returns a run's outcomes in input order.
func (j *Journal) Outcomes(ctx context.Context, runID string) ([]OutcomeRecord, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT "+outcomeColumns+" FROM outcomes WHERE run_id = ? ORDER BY position", runID)
	if err != nil {
		return nil, fmt.Errorf("load outcomes: %w", err)
	}
	defer rows.Close()

	var records []OutcomeRecord
	for rows.Next() {
		record, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load outcomes: %w", err)
	}
	return records, nil
}

// Stats returns journal-wide tallies.
func (j *Journal) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := j.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM runs),
		(SELECT COUNT(*) FROM outcomes),
		(SELECT COUNT(*) FROM outcomes WHERE matched = 1),
		(SELECT COUNT(*) FROM outcomes WHERE succeeded = 0)`,
	).Scan(&stats.Runs, &stats.Outcomes, &stats.Matched, &stats.Failed)
	if err != nil {
		return Stats{}, fmt.Errorf("journal stats: %w", err)
	}
	return stats, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		startedRaw  sql.NullString
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&run.Total,
		&run.Processed,
		&run.Matched,
		&run.Failed,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(startedRaw)
	run.FinishedAt = parseTime(finishedRaw)
	return run, nil
}

func scanOutcome(scanner interface{ Scan(dest ...any) error }) (OutcomeRecord, error) {
	var (
		record       OutcomeRecord
		succeeded    int
		matched      int
		errorKind    sql.NullString
		errorMessage sql.NullString
		matchedName  sql.NullString
		businessType sql.NullString
		fieldsJSON   sql.NullString
		elapsedMS    int64
		recordedRaw  sql.NullString
	)
	if err := scanner.Scan(
		&record.RunID,
		&record.Position,
		&record.Query,
		&succeeded,
		&errorKind,
		&errorMessage,
		&matched,
		&matchedName,
		&record.Confidence,
		&businessType,
		&fieldsJSON,
		&record.DocumentBytes,
		&elapsedMS,
		&recordedRaw,
	); err != nil {
		return OutcomeRecord{}, fmt.Errorf("scan outcome: %w", err)
	}
	record.Succeeded = succeeded != 0
	record.Matched = matched != 0
	record.ErrorKind = errorKind.String
	record.ErrorMessage = errorMessage.String
	record.MatchedName = matchedName.String
	record.BusinessType = businessType.String
	record.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	record.RecordedAt = parseTime(recordedRaw)
	if fieldsJSON.Valid && fieldsJSON.String != "" {
		if err := json.Unmarshal([]byte(fieldsJSON.String), &record.Fields); err != nil {
			return OutcomeRecord{}, fmt.Errorf("decode outcome fields: %w", err)
		}
	}
	return record, nil
}

func parseTime(raw sql.NullString) time.Time {
	if !raw.Valid || raw.String == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw.String)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE wildcards in a user-supplied prefix. Run ids
// never contain them, so the literal reading is always the right one.
func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
