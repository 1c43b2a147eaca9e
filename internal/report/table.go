package report

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"sleuth/internal/store"
)

// Alignment selects column alignment in rendered tables.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Interactive reports whether w is an interactive terminal. Terminal output
// gets rounded box-drawing borders; piped output falls back to ASCII.
func Interactive(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Table renders headers and rows. Short rows pad with empty cells; missing
// alignments default to left. The rendered string ends with a newline.
func Table(headers []string, rows [][]string, aligns []Alignment, interactive bool) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	if interactive {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render() + "\n"
}

// SummaryTable renders one row per lookup entry.
func SummaryTable(entries []Entry, interactive bool) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			strconv.Itoa(entry.Position + 1),
			entry.Query,
			entryResult(entry),
			confidenceCell(entry),
			entry.Fields.EntityName(),
			entry.BusinessType(),
		})
	}
	return Table(
		[]string{"#", "Query", "Result", "Confidence", "Company", "Business Type"},
		rows,
		[]Alignment{AlignRight, AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignLeft},
		interactive,
	)
}

// RunsTable renders journaled runs.
func RunsTable(runs []store.Run, interactive bool) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			ShortRunID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			runDuration(run),
			strconv.Itoa(run.Total),
			strconv.Itoa(run.Processed),
			strconv.Itoa(run.Matched),
			strconv.Itoa(run.Failed),
		})
	}
	return Table(
		[]string{"Run", "Started", "Duration", "Total", "Processed", "Matched", "Failed"},
		rows,
		[]Alignment{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight},
		interactive,
	)
}

// ShortRunID abbreviates a run UUID for display. Journal lookups accept the
// abbreviated form as a prefix.
func ShortRunID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func entryResult(entry Entry) string {
	switch {
	case !entry.Succeeded:
		return "failed"
	case entry.Matched:
		return "matched"
	default:
		return "no match"
	}
}

func confidenceCell(entry Entry) string {
	if entry.Confidence <= 0 {
		return ""
	}
	return confidenceLabel(entry.Confidence)
}

func runDuration(run store.Run) string {
	if !run.Finished() {
		return "running"
	}
	return run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
}
