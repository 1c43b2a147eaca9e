package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"sleuth/internal/markup"
)

const separatorWidth = 80

var (
	heavyRule = strings.Repeat("=", separatorWidth)
	lightRule = strings.Repeat("-", separatorWidth)
)

// Header carries report front matter. Notes render as extra "label: value"
// lines between the generation stamp and the closing rule.
type Header struct {
	Title       string
	GeneratedAt time.Time
	Source      string
	Notes       []string
	Total       int
}

func (h Header) generatedAt() time.Time {
	if h.GeneratedAt.IsZero() {
		return time.Now()
	}
	return h.GeneratedAt
}

// WriteDetails writes the full lookup report: a front-matter block followed by
// one section per lookup with its extracted fields and match verdict.
func WriteDetails(w io.Writer, header Header, entries []Entry) error {
	bw := newBlockWriter(w)
	writeFrontMatter(bw, header)

	for i, entry := range entries {
		bw.line(heavyRule)
		bw.linef("BUSINESS LOOKUP #%d: %s", i+1, entry.Query)
		bw.line(heavyRule)
		bw.line("")
		writeEntry(bw, entry)
		bw.line("")
		bw.line("")
	}
	return bw.err
}

// WriteBusinessTypeSummary writes the filtered-by-type report: front matter
// plus one numbered summary line per matching lookup.
func WriteBusinessTypeSummary(w io.Writer, header Header, entries []Entry) error {
	bw := newBlockWriter(w)
	writeFrontMatter(bw, header)

	if len(entries) > 0 {
		bw.line("SUMMARY OF FILTERED BUSINESSES")
		bw.line(lightRule)
		for i, entry := range entries {
			bw.linef("%3d. %s", i+1, valueOr(entry.Fields.EntityName(), entry.Query))
			bw.linef("     Status: %s | Address: %s",
				valueOr(entry.Fields.Value(markup.FieldStatus), "Unknown"),
				valueOr(entry.Fields.Value(markup.FieldAddress), "Unknown"))
		}
		bw.line("")
		bw.line(heavyRule)
	}
	return bw.err
}

// WriteUnmatchedSummary writes the unmatched-lookups report: front matter plus
// a numbered query/candidate pair per lookup that found no match.
func WriteUnmatchedSummary(w io.Writer, header Header, entries []Entry) error {
	bw := newBlockWriter(w)
	writeFrontMatter(bw, header)

	if len(entries) > 0 {
		bw.line("SUMMARY OF UNMATCHED BUSINESSES")
		bw.line(lightRule)
		for i, entry := range entries {
			bw.linef("%3d. SEARCHED FOR: %s", i+1, entry.Query)
			bw.linef("     FOUND: %s", valueOr(entry.Fields.EntityName(), "Unknown"))
			bw.linef("     Status: %s | Address: %s",
				valueOr(entry.Fields.Value(markup.FieldStatus), "Unknown"),
				valueOr(entry.Fields.Value(markup.FieldAddress), "Unknown"))
			bw.linef("     Match Found: %s | Confidence: %s", yesNo(entry.Matched), confidenceLabel(entry.Confidence))
			bw.line("")
		}
		bw.line(heavyRule)
	}
	return bw.err
}

func writeFrontMatter(bw *blockWriter, header Header) {
	bw.line(heavyRule)
	bw.line(strings.ToUpper(strings.TrimSpace(header.Title)))
	bw.line(heavyRule)
	bw.linef("Generated: %s", header.generatedAt().Format("2006-01-02 15:04:05"))
	if header.Source != "" {
		bw.linef("Source: %s", header.Source)
	}
	bw.linef("Total lookups: %d", header.Total)
	for _, note := range header.Notes {
		bw.line(note)
	}
	bw.line(heavyRule)
	bw.line("")
}

// writeEntry renders one lookup section. Failed lookups get a failure block;
// successful lookups with no extracted candidate get an empty-extraction
// block; everything else gets company details plus the match verdict.
func writeEntry(bw *blockWriter, entry Entry) {
	bw.linef("SEARCH RESULTS FOR: %s", entry.Query)

	if !entry.Succeeded {
		bw.line(lightRule)
		bw.line("STATUS: Search failed")
		bw.linef("REASON: %s", valueOr(entry.ErrorMessage, entry.ErrorKind))
		bw.linef("SEARCH TIME: %.2f seconds", entry.Elapsed.Seconds())
		bw.line(lightRule)
		return
	}
	if entry.Fields.Len() == 0 {
		bw.line(lightRule)
		bw.line("STATUS: No company information extracted")
		bw.line("REASON: Search completed but could not parse company details")
		bw.linef("SEARCH TIME: %.2f seconds", entry.Elapsed.Seconds())
		bw.line(lightRule)
		return
	}

	bw.line(heavyRule)
	bw.line("")
	bw.line("COMPANY DETAILS")
	bw.line(lightRule)
	for _, label := range orderedLabels(entry.Fields) {
		bw.linef("%s: %s", label, entry.Fields.Value(label))
	}
	bw.line("")
	bw.line(heavyRule)
	bw.linef("MATCH FOUND: %s", yesNo(entry.Matched))
	if entry.Confidence > 0 {
		bw.linef("CONFIDENCE: %s", confidenceLabel(entry.Confidence))
	}
	if entry.Matched {
		bw.linef("CLOSEST MATCH: %s", valueOr(entry.MatchedName, "N/A"))
	}
	bw.line(heavyRule)
}

// blockWriter accumulates the first write error so rendering code stays free
// of per-line error plumbing.
type blockWriter struct {
	w   io.Writer
	err error
}

func newBlockWriter(w io.Writer) *blockWriter {
	return &blockWriter{w: w}
}

func (b *blockWriter) line(s string) {
	if b.err != nil {
		return
	}
	_, b.err = io.WriteString(b.w, s+"\n")
}

func (b *blockWriter) linef(format string, args ...any) {
	b.line(fmt.Sprintf(format, args...))
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func yesNo(value bool) string {
	if value {
		return "YES"
	}
	return "NO"
}

func confidenceLabel(confidence float64) string {
	if confidence <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.0f%%", confidence*100)
}
