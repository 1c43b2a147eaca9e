package report

import (
	"time"

	"sleuth/internal/batch"
	"sleuth/internal/markup"
	"sleuth/internal/store"
)

// fieldOrder is the canonical display order for extracted fields. Labels not
// listed follow in extraction order.
var fieldOrder = []string{
	markup.FieldCompanyName,
	markup.FieldCorporationNumber,
	markup.FieldRegistryType,
	markup.FieldStatus,
	markup.FieldAddress,
	markup.FieldBusinessType,
	markup.FieldIncorporationDate,
	markup.FieldPreviousNames,
}

// Entry is one reportable lookup row, the same shape whether it came from a
// live run or the journal.
type Entry struct {
	Position     int
	Query        string
	Succeeded    bool
	ErrorKind    string
	ErrorMessage string
	Matched      bool
	MatchedName  string
	Confidence   float64
	Fields       markup.FieldMap
	Elapsed      time.Duration
}

// BusinessType returns the entry's extracted business type, or "".
func (e Entry) BusinessType() string {
	return e.Fields.Value(markup.FieldBusinessType)
}

// FromOutcomes converts a live run's outcomes into report entries.
func FromOutcomes(outcomes []batch.Outcome) []Entry {
	entries := make([]Entry, 0, len(outcomes))
	for position, outcome := range outcomes {
		entries = append(entries, Entry{
			Position:     position,
			Query:        outcome.Query,
			Succeeded:    outcome.Succeeded,
			ErrorKind:    outcome.ErrorKind,
			ErrorMessage: outcome.ErrorDescription,
			Matched:      outcome.Matched,
			MatchedName:  outcome.MatchedName,
			Confidence:   outcome.Confidence,
			Fields:       outcome.Fields,
			Elapsed:      outcome.Elapsed,
		})
	}
	return entries
}

// FromRecords converts journaled outcomes into report entries. The
// denormalized business type backfills the field map when the stored fields
// lack it, so filters behave the same on both sources.
func FromRecords(records []store.OutcomeRecord) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		fields := record.Fields
		if record.BusinessType != "" && !fields.Has(markup.FieldBusinessType) {
			fields.Set(markup.FieldBusinessType, record.BusinessType)
		}
		entries = append(entries, Entry{
			Position:     record.Position,
			Query:        record.Query,
			Succeeded:    record.Succeeded,
			ErrorKind:    record.ErrorKind,
			ErrorMessage: record.ErrorMessage,
			Matched:      record.Matched,
			MatchedName:  record.MatchedName,
			Confidence:   record.Confidence,
			Fields:       fields,
			Elapsed:      record.Elapsed,
		})
	}
	return entries
}

// orderedLabels returns an entry's field labels in display order.
func orderedLabels(fields markup.FieldMap) []string {
	seen := make(map[string]struct{}, fields.Len())
	labels := make([]string, 0, fields.Len())
	for _, label := range fieldOrder {
		if fields.Has(label) {
			labels = append(labels, label)
			seen[label] = struct{}{}
		}
	}
	for _, label := range fields.Keys() {
		if _, ok := seen[label]; !ok {
			labels = append(labels, label)
		}
	}
	return labels
}
