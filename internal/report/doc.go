// Package report renders lookup outcomes for people.
//
// Entries come from a live batch run or from the journal and render three
// ways: the full text details report with one section per lookup, compact
// summary and run tables, and filtered summaries (by business type or
// unmatched-only) that answer follow-up questions without re-driving the
// portal.
package report
