// Package batch runs many registry lookups concurrently while preserving
// input order in the results.
//
// Queries are partitioned into consecutive batches; within a batch a counting
// gate bounds concurrent sessions, and the next batch starts only after the
// previous one fully completes, separated by a cool-down pause. Every session
// failure, including panics, converts to a Failed outcome at the orchestrator
// boundary, so a single query can never abort a run. Successful outcomes are
// enriched with field extraction and name matching on a fixed worker pool
// after retrieval.
package batch
