// Package services defines shared utilities consumed by the retrieval
// pipeline and its supporting components.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, lookup queries, and retrieval
//     session identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into the consistent labels recorded on lookup outcomes.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across the system.
package services
