// Package logs reads the files batch runs leave behind: the rolling main log
// and one JSON log per journaled run. It resolves a file from a run id
// prefix, returns bounded tails, and follows appended lines until the caller
// cancels.
package logs
