// Package store persists batch runs and their lookup outcomes in a SQLite
// journal. Each run records its tallies and every outcome in input order, so
// reports and filters can be regenerated without re-driving the portal.
package store
