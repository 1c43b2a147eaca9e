// Package textutil provides small text helpers shared across the lookup
// pipeline: whitespace collapsing for extracted markup text, and filename
// sanitization for capture artifacts and report exports.
package textutil
