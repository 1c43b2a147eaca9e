// Package namematch decides whether a free-text business or owner name
// refers to the same entity as a name extracted from a registry result.
// Names are reduced to a comparable form, expanded into a deterministic
// variation set, and compared through tiered rules that map onto discrete
// confidence levels. All functions are pure and safe for concurrent use.
package namematch
