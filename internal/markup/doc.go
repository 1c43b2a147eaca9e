// Package markup extracts labeled fields from rendered registry result
// documents. Extraction is selector-cascade driven and tolerant of layout
// drift: registry-specific selectors are tried before generic ones, and a
// parse failure yields whatever fields were recovered up to that point
// rather than an error.
package markup
