// Package session drives a single lookup query through the public portal.
//
// A session walks a fixed lifecycle: navigate to the portal, poll for the
// query input, dismiss the consent prompt when one appears, fill and submit
// the query, then poll for a result signal. Sessions are single-use and
// operate on an isolated browser.Page supplied by the caller; per-step
// timeouts and the poll interval come from configuration. A lapsed result
// wait is a legitimate no-results outcome and still yields the rendered
// document.
package session
