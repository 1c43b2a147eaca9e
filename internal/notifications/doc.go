// Package notifications delivers batch run events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set. Run
// start/completion events and per-lookup failures are gated separately so a
// noisy portal does not flood the failure channel.
//
// Extend this package if you need alternative transports; the orchestrator
// depends only on the Service interface.
package notifications
