// Package notifications delivers import events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Import start, completion, and error events each map to a consistent
// message so callers never duplicate HTTP glue.
//
// Extend this package if you need alternative transports; the pipeline depends
// only on the simple Service interface.
package notifications
