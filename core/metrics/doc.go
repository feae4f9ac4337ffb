package metrics

// Package metrics defines interfaces for recording abstraction results.
// Sinks like PromSink and InfluxSink record per-node and per-step events
// and can be combined with NewMultiSink. The factory helpers return a
// MultiSink automatically when multiple sinks are configured.
