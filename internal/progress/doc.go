// Package progress carries telemetry about narration runs: when a run starts,
// each narrated step, and how the run ends. Events are handed to a
// non-blocking Hub that batches them on a background goroutine and fans them
// out to pluggable sinks such as structured logs, Prometheus collectors or a
// Pub/Sub topic. Narration never waits on telemetry.
package progress
