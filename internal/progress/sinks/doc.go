// Package sinks implements concrete progress consumers: structured logging,
// Prometheus collectors and Google Cloud Pub/Sub publishing. Each sink
// satisfies progress.Sink and tolerates repeated Consume/Close cycles.
package sinks
