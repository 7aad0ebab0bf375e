// Package metrics defines the sinks that record optimization runs. PromSink
// and InfluxSink live in infra/metrics and register themselves with the
// factory; NewSink returns a MultiSink automatically when several sinks are
// configured.
package metrics
