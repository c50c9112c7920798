// Package metrics defines the observability hooks of docnav.
//
// Components receive a Recorder through injection and default to NoopRecorder,
// so metric calls never need nil checks. PrometheusRecorder is the real
// implementation and is activated by `monitoring.metrics.enabled`.
package metrics
