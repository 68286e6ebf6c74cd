// Package prometheus renders credpair metrics in Prometheus text format.
//
// [NewPrometheusExporter] accepts a [credpair.Engine] and exposes an
// [http.Handler] that renders all credpair counters and histograms in
// Prometheus text exposition format. Counter names are prefixed
// credpair_*_total; the single histogram is
// credpair_validate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the
//     Handler.
//   - Mutate engine state.
package prometheus
