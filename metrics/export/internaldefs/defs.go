package internaldefs

import (
	"github.com/credpair/credpair"
)

// CounterDef binds a MetricID to its exported name and help text.
//
// CounterDef instances are intended to be configured during initialization
// and then treated as immutable.
type CounterDef struct {
	ID   credpair.MetricID
	Name string
	Help string
}

// HistogramDef binds a histogram MetricID to its exported name and help text.
//
// HistogramDef instances are intended to be configured during initialization
// and then treated as immutable.
type HistogramDef struct {
	ID   credpair.MetricID
	Name string
	Help string
}

// CounterDefs lists every counter both exporters publish, in a fixed order.
var CounterDefs = []CounterDef{
	{ID: credpair.MetricLoginSuccess, Name: "credpair_login_success_total", Help: "Successful login attempts."},
	{ID: credpair.MetricLoginFailure, Name: "credpair_login_failure_total", Help: "Failed login attempts."},
	{ID: credpair.MetricLoginRateLimited, Name: "credpair_login_rate_limited_total", Help: "Rate-limited login attempts."},
	{ID: credpair.MetricRefreshSuccess, Name: "credpair_refresh_success_total", Help: "Successful refresh rotations."},
	{ID: credpair.MetricRefreshFailure, Name: "credpair_refresh_failure_total", Help: "Rejected refresh attempts."},
	{ID: credpair.MetricRefreshRateLimited, Name: "credpair_refresh_rate_limited_total", Help: "Rate-limited refresh attempts."},
	{ID: credpair.MetricPairIssued, Name: "credpair_pair_issued_total", Help: "Issued token pairs."},
	{ID: credpair.MetricLogout, Name: "credpair_logout_total", Help: "Logout operations."},
	{ID: credpair.MetricValidateSuccess, Name: "credpair_validate_success_total", Help: "Successful access token validations."},
	{ID: credpair.MetricValidateFailure, Name: "credpair_validate_failure_total", Help: "Failed access token validations."},
}

// HistogramDefs lists every histogram both exporters publish.
var HistogramDefs = []HistogramDef{
	{ID: credpair.MetricValidateLatency, Name: "credpair_validate_latency_seconds", Help: "Access token validation latency histogram."},
}

// HistogramBounds holds the upper bucket bounds rendered by the Prometheus
// exporter, matching the in-process histogram layout.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix holds bound labels safe for OTel attribute values.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies a raw bucket slice into the fixed histogram shape,
// truncating or zero-padding as needed.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// Prometheus expects.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
