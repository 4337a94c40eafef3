// Package observability exposes Prometheus metrics for report resolution.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "findocs"

// Metrics holds the resolution counters and timings served on /metrics.
type Metrics struct {
	CacheHits       prometheus.Counter
	Scrapes         *prometheus.CounterVec
	Failures        *prometheus.CounterVec
	ResolveDuration *prometheus.HistogramVec
}

// NewMetrics registers the resolution metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Report queries answered from the database cache.",
		}),
		Scrapes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrapes_total",
			Help:      "Report queries answered by scraping, by render method.",
		}, []string{"method"}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolution_failures_total",
			Help:      "Failed report queries, by failure reason.",
		}, []string{"reason"}),
		ResolveDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "End-to-end resolution latency, by outcome.",
			Buckets:   []float64{0.005, 0.05, 0.25, 1, 5, 15, 30, 60},
		}, []string{"outcome"}),
	}
}

// Failure reason label values.
const (
	ReasonBadRequest    = "bad_request"
	ReasonBankNotFound  = "bank_not_found"
	ReasonReportMissing = "report_not_found"
	ReasonUpstream      = "upstream_unavailable"
	ReasonInternal      = "internal"
)
