// Package metrics exposes Prometheus instrumentation for the reporting
// query layer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "report_engine_queries_total",
		Help: "Report queries issued, by report, phase and outcome",
	}, []string{"report", "phase", "outcome"})

	reportQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "report_engine_query_duration_seconds",
		Help:    "Report query latency by report and phase",
		Buckets: prometheus.DefBuckets,
	}, []string{"report", "phase"})
)

// ObserveQuery records one issued count or fetch query.
func ObserveQuery(report, phase string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	reportQueriesTotal.WithLabelValues(report, phase, outcome).Inc()
	reportQueryDuration.WithLabelValues(report, phase).Observe(elapsed.Seconds())
}
