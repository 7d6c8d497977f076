// Package metrics holds the Prometheus collectors of the coach service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coach",
			Name:      "cache_lookups_total",
			Help:      "Expiring cache lookups by cache and result (hit, miss, expired).",
		},
		[]string{"cache", "result"},
	)

	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coach",
			Name:      "upstream_calls_total",
			Help:      "Calls to external collaborators by service and outcome.",
		},
		[]string{"service", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coach",
			Name:      "upstream_call_seconds",
			Help:      "Latency of calls to external collaborators.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
)

// ObserveUpstream records one collaborator call that started at start.
func ObserveUpstream(service string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamCallsTotal.WithLabelValues(service, outcome).Inc()
	UpstreamDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
