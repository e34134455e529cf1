package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tour_analytics"

var (
	UpstreamFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_fetch_total",
			Help:      "Upstream collection fetches by outcome",
		},
		[]string{"collection", "status"},
	)

	UpstreamFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_fetch_duration_seconds",
			Help:      "Duration of upstream collection fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"collection"},
	)

	SnapshotLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_loads_total",
			Help:      "Analytics snapshot computations by outcome",
		},
		[]string{"status"},
	)

	SnapshotRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_records",
			Help:      "Records per collection in the most recent snapshot",
		},
		[]string{"collection"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func RecordFetch(collection, status string, seconds float64) {
	UpstreamFetchTotal.WithLabelValues(collection, status).Inc()
	UpstreamFetchDuration.WithLabelValues(collection).Observe(seconds)
}

func RecordSnapshot(status string) {
	SnapshotLoadsTotal.WithLabelValues(status).Inc()
}

func SetSnapshotRecords(collection string, n int) {
	SnapshotRecords.WithLabelValues(collection).Set(float64(n))
}

func RecordHTTPRequest(method, route, status string, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}
