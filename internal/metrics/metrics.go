package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Resolution metrics
var (
	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolutions_total",
			Help: "Total number of cascade resolutions by outcome.",
		},
		[]string{"outcome"},
	)

	ResolutionTierTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolution_tier_total",
			Help: "Total number of resolutions satisfied by each cascade tier.",
		},
		[]string{"tier"},
	)

	ProviderAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_attempts_total",
			Help: "Total number of provider watch attempts by provider, server variant and result.",
		},
		[]string{"provider", "server", "result"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Latency of outbound requests to upstream services.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"upstream"},
	)

	TorrentioRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "torrentio_requests_total",
			Help: "Total number of direct aggregator requests by status.",
		},
		[]string{"status"},
	)
)

// Result labels for ProviderAttemptsTotal
const (
	ResultStreams = "streams"
	ResultEmpty   = "empty"
	ResultError   = "error"
)

func init() {
	prometheus.MustRegister(
		ResolutionsTotal,
		ResolutionTierTotal,
		ProviderAttemptsTotal,
		UpstreamRequestDuration,
		TorrentioRequestsTotal,
	)
}
