package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the engine's Prometheus instruments. The registry is
// injected so tests get a fresh one and never share collector state.
type Metrics struct {
	Queries      *prometheus.CounterVec
	Writes       *prometheus.CounterVec
	Interactions *prometheus.CounterVec
	QuerySeconds prometheus.Histogram
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feedsync",
			Name:      "queries_total",
			Help:      "Feed queries served, by region pool.",
		}, []string{"region"}),
		Writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feedsync",
			Name:      "writes_total",
			Help:      "Post writes accepted, by region pool.",
		}, []string{"region"}),
		Interactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feedsync",
			Name:      "interactions_total",
			Help:      "Interaction mutations, by action and outcome.",
		}, []string{"action", "outcome"}),
		QuerySeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "feedsync",
			Name:      "query_duration_seconds",
			Help:      "Time spent filtering, sorting and paginating one query.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(m.Queries, m.Writes, m.Interactions, m.QuerySeconds)
	return m
}

// NewNopMetrics returns metrics bound to a throwaway registry, for callers
// that do not care about scraping.
func NewNopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
