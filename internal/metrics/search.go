package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics. The interaction label is the bounded
// interaction type (sales/support/discounts), not the full namespace:
// namespaces embed the website name and would blow up label cardinality.
var (
	SearchNamespaceQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "retrieval",
			Name:      "search_namespace_queries_total",
			Help:      "Namespace queries by interaction type and outcome",
		},
		[]string{"interaction", "status"}, // status: "success" / "not_found" / "error"
	)

	SearchCandidatesReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "retrieval",
			Name:      "search_candidates_returned",
			Help:      "Candidate count per search after dedup and reranking",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"mode"}, // "single" / "fanout"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchNamespaceQueriesTotal)
	prometheus.MustRegister(SearchCandidatesReturned)
	searchMetricsRegistered = true
}
