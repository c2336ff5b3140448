package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Query and schema Prometheus metrics.
var (
	QueriesBuiltTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esdsl",
			Name:      "queries_built_total",
			Help:      "Total number of query nodes built from the wire format",
		},
		[]string{"kind", "status"},
	)

	QueryOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esdsl",
			Name:      "query_ops_total",
			Help:      "Total number of query algebra operations",
		},
		[]string{"op", "result"}, // result: new, reused
	)

	SchemasLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "esdsl",
			Name:      "schemas_loaded",
			Help:      "Number of document types compiled into the catalog",
		},
	)
)

var registerOnce sync.Once

// Register registers all esdsl collectors with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(QueriesBuiltTotal)
		prometheus.MustRegister(QueryOpsTotal)
		prometheus.MustRegister(SchemasLoaded)
		prometheus.MustRegister(httpRequestDuration)
		prometheus.MustRegister(httpRequestsTotal)
	})
}
