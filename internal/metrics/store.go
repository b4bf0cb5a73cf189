package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Record store Prometheus metrics.
var (
	StoreOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flatdb",
			Name:      "store_operations_total",
			Help:      "Total number of record store operations",
		},
		[]string{"operation", "collection", "status"},
	)

	StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "flatdb",
			Name:      "store_operation_duration_seconds",
			Help:      "Record store operation duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	StoreCollectionRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "flatdb",
			Name:      "store_collection_records",
			Help:      "Number of records in a collection after its last write",
		},
		[]string{"collection"},
	)
)

var storeMetricsRegistered bool

// RegisterStoreMetrics registers record store metrics. Must be called once from main.
func RegisterStoreMetrics() {
	if storeMetricsRegistered {
		return
	}
	prometheus.MustRegister(StoreOperationsTotal)
	prometheus.MustRegister(StoreOperationDuration)
	prometheus.MustRegister(StoreCollectionRecords)
	storeMetricsRegistered = true
}

// ObserveStoreOperation records one finished store operation.
func ObserveStoreOperation(operation, collection string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StoreOperationsTotal.WithLabelValues(operation, collection, status).Inc()
	StoreOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
