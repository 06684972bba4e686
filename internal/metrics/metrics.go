package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector provides Prometheus metrics collection for Memex
// operations. It registers its metrics on a private registry exposed via
// Registry() so embedding applications can mount it on an HTTP handler.
type PrometheusCollector struct {
	operationsTotal *prometheus.CounterVec
	operationMs     *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
	storageCount    *prometheus.GaugeVec
	registry        *prometheus.Registry
}

// NewPrometheusCollector creates a Prometheus metrics collector.
func NewPrometheusCollector() *PrometheusCollector {
	registry := prometheus.NewRegistry()

	operationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memex_operations_total",
			Help: "Total number of storage operations by type and status",
		},
		[]string{"operation", "status"},
	)

	operationMs := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "memex_operation_duration_seconds",
			Help:    "Duration of storage operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"operation"},
	)

	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memex_errors_total",
			Help: "Total number of errors by operation and error type",
		},
		[]string{"operation", "error_type"},
	)

	storageCount := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "memex_storage_count",
			Help: "Current count of stored items by type",
		},
		[]string{"type"},
	)

	registry.MustRegister(operationsTotal)
	registry.MustRegister(operationMs)
	registry.MustRegister(errorsTotal)
	registry.MustRegister(storageCount)

	return &PrometheusCollector{
		operationsTotal: operationsTotal,
		operationMs:     operationMs,
		errorsTotal:     errorsTotal,
		storageCount:    storageCount,
		registry:        registry,
	}
}

// RecordOperation records the completion of an operation.
func (m *PrometheusCollector) RecordOperation(_ context.Context, operation string, status string, durationMs int64) {
	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationMs.WithLabelValues(operation).Observe(float64(durationMs) / 1000.0)
}

// RecordError records an error occurrence.
func (m *PrometheusCollector) RecordError(_ context.Context, operation string, errorType string) {
	m.errorsTotal.WithLabelValues(operation, errorType).Inc()
}

// SetStorageCount sets the current count for a storage type.
func (m *PrometheusCollector) SetStorageCount(_ context.Context, storageType string, count int64) {
	m.storageCount.WithLabelValues(storageType).Set(float64(count))
}

// Registry returns the Prometheus registry for HTTP exposure.
func (m *PrometheusCollector) Registry() *prometheus.Registry {
	return m.registry
}
