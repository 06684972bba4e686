// Package metrics provides optional Prometheus metrics collection for
// Memex storage and import operations. The Prometheus-backed collector is
// used by callers that want instrumentation; the no-op collector is the
// default everywhere else.
package metrics

import "context"

// Collector is the interface for metrics collection.
// Implementations are the Prometheus-backed collector and the no-op
// collector used when instrumentation is not wanted.
type Collector interface {
	// RecordOperation records the completion of a named operation with
	// its status ("ok" or "error") and duration in milliseconds.
	RecordOperation(ctx context.Context, operation string, status string, durationMs int64)

	// RecordError records an error occurrence for an operation.
	RecordError(ctx context.Context, operation string, errorType string)

	// SetStorageCount sets the current number of stored items of a type
	// (pages, visits, bookmarks, tags).
	SetStorageCount(ctx context.Context, storageType string, count int64)
}
