package metrics

import "context"

// NoopCollector is the collector used when metrics are not wanted.
type NoopCollector struct{}

// NewNoopCollector creates a no-op collector.
func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

// RecordOperation does nothing.
func (n *NoopCollector) RecordOperation(_ context.Context, _ string, _ string, _ int64) {}

// RecordError does nothing.
func (n *NoopCollector) RecordError(_ context.Context, _ string, _ string) {}

// SetStorageCount does nothing.
func (n *NoopCollector) SetStorageCount(_ context.Context, _ string, _ int64) {}
