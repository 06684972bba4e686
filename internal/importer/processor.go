package importer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is how many export files import in parallel when not
// configured otherwise. The database serializes writes on a single
// connection, so concurrency mostly overlaps decode and normalize work.
const DefaultConcurrency = 4

// BatchProcessor handles concurrent importing of multiple export files.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding
// multi-file handling to Pipeline because:
// 1. It keeps the Pipeline focused on single-batch execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each file.
	// We use a factory to ensure each import gets a fresh pipeline instance.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent imports.
	concurrency int

	// logger is used for processor-level logging.
	logger *slog.Logger

	// reports stores completed batch reports.
	// Access is synchronized via mutex.
	reports []*Report
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for the batch processor.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent file imports.
// Default is DefaultConcurrency if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each file to create a fresh
// pipeline instance. This ensures that pipeline state doesn't leak
// between imports and allows for per-file customization if needed.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
		reports:         make([]*Report, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessFiles imports multiple export files concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each file gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Returns all reports collected, in input order, even for files that
// failed. The error return indicates if the run was cancelled.
func (bp *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) ([]*Report, error) {
	bp.logger.Info("starting batch import",
		"total_files", len(paths),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate to maintain input order.
	bp.reports = make([]*Report, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("importing file",
				"source", path,
				"index", i+1,
				"total", len(paths),
			)

			batch := NewBatch(path)
			pipeline := bp.pipelineFactory()
			err := pipeline.Execute(ctx, batch)

			// Store the report regardless of error; it carries the
			// error information for failed imports.
			bp.mu.Lock()
			bp.reports[i] = batch.Report
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("import failed",
					"source", path,
					"error", err,
				)
				// Don't return the error to errgroup - other files
				// should still import. The error is in the report.
				return nil
			}

			bp.logger.Info("import completed",
				"source", path,
				"pages", batch.Report.PagesImported,
				"visits", batch.Report.VisitsImported,
			)

			return nil
		})
	}

	err := g.Wait()

	elapsed := time.Since(startTime)
	bp.logger.Info("batch import complete",
		"total_files", len(paths),
		"elapsed", elapsed,
	)

	return bp.reports, err
}

// ProcessFilesWithCallback imports multiple files and calls a callback
// for each completed batch. This is useful for streaming progress.
//
// The callback receives the report and the index of the file in the
// original slice. The callback is called from the goroutine that
// completed the import, so it should be thread-safe if it accesses
// shared state.
func (bp *BatchProcessor) ProcessFilesWithCallback(
	ctx context.Context,
	paths []string,
	callback func(report *Report, index int),
) error {
	bp.logger.Info("starting batch import with callback",
		"total_files", len(paths),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			batch := NewBatch(path)
			pipeline := bp.pipelineFactory()
			_ = pipeline.Execute(ctx, batch) //nolint:errcheck // Error is stored in report

			callback(batch.Report, i)

			return nil
		})
	}

	return g.Wait()
}
