package importer

import (
	"context"
	"log/slog"
	"time"
)

// Step defines the interface that all import pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the batch
// accumulated by previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state (store, indexer)
// 2. It provides a Name() method for logging and reporting
// 3. It's more extensible for future features (e.g., per-step metrics)
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the batch to modify.
	// Returns an error if the step fails critically; per-record errors
	// should be recorded in the batch report and return nil.
	Do(ctx context.Context, batch *Batch) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple import steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution even
// when a step fails. Failed steps are logged and their errors recorded in
// the batch report, but subsequent steps still execute.
//
// Design decision: The default is to stop on error because a failed step
// usually leaves the batch in a state later steps cannot use (no decoded
// records, no normalized pages). Continuing is opt-in for callers that
// want a best-effort run, e.g. indexing whatever did persist.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:           make([]Step, 0),
		continueOnError: false,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence over the batch.
// It respects context cancellation and logs each step's execution.
//
// Design decision: We check context.Done() before each step rather than
// during, because steps iterate records and handle cancellation at their
// own granularity. This allows graceful cleanup between steps while still
// respecting cancellation.
//
// Returns the first error encountered if continueOnError is false, or nil
// if all steps complete (per-record errors are recorded in the report).
func (p *Pipeline) Execute(ctx context.Context, batch *Batch) error {
	defer func() {
		batch.Report.Elapsed = time.Since(batch.Report.StartedAt)
	}()

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("import cancelled",
				"step", step.Name(),
				"source", batch.Source,
				"reason", ctx.Err(),
			)
			batch.Report.Cancelled = true
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"source", batch.Source,
		)

		if err := step.Do(ctx, batch); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"source", batch.Source,
				"error", err,
			)

			batch.Report.AddError(err)

			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"source", batch.Source,
			)
		}

		batch.Report.PerformedSteps = append(batch.Report.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
