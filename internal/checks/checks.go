package checks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/offscrape/crewcheck/internal/model"
	"golang.org/x/sync/errgroup"
)

// Check defines the interface that all quality checks must implement.
// Checks receive the loaded dataset read-only and record their results
// in their own section of the report.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows checks to carry configuration state (rule tables, limits)
// 2. It provides a Name() method for logging and check selection
// 3. It's more extensible for future features (e.g., per-check options)
type Check interface {
	// Do executes the quality check.
	// It receives the context for cancellation, the immutable dataset,
	// and the report to fill in. Returns an error only on critical
	// failure; an empty result is not an error.
	Do(ctx context.Context, ds *model.Dataset, report *model.AuditReport) error

	// Name returns the check's name for logging and selection purposes.
	Name() string
}

// Runner orchestrates the execution of a check battery.
// It maintains an ordered list of checks and executes them sequentially
// or, when a concurrency limit is set, in parallel.
type Runner struct {
	// checks contains the ordered list of checks to execute.
	checks []Check

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing checks
	// after one fails. If false, the runner stops on first error.
	continueOnError bool

	// concurrency is the maximum number of checks running at once.
	// Values below two mean sequential execution.
	concurrency int

	// mu guards the report fields shared across checks in concurrent
	// mode (performed-check list and error state). Check sections are
	// disjoint and need no locking.
	mu sync.Mutex
}

// Option is a function that configures a Runner.
// This follows the functional options pattern for clean API design.
type Option func(*Runner)

// WithLogger sets a custom logger for the runner.
// If not set, the default slog logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithContinueOnError configures the runner to continue execution even
// when a check fails. Failed checks are logged and their errors are
// recorded in the report, but subsequent checks still execute.
//
// Design decision: The default is to stop on error because a check
// failing usually indicates a broken dataset, and later checks would
// report misleading partial results on top of it.
func WithContinueOnError(continueOnError bool) Option {
	return func(r *Runner) {
		r.continueOnError = continueOnError
	}
}

// WithConcurrency sets the maximum number of checks running at once.
// Values below two keep sequential execution. Concurrent mode always
// runs every check regardless of individual failures, so it implies
// continue-on-error.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		r.concurrency = n
	}
}

// NewRunner creates a new Runner with the given options.
// Checks should be added using AddChecks after creation.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		checks:          make([]Check, 0),
		continueOnError: false,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// AddChecks appends checks to the battery.
// Checks are executed in the order they are added.
func (r *Runner) AddChecks(checks ...Check) {
	r.checks = append(r.checks, checks...)
}

// CheckCount returns the number of checks in the battery.
func (r *Runner) CheckCount() int {
	return len(r.checks)
}

// CheckNames returns the names of all checks in execution order.
func (r *Runner) CheckNames() []string {
	names := make([]string, len(r.checks))
	for i, check := range r.checks {
		names[i] = check.Name()
	}
	return names
}

// Execute runs the check battery against the dataset.
// It respects context cancellation and logs each check's execution.
// Returns the first error encountered if continueOnError is false, or
// nil if all checks complete (errors are recorded in the report).
func (r *Runner) Execute(ctx context.Context, ds *model.Dataset, report *model.AuditReport) error {
	report.TotalResults = len(ds.Results)
	report.SuccessfulResults = ds.SuccessCount()

	if r.concurrency > 1 {
		return r.executeConcurrent(ctx, ds, report)
	}
	return r.executeSequential(ctx, ds, report)
}

// executeSequential runs the checks one at a time, in order.
func (r *Runner) executeSequential(ctx context.Context, ds *model.Dataset, report *model.AuditReport) error {
	for _, check := range r.checks {
		// Check for cancellation before starting each check
		select {
		case <-ctx.Done():
			r.logger.Warn("audit cancelled",
				"check", check.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		r.logger.Info("running check",
			"check", check.Name(),
			"dataset", report.DatasetName,
		)

		if err := check.Do(ctx, ds, report); err != nil {
			r.logger.Error("check failed",
				"check", check.Name(),
				"dataset", report.DatasetName,
				"error", err,
			)

			report.SetError(err)

			if !r.continueOnError {
				return err
			}
		} else {
			r.logger.Debug("check completed",
				"check", check.Name(),
				"dataset", report.DatasetName,
			)
		}

		report.PerformedChecks = append(report.PerformedChecks, check.Name())
	}

	return nil
}

// executeConcurrent runs all checks in parallel up to the concurrency
// limit. Every check is read-only over the dataset and owns its report
// section, so the only synchronization needed is around the runner's
// bookkeeping fields.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// The performed-check list keeps battery order rather than completion
// order so sequential and concurrent runs report identically.
func (r *Runner) executeConcurrent(ctx context.Context, ds *model.Dataset, report *model.AuditReport) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	performed := make([]bool, len(r.checks))

	for i, check := range r.checks {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			r.logger.Info("running check",
				"check", check.Name(),
				"dataset", report.DatasetName,
			)

			if err := check.Do(ctx, ds, report); err != nil {
				r.logger.Error("check failed",
					"check", check.Name(),
					"dataset", report.DatasetName,
					"error", err,
				)
				r.mu.Lock()
				report.SetError(err)
				r.mu.Unlock()
				// Keep running the remaining checks; they are independent
				return nil
			}

			r.mu.Lock()
			performed[i] = true
			r.mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, check := range r.checks {
		if performed[i] {
			report.PerformedChecks = append(report.PerformedChecks, check.Name())
		}
	}

	return nil
}

// Select filters the given battery down to the named checks, preserving
// battery order. An unknown name is an error so typos fail fast instead
// of silently skipping a check.
func Select(battery []Check, names []string) ([]Check, error) {
	if len(names) == 0 {
		return battery, nil
	}

	byName := make(map[string]Check, len(battery))
	for _, check := range battery {
		byName[check.Name()] = check
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("unknown check %q (available: %v)", name, checkNames(battery))
		}
		wanted[name] = true
	}

	selected := make([]Check, 0, len(wanted))
	for _, check := range battery {
		if wanted[check.Name()] {
			selected = append(selected, check)
		}
	}
	return selected, nil
}

// checkNames returns the names of the given checks.
func checkNames(battery []Check) []string {
	names := make([]string, len(battery))
	for i, check := range battery {
		names[i] = check.Name()
	}
	return names
}
