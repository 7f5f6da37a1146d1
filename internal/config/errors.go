package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoDataset is returned when no dataset path is configured.
	ErrNoDataset = errors.New("no dataset specified: provide a results file path")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a
	// time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidSampleSize is returned when the sample size is negative.
	// Use 0 to skip the review sample entirely.
	ErrInvalidSampleSize = errors.New("invalid sample size: must be non-negative")

	// ErrInvalidTopNames is returned when the top-names limit is not
	// positive.
	ErrInvalidTopNames = errors.New("invalid top-names limit: must be positive")

	// ErrInvalidConcurrency is returned when parallel mode is requested
	// with a non-positive concurrency limit.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive when --parallel is set")
)
