package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultDatasetFile is the input file used when no path is given.
	// It matches the file name the extraction process writes next to
	// where it is run, kept for compatibility with existing workflows.
	DefaultDatasetFile = "test-results.json"

	// DefaultSampleSize is the number of names drawn at random for
	// manual review. Twenty is enough to eyeball extraction quality
	// without flooding the report.
	DefaultSampleSize = 20

	// DefaultTopNames is how many of the most frequent names the report
	// shows. A real dataset has crews rotating across games, so the top
	// ten is where unrealistic repetition becomes visible.
	DefaultTopNames = 10

	// DefaultSingleWordDisplay caps how many single-word names the
	// writers print. The full list stays in the report model.
	DefaultSingleWordDisplay = 10

	// DefaultConcurrency is the number of checks run at once in
	// parallel mode. The battery is small, so a low limit is plenty.
	DefaultConcurrency = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "crewcheck"
)

// Config holds all configuration options for crewcheck.
// This struct is designed to be populated from CLI flags and passed
// through the application via dependency injection rather than global
// state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// DatasetPath is the path of the results file to audit.
	DatasetPath string

	// Checks selects a subset of checks to run by name.
	// Empty means run the full battery.
	Checks []string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// Parallel runs the checks concurrently. Every check is read-only
	// over the dataset and writes its own report section, so this is
	// safe; it exists for large datasets, not because the battery is
	// slow today.
	Parallel bool

	// Concurrency is the maximum number of checks running at once when
	// Parallel is set.
	Concurrency int

	// Seed fixes the random sample of names for manual review.
	// Zero means seed from the clock, making the sample
	// non-deterministic run to run.
	Seed int64

	// SampleSize is the number of names sampled for manual review.
	SampleSize int

	// TopNames is how many of the most frequent names to report.
	TopNames int

	// InspectDomains lists domains whose recorded crews are printed
	// after the report, as a manual extraction spot-check.
	InspectDomains []string

	// ConfigFilePath is the path to the rule file. If empty, the tool
	// searches for .crewcheck in the current directory and then in the
	// user's home directory.
	ConfigFilePath string

	// Rules holds the audit rules loaded from the rule file, merged
	// over the built-in defaults.
	Rules *Rules

	// JSONReport enables JSON report output instead of human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory path for storing the SQLite history
	// database. Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save the audit run to the history
	// database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		DatasetPath: DefaultDatasetFile,
		Concurrency: DefaultConcurrency,
		SampleSize:  DefaultSampleSize,
		TopNames:    DefaultTopNames,
		Rules:       DefaultRules(),
	}
}

// XDGDataDir returns the XDG data directory for crewcheck.
// On Linux: ~/.local/share/crewcheck
// On macOS: ~/Library/Application Support/crewcheck
// On Windows: %LOCALAPPDATA%\crewcheck
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for crewcheck.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// The first error found is returned because fixing one error often
// makes others irrelevant.
func (c *Config) Validate() error {
	if c.DatasetPath == "" {
		return ErrNoDataset
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// A zero sample is allowed (skips the review sample), negative is not
	if c.SampleSize < 0 {
		return ErrInvalidSampleSize
	}

	if c.TopNames <= 0 {
		return ErrInvalidTopNames
	}

	if c.Parallel && c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	return nil
}
