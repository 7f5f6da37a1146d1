package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/offscrape/crewcheck/internal/checks"
	"github.com/offscrape/crewcheck/internal/config"
	"github.com/offscrape/crewcheck/internal/database"
	"github.com/offscrape/crewcheck/internal/dataset"
	"github.com/offscrape/crewcheck/internal/model"
	"github.com/offscrape/crewcheck/internal/report"
	"github.com/spf13/cobra"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [results-file]",
		Short: "Audit a scraped officials dataset for quality problems",
		Long: `Audit loads a JSON results file and runs a battery of quality checks:

- no_officials: successful games without any extracted official
- suspicious_names: placeholder, repeated-word, and numbered names,
  plus frequency statistics and a random review sample
- identical_crews: pairs of schools reporting the exact same crew
- keywords: test/debug keywords inside official names
- known_pairs: cross-verification of known home/away matchups

Examples:
  # Audit the default results file (test-results.json)
  crewcheck audit

  # Audit a specific file
  crewcheck audit week2-results.json

  # Run only selected checks
  crewcheck audit --checks no_officials,keywords week2-results.json

  # Output JSON report to a file
  crewcheck audit --json -o report.json week2-results.json

  # Fix the review sample for reproducible output
  crewcheck audit --seed 42 week2-results.json

  # Spot-check what was recorded for specific schools
  crewcheck audit --inspect rolltide.com,lsusports.net week2-results.json

Rule file (.crewcheck) example:
  placeholders:
    - john doe
    - jane doe
  keywords:
    - test
    - demo
  sampleSize: 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAuditCmd,
	}

	// Check selection flags
	cmd.Flags().StringSliceP("checks", "C", nil,
		"Comma-separated list of checks to run (default: all)")
	cmd.Flags().Bool("parallel", false,
		"Run the checks concurrently")

	// Sampling flags
	cmd.Flags().Int64("seed", 0,
		"Seed for the random review sample (0 seeds from the clock)")
	cmd.Flags().Int("sample-size", config.DefaultSampleSize,
		"Number of names sampled for manual review")
	cmd.Flags().Int("top", config.DefaultTopNames,
		"Number of most frequent names to report")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Rule file path (default: .crewcheck in current or home directory)")

	// Diagnostics
	cmd.Flags().StringSliceP("inspect", "i", nil,
		"Print the recorded crew for these domains after the report")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not save this run to the history database")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAudit(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	if len(args) > 0 {
		cfg.DatasetPath = args[0]
	}

	var err error

	cfg.Checks, err = cmd.Flags().GetStringSlice("checks")
	if err != nil {
		return nil, err
	}

	cfg.Parallel, err = cmd.Flags().GetBool("parallel")
	if err != nil {
		return nil, err
	}

	cfg.Seed, err = cmd.Flags().GetInt64("seed")
	if err != nil {
		return nil, err
	}

	cfg.SampleSize, err = cmd.Flags().GetInt("sample-size")
	if err != nil {
		return nil, err
	}

	cfg.TopNames, err = cmd.Flags().GetInt("top")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.InspectDomains, err = cmd.Flags().GetStringSlice("inspect")
	if err != nil {
		return nil, err
	}

	// Load audit rules from the rule file.
	// If user explicitly specified a rule file path, error if not found.
	// If no path specified, silently use the built-in rules.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		fileRules, err := config.LoadRulesFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load rule file %s: %w", configPath, err)
		}
		cfg.Rules = config.DefaultRules().Merge(fileRules)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("rule file not found: %s", cfg.ConfigFilePath)
	}

	// The rule file can set sampling limits too; explicit flags win.
	if !cmd.Flags().Changed("sample-size") && cfg.Rules.SampleSize > 0 {
		cfg.SampleSize = cfg.Rules.SampleSize
	}
	if !cmd.Flags().Changed("top") && cfg.Rules.TopNames > 0 {
		cfg.TopNames = cfg.Rules.TopNames
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}

	// Save to database using XDG data directory unless disabled
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	return slog.New(handler)
}

// runAudit executes the audit.
func runAudit(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting audit",
		"dataset", cfg.DatasetPath,
		"checks", cfg.Checks,
		"parallel", cfg.Parallel,
		"saveToDB", cfg.SaveToDB,
	)

	// Loading is fail-fast: a missing or malformed dataset aborts the
	// run before any check executes.
	ds, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		switch {
		case errors.Is(err, dataset.ErrDatasetNotFound):
			return fmt.Errorf("results file not found: %s", cfg.DatasetPath)
		case errors.Is(err, dataset.ErrParse):
			return fmt.Errorf("results file is not valid JSON: %w", err)
		case errors.Is(err, dataset.ErrSchema):
			return fmt.Errorf("results file has an unexpected shape: %w", err)
		default:
			return err
		}
	}

	// Open database connection if saving is enabled
	var db *database.AuditDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	battery, err := checks.Select(checks.DefaultBattery(cfg, logger), cfg.Checks)
	if err != nil {
		return err
	}

	runnerOpts := []checks.Option{
		checks.WithLogger(logger),
		checks.WithContinueOnError(true),
	}
	if cfg.Parallel {
		runnerOpts = append(runnerOpts, checks.WithConcurrency(cfg.Concurrency))
	}

	runner := checks.NewRunner(runnerOpts...)
	runner.AddChecks(battery...)

	auditReport := model.NewAuditReport(cfg.DatasetPath)

	fmt.Printf("Auditing %s (%d results)...\n", cfg.DatasetPath, len(ds.Results))
	startTime := time.Now()

	if err := runner.Execute(ctx, ds, auditReport); err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Audit completed in %s\n", elapsed.Round(time.Millisecond))

	auditReport.SimpleReport = model.NewSimpleReport(auditReport)

	if err := outputReport(cfg, auditReport); err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	inspectDomains(ds, cfg.InspectDomains)

	if err := saveAuditReport(ctx, db, auditReport, logger); err != nil {
		logger.Error("failed to save audit report", "dataset", auditReport.DatasetName, "error", err)
	}

	return nil
}

// outputReport outputs the audit report in the requested format.
func outputReport(cfg *config.Config, auditReport *model.AuditReport) error {
	if auditReport.SimpleReport == nil {
		auditReport.SimpleReport = model.NewSimpleReport(auditReport)
	}

	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with owner-only permissions
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output (detailed report with all data)
	if cfg.JSONReport {
		writer := report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
		_, err := writer.Write(auditReport)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(auditReport)
		return err
	}

	// Human-readable report (default)
	writer := report.NewSimpleWriter(output)
	_, err := writer.Write(auditReport)
	return err
}

// inspectDomains prints the recorded matchup and crew for the
// requested domains. This is a manual spot-check against schools the
// operator knows, independent of what the battery flags.
func inspectDomains(ds *model.Dataset, domains []string) {
	if len(domains) == 0 {
		return
	}

	fmt.Println("\nDomain inspection:")
	for _, domain := range domains {
		fmt.Printf("\n%s:\n", domain)

		found := false
		for i := range ds.Results {
			r := &ds.Results[i]
			if r.Domain != domain {
				continue
			}
			found = true

			if !r.Success {
				fmt.Println("  record present but not successful")
				continue
			}
			fmt.Printf("  %s vs %s\n", r.SchoolName(), r.Opponent())

			entries := r.NamedOfficials()
			if len(entries) == 0 {
				fmt.Println("  no officials extracted")
				continue
			}
			for _, e := range entries {
				fmt.Printf("    %-16s %s\n", e.Position+":", e.Name)
			}
		}

		if !found {
			fmt.Println("  not found in dataset")
		}
	}
}

// saveAuditReport saves the audit report to the database if enabled.
// If db is nil, this function is a no-op.
func saveAuditReport(ctx context.Context, db *database.AuditDB, auditReport *model.AuditReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	if auditReport.SimpleReport == nil {
		auditReport.SimpleReport = model.NewSimpleReport(auditReport)
	}

	if err := db.SaveAuditReport(ctx, auditReport); err != nil {
		return fmt.Errorf("failed to save audit report: %w", err)
	}

	logger.Info("audit report saved to database", "dataset", auditReport.DatasetName)
	return nil
}
