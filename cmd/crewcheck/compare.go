package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/offscrape/crewcheck/internal/config"
	"github.com/offscrape/crewcheck/internal/database"
	"github.com/offscrape/crewcheck/internal/model"
	"github.com/spf13/cobra"
)

// Constants for quality direction and summary messages.
const (
	qualityDirectionWorsened  = "worsened"
	qualityDirectionImproved  = "improved"
	qualityDirectionUnchanged = "unchanged"
	noFindingsMessage         = "No findings"
)

// NewCompareCmd creates the compare command.
// This command compares audit results with historical runs stored in the database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [dataset]",
		Short: "Compare audit results with historical runs",
		Long: `Compare displays differences between the current and previous audit runs.

This command retrieves historical audit data from the database and shows:
- New findings that appeared since the last run
- Resolved findings that are no longer present
- Changes in finding severity counts

The comparison requires at least two runs in the database for the specified
dataset. Use 'crewcheck audit' to run audits and save results.

Examples:
  # Compare the latest two runs for a dataset
  crewcheck compare results.json

  # List all run history for a dataset
  crewcheck compare --list results.json

  # Compare with a specific historical run by ID
  crewcheck compare --with-run-id 5 results.json

  # Compare runs since a specific date
  crewcheck compare --since "2026-01-01" results.json

  # Output comparison in JSON format
  crewcheck compare --json results.json

  # List all audited datasets in the database
  crewcheck compare --list-datasets`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List run history for the specified dataset")
	cmd.Flags().BoolP("list-datasets", "L", false,
		"List all audited datasets in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare with a specific run by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first run after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	// Handle --list-datasets flag first (requires database but no dataset)
	listDatasets, err := cmd.Flags().GetBool("list-datasets")
	if err != nil {
		return err
	}

	// Validate arguments before opening database (unless --list-datasets)
	var datasetName string
	if !listDatasets {
		if len(args) == 0 {
			return errors.New("dataset is required (use --list-datasets to see available datasets)")
		}
		// Runs are keyed by the file's base name, so a full path works too
		datasetName = filepath.Base(args[0])
	}

	// Use XDG data directory for database
	dbDir := config.XDGDataDir()

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listDatasets {
		return listAuditedDatasets(ctx, db)
	}

	// Handle --list flag
	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listRunHistory(ctx, db, datasetName)
	}

	// Get output format flags
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	// Get comparison target flags
	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, datasetName, withRunID, sinceDate, jsonOutput, markdownOutput)
}

// listAuditedDatasets lists all datasets that have audit records in the database.
func listAuditedDatasets(ctx context.Context, db *database.AuditDB) error {
	datasets, err := db.ListDatasets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list datasets: %w", err)
	}

	if len(datasets) == 0 {
		fmt.Println("No audited datasets found in the database.")
		fmt.Println("\nUse 'crewcheck audit <file>' to audit a results file.")
		return nil
	}

	fmt.Printf("Audited datasets (%d):\n\n", len(datasets))
	for _, ds := range datasets {
		fmt.Printf("  • %s\n", ds)
	}
	fmt.Println("\nUse 'crewcheck compare --list <dataset>' to see run history for a dataset.")

	return nil
}

// listRunHistory lists all audit records for a specific dataset.
func listRunHistory(ctx context.Context, db *database.AuditDB, datasetName string) error {
	runs, err := db.GetAuditHistoryWithMetadata(ctx, datasetName)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Printf("No run history found for %s\n", datasetName)
		fmt.Println("\nUse 'crewcheck audit' to audit this dataset.")
		return nil
	}

	fmt.Printf("Run history for %s (%d runs):\n\n", datasetName, len(runs))
	fmt.Printf("  %-6s  %-20s  %s\n", "ID", "Date", "Finding Summary")
	fmt.Println("  " + strings.Repeat("-", 60))

	for _, meta := range runs {
		fmt.Printf("  %-6d  %-20s  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			formatFindingSummary(meta.FindingSummary),
		)
	}

	fmt.Println("\nUse 'crewcheck compare <dataset>' to compare the latest two runs.")
	fmt.Println("Use 'crewcheck compare --with-run-id <id> <dataset>' to compare with a specific run.")

	return nil
}

// formatFindingSummary formats the finding summary map into a human-readable string.
func formatFindingSummary(summary map[string]int) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	if v := summary["critical"]; v > 0 {
		parts = append(parts, fmt.Sprintf("C:%d", v))
	}
	if v := summary["high"]; v > 0 {
		parts = append(parts, fmt.Sprintf("H:%d", v))
	}
	if v := summary["medium"]; v > 0 {
		parts = append(parts, fmt.Sprintf("M:%d", v))
	}
	if v := summary["low"]; v > 0 {
		parts = append(parts, fmt.Sprintf("L:%d", v))
	}
	if v := summary["info"]; v > 0 {
		parts = append(parts, fmt.Sprintf("I:%d", v))
	}

	if len(parts) == 0 {
		return noFindingsMessage
	}
	return strings.Join(parts, " ")
}

// runComparison performs the actual comparison between audit runs.
func runComparison(ctx context.Context, db *database.AuditDB, datasetName string, withRunID int64, sinceDate string, jsonOutput, markdownOutput bool) error {
	reports, err := db.GetAuditHistory(ctx, datasetName)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(reports) == 0 {
		return fmt.Errorf("no run history found for %s", datasetName)
	}

	if len(reports) < 2 && withRunID == 0 && sinceDate == "" {
		return fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(reports))
	}

	// Determine which reports to compare
	var currentReport, previousReport *model.AuditReport

	// Latest run is always the current one
	currentReport = reports[0]

	if withRunID > 0 {
		previousReport, err = db.GetAuditReportByID(ctx, withRunID)
		if err != nil {
			return fmt.Errorf("failed to get run with ID %d: %w", withRunID, err)
		}
		if previousReport == nil {
			return fmt.Errorf("run with ID %d not found", withRunID)
		}
		// Validate that the run ID belongs to the same dataset
		if previousReport.DatasetName != datasetName {
			return fmt.Errorf("run ID %d belongs to %s, not %s", withRunID, previousReport.DatasetName, datasetName)
		}
	} else if sinceDate != "" {
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// Reports are sorted by timestamp DESC (newest first), so iterate in
		// reverse to find the first (oldest) run at or after the date
		for i := len(reports) - 1; i >= 0; i-- {
			r := reports[i]
			if r.DateAudited.After(parsedDate) || r.DateAudited.Equal(parsedDate) {
				previousReport = r
				break
			}
		}
		if previousReport == nil {
			return fmt.Errorf("no runs found since %s", sinceDate)
		}
		if previousReport == currentReport {
			return fmt.Errorf("only one run found since %s; at least 2 runs are required for comparison", sinceDate)
		}
	} else {
		// Default: compare with the previous run
		previousReport = reports[1]
	}

	comparison := compareReports(previousReport, currentReport)

	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	if markdownOutput {
		return outputComparisonMarkdown(comparison)
	}
	return outputComparisonText(comparison)
}

// ComparisonResult holds the result of comparing two audit runs.
type ComparisonResult struct {
	// Dataset is the audited dataset name.
	Dataset string `json:"dataset"`

	// PreviousRun contains metadata about the previous run.
	PreviousRun RunSummary `json:"previous_run"`

	// CurrentRun contains metadata about the current run.
	CurrentRun RunSummary `json:"current_run"`

	// NewFindings contains findings that are new in the current run.
	NewFindings []model.Finding `json:"new_findings,omitempty"`

	// ResolvedFindings contains findings that were in the previous run but not in current.
	ResolvedFindings []model.Finding `json:"resolved_findings,omitempty"`

	// UnchangedCount is the number of findings that remain unchanged.
	UnchangedCount int `json:"unchanged_count"`

	// QualityChange describes the overall change in dataset quality.
	QualityChange QualityChange `json:"quality_change"`
}

// RunSummary contains metadata about an audit run for comparison display.
type RunSummary struct {
	// DateAudited is when the audit was performed.
	DateAudited time.Time `json:"date_audited"`

	// TotalFindings is the total number of findings in this run.
	TotalFindings int `json:"total_findings"`

	// CriticalCount is the number of critical findings.
	CriticalCount int `json:"critical_count"`

	// HighCount is the number of high severity findings.
	HighCount int `json:"high_count"`

	// MediumCount is the number of medium severity findings.
	MediumCount int `json:"medium_count"`

	// LowCount is the number of low severity findings.
	LowCount int `json:"low_count"`

	// InfoCount is the number of informational findings.
	InfoCount int `json:"info_count"`
}

// QualityChange describes the change in dataset quality between runs.
type QualityChange struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// CriticalDelta is the change in critical findings count.
	CriticalDelta int `json:"critical_delta"`

	// HighDelta is the change in high severity findings count.
	HighDelta int `json:"high_delta"`

	// MediumDelta is the change in medium severity findings count.
	MediumDelta int `json:"medium_delta"`

	// LowDelta is the change in low severity findings count.
	LowDelta int `json:"low_delta"`

	// InfoDelta is the change in informational findings count.
	InfoDelta int `json:"info_delta"`
}

// compareReports compares two audit runs and generates a comparison result.
func compareReports(previous, current *model.AuditReport) *ComparisonResult {
	result := &ComparisonResult{
		Dataset: current.DatasetName,
	}

	result.PreviousRun = runSummary(previous)
	result.CurrentRun = runSummary(current)

	// Build finding maps for comparison
	previousFindings := make(map[string]model.Finding)
	currentFindings := make(map[string]model.Finding)

	if previous.SimpleReport != nil {
		for _, f := range previous.SimpleReport.Findings {
			previousFindings[findingKey(f)] = f
		}
	}

	if current.SimpleReport != nil {
		for _, f := range current.SimpleReport.Findings {
			currentFindings[findingKey(f)] = f
		}
	}

	// Find new findings (in current but not in previous)
	for key, finding := range currentFindings {
		if _, exists := previousFindings[key]; !exists {
			result.NewFindings = append(result.NewFindings, finding)
		}
	}

	// Find resolved findings (in previous but not in current)
	for key, finding := range previousFindings {
		if _, exists := currentFindings[key]; !exists {
			result.ResolvedFindings = append(result.ResolvedFindings, finding)
		} else {
			result.UnchangedCount++
		}
	}

	result.QualityChange = calculateQualityChange(result.PreviousRun, result.CurrentRun)

	return result
}

// runSummary extracts the severity counts of a stored run.
func runSummary(report *model.AuditReport) RunSummary {
	if report.SimpleReport == nil {
		return RunSummary{DateAudited: report.DateAudited}
	}
	return RunSummary{
		DateAudited:   report.DateAudited,
		TotalFindings: len(report.SimpleReport.Findings),
		CriticalCount: report.SimpleReport.CriticalCount,
		HighCount:     report.SimpleReport.HighCount,
		MediumCount:   report.SimpleReport.MediumCount,
		LowCount:      report.SimpleReport.LowCount,
		InfoCount:     report.SimpleReport.InfoCount,
	}
}

// findingKey generates a unique key for a finding for comparison purposes.
func findingKey(f model.Finding) string {
	return f.Type + "|" + f.Value + "|" + f.Location
}

// calculateQualityChange calculates the change in quality between two runs.
func calculateQualityChange(previous, current RunSummary) QualityChange {
	change := QualityChange{
		CriticalDelta: current.CriticalCount - previous.CriticalCount,
		HighDelta:     current.HighCount - previous.HighCount,
		MediumDelta:   current.MediumCount - previous.MediumCount,
		LowDelta:      current.LowCount - previous.LowCount,
		InfoDelta:     current.InfoCount - previous.InfoCount,
	}

	// Determine overall direction based on weighted score
	// Critical and High severity changes have more weight
	previousScore := previous.CriticalCount*100 + previous.HighCount*50 + previous.MediumCount*10 + previous.LowCount*5 + previous.InfoCount
	currentScore := current.CriticalCount*100 + current.HighCount*50 + current.MediumCount*10 + current.LowCount*5 + current.InfoCount

	if currentScore < previousScore {
		change.Direction = qualityDirectionImproved
	} else if currentScore > previousScore {
		change.Direction = qualityDirectionWorsened
	} else {
		change.Direction = qualityDirectionUnchanged
	}

	return change
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(result *ComparisonResult) error {
	fmt.Printf("# Audit Comparison: %s\n\n", result.Dataset)

	// Quality change summary
	fmt.Println("## Summary")
	fmt.Printf("\n**Quality Status:** %s\n\n", formatQualityDirection(result.QualityChange.Direction))

	// Run metadata table
	fmt.Println("| Metric | Previous | Current | Change |")
	fmt.Println("|--------|----------|---------|--------|")
	fmt.Printf("| Date | %s | %s | - |\n",
		result.PreviousRun.DateAudited.Format("2006-01-02 15:04"),
		result.CurrentRun.DateAudited.Format("2006-01-02 15:04"))
	fmt.Printf("| Critical | %d | %d | %s |\n",
		result.PreviousRun.CriticalCount,
		result.CurrentRun.CriticalCount,
		formatDelta(result.QualityChange.CriticalDelta))
	fmt.Printf("| High | %d | %d | %s |\n",
		result.PreviousRun.HighCount,
		result.CurrentRun.HighCount,
		formatDelta(result.QualityChange.HighDelta))
	fmt.Printf("| Medium | %d | %d | %s |\n",
		result.PreviousRun.MediumCount,
		result.CurrentRun.MediumCount,
		formatDelta(result.QualityChange.MediumDelta))
	fmt.Printf("| Low | %d | %d | %s |\n",
		result.PreviousRun.LowCount,
		result.CurrentRun.LowCount,
		formatDelta(result.QualityChange.LowDelta))
	fmt.Printf("| Info | %d | %d | %s |\n",
		result.PreviousRun.InfoCount,
		result.CurrentRun.InfoCount,
		formatDelta(result.QualityChange.InfoDelta))
	fmt.Printf("| **Total** | **%d** | **%d** | **%s** |\n",
		result.PreviousRun.TotalFindings,
		result.CurrentRun.TotalFindings,
		formatDelta(result.CurrentRun.TotalFindings-result.PreviousRun.TotalFindings))

	// New findings
	if len(result.NewFindings) > 0 {
		fmt.Printf("\n## New Findings (%d)\n\n", len(result.NewFindings))
		for _, f := range result.NewFindings {
			fmt.Printf("- **[%s]** %s: %s\n", f.SeverityText, f.Title, f.Value)
			if f.Location != "" {
				fmt.Printf("  - Location: `%s`\n", f.Location)
			}
		}
	}

	// Resolved findings
	if len(result.ResolvedFindings) > 0 {
		fmt.Printf("\n## Resolved Findings (%d)\n\n", len(result.ResolvedFindings))
		for _, f := range result.ResolvedFindings {
			fmt.Printf("- ~~**[%s]** %s: %s~~\n", f.SeverityText, f.Title, f.Value)
		}
	}

	// Unchanged count
	if result.UnchangedCount > 0 {
		fmt.Printf("\n---\n\n*%d findings unchanged*\n", result.UnchangedCount)
	}

	return nil
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Audit Comparison: %s\n", result.Dataset)
	fmt.Println(strings.Repeat("=", 60))

	// Quality change summary
	fmt.Printf("\nQuality Status: %s\n", formatQualityDirection(result.QualityChange.Direction))

	// Run dates
	fmt.Printf("\nPrevious run: %s\n", result.PreviousRun.DateAudited.Format("2006-01-02 15:04:05"))
	fmt.Printf("Current run:  %s\n", result.CurrentRun.DateAudited.Format("2006-01-02 15:04:05"))

	// Summary table
	fmt.Println("\nFindings Summary:")
	fmt.Printf("  %-10s  %-10s  %-10s  %-10s\n", "Severity", "Previous", "Current", "Change")
	fmt.Println("  " + strings.Repeat("-", 45))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Critical",
		result.PreviousRun.CriticalCount, result.CurrentRun.CriticalCount,
		formatDelta(result.QualityChange.CriticalDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "High",
		result.PreviousRun.HighCount, result.CurrentRun.HighCount,
		formatDelta(result.QualityChange.HighDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Medium",
		result.PreviousRun.MediumCount, result.CurrentRun.MediumCount,
		formatDelta(result.QualityChange.MediumDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Low",
		result.PreviousRun.LowCount, result.CurrentRun.LowCount,
		formatDelta(result.QualityChange.LowDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Info",
		result.PreviousRun.InfoCount, result.CurrentRun.InfoCount,
		formatDelta(result.QualityChange.InfoDelta))
	fmt.Println("  " + strings.Repeat("-", 45))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Total",
		result.PreviousRun.TotalFindings, result.CurrentRun.TotalFindings,
		formatDelta(result.CurrentRun.TotalFindings-result.PreviousRun.TotalFindings))

	// New findings
	if len(result.NewFindings) > 0 {
		fmt.Printf("\nNew Findings (%d):\n", len(result.NewFindings))
		for _, f := range result.NewFindings {
			fmt.Printf("  [+] [%s] %s: %s\n", f.SeverityText, f.Title, f.Value)
			if f.Location != "" {
				fmt.Printf("      Location: %s\n", f.Location)
			}
		}
	}

	// Resolved findings
	if len(result.ResolvedFindings) > 0 {
		fmt.Printf("\nResolved Findings (%d):\n", len(result.ResolvedFindings))
		for _, f := range result.ResolvedFindings {
			fmt.Printf("  [-] [%s] %s: %s\n", f.SeverityText, f.Title, f.Value)
		}
	}

	// Unchanged count
	if result.UnchangedCount > 0 {
		fmt.Printf("\nUnchanged: %d findings\n", result.UnchangedCount)
	}

	return nil
}

// formatQualityDirection formats the quality change direction for display.
func formatQualityDirection(direction string) string {
	switch direction {
	case qualityDirectionImproved:
		return "IMPROVED (fewer problems)"
	case qualityDirectionWorsened:
		return "WORSENED (more problems)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
