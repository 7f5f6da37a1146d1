package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/offscrape/crewcheck/internal/config"
	"github.com/offscrape/crewcheck/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting and visual severity indicators.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
// It generates a SimpleReport from the AuditReport if not already present.
func (w *SimpleWriter) Write(report *model.AuditReport) (int, error) {
	simple := report.SimpleReport
	if simple == nil {
		simple = model.NewSimpleReport(report)
	}

	return w.WriteSimple(simple)
}

// WriteSimple outputs the simple report in human-readable format.
func (w *SimpleWriter) WriteSimple(report *model.SimpleReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeNameStats(&sb, report)
	w.writeFindings(&sb, report)
	w.writePositions(&sb, report)
	w.writePairChecks(&sb, report)
	w.writeFooter(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with audit information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.SimpleReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         CREWCHECK REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Dataset:        %s\n", report.DatasetName))
	sb.WriteString(fmt.Sprintf("Audit Date:     %s\n", report.DateAudited.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Total Results:  %d\n", report.TotalResults))
	sb.WriteString(fmt.Sprintf("Successful:     %d\n", report.SuccessfulResults))

	if report.Error != "" {
		sb.WriteString(fmt.Sprintf("Status:         ERROR - %s\n", report.Error))
	} else {
		sb.WriteString("Status:         Complete\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the severity summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.SimpleReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SEVERITY SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  CRITICAL: %d\n", report.CriticalCount))
	sb.WriteString(fmt.Sprintf("  HIGH:     %d\n", report.HighCount))
	sb.WriteString(fmt.Sprintf("  MEDIUM:   %d\n", report.MediumCount))
	sb.WriteString(fmt.Sprintf("  LOW:      %d\n", report.LowCount))
	sb.WriteString(fmt.Sprintf("  INFO:     %d\n", report.InfoCount))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  TOTAL:    %d findings\n", report.TotalFindings()))
	sb.WriteString("\n")
}

// writeNameStats writes the official name statistics section.
func (w *SimpleWriter) writeNameStats(sb *strings.Builder, report *model.SimpleReport) {
	stats := report.NameStats
	if stats == nil {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("NAME STATISTICS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Total officials extracted:  %d\n", stats.TotalOfficials))
	sb.WriteString(fmt.Sprintf("  Unique names:               %d\n", stats.UniqueOfficials))
	sb.WriteString("\n")

	if len(stats.TopNames) > 0 {
		sb.WriteString("  Most frequent names:\n")
		for _, nc := range stats.TopNames {
			sb.WriteString(fmt.Sprintf("    %4dx %s\n", nc.Count, nc.Name))
		}
		sb.WriteString("\n")
	}

	if len(stats.SampleNames) > 0 {
		sb.WriteString(fmt.Sprintf("  Random sample (%d names for manual review):\n", len(stats.SampleNames)))
		for _, name := range stats.SampleNames {
			sb.WriteString(fmt.Sprintf("    - %s\n", name))
		}
		sb.WriteString("\n")
	}

	if len(stats.SingleWordNames) > 0 {
		sb.WriteString(fmt.Sprintf("  Single-word names (%d total):\n", len(stats.SingleWordNames)))
		shown := stats.SingleWordNames
		if len(shown) > config.DefaultSingleWordDisplay {
			shown = shown[:config.DefaultSingleWordDisplay]
		}
		for _, entry := range shown {
			sb.WriteString(fmt.Sprintf("    - %s (%s/%s)\n", entry.Name, entry.Domain, entry.Position))
		}
		if rest := len(stats.SingleWordNames) - len(shown); rest > 0 {
			sb.WriteString(fmt.Sprintf("    ...and %d more\n", rest))
		}
		sb.WriteString("\n")
	}
}

// writeFindings writes all findings grouped by severity.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, report *model.SimpleReport) {
	if !report.HasFindings() && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FINDINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	// Write findings in order of severity (critical first)
	severities := []model.Severity{
		model.SeverityCritical,
		model.SeverityHigh,
		model.SeverityMedium,
		model.SeverityLow,
		model.SeverityInfo,
	}

	for _, severity := range severities {
		findings := report.GetFindingsBySeverity(severity)
		if len(findings) == 0 && !w.showEmpty {
			continue
		}

		w.writeFindingsForSeverity(sb, severity, findings)
	}
}

// writeFindingsForSeverity writes findings of a specific severity level.
func (w *SimpleWriter) writeFindingsForSeverity(sb *strings.Builder, severity model.Severity, findings []model.Finding) {
	indicator := w.getSeverityIndicator(severity)
	sb.WriteString(fmt.Sprintf("[%s] %s\n", indicator, severity.String()))

	if len(findings) == 0 {
		sb.WriteString("  No findings\n\n")
		return
	}

	for _, finding := range findings {
		sb.WriteString(fmt.Sprintf("  * %s\n", finding.Title))
		if finding.Value != "" {
			sb.WriteString(fmt.Sprintf("    Value: %s\n", finding.Value))
		}
		if finding.Location != "" {
			sb.WriteString(fmt.Sprintf("    Location: %s\n", finding.Location))
		}
		if w.verbose && finding.Description != "" {
			sb.WriteString(fmt.Sprintf("    Description: %s\n", finding.Description))
		}
	}
	sb.WriteString("\n")
}

// getSeverityIndicator returns a visual indicator for the severity level.
func (w *SimpleWriter) getSeverityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "!!!"
	case model.SeverityHigh:
		return "!!"
	case model.SeverityMedium:
		return "!"
	case model.SeverityLow:
		return "-"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}

// writePositions writes the position frequency section.
func (w *SimpleWriter) writePositions(sb *strings.Builder, report *model.SimpleReport) {
	if len(report.PositionCounts) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("POSITION FREQUENCY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.PositionCounts) == 0 {
		sb.WriteString("  No positions extracted\n")
	} else {
		for _, pc := range report.PositionCounts {
			sb.WriteString(fmt.Sprintf("  %4dx %s\n", pc.Count, pc.Position))
		}
	}
	sb.WriteString("\n")
}

// writePairChecks writes the known-pairing verification section.
func (w *SimpleWriter) writePairChecks(sb *strings.Builder, report *model.SimpleReport) {
	if len(report.PairChecks) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("KNOWN PAIRINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, check := range report.PairChecks {
		status := "NOT CONFIRMED"
		if check.Confirmed {
			status = "CONFIRMED"
		}
		sb.WriteString(fmt.Sprintf("  [%s] %s vs %s\n", status, check.HomeDomain, check.AwayDomain))
		sb.WriteString(fmt.Sprintf("    %s opponent: %s\n", check.HomeDomain, check.HomeOpponent))
		sb.WriteString(fmt.Sprintf("    %s opponent: %s\n", check.AwayDomain, check.AwayOpponent))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, _ *model.SimpleReport) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by crewcheck\n")
	sb.WriteString("https://github.com/offscrape/crewcheck\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
