package model

import "time"

// SimpleReport is a summarized, human-readable report.
// It turns the per-check sections of an AuditReport into a flat list of
// typed findings with severity counts.
//
// Design decision: We create a separate summarized report rather than
// just printing parts of AuditReport because:
// 1. It provides a consistent, curated view of the most important findings
// 2. It can be serialized to JSON for tools that want structured but simple output
// 3. The run comparison works on findings, not on raw check sections
type SimpleReport struct {
	// DatasetName identifies the audited dataset.
	DatasetName string `json:"dataset_name"`

	// DatasetPath is the path of the audited results file.
	DatasetPath string `json:"dataset_path"`

	// DateAudited is when the audit was performed.
	DateAudited time.Time `json:"date_audited"`

	// === Dataset Summary ===

	// TotalResults is the number of records in the dataset.
	TotalResults int `json:"total_results"`

	// SuccessfulResults is the number of records with success = true.
	SuccessfulResults int `json:"successful_results"`

	// === Severity Summary ===

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

	// === Findings ===

	// Findings contains all categorized findings.
	Findings []Finding `json:"findings,omitempty"`

	// === Statistics Sections ===
	// Carried over verbatim from the AuditReport so writers only need
	// the SimpleReport.

	// NameStats holds the frequency statistics, when computed.
	NameStats *NameStats `json:"name_stats,omitempty"`

	// PositionCounts is the per-position frequency distribution.
	PositionCounts []PositionCount `json:"position_counts,omitempty"`

	// PairChecks holds the known home/away pairing verifications.
	PairChecks []PairCheck `json:"pair_checks,omitempty"`

	// PerformedChecks lists the checks that ran, in order.
	PerformedChecks []string `json:"performed_checks,omitempty"`

	// Error contains any error message if the audit failed.
	Error string `json:"error,omitempty"`
}

// Finding represents a single finding in the simple report.
type Finding struct {
	// Type is the finding type identifier.
	// This maps to the findingInfoMapping in severity.go.
	Type string `json:"type"`

	// Severity is the assessment level.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`

	// Title is a short description of the finding.
	Title string `json:"title"`

	// Description provides more detail about the finding.
	Description string `json:"description,omitempty"`

	// Impact explains why this finding matters for data quality.
	Impact string `json:"impact,omitempty"`

	// Recommendation provides guidance on how to address this finding.
	Recommendation string `json:"recommendation,omitempty"`

	// Value is the specific value found (a name, a domain pair, etc.).
	Value string `json:"value,omitempty"`

	// Location is where the finding was discovered, typically
	// "domain/position".
	Location string `json:"location,omitempty"`
}

// NewSimpleReport creates a new SimpleReport from an AuditReport.
// This extracts and summarizes key findings.
func NewSimpleReport(report *AuditReport) *SimpleReport {
	simple := &SimpleReport{
		DatasetName:       report.DatasetName,
		DatasetPath:       report.DatasetPath,
		DateAudited:       report.DateAudited,
		TotalResults:      report.TotalResults,
		SuccessfulResults: report.SuccessfulResults,
		NameStats:         report.NameStats,
		PositionCounts:    report.PositionCounts,
		PairChecks:        report.PairChecks,
		PerformedChecks:   report.PerformedChecks,
	}

	if report.Error != nil {
		simple.Error = report.Error.Error()
	}

	simple.collectFindings(report)
	simple.countBySeverity()

	return simple
}

// collectFindings converts the report's check sections into findings.
func (s *SimpleReport) collectFindings(report *AuditReport) {
	for _, rec := range report.NoOfficials {
		s.addFinding("no_officials", "No Officials Extracted",
			"Game found (vs "+rec.Opponent+") but no officials were extracted",
			rec.School, rec.Domain)
	}

	for _, sus := range report.SuspiciousNames {
		s.addFinding(sus.Type, "Suspicious Official Name",
			sus.Reason, sus.Name, sus.Domain+"/"+sus.Position)
	}

	if report.NameStats != nil {
		for _, entry := range report.NameStats.SingleWordNames {
			s.addFinding("single_word_name", "Single-Word Official Name",
				"Name contains no whitespace and may be incomplete",
				entry.Name, entry.Domain+"/"+entry.Position)
		}
	}

	for _, pair := range report.IdenticalCrews {
		s.addFinding("identical_crew", "Identical Officiating Crews",
			"Two schools report the exact same crew",
			pair.DomainA+" + "+pair.DomainB, "")
	}

	for _, match := range report.KeywordMatches {
		s.addFinding("keyword_name", "Test Keyword in Official Name",
			"Name contains the keyword \""+match.Keyword+"\"",
			match.Name, match.Domain+"/"+match.Position)
	}

	for _, check := range report.PairChecks {
		switch {
		case !check.HomeFound:
			s.addFinding("pair_missing", "Known Pairing Side Missing",
				"Domain from the known-pairing table is absent from the dataset",
				check.HomeDomain, "")
		case !check.AwayFound:
			s.addFinding("pair_missing", "Known Pairing Side Missing",
				"Domain from the known-pairing table is absent from the dataset",
				check.AwayDomain, "")
		case !check.Confirmed:
			s.addFinding("pair_unconfirmed", "Known Pairing Not Confirmed",
				"Recorded opponents do not reference each other",
				check.HomeDomain+" vs "+check.AwayDomain, "")
		}
	}
}

// addFinding adds a finding to the report.
func (s *SimpleReport) addFinding(findingType, title, description, value, location string) {
	info := GetFindingInfo(findingType)
	s.Findings = append(s.Findings, Finding{
		Type:           findingType,
		Severity:       info.Severity,
		SeverityText:   info.Severity.String(),
		Title:          title,
		Description:    description,
		Impact:         info.Impact,
		Recommendation: info.Recommendation,
		Value:          value,
		Location:       location,
	})
}

// countBySeverity counts findings by severity level.
func (s *SimpleReport) countBySeverity() {
	for _, f := range s.Findings {
		switch f.Severity {
		case SeverityCritical:
			s.CriticalCount++
		case SeverityHigh:
			s.HighCount++
		case SeverityMedium:
			s.MediumCount++
		case SeverityLow:
			s.LowCount++
		case SeverityInfo:
			s.InfoCount++
		}
	}
}

// TotalFindings returns the total number of findings.
func (s *SimpleReport) TotalFindings() int {
	return len(s.Findings)
}

// HasFindings returns true if there are any findings.
func (s *SimpleReport) HasFindings() bool {
	return len(s.Findings) > 0
}

// GetFindingsBySeverity returns findings filtered by severity.
func (s *SimpleReport) GetFindingsBySeverity(severity Severity) []Finding {
	var result []Finding
	for _, f := range s.Findings {
		if f.Severity == severity {
			result = append(result, f)
		}
	}
	return result
}
