package model

import (
	"path/filepath"
	"time"
)

// AuditReport is the main audit result structure.
// It contains all information collected while running the check battery
// against one dataset. Each check fills in its own section; sections are
// disjoint so independent checks never write to the same field.
//
// Design decision: We use a single large struct rather than one result
// type per check to simplify serialization and database storage, the
// same trade-off the report writers and history DB rely on.
type AuditReport struct {
	// === Basic Information ===

	// DatasetPath is the path of the audited results file.
	DatasetPath string `json:"dataset_path"`

	// DatasetName identifies the dataset across runs (the file's base
	// name). The history database keys runs by this name.
	DatasetName string `json:"dataset_name"`

	// DateAudited is the timestamp when the audit was performed.
	DateAudited time.Time `json:"date_audited"`

	// TotalResults is the number of records in the dataset.
	TotalResults int `json:"total_results"`

	// SuccessfulResults is the number of records with success = true.
	// Only these contribute to any check.
	SuccessfulResults int `json:"successful_results"`

	// === Check Sections ===

	// NoOfficials lists successful records whose officials mapping is
	// empty or all-null, in input order.
	NoOfficials []NoOfficialsRecord `json:"no_officials,omitempty"`

	// NameStats holds the frequency statistics computed by the
	// suspicious-names check.
	NameStats *NameStats `json:"name_stats,omitempty"`

	// SuspiciousNames lists flagged official names in discovery order.
	// An entry matching several predicates appears once per reason.
	SuspiciousNames []SuspiciousName `json:"suspicious_names,omitempty"`

	// IdenticalCrews lists unordered domain pairs reporting the exact
	// same crew, each pair exactly once.
	IdenticalCrews []CrewPair `json:"identical_crews,omitempty"`

	// PositionCounts is the frequency distribution of non-null entries
	// per position label, descending by count.
	PositionCounts []PositionCount `json:"position_counts,omitempty"`

	// KeywordMatches lists names containing a test/debug keyword, one
	// entry per matching keyword.
	KeywordMatches []KeywordMatch `json:"keyword_matches,omitempty"`

	// PairChecks holds the known home/away pairing verifications.
	PairChecks []PairCheck `json:"pair_checks,omitempty"`

	// === Audit State ===

	// PerformedChecks lists the checks that actually ran, in order.
	PerformedChecks []string `json:"performed_checks,omitempty"`

	// SimpleReport contains the summarized findings for human-readable
	// output and run comparison.
	SimpleReport *SimpleReport `json:"simple_report,omitempty"`

	// Error contains any error that occurred while auditing.
	Error error `json:"-"` // Excluded from JSON

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// NoOfficialsRecord reports a successful record without any extracted
// official names.
type NoOfficialsRecord struct {
	// Domain is the school's web domain.
	Domain string `json:"domain"`

	// School is the display name, already defaulted to the domain.
	School string `json:"school"`

	// Opponent is the recorded opponent, already defaulted to "Unknown".
	Opponent string `json:"opponent"`
}

// SuspiciousName is one flagged official name.
// The same (domain, position, name) may appear more than once when it
// matches more than one predicate.
type SuspiciousName struct {
	// Domain is the school the name was extracted from.
	Domain string `json:"domain"`

	// Position is the officiating role label.
	Position string `json:"position"`

	// Name is the flagged official name.
	Name string `json:"name"`

	// Type is the finding type identifier (placeholder_name,
	// repeated_name, numbered_name).
	Type string `json:"type"`

	// Reason is the human-readable explanation of the flag.
	Reason string `json:"reason"`
}

// NameStats holds frequency statistics over all flattened official
// entries of the dataset.
type NameStats struct {
	// TotalOfficials is the number of flattened entries.
	TotalOfficials int `json:"total_officials"`

	// UniqueOfficials is the number of distinct names, case-sensitive.
	UniqueOfficials int `json:"unique_officials"`

	// TopNames lists the most frequent names by descending count, ties
	// broken by first appearance in the dataset.
	TopNames []NameCount `json:"top_names,omitempty"`

	// SampleNames is a uniformly random sample of names for manual
	// review. Non-deterministic unless a seed was fixed.
	SampleNames []string `json:"sample_names,omitempty"`

	// SingleWordNames lists entries whose name contains no whitespace.
	// The full list is kept here; writers cap the display.
	SingleWordNames []OfficialEntry `json:"single_word_names,omitempty"`
}

// NameCount is a name with its occurrence count.
type NameCount struct {
	// Name is the official name.
	Name string `json:"name"`

	// Count is how many entries carry this exact name.
	Count int `json:"count"`
}

// CrewPair reports two domains with identical officiating crews.
// DomainA sorts lexicographically before DomainB so the unordered pair
// has one canonical representation.
type CrewPair struct {
	// DomainA is the lexicographically smaller domain.
	DomainA string `json:"domain_a"`

	// DomainB is the lexicographically larger domain.
	DomainB string `json:"domain_b"`

	// Crew is the shared crew as sorted "position:name" tokens.
	Crew []string `json:"crew,omitempty"`
}

// PositionCount is a position label with its non-null entry count.
type PositionCount struct {
	// Position is the officiating role label.
	Position string `json:"position"`

	// Count is the number of non-null entries for this position.
	Count int `json:"count"`
}

// KeywordMatch reports a name containing a test/debug keyword.
type KeywordMatch struct {
	// Domain is the school the name was extracted from.
	Domain string `json:"domain"`

	// Position is the officiating role label.
	Position string `json:"position"`

	// Name is the matching official name.
	Name string `json:"name"`

	// Keyword is the keyword found inside the name.
	Keyword string `json:"keyword"`
}

// PairCheck is the verification result for one known home/away pairing.
type PairCheck struct {
	// HomeDomain and AwayDomain identify the pairing from the rule table.
	HomeDomain string `json:"home_domain"`
	AwayDomain string `json:"away_domain"`

	// HomeOpponent is the home side's recorded opponent, or "Not found"
	// when the domain is absent from the dataset.
	HomeOpponent string `json:"home_opponent"`

	// AwayOpponent is the away side's recorded opponent, or "Not found".
	AwayOpponent string `json:"away_opponent"`

	// HomeFound and AwayFound report whether each domain appeared in the
	// dataset with game info.
	HomeFound bool `json:"home_found"`
	AwayFound bool `json:"away_found"`

	// Confirmed is true when the substring heuristic indicates the two
	// sides are playing each other.
	Confirmed bool `json:"confirmed"`
}

// NotFoundOpponent is reported for a pairing side absent from the dataset.
const NotFoundOpponent = "Not found"

// NewAuditReport creates a new report for the given dataset path.
func NewAuditReport(datasetPath string) *AuditReport {
	return &AuditReport{
		DatasetPath: datasetPath,
		DatasetName: filepath.Base(datasetPath),
		DateAudited: time.Now(),
	}
}

// SetError records an audit error on the report.
func (r *AuditReport) SetError(err error) {
	r.Error = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}
