package model

// Severity represents how strongly a finding suggests bad extraction data.
// This allows categorizing findings by how much manual review they warrant.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityInfo indicates informational findings with no direct quality impact.
	// Examples: frequent names, confirmed home/away pairings.
	SeverityInfo Severity = iota

	// SeverityLow indicates minor oddities with limited impact.
	// Examples: single-word names, identical crews (plausible for two
	// schools playing each other).
	SeverityLow

	// SeverityMedium indicates data that warrants manual review.
	// Examples: repeated-word names, names with trailing digits, games
	// found with no officials extracted.
	SeverityMedium

	// SeverityHigh indicates data that is almost certainly not real.
	// Examples: placeholder names, test/debug keywords inside names.
	SeverityHigh

	// SeverityCritical is reserved for findings that invalidate a whole
	// dataset. No current check produces it, but the scale supports it.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// FindingInfo contains metadata about a finding type including severity,
// impact description, and remediation recommendation.
type FindingInfo struct {
	Severity       Severity
	Impact         string
	Recommendation string
}

// findingInfoMapping maps finding types to their metadata.
// This centralized mapping ensures consistent assessment across the
// application.
//
// Design decision: We use a map rather than embedding severity in each
// finding type because:
// 1. It allows updating assessments without modifying type definitions
// 2. It provides a single source of truth for severity levels
// 3. It makes it easy to generate severity documentation
var findingInfoMapping = map[string]FindingInfo{
	// HIGH - almost certainly fake data
	"placeholder_name": {
		Severity:       SeverityHigh,
		Impact:         "A well-known placeholder name reached the results, meaning the extractor captured template or sample content instead of a real crew.",
		Recommendation: "Inspect the source page and tighten the extraction selector so template content is skipped.",
	},
	"keyword_name": {
		Severity:       SeverityHigh,
		Impact:         "The name contains a test or debug keyword, suggesting fixture data leaked into the results.",
		Recommendation: "Re-run the extraction for this site and verify the page is not serving test content.",
	},

	// MEDIUM - warrants manual review
	"no_officials": {
		Severity:       SeverityMedium,
		Impact:         "The site returned a game but no official names were extracted, so the crew for this game is missing from the dataset.",
		Recommendation: "Check whether the site publishes officials at all; if it does, adjust the extractor for its page layout.",
	},
	"repeated_name": {
		Severity:       SeverityMedium,
		Impact:         "Both words of the name are identical, a common artifact of a field being pasted twice by the extractor.",
		Recommendation: "Compare the extracted name against the page to see which half is real.",
	},
	"numbered_name": {
		Severity:       SeverityMedium,
		Impact:         "The name ends in digits, which real names do not; the extractor likely captured a templated label such as \"Referee 2\".",
		Recommendation: "Review the source page and exclude numbered role labels from name extraction.",
	},
	"pair_unconfirmed": {
		Severity:       SeverityMedium,
		Impact:         "Two schools expected to be playing each other report opponents that do not reference one another, so at least one side's game data is off.",
		Recommendation: "Manually verify both schools' schedules for the date of the extraction run.",
	},

	// LOW - minor oddities
	"identical_crew": {
		Severity:       SeverityLow,
		Impact:         "Two schools report the exact same officiating crew. Legitimate when they played each other, suspicious otherwise.",
		Recommendation: "Confirm the two schools were opponents in the same game.",
	},
	"single_word_name": {
		Severity:       SeverityLow,
		Impact:         "The name has no whitespace and may be an incomplete extraction (surname only or a truncated field).",
		Recommendation: "Spot-check the source page for the full name.",
	},
	"pair_missing": {
		Severity:       SeverityLow,
		Impact:         "A school from the known-pairing table is absent from the dataset, so its side of the matchup cannot be verified.",
		Recommendation: "Check whether the extraction run covered this domain.",
	},
}

// GetFindingInfo returns the metadata for a finding type.
// Unknown types default to SeverityInfo with empty guidance.
func GetFindingInfo(findingType string) FindingInfo {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info
	}
	return FindingInfo{Severity: SeverityInfo}
}
