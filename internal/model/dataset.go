package model

import (
	"sort"
	"strings"
)

// Default substitution values for absent record fields.
// Absent or null fields never cause an error; these defaults are
// substituted instead. This tolerance is deliberate: the extractor
// emits sparse records and the auditor must accept all of them.
const (
	// UnknownOpponent is substituted when a record has no opponent.
	UnknownOpponent = "Unknown"
)

// Dataset is the root structure of an extraction results file.
// Only the results sequence is consumed; any sibling metadata in the
// file is ignored. The dataset is loaded once per run and treated as
// immutable afterwards.
type Dataset struct {
	// Results holds one GameResult per scraped school site.
	Results []GameResult `json:"results"`
}

// GameResult represents one school's scraped game page outcome.
type GameResult struct {
	// Domain is the school's web domain, the primary identifier for the
	// record. Unique in practice but not enforced.
	Domain string `json:"domain"`

	// Success reports whether the extraction run succeeded for this site.
	// Unsuccessful records never contribute to any check.
	Success bool `json:"success"`

	// School is the display name. Falls back to Domain when absent.
	School string `json:"school,omitempty"`

	// GameInfo describes the game found on the page, if any.
	GameInfo *GameInfo `json:"gameInfo,omitempty"` //nolint:tagliatelle // wire format is camelCase

	// Officials maps a position name (e.g. "referee") to the extracted
	// official name. Values are nullable: the extractor records a
	// position it recognized even when it failed to read a name.
	Officials map[string]*string `json:"officials,omitempty"`
}

// GameInfo holds details of the game found on a school's page.
type GameInfo struct {
	// Opponent is the opposing team as printed on the page.
	Opponent string `json:"opponent,omitempty"`
}

// OfficialEntry is a flattened (domain, position, name) triple derived
// from the officials mapping of a successful record. Entries are not
// persisted; they are recomputed from the dataset on each run.
type OfficialEntry struct {
	// Domain is the school the entry was extracted from.
	Domain string `json:"domain"`

	// Position is the officiating role label (e.g. "referee", "umpire").
	Position string `json:"position"`

	// Name is the official's extracted name. Always non-empty.
	Name string `json:"name"`
}

// SchoolName returns the display name, falling back to the domain.
func (r *GameResult) SchoolName() string {
	if r.School != "" {
		return r.School
	}
	return r.Domain
}

// Opponent returns the recorded opponent, or UnknownOpponent when the
// record has no game info or no opponent.
func (r *GameResult) Opponent() string {
	if r.GameInfo == nil || r.GameInfo.Opponent == "" {
		return UnknownOpponent
	}
	return r.GameInfo.Opponent
}

// HasExtractedOfficials reports whether the officials mapping contains
// at least one non-null value. An empty string still counts as
// extracted: the extractor found the field but the value is dubious,
// which is a different failure mode than finding nothing at all.
func (r *GameResult) HasExtractedOfficials() bool {
	for _, name := range r.Officials {
		if name != nil {
			return true
		}
	}
	return false
}

// NamedOfficials flattens the record's officials mapping into entries,
// skipping null and empty names. Positions are sorted lexicographically
// so the flattening order is deterministic (Go maps do not preserve the
// JSON key order of the input file).
func (r *GameResult) NamedOfficials() []OfficialEntry {
	if len(r.Officials) == 0 {
		return nil
	}

	positions := make([]string, 0, len(r.Officials))
	for position := range r.Officials {
		positions = append(positions, position)
	}
	sort.Strings(positions)

	entries := make([]OfficialEntry, 0, len(positions))
	for _, position := range positions {
		name := r.Officials[position]
		if name == nil || *name == "" {
			continue
		}
		entries = append(entries, OfficialEntry{
			Domain:   r.Domain,
			Position: position,
			Name:     *name,
		})
	}
	return entries
}

// CrewTokens returns the record's officiating crew as sorted
// "position:name" tokens, one per non-null named official. Two records
// with the same crew produce identical token slices regardless of the
// order their officials appeared in the input.
func (r *GameResult) CrewTokens() []string {
	entries := r.NamedOfficials()
	if len(entries) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(entries))
	for _, e := range entries {
		tokens = append(tokens, e.Position+":"+e.Name)
	}
	sort.Strings(tokens)
	return tokens
}

// CrewKey returns a canonical string key for the record's crew, usable
// for equality-based grouping. Empty when the record has no named
// officials.
func (r *GameResult) CrewKey() string {
	return strings.Join(r.CrewTokens(), "\n")
}

// SuccessCount returns the number of successful records.
func (d *Dataset) SuccessCount() int {
	count := 0
	for i := range d.Results {
		if d.Results[i].Success {
			count++
		}
	}
	return count
}

// NamedOfficials flattens all successful records into official entries,
// in dataset order with positions sorted within each record.
func (d *Dataset) NamedOfficials() []OfficialEntry {
	var entries []OfficialEntry
	for i := range d.Results {
		if !d.Results[i].Success {
			continue
		}
		entries = append(entries, d.Results[i].NamedOfficials()...)
	}
	return entries
}
