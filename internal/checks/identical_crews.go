package checks

import (
	"context"
	"log/slog"
	"sort"

	"github.com/offscrape/crewcheck/internal/model"
)

// IdenticalCrewsCheck finds pairs of schools reporting the exact same
// officiating crew, and computes the per-position frequency
// distribution as a sanity signal that extraction is roughly uniform
// across roles.
//
// An identical crew is plausible when the two schools played each
// other (both sides published the same game) and suspicious otherwise.
//
// Design decision: Records are grouped by a canonical sorted token-set
// key instead of comparing every pair of domains. The reported pairs
// are exactly those of the pairwise scan, but the grouping is linear in
// the number of records instead of quadratic.
type IdenticalCrewsCheck struct {
	// logger for structured logging.
	logger *slog.Logger
}

// IdenticalCrewsOption configures an IdenticalCrewsCheck.
type IdenticalCrewsOption func(*IdenticalCrewsCheck)

// WithIdenticalCrewsLogger sets a custom logger for the check.
func WithIdenticalCrewsLogger(logger *slog.Logger) IdenticalCrewsOption {
	return func(c *IdenticalCrewsCheck) {
		c.logger = logger
	}
}

// NewIdenticalCrewsCheck creates a new identical-crews check.
func NewIdenticalCrewsCheck(opts ...IdenticalCrewsOption) *IdenticalCrewsCheck {
	c := &IdenticalCrewsCheck{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the check name.
func (c *IdenticalCrewsCheck) Name() string {
	return "identical_crews"
}

// Do executes the identical-crews check.
// Each unordered pair of distinct domains sharing a crew is reported
// exactly once, with the pair's domains in lexicographic order.
func (c *IdenticalCrewsCheck) Do(_ context.Context, ds *model.Dataset, report *model.AuditReport) error {
	// Group domains by canonical crew key, keeping first-seen key order
	// so the output is deterministic.
	groups := make(map[string][]string)
	members := make(map[string]map[string]bool)
	crews := make(map[string][]string)
	var keyOrder []string

	positionCounts := make(map[string]int)

	for i := range ds.Results {
		r := &ds.Results[i]
		if !r.Success {
			continue
		}

		entries := r.NamedOfficials()
		for _, e := range entries {
			positionCounts[e.Position]++
		}
		if len(entries) == 0 {
			continue
		}

		key := r.CrewKey()
		if _, seen := crews[key]; !seen {
			keyOrder = append(keyOrder, key)
			crews[key] = r.CrewTokens()
			members[key] = make(map[string]bool)
		}
		// A domain recording the same crew twice is one group member,
		// not two; otherwise its pairs would be reported per occurrence.
		if members[key][r.Domain] {
			continue
		}
		members[key][r.Domain] = true
		groups[key] = append(groups[key], r.Domain)
	}

	for _, key := range keyOrder {
		domains := groups[key]
		for i := 0; i < len(domains); i++ {
			for j := i + 1; j < len(domains); j++ {
				a, b := domains[i], domains[j]
				if a > b {
					a, b = b, a
				}
				report.IdenticalCrews = append(report.IdenticalCrews, model.CrewPair{
					DomainA: a,
					DomainB: b,
					Crew:    crews[key],
				})
			}
		}
	}

	report.PositionCounts = rankPositions(positionCounts)

	c.logger.Debug("identical-crews check finished",
		"pairs", len(report.IdenticalCrews),
		"positions", len(report.PositionCounts),
	)
	return nil
}

// rankPositions sorts the position counts by descending count, ties by
// position name.
func rankPositions(counts map[string]int) []model.PositionCount {
	if len(counts) == 0 {
		return nil
	}

	ranked := make([]model.PositionCount, 0, len(counts))
	for position, count := range counts {
		ranked = append(ranked, model.PositionCount{Position: position, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Position < ranked[j].Position
	})
	return ranked
}
