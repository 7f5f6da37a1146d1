package checks

import (
	"context"
	"log/slog"
	"strings"

	"github.com/offscrape/crewcheck/internal/config"
	"github.com/offscrape/crewcheck/internal/model"
)

// KnownPairsCheck verifies a fixed table of (home, away) domain pairs
// believed to represent the two sides of the same real-world matchup.
//
// For each pair it looks up both domains' recorded opponents and
// applies the per-pair substring heuristic: the away side's opponent
// should mention the home school or the home side's opponent should
// mention the away school. Substrings come from the rule table, not
// from any string-similarity algorithm.
type KnownPairsCheck struct {
	// pairs is the pairing table from the rules.
	pairs []config.PairRule

	// logger for structured logging.
	logger *slog.Logger
}

// KnownPairsOption configures a KnownPairsCheck.
type KnownPairsOption func(*KnownPairsCheck)

// WithKnownPairsLogger sets a custom logger for the check.
func WithKnownPairsLogger(logger *slog.Logger) KnownPairsOption {
	return func(c *KnownPairsCheck) {
		c.logger = logger
	}
}

// NewKnownPairsCheck creates a known-pairs check using the pairing
// table from the given rules.
func NewKnownPairsCheck(rules *config.Rules, opts ...KnownPairsOption) *KnownPairsCheck {
	c := &KnownPairsCheck{
		pairs:  rules.Pairs,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the check name.
func (c *KnownPairsCheck) Name() string {
	return "known_pairs"
}

// Do executes the known-pairs verification.
func (c *KnownPairsCheck) Do(_ context.Context, ds *model.Dataset, report *model.AuditReport) error {
	// One opponent per domain; the last successful record wins when a
	// domain appears more than once.
	opponents := make(map[string]string, len(ds.Results))
	for i := range ds.Results {
		r := &ds.Results[i]
		if !r.Success || r.GameInfo == nil {
			continue
		}
		opponents[r.Domain] = r.Opponent()
	}

	for _, pair := range c.pairs {
		homeOpp, homeFound := opponents[pair.Home]
		awayOpp, awayFound := opponents[pair.Away]
		if !homeFound {
			homeOpp = model.NotFoundOpponent
		}
		if !awayFound {
			awayOpp = model.NotFoundOpponent
		}

		confirmed := false
		if homeFound && awayFound {
			confirmed = containsAny(awayOpp, pair.HomeSubstrings) ||
				containsAny(homeOpp, pair.AwaySubstrings)
		}

		report.PairChecks = append(report.PairChecks, model.PairCheck{
			HomeDomain:   pair.Home,
			AwayDomain:   pair.Away,
			HomeOpponent: homeOpp,
			AwayOpponent: awayOpp,
			HomeFound:    homeFound,
			AwayFound:    awayFound,
			Confirmed:    confirmed,
		})
	}

	c.logger.Debug("known-pairs check finished",
		"pairs", len(report.PairChecks),
	)
	return nil
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
