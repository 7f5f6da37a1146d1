package checks

import (
	"log/slog"

	"github.com/offscrape/crewcheck/internal/config"
)

// DefaultBattery builds the full check battery from the given
// configuration, in canonical order. The order only affects report
// layout; the checks themselves are independent.
func DefaultBattery(cfg *config.Config, logger *slog.Logger) []Check {
	if logger == nil {
		logger = slog.Default()
	}

	rules := cfg.Rules
	if rules == nil {
		rules = config.DefaultRules()
	}

	suspiciousOpts := []SuspiciousNamesOption{
		WithSuspiciousNamesLogger(logger),
		WithSampleSize(cfg.SampleSize),
		WithTopNames(cfg.TopNames),
	}
	if cfg.Seed != 0 {
		suspiciousOpts = append(suspiciousOpts, WithSampleSeed(cfg.Seed))
	}

	return []Check{
		NewNoOfficialsCheck(WithNoOfficialsLogger(logger)),
		NewSuspiciousNamesCheck(rules, suspiciousOpts...),
		NewIdenticalCrewsCheck(WithIdenticalCrewsLogger(logger)),
		NewKeywordsCheck(rules, WithKeywordsLogger(logger)),
		NewKnownPairsCheck(rules, WithKnownPairsLogger(logger)),
	}
}
