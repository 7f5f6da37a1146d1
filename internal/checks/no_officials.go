package checks

import (
	"context"
	"log/slog"

	"github.com/offscrape/crewcheck/internal/model"
)

// NoOfficialsCheck finds successful records whose officials mapping is
// empty or contains only null values: the extractor found a game but
// came back without a single official.
//
// A record with an empty-string official name does not qualify; the
// extractor did capture something there, which the name checks handle.
type NoOfficialsCheck struct {
	// logger for structured logging.
	logger *slog.Logger
}

// NoOfficialsOption configures a NoOfficialsCheck.
type NoOfficialsOption func(*NoOfficialsCheck)

// WithNoOfficialsLogger sets a custom logger for the check.
func WithNoOfficialsLogger(logger *slog.Logger) NoOfficialsOption {
	return func(c *NoOfficialsCheck) {
		c.logger = logger
	}
}

// NewNoOfficialsCheck creates a new no-officials check.
func NewNoOfficialsCheck(opts ...NoOfficialsOption) *NoOfficialsCheck {
	c := &NoOfficialsCheck{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the check name.
func (c *NoOfficialsCheck) Name() string {
	return "no_officials"
}

// Do executes the no-officials check.
// Qualifying records are reported in input order.
func (c *NoOfficialsCheck) Do(_ context.Context, ds *model.Dataset, report *model.AuditReport) error {
	for i := range ds.Results {
		r := &ds.Results[i]
		if !r.Success || r.HasExtractedOfficials() {
			continue
		}

		report.NoOfficials = append(report.NoOfficials, model.NoOfficialsRecord{
			Domain:   r.Domain,
			School:   r.SchoolName(),
			Opponent: r.Opponent(),
		})
	}

	c.logger.Debug("no-officials check finished",
		"qualifying", len(report.NoOfficials),
	)
	return nil
}
