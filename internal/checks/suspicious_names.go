package checks

import (
	"context"
	"log/slog"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/offscrape/crewcheck/internal/config"
	"github.com/offscrape/crewcheck/internal/model"
	"golang.org/x/text/cases"
)

// trailingDigits matches names ending in one or more decimal digits,
// the signature of templated labels such as "Referee 2" or "Official1".
var trailingDigits = regexp.MustCompile(`[0-9]+$`)

// SuspiciousNamesCheck flags official names that look fabricated and
// computes frequency statistics over all extracted names.
//
// Three predicates are evaluated independently for every flattened
// entry, so one name can be flagged for several reasons:
//   - exact match against the placeholder table (case-insensitive)
//   - exactly two whitespace-separated words that are identical
//   - one or more trailing decimal digits
//
// The check also records total and distinct name counts, the most
// frequent names, a random sample for manual review, and all
// single-word names.
type SuspiciousNamesCheck struct {
	// placeholders is the case-folded placeholder table.
	placeholders map[string]bool

	// sampleSize is the number of names sampled for manual review.
	sampleSize int

	// topNames is how many of the most frequent names to report.
	topNames int

	// rng drives the review sample. Seeded from the clock unless a
	// fixed seed was configured.
	rng *rand.Rand

	// fold performs Unicode case folding for the placeholder match.
	fold cases.Caser

	// logger for structured logging.
	logger *slog.Logger
}

// SuspiciousNamesOption configures a SuspiciousNamesCheck.
type SuspiciousNamesOption func(*SuspiciousNamesCheck)

// WithSampleSeed fixes the seed of the review sample, making it
// reproducible. Zero keeps the clock-based seed.
func WithSampleSeed(seed int64) SuspiciousNamesOption {
	return func(c *SuspiciousNamesCheck) {
		if seed != 0 {
			c.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // Sampling for display, not cryptography
		}
	}
}

// WithSampleSize sets the number of names sampled for manual review.
func WithSampleSize(n int) SuspiciousNamesOption {
	return func(c *SuspiciousNamesCheck) {
		if n >= 0 {
			c.sampleSize = n
		}
	}
}

// WithTopNames sets how many of the most frequent names to report.
func WithTopNames(n int) SuspiciousNamesOption {
	return func(c *SuspiciousNamesCheck) {
		if n > 0 {
			c.topNames = n
		}
	}
}

// WithSuspiciousNamesLogger sets a custom logger for the check.
func WithSuspiciousNamesLogger(logger *slog.Logger) SuspiciousNamesOption {
	return func(c *SuspiciousNamesCheck) {
		c.logger = logger
	}
}

// NewSuspiciousNamesCheck creates a suspicious-names check using the
// placeholder table from the given rules.
func NewSuspiciousNamesCheck(rules *config.Rules, opts ...SuspiciousNamesOption) *SuspiciousNamesCheck {
	c := &SuspiciousNamesCheck{
		sampleSize: rules.SampleSize,
		topNames:   rules.TopNames,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // Sampling for display, not cryptography
		fold:       cases.Fold(),
		logger:     slog.Default(),
	}

	c.placeholders = make(map[string]bool, len(rules.Placeholders))
	for _, name := range rules.Placeholders {
		c.placeholders[c.fold.String(name)] = true
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the check name.
func (c *SuspiciousNamesCheck) Name() string {
	return "suspicious_names"
}

// Do executes the suspicious-names check.
// Flags are recorded in discovery order: dataset order, positions
// sorted within each record, predicates in the order documented on the
// type.
func (c *SuspiciousNamesCheck) Do(_ context.Context, ds *model.Dataset, report *model.AuditReport) error {
	entries := ds.NamedOfficials()

	names := make([]string, 0, len(entries))
	counts := make(map[string]int, len(entries))
	firstSeen := make([]string, 0, len(entries))
	var singleWord []model.OfficialEntry

	for _, entry := range entries {
		names = append(names, entry.Name)
		if counts[entry.Name] == 0 {
			firstSeen = append(firstSeen, entry.Name)
		}
		counts[entry.Name]++

		if c.placeholders[c.fold.String(entry.Name)] {
			report.SuspiciousNames = append(report.SuspiciousNames, model.SuspiciousName{
				Domain:   entry.Domain,
				Position: entry.Position,
				Name:     entry.Name,
				Type:     "placeholder_name",
				Reason:   "common placeholder name",
			})
		}

		parts := strings.Fields(entry.Name)
		if len(parts) == 2 && parts[0] == parts[1] {
			report.SuspiciousNames = append(report.SuspiciousNames, model.SuspiciousName{
				Domain:   entry.Domain,
				Position: entry.Position,
				Name:     entry.Name,
				Type:     "repeated_name",
				Reason:   "repeated word",
			})
		}

		if trailingDigits.MatchString(entry.Name) {
			report.SuspiciousNames = append(report.SuspiciousNames, model.SuspiciousName{
				Domain:   entry.Domain,
				Position: entry.Position,
				Name:     entry.Name,
				Type:     "numbered_name",
				Reason:   "trailing digits",
			})
		}

		if len(parts) == 1 {
			singleWord = append(singleWord, entry)
		}
	}

	report.NameStats = &model.NameStats{
		TotalOfficials:  len(entries),
		UniqueOfficials: len(counts),
		TopNames:        topNames(firstSeen, counts, c.topNames),
		SampleNames:     c.sample(names),
		SingleWordNames: singleWord,
	}

	c.logger.Debug("suspicious-names check finished",
		"entries", len(entries),
		"flagged", len(report.SuspiciousNames),
	)
	return nil
}

// topNames returns the n most frequent names by descending count.
// Ties keep first-seen order, which the stable sort over the
// first-seen slice guarantees.
func topNames(firstSeen []string, counts map[string]int, n int) []model.NameCount {
	ranked := make([]model.NameCount, 0, len(firstSeen))
	for _, name := range firstSeen {
		ranked = append(ranked, model.NameCount{Name: name, Count: counts[name]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// sample draws a uniformly random sample of up to sampleSize names
// without replacement.
func (c *SuspiciousNamesCheck) sample(names []string) []string {
	k := c.sampleSize
	if k <= 0 || len(names) == 0 {
		return nil
	}
	if k > len(names) {
		k = len(names)
	}

	picked := make([]string, 0, k)
	for _, idx := range c.rng.Perm(len(names))[:k] {
		picked = append(picked, names[idx])
	}
	return picked
}
