package checks

import (
	"context"
	"log/slog"
	"strings"

	"github.com/offscrape/crewcheck/internal/config"
	"github.com/offscrape/crewcheck/internal/model"
	"golang.org/x/text/cases"
)

// KeywordsCheck scans every extracted official name for test/debug
// keywords ("test", "example", "demo", ...), case-insensitively.
//
// A name containing several keywords is reported once per keyword, so
// the match list states exactly which rules fired for which entry.
type KeywordsCheck struct {
	// keywords is the case-folded keyword list, in configured order.
	keywords []string

	// fold performs Unicode case folding for the substring match.
	fold cases.Caser

	// logger for structured logging.
	logger *slog.Logger
}

// KeywordsOption configures a KeywordsCheck.
type KeywordsOption func(*KeywordsCheck)

// WithKeywordsLogger sets a custom logger for the check.
func WithKeywordsLogger(logger *slog.Logger) KeywordsOption {
	return func(c *KeywordsCheck) {
		c.logger = logger
	}
}

// NewKeywordsCheck creates a keyword-scan check using the keyword list
// from the given rules.
func NewKeywordsCheck(rules *config.Rules, opts ...KeywordsOption) *KeywordsCheck {
	c := &KeywordsCheck{
		fold:   cases.Fold(),
		logger: slog.Default(),
	}

	c.keywords = make([]string, 0, len(rules.Keywords))
	for _, keyword := range rules.Keywords {
		c.keywords = append(c.keywords, c.fold.String(keyword))
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the check name.
func (c *KeywordsCheck) Name() string {
	return "keywords"
}

// Do executes the keyword scan.
func (c *KeywordsCheck) Do(_ context.Context, ds *model.Dataset, report *model.AuditReport) error {
	for _, entry := range ds.NamedOfficials() {
		folded := c.fold.String(entry.Name)
		for _, keyword := range c.keywords {
			if strings.Contains(folded, keyword) {
				report.KeywordMatches = append(report.KeywordMatches, model.KeywordMatch{
					Domain:   entry.Domain,
					Position: entry.Position,
					Name:     entry.Name,
					Keyword:  keyword,
				})
			}
		}
	}

	c.logger.Debug("keyword scan finished",
		"matches", len(report.KeywordMatches),
	)
	return nil
}
