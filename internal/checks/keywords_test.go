package checks

import (
	"context"
	"reflect"
	"testing"

	"github.com/offscrape/crewcheck/internal/config"
	"github.com/offscrape/crewcheck/internal/model"
)

// TestKeywordsCheck tests the keyword scan over extracted names.
func TestKeywordsCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		official string
		want     []string
	}{
		{
			name:     "substring match",
			official: "Contest Winner",
			want:     []string{"test"},
		},
		{
			name:     "case-insensitive match",
			official: "TEST Official",
			want:     []string{"test"},
		},
		{
			name:     "several keywords reported separately",
			official: "Test Example",
			want:     []string{"test", "example"},
		},
		{
			name:     "clean name",
			official: "Alice Cooper",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ds := &model.Dataset{Results: []model.GameResult{
				{Domain: "a.com", Success: true,
					Officials: map[string]*string{"referee": strPtr(tt.official)}},
			}}

			report := model.NewAuditReport("results.json")
			check := NewKeywordsCheck(config.DefaultRules())
			if err := check.Do(context.Background(), ds, report); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var got []string
			for _, m := range report.KeywordMatches {
				got = append(got, m.Keyword)
				if m.Domain != "a.com" || m.Position != "referee" || m.Name != tt.official {
					t.Errorf("match %+v lost its source entry", m)
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got keywords %v, expected %v", got, tt.want)
			}
		})
	}
}

// TestKeywordsCheckCustomRules tests that the keyword list comes from
// the rules, not a built-in table.
func TestKeywordsCheckCustomRules(t *testing.T) {
	t.Parallel()

	rules := config.DefaultRules()
	rules.Keywords = []string{"lorem"}

	ds := &model.Dataset{Results: []model.GameResult{
		{Domain: "a.com", Success: true, Officials: map[string]*string{
			"referee": strPtr("Lorem Ipsum"),
			"umpire":  strPtr("Test Official"),
		}},
	}}

	report := model.NewAuditReport("results.json")
	if err := NewKeywordsCheck(rules).Do(context.Background(), ds, report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.KeywordMatches) != 1 {
		t.Fatalf("got %d matches, expected 1", len(report.KeywordMatches))
	}
	if report.KeywordMatches[0].Keyword != "lorem" {
		t.Errorf("got keyword %q, expected %q", report.KeywordMatches[0].Keyword, "lorem")
	}
}
