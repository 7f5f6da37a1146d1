package checks

import (
	"context"
	"reflect"
	"testing"

	"github.com/offscrape/crewcheck/internal/model"
)

// strPtr returns a pointer to the given string.
func strPtr(s string) *string {
	return &s
}

// TestNoOfficialsCheck tests detection of games without extracted officials.
func TestNoOfficialsCheck(t *testing.T) {
	t.Parallel()

	ds := &model.Dataset{Results: []model.GameResult{
		{Domain: "a.com", Success: true, Officials: map[string]*string{"referee": nil, "umpire": nil}},
		{Domain: "b.com", Success: true, School: "Bravo", GameInfo: &model.GameInfo{Opponent: "Charlie"},
			Officials: map[string]*string{}},
		{Domain: "c.com", Success: true, Officials: map[string]*string{"referee": strPtr("Jane Roe")}},
		{Domain: "d.com", Success: false, Officials: map[string]*string{"referee": nil}},
		{Domain: "e.com", Success: true},
	}}

	report := model.NewAuditReport("results.json")
	check := NewNoOfficialsCheck()
	if err := check.Do(context.Background(), ds, report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("reports qualifying records in input order", func(t *testing.T) {
		t.Parallel()
		want := []model.NoOfficialsRecord{
			{Domain: "a.com", School: "a.com", Opponent: "Unknown"},
			{Domain: "b.com", School: "Bravo", Opponent: "Charlie"},
			{Domain: "e.com", School: "e.com", Opponent: "Unknown"},
		}
		if !reflect.DeepEqual(report.NoOfficials, want) {
			t.Errorf("got %+v, expected %+v", report.NoOfficials, want)
		}
	})

	t.Run("never includes unsuccessful records", func(t *testing.T) {
		t.Parallel()
		for _, rec := range report.NoOfficials {
			if rec.Domain == "d.com" {
				t.Error("unsuccessful record was reported")
			}
		}
	})

	t.Run("records with named officials do not qualify", func(t *testing.T) {
		t.Parallel()
		for _, rec := range report.NoOfficials {
			if rec.Domain == "c.com" {
				t.Error("record with a named official was reported")
			}
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()
		second := model.NewAuditReport("results.json")
		if err := check.Do(context.Background(), ds, second); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(second.NoOfficials, report.NoOfficials) {
			t.Error("two runs over the same dataset differ")
		}
	})
}

// TestNoOfficialsCheckEmptyString tests that an empty-string name still
// counts as an extracted value.
func TestNoOfficialsCheckEmptyString(t *testing.T) {
	t.Parallel()

	ds := &model.Dataset{Results: []model.GameResult{
		{Domain: "a.com", Success: true, Officials: map[string]*string{"referee": strPtr("")}},
	}}

	report := model.NewAuditReport("results.json")
	if err := NewNoOfficialsCheck().Do(context.Background(), ds, report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.NoOfficials) != 0 {
		t.Errorf("got %d records, expected 0", len(report.NoOfficials))
	}
}
