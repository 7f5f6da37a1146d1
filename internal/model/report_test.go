package model

import (
	"errors"
	"testing"
	"time"
)

// TestNewAuditReport tests the AuditReport constructor.
func TestNewAuditReport(t *testing.T) {
	t.Parallel()

	report := NewAuditReport("/data/test-results.json")

	t.Run("sets dataset path", func(t *testing.T) {
		t.Parallel()
		if report.DatasetPath != "/data/test-results.json" {
			t.Errorf("got %q, expected %q", report.DatasetPath, "/data/test-results.json")
		}
	})

	t.Run("derives dataset name from path", func(t *testing.T) {
		t.Parallel()
		if report.DatasetName != "test-results.json" {
			t.Errorf("got %q, expected %q", report.DatasetName, "test-results.json")
		}
	})

	t.Run("sets audit timestamp", func(t *testing.T) {
		t.Parallel()
		if report.DateAudited.IsZero() {
			t.Error("expected DateAudited to be set")
		}
		if time.Since(report.DateAudited) > time.Second {
			t.Error("DateAudited is too old")
		}
	})
}

// TestAuditReportSetError tests error recording.
func TestAuditReportSetError(t *testing.T) {
	t.Parallel()

	report := NewAuditReport("results.json")
	report.SetError(errors.New("boom"))

	if report.Error == nil {
		t.Error("expected Error to be set")
	}
	if report.ErrorMessage != "boom" {
		t.Errorf("got %q, expected %q", report.ErrorMessage, "boom")
	}
}

// TestNewSimpleReport tests the conversion of check sections to findings.
func TestNewSimpleReport(t *testing.T) {
	t.Parallel()

	report := NewAuditReport("results.json")
	report.TotalResults = 5
	report.SuccessfulResults = 4
	report.NoOfficials = []NoOfficialsRecord{
		{Domain: "a.com", School: "a.com", Opponent: "Unknown"},
	}
	report.SuspiciousNames = []SuspiciousName{
		{Domain: "b.com", Position: "referee", Name: "John Doe", Type: "placeholder_name", Reason: "common placeholder name"},
		{Domain: "c.com", Position: "umpire", Name: "Smith Smith", Type: "repeated_name", Reason: "repeated word"},
		{Domain: "d.com", Position: "judge", Name: "Referee2", Type: "numbered_name", Reason: "trailing digits"},
	}
	report.IdenticalCrews = []CrewPair{
		{DomainA: "a.com", DomainB: "b.com"},
	}
	report.KeywordMatches = []KeywordMatch{
		{Domain: "e.com", Position: "referee", Name: "Test Name", Keyword: "test"},
	}
	report.PairChecks = []PairCheck{
		{HomeDomain: "x.com", AwayDomain: "y.com", HomeFound: true, AwayFound: true, Confirmed: true},
		{HomeDomain: "m.com", AwayDomain: "n.com", HomeFound: false, HomeOpponent: NotFoundOpponent},
	}

	simple := NewSimpleReport(report)

	t.Run("carries dataset summary", func(t *testing.T) {
		t.Parallel()
		if simple.TotalResults != 5 || simple.SuccessfulResults != 4 {
			t.Errorf("got %d/%d, expected 5/4", simple.TotalResults, simple.SuccessfulResults)
		}
	})

	t.Run("every finding has a type and severity text", func(t *testing.T) {
		t.Parallel()
		for _, f := range simple.Findings {
			if f.Type == "" || f.SeverityText == "" {
				t.Errorf("incomplete finding: %+v", f)
			}
		}
	})

	t.Run("confirmed pairs produce no finding", func(t *testing.T) {
		t.Parallel()
		for _, f := range simple.Findings {
			if f.Type == "pair_unconfirmed" {
				t.Errorf("unexpected pair_unconfirmed finding: %+v", f)
			}
		}
	})

	t.Run("missing pair side produces pair_missing", func(t *testing.T) {
		t.Parallel()
		found := false
		for _, f := range simple.Findings {
			if f.Type == "pair_missing" && f.Value == "m.com" {
				found = true
			}
		}
		if !found {
			t.Error("expected a pair_missing finding for m.com")
		}
	})

	t.Run("counts findings by severity", func(t *testing.T) {
		t.Parallel()
		total := simple.CriticalCount + simple.HighCount + simple.MediumCount +
			simple.LowCount + simple.InfoCount
		if total != simple.TotalFindings() {
			t.Errorf("severity counts sum to %d, expected %d", total, simple.TotalFindings())
		}
		// placeholder_name + keyword_name
		if simple.HighCount != 2 {
			t.Errorf("got %d high findings, expected 2", simple.HighCount)
		}
	})

	t.Run("filters findings by severity", func(t *testing.T) {
		t.Parallel()
		for _, f := range simple.GetFindingsBySeverity(SeverityHigh) {
			if f.Severity != SeverityHigh {
				t.Errorf("got severity %v, expected HIGH", f.Severity)
			}
		}
	})
}
