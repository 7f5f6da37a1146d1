package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/offscrape/crewcheck/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *AuditDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// testReport creates an audit report for storage tests.
func testReport(dataset string) *model.AuditReport {
	report := model.NewAuditReport(dataset)
	report.TotalResults = 3
	report.SuccessfulResults = 2
	report.SuspiciousNames = []model.SuspiciousName{
		{Domain: "fake.com", Position: "referee", Name: "John Doe",
			Type: "placeholder_name", Reason: "common placeholder name"},
	}
	report.SimpleReport = model.NewSimpleReport(report)
	return report
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		dbDir := filepath.Join(tmpDir, "nested", "history")

		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer func() { _ = db.Close() }()

		if _, err := os.Stat(filepath.Join(dbDir, "crewcheck.db")); err != nil {
			t.Errorf("expected database file to exist: %v", err)
		}
	})

	t.Run("fails when database is required to exist", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false}
		if _, err := Open(t.TempDir(), opts); err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if err := db.SaveAuditReport(context.Background(), testReport("a.json")); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}

		reopened, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer func() { _ = reopened.Close() }()

		datasets, err := reopened.ListDatasets(context.Background())
		if err != nil {
			t.Fatalf("failed to list datasets: %v", err)
		}
		if len(datasets) != 1 || datasets[0] != "a.json" {
			t.Errorf("got datasets %v, expected [a.json]", datasets)
		}
	})
}

// TestSaveAndLoadAuditReport tests the save/load round trip.
func TestSaveAndLoadAuditReport(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	report := testReport("results.json")
	if err := db.SaveAuditReport(ctx, report); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	t.Run("latest report round trips", func(t *testing.T) {
		loaded, err := db.GetLatestAuditReport(ctx, "results.json")
		if err != nil {
			t.Fatalf("failed to load report: %v", err)
		}
		if loaded == nil {
			t.Fatal("expected a report, got nil")
		}
		if loaded.TotalResults != 3 {
			t.Errorf("got total results %d, expected 3", loaded.TotalResults)
		}
		if len(loaded.SuspiciousNames) != 1 {
			t.Errorf("got %d suspicious names, expected 1", len(loaded.SuspiciousNames))
		}
		if loaded.SimpleReport == nil || loaded.SimpleReport.HighCount != 1 {
			t.Error("expected simple report with one high finding")
		}
	})

	t.Run("unknown dataset returns nil without error", func(t *testing.T) {
		loaded, err := db.GetLatestAuditReport(ctx, "missing.json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if loaded != nil {
			t.Error("expected nil report for unknown dataset")
		}
	})
}

// TestGetAuditHistory tests history retrieval ordering.
func TestGetAuditHistory(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	first := testReport("history.json")
	first.TotalResults = 1
	second := testReport("history.json")
	second.TotalResults = 2

	if err := db.SaveAuditReport(ctx, first); err != nil {
		t.Fatalf("failed to save first report: %v", err)
	}
	if err := db.SaveAuditReport(ctx, second); err != nil {
		t.Fatalf("failed to save second report: %v", err)
	}

	history, err := db.GetAuditHistory(ctx, "history.json")
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d reports, expected 2", len(history))
	}
	// Most recent first: both runs share a CURRENT_TIMESTAMP second, so
	// the id tie-break keeps insert order reversed.
	if history[0].TotalResults != 2 {
		t.Errorf("got first report total %d, expected 2", history[0].TotalResults)
	}
}

// TestGetAuditHistoryWithMetadata tests the metadata-only history view.
func TestGetAuditHistoryWithMetadata(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.SaveAuditReport(ctx, testReport("meta.json")); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	metas, err := db.GetAuditHistoryWithMetadata(ctx, "meta.json")
	if err != nil {
		t.Fatalf("failed to get metadata: %v", err)
	}
	if len(metas) != 1 {
		t.Fatalf("got %d entries, expected 1", len(metas))
	}

	meta := metas[0]
	if meta.ID == 0 {
		t.Error("expected a non-zero run ID")
	}
	if meta.Dataset != "meta.json" {
		t.Errorf("got dataset %q, expected %q", meta.Dataset, "meta.json")
	}
	if meta.FindingSummary["high"] != 1 {
		t.Errorf("got high count %d, expected 1", meta.FindingSummary["high"])
	}
	if meta.Timestamp.IsZero() {
		t.Error("expected a parsed timestamp")
	}
}

// TestGetAuditReportByID tests loading a run by its database ID.
func TestGetAuditReportByID(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.SaveAuditReport(ctx, testReport("byid.json")); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	metas, err := db.GetAuditHistoryWithMetadata(ctx, "byid.json")
	if err != nil {
		t.Fatalf("failed to get metadata: %v", err)
	}
	if len(metas) != 1 {
		t.Fatalf("got %d entries, expected 1", len(metas))
	}

	loaded, err := db.GetAuditReportByID(ctx, metas[0].ID)
	if err != nil {
		t.Fatalf("failed to load report: %v", err)
	}
	if loaded == nil || loaded.DatasetName != "byid.json" {
		t.Errorf("got %+v, expected report for byid.json", loaded)
	}

	missing, err := db.GetAuditReportByID(ctx, 9999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown ID")
	}
}

// TestListDatasets tests dataset enumeration.
func TestListDatasets(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"b.json", "a.json", "b.json"} {
		if err := db.SaveAuditReport(ctx, testReport(name)); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
	}

	datasets, err := db.ListDatasets(ctx)
	if err != nil {
		t.Fatalf("failed to list datasets: %v", err)
	}
	if len(datasets) != 2 {
		t.Fatalf("got %d datasets, expected 2", len(datasets))
	}
	if datasets[0] != "a.json" || datasets[1] != "b.json" {
		t.Errorf("got %v, expected sorted unique names", datasets)
	}
}

// TestParseTimestamp tests the multi-format timestamp parser.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{"sqlite default", "2026-08-25 10:30:00", false},
		{"iso8601 with z", "2026-08-25T10:30:00Z", false},
		{"rfc3339", time.Now().Format(time.RFC3339), false},
		{"garbage", "not a timestamp", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := parseTimestamp(tt.input)
			if got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q).IsZero() = %v, expected %v",
					tt.input, got.IsZero(), tt.zero)
			}
		})
	}
}
