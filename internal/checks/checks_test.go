package checks

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"
	"testing"

	"github.com/offscrape/crewcheck/internal/config"
	"github.com/offscrape/crewcheck/internal/model"
)

// fakeCheck is a configurable check for runner tests.
type fakeCheck struct {
	name string
	err  error

	mu   sync.Mutex
	runs int
}

func (c *fakeCheck) Do(_ context.Context, _ *model.Dataset, _ *model.AuditReport) error {
	c.mu.Lock()
	c.runs++
	c.mu.Unlock()
	return c.err
}

func (c *fakeCheck) Name() string {
	return c.name
}

func (c *fakeCheck) runCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}

// TestRunnerExecute tests sequential battery execution.
func TestRunnerExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs checks in order and records them", func(t *testing.T) {
		t.Parallel()

		first := &fakeCheck{name: "first"}
		second := &fakeCheck{name: "second"}

		runner := NewRunner()
		runner.AddChecks(first, second)

		ds := &model.Dataset{Results: []model.GameResult{
			{Domain: "a.com", Success: true},
			{Domain: "b.com", Success: false},
		}}
		report := model.NewAuditReport("results.json")

		if err := runner.Execute(context.Background(), ds, report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if first.runCount() != 1 || second.runCount() != 1 {
			t.Errorf("got run counts %d/%d, expected 1/1", first.runCount(), second.runCount())
		}
		if want := []string{"first", "second"}; !reflect.DeepEqual(report.PerformedChecks, want) {
			t.Errorf("got performed checks %v, expected %v", report.PerformedChecks, want)
		}
		if report.TotalResults != 2 {
			t.Errorf("got total results %d, expected 2", report.TotalResults)
		}
		if report.SuccessfulResults != 1 {
			t.Errorf("got successful results %d, expected 1", report.SuccessfulResults)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("broken check")
		failing := &fakeCheck{name: "failing", err: wantErr}
		after := &fakeCheck{name: "after"}

		runner := NewRunner()
		runner.AddChecks(failing, after)

		report := model.NewAuditReport("results.json")
		err := runner.Execute(context.Background(), &model.Dataset{}, report)
		if !errors.Is(err, wantErr) {
			t.Fatalf("got error %v, expected %v", err, wantErr)
		}
		if after.runCount() != 0 {
			t.Error("check after the failure still ran")
		}
		if report.Error == nil {
			t.Error("report error was not recorded")
		}
	})

	t.Run("continue on error runs the full battery", func(t *testing.T) {
		t.Parallel()

		failing := &fakeCheck{name: "failing", err: errors.New("broken check")}
		after := &fakeCheck{name: "after"}

		runner := NewRunner(WithContinueOnError(true))
		runner.AddChecks(failing, after)

		report := model.NewAuditReport("results.json")
		if err := runner.Execute(context.Background(), &model.Dataset{}, report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if after.runCount() != 1 {
			t.Error("check after the failure did not run")
		}
		if want := []string{"failing", "after"}; !reflect.DeepEqual(report.PerformedChecks, want) {
			t.Errorf("got performed checks %v, expected %v", report.PerformedChecks, want)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		check := &fakeCheck{name: "never"}
		runner := NewRunner()
		runner.AddChecks(check)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		report := model.NewAuditReport("results.json")
		err := runner.Execute(ctx, &model.Dataset{}, report)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("got error %v, expected context.Canceled", err)
		}
		if check.runCount() != 0 {
			t.Error("check ran after cancellation")
		}
	})
}

// TestRunnerExecuteConcurrent tests the parallel execution path.
func TestRunnerExecuteConcurrent(t *testing.T) {
	t.Parallel()

	t.Run("performed checks keep battery order", func(t *testing.T) {
		t.Parallel()

		battery := []Check{
			&fakeCheck{name: "alpha"},
			&fakeCheck{name: "beta"},
			&fakeCheck{name: "gamma"},
		}

		runner := NewRunner(WithConcurrency(3))
		runner.AddChecks(battery...)

		report := model.NewAuditReport("results.json")
		if err := runner.Execute(context.Background(), &model.Dataset{}, report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if want := []string{"alpha", "beta", "gamma"}; !reflect.DeepEqual(report.PerformedChecks, want) {
			t.Errorf("got performed checks %v, expected %v", report.PerformedChecks, want)
		}
	})

	t.Run("a failed check does not stop the others", func(t *testing.T) {
		t.Parallel()

		failing := &fakeCheck{name: "failing", err: errors.New("broken check")}
		others := []*fakeCheck{
			{name: "one"},
			{name: "two"},
		}

		runner := NewRunner(WithConcurrency(2))
		runner.AddChecks(failing, others[0], others[1])

		report := model.NewAuditReport("results.json")
		if err := runner.Execute(context.Background(), &model.Dataset{}, report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, check := range others {
			if check.runCount() != 1 {
				t.Errorf("check %q did not run", check.Name())
			}
		}
		if report.Error == nil {
			t.Error("report error was not recorded")
		}
		if want := []string{"one", "two"}; !reflect.DeepEqual(report.PerformedChecks, want) {
			t.Errorf("got performed checks %v, expected %v", report.PerformedChecks, want)
		}
	})

	t.Run("matches sequential results on the real battery", func(t *testing.T) {
		t.Parallel()

		ds := &model.Dataset{Results: []model.GameResult{
			{Domain: "a.com", Success: true, Officials: map[string]*string{
				"referee": strPtr("John Doe"),
				"umpire":  strPtr("Test Official"),
			}},
			{Domain: "b.com", Success: true, Officials: map[string]*string{
				"referee": strPtr("John Doe"),
				"umpire":  strPtr("Test Official"),
			}},
			{Domain: "c.com", Success: true, Officials: map[string]*string{"referee": nil}},
		}}

		run := func(concurrency int) *model.AuditReport {
			cfg := config.NewConfig()
			cfg.Seed = 11
			report := model.NewAuditReport("results.json")
			runner := NewRunner(WithConcurrency(concurrency))
			runner.AddChecks(DefaultBattery(cfg, nil)...)
			if err := runner.Execute(context.Background(), ds, report); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			return report
		}

		sequential := run(1)
		concurrent := run(4)

		if !reflect.DeepEqual(sequential.NoOfficials, concurrent.NoOfficials) {
			t.Error("no-officials sections differ")
		}
		if !reflect.DeepEqual(sequential.SuspiciousNames, concurrent.SuspiciousNames) {
			t.Error("suspicious-names sections differ")
		}
		if !reflect.DeepEqual(sequential.IdenticalCrews, concurrent.IdenticalCrews) {
			t.Error("identical-crews sections differ")
		}
		if !reflect.DeepEqual(sequential.KeywordMatches, concurrent.KeywordMatches) {
			t.Error("keyword sections differ")
		}
		if !reflect.DeepEqual(sequential.PairChecks, concurrent.PairChecks) {
			t.Error("pair-check sections differ")
		}
		if !reflect.DeepEqual(sequential.PerformedChecks, concurrent.PerformedChecks) {
			t.Errorf("performed checks differ: %v vs %v",
				sequential.PerformedChecks, concurrent.PerformedChecks)
		}
	})
}

// TestRunnerCheckNames tests battery introspection.
func TestRunnerCheckNames(t *testing.T) {
	t.Parallel()

	runner := NewRunner()
	runner.AddChecks(&fakeCheck{name: "alpha"}, &fakeCheck{name: "beta"})

	if runner.CheckCount() != 2 {
		t.Errorf("got count %d, expected 2", runner.CheckCount())
	}
	if want := []string{"alpha", "beta"}; !reflect.DeepEqual(runner.CheckNames(), want) {
		t.Errorf("got names %v, expected %v", runner.CheckNames(), want)
	}
}

// TestSelect tests filtering the battery by check name.
func TestSelect(t *testing.T) {
	t.Parallel()

	battery := []Check{
		&fakeCheck{name: "alpha"},
		&fakeCheck{name: "beta"},
		&fakeCheck{name: "gamma"},
	}

	t.Run("empty selection keeps the full battery", func(t *testing.T) {
		t.Parallel()
		got, err := Select(battery, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != len(battery) {
			t.Errorf("got %d checks, expected %d", len(got), len(battery))
		}
	})

	t.Run("selection preserves battery order", func(t *testing.T) {
		t.Parallel()
		got, err := Select(battery, []string{"gamma", "alpha"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		names := checkNames(got)
		if want := []string{"alpha", "gamma"}; !reflect.DeepEqual(names, want) {
			t.Errorf("got %v, expected %v", names, want)
		}
	})

	t.Run("unknown name is an error", func(t *testing.T) {
		t.Parallel()
		if _, err := Select(battery, []string{"delta"}); err == nil {
			t.Error("expected an error for an unknown check name")
		}
	})
}

// TestDefaultBattery tests the composition of the built-in battery.
func TestDefaultBattery(t *testing.T) {
	t.Parallel()

	battery := DefaultBattery(config.NewConfig(), nil)

	want := []string{"no_officials", "suspicious_names", "identical_crews", "keywords", "known_pairs"}
	got := checkNames(battery)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got battery %v, expected %v", got, want)
	}

	unique := append([]string(nil), got...)
	sort.Strings(unique)
	for i := 1; i < len(unique); i++ {
		if unique[i] == unique[i-1] {
			t.Errorf("check name %q appears twice", unique[i])
		}
	}
}
