package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// TestLoadRulesFile tests rule file loading.
func TestLoadRulesFile(t *testing.T) {
	t.Parallel()

	t.Run("loads a rule file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".crewcheck")
		content := `
placeholders:
  - fake name
keywords:
  - bogus
sampleSize: 5
pairs:
  - home: a.com
    away: b.com
    homeSubstrings: ["Alpha"]
    awaySubstrings: ["Beta"]
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write rule file: %v", err)
		}

		rules, err := LoadRulesFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(rules.Placeholders, []string{"fake name"}) {
			t.Errorf("got placeholders %v", rules.Placeholders)
		}
		if rules.SampleSize != 5 {
			t.Errorf("got sample size %d, expected 5", rules.SampleSize)
		}
		if len(rules.Pairs) != 1 || rules.Pairs[0].Home != "a.com" {
			t.Errorf("got pairs %+v", rules.Pairs)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := LoadRulesFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("got %v, expected ErrConfigNotFound", err)
		}
	})

	t.Run("malformed YAML returns an error", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".crewcheck")
		if err := os.WriteFile(path, []byte("placeholders: [unclosed"), 0600); err != nil {
			t.Fatalf("failed to write rule file: %v", err)
		}
		if _, err := LoadRulesFile(path); err == nil {
			t.Error("expected an error for malformed YAML")
		}
	})
}

// TestRulesMerge tests overlaying rule-file values onto defaults.
func TestRulesMerge(t *testing.T) {
	t.Parallel()

	defaults := DefaultRules()

	t.Run("nil override keeps defaults", func(t *testing.T) {
		t.Parallel()
		merged := defaults.Merge(nil)
		if !reflect.DeepEqual(merged.Keywords, defaults.Keywords) {
			t.Error("expected default keywords to survive")
		}
	})

	t.Run("set fields override, unset fields survive", func(t *testing.T) {
		t.Parallel()
		merged := defaults.Merge(&Rules{Keywords: []string{"bogus"}, TopNames: 3})
		if !reflect.DeepEqual(merged.Keywords, []string{"bogus"}) {
			t.Errorf("got keywords %v", merged.Keywords)
		}
		if merged.TopNames != 3 {
			t.Errorf("got top names %d, expected 3", merged.TopNames)
		}
		if !reflect.DeepEqual(merged.Placeholders, defaults.Placeholders) {
			t.Error("expected default placeholders to survive")
		}
		if len(merged.Pairs) != len(defaults.Pairs) {
			t.Error("expected default pairing table to survive")
		}
	})
}

// TestFindConfigFile tests rule file discovery.
func TestFindConfigFile(t *testing.T) {
	// Not parallel: chdir affects the whole process.
	t.Run("explicit path wins", func(t *testing.T) {
		if got := FindConfigFile("custom.yaml"); got != "custom.yaml" {
			t.Errorf("got %q, expected %q", got, "custom.yaml")
		}
	})

	t.Run("finds file in current directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("{}"), 0600); err != nil {
			t.Fatalf("failed to write rule file: %v", err)
		}
		t.Chdir(dir)

		if got := FindConfigFile(""); got != DefaultConfigFile {
			t.Errorf("got %q, expected %q", got, DefaultConfigFile)
		}
	})
}
