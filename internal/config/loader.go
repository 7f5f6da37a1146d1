package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default rule file name.
const DefaultConfigFile = ".crewcheck"

// ErrConfigNotFound is returned when the rule file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Rules holds the audit rules that can be overridden via the rule file.
// Any field left empty in the file keeps its built-in default.
type Rules struct {
	// Placeholders are names treated as well-known placeholders,
	// matched case-insensitively against the full official name.
	Placeholders []string `yaml:"placeholders,omitempty"`

	// Keywords are substrings indicating test or debug content,
	// matched case-insensitively inside official names.
	Keywords []string `yaml:"keywords,omitempty"`

	// SampleSize overrides the review sample size.
	SampleSize int `yaml:"sampleSize,omitempty"`

	// TopNames overrides how many frequent names are reported.
	TopNames int `yaml:"topNames,omitempty"`

	// Pairs is the known home/away pairing table.
	// When set, it replaces the built-in table entirely.
	Pairs []PairRule `yaml:"pairs,omitempty"`
}

// PairRule describes two domains believed to be the two sides of the
// same real-world matchup, with the substrings used to recognize each
// school in the other side's recorded opponent string.
type PairRule struct {
	// Home and Away are the two school domains.
	Home string `yaml:"home"`
	Away string `yaml:"away"`

	// HomeSubstrings identify the home school; the away side's opponent
	// should contain one of them. Matched case-sensitively, as opponent
	// strings come verbatim from the pages.
	HomeSubstrings []string `yaml:"homeSubstrings,omitempty"`

	// AwaySubstrings identify the away school; the home side's opponent
	// should contain one of them.
	AwaySubstrings []string `yaml:"awaySubstrings,omitempty"`
}

// DefaultRules returns the built-in audit rules.
// The pairing table reproduces matchups verified by hand against the
// 2025 week-two college football schedule.
func DefaultRules() *Rules {
	return &Rules{
		Placeholders: []string{
			"john doe",
			"jane doe",
			"jane smith",
			"john smith",
			"test name",
			"example name",
		},
		Keywords: []string{
			"test",
			"example",
			"sample",
			"demo",
			"placeholder",
			"temp",
			"dummy",
		},
		SampleSize: DefaultSampleSize,
		TopNames:   DefaultTopNames,
		Pairs: []PairRule{
			{Home: "rolltide.com", Away: "ulmwarhawks.com", HomeSubstrings: []string{"Alabama"}, AwaySubstrings: []string{"ULM", "Monroe"}},
			{Home: "floridagators.com", Away: "gousfbulls.com", HomeSubstrings: []string{"Florida"}, AwaySubstrings: []string{"South Florida", "USF"}},
			{Home: "lsusports.net", Away: "latechsports.com", HomeSubstrings: []string{"LSU"}, AwaySubstrings: []string{"Louisiana Tech", "LA Tech"}},
			{Home: "mutigers.com", Away: "kuathletics.com", HomeSubstrings: []string{"Missouri"}, AwaySubstrings: []string{"Kansas"}},
			{Home: "hawkeyesports.com", Away: "cyclones.com", HomeSubstrings: []string{"Iowa"}, AwaySubstrings: []string{"Iowa State"}},
			{Home: "uhcougars.com", Away: "riceowls.com", HomeSubstrings: []string{"Houston"}, AwaySubstrings: []string{"Rice"}},
			{Home: "navysports.com", Away: "uabsports.com", HomeSubstrings: []string{"Navy"}, AwaySubstrings: []string{"UAB"}},
			{Home: "troytrojans.com", Away: "clemsontigers.com", HomeSubstrings: []string{"Troy"}, AwaySubstrings: []string{"Clemson"}},
		},
	}
}

// Merge overlays non-empty fields of other onto a copy of the receiver.
// Built-in defaults survive anything the rule file leaves out.
func (r *Rules) Merge(other *Rules) *Rules {
	merged := *r
	if other == nil {
		return &merged
	}
	if len(other.Placeholders) > 0 {
		merged.Placeholders = other.Placeholders
	}
	if len(other.Keywords) > 0 {
		merged.Keywords = other.Keywords
	}
	if other.SampleSize > 0 {
		merged.SampleSize = other.SampleSize
	}
	if other.TopNames > 0 {
		merged.TopNames = other.TopNames
	}
	if len(other.Pairs) > 0 {
		merged.Pairs = other.Pairs
	}
	return &merged
}

// LoadRulesFile loads audit rules from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers
// should handle this error based on whether the path was explicitly
// specified by the user.
func LoadRulesFile(path string) (*Rules, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, err
	}

	return &rules, nil
}

// FindConfigFile locates the rule file to use.
// If explicitPath is non-empty it is returned as-is (existence is the
// caller's concern). Otherwise the default file name is searched in the
// current directory and then in the user's home directory; an empty
// string means no file was found.
func FindConfigFile(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(home, DefaultConfigFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}

	return ""
}
