package config

import (
	"errors"
	"strings"
	"testing"
)

// TestNewConfig tests the default configuration values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("defaults to the legacy dataset file", func(t *testing.T) {
		t.Parallel()
		if cfg.DatasetPath != DefaultDatasetFile {
			t.Errorf("got %q, expected %q", cfg.DatasetPath, DefaultDatasetFile)
		}
	})

	t.Run("sets sampling defaults", func(t *testing.T) {
		t.Parallel()
		if cfg.SampleSize != DefaultSampleSize {
			t.Errorf("got %d, expected %d", cfg.SampleSize, DefaultSampleSize)
		}
		if cfg.TopNames != DefaultTopNames {
			t.Errorf("got %d, expected %d", cfg.TopNames, DefaultTopNames)
		}
	})

	t.Run("loads built-in rules", func(t *testing.T) {
		t.Parallel()
		if cfg.Rules == nil {
			t.Fatal("expected rules to be set")
		}
		if len(cfg.Rules.Placeholders) == 0 || len(cfg.Rules.Keywords) == 0 {
			t.Error("expected built-in placeholders and keywords")
		}
		if len(cfg.Rules.Pairs) == 0 {
			t.Error("expected built-in pairing table")
		}
	})
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid default config",
			mutate:  func(_ *Config) {},
			wantErr: nil,
		},
		{
			name:    "missing dataset path",
			mutate:  func(c *Config) { c.DatasetPath = "" },
			wantErr: ErrNoDataset,
		},
		{
			name: "conflicting report formats",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{
			name:    "negative sample size",
			mutate:  func(c *Config) { c.SampleSize = -1 },
			wantErr: ErrInvalidSampleSize,
		},
		{
			name:    "zero sample size is allowed",
			mutate:  func(c *Config) { c.SampleSize = 0 },
			wantErr: nil,
		},
		{
			name:    "non-positive top names",
			mutate:  func(c *Config) { c.TopNames = 0 },
			wantErr: ErrInvalidTopNames,
		},
		{
			name: "parallel without concurrency",
			mutate: func(c *Config) {
				c.Parallel = true
				c.Concurrency = 0
			},
			wantErr: ErrInvalidConcurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, expected %v", err, tt.wantErr)
			}
		})
	}
}

// TestXDGDirs tests the XDG directory helpers.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if dir := XDGDataDir(); !strings.HasSuffix(dir, AppName) {
		t.Errorf("data dir %q does not end with %q", dir, AppName)
	}
	if dir := XDGConfigDir(); !strings.HasSuffix(dir, AppName) {
		t.Errorf("config dir %q does not end with %q", dir, AppName)
	}
}
