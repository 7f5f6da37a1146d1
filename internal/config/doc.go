// Package config holds the runtime configuration for crewcheck.
//
// Configuration comes from two places: CLI flags populate the flat
// Config struct, and an optional YAML rule file (.crewcheck) overrides
// the audit rules (placeholder names, keyword list, known home/away
// pairings, display limits). Built-in defaults cover both, so the tool
// runs with no configuration at all.
package config
