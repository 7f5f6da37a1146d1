// Package dataset loads extraction results files from disk.
//
// Loading is all-or-nothing: a missing file, malformed JSON, or a
// document without the expected top-level results key aborts the run
// with a typed error. Per-record absent or null fields are tolerated by
// the model's default substitution and never fail the load.
package dataset
