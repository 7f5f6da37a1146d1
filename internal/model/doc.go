// Package model defines the core data structures used throughout crewcheck.
//
// This package contains the following main types:
//   - Dataset / GameResult: The extraction results file as loaded from disk
//   - OfficialEntry: A flattened (domain, position, name) triple
//   - AuditReport: The main audit result structure filled in by the checks
//   - SimpleReport: A summarized, human-readable report
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (checks, report, database) need to use these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
