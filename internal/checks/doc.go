// Package checks implements the data-quality check battery.
//
// Each check is independent: it reads the immutable dataset and writes
// its own section of the shared AuditReport, so checks can run in any
// order or concurrently. The Runner executes a battery with structured
// logging and optional concurrency control using errgroup.
package checks
