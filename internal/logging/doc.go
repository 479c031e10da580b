// Package logging assembles the structured slog loggers used across the
// organizer.
//
// It owns the console and JSON handlers, duplicates output to stdout and the
// run's log file, and exposes context-aware helpers so pipeline code can tag
// every line with the run identifier. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits lines with the same shape and routing.
package logging
