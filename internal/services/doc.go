// Package services defines shared utilities consumed across the organizer
// pipeline.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers for logging correlation.
//   - Structured error markers plus the Wrap helper that classify failures
//     (validation vs configuration vs external tool) for errors.Is checks.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform.
package services
