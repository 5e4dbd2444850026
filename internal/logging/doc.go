// Package logging configures structured slog output for descwrite.
//
// It builds loggers from configuration (console or JSON format, level
// selection, optional log-file mirroring), provides the attribute helpers
// and standardized field keys used across the repository, and exposes a
// no-op logger for tests and optional collaborators.
//
// Construct loggers through New or NewFromConfig so every component emits
// the same timestamp, level, and component formatting.
package logging
