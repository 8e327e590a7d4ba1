// Package logging builds the structured slog loggers used across the
// pipeline and standardizes the attribute keys stages log with.
package logging
