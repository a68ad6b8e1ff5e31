// Package logging provides structured logging for Homebus Core.
//
// It wraps log/slog with service-wide default fields and configuration
// driven output selection. Components derive their own loggers with
// With(), tagging every record with a component name.
package logging
