// Package logging assembles the slog loggers used by the barks commands.
//
// It owns the console and JSON handlers, level and output plumbing, the
// per-run identifier attached to every line, and a small set of attribute
// helpers so packages emit decisions and warnings with the same shape. A
// no-op logger is provided for tests and for callers that pass nil.
package logging
