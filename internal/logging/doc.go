// Package logging constructs the slog loggers used across cliprelay.
//
// The console handler renders compact single-line records with an optional
// component prefix; the JSON handler is available for machine consumption.
// Output fans out to stderr plus a logfile under the configured log
// directory so detached pipeline runs remain debuggable.
package logging
