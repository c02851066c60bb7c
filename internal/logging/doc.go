// Package logging provides slog-based structured logging with a
// human-readable console format and a JSON format for log files.
package logging
