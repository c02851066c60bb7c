package logging

import (
	"context"
	"io"
	"log/slog"
)

// Shared attribute keys used across components.
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldVideoID       = "video_id"
	FieldClipID        = "clip_id"
	FieldCorrelationID = "correlation_id"
)

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(NoopHandler())
}

// NoopHandler returns a handler that drops all records.
func NoopHandler() slog.Handler {
	return noopHandler{}
}

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (noopHandler) Handle(context.Context, slog.Record) error { return nil }
func (noopHandler) WithAttrs([]slog.Attr) slog.Handler        { return noopHandler{} }
func (noopHandler) WithGroup(string) slog.Handler             { return noopHandler{} }

// NewComponentLogger tags every record with the component name.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	if component == "" {
		return logger
	}
	return logger.With(slog.String(FieldComponent, component))
}

// NewWriterLogger is a convenience for tests that want console output
// captured in a buffer.
func NewWriterLogger(w io.Writer, level string) *slog.Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(level))
	return slog.New(newConsoleHandler(w, levelVar))
}
