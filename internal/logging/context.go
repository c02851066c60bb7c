package logging

import (
	"context"
	"log/slog"

	"clipvault/internal/services"
)

// ContextFields extracts request-scoped identifiers from ctx as slog attrs.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var attrs []slog.Attr
	if id, ok := services.VideoIDFromContext(ctx); ok {
		attrs = append(attrs, slog.Uint64(FieldVideoID, id))
	}
	if id, ok := services.ClipIDFromContext(ctx); ok {
		attrs = append(attrs, slog.Int64(FieldClipID, id))
	}
	if op, ok := services.OperationFromContext(ctx); ok {
		attrs = append(attrs, slog.String(FieldOperation, op))
	}
	if cid, ok := services.CorrelationIDFromContext(ctx); ok {
		attrs = append(attrs, slog.String(FieldCorrelationID, cid))
	}
	return attrs
}

// WithContext returns logger enriched with any identifiers present in ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	attrs := ContextFields(ctx)
	if len(attrs) == 0 {
		return logger
	}
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return logger.With(args...)
}
