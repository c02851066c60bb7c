package services

import "context"

type contextKey string

const (
	videoIDKey       contextKey = "video_id"
	clipIDKey        contextKey = "clip_id"
	operationKey     contextKey = "operation"
	correlationIDKey contextKey = "correlation_id"
)

// WithVideoID annotates context with a catalog video identifier.
func WithVideoID(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, videoIDKey, id)
}

// VideoIDFromContext extracts the catalog video identifier if present.
func VideoIDFromContext(ctx context.Context) (uint64, bool) {
	v, ok := ctx.Value(videoIDKey).(uint64)
	return v, ok
}

// WithClipID annotates context with a catalog clip identifier.
func WithClipID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, clipIDKey, id)
}

// ClipIDFromContext extracts the catalog clip identifier if present.
func ClipIDFromContext(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(clipIDKey).(int64)
	return v, ok
}

// WithOperation annotates context with the catalog operation name.
func WithOperation(ctx context.Context, operation string) context.Context {
	if operation == "" {
		return ctx
	}
	return context.WithValue(ctx, operationKey, operation)
}

// OperationFromContext returns the operation name if present.
func OperationFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(operationKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithCorrelationID annotates context with a sweep correlation identifier.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext extracts the correlation identifier if present.
func CorrelationIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(correlationIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
