package observability

import (
	"context"

	"github.com/google/uuid"
)

// CorrelationIDHeader is the HTTP header carrying the correlation id.
const CorrelationIDHeader = "X-Request-ID"

// Context keys for correlation metadata.
type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
	parentIDKey      contextKey = "parent_id"
)

// NewCorrelationID generates a new correlation id.
func NewCorrelationID() string {
	return uuid.New().String()
}

// ContextWithCorrelationID returns a new context carrying the correlation id.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext extracts the correlation id from the context.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithParentID returns a new context carrying the parent request id.
func ContextWithParentID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, parentIDKey, id)
}

// ParentIDFromContext extracts the parent request id from the context.
func ParentIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(parentIDKey).(string); ok {
		return id
	}
	return ""
}

// CorrelationFields returns the log fields carried by the context.
func CorrelationFields(ctx context.Context) []Field {
	var fields []Field

	if id := CorrelationIDFromContext(ctx); id != "" {
		fields = append(fields, String("correlation_id", id))
	}
	if id := ParentIDFromContext(ctx); id != "" {
		fields = append(fields, String("parent_id", id))
	}

	return fields
}
