package logger

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"
	// UserIDKey is the context key for the id of the user being acted on
	UserIDKey ContextKey = "user_id"
)

// NewRequestID returns a fresh random request id.
func NewRequestID() string {
	return uuid.NewString()
}

// ContextWithRequestID returns a copy of ctx carrying the request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// ContextWithUserID returns a copy of ctx carrying the target user id.
func ContextWithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

// WithContext creates a logger with context fields (request_id, user_id)
func WithContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	fields := make([]zap.Field, 0, 2)

	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id, ok := ctx.Value(UserIDKey).(int64); ok {
		fields = append(fields, zap.Int64("user_id", id))
	}

	if len(fields) > 0 {
		return logger.With(fields...)
	}
	return logger
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
