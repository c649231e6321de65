package appctx

import (
	"context"
)

// Context key for storing request-scoped values
type contextKey string

const RequestIDContextKey contextKey = "request_id"

// SetRequestID adds the request id to the context
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDContextKey, requestID)
}

// GetRequestID extracts the request id from the context, or "-" when none is set
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDContextKey).(string); ok && requestID != "" {
		return requestID
	}
	return "-"
}
