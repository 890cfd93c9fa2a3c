// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

type sessionIDKey struct{}

// WithSessionID adds the browser session ID to context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// GetSessionID returns session ID from context or empty string.
func GetSessionID(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return v
	}
	return ""
}
