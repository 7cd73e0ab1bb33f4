// Package ctxutil provides type-safe context value management.
// Uses private key types to prevent collisions.
package ctxutil

import (
	"context"
)

type contextKey string

const (
	requestIDKey contextKey = "ctxutil.requestID"
	sessionKey   contextKey = "ctxutil.session"
)

// WithRequestID adds a request ID to the context for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
// Returns the request ID if found, empty string otherwise.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		if requestID, ok := v.(string); ok && requestID != "" {
			return requestID
		}
	}
	return ""
}

// WithSession adds the Dialogflow session name to the context.
func WithSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// GetSession retrieves the Dialogflow session name from the context.
// Returns the session if found, empty string otherwise.
func GetSession(ctx context.Context) string {
	if v := ctx.Value(sessionKey); v != nil {
		if session, ok := v.(string); ok && session != "" {
			return session
		}
	}
	return ""
}
