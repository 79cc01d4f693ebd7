package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/gatehouse/gatehouse/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// sessionContextKey is the context key for storing the active session.
	sessionContextKey contextKey = "session"
	// sessionExpiredKey marks requests whose cookie referenced an expired session.
	sessionExpiredKey contextKey = "session_expired"
)

// ContextWithSession adds the session to the context.
func ContextWithSession(ctx context.Context, session *model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext retrieves the session from the context.
// Returns nil if the request is unauthenticated.
func SessionFromContext(ctx context.Context) *model.Session {
	session, ok := ctx.Value(sessionContextKey).(*model.Session)
	if !ok {
		return nil
	}
	return session
}

// ContextWithExpiredSession marks the context as carrying an expired session
// cookie, so auth guards can distinguish "expired" from "never logged in".
func ContextWithExpiredSession(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionExpiredKey, true)
}

// SessionExpiredFromContext reports whether the request presented an expired
// session cookie.
func SessionExpiredFromContext(ctx context.Context) bool {
	expired, ok := ctx.Value(sessionExpiredKey).(bool)
	return ok && expired
}

// UserIDFromContext is a convenience function to get the user ID from context.
// Returns uuid.Nil if not authenticated.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	session := SessionFromContext(ctx)
	if session == nil {
		return uuid.Nil
	}
	return session.UserID
}
