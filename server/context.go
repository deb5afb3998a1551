package server

import (
	"context"

	"github.com/consulago/dashboard-gateway/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the request's session
	ContextKeySession ContextKey = "session"
	// ContextKeySessionID stores the request's session ID
	ContextKeySessionID ContextKey = "session_id"
	// ContextKeyLocale stores the resolved locale name
	ContextKeyLocale ContextKey = "locale"
)

// SessionFromContext returns the session injected by the gate middleware.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(ContextKeySession).(session.Session)
	return sess, ok
}

// LocaleFromContext returns the locale injected by the gate middleware.
func LocaleFromContext(ctx context.Context) (string, bool) {
	loc, ok := ctx.Value(ContextKeyLocale).(string)
	return loc, ok
}
