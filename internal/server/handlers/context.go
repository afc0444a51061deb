package handlers

import "context"

type contextKey string

// Context keys populated by the auth middleware after a bearer token has
// passed both the signature check and the session-store cross-check.
const (
	UserIDKey contextKey = "user_id"
	EmailKey  contextKey = "email"
)

// UserIDFromContext returns the authenticated user ID, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok
}

// EmailFromContext returns the authenticated user's email, if any.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}
