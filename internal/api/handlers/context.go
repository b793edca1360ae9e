package handlers

import "context"

type contextKey string

const userIDKey contextKey = "userID"

// WithUserID stores the authenticated user id on the context. The auth
// middleware is the only writer.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user id, if any.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}
