package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxUserID   contextKey = "user_id"
	ctxUsername contextKey = "username"
	ctxAccessID contextKey = "access_id"
)

// UserIDFromContext returns the authenticated user's id, or uuid.Nil.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxUserID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// UsernameFromContext returns the authenticated username, or "".
func UsernameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUsername).(string); ok {
		return v
	}
	return ""
}

// AccessIDFromContext returns the session identifier (JWT jti), or "".
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithUser seeds the context with the authenticated identity.
func WithUser(ctx context.Context, userID uuid.UUID, username, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxUsername, username)
	return context.WithValue(ctx, ctxAccessID, accessID)
}
