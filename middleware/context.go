package middleware

import (
	"context"

	"github.com/upb/rest-api-modernized/internal/observability"
	"github.com/upb/rest-api-modernized/oidc"
)

// Context key type to avoid collisions
type contextKey string

const (
	// UserKey is the context key for the authenticated principal
	UserKey contextKey = "user"
)

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	return observability.RequestIDFromContext(ctx)
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return observability.WithRequestID(ctx, requestID)
}

// GetUserFromContext retrieves the authenticated user from context
func GetUserFromContext(ctx context.Context) *oidc.AuthenticatedUser {
	if val := ctx.Value(UserKey); val != nil {
		if user, ok := val.(*oidc.AuthenticatedUser); ok {
			return user
		}
	}
	return nil
}

// WithUser adds the authenticated user to the context
func WithUser(ctx context.Context, user *oidc.AuthenticatedUser) context.Context {
	return context.WithValue(ctx, UserKey, user)
}
