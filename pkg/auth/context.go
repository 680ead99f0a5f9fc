package auth

import (
	"context"

	"github.com/sinabro/schedbird/pkg/user"
)

type userKey struct{}

type scopeKey struct{}

// SetUser stores the authenticated user in the context.
func SetUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext retrieves the authenticated user.
// Returns nil outside the gateway (bypassed routes).
func UserFromContext(ctx context.Context) *user.User {
	if v, ok := ctx.Value(userKey{}).(*user.User); ok {
		return v
	}
	return nil
}

// SetRequestScope stores the scope derived from the current request.
func SetRequestScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// RequestScopeFromContext returns the request scope, or user.DefaultScope
// if none was set.
func RequestScopeFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(scopeKey{}).(string); ok && v != "" {
		return v
	}
	return user.DefaultScope
}
