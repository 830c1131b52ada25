// Package reqctx carries per-request identifiers through context.
package reqctx

import (
	"context"

	"librairie/internal/core/id"
)

type requestIDKey struct{}
type userKey struct{}

// User identifies the authenticated cashier for the current request.
// The user id is also the cart owner id.
type User struct {
	ID       id.ID
	Username string
	Role     string
}

// WithRequestID stores the request id in context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the request id or "".
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithUser stores the authenticated user in context.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// GetUser returns the authenticated user, if any.
func GetUser(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey{}).(User)
	return u, ok
}
