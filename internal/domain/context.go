package domain

import "context"

// contextKey is a type for context keys to avoid collisions
type contextKey string

const claimsKey contextKey = "auth_claims"

// Claims identifies the caller of an authenticated request.
type Claims struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the caller holds the admin role.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// WithClaims adds the caller identity to the context
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext retrieves the caller identity, or nil for anonymous requests
func ClaimsFromContext(ctx context.Context) *Claims {
	if claims, ok := ctx.Value(claimsKey).(*Claims); ok {
		return claims
	}
	return nil
}
