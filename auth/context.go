package auth

import "context"

type contextKey string

const principalContextKey contextKey = "principal"

// NewContextWithPrincipal returns a copy of ctx carrying the authenticated
// principal.
func NewContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext extracts the authenticated principal from the context.
// The second return value is false when the request never passed the JWT
// middleware.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(*Principal)
	return p, ok
}
