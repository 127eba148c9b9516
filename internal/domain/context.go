package domain

import "context"

type principalKey struct{}

// ContextPrincipal carries the authenticated identity through request
// context. It is rebuilt from the user row on every request, never from
// token claims, so admin demotion takes effect on the next request.
type ContextPrincipal struct {
	ID      int64
	Email   string
	IsAdmin bool
}

// WithPrincipal stores a ContextPrincipal in the context.
func WithPrincipal(ctx context.Context, p ContextPrincipal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the ContextPrincipal from the context.
func PrincipalFromContext(ctx context.Context) (ContextPrincipal, bool) {
	p, ok := ctx.Value(principalKey{}).(ContextPrincipal)
	return p, ok
}
