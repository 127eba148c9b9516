// Package service implements the application's use cases on top of the
// domain repositories. Each method resolves the authenticated principal from
// the context and consults the policy engine before touching the store.
package service

import (
	"context"

	"taskhub/internal/domain"
)

// principalFrom extracts the authenticated principal or fails with an auth
// error. Handlers behind the authenticator always have one; CLI callers and
// tests must install it explicitly via domain.WithPrincipal.
func principalFrom(ctx context.Context) (domain.ContextPrincipal, error) {
	p, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return domain.ContextPrincipal{}, domain.ErrUnknownPrincipal("no authenticated principal in context")
	}
	return p, nil
}
