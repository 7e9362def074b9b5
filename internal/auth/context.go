package auth

import (
	"context"

	"quizmania-service/internal/domain"
)

type identityKey struct{}

// WithIdentity stores the caller in ctx for handlers downstream of the auth middleware.
func WithIdentity(ctx context.Context, id *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller stored in ctx, or nil for anonymous requests.
func IdentityFrom(ctx context.Context) *domain.Identity {
	id, _ := ctx.Value(identityKey{}).(*domain.Identity)
	return id
}
