package auth

import (
	"context"

	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/logger"
)

type identityKey struct{}

// WithIdentity attaches the authenticated caller to ctx and tags its logger.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	ctx = logger.WithUserID(ctx, id.UserID)
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller attached by WithIdentity.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok && !id.IsZero()
}
