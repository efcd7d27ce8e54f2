package domain

import "context"

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID uint `json:"id_user"`
	Role   Role `json:"role"`
}

type identityContextKey struct{}

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
