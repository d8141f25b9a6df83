package access

import "context"

// Identity is the authenticated caller, carried explicitly through request
// context rather than read from any ambient global.
type Identity struct {
	UserID int64
	Role   Role
}

type ctxKey struct{}

var ctxKeyIdentity = ctxKey{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v := ctx.Value(ctxKeyIdentity)
	if v == nil {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
