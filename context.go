package aegis

import (
	"context"

	"github.com/fincase/aegis/id"
)

type contextKey int

const ctxKeyActorID contextKey = iota

// WithActor returns a context carrying the authenticated user on whose
// behalf a request runs. The authorization middleware resolves the actor
// from here.
func WithActor(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, ctxKeyActorID, userID)
}

// ActorFrom extracts the authenticated user from the context.
func ActorFrom(ctx context.Context) (id.UserID, bool) {
	v, ok := ctx.Value(ctxKeyActorID).(id.UserID)
	if !ok || v.IsNil() {
		return id.Nil, false
	}
	return v, true
}
