package aegis

import "context"

// Cache is a typed per-user cache handle. The engine holds one handle per
// cached shape (permission document, org-id projection, org-key
// projection), keyed by user id. Handles are invalidated together on any
// write — never independently — because both projections derive from the
// same document snapshot.
type Cache[V any] interface {
	// Get returns the cached value for a user, if present and fresh.
	Get(ctx context.Context, userID string) (V, bool)

	// Set stores a value for a user.
	Set(ctx context.Context, userID string, value V)

	// Invalidate removes the cached value for a user.
	Invalidate(ctx context.Context, userID string)
}
