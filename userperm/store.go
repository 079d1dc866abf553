package userperm

import "context"

// Store defines persistence operations for permission documents.
type Store interface {
	// UpsertDocument atomically replaces the document keyed by its user
	// id, creating it if absent. The write is all-or-nothing; a partial
	// document must never become visible.
	UpsertDocument(ctx context.Context, doc *Document) error

	// GetDocument retrieves the document for a user, or ErrNotFound.
	GetDocument(ctx context.Context, userID string) (*Document, error)

	// DeleteDocument removes the document for a user. Deleting an absent
	// document is not an error.
	DeleteDocument(ctx context.Context, userID string) error
}
