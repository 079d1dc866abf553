// Package docstore defines the aggregate document-store interface:
// permission documents and alert types. Backends: MongoDB and Memory.
package docstore

import (
	"context"

	"github.com/fincase/aegis/alerttype"
	"github.com/fincase/aegis/userperm"
)

// Store is the aggregate document persistence interface.
type Store interface {
	userperm.Store
	alerttype.Store

	// Migrate creates collections/indexes as needed.
	Migrate(ctx context.Context) error

	// Ping checks database connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
