// Package store defines the aggregate relational persistence interface.
// Each subsystem (identity, orgunit, role, policy, assignment, module,
// refreshlog) defines its own store interface; the composite Store
// composes them all. Backends: Postgres, SQLite, and Memory.
package store

import (
	"context"

	"github.com/fincase/aegis/assignment"
	"github.com/fincase/aegis/identity"
	"github.com/fincase/aegis/module"
	"github.com/fincase/aegis/orgunit"
	"github.com/fincase/aegis/policy"
	"github.com/fincase/aegis/refreshlog"
	"github.com/fincase/aegis/role"
)

// Store is the aggregate relational persistence interface. A single
// backend (postgres, sqlite, memory) implements all subsystem stores.
type Store interface {
	identity.Store
	orgunit.Store
	role.Store
	policy.Store
	assignment.Store
	module.Store
	refreshlog.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Ping checks database connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
