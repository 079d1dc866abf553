package module

import (
	"context"

	"github.com/fincase/aegis/id"
)

// Store defines persistence operations for modules.
type Store interface {
	// CreateModule persists a new module.
	CreateModule(ctx context.Context, m *Module) error

	// GetModule retrieves a module by ID.
	GetModule(ctx context.Context, moduleID id.ModuleID) (*Module, error)

	// GetModuleByName retrieves a module by name.
	GetModuleByName(ctx context.Context, name string) (*Module, error)

	// UpdateModule persists changes to a module.
	UpdateModule(ctx context.Context, m *Module) error

	// DeleteModule removes a module by ID.
	DeleteModule(ctx context.Context, moduleID id.ModuleID) error

	// ListModules returns modules matching the filter.
	ListModules(ctx context.Context, filter *ListFilter) ([]*Module, error)

	// CountModules returns the number of modules matching the filter.
	CountModules(ctx context.Context, filter *ListFilter) (int64, error)
}
