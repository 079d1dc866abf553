package orgunit

import (
	"context"

	"github.com/fincase/aegis/id"
)

// Store defines persistence operations for organization units.
type Store interface {
	// CreateOrgUnit persists a new org unit.
	CreateOrgUnit(ctx context.Context, ou *OrgUnit) error

	// GetOrgUnit retrieves an org unit by ID.
	GetOrgUnit(ctx context.Context, orgUnitID id.OrgUnitID) (*OrgUnit, error)

	// GetOrgUnitByKey retrieves an org unit by its human-readable key.
	GetOrgUnitByKey(ctx context.Context, key string) (*OrgUnit, error)

	// UpdateOrgUnit persists changes to an org unit.
	UpdateOrgUnit(ctx context.Context, ou *OrgUnit) error

	// DeleteOrgUnit removes an org unit by ID.
	DeleteOrgUnit(ctx context.Context, orgUnitID id.OrgUnitID) error

	// ListOrgUnits returns org units matching the filter.
	ListOrgUnits(ctx context.Context, filter *ListFilter) ([]*OrgUnit, error)

	// CountOrgUnits returns the number of org units matching the filter.
	CountOrgUnits(ctx context.Context, filter *ListFilter) (int64, error)

	// ListChildOrgUnits returns direct children of a parent org unit.
	ListChildOrgUnits(ctx context.Context, parentID id.OrgUnitID) ([]*OrgUnit, error)
}
