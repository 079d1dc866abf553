// Package orgunit defines the OrgUnit entity and its store interface.
package orgunit

import (
	"errors"
	"time"

	"github.com/fincase/aegis/id"
)

// ErrNotFound is returned when an organization unit cannot be found.
var ErrNotFound = errors.New("orgunit: organization unit not found")

// OrgUnit is a node in the organizational hierarchy. Roles are assigned to
// users within the context of one org unit, and alert-type permissions are
// scoped per org unit. Key is the stable human-readable identifier exposed
// to downstream consumers.
type OrgUnit struct {
	ID        id.OrgUnitID   `json:"id" db:"id"`
	Key       string         `json:"key" db:"key"`
	Name      string         `json:"name" db:"name"`
	ParentID  *id.OrgUnitID  `json:"parent_id,omitempty" db:"parent_id"`
	IsActive  bool           `json:"is_active" db:"is_active"`
	Metadata  map[string]any `json:"metadata,omitempty" db:"metadata"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing org units.
type ListFilter struct {
	ParentID *id.OrgUnitID `json:"parent_id,omitempty"`
	IsActive *bool         `json:"is_active,omitempty"`
	Search   string        `json:"search,omitempty"`
	Limit    int           `json:"limit,omitempty"`
	Offset   int           `json:"offset,omitempty"`
}
