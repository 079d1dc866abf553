// Package assignment defines the Assignment entity (user→(org unit, role)
// binding) and its store interface.
package assignment

import (
	"errors"
	"time"

	"github.com/fincase/aegis/id"
)

// ErrNotFound is returned when an assignment cannot be found.
var ErrNotFound = errors.New("assignment: assignment not found")

// Assignment grants a user one role within the context of one org unit.
// A user can hold many assignments; the permission aggregator folds all
// of them into a single permission document.
type Assignment struct {
	ID        id.AssignmentID `json:"id" db:"id"`
	UserID    id.UserID       `json:"user_id" db:"user_id"`
	OrgUnitID id.OrgUnitID    `json:"org_unit_id" db:"org_unit_id"`
	RoleID    id.RoleID       `json:"role_id" db:"role_id"`
	GrantedBy string          `json:"granted_by,omitempty" db:"granted_by"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// ListFilter contains filters for listing assignments.
type ListFilter struct {
	UserID    *id.UserID    `json:"user_id,omitempty"`
	OrgUnitID *id.OrgUnitID `json:"org_unit_id,omitempty"`
	RoleID    *id.RoleID    `json:"role_id,omitempty"`
	Limit     int           `json:"limit,omitempty"`
	Offset    int           `json:"offset,omitempty"`
}
