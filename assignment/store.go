package assignment

import (
	"context"

	"github.com/fincase/aegis/id"
)

// Store defines persistence operations for org-role assignments.
type Store interface {
	// CreateAssignment persists a new assignment.
	CreateAssignment(ctx context.Context, a *Assignment) error

	// GetAssignment retrieves an assignment by ID.
	GetAssignment(ctx context.Context, assignmentID id.AssignmentID) (*Assignment, error)

	// DeleteAssignment removes an assignment by ID.
	DeleteAssignment(ctx context.Context, assignmentID id.AssignmentID) error

	// ListAssignments returns assignments matching the filter.
	ListAssignments(ctx context.Context, filter *ListFilter) ([]*Assignment, error)

	// CountAssignments returns the number of assignments matching the filter.
	CountAssignments(ctx context.Context, filter *ListFilter) (int64, error)

	// ListAssignmentsForUser returns all assignments of one user.
	// A user with no assignments yields an empty slice, not an error.
	ListAssignmentsForUser(ctx context.Context, userID id.UserID) ([]*Assignment, error)

	// DeleteAssignmentsByUser removes all assignments of a user.
	DeleteAssignmentsByUser(ctx context.Context, userID id.UserID) error

	// DeleteAssignmentsByRole removes all assignments of a role.
	DeleteAssignmentsByRole(ctx context.Context, roleID id.RoleID) error

	// DeleteAssignmentsByOrgUnit removes all assignments within an org unit.
	DeleteAssignmentsByOrgUnit(ctx context.Context, orgUnitID id.OrgUnitID) error
}
