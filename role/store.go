package role

import (
	"context"

	"github.com/fincase/aegis/id"
)

// Store defines persistence operations for roles and role-policy bindings.
type Store interface {
	// CreateRole persists a new role.
	CreateRole(ctx context.Context, r *Role) error

	// GetRole retrieves a role by ID.
	GetRole(ctx context.Context, roleID id.RoleID) (*Role, error)

	// GetRoleBySlug retrieves a role by slug.
	GetRoleBySlug(ctx context.Context, slug string) (*Role, error)

	// UpdateRole persists changes to a role.
	UpdateRole(ctx context.Context, r *Role) error

	// DeleteRole removes a role by ID.
	DeleteRole(ctx context.Context, roleID id.RoleID) error

	// ListRoles returns roles matching the filter.
	ListRoles(ctx context.Context, filter *ListFilter) ([]*Role, error)

	// CountRoles returns the number of roles matching the filter.
	CountRoles(ctx context.Context, filter *ListFilter) (int64, error)

	// ListRolePolicies returns policy IDs bound to a role.
	ListRolePolicies(ctx context.Context, roleID id.RoleID) ([]id.PolicyID, error)

	// AttachPolicy binds a policy to a role.
	AttachPolicy(ctx context.Context, roleID id.RoleID, policyID id.PolicyID) error

	// DetachPolicy removes a policy from a role.
	DetachPolicy(ctx context.Context, roleID id.RoleID, policyID id.PolicyID) error

	// SetRolePolicies replaces all policies bound to a role.
	SetRolePolicies(ctx context.Context, roleID id.RoleID, policyIDs []id.PolicyID) error
}
