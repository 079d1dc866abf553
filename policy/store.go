package policy

import (
	"context"

	"github.com/fincase/aegis/id"
)

// Store defines persistence operations for policies and their
// entity-action mappings.
type Store interface {
	// CreatePolicy persists a new policy.
	CreatePolicy(ctx context.Context, p *Policy) error

	// GetPolicy retrieves a policy by ID.
	GetPolicy(ctx context.Context, policyID id.PolicyID) (*Policy, error)

	// GetPolicyByName retrieves a policy by name.
	GetPolicyByName(ctx context.Context, name string) (*Policy, error)

	// UpdatePolicy persists changes to a policy.
	UpdatePolicy(ctx context.Context, p *Policy) error

	// DeletePolicy removes a policy and its mappings by ID.
	DeletePolicy(ctx context.Context, policyID id.PolicyID) error

	// ListPolicies returns policies matching the filter.
	ListPolicies(ctx context.Context, filter *ListFilter) ([]*Policy, error)

	// CountPolicies returns the number of policies matching the filter.
	CountPolicies(ctx context.Context, filter *ListFilter) (int64, error)

	// ListPoliciesForRole returns the policies bound to a role.
	ListPoliciesForRole(ctx context.Context, roleID id.RoleID) ([]*Policy, error)

	// ListMappingsForPolicy returns all entity-action mappings of a policy.
	ListMappingsForPolicy(ctx context.Context, policyID id.PolicyID) ([]*EntityMapping, error)

	// AddMapping attaches an entity-action mapping to a policy.
	AddMapping(ctx context.Context, m *EntityMapping) error

	// RemoveMapping deletes a single entity-action mapping.
	RemoveMapping(ctx context.Context, mappingID id.MappingID) error

	// ReplaceMappings replaces all mappings of a policy.
	ReplaceMappings(ctx context.Context, policyID id.PolicyID, mappings []*EntityMapping) error
}
