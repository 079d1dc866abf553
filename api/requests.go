package api

// ──────────────────────────────────────────────────
// Permission requests
// ──────────────────────────────────────────────────

// UserPathRequest is the path parameter for user-scoped endpoints.
type UserPathRequest struct {
	UserID string `path:"userId" description:"User ID"`
}

// RefreshLogQueryRequest holds query parameters for querying refresh logs.
type RefreshLogQueryRequest struct {
	UserID string `query:"user_id" description:"Filter by user ID"`
	Status string `query:"status" description:"Filter by status (ok/failed)"`
	After  string `query:"after" description:"After timestamp (RFC3339)"`
	Before string `query:"before" description:"Before timestamp (RFC3339)"`
	Limit  int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset int    `query:"offset" description:"Results to skip"`
}

// PurgeRefreshLogRequest holds the cutoff for purging refresh logs.
type PurgeRefreshLogRequest struct {
	Before string `query:"before" description:"Remove entries created before this timestamp (RFC3339)"`
}

// ──────────────────────────────────────────────────
// User requests
// ──────────────────────────────────────────────────

// CreateUserRequest is the body for creating a user.
type CreateUserRequest struct {
	FirstName string         `json:"first_name" description:"Given name"`
	LastName  string         `json:"last_name" description:"Family name"`
	Email     string         `json:"email,omitempty" description:"Email address"`
	IsActive  *bool          `json:"is_active,omitempty" description:"Active flag (default: true)"`
	Metadata  map[string]any `json:"metadata,omitempty" description:"Custom metadata"`
}

// UpdateUserRequest is the body for updating a user.
type UpdateUserRequest struct {
	FirstName string         `json:"first_name,omitempty" description:"Given name"`
	LastName  string         `json:"last_name,omitempty" description:"Family name"`
	Email     string         `json:"email,omitempty" description:"Email address"`
	IsActive  *bool          `json:"is_active,omitempty" description:"Active flag"`
	Metadata  map[string]any `json:"metadata,omitempty" description:"Custom metadata"`
}

// ListUsersRequest holds query parameters for listing users.
type ListUsersRequest struct {
	Active string `query:"active" description:"Filter by active status (true/false)"`
	Search string `query:"search" description:"Search by name"`
	Limit  int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Org unit requests
// ──────────────────────────────────────────────────

// CreateOrgUnitRequest is the body for creating an org unit.
type CreateOrgUnitRequest struct {
	Key      string         `json:"key" description:"Stable human-readable org key"`
	Name     string         `json:"name" description:"Display name"`
	ParentID string         `json:"parent_id,omitempty" description:"Parent org unit ID"`
	IsActive *bool          `json:"is_active,omitempty" description:"Active flag (default: true)"`
	Metadata map[string]any `json:"metadata,omitempty" description:"Custom metadata"`
}

// UpdateOrgUnitRequest is the body for updating an org unit.
type UpdateOrgUnitRequest struct {
	Key      string         `json:"key,omitempty" description:"Stable human-readable org key"`
	Name     string         `json:"name,omitempty" description:"Display name"`
	IsActive *bool          `json:"is_active,omitempty" description:"Active flag"`
	Metadata map[string]any `json:"metadata,omitempty" description:"Custom metadata"`
}

// GetOrgUnitRequest is the path parameter for getting an org unit.
type GetOrgUnitRequest struct {
	OrgUnitID string `path:"orgUnitId" description:"Org unit ID"`
}

// ListOrgUnitsRequest holds query parameters for listing org units.
type ListOrgUnitsRequest struct {
	ParentID string `query:"parent_id" description:"Filter by parent org unit ID"`
	Active   string `query:"active" description:"Filter by active status (true/false)"`
	Search   string `query:"search" description:"Search by name or key"`
	Limit    int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset   int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Role requests
// ──────────────────────────────────────────────────

// CreateRoleRequest is the body for creating a role.
type CreateRoleRequest struct {
	Name        string         `json:"name" description:"Role name"`
	Slug        string         `json:"slug" description:"URL-safe slug"`
	Description string         `json:"description,omitempty" description:"Human-readable description"`
	IsSystem    bool           `json:"is_system,omitempty" description:"System role flag"`
	Metadata    map[string]any `json:"metadata,omitempty" description:"Custom metadata"`
}

// UpdateRoleRequest is the body for updating a role.
type UpdateRoleRequest struct {
	Name        string         `json:"name,omitempty" description:"Role name"`
	Description string         `json:"description,omitempty" description:"Human-readable description"`
	Metadata    map[string]any `json:"metadata,omitempty" description:"Custom metadata"`
}

// GetRoleRequest is the path parameter for getting a role.
type GetRoleRequest struct {
	RoleID string `path:"roleId" description:"Role ID"`
}

// ListRolesRequest holds query parameters for listing roles.
type ListRolesRequest struct {
	System string `query:"system" description:"Filter by system flag (true/false)"`
	Search string `query:"search" description:"Search by name"`
	Limit  int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset int    `query:"offset" description:"Results to skip"`
}

// AttachPolicyRequest is the body for binding a policy to a role.
type AttachPolicyRequest struct {
	PolicyID string `json:"policy_id" description:"Policy ID to attach"`
}

// SetRolePoliciesRequest is the body for replacing a role's policy set.
type SetRolePoliciesRequest struct {
	PolicyIDs []string `json:"policy_ids" description:"Complete policy set for the role"`
}

// ──────────────────────────────────────────────────
// Policy requests
// ──────────────────────────────────────────────────

// CreatePolicyRequest is the body for creating a policy.
type CreatePolicyRequest struct {
	Name        string         `json:"name" description:"Policy name"`
	Description string         `json:"description,omitempty" description:"Human-readable description"`
	IsActive    *bool          `json:"is_active,omitempty" description:"Active flag (default: true)"`
	Metadata    map[string]any `json:"metadata,omitempty" description:"Custom metadata"`
}

// UpdatePolicyRequest is the body for updating a policy.
type UpdatePolicyRequest struct {
	Name        string         `json:"name,omitempty" description:"Policy name"`
	Description string         `json:"description,omitempty" description:"Human-readable description"`
	IsActive    *bool          `json:"is_active,omitempty" description:"Active flag"`
	Metadata    map[string]any `json:"metadata,omitempty" description:"Custom metadata"`
}

// GetPolicyRequest is the path parameter for getting a policy.
type GetPolicyRequest struct {
	PolicyID string `path:"policyId" description:"Policy ID"`
}

// ListPoliciesRequest holds query parameters for listing policies.
type ListPoliciesRequest struct {
	Active string `query:"active" description:"Filter by active status (true/false)"`
	Search string `query:"search" description:"Search by name"`
	Limit  int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset int    `query:"offset" description:"Results to skip"`
}

// MappingInput is the input format for one entity-action mapping.
type MappingInput struct {
	EntityType string `json:"entity_type" description:"Entity type (alert-types, modules, reports, or custom)"`
	EntityID   string `json:"entity_id" description:"Entity identifier within the type"`
	Action     string `json:"action" description:"Action name"`
	Condition  string `json:"condition,omitempty" description:"Optional condition expression"`
}

// AddMappingRequest is the body for adding a mapping to a policy.
type AddMappingRequest struct {
	MappingInput
}

// ReplaceMappingsRequest is the body for replacing a policy's mappings.
type ReplaceMappingsRequest struct {
	Mappings []MappingInput `json:"mappings" description:"Complete mapping set for the policy"`
}

// ──────────────────────────────────────────────────
// Assignment requests
// ──────────────────────────────────────────────────

// CreateAssignmentRequest is the body for creating an org-role assignment.
type CreateAssignmentRequest struct {
	UserID    string `json:"user_id" description:"User ID"`
	OrgUnitID string `json:"org_unit_id" description:"Org unit ID"`
	RoleID    string `json:"role_id" description:"Role ID"`
	GrantedBy string `json:"granted_by,omitempty" description:"Who granted the assignment"`
}

// GetAssignmentRequest is the path parameter for getting an assignment.
type GetAssignmentRequest struct {
	AssignmentID string `path:"assignmentId" description:"Assignment ID"`
}

// ListAssignmentsRequest holds query parameters for listing assignments.
type ListAssignmentsRequest struct {
	UserID    string `query:"user_id" description:"Filter by user ID"`
	OrgUnitID string `query:"org_unit_id" description:"Filter by org unit ID"`
	RoleID    string `query:"role_id" description:"Filter by role ID"`
	Limit     int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset    int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Module requests
// ──────────────────────────────────────────────────

// CreateModuleRequest is the body for creating a module.
type CreateModuleRequest struct {
	Name        string `json:"name" description:"Module name"`
	Description string `json:"description,omitempty" description:"Human-readable description"`
	IsEnabled   *bool  `json:"is_enabled,omitempty" description:"Enabled flag (default: true)"`
}

// UpdateModuleRequest is the body for updating a module.
type UpdateModuleRequest struct {
	Name        string `json:"name,omitempty" description:"Module name"`
	Description string `json:"description,omitempty" description:"Human-readable description"`
	IsEnabled   *bool  `json:"is_enabled,omitempty" description:"Enabled flag"`
}

// GetModuleRequest is the path parameter for getting a module.
type GetModuleRequest struct {
	ModuleID string `path:"moduleId" description:"Module ID"`
}

// ListModulesRequest holds query parameters for listing modules.
type ListModulesRequest struct {
	Enabled string `query:"enabled" description:"Filter by enabled status (true/false)"`
	Search  string `query:"search" description:"Search by name"`
	Limit   int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset  int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Alert type requests
// ──────────────────────────────────────────────────

// CreateAlertTypeRequest is the body for creating an alert type.
type CreateAlertTypeRequest struct {
	Key       string `json:"key" description:"Stable alert type key"`
	Name      string `json:"name" description:"Display name"`
	Category  string `json:"category,omitempty" description:"Alert category"`
	IsEnabled *bool  `json:"is_enabled,omitempty" description:"Enabled flag (default: true)"`
}

// UpdateAlertTypeRequest is the body for updating an alert type.
type UpdateAlertTypeRequest struct {
	Name      string `json:"name,omitempty" description:"Display name"`
	Category  string `json:"category,omitempty" description:"Alert category"`
	IsEnabled *bool  `json:"is_enabled,omitempty" description:"Enabled flag"`
}

// GetAlertTypeRequest is the path parameter for getting an alert type.
type GetAlertTypeRequest struct {
	AlertTypeID string `path:"alertTypeId" description:"Alert type ID"`
}

// ListAlertTypesRequest holds query parameters for listing alert types.
type ListAlertTypesRequest struct {
	Category string `query:"category" description:"Filter by category"`
	Enabled  string `query:"enabled" description:"Filter by enabled status (true/false)"`
	Search   string `query:"search" description:"Search by name or key"`
	Limit    int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset   int    `query:"offset" description:"Results to skip"`
}
