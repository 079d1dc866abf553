// Package plugin defines the plugin system for Aegis.
// Plugins are notified of lifecycle events (permission refreshed, role
// created, policy updated, etc.) and can react — logging, metrics,
// notification fan-out, etc.
//
// Each lifecycle hook is a separate interface so plugins opt in only
// to the events they care about.
package plugin

import (
	"context"

	"github.com/fincase/aegis/assignment"
	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/policy"
	"github.com/fincase/aegis/role"
	"github.com/fincase/aegis/userperm"
)

// Plugin is the base interface all plugins must implement.
type Plugin interface {
	// Name returns a unique human-readable name for the plugin.
	Name() string
}

// ──────────────────────────────────────────────────
// Refresh lifecycle hooks
// ──────────────────────────────────────────────────

// BeforeRefresh is called before a permission refresh run starts.
type BeforeRefresh interface {
	OnBeforeRefresh(ctx context.Context, userID id.UserID) error
}

// AfterRefresh is called after a refresh run completes successfully.
type AfterRefresh interface {
	OnAfterRefresh(ctx context.Context, doc *userperm.Document) error
}

// DocumentPersisted is called after a permission document is written to
// the document store.
type DocumentPersisted interface {
	OnDocumentPersisted(ctx context.Context, doc *userperm.Document) error
}

// ──────────────────────────────────────────────────
// Role lifecycle hooks
// ──────────────────────────────────────────────────

// RoleCreated is called after a role is created.
type RoleCreated interface {
	OnRoleCreated(ctx context.Context, r *role.Role) error
}

// RoleUpdated is called after a role is updated.
type RoleUpdated interface {
	OnRoleUpdated(ctx context.Context, r *role.Role) error
}

// RoleDeleted is called after a role is deleted.
type RoleDeleted interface {
	OnRoleDeleted(ctx context.Context, roleID id.RoleID) error
}

// ──────────────────────────────────────────────────
// Policy lifecycle hooks
// ──────────────────────────────────────────────────

// PolicyCreated is called after a policy is created.
type PolicyCreated interface {
	OnPolicyCreated(ctx context.Context, p *policy.Policy) error
}

// PolicyUpdated is called after a policy is updated.
type PolicyUpdated interface {
	OnPolicyUpdated(ctx context.Context, p *policy.Policy) error
}

// PolicyDeleted is called after a policy is deleted.
type PolicyDeleted interface {
	OnPolicyDeleted(ctx context.Context, policyID id.PolicyID) error
}

// PolicyAttached is called after a policy is bound to a role.
type PolicyAttached interface {
	OnPolicyAttached(ctx context.Context, roleID id.RoleID, policyID id.PolicyID) error
}

// PolicyDetached is called after a policy is unbound from a role.
type PolicyDetached interface {
	OnPolicyDetached(ctx context.Context, roleID id.RoleID, policyID id.PolicyID) error
}

// ──────────────────────────────────────────────────
// Assignment lifecycle hooks
// ──────────────────────────────────────────────────

// AssignmentCreated is called after an org-role assignment is created.
type AssignmentCreated interface {
	OnAssignmentCreated(ctx context.Context, a *assignment.Assignment) error
}

// AssignmentDeleted is called after an org-role assignment is removed.
type AssignmentDeleted interface {
	OnAssignmentDeleted(ctx context.Context, a *assignment.Assignment) error
}

// ──────────────────────────────────────────────────
// Shutdown hook
// ──────────────────────────────────────────────────

// Shutdown is called when the engine stops.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
