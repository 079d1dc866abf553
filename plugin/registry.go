package plugin

import (
	"context"
	"log/slog"

	"github.com/fincase/aegis/assignment"
	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/policy"
	"github.com/fincase/aegis/role"
	"github.com/fincase/aegis/userperm"
)

// Named entry types pair a hook with the plugin name for logging.

type beforeRefreshEntry struct {
	name string
	hook BeforeRefresh
}
type afterRefreshEntry struct {
	name string
	hook AfterRefresh
}
type documentPersistedEntry struct {
	name string
	hook DocumentPersisted
}
type roleCreatedEntry struct {
	name string
	hook RoleCreated
}
type roleUpdatedEntry struct {
	name string
	hook RoleUpdated
}
type roleDeletedEntry struct {
	name string
	hook RoleDeleted
}
type policyCreatedEntry struct {
	name string
	hook PolicyCreated
}
type policyUpdatedEntry struct {
	name string
	hook PolicyUpdated
}
type policyDeletedEntry struct {
	name string
	hook PolicyDeleted
}
type policyAttachedEntry struct {
	name string
	hook PolicyAttached
}
type policyDetachedEntry struct {
	name string
	hook PolicyDetached
}
type assignmentCreatedEntry struct {
	name string
	hook AssignmentCreated
}
type assignmentDeletedEntry struct {
	name string
	hook AssignmentDeleted
}
type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered plugins and dispatches lifecycle events.
// It type-caches plugins at registration time so emit calls iterate
// only over plugins implementing the relevant hook.
type Registry struct {
	plugins []Plugin
	logger  *slog.Logger

	beforeRefresh     []beforeRefreshEntry
	afterRefresh      []afterRefreshEntry
	documentPersisted []documentPersistedEntry
	roleCreated       []roleCreatedEntry
	roleUpdated       []roleUpdatedEntry
	roleDeleted       []roleDeletedEntry
	policyCreated     []policyCreatedEntry
	policyUpdated     []policyUpdatedEntry
	policyDeleted     []policyDeletedEntry
	policyAttached    []policyAttachedEntry
	policyDetached    []policyDetachedEntry
	assignmentCreated []assignmentCreatedEntry
	assignmentDeleted []assignmentDeletedEntry
	shutdown          []shutdownEntry
}

// NewRegistry creates a plugin registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds a plugin and type-asserts it into all applicable
// hook caches. Plugins are notified in registration order.
func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
	name := p.Name()

	if h, ok := p.(BeforeRefresh); ok {
		r.beforeRefresh = append(r.beforeRefresh, beforeRefreshEntry{name, h})
	}
	if h, ok := p.(AfterRefresh); ok {
		r.afterRefresh = append(r.afterRefresh, afterRefreshEntry{name, h})
	}
	if h, ok := p.(DocumentPersisted); ok {
		r.documentPersisted = append(r.documentPersisted, documentPersistedEntry{name, h})
	}
	if h, ok := p.(RoleCreated); ok {
		r.roleCreated = append(r.roleCreated, roleCreatedEntry{name, h})
	}
	if h, ok := p.(RoleUpdated); ok {
		r.roleUpdated = append(r.roleUpdated, roleUpdatedEntry{name, h})
	}
	if h, ok := p.(RoleDeleted); ok {
		r.roleDeleted = append(r.roleDeleted, roleDeletedEntry{name, h})
	}
	if h, ok := p.(PolicyCreated); ok {
		r.policyCreated = append(r.policyCreated, policyCreatedEntry{name, h})
	}
	if h, ok := p.(PolicyUpdated); ok {
		r.policyUpdated = append(r.policyUpdated, policyUpdatedEntry{name, h})
	}
	if h, ok := p.(PolicyDeleted); ok {
		r.policyDeleted = append(r.policyDeleted, policyDeletedEntry{name, h})
	}
	if h, ok := p.(PolicyAttached); ok {
		r.policyAttached = append(r.policyAttached, policyAttachedEntry{name, h})
	}
	if h, ok := p.(PolicyDetached); ok {
		r.policyDetached = append(r.policyDetached, policyDetachedEntry{name, h})
	}
	if h, ok := p.(AssignmentCreated); ok {
		r.assignmentCreated = append(r.assignmentCreated, assignmentCreatedEntry{name, h})
	}
	if h, ok := p.(AssignmentDeleted); ok {
		r.assignmentDeleted = append(r.assignmentDeleted, assignmentDeletedEntry{name, h})
	}
	if h, ok := p.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Plugins returns all registered plugins.
func (r *Registry) Plugins() []Plugin { return r.plugins }

// ──────────────────────────────────────────────────
// Refresh event emitters
// ──────────────────────────────────────────────────

// EmitBeforeRefresh notifies all plugins that implement BeforeRefresh.
func (r *Registry) EmitBeforeRefresh(ctx context.Context, userID id.UserID) {
	for _, e := range r.beforeRefresh {
		if err := e.hook.OnBeforeRefresh(ctx, userID); err != nil {
			r.logHookError("OnBeforeRefresh", e.name, err)
		}
	}
}

// EmitAfterRefresh notifies all plugins that implement AfterRefresh.
func (r *Registry) EmitAfterRefresh(ctx context.Context, doc *userperm.Document) {
	for _, e := range r.afterRefresh {
		if err := e.hook.OnAfterRefresh(ctx, doc); err != nil {
			r.logHookError("OnAfterRefresh", e.name, err)
		}
	}
}

// EmitDocumentPersisted notifies all plugins that implement DocumentPersisted.
func (r *Registry) EmitDocumentPersisted(ctx context.Context, doc *userperm.Document) {
	for _, e := range r.documentPersisted {
		if err := e.hook.OnDocumentPersisted(ctx, doc); err != nil {
			r.logHookError("OnDocumentPersisted", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Role event emitters
// ──────────────────────────────────────────────────

// EmitRoleCreated notifies all plugins that implement RoleCreated.
func (r *Registry) EmitRoleCreated(ctx context.Context, rl *role.Role) {
	for _, e := range r.roleCreated {
		if err := e.hook.OnRoleCreated(ctx, rl); err != nil {
			r.logHookError("OnRoleCreated", e.name, err)
		}
	}
}

// EmitRoleUpdated notifies all plugins that implement RoleUpdated.
func (r *Registry) EmitRoleUpdated(ctx context.Context, rl *role.Role) {
	for _, e := range r.roleUpdated {
		if err := e.hook.OnRoleUpdated(ctx, rl); err != nil {
			r.logHookError("OnRoleUpdated", e.name, err)
		}
	}
}

// EmitRoleDeleted notifies all plugins that implement RoleDeleted.
func (r *Registry) EmitRoleDeleted(ctx context.Context, roleID id.RoleID) {
	for _, e := range r.roleDeleted {
		if err := e.hook.OnRoleDeleted(ctx, roleID); err != nil {
			r.logHookError("OnRoleDeleted", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Policy event emitters
// ──────────────────────────────────────────────────

// EmitPolicyCreated notifies all plugins that implement PolicyCreated.
func (r *Registry) EmitPolicyCreated(ctx context.Context, p *policy.Policy) {
	for _, e := range r.policyCreated {
		if err := e.hook.OnPolicyCreated(ctx, p); err != nil {
			r.logHookError("OnPolicyCreated", e.name, err)
		}
	}
}

// EmitPolicyUpdated notifies all plugins that implement PolicyUpdated.
func (r *Registry) EmitPolicyUpdated(ctx context.Context, p *policy.Policy) {
	for _, e := range r.policyUpdated {
		if err := e.hook.OnPolicyUpdated(ctx, p); err != nil {
			r.logHookError("OnPolicyUpdated", e.name, err)
		}
	}
}

// EmitPolicyDeleted notifies all plugins that implement PolicyDeleted.
func (r *Registry) EmitPolicyDeleted(ctx context.Context, policyID id.PolicyID) {
	for _, e := range r.policyDeleted {
		if err := e.hook.OnPolicyDeleted(ctx, policyID); err != nil {
			r.logHookError("OnPolicyDeleted", e.name, err)
		}
	}
}

// EmitPolicyAttached notifies all plugins that implement PolicyAttached.
func (r *Registry) EmitPolicyAttached(ctx context.Context, roleID id.RoleID, policyID id.PolicyID) {
	for _, e := range r.policyAttached {
		if err := e.hook.OnPolicyAttached(ctx, roleID, policyID); err != nil {
			r.logHookError("OnPolicyAttached", e.name, err)
		}
	}
}

// EmitPolicyDetached notifies all plugins that implement PolicyDetached.
func (r *Registry) EmitPolicyDetached(ctx context.Context, roleID id.RoleID, policyID id.PolicyID) {
	for _, e := range r.policyDetached {
		if err := e.hook.OnPolicyDetached(ctx, roleID, policyID); err != nil {
			r.logHookError("OnPolicyDetached", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Assignment event emitters
// ──────────────────────────────────────────────────

// EmitAssignmentCreated notifies all plugins that implement AssignmentCreated.
func (r *Registry) EmitAssignmentCreated(ctx context.Context, a *assignment.Assignment) {
	for _, e := range r.assignmentCreated {
		if err := e.hook.OnAssignmentCreated(ctx, a); err != nil {
			r.logHookError("OnAssignmentCreated", e.name, err)
		}
	}
}

// EmitAssignmentDeleted notifies all plugins that implement AssignmentDeleted.
func (r *Registry) EmitAssignmentDeleted(ctx context.Context, a *assignment.Assignment) {
	for _, e := range r.assignmentDeleted {
		if err := e.hook.OnAssignmentDeleted(ctx, a); err != nil {
			r.logHookError("OnAssignmentDeleted", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Shutdown emitter
// ──────────────────────────────────────────────────

// EmitShutdown notifies all plugins that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated — they must not block the pipeline.
func (r *Registry) logHookError(hook, pluginName string, err error) {
	r.logger.Warn("plugin hook error",
		slog.String("hook", hook),
		slog.String("plugin", pluginName),
		slog.String("error", err.Error()),
	)
}
