// Package memory provides an in-memory implementation of the Aegis
// composite relational store. It is intended for testing and development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fincase/aegis/assignment"
	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/identity"
	"github.com/fincase/aegis/module"
	"github.com/fincase/aegis/orgunit"
	"github.com/fincase/aegis/policy"
	"github.com/fincase/aegis/refreshlog"
	"github.com/fincase/aegis/role"
)

// Compile-time interface checks.
var (
	_ identity.Store   = (*Store)(nil)
	_ orgunit.Store    = (*Store)(nil)
	_ role.Store       = (*Store)(nil)
	_ policy.Store     = (*Store)(nil)
	_ assignment.Store = (*Store)(nil)
	_ module.Store     = (*Store)(nil)
	_ refreshlog.Store = (*Store)(nil)
)

// Store is a thread-safe in-memory store for all Aegis relational entities.
type Store struct {
	mu sync.RWMutex

	users        map[string]*identity.User
	orgUnits     map[string]*orgunit.OrgUnit
	roles        map[string]*role.Role
	rolePolicies map[string]map[string]struct{} // roleID -> set of policyIDs
	policies     map[string]*policy.Policy
	mappings     map[string]*policy.EntityMapping
	assignments  map[string]*assignment.Assignment
	modules      map[string]*module.Module
	refreshLogs  map[string]*refreshlog.Entry
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		users:        make(map[string]*identity.User),
		orgUnits:     make(map[string]*orgunit.OrgUnit),
		roles:        make(map[string]*role.Role),
		rolePolicies: make(map[string]map[string]struct{}),
		policies:     make(map[string]*policy.Policy),
		mappings:     make(map[string]*policy.EntityMapping),
		assignments:  make(map[string]*assignment.Assignment),
		modules:      make(map[string]*module.Module),
		refreshLogs:  make(map[string]*refreshlog.Entry),
	}
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping is a no-op for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Identity Store
// ──────────────────────────────────────────────────

func (s *Store) CreateUser(_ context.Context, u *identity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID.String()] = copyUser(u)
	return nil
}

func (s *Store) GetUser(_ context.Context, userID id.UserID) (*identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID.String()]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, identity.ErrNotFound)
	}
	return copyUser(u), nil
}

func (s *Store) UpdateUser(_ context.Context, u *identity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID.String()]; !ok {
		return fmt.Errorf("user %s: %w", u.ID, identity.ErrNotFound)
	}
	s.users[u.ID.String()] = copyUser(u)
	return nil
}

func (s *Store) DeleteUser(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID.String())
	return nil
}

func (s *Store) ListUsers(_ context.Context, filter *identity.ListFilter) ([]*identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*identity.User, 0, len(s.users))
	for _, u := range s.users {
		if filter != nil {
			if filter.IsActive != nil && u.IsActive != *filter.IsActive {
				continue
			}
			if filter.Search != "" && !matchSearch(u.FullName(), filter.Search) && !matchSearch(u.Email, filter.Search) {
				continue
			}
		}
		result = append(result, copyUser(u))
	}
	sortByID(result, func(u *identity.User) string { return u.ID.String() })
	if filter != nil {
		result = applyPagination(result, pagOpts{limit: filter.Limit, offset: filter.Offset})
	}
	return result, nil
}

func (s *Store) CountUsers(ctx context.Context, filter *identity.ListFilter) (int64, error) {
	return countOf(ctx, filter, stripPagUser, s.ListUsers)
}

// ──────────────────────────────────────────────────
// Org Unit Store
// ──────────────────────────────────────────────────

func (s *Store) CreateOrgUnit(_ context.Context, ou *orgunit.OrgUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgUnits[ou.ID.String()] = copyOrgUnit(ou)
	return nil
}

func (s *Store) GetOrgUnit(_ context.Context, orgUnitID id.OrgUnitID) (*orgunit.OrgUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ou, ok := s.orgUnits[orgUnitID.String()]
	if !ok {
		return nil, fmt.Errorf("org unit %s: %w", orgUnitID, orgunit.ErrNotFound)
	}
	return copyOrgUnit(ou), nil
}

func (s *Store) GetOrgUnitByKey(_ context.Context, key string) (*orgunit.OrgUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ou := range s.orgUnits {
		if ou.Key == key {
			return copyOrgUnit(ou), nil
		}
	}
	return nil, fmt.Errorf("org unit key %q: %w", key, orgunit.ErrNotFound)
}

func (s *Store) UpdateOrgUnit(_ context.Context, ou *orgunit.OrgUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgUnits[ou.ID.String()]; !ok {
		return fmt.Errorf("org unit %s: %w", ou.ID, orgunit.ErrNotFound)
	}
	s.orgUnits[ou.ID.String()] = copyOrgUnit(ou)
	return nil
}

func (s *Store) DeleteOrgUnit(_ context.Context, orgUnitID id.OrgUnitID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orgUnits, orgUnitID.String())
	return nil
}

func (s *Store) ListOrgUnits(_ context.Context, filter *orgunit.ListFilter) ([]*orgunit.OrgUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*orgunit.OrgUnit, 0, len(s.orgUnits))
	for _, ou := range s.orgUnits {
		if filter != nil {
			if filter.ParentID != nil && (ou.ParentID == nil || ou.ParentID.String() != filter.ParentID.String()) {
				continue
			}
			if filter.IsActive != nil && ou.IsActive != *filter.IsActive {
				continue
			}
			if filter.Search != "" && !matchSearch(ou.Name, filter.Search) && !matchSearch(ou.Key, filter.Search) {
				continue
			}
		}
		result = append(result, copyOrgUnit(ou))
	}
	sortByID(result, func(ou *orgunit.OrgUnit) string { return ou.ID.String() })
	if filter != nil {
		result = applyPagination(result, pagOpts{limit: filter.Limit, offset: filter.Offset})
	}
	return result, nil
}

func (s *Store) CountOrgUnits(ctx context.Context, filter *orgunit.ListFilter) (int64, error) {
	return countOf(ctx, filter, stripPagOrgUnit, s.ListOrgUnits)
}

func (s *Store) ListChildOrgUnits(_ context.Context, parentID id.OrgUnitID) ([]*orgunit.OrgUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pid := parentID.String()
	var result []*orgunit.OrgUnit
	for _, ou := range s.orgUnits {
		if ou.ParentID != nil && ou.ParentID.String() == pid {
			result = append(result, copyOrgUnit(ou))
		}
	}
	sortByID(result, func(ou *orgunit.OrgUnit) string { return ou.ID.String() })
	return result, nil
}

// ──────────────────────────────────────────────────
// Role Store
// ──────────────────────────────────────────────────

func (s *Store) CreateRole(_ context.Context, r *role.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[r.ID.String()] = copyRole(r)
	return nil
}

func (s *Store) GetRole(_ context.Context, roleID id.RoleID) (*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roles[roleID.String()]
	if !ok {
		return nil, fmt.Errorf("role %s: %w", roleID, role.ErrNotFound)
	}
	return copyRole(r), nil
}

func (s *Store) GetRoleBySlug(_ context.Context, slug string) (*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.roles {
		if r.Slug == slug {
			return copyRole(r), nil
		}
	}
	return nil, fmt.Errorf("role slug %q: %w", slug, role.ErrNotFound)
}

func (s *Store) UpdateRole(_ context.Context, r *role.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[r.ID.String()]; !ok {
		return fmt.Errorf("role %s: %w", r.ID, role.ErrNotFound)
	}
	s.roles[r.ID.String()] = copyRole(r)
	return nil
}

func (s *Store) DeleteRole(_ context.Context, roleID id.RoleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.roles, roleID.String())
	delete(s.rolePolicies, roleID.String())
	return nil
}

func (s *Store) ListRoles(_ context.Context, filter *role.ListFilter) ([]*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*role.Role, 0, len(s.roles))
	for _, r := range s.roles {
		if filter != nil {
			if filter.IsSystem != nil && r.IsSystem != *filter.IsSystem {
				continue
			}
			if filter.Search != "" && !matchSearch(r.Name, filter.Search) {
				continue
			}
		}
		result = append(result, copyRole(r))
	}
	sortByID(result, func(r *role.Role) string { return r.ID.String() })
	if filter != nil {
		result = applyPagination(result, pagOpts{limit: filter.Limit, offset: filter.Offset})
	}
	return result, nil
}

func (s *Store) CountRoles(ctx context.Context, filter *role.ListFilter) (int64, error) {
	return countOf(ctx, filter, stripPagRole, s.ListRoles)
}

func (s *Store) ListRolePolicies(_ context.Context, roleID id.RoleID) ([]id.PolicyID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pols, ok := s.rolePolicies[roleID.String()]
	if !ok {
		return nil, nil
	}
	result := make([]id.PolicyID, 0, len(pols))
	for pid := range pols {
		parsed, err := id.ParsePolicyID(pid)
		if err == nil {
			result = append(result, parsed)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].String() < result[j].String() })
	return result, nil
}

func (s *Store) AttachPolicy(_ context.Context, roleID id.RoleID, policyID id.PolicyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rk := roleID.String()
	if s.rolePolicies[rk] == nil {
		s.rolePolicies[rk] = make(map[string]struct{})
	}
	s.rolePolicies[rk][policyID.String()] = struct{}{}
	return nil
}

func (s *Store) DetachPolicy(_ context.Context, roleID id.RoleID, policyID id.PolicyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pols, ok := s.rolePolicies[roleID.String()]; ok {
		delete(pols, policyID.String())
	}
	return nil
}

func (s *Store) SetRolePolicies(_ context.Context, roleID id.RoleID, policyIDs []id.PolicyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pols := make(map[string]struct{}, len(policyIDs))
	for _, pid := range policyIDs {
		pols[pid.String()] = struct{}{}
	}
	s.rolePolicies[roleID.String()] = pols
	return nil
}

// ──────────────────────────────────────────────────
// Policy Store
// ──────────────────────────────────────────────────

func (s *Store) CreatePolicy(_ context.Context, p *policy.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies[p.ID.String()] = copyPolicy(p)
	return nil
}

func (s *Store) GetPolicy(_ context.Context, policyID id.PolicyID) (*policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.policies[policyID.String()]
	if !ok {
		return nil, fmt.Errorf("policy %s: %w", policyID, policy.ErrNotFound)
	}
	return copyPolicy(p), nil
}

func (s *Store) GetPolicyByName(_ context.Context, name string) (*policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.policies {
		if p.Name == name {
			return copyPolicy(p), nil
		}
	}
	return nil, fmt.Errorf("policy %q: %w", name, policy.ErrNotFound)
}

func (s *Store) UpdatePolicy(_ context.Context, p *policy.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.policies[p.ID.String()]; !ok {
		return fmt.Errorf("policy %s: %w", p.ID, policy.ErrNotFound)
	}
	s.policies[p.ID.String()] = copyPolicy(p)
	return nil
}

func (s *Store) DeletePolicy(_ context.Context, policyID id.PolicyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pk := policyID.String()
	delete(s.policies, pk)
	for k, m := range s.mappings {
		if m.PolicyID.String() == pk {
			delete(s.mappings, k)
		}
	}
	for _, pols := range s.rolePolicies {
		delete(pols, pk)
	}
	return nil
}

func (s *Store) ListPolicies(_ context.Context, filter *policy.ListFilter) ([]*policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*policy.Policy, 0, len(s.policies))
	for _, p := range s.policies {
		if filter != nil {
			if filter.IsActive != nil && p.IsActive != *filter.IsActive {
				continue
			}
			if filter.Search != "" && !matchSearch(p.Name, filter.Search) {
				continue
			}
		}
		result = append(result, copyPolicy(p))
	}
	sortByID(result, func(p *policy.Policy) string { return p.ID.String() })
	if filter != nil {
		result = applyPagination(result, pagOpts{limit: filter.Limit, offset: filter.Offset})
	}
	return result, nil
}

func (s *Store) CountPolicies(ctx context.Context, filter *policy.ListFilter) (int64, error) {
	return countOf(ctx, filter, stripPagPolicy, s.ListPolicies)
}

func (s *Store) ListPoliciesForRole(_ context.Context, roleID id.RoleID) ([]*policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pols, ok := s.rolePolicies[roleID.String()]
	if !ok {
		return nil, nil
	}
	result := make([]*policy.Policy, 0, len(pols))
	for pid := range pols {
		if p, found := s.policies[pid]; found {
			result = append(result, copyPolicy(p))
		}
	}
	sortByID(result, func(p *policy.Policy) string { return p.ID.String() })
	return result, nil
}

func (s *Store) ListMappingsForPolicy(_ context.Context, policyID id.PolicyID) ([]*policy.EntityMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pk := policyID.String()
	var result []*policy.EntityMapping
	for _, m := range s.mappings {
		if m.PolicyID.String() == pk {
			result = append(result, copyMapping(m))
		}
	}
	sortByID(result, func(m *policy.EntityMapping) string { return m.ID.String() })
	return result, nil
}

func (s *Store) AddMapping(_ context.Context, m *policy.EntityMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[m.ID.String()] = copyMapping(m)
	return nil
}

func (s *Store) RemoveMapping(_ context.Context, mappingID id.MappingID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mappings[mappingID.String()]; !ok {
		return fmt.Errorf("mapping %s: %w", mappingID, policy.ErrMappingNotFound)
	}
	delete(s.mappings, mappingID.String())
	return nil
}

func (s *Store) ReplaceMappings(_ context.Context, policyID id.PolicyID, mappings []*policy.EntityMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pk := policyID.String()
	for k, m := range s.mappings {
		if m.PolicyID.String() == pk {
			delete(s.mappings, k)
		}
	}
	for _, m := range mappings {
		s.mappings[m.ID.String()] = copyMapping(m)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Assignment Store
// ──────────────────────────────────────────────────

func (s *Store) CreateAssignment(_ context.Context, a *assignment.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[a.ID.String()] = copyAssignment(a)
	return nil
}

func (s *Store) GetAssignment(_ context.Context, assignmentID id.AssignmentID) (*assignment.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[assignmentID.String()]
	if !ok {
		return nil, fmt.Errorf("assignment %s: %w", assignmentID, assignment.ErrNotFound)
	}
	return copyAssignment(a), nil
}

func (s *Store) DeleteAssignment(_ context.Context, assignmentID id.AssignmentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assignments, assignmentID.String())
	return nil
}

func (s *Store) ListAssignments(_ context.Context, filter *assignment.ListFilter) ([]*assignment.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*assignment.Assignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		if filter != nil {
			if filter.UserID != nil && a.UserID.String() != filter.UserID.String() {
				continue
			}
			if filter.OrgUnitID != nil && a.OrgUnitID.String() != filter.OrgUnitID.String() {
				continue
			}
			if filter.RoleID != nil && a.RoleID.String() != filter.RoleID.String() {
				continue
			}
		}
		result = append(result, copyAssignment(a))
	}
	sortByID(result, func(a *assignment.Assignment) string { return a.ID.String() })
	if filter != nil {
		result = applyPagination(result, pagOpts{limit: filter.Limit, offset: filter.Offset})
	}
	return result, nil
}

func (s *Store) CountAssignments(ctx context.Context, filter *assignment.ListFilter) (int64, error) {
	return countOf(ctx, filter, stripPagAssign, s.ListAssignments)
}

func (s *Store) ListAssignmentsForUser(_ context.Context, userID id.UserID) ([]*assignment.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uid := userID.String()
	result := make([]*assignment.Assignment, 0)
	for _, a := range s.assignments {
		if a.UserID.String() == uid {
			result = append(result, copyAssignment(a))
		}
	}
	sortByID(result, func(a *assignment.Assignment) string { return a.ID.String() })
	return result, nil
}

func (s *Store) DeleteAssignmentsByUser(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid := userID.String()
	for k, a := range s.assignments {
		if a.UserID.String() == uid {
			delete(s.assignments, k)
		}
	}
	return nil
}

func (s *Store) DeleteAssignmentsByRole(_ context.Context, roleID id.RoleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rid := roleID.String()
	for k, a := range s.assignments {
		if a.RoleID.String() == rid {
			delete(s.assignments, k)
		}
	}
	return nil
}

func (s *Store) DeleteAssignmentsByOrgUnit(_ context.Context, orgUnitID id.OrgUnitID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	oid := orgUnitID.String()
	for k, a := range s.assignments {
		if a.OrgUnitID.String() == oid {
			delete(s.assignments, k)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Module Store
// ──────────────────────────────────────────────────

func (s *Store) CreateModule(_ context.Context, m *module.Module) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules[m.ID.String()] = copyModule(m)
	return nil
}

func (s *Store) GetModule(_ context.Context, moduleID id.ModuleID) (*module.Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.modules[moduleID.String()]
	if !ok {
		return nil, fmt.Errorf("module %s: %w", moduleID, module.ErrNotFound)
	}
	return copyModule(m), nil
}

func (s *Store) GetModuleByName(_ context.Context, name string) (*module.Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.modules {
		if m.Name == name {
			return copyModule(m), nil
		}
	}
	return nil, fmt.Errorf("module %q: %w", name, module.ErrNotFound)
}

func (s *Store) UpdateModule(_ context.Context, m *module.Module) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.modules[m.ID.String()]; !ok {
		return fmt.Errorf("module %s: %w", m.ID, module.ErrNotFound)
	}
	s.modules[m.ID.String()] = copyModule(m)
	return nil
}

func (s *Store) DeleteModule(_ context.Context, moduleID id.ModuleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.modules, moduleID.String())
	return nil
}

func (s *Store) ListModules(_ context.Context, filter *module.ListFilter) ([]*module.Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*module.Module, 0, len(s.modules))
	for _, m := range s.modules {
		if filter != nil {
			if filter.IsEnabled != nil && m.IsEnabled != *filter.IsEnabled {
				continue
			}
			if filter.Search != "" && !matchSearch(m.Name, filter.Search) {
				continue
			}
		}
		result = append(result, copyModule(m))
	}
	sortByID(result, func(m *module.Module) string { return m.ID.String() })
	if filter != nil {
		result = applyPagination(result, pagOpts{limit: filter.Limit, offset: filter.Offset})
	}
	return result, nil
}

func (s *Store) CountModules(ctx context.Context, filter *module.ListFilter) (int64, error) {
	return countOf(ctx, filter, stripPagModule, s.ListModules)
}

// ──────────────────────────────────────────────────
// Refresh Log Store
// ──────────────────────────────────────────────────

func (s *Store) RecordRefresh(_ context.Context, e *refreshlog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLogs[e.ID.String()] = copyRefreshEntry(e)
	return nil
}

func (s *Store) QueryRefreshLog(_ context.Context, filter *refreshlog.QueryFilter) ([]*refreshlog.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*refreshlog.Entry, 0, len(s.refreshLogs))
	for _, e := range s.refreshLogs {
		if filter != nil {
			if filter.UserID != "" && e.UserID != filter.UserID {
				continue
			}
			if filter.Status != "" && e.Status != filter.Status {
				continue
			}
			if filter.After != nil && e.CreatedAt.Before(*filter.After) {
				continue
			}
			if filter.Before != nil && e.CreatedAt.After(*filter.Before) {
				continue
			}
		}
		result = append(result, copyRefreshEntry(e))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if filter != nil {
		result = applyPagination(result, pagOpts{limit: filter.Limit, offset: filter.Offset})
	}
	return result, nil
}

func (s *Store) CountRefreshLog(ctx context.Context, filter *refreshlog.QueryFilter) (int64, error) {
	return countOf(ctx, filter, stripPagRefresh, s.QueryRefreshLog)
}

func (s *Store) PurgeRefreshLog(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for k, e := range s.refreshLogs {
		if e.CreatedAt.Before(before) {
			delete(s.refreshLogs, k)
			count++
		}
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func copyUser(u *identity.User) *identity.User {
	c := *u
	if u.Metadata != nil {
		c.Metadata = make(map[string]any, len(u.Metadata))
		for k, v := range u.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

func copyOrgUnit(ou *orgunit.OrgUnit) *orgunit.OrgUnit {
	c := *ou
	if ou.ParentID != nil {
		pid := *ou.ParentID
		c.ParentID = &pid
	}
	if ou.Metadata != nil {
		c.Metadata = make(map[string]any, len(ou.Metadata))
		for k, v := range ou.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

func copyRole(r *role.Role) *role.Role {
	c := *r
	if r.Metadata != nil {
		c.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

func copyPolicy(p *policy.Policy) *policy.Policy {
	c := *p
	if p.Metadata != nil {
		c.Metadata = make(map[string]any, len(p.Metadata))
		for k, v := range p.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

func copyMapping(m *policy.EntityMapping) *policy.EntityMapping {
	c := *m
	return &c
}

func copyAssignment(a *assignment.Assignment) *assignment.Assignment {
	c := *a
	return &c
}

func copyModule(m *module.Module) *module.Module {
	c := *m
	return &c
}

func copyRefreshEntry(e *refreshlog.Entry) *refreshlog.Entry {
	c := *e
	return &c
}

func matchSearch(value, search string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(search))
}

// sortByID gives list results a stable order; map iteration alone is
// random and would make pagination nondeterministic.
func sortByID[T any](items []*T, key func(*T) string) {
	sort.Slice(items, func(i, j int) bool { return key(items[i]) < key(items[j]) })
}

type pagOpts struct{ limit, offset int }

func applyPagination[T any](items []*T, p pagOpts) []*T {
	if p.offset >= len(items) && p.offset > 0 {
		return items[:0]
	}
	if p.offset > 0 {
		items = items[p.offset:]
	}
	if p.limit > 0 && p.limit < len(items) {
		items = items[:p.limit]
	}
	return items
}

// countOf counts by listing with pagination stripped from the filter.
func countOf[F any, T any](ctx context.Context, filter *F, strip func(*F) *F, list func(context.Context, *F) ([]*T, error)) (int64, error) {
	items, err := list(ctx, strip(filter))
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

func stripPagUser(f *identity.ListFilter) *identity.ListFilter {
	if f == nil {
		return nil
	}
	c := *f
	c.Limit, c.Offset = 0, 0
	return &c
}

func stripPagOrgUnit(f *orgunit.ListFilter) *orgunit.ListFilter {
	if f == nil {
		return nil
	}
	c := *f
	c.Limit, c.Offset = 0, 0
	return &c
}

func stripPagRole(f *role.ListFilter) *role.ListFilter {
	if f == nil {
		return nil
	}
	c := *f
	c.Limit, c.Offset = 0, 0
	return &c
}

func stripPagPolicy(f *policy.ListFilter) *policy.ListFilter {
	if f == nil {
		return nil
	}
	c := *f
	c.Limit, c.Offset = 0, 0
	return &c
}

func stripPagAssign(f *assignment.ListFilter) *assignment.ListFilter {
	if f == nil {
		return nil
	}
	c := *f
	c.Limit, c.Offset = 0, 0
	return &c
}

func stripPagModule(f *module.ListFilter) *module.ListFilter {
	if f == nil {
		return nil
	}
	c := *f
	c.Limit, c.Offset = 0, 0
	return &c
}

func stripPagRefresh(f *refreshlog.QueryFilter) *refreshlog.QueryFilter {
	if f == nil {
		return nil
	}
	c := *f
	c.Limit, c.Offset = 0, 0
	return &c
}
