// Package sqlite provides a SQLite implementation of the Aegis
// composite store, suited to embedded and single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	"github.com/fincase/aegis/assignment"
	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/identity"
	"github.com/fincase/aegis/module"
	"github.com/fincase/aegis/orgunit"
	"github.com/fincase/aegis/policy"
	"github.com/fincase/aegis/refreshlog"
	"github.com/fincase/aegis/role"
	"github.com/fincase/aegis/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a SQLite implementation of the composite Aegis store.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// Migrate runs programmatic migrations via the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("aegis/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("aegis/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// ──────────────────────────────────────────────────
// User operations
// ──────────────────────────────────────────────────

func (s *Store) CreateUser(ctx context.Context, u *identity.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	m, err := userToModel(u)
	if err != nil {
		return fmt.Errorf("aegis: create user: %w", err)
	}
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("aegis: create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID id.UserID) (*identity.User, error) {
	m := new(userModel)
	err := s.sdb.NewSelect(m).Where("id = ?", userID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("user %s: %w", userID, identity.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get user: %w", err)
	}
	return userFromModel(m)
}

func (s *Store) UpdateUser(ctx context.Context, u *identity.User) error {
	u.UpdatedAt = time.Now().UTC()
	m, err := userToModel(u)
	if err != nil {
		return fmt.Errorf("aegis: update user: %w", err)
	}
	if _, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("aegis: update user: %w", err)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, userID id.UserID) error {
	_, err := s.sdb.NewDelete((*userModel)(nil)).
		Where("id = ?", userID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete user: %w", err)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context, filter *identity.ListFilter) ([]*identity.User, error) {
	var models []userModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if filter.IsActive != nil {
			q = q.Where("is_active = ?", *filter.IsActive)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(first_name || ' ' || last_name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("aegis: list users: %w", err)
	}
	result := make([]*identity.User, len(models))
	for i := range models {
		u, err := userFromModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = u
	}
	return result, nil
}

func (s *Store) CountUsers(ctx context.Context, filter *identity.ListFilter) (int64, error) {
	q := s.sdb.NewSelect((*userModel)(nil))
	if filter != nil {
		if filter.IsActive != nil {
			q = q.Where("is_active = ?", *filter.IsActive)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(first_name || ' ' || last_name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("aegis: count users: %w", err)
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// Org unit operations
// ──────────────────────────────────────────────────

func (s *Store) CreateOrgUnit(ctx context.Context, ou *orgunit.OrgUnit) error {
	now := time.Now().UTC()
	ou.CreatedAt = now
	ou.UpdatedAt = now
	m, err := orgUnitToModel(ou)
	if err != nil {
		return fmt.Errorf("aegis: create org unit: %w", err)
	}
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("aegis: create org unit: %w", err)
	}
	return nil
}

func (s *Store) GetOrgUnit(ctx context.Context, orgUnitID id.OrgUnitID) (*orgunit.OrgUnit, error) {
	m := new(orgUnitModel)
	err := s.sdb.NewSelect(m).Where("id = ?", orgUnitID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("org unit %s: %w", orgUnitID, orgunit.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get org unit: %w", err)
	}
	return orgUnitFromModel(m)
}

func (s *Store) GetOrgUnitByKey(ctx context.Context, key string) (*orgunit.OrgUnit, error) {
	m := new(orgUnitModel)
	err := s.sdb.NewSelect(m).Where("key = ?", key).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("org unit key %q: %w", key, orgunit.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get org unit by key: %w", err)
	}
	return orgUnitFromModel(m)
}

func (s *Store) UpdateOrgUnit(ctx context.Context, ou *orgunit.OrgUnit) error {
	ou.UpdatedAt = time.Now().UTC()
	m, err := orgUnitToModel(ou)
	if err != nil {
		return fmt.Errorf("aegis: update org unit: %w", err)
	}
	if _, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("aegis: update org unit: %w", err)
	}
	return nil
}

func (s *Store) DeleteOrgUnit(ctx context.Context, orgUnitID id.OrgUnitID) error {
	_, err := s.sdb.NewDelete((*orgUnitModel)(nil)).
		Where("id = ?", orgUnitID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete org unit: %w", err)
	}
	return nil
}

func (s *Store) ListOrgUnits(ctx context.Context, filter *orgunit.ListFilter) ([]*orgunit.OrgUnit, error) {
	var models []orgUnitModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if filter.ParentID != nil {
			q = q.Where("parent_id = ?", filter.ParentID.String())
		}
		if filter.IsActive != nil {
			q = q.Where("is_active = ?", *filter.IsActive)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("aegis: list org units: %w", err)
	}
	result := make([]*orgunit.OrgUnit, len(models))
	for i := range models {
		ou, err := orgUnitFromModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = ou
	}
	return result, nil
}

func (s *Store) CountOrgUnits(ctx context.Context, filter *orgunit.ListFilter) (int64, error) {
	q := s.sdb.NewSelect((*orgUnitModel)(nil))
	if filter != nil {
		if filter.ParentID != nil {
			q = q.Where("parent_id = ?", filter.ParentID.String())
		}
		if filter.IsActive != nil {
			q = q.Where("is_active = ?", *filter.IsActive)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("aegis: count org units: %w", err)
	}
	return count, nil
}

func (s *Store) ListChildOrgUnits(ctx context.Context, parentID id.OrgUnitID) ([]*orgunit.OrgUnit, error) {
	var models []orgUnitModel
	err := s.sdb.NewSelect(&models).
		Where("parent_id = ?", parentID.String()).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("aegis: list child org units: %w", err)
	}
	result := make([]*orgunit.OrgUnit, len(models))
	for i := range models {
		ou, err := orgUnitFromModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = ou
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Role operations
// ──────────────────────────────────────────────────

func (s *Store) CreateRole(ctx context.Context, r *role.Role) error {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	m, err := roleToModel(r)
	if err != nil {
		return fmt.Errorf("aegis: create role: %w", err)
	}
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("aegis: create role: %w", err)
	}
	return nil
}

func (s *Store) GetRole(ctx context.Context, roleID id.RoleID) (*role.Role, error) {
	m := new(roleModel)
	err := s.sdb.NewSelect(m).Where("id = ?", roleID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("role %s: %w", roleID, role.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get role: %w", err)
	}
	return roleFromModel(m)
}

func (s *Store) GetRoleBySlug(ctx context.Context, slug string) (*role.Role, error) {
	m := new(roleModel)
	err := s.sdb.NewSelect(m).Where("slug = ?", slug).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("role slug %q: %w", slug, role.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get role by slug: %w", err)
	}
	return roleFromModel(m)
}

func (s *Store) UpdateRole(ctx context.Context, r *role.Role) error {
	r.UpdatedAt = time.Now().UTC()
	m, err := roleToModel(r)
	if err != nil {
		return fmt.Errorf("aegis: update role: %w", err)
	}
	if _, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("aegis: update role: %w", err)
	}
	return nil
}

func (s *Store) DeleteRole(ctx context.Context, roleID id.RoleID) error {
	// SQLite junction rows lack FK cascade, clean them up explicitly.
	if _, err := s.sdb.NewDelete((*rolePolicyModel)(nil)).
		Where("role_id = ?", roleID.String()).Exec(ctx); err != nil {
		return fmt.Errorf("aegis: delete role bindings: %w", err)
	}
	_, err := s.sdb.NewDelete((*roleModel)(nil)).
		Where("id = ?", roleID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete role: %w", err)
	}
	return nil
}

func (s *Store) ListRoles(ctx context.Context, filter *role.ListFilter) ([]*role.Role, error) {
	var models []roleModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if filter.IsSystem != nil {
			q = q.Where("is_system = ?", *filter.IsSystem)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("aegis: list roles: %w", err)
	}
	result := make([]*role.Role, len(models))
	for i := range models {
		r, err := roleFromModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}

func (s *Store) CountRoles(ctx context.Context, filter *role.ListFilter) (int64, error) {
	q := s.sdb.NewSelect((*roleModel)(nil))
	if filter != nil {
		if filter.IsSystem != nil {
			q = q.Where("is_system = ?", *filter.IsSystem)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("aegis: count roles: %w", err)
	}
	return count, nil
}

func (s *Store) ListRolePolicies(ctx context.Context, roleID id.RoleID) ([]id.PolicyID, error) {
	var models []rolePolicyModel
	err := s.sdb.NewSelect(&models).
		Where("role_id = ?", roleID.String()).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("aegis: list role policies: %w", err)
	}
	result := make([]id.PolicyID, 0, len(models))
	for _, m := range models {
		pid, err := id.ParsePolicyID(m.PolicyID)
		if err == nil {
			result = append(result, pid)
		}
	}
	return result, nil
}

func (s *Store) AttachPolicy(ctx context.Context, roleID id.RoleID, policyID id.PolicyID) error {
	m := &rolePolicyModel{
		RoleID:   roleID.String(),
		PolicyID: policyID.String(),
	}
	_, err := s.sdb.NewInsert(m).
		OnConflict("(role_id, policy_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: attach policy: %w", err)
	}
	return nil
}

func (s *Store) DetachPolicy(ctx context.Context, roleID id.RoleID, policyID id.PolicyID) error {
	_, err := s.sdb.NewDelete((*rolePolicyModel)(nil)).
		Where("role_id = ?", roleID.String()).
		Where("policy_id = ?", policyID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: detach policy: %w", err)
	}
	return nil
}

func (s *Store) SetRolePolicies(ctx context.Context, roleID id.RoleID, policyIDs []id.PolicyID) error {
	tx, err := s.sdb.BeginTxQuery(ctx, nil)
	if err != nil {
		return fmt.Errorf("aegis: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	_, err = tx.NewDelete((*rolePolicyModel)(nil)).
		Where("role_id = ?", roleID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: clear role policies: %w", err)
	}

	if len(policyIDs) > 0 {
		models := make([]rolePolicyModel, len(policyIDs))
		for i, pid := range policyIDs {
			models[i] = rolePolicyModel{
				RoleID:   roleID.String(),
				PolicyID: pid.String(),
			}
		}
		_, err = tx.NewInsert(&models).Exec(ctx)
		if err != nil {
			return fmt.Errorf("aegis: set role policies: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("aegis: commit tx: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Policy operations
// ──────────────────────────────────────────────────

func (s *Store) CreatePolicy(ctx context.Context, p *policy.Policy) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	m, err := policyToModel(p)
	if err != nil {
		return fmt.Errorf("aegis: create policy: %w", err)
	}
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("aegis: create policy: %w", err)
	}
	return nil
}

func (s *Store) GetPolicy(ctx context.Context, policyID id.PolicyID) (*policy.Policy, error) {
	m := new(policyModel)
	err := s.sdb.NewSelect(m).Where("id = ?", policyID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("policy %s: %w", policyID, policy.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get policy: %w", err)
	}
	return policyFromModel(m)
}

func (s *Store) GetPolicyByName(ctx context.Context, name string) (*policy.Policy, error) {
	m := new(policyModel)
	err := s.sdb.NewSelect(m).Where("name = ?", name).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("policy %q: %w", name, policy.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get policy by name: %w", err)
	}
	return policyFromModel(m)
}

func (s *Store) UpdatePolicy(ctx context.Context, p *policy.Policy) error {
	p.UpdatedAt = time.Now().UTC()
	m, err := policyToModel(p)
	if err != nil {
		return fmt.Errorf("aegis: update policy: %w", err)
	}
	if _, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("aegis: update policy: %w", err)
	}
	return nil
}

func (s *Store) DeletePolicy(ctx context.Context, policyID id.PolicyID) error {
	tx, err := s.sdb.BeginTxQuery(ctx, nil)
	if err != nil {
		return fmt.Errorf("aegis: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	if _, err := tx.NewDelete((*entityMappingModel)(nil)).
		Where("policy_id = ?", policyID.String()).Exec(ctx); err != nil {
		return fmt.Errorf("aegis: delete policy mappings: %w", err)
	}
	if _, err := tx.NewDelete((*rolePolicyModel)(nil)).
		Where("policy_id = ?", policyID.String()).Exec(ctx); err != nil {
		return fmt.Errorf("aegis: delete policy bindings: %w", err)
	}
	if _, err := tx.NewDelete((*policyModel)(nil)).
		Where("id = ?", policyID.String()).Exec(ctx); err != nil {
		return fmt.Errorf("aegis: delete policy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("aegis: commit tx: %w", err)
	}
	return nil
}

func (s *Store) ListPolicies(ctx context.Context, filter *policy.ListFilter) ([]*policy.Policy, error) {
	var models []policyModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if filter.IsActive != nil {
			q = q.Where("is_active = ?", *filter.IsActive)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("aegis: list policies: %w", err)
	}
	result := make([]*policy.Policy, len(models))
	for i := range models {
		p, err := policyFromModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

func (s *Store) CountPolicies(ctx context.Context, filter *policy.ListFilter) (int64, error) {
	q := s.sdb.NewSelect((*policyModel)(nil))
	if filter != nil {
		if filter.IsActive != nil {
			q = q.Where("is_active = ?", *filter.IsActive)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("aegis: count policies: %w", err)
	}
	return count, nil
}

func (s *Store) ListPoliciesForRole(ctx context.Context, roleID id.RoleID) ([]*policy.Policy, error) {
	var models []policyModel
	err := s.sdb.NewSelect(&models).
		Join("JOIN", "aegis_role_policies AS rp", "rp.policy_id = aegis_policies.id").
		Where("rp.role_id = ?", roleID.String()).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("aegis: list policies for role: %w", err)
	}
	result := make([]*policy.Policy, len(models))
	for i := range models {
		p, err := policyFromModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

func (s *Store) ListMappingsForPolicy(ctx context.Context, policyID id.PolicyID) ([]*policy.EntityMapping, error) {
	var models []entityMappingModel
	err := s.sdb.NewSelect(&models).
		Where("policy_id = ?", policyID.String()).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("aegis: list mappings for policy: %w", err)
	}
	result := make([]*policy.EntityMapping, len(models))
	for i := range models {
		result[i] = mappingFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) AddMapping(ctx context.Context, em *policy.EntityMapping) error {
	em.CreatedAt = time.Now().UTC()
	m := mappingToModel(em)
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("aegis: add mapping: %w", err)
	}
	return nil
}

func (s *Store) RemoveMapping(ctx context.Context, mappingID id.MappingID) error {
	res, err := s.sdb.NewDelete((*entityMappingModel)(nil)).
		Where("id = ?", mappingID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: remove mapping: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("aegis: remove mapping rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mapping %s: %w", mappingID, policy.ErrMappingNotFound)
	}
	return nil
}

func (s *Store) ReplaceMappings(ctx context.Context, policyID id.PolicyID, mappings []*policy.EntityMapping) error {
	tx, err := s.sdb.BeginTxQuery(ctx, nil)
	if err != nil {
		return fmt.Errorf("aegis: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	_, err = tx.NewDelete((*entityMappingModel)(nil)).
		Where("policy_id = ?", policyID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: clear policy mappings: %w", err)
	}

	if len(mappings) > 0 {
		now := time.Now().UTC()
		models := make([]entityMappingModel, len(mappings))
		for i, em := range mappings {
			em.CreatedAt = now
			models[i] = *mappingToModel(em)
		}
		_, err = tx.NewInsert(&models).Exec(ctx)
		if err != nil {
			return fmt.Errorf("aegis: replace mappings: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("aegis: commit tx: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Assignment operations
// ──────────────────────────────────────────────────

func (s *Store) CreateAssignment(ctx context.Context, a *assignment.Assignment) error {
	a.CreatedAt = time.Now().UTC()
	m := assignmentToModel(a)
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("aegis: create assignment: %w", err)
	}
	return nil
}

func (s *Store) GetAssignment(ctx context.Context, assignmentID id.AssignmentID) (*assignment.Assignment, error) {
	m := new(assignmentModel)
	err := s.sdb.NewSelect(m).Where("id = ?", assignmentID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("assignment %s: %w", assignmentID, assignment.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get assignment: %w", err)
	}
	return assignmentFromModel(m), nil
}

func (s *Store) DeleteAssignment(ctx context.Context, assignmentID id.AssignmentID) error {
	_, err := s.sdb.NewDelete((*assignmentModel)(nil)).
		Where("id = ?", assignmentID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete assignment: %w", err)
	}
	return nil
}

func (s *Store) ListAssignments(ctx context.Context, filter *assignment.ListFilter) ([]*assignment.Assignment, error) {
	var models []assignmentModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if filter.UserID != nil {
			q = q.Where("user_id = ?", filter.UserID.String())
		}
		if filter.OrgUnitID != nil {
			q = q.Where("org_unit_id = ?", filter.OrgUnitID.String())
		}
		if filter.RoleID != nil {
			q = q.Where("role_id = ?", filter.RoleID.String())
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("aegis: list assignments: %w", err)
	}
	result := make([]*assignment.Assignment, len(models))
	for i := range models {
		result[i] = assignmentFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountAssignments(ctx context.Context, filter *assignment.ListFilter) (int64, error) {
	q := s.sdb.NewSelect((*assignmentModel)(nil))
	if filter != nil {
		if filter.UserID != nil {
			q = q.Where("user_id = ?", filter.UserID.String())
		}
		if filter.OrgUnitID != nil {
			q = q.Where("org_unit_id = ?", filter.OrgUnitID.String())
		}
		if filter.RoleID != nil {
			q = q.Where("role_id = ?", filter.RoleID.String())
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("aegis: count assignments: %w", err)
	}
	return count, nil
}

func (s *Store) ListAssignmentsForUser(ctx context.Context, userID id.UserID) ([]*assignment.Assignment, error) {
	var models []assignmentModel
	err := s.sdb.NewSelect(&models).
		Where("user_id = ?", userID.String()).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("aegis: list assignments for user: %w", err)
	}
	result := make([]*assignment.Assignment, len(models))
	for i := range models {
		result[i] = assignmentFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) DeleteAssignmentsByUser(ctx context.Context, userID id.UserID) error {
	_, err := s.sdb.NewDelete((*assignmentModel)(nil)).
		Where("user_id = ?", userID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete assignments by user: %w", err)
	}
	return nil
}

func (s *Store) DeleteAssignmentsByRole(ctx context.Context, roleID id.RoleID) error {
	_, err := s.sdb.NewDelete((*assignmentModel)(nil)).
		Where("role_id = ?", roleID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete assignments by role: %w", err)
	}
	return nil
}

func (s *Store) DeleteAssignmentsByOrgUnit(ctx context.Context, orgUnitID id.OrgUnitID) error {
	_, err := s.sdb.NewDelete((*assignmentModel)(nil)).
		Where("org_unit_id = ?", orgUnitID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete assignments by org unit: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Module operations
// ──────────────────────────────────────────────────

func (s *Store) CreateModule(ctx context.Context, mod *module.Module) error {
	now := time.Now().UTC()
	mod.CreatedAt = now
	mod.UpdatedAt = now
	m := moduleToModel(mod)
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("aegis: create module: %w", err)
	}
	return nil
}

func (s *Store) GetModule(ctx context.Context, moduleID id.ModuleID) (*module.Module, error) {
	m := new(moduleModel)
	err := s.sdb.NewSelect(m).Where("id = ?", moduleID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("module %s: %w", moduleID, module.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get module: %w", err)
	}
	return moduleFromModel(m), nil
}

func (s *Store) GetModuleByName(ctx context.Context, name string) (*module.Module, error) {
	m := new(moduleModel)
	err := s.sdb.NewSelect(m).Where("name = ?", name).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("module %q: %w", name, module.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get module by name: %w", err)
	}
	return moduleFromModel(m), nil
}

func (s *Store) UpdateModule(ctx context.Context, mod *module.Module) error {
	mod.UpdatedAt = time.Now().UTC()
	m := moduleToModel(mod)
	if _, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("aegis: update module: %w", err)
	}
	return nil
}

func (s *Store) DeleteModule(ctx context.Context, moduleID id.ModuleID) error {
	_, err := s.sdb.NewDelete((*moduleModel)(nil)).
		Where("id = ?", moduleID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete module: %w", err)
	}
	return nil
}

func (s *Store) ListModules(ctx context.Context, filter *module.ListFilter) ([]*module.Module, error) {
	var models []moduleModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if filter.IsEnabled != nil {
			q = q.Where("is_enabled = ?", *filter.IsEnabled)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("aegis: list modules: %w", err)
	}
	result := make([]*module.Module, len(models))
	for i := range models {
		result[i] = moduleFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountModules(ctx context.Context, filter *module.ListFilter) (int64, error) {
	q := s.sdb.NewSelect((*moduleModel)(nil))
	if filter != nil {
		if filter.IsEnabled != nil {
			q = q.Where("is_enabled = ?", *filter.IsEnabled)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("aegis: count modules: %w", err)
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// Refresh log operations
// ──────────────────────────────────────────────────

func (s *Store) RecordRefresh(ctx context.Context, e *refreshlog.Entry) error {
	e.CreatedAt = time.Now().UTC()
	m := refreshLogToModel(e)
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("aegis: record refresh: %w", err)
	}
	return nil
}

func (s *Store) QueryRefreshLog(ctx context.Context, filter *refreshlog.QueryFilter) ([]*refreshlog.Entry, error) {
	var models []refreshLogModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at DESC")
	if filter != nil {
		if filter.UserID != "" {
			q = q.Where("user_id = ?", filter.UserID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.After != nil {
			q = q.Where("created_at >= ?", *filter.After)
		}
		if filter.Before != nil {
			q = q.Where("created_at <= ?", *filter.Before)
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("aegis: query refresh log: %w", err)
	}
	result := make([]*refreshlog.Entry, len(models))
	for i := range models {
		result[i] = refreshLogFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountRefreshLog(ctx context.Context, filter *refreshlog.QueryFilter) (int64, error) {
	q := s.sdb.NewSelect((*refreshLogModel)(nil))
	if filter != nil {
		if filter.UserID != "" {
			q = q.Where("user_id = ?", filter.UserID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.After != nil {
			q = q.Where("created_at >= ?", *filter.After)
		}
		if filter.Before != nil {
			q = q.Where("created_at <= ?", *filter.Before)
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("aegis: count refresh log: %w", err)
	}
	return count, nil
}

func (s *Store) PurgeRefreshLog(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.sdb.NewDelete((*refreshLogModel)(nil)).
		Where("created_at < ?", before).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("aegis: purge refresh log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("aegis: purge refresh log rows: %w", err)
	}
	return n, nil
}
