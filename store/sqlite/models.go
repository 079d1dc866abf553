package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xraph/grove"

	"github.com/fincase/aegis/assignment"
	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/identity"
	"github.com/fincase/aegis/module"
	"github.com/fincase/aegis/orgunit"
	"github.com/fincase/aegis/policy"
	"github.com/fincase/aegis/refreshlog"
	"github.com/fincase/aegis/role"
)

// ──────────────────────────────────────────────────
// User model
// ──────────────────────────────────────────────────

type userModel struct {
	grove.BaseModel `grove:"table:aegis_users"`
	ID              string    `grove:"id,pk"`
	FirstName       string    `grove:"first_name,notnull"`
	LastName        string    `grove:"last_name,notnull"`
	Email           string    `grove:"email"`
	IsActive        bool      `grove:"is_active,notnull"`
	Metadata        string    `grove:"metadata"` // JSON text
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func userToModel(u *identity.User) (*userModel, error) {
	metadata, err := json.Marshal(u.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal user metadata: %w", err)
	}
	return &userModel{
		ID:        u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsActive:  u.IsActive,
		Metadata:  string(metadata),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}, nil
}

func userFromModel(m *userModel) (*identity.User, error) {
	uid, _ := id.ParseUserID(m.ID) //nolint:errcheck // stored IDs are always valid
	var metadata map[string]any
	if m.Metadata != "" {
		if err := json.Unmarshal([]byte(m.Metadata), &metadata); err != nil {
			return nil, fmt.Errorf("unmarshal user metadata: %w", err)
		}
	}
	return &identity.User{
		ID:        uid,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		IsActive:  m.IsActive,
		Metadata:  metadata,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// ──────────────────────────────────────────────────
// Org unit model
// ──────────────────────────────────────────────────

type orgUnitModel struct {
	grove.BaseModel `grove:"table:aegis_org_units"`
	ID              string    `grove:"id,pk"`
	Key             string    `grove:"key,notnull"`
	Name            string    `grove:"name,notnull"`
	ParentID        *string   `grove:"parent_id"`
	IsActive        bool      `grove:"is_active,notnull"`
	Metadata        string    `grove:"metadata"` // JSON text
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func orgUnitToModel(ou *orgunit.OrgUnit) (*orgUnitModel, error) {
	metadata, err := json.Marshal(ou.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal org unit metadata: %w", err)
	}
	m := &orgUnitModel{
		ID:        ou.ID.String(),
		Key:       ou.Key,
		Name:      ou.Name,
		IsActive:  ou.IsActive,
		Metadata:  string(metadata),
		CreatedAt: ou.CreatedAt,
		UpdatedAt: ou.UpdatedAt,
	}
	if ou.ParentID != nil {
		s := ou.ParentID.String()
		m.ParentID = &s
	}
	return m, nil
}

func orgUnitFromModel(m *orgUnitModel) (*orgunit.OrgUnit, error) {
	oid, _ := id.ParseOrgUnitID(m.ID) //nolint:errcheck // stored IDs are always valid
	var metadata map[string]any
	if m.Metadata != "" {
		if err := json.Unmarshal([]byte(m.Metadata), &metadata); err != nil {
			return nil, fmt.Errorf("unmarshal org unit metadata: %w", err)
		}
	}
	ou := &orgunit.OrgUnit{
		ID:        oid,
		Key:       m.Key,
		Name:      m.Name,
		IsActive:  m.IsActive,
		Metadata:  metadata,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.ParentID != nil {
		pid, err := id.ParseOrgUnitID(*m.ParentID)
		if err == nil {
			ou.ParentID = &pid
		}
	}
	return ou, nil
}

// ──────────────────────────────────────────────────
// Role model
// ──────────────────────────────────────────────────

type roleModel struct {
	grove.BaseModel `grove:"table:aegis_roles"`
	ID              string    `grove:"id,pk"`
	Name            string    `grove:"name,notnull"`
	Description     string    `grove:"description"`
	Slug            string    `grove:"slug,notnull"`
	IsSystem        bool      `grove:"is_system,notnull"`
	Metadata        string    `grove:"metadata"` // JSON text
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func roleToModel(r *role.Role) (*roleModel, error) {
	metadata, err := json.Marshal(r.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal role metadata: %w", err)
	}
	return &roleModel{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		Slug:        r.Slug,
		IsSystem:    r.IsSystem,
		Metadata:    string(metadata),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

func roleFromModel(m *roleModel) (*role.Role, error) {
	rid, _ := id.ParseRoleID(m.ID) //nolint:errcheck // stored IDs are always valid
	var metadata map[string]any
	if m.Metadata != "" {
		if err := json.Unmarshal([]byte(m.Metadata), &metadata); err != nil {
			return nil, fmt.Errorf("unmarshal role metadata: %w", err)
		}
	}
	return &role.Role{
		ID:          rid,
		Name:        m.Name,
		Description: m.Description,
		Slug:        m.Slug,
		IsSystem:    m.IsSystem,
		Metadata:    metadata,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

// ──────────────────────────────────────────────────
// Role-Policy junction model
// ──────────────────────────────────────────────────

type rolePolicyModel struct {
	grove.BaseModel `grove:"table:aegis_role_policies"`
	RoleID          string `grove:"role_id,pk"`
	PolicyID        string `grove:"policy_id,pk"`
}

// ──────────────────────────────────────────────────
// Policy model
// ──────────────────────────────────────────────────

type policyModel struct {
	grove.BaseModel `grove:"table:aegis_policies"`
	ID              string    `grove:"id,pk"`
	Name            string    `grove:"name,notnull"`
	Description     string    `grove:"description"`
	IsActive        bool      `grove:"is_active,notnull"`
	Metadata        string    `grove:"metadata"` // JSON text
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func policyToModel(p *policy.Policy) (*policyModel, error) {
	metadata, err := json.Marshal(p.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal policy metadata: %w", err)
	}
	return &policyModel{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		IsActive:    p.IsActive,
		Metadata:    string(metadata),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func policyFromModel(m *policyModel) (*policy.Policy, error) {
	pid, _ := id.ParsePolicyID(m.ID) //nolint:errcheck // stored IDs are always valid
	var metadata map[string]any
	if m.Metadata != "" {
		if err := json.Unmarshal([]byte(m.Metadata), &metadata); err != nil {
			return nil, fmt.Errorf("unmarshal policy metadata: %w", err)
		}
	}
	return &policy.Policy{
		ID:          pid,
		Name:        m.Name,
		Description: m.Description,
		IsActive:    m.IsActive,
		Metadata:    metadata,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

// ──────────────────────────────────────────────────
// Entity mapping model
// ──────────────────────────────────────────────────

type entityMappingModel struct {
	grove.BaseModel `grove:"table:aegis_entity_mappings"`
	ID              string    `grove:"id,pk"`
	PolicyID        string    `grove:"policy_id,notnull"`
	EntityType      string    `grove:"entity_type,notnull"`
	EntityID        string    `grove:"entity_id,notnull"`
	Action          string    `grove:"action,notnull"`
	Condition       string    `grove:"condition"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
}

func mappingToModel(em *policy.EntityMapping) *entityMappingModel {
	return &entityMappingModel{
		ID:         em.ID.String(),
		PolicyID:   em.PolicyID.String(),
		EntityType: em.EntityType,
		EntityID:   em.EntityID,
		Action:     em.Action,
		Condition:  em.Condition,
		CreatedAt:  em.CreatedAt,
	}
}

func mappingFromModel(m *entityMappingModel) *policy.EntityMapping {
	mid, _ := id.ParseMappingID(m.ID)      //nolint:errcheck // stored IDs are always valid
	pid, _ := id.ParsePolicyID(m.PolicyID) //nolint:errcheck // stored IDs are always valid
	return &policy.EntityMapping{
		ID:         mid,
		PolicyID:   pid,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Action:     m.Action,
		Condition:  m.Condition,
		CreatedAt:  m.CreatedAt,
	}
}

// ──────────────────────────────────────────────────
// Assignment model
// ──────────────────────────────────────────────────

type assignmentModel struct {
	grove.BaseModel `grove:"table:aegis_assignments"`
	ID              string    `grove:"id,pk"`
	UserID          string    `grove:"user_id,notnull"`
	OrgUnitID       string    `grove:"org_unit_id,notnull"`
	RoleID          string    `grove:"role_id,notnull"`
	GrantedBy       string    `grove:"granted_by"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
}

func assignmentToModel(a *assignment.Assignment) *assignmentModel {
	return &assignmentModel{
		ID:        a.ID.String(),
		UserID:    a.UserID.String(),
		OrgUnitID: a.OrgUnitID.String(),
		RoleID:    a.RoleID.String(),
		GrantedBy: a.GrantedBy,
		CreatedAt: a.CreatedAt,
	}
}

func assignmentFromModel(m *assignmentModel) *assignment.Assignment {
	aid, _ := id.ParseAssignmentID(m.ID)     //nolint:errcheck // stored IDs are always valid
	uid, _ := id.ParseUserID(m.UserID)       //nolint:errcheck // stored IDs are always valid
	oid, _ := id.ParseOrgUnitID(m.OrgUnitID) //nolint:errcheck // stored IDs are always valid
	rid, _ := id.ParseRoleID(m.RoleID)       //nolint:errcheck // stored IDs are always valid
	return &assignment.Assignment{
		ID:        aid,
		UserID:    uid,
		OrgUnitID: oid,
		RoleID:    rid,
		GrantedBy: m.GrantedBy,
		CreatedAt: m.CreatedAt,
	}
}

// ──────────────────────────────────────────────────
// Module model
// ──────────────────────────────────────────────────

type moduleModel struct {
	grove.BaseModel `grove:"table:aegis_modules"`
	ID              string    `grove:"id,pk"`
	Name            string    `grove:"name,notnull"`
	Description     string    `grove:"description"`
	IsEnabled       bool      `grove:"is_enabled,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func moduleToModel(mod *module.Module) *moduleModel {
	return &moduleModel{
		ID:          mod.ID.String(),
		Name:        mod.Name,
		Description: mod.Description,
		IsEnabled:   mod.IsEnabled,
		CreatedAt:   mod.CreatedAt,
		UpdatedAt:   mod.UpdatedAt,
	}
}

func moduleFromModel(m *moduleModel) *module.Module {
	mid, _ := id.ParseModuleID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &module.Module{
		ID:          mid,
		Name:        m.Name,
		Description: m.Description,
		IsEnabled:   m.IsEnabled,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Refresh log model
// ──────────────────────────────────────────────────

type refreshLogModel struct {
	grove.BaseModel `grove:"table:aegis_refresh_log"`
	ID              string    `grove:"id,pk"`
	UserID          string    `grove:"user_id,notnull"`
	Status          string    `grove:"status,notnull"`
	Error           string    `grove:"error"`
	OrgUnitCount    int       `grove:"org_unit_count,notnull"`
	AlertTypeCount  int       `grove:"alert_type_count,notnull"`
	ModuleCount     int       `grove:"module_count,notnull"`
	ReportCount     int       `grove:"report_count,notnull"`
	GrantCount      int       `grove:"grant_count,notnull"`
	DurationNs      int64     `grove:"duration_ns,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
}

func refreshLogToModel(e *refreshlog.Entry) *refreshLogModel {
	return &refreshLogModel{
		ID:             e.ID.String(),
		UserID:         e.UserID,
		Status:         e.Status,
		Error:          e.Error,
		OrgUnitCount:   e.OrgUnitCount,
		AlertTypeCount: e.AlertTypeCount,
		ModuleCount:    e.ModuleCount,
		ReportCount:    e.ReportCount,
		GrantCount:     e.GrantCount,
		DurationNs:     e.DurationNs,
		CreatedAt:      e.CreatedAt,
	}
}

func refreshLogFromModel(m *refreshLogModel) *refreshlog.Entry {
	rlid, _ := id.ParseRefreshLogID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &refreshlog.Entry{
		ID:             rlid,
		UserID:         m.UserID,
		Status:         m.Status,
		Error:          m.Error,
		OrgUnitCount:   m.OrgUnitCount,
		AlertTypeCount: m.AlertTypeCount,
		ModuleCount:    m.ModuleCount,
		ReportCount:    m.ReportCount,
		GrantCount:     m.GrantCount,
		DurationNs:     m.DurationNs,
		CreatedAt:      m.CreatedAt,
	}
}
