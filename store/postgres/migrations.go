package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Aegis store (PostgreSQL).
var Migrations = migrate.NewGroup("aegis")

// Schema DDL, one statement block per table. Shared between the grove
// migration group and the integration test harness.
const (
	ddlUsers = `
CREATE TABLE IF NOT EXISTS aegis_users (
    id              TEXT PRIMARY KEY,
    first_name      TEXT NOT NULL,
    last_name       TEXT NOT NULL,
    email           TEXT NOT NULL DEFAULT '',
    is_active       BOOLEAN NOT NULL DEFAULT TRUE,
    metadata        JSONB NOT NULL DEFAULT '{}',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_aegis_users_active ON aegis_users (is_active);
CREATE INDEX IF NOT EXISTS idx_aegis_users_email ON aegis_users (email);
`

	ddlOrgUnits = `
CREATE TABLE IF NOT EXISTS aegis_org_units (
    id              TEXT PRIMARY KEY,
    key             TEXT NOT NULL,
    name            TEXT NOT NULL,
    parent_id       TEXT,
    is_active       BOOLEAN NOT NULL DEFAULT TRUE,
    metadata        JSONB NOT NULL DEFAULT '{}',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),

    UNIQUE(key)
);

CREATE INDEX IF NOT EXISTS idx_aegis_org_units_parent ON aegis_org_units (parent_id);
CREATE INDEX IF NOT EXISTS idx_aegis_org_units_active ON aegis_org_units (is_active);
`

	ddlRoles = `
CREATE TABLE IF NOT EXISTS aegis_roles (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    slug            TEXT NOT NULL,
    is_system       BOOLEAN NOT NULL DEFAULT FALSE,
    metadata        JSONB NOT NULL DEFAULT '{}',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),

    UNIQUE(slug)
);

CREATE INDEX IF NOT EXISTS idx_aegis_roles_system ON aegis_roles (is_system);
`

	ddlPolicies = `
CREATE TABLE IF NOT EXISTS aegis_policies (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    is_active       BOOLEAN NOT NULL DEFAULT TRUE,
    metadata        JSONB NOT NULL DEFAULT '{}',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),

    UNIQUE(name)
);

CREATE INDEX IF NOT EXISTS idx_aegis_policies_active ON aegis_policies (is_active);
`

	ddlRolePolicies = `
CREATE TABLE IF NOT EXISTS aegis_role_policies (
    role_id         TEXT NOT NULL REFERENCES aegis_roles(id) ON DELETE CASCADE,
    policy_id       TEXT NOT NULL REFERENCES aegis_policies(id) ON DELETE CASCADE,

    PRIMARY KEY (role_id, policy_id)
);

CREATE INDEX IF NOT EXISTS idx_aegis_role_policies_policy ON aegis_role_policies (policy_id);
`

	ddlEntityMappings = `
CREATE TABLE IF NOT EXISTS aegis_entity_mappings (
    id              TEXT PRIMARY KEY,
    policy_id       TEXT NOT NULL REFERENCES aegis_policies(id) ON DELETE CASCADE,
    entity_type     TEXT NOT NULL,
    entity_id       TEXT NOT NULL,
    action          TEXT NOT NULL,
    condition       TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_aegis_mappings_policy ON aegis_entity_mappings (policy_id);
CREATE INDEX IF NOT EXISTS idx_aegis_mappings_entity ON aegis_entity_mappings (entity_type, entity_id);
`

	ddlAssignments = `
CREATE TABLE IF NOT EXISTS aegis_assignments (
    id              TEXT PRIMARY KEY,
    user_id         TEXT NOT NULL REFERENCES aegis_users(id) ON DELETE CASCADE,
    org_unit_id     TEXT NOT NULL REFERENCES aegis_org_units(id) ON DELETE CASCADE,
    role_id         TEXT NOT NULL REFERENCES aegis_roles(id) ON DELETE CASCADE,
    granted_by      TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),

    UNIQUE(user_id, org_unit_id, role_id)
);

CREATE INDEX IF NOT EXISTS idx_aegis_assignments_user ON aegis_assignments (user_id);
CREATE INDEX IF NOT EXISTS idx_aegis_assignments_org ON aegis_assignments (org_unit_id);
CREATE INDEX IF NOT EXISTS idx_aegis_assignments_role ON aegis_assignments (role_id);
`

	ddlModules = `
CREATE TABLE IF NOT EXISTS aegis_modules (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    is_enabled      BOOLEAN NOT NULL DEFAULT TRUE,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),

    UNIQUE(name)
);
`

	ddlRefreshLog = `
CREATE TABLE IF NOT EXISTS aegis_refresh_log (
    id                TEXT PRIMARY KEY,
    user_id           TEXT NOT NULL,
    status            TEXT NOT NULL,
    error             TEXT NOT NULL DEFAULT '',
    org_unit_count    INTEGER NOT NULL DEFAULT 0,
    alert_type_count  INTEGER NOT NULL DEFAULT 0,
    module_count      INTEGER NOT NULL DEFAULT 0,
    report_count      INTEGER NOT NULL DEFAULT 0,
    grant_count       INTEGER NOT NULL DEFAULT 0,
    duration_ns       BIGINT NOT NULL DEFAULT 0,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_aegis_refresh_log_user ON aegis_refresh_log (user_id);
CREATE INDEX IF NOT EXISTS idx_aegis_refresh_log_status ON aegis_refresh_log (status);
CREATE INDEX IF NOT EXISTS idx_aegis_refresh_log_created ON aegis_refresh_log (created_at);
`
)

// schemaDDL lists every table's DDL in dependency order.
var schemaDDL = []string{
	ddlUsers,
	ddlOrgUnits,
	ddlRoles,
	ddlPolicies,
	ddlRolePolicies,
	ddlEntityMappings,
	ddlAssignments,
	ddlModules,
	ddlRefreshLog,
}

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_users",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlUsers)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS aegis_users`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_org_units",
			Version: "20250101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlOrgUnits)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS aegis_org_units`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_roles",
			Version: "20250101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlRoles)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS aegis_roles`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_policies",
			Version: "20250101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlPolicies)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS aegis_policies`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_role_policies",
			Version: "20250101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlRolePolicies)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS aegis_role_policies`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_entity_mappings",
			Version: "20250101000006",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlEntityMappings)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS aegis_entity_mappings`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_assignments",
			Version: "20250101000007",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlAssignments)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS aegis_assignments`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_modules",
			Version: "20250101000008",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlModules)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS aegis_modules`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_refresh_log",
			Version: "20250101000009",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlRefreshLog)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS aegis_refresh_log`)
				return err
			},
		},
	)
}
