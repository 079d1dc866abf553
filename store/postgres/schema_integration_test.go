//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres spins up a disposable PostgreSQL container and returns a
// connection to it.
func startPostgres(t *testing.T) *pgx.Conn {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("aegis_test"),
		tcpostgres.WithUsername("aegis"),
		tcpostgres.WithPassword("aegis"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close(context.Background())
	})
	return conn
}

func applySchema(t *testing.T, conn *pgx.Conn) {
	t.Helper()
	ctx := context.Background()
	for _, ddl := range schemaDDL {
		if _, err := conn.Exec(ctx, ddl); err != nil {
			t.Fatalf("apply schema: %v\n%s", err, ddl)
		}
	}
}

func TestSchemaApplies(t *testing.T) {
	conn := startPostgres(t)
	applySchema(t, conn)

	// Idempotent: applying twice must not fail.
	applySchema(t, conn)

	var count int
	err := conn.QueryRow(context.Background(), `
		SELECT count(*) FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name LIKE 'aegis_%'`).Scan(&count)
	if err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if count != 9 {
		t.Fatalf("expected 9 aegis tables, got %d", count)
	}
}

func TestSchemaConstraints(t *testing.T) {
	conn := startPostgres(t)
	applySchema(t, conn)
	ctx := context.Background()

	mustExec := func(sql string, args ...any) {
		t.Helper()
		if _, err := conn.Exec(ctx, sql, args...); err != nil {
			t.Fatalf("exec %q: %v", sql, err)
		}
	}

	mustExec(`INSERT INTO aegis_users (id, first_name, last_name) VALUES ('usr_1', 'Ada', 'Lovelace')`)
	mustExec(`INSERT INTO aegis_org_units (id, key, name) VALUES ('org_1', 'hq', 'Headquarters')`)
	mustExec(`INSERT INTO aegis_roles (id, name, slug) VALUES ('rol_1', 'Analyst', 'analyst')`)
	mustExec(`INSERT INTO aegis_assignments (id, user_id, org_unit_id, role_id) VALUES ('asg_1', 'usr_1', 'org_1', 'rol_1')`)

	// Duplicate org key must be rejected.
	if _, err := conn.Exec(ctx, `INSERT INTO aegis_org_units (id, key, name) VALUES ('org_2', 'hq', 'Duplicate')`); err == nil {
		t.Fatal("expected unique violation on org key")
	}

	// Duplicate assignment must be rejected.
	if _, err := conn.Exec(ctx, `INSERT INTO aegis_assignments (id, user_id, org_unit_id, role_id) VALUES ('asg_2', 'usr_1', 'org_1', 'rol_1')`); err == nil {
		t.Fatal("expected unique violation on assignment")
	}

	// Deleting the user cascades to assignments.
	mustExec(`DELETE FROM aegis_users WHERE id = 'usr_1'`)
	var remaining int
	if err := conn.QueryRow(ctx, `SELECT count(*) FROM aegis_assignments`).Scan(&remaining); err != nil {
		t.Fatalf("count assignments: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected assignments to cascade, %d remain", remaining)
	}
}

func TestSchemaPolicyCascades(t *testing.T) {
	conn := startPostgres(t)
	applySchema(t, conn)
	ctx := context.Background()

	steps := []string{
		`INSERT INTO aegis_roles (id, name, slug) VALUES ('rol_1', 'Analyst', 'analyst')`,
		`INSERT INTO aegis_policies (id, name) VALUES ('pol_1', 'fraud-alerts')`,
		`INSERT INTO aegis_role_policies (role_id, policy_id) VALUES ('rol_1', 'pol_1')`,
		`INSERT INTO aegis_entity_mappings (id, policy_id, entity_type, entity_id, action) VALUES ('map_1', 'pol_1', 'alert-types', 'fraud', 'view')`,
		`DELETE FROM aegis_policies WHERE id = 'pol_1'`,
	}
	for _, sql := range steps {
		if _, err := conn.Exec(ctx, sql); err != nil {
			t.Fatalf("exec %q: %v", sql, err)
		}
	}

	for _, table := range []string{"aegis_role_policies", "aegis_entity_mappings"} {
		var n int
		if err := conn.QueryRow(ctx, "SELECT count(*) FROM "+table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Fatalf("expected %s to cascade on policy delete, %d remain", table, n)
		}
	}
}
