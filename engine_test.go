package aegis

import (
	"context"
	"errors"
	"testing"

	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/policy"
	"github.com/fincase/aegis/refreshlog"
)

func TestNewEngine_RequiresStores(t *testing.T) {
	if _, err := NewEngine(); err == nil {
		t.Fatal("expected error when stores are nil")
	}
	if _, err := NewEngine(WithStore(nil), WithDocumentStore(nil)); err == nil {
		t.Fatal("expected error when stores are nil")
	}
}

func TestRefresh_PersistsAndLogs(t *testing.T) {
	ctx := context.Background()
	eng, s, d := newTestEngine(t)

	u := seedUser(t, s)
	org := seedOrg(t, s, "north")
	roleID := seedRoleWithMappings(t, s, "analyst",
		&policy.EntityMapping{EntityType: policy.EntityAlertTypes, EntityID: "AT1", Action: "view"},
		&policy.EntityMapping{EntityType: policy.EntityReports, EntityID: "monthly", Action: "export"},
	)
	assign(t, s, u.ID, org.ID, roleID)

	if err := eng.Refresh(ctx, u.ID); err != nil {
		t.Fatal(err)
	}

	// The document is persisted.
	stored, err := d.GetDocument(ctx, u.ID.String())
	if err != nil {
		t.Fatal(err)
	}
	if stored.Permission.GrantCount() != 2 {
		t.Fatalf("grant count = %d, want 2", stored.Permission.GrantCount())
	}

	// One successful refresh audit entry was written.
	entries, err := s.QueryRefreshLog(ctx, &refreshlog.QueryFilter{UserID: u.ID.String()})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one refresh log entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Status != refreshlog.StatusOK {
		t.Fatalf("status = %q", e.Status)
	}
	if e.GrantCount != 2 || e.OrgUnitCount != 1 || e.AlertTypeCount != 1 || e.ReportCount != 1 {
		t.Fatalf("unexpected counts: %+v", e)
	}
}

func TestRefresh_UnknownUserLeavesNoDocument(t *testing.T) {
	ctx := context.Background()
	eng, s, d := newTestEngine(t)

	missing := id.NewUserID()
	err := eng.Refresh(ctx, missing)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := d.GetDocument(ctx, missing.String()); err == nil {
		t.Fatal("expected no document after failed refresh")
	}
	if _, err := eng.GetDocument(ctx, missing); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}

	// The failure is still audited.
	entries, err := s.QueryRefreshLog(ctx, &refreshlog.QueryFilter{UserID: missing.String()})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Status != refreshlog.StatusFailed {
		t.Fatalf("expected one failed refresh log entry, got %+v", entries)
	}
	if entries[0].Error == "" {
		t.Fatal("expected error text in failed entry")
	}
}

func TestGetDocument_BeforeRefresh(t *testing.T) {
	ctx := context.Background()
	eng, s, _ := newTestEngine(t)

	u := seedUser(t, s)
	if _, err := eng.GetDocument(ctx, u.ID); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestRefresh_InvalidatesCaches(t *testing.T) {
	ctx := context.Background()
	eng, s, _ := newTestEngine(t)

	u := seedUser(t, s)
	org1 := seedOrg(t, s, "north")
	roleID := seedRoleWithMappings(t, s, "analyst",
		&policy.EntityMapping{EntityType: policy.EntityAlertTypes, EntityID: "AT1", Action: "view"},
	)
	assign(t, s, u.ID, org1.ID, roleID)

	if err := eng.Refresh(ctx, u.ID); err != nil {
		t.Fatal(err)
	}

	// Warm all three caches.
	if _, err := eng.GetDocument(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	ids, err := eng.GetDistinctOrgIDs(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 {
		t.Fatalf("org ids = %v", ids)
	}
	keys, err := eng.GetDistinctOrgKeys(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != "north" {
		t.Fatalf("org keys = %v", keys)
	}

	// Grant a second org and refresh. All projections must pick it up.
	org2 := seedOrg(t, s, "south")
	assign(t, s, u.ID, org2.ID, roleID)
	if err := eng.Refresh(ctx, u.ID); err != nil {
		t.Fatal(err)
	}

	doc, err := eng.GetDocument(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Permission.AlertType["AT1"].OrgID) != 2 {
		t.Fatalf("expected two orgs under AT1, got %v", doc.Permission.AlertType["AT1"].OrgID)
	}
	ids, err = eng.GetDistinctOrgIDs(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 {
		t.Fatalf("org ids after refresh = %v", ids)
	}
	keys, err = eng.GetDistinctOrgKeys(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 {
		t.Fatalf("org keys after refresh = %v", keys)
	}
}

func TestCanActions(t *testing.T) {
	ctx := context.Background()
	eng, s, _ := newTestEngine(t)

	u := seedUser(t, s)
	org := seedOrg(t, s, "north")
	roleID := seedRoleWithMappings(t, s, "analyst",
		&policy.EntityMapping{EntityType: policy.EntityAlertTypes, EntityID: "AT1", Action: "view"},
		&policy.EntityMapping{EntityType: policy.EntityReports, EntityID: "monthly", Action: "export"},
	)
	assign(t, s, u.ID, org.ID, roleID)

	if err := eng.Refresh(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	orgID := org.ID.String()

	tests := []struct {
		name  string
		check func() (bool, error)
		want  bool
	}{
		{"alert type granted", func() (bool, error) { return eng.CanAlertTypeAction(ctx, u.ID, "AT1", orgID, "view") }, true},
		{"alert type wrong action", func() (bool, error) { return eng.CanAlertTypeAction(ctx, u.ID, "AT1", orgID, "close") }, false},
		{"alert type wrong org", func() (bool, error) {
			return eng.CanAlertTypeAction(ctx, u.ID, "AT1", id.NewOrgUnitID().String(), "view")
		}, false},
		{"module not granted", func() (bool, error) { return eng.CanModuleAction(ctx, u.ID, "alert-triage", "use") }, false},
		{"report granted", func() (bool, error) { return eng.CanReportAction(ctx, u.ID, "monthly", "export") }, true},
		{"report wrong action", func() (bool, error) { return eng.CanReportAction(ctx, u.ID, "monthly", "delete") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.check()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanActions_MissingDocument(t *testing.T) {
	ctx := context.Background()
	eng, s, _ := newTestEngine(t)

	u := seedUser(t, s)

	// No refresh has run: every check is a clean deny.
	allowed, err := eng.CanAlertTypeAction(ctx, u.ID, "AT1", "org", "view")
	if err != nil || allowed {
		t.Fatalf("got (%v, %v), want (false, nil)", allowed, err)
	}
	allowed, err = eng.CanModuleAction(ctx, u.ID, "alert-triage", "use")
	if err != nil || allowed {
		t.Fatalf("got (%v, %v), want (false, nil)", allowed, err)
	}
	allowed, err = eng.CanReportAction(ctx, u.ID, "monthly", "export")
	if err != nil || allowed {
		t.Fatalf("got (%v, %v), want (false, nil)", allowed, err)
	}
}

func TestDeleteDocument(t *testing.T) {
	ctx := context.Background()
	eng, s, _ := newTestEngine(t)

	u := seedUser(t, s)
	org := seedOrg(t, s, "north")
	roleID := seedRoleWithMappings(t, s, "analyst",
		&policy.EntityMapping{EntityType: policy.EntityAlertTypes, EntityID: "AT1", Action: "view"},
	)
	assign(t, s, u.ID, org.ID, roleID)

	if err := eng.Refresh(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.GetDocument(ctx, u.ID); err != nil {
		t.Fatal(err)
	}

	if err := eng.DeleteDocument(ctx, u.ID); err != nil {
		t.Fatal(err)
	}

	// The cache was evicted along with the document.
	if _, err := eng.GetDocument(ctx, u.ID); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestRefresh_DisabledRefreshLog(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.DisableRefreshLog = true
	eng, s, _ := newTestEngine(t, WithConfig(cfg))

	u := seedUser(t, s)
	if err := eng.Refresh(ctx, u.ID); err != nil {
		t.Fatal(err)
	}

	entries, err := s.QueryRefreshLog(ctx, &refreshlog.QueryFilter{UserID: u.ID.String()})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no refresh log entries, got %d", len(entries))
	}
}
