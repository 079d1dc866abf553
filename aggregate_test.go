package aegis

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/fincase/aegis/assignment"
	docmem "github.com/fincase/aegis/docstore/memory"
	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/identity"
	"github.com/fincase/aegis/module"
	"github.com/fincase/aegis/orgunit"
	"github.com/fincase/aegis/policy"
	"github.com/fincase/aegis/role"
	storemem "github.com/fincase/aegis/store/memory"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *storemem.Store, *docmem.Store) {
	t.Helper()
	s := storemem.New()
	d := docmem.New()
	eng, err := NewEngine(append([]Option{WithStore(s), WithDocumentStore(d)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return eng, s, d
}

func seedUser(t *testing.T, s *storemem.Store) *identity.User {
	t.Helper()
	u := &identity.User{
		ID:        id.NewUserID(),
		FirstName: "Dana",
		LastName:  "Reyes",
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return u
}

func seedOrg(t *testing.T, s *storemem.Store, key string) *orgunit.OrgUnit {
	t.Helper()
	ou := &orgunit.OrgUnit{
		ID:       id.NewOrgUnitID(),
		Key:      key,
		Name:     "Org " + key,
		IsActive: true,
	}
	if err := s.CreateOrgUnit(context.Background(), ou); err != nil {
		t.Fatal(err)
	}
	return ou
}

// seedRoleWithMappings creates a role bound to one active policy carrying
// the given mappings.
func seedRoleWithMappings(t *testing.T, s *storemem.Store, slug string, mappings ...*policy.EntityMapping) id.RoleID {
	t.Helper()
	ctx := context.Background()

	r := &role.Role{ID: id.NewRoleID(), Name: slug, Slug: slug}
	if err := s.CreateRole(ctx, r); err != nil {
		t.Fatal(err)
	}
	p := &policy.Policy{ID: id.NewPolicyID(), Name: slug + "-policy", IsActive: true}
	if err := s.CreatePolicy(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := s.AttachPolicy(ctx, r.ID, p.ID); err != nil {
		t.Fatal(err)
	}
	for _, m := range mappings {
		m.ID = id.NewMappingID()
		m.PolicyID = p.ID
		if err := s.AddMapping(ctx, m); err != nil {
			t.Fatal(err)
		}
	}
	return r.ID
}

func assign(t *testing.T, s *storemem.Store, userID id.UserID, orgID id.OrgUnitID, roleID id.RoleID) {
	t.Helper()
	a := &assignment.Assignment{
		ID:        id.NewAssignmentID(),
		UserID:    userID,
		OrgUnitID: orgID,
		RoleID:    roleID,
	}
	if err := s.CreateAssignment(context.Background(), a); err != nil {
		t.Fatal(err)
	}
}

func TestGenerate_AlertTypeGrant(t *testing.T) {
	ctx := context.Background()
	eng, s, _ := newTestEngine(t)

	u := seedUser(t, s)
	org := seedOrg(t, s, "north")
	roleID := seedRoleWithMappings(t, s, "analyst",
		&policy.EntityMapping{EntityType: policy.EntityAlertTypes, EntityID: "AT1", Action: "view"},
	)
	assign(t, s, u.ID, org.ID, roleID)

	doc, err := eng.Generate(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}

	orgID := org.ID.String()
	at, ok := doc.Permission.AlertType["AT1"]
	if !ok {
		t.Fatal("expected AT1 in alert type bucket")
	}
	oa, ok := at.OrgID[orgID]
	if !ok {
		t.Fatalf("expected org %s under AT1", orgID)
	}
	af, ok := oa.Actions["view"]
	if !ok {
		t.Fatal("expected view action grant")
	}
	if af.Condition != "" {
		t.Fatalf("expected empty condition, got %q", af.Condition)
	}

	wantMeta := []string{"AT1:" + orgID}
	if !reflect.DeepEqual(doc.Metadata.UniqueAlertTypesOrgID, wantMeta) {
		t.Fatalf("uniqueAlertTypesOrgId = %v, want %v", doc.Metadata.UniqueAlertTypesOrgID, wantMeta)
	}
	if !reflect.DeepEqual(doc.Metadata.UniqueOrgID, []string{orgID}) {
		t.Fatalf("uniqueOrgId = %v, want [%s]", doc.Metadata.UniqueOrgID, orgID)
	}
	if !reflect.DeepEqual(doc.Metadata.DistinctOrgKeys, []string{"north"}) {
		t.Fatalf("distinctOrgKeys = %v, want [north]", doc.Metadata.DistinctOrgKeys)
	}
	if doc.User.FullName != "Dana Reyes" {
		t.Fatalf("full name = %q", doc.User.FullName)
	}
}

func TestGenerate_SameRoleTwoOrgs(t *testing.T) {
	ctx := context.Background()
	eng, s, _ := newTestEngine(t)

	u := seedUser(t, s)
	org1 := seedOrg(t, s, "north")
	org2 := seedOrg(t, s, "south")
	roleID := seedRoleWithMappings(t, s, "analyst",
		&policy.EntityMapping{EntityType: policy.EntityAlertTypes, EntityID: "AT1", Action: "view"},
	)
	assign(t, s, u.ID, org1.ID, roleID)
	assign(t, s, u.ID, org2.ID, roleID)

	doc, err := eng.Generate(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}

	at := doc.Permission.AlertType["AT1"]
	for _, org := range []*orgunit.OrgUnit{org1, org2} {
		oa, ok := at.OrgID[org.ID.String()]
		if !ok {
			t.Fatalf("expected org %s under AT1", org.ID)
		}
		if _, ok := oa.Actions["view"]; !ok {
			t.Fatalf("expected view action for org %s", org.ID)
		}
	}
	if len(doc.Metadata.UniqueOrgID) != 2 {
		t.Fatalf("uniqueOrgId = %v, want 2 entries", doc.Metadata.UniqueOrgID)
	}
	if len(doc.Metadata.DistinctOrgKeys) != 2 {
		t.Fatalf("distinctOrgKeys = %v, want 2 entries", doc.Metadata.DistinctOrgKeys)
	}
}

func TestGenerate_MissingModuleIsSoftFailure(t *testing.T) {
	ctx := context.Background()
	eng, s, _ := newTestEngine(t)

	u := seedUser(t, s)
	org := seedOrg(t, s, "north")
	roleID := seedRoleWithMappings(t, s, "ops",
		&policy.EntityMapping{EntityType: policy.EntityModules, EntityID: id.NewModuleID().String(), Action: "use"},
	)
	assign(t, s, u.ID, org.ID, roleID)

	doc, err := eng.Generate(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Permission.Modules) != 0 {
		t.Fatalf("expected no module grants, got %v", doc.Permission.Modules)
	}
	// The rest of the document is still built.
	if len(doc.Metadata.UniqueOrgID) != 1 {
		t.Fatalf("uniqueOrgId = %v", doc.Metadata.UniqueOrgID)
	}
}

func TestGenerate_ModuleResolvesToName(t *testing.T) {
	ctx := context.Background()
	eng, s, _ := newTestEngine(t)

	mod := &module.Module{ID: id.NewModuleID(), Name: "alert-triage", IsEnabled: true}
	if err := s.CreateModule(ctx, mod); err != nil {
		t.Fatal(err)
	}

	u := seedUser(t, s)
	org := seedOrg(t, s, "north")
	roleID := seedRoleWithMappings(t, s, "ops",
		&policy.EntityMapping{EntityType: policy.EntityModules, EntityID: mod.ID.String(), Action: "use"},
	)
	assign(t, s, u.ID, org.ID, roleID)

	doc, err := eng.Generate(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	grants, ok := doc.Permission.Modules["alert-triage"]
	if !ok {
		t.Fatalf("expected grants keyed by module name, got %v", doc.Permission.Modules)
	}
	if len(grants) != 1 || grants[0].Action != "use" {
		t.Fatalf("grants = %v", grants)
	}
}

func TestGenerate_DuplicateReportGrantDeduped(t *testing.T) {
	ctx := context.Background()
	eng, s, _ := newTestEngine(t)

	u := seedUser(t, s)
	org := seedOrg(t, s, "north")
	role1 := seedRoleWithMappings(t, s, "reporter",
		&policy.EntityMapping{EntityType: policy.EntityReports, EntityID: "monthly", Action: "export"},
	)
	role2 := seedRoleWithMappings(t, s, "auditor",
		&policy.EntityMapping{EntityType: policy.EntityReports, EntityID: "monthly", Action: "export"},
	)
	assign(t, s, u.ID, org.ID, role1)
	assign(t, s, u.ID, org.ID, role2)

	doc, err := eng.Generate(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	grants := doc.Permission.Reports["monthly"]
	if len(grants) != 1 {
		t.Fatalf("expected one deduped grant, got %v", grants)
	}
}

func TestGenerate_UnknownUser(t *testing.T) {
	ctx := context.Background()
	eng, _, d := newTestEngine(t)

	missing := id.NewUserID()
	_, err := eng.Generate(ctx, missing)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	// Nothing was written.
	if _, err := d.GetDocument(ctx, missing.String()); err == nil {
		t.Fatal("expected no document for unknown user")
	}
}

func TestGenerate_DanglingOrgUnit(t *testing.T) {
	ctx := context.Background()
	eng, s, _ := newTestEngine(t)

	u := seedUser(t, s)
	roleID := seedRoleWithMappings(t, s, "analyst")
	assign(t, s, u.ID, id.NewOrgUnitID(), roleID)

	_, err := eng.Generate(ctx, u.ID)
	if !errors.Is(err, ErrOrgUnitNotFound) {
		t.Fatalf("expected ErrOrgUnitNotFound, got %v", err)
	}
}

func TestGenerate_UnrecognizedEntityType(t *testing.T) {
	ctx := context.Background()
	eng, s, _ := newTestEngine(t)

	u := seedUser(t, s)
	org := seedOrg(t, s, "north")
	roleID := seedRoleWithMappings(t, s, "manager",
		&policy.EntityMapping{EntityType: "dashboards", EntityID: "D1", Action: "view", Condition: "own-team"},
	)
	assign(t, s, u.ID, org.ID, roleID)

	doc, err := eng.Generate(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	grants := doc.Permission.Additional["dashboards"]["D1"]
	if len(grants) != 1 || grants[0].Action != "view" || grants[0].Condition != "own-team" {
		t.Fatalf("additional grants = %v", grants)
	}
}

func TestGenerate_InactivePolicySkipped(t *testing.T) {
	ctx := context.Background()
	eng, s, _ := newTestEngine(t)

	u := seedUser(t, s)
	org := seedOrg(t, s, "north")

	r := &role.Role{ID: id.NewRoleID(), Name: "legacy", Slug: "legacy"}
	if err := s.CreateRole(ctx, r); err != nil {
		t.Fatal(err)
	}
	p := &policy.Policy{ID: id.NewPolicyID(), Name: "retired", IsActive: false}
	if err := s.CreatePolicy(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := s.AttachPolicy(ctx, r.ID, p.ID); err != nil {
		t.Fatal(err)
	}
	m := &policy.EntityMapping{ID: id.NewMappingID(), PolicyID: p.ID, EntityType: policy.EntityReports, EntityID: "monthly", Action: "export"}
	if err := s.AddMapping(ctx, m); err != nil {
		t.Fatal(err)
	}
	assign(t, s, u.ID, org.ID, r.ID)

	doc, err := eng.Generate(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Permission.Reports) != 0 {
		t.Fatalf("expected inactive policy to be skipped, got %v", doc.Permission.Reports)
	}
}

func TestGenerate_IncludeInactivePolicies(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.IncludeInactivePolicies = true
	eng, s, _ := newTestEngine(t, WithConfig(cfg))

	u := seedUser(t, s)
	org := seedOrg(t, s, "north")

	r := &role.Role{ID: id.NewRoleID(), Name: "legacy", Slug: "legacy"}
	if err := s.CreateRole(ctx, r); err != nil {
		t.Fatal(err)
	}
	p := &policy.Policy{ID: id.NewPolicyID(), Name: "retired", IsActive: false}
	if err := s.CreatePolicy(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := s.AttachPolicy(ctx, r.ID, p.ID); err != nil {
		t.Fatal(err)
	}
	m := &policy.EntityMapping{ID: id.NewMappingID(), PolicyID: p.ID, EntityType: policy.EntityReports, EntityID: "monthly", Action: "export"}
	if err := s.AddMapping(ctx, m); err != nil {
		t.Fatal(err)
	}
	assign(t, s, u.ID, org.ID, r.ID)

	doc, err := eng.Generate(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Permission.Reports["monthly"]) != 1 {
		t.Fatalf("expected inactive policy to be included, got %v", doc.Permission.Reports)
	}
}

func TestGenerate_LastConditionWins(t *testing.T) {
	ctx := context.Background()
	eng, s, _ := newTestEngine(t)

	u := seedUser(t, s)
	org := seedOrg(t, s, "north")
	roleID := seedRoleWithMappings(t, s, "analyst",
		&policy.EntityMapping{EntityType: policy.EntityAlertTypes, EntityID: "AT1", Action: "view", Condition: "first"},
		&policy.EntityMapping{EntityType: policy.EntityAlertTypes, EntityID: "AT1", Action: "view", Condition: "second"},
	)
	assign(t, s, u.ID, org.ID, roleID)

	doc, err := eng.Generate(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	af := doc.Permission.AlertType["AT1"].OrgID[org.ID.String()].Actions["view"]
	if af.Condition != "second" {
		t.Fatalf("expected last condition to win, got %q", af.Condition)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	ctx := context.Background()
	eng, s, _ := newTestEngine(t)

	u := seedUser(t, s)
	org1 := seedOrg(t, s, "north")
	org2 := seedOrg(t, s, "south")
	roleID := seedRoleWithMappings(t, s, "analyst",
		&policy.EntityMapping{EntityType: policy.EntityAlertTypes, EntityID: "AT1", Action: "view"},
		&policy.EntityMapping{EntityType: policy.EntityReports, EntityID: "monthly", Action: "export"},
		&policy.EntityMapping{EntityType: "dashboards", EntityID: "D1", Action: "view"},
	)
	assign(t, s, u.ID, org1.ID, roleID)
	assign(t, s, u.ID, org2.ID, roleID)

	first, err := eng.Generate(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := eng.Generate(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("documents differ across runs:\n%+v\n%+v", first, second)
	}
}

func TestGenerate_NoAssignments(t *testing.T) {
	ctx := context.Background()
	eng, s, _ := newTestEngine(t)

	u := seedUser(t, s)

	doc, err := eng.Generate(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Permission.GrantCount() != 0 {
		t.Fatalf("expected empty document, got %d grants", doc.Permission.GrantCount())
	}
	if len(doc.Metadata.UniqueOrgID) != 0 {
		t.Fatalf("uniqueOrgId = %v", doc.Metadata.UniqueOrgID)
	}
}
