package memory

import (
	"context"
	"errors"
	"testing"
	"time"

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

// Compile-time check that *Store implements store.Store.
var _ store.Store = (*Store)(nil)

func TestUserCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := &identity.User{
		ID:        id.NewUserID(),
		FirstName: "Maya",
		LastName:  "Okafor",
		Email:     "maya@example.com",
		IsActive:  true,
	}

	// Create
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatal(err)
	}

	// Get
	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.FullName() != "Maya Okafor" {
		t.Fatalf("expected Maya Okafor, got %s", got.FullName())
	}

	// Update
	u.LastName = "Okafor-Reed"
	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetUser(ctx, u.ID)
	if got.LastName != "Okafor-Reed" {
		t.Fatal("update failed")
	}

	// List + Count
	list, _ := s.ListUsers(ctx, nil)
	if len(list) != 1 {
		t.Fatalf("expected 1 user, got %d", len(list))
	}
	count, _ := s.CountUsers(ctx, nil)
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}

	// Delete
	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	_, err = s.GetUser(ctx, u.ID)
	if !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestOrgUnitLookupByKey(t *testing.T) {
	ctx := context.Background()
	s := New()

	parent := &orgunit.OrgUnit{ID: id.NewOrgUnitID(), Key: "emea", Name: "EMEA", IsActive: true}
	child := &orgunit.OrgUnit{ID: id.NewOrgUnitID(), Key: "emea-fraud", Name: "EMEA Fraud", ParentID: &parent.ID, IsActive: true}
	if err := s.CreateOrgUnit(ctx, parent); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateOrgUnit(ctx, child); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetOrgUnitByKey(ctx, "emea-fraud")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != child.ID {
		t.Fatal("key lookup mismatch")
	}

	children, err := s.ListChildOrgUnits(ctx, parent.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != 1 || children[0].ID != child.ID {
		t.Fatalf("expected one child, got %d", len(children))
	}

	if _, err := s.GetOrgUnitByKey(ctx, "missing"); !errors.Is(err, orgunit.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRolePolicyBinding(t *testing.T) {
	ctx := context.Background()
	s := New()

	r := &role.Role{ID: id.NewRoleID(), Name: "Analyst", Slug: "analyst"}
	if err := s.CreateRole(ctx, r); err != nil {
		t.Fatal(err)
	}

	p1 := &policy.Policy{ID: id.NewPolicyID(), Name: "triage", IsActive: true}
	p2 := &policy.Policy{ID: id.NewPolicyID(), Name: "reporting", IsActive: true}
	if err := s.CreatePolicy(ctx, p1); err != nil {
		t.Fatal(err)
	}
	if err := s.CreatePolicy(ctx, p2); err != nil {
		t.Fatal(err)
	}

	if err := s.AttachPolicy(ctx, r.ID, p1.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.AttachPolicy(ctx, r.ID, p2.ID); err != nil {
		t.Fatal(err)
	}

	pols, err := s.ListPoliciesForRole(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(pols) != 2 {
		t.Fatalf("expected 2 policies, got %d", len(pols))
	}

	if err := s.DetachPolicy(ctx, r.ID, p1.ID); err != nil {
		t.Fatal(err)
	}
	ids, _ := s.ListRolePolicies(ctx, r.ID)
	if len(ids) != 1 || ids[0] != p2.ID {
		t.Fatalf("expected only %s bound, got %v", p2.ID, ids)
	}

	if err := s.SetRolePolicies(ctx, r.ID, []id.PolicyID{p1.ID}); err != nil {
		t.Fatal(err)
	}
	ids, _ = s.ListRolePolicies(ctx, r.ID)
	if len(ids) != 1 || ids[0] != p1.ID {
		t.Fatalf("set did not replace bindings: %v", ids)
	}
}

func TestPolicyMappings(t *testing.T) {
	ctx := context.Background()
	s := New()

	p := &policy.Policy{ID: id.NewPolicyID(), Name: "alert-triage", IsActive: true}
	if err := s.CreatePolicy(ctx, p); err != nil {
		t.Fatal(err)
	}

	m1 := &policy.EntityMapping{
		ID:         id.NewMappingID(),
		PolicyID:   p.ID,
		EntityType: policy.EntityAlertTypes,
		EntityID:   "fraud-wire",
		Action:     "view",
	}
	m2 := &policy.EntityMapping{
		ID:         id.NewMappingID(),
		PolicyID:   p.ID,
		EntityType: policy.EntityModules,
		EntityID:   id.NewModuleID().String(),
		Action:     "access",
		Condition:  "business-hours",
	}
	if err := s.AddMapping(ctx, m1); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMapping(ctx, m2); err != nil {
		t.Fatal(err)
	}

	mappings, err := s.ListMappingsForPolicy(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(mappings) != 2 {
		t.Fatalf("expected 2 mappings, got %d", len(mappings))
	}

	if err := s.RemoveMapping(ctx, m1.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveMapping(ctx, m1.ID); !errors.Is(err, policy.ErrMappingNotFound) {
		t.Fatalf("expected ErrMappingNotFound, got %v", err)
	}

	// Deleting the policy removes its remaining mappings.
	if err := s.DeletePolicy(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	mappings, _ = s.ListMappingsForPolicy(ctx, p.ID)
	if len(mappings) != 0 {
		t.Fatalf("expected 0 mappings after policy delete, got %d", len(mappings))
	}
}

func TestAssignmentsForUser(t *testing.T) {
	ctx := context.Background()
	s := New()

	userID := id.NewUserID()
	otherID := id.NewUserID()
	a1 := &assignment.Assignment{ID: id.NewAssignmentID(), UserID: userID, OrgUnitID: id.NewOrgUnitID(), RoleID: id.NewRoleID()}
	a2 := &assignment.Assignment{ID: id.NewAssignmentID(), UserID: userID, OrgUnitID: id.NewOrgUnitID(), RoleID: id.NewRoleID()}
	a3 := &assignment.Assignment{ID: id.NewAssignmentID(), UserID: otherID, OrgUnitID: a1.OrgUnitID, RoleID: a1.RoleID}
	for _, a := range []*assignment.Assignment{a1, a2, a3} {
		if err := s.CreateAssignment(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListAssignmentsForUser(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(list))
	}

	// No assignments yields an empty slice, not an error.
	list, err = s.ListAssignmentsForUser(ctx, id.NewUserID())
	if err != nil {
		t.Fatal(err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty slice, got %v", list)
	}

	if err := s.DeleteAssignmentsByUser(ctx, userID); err != nil {
		t.Fatal(err)
	}
	count, _ := s.CountAssignments(ctx, nil)
	if count != 1 {
		t.Fatalf("expected 1 remaining assignment, got %d", count)
	}
}

func TestModuleLookupByName(t *testing.T) {
	ctx := context.Background()
	s := New()

	m := &module.Module{ID: id.NewModuleID(), Name: "alert-triage", IsEnabled: true}
	if err := s.CreateModule(ctx, m); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetModuleByName(ctx, "alert-triage")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != m.ID {
		t.Fatal("name lookup mismatch")
	}

	if _, err := s.GetModule(ctx, id.NewModuleID()); !errors.Is(err, module.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRefreshLogQueryAndPurge(t *testing.T) {
	ctx := context.Background()
	s := New()

	now := time.Now()
	old := &refreshlog.Entry{
		ID:        id.NewRefreshLogID(),
		UserID:    "user_a",
		Status:    refreshlog.StatusOK,
		CreatedAt: now.Add(-48 * time.Hour),
	}
	recent := &refreshlog.Entry{
		ID:        id.NewRefreshLogID(),
		UserID:    "user_a",
		Status:    refreshlog.StatusFailed,
		Error:     "aggregation failed",
		CreatedAt: now,
	}
	if err := s.RecordRefresh(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordRefresh(ctx, recent); err != nil {
		t.Fatal(err)
	}

	// Newest first.
	list, err := s.QueryRefreshLog(ctx, &refreshlog.QueryFilter{UserID: "user_a"})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != recent.ID {
		t.Fatalf("expected newest-first ordering, got %v", list)
	}

	list, _ = s.QueryRefreshLog(ctx, &refreshlog.QueryFilter{Status: refreshlog.StatusFailed})
	if len(list) != 1 || list[0].Error != "aggregation failed" {
		t.Fatalf("status filter mismatch: %v", list)
	}

	purged, err := s.PurgeRefreshLog(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if purged != 1 {
		t.Fatalf("expected 1 purged, got %d", purged)
	}
	count, _ := s.CountRefreshLog(ctx, nil)
	if count != 1 {
		t.Fatalf("expected 1 remaining entry, got %d", count)
	}
}

func TestCopyOnRead(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := &identity.User{ID: id.NewUserID(), FirstName: "Ana", IsActive: true, Metadata: map[string]any{"team": "fraud"}}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetUser(ctx, u.ID)
	got.FirstName = "mutated"
	got.Metadata["team"] = "mutated"

	again, _ := s.GetUser(ctx, u.ID)
	if again.FirstName != "Ana" || again.Metadata["team"] != "fraud" {
		t.Fatal("store contents mutated through a returned copy")
	}
}
