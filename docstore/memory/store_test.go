package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/fincase/aegis/alerttype"
	"github.com/fincase/aegis/docstore"
	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/userperm"
)

// Compile-time check that *Store implements docstore.Store.
var _ docstore.Store = (*Store)(nil)

func TestDocumentUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	s := New()

	userID := id.NewUserID().String()
	doc := &userperm.Document{
		UserID: userID,
		User:   userperm.UserInfo{ID: userID, FullName: "Maya Okafor"},
		Permission: userperm.Wrapper{
			Modules: map[string][]userperm.ActionCondition{
				"alert-triage": {{Action: "access"}},
			},
		},
	}

	if err := s.UpsertDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetDocument(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Permission.AllowsModuleAction("alert-triage", "access") {
		t.Fatal("expected module grant to survive round trip")
	}

	// Second upsert fully replaces, never merges.
	doc2 := &userperm.Document{
		UserID: userID,
		User:   userperm.UserInfo{ID: userID, FullName: "Maya Okafor"},
		Permission: userperm.Wrapper{
			Reports: map[string][]userperm.ActionCondition{
				"sar-filings": {{Action: "view"}},
			},
		},
	}
	if err := s.UpsertDocument(ctx, doc2); err != nil {
		t.Fatal(err)
	}
	got, err = s.GetDocument(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Permission.AllowsModuleAction("alert-triage", "access") {
		t.Fatal("old module grant leaked through replace")
	}
	if !got.Permission.AllowsReportAction("sar-filings", "view") {
		t.Fatal("expected report grant after replace")
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.GetDocument(ctx, id.NewUserID().String())
	if !errors.Is(err, userperm.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteDocumentIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()

	userID := id.NewUserID().String()
	if err := s.UpsertDocument(ctx, &userperm.Document{UserID: userID}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteDocument(ctx, userID); err != nil {
		t.Fatal(err)
	}
	// Deleting an absent document is not an error.
	if err := s.DeleteDocument(ctx, userID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetDocument(ctx, userID); !errors.Is(err, userperm.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDocumentCopyOnRead(t *testing.T) {
	ctx := context.Background()
	s := New()

	userID := id.NewUserID().String()
	doc := &userperm.Document{
		UserID: userID,
		Permission: userperm.Wrapper{
			Modules: map[string][]userperm.ActionCondition{
				"reporting": {{Action: "view"}},
			},
		},
	}
	if err := s.UpsertDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetDocument(ctx, userID)
	got.Permission.Modules["reporting"] = append(got.Permission.Modules["reporting"], userperm.ActionCondition{Action: "export"})

	again, _ := s.GetDocument(ctx, userID)
	if again.Permission.AllowsModuleAction("reporting", "export") {
		t.Fatal("store contents mutated through a returned copy")
	}
}

func TestAlertTypeCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	at := &alerttype.AlertType{
		ID:        id.NewAlertTypeID(),
		Key:       "fraud-wire",
		Name:      "Wire Fraud",
		Category:  "fraud",
		IsEnabled: true,
	}

	if err := s.CreateAlertType(ctx, at); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetAlertType(ctx, at.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Wire Fraud" {
		t.Fatalf("expected Wire Fraud, got %s", got.Name)
	}

	got, err = s.GetAlertTypeByKey(ctx, "fraud-wire")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != at.ID {
		t.Fatal("key lookup mismatch")
	}

	at.Name = "Wire Transfer Fraud"
	if err := s.UpdateAlertType(ctx, at); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetAlertType(ctx, at.ID)
	if got.Name != "Wire Transfer Fraud" {
		t.Fatal("update failed")
	}

	enabled := true
	list, err := s.ListAlertTypes(ctx, &alerttype.ListFilter{Category: "fraud", IsEnabled: &enabled})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 alert type, got %d", len(list))
	}

	if err := s.DeleteAlertType(ctx, at.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetAlertType(ctx, at.ID); !errors.Is(err, alerttype.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
