package id_test

import (
	"strings"
	"testing"

	"github.com/fincase/aegis/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"UserID", id.NewUserID, "user_"},
		{"OrgUnitID", id.NewOrgUnitID, "org_"},
		{"RoleID", id.NewRoleID, "role_"},
		{"PolicyID", id.NewPolicyID, "pol_"},
		{"MappingID", id.NewMappingID, "emap_"},
		{"AssignmentID", id.NewAssignmentID, "asgn_"},
		{"ModuleID", id.NewModuleID, "mod_"},
		{"AlertTypeID", id.NewAlertTypeID, "atype_"},
		{"RefreshLogID", id.NewRefreshLogID, "rlog_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixRole)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixRole {
		t.Errorf("expected prefix %q, got %q", id.PrefixRole, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"UserID", id.NewUserID, id.ParseUserID},
		{"OrgUnitID", id.NewOrgUnitID, id.ParseOrgUnitID},
		{"RoleID", id.NewRoleID, id.ParseRoleID},
		{"PolicyID", id.NewPolicyID, id.ParsePolicyID},
		{"MappingID", id.NewMappingID, id.ParseMappingID},
		{"AssignmentID", id.NewAssignmentID, id.ParseAssignmentID},
		{"ModuleID", id.NewModuleID, id.ParseModuleID},
		{"AlertTypeID", id.NewAlertTypeID, id.ParseAlertTypeID},
		{"RefreshLogID", id.NewRefreshLogID, id.ParseRefreshLogID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.newFn()
			parsed, err := tt.parseFn(original.String())
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if parsed.String() != original.String() {
				t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
			}
		})
	}
}

func TestCrossTypeRejection(t *testing.T) {
	roleID := id.NewRoleID().String()

	if _, err := id.ParseUserID(roleID); err == nil {
		t.Error("expected ParseUserID to reject a role ID")
	}
	if _, err := id.ParseOrgUnitID(roleID); err == nil {
		t.Error("expected ParseOrgUnitID to reject a role ID")
	}
	if _, err := id.ParsePolicyID(roleID); err == nil {
		t.Error("expected ParsePolicyID to reject a role ID")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"garbage", "not a typeid"},
		{"missing suffix", "role_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := id.Parse(tt.input); err == nil {
				t.Errorf("expected error for %q", tt.input)
			}
		})
	}
}

func TestTextRoundTrip(t *testing.T) {
	original := id.NewUserID()

	data, err := original.MarshalText()
	if err != nil {
		t.Fatal(err)
	}

	var decoded id.ID
	if err := decoded.UnmarshalText(data); err != nil {
		t.Fatal(err)
	}
	if decoded.String() != original.String() {
		t.Errorf("text round-trip mismatch: %q != %q", decoded.String(), original.String())
	}
}

func TestNilID(t *testing.T) {
	var nilID id.ID
	if !nilID.IsNil() {
		t.Error("zero-value ID should be nil")
	}
	if nilID.String() != "" {
		t.Errorf("nil ID String() = %q, want empty", nilID.String())
	}

	v, err := nilID.Value()
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Errorf("nil ID Value() = %v, want nil", v)
	}
}

func TestScan(t *testing.T) {
	original := id.NewOrgUnitID()

	var scanned id.ID
	if err := scanned.Scan(original.String()); err != nil {
		t.Fatal(err)
	}
	if scanned.String() != original.String() {
		t.Errorf("scan mismatch: %q != %q", scanned.String(), original.String())
	}

	var fromNil id.ID
	if err := fromNil.Scan(nil); err != nil {
		t.Fatal(err)
	}
	if !fromNil.IsNil() {
		t.Error("scanning nil should produce the Nil ID")
	}

	var bad id.ID
	if err := bad.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}
