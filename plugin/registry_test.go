package plugin

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/role"
	"github.com/fincase/aegis/userperm"
)

// testPlugin implements Plugin + BeforeRefresh + RoleCreated.
type testPlugin struct {
	beforeRefreshCalled bool
	roleCreatedCalled   bool
}

func (t *testPlugin) Name() string { return "test-plugin" }

func (t *testPlugin) OnBeforeRefresh(_ context.Context, _ id.UserID) error {
	t.beforeRefreshCalled = true
	return nil
}

func (t *testPlugin) OnRoleCreated(_ context.Context, _ *role.Role) error {
	t.roleCreatedCalled = true
	return nil
}

// minimalPlugin only implements Plugin (no hooks).
type minimalPlugin struct{}

func (m *minimalPlugin) Name() string { return "minimal" }

// failingPlugin returns an error from its hook; the registry must
// swallow it.
type failingPlugin struct{}

func (f *failingPlugin) Name() string { return "failing" }

func (f *failingPlugin) OnAfterRefresh(_ context.Context, _ *userperm.Document) error {
	return errors.New("boom")
}

func TestRegistryDispatch(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(slog.Default())

	tp := &testPlugin{}
	reg.Register(tp)
	reg.Register(&minimalPlugin{})

	if len(reg.Plugins()) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(reg.Plugins()))
	}

	// Should dispatch BeforeRefresh to testPlugin only.
	reg.EmitBeforeRefresh(ctx, id.NewUserID())
	if !tp.beforeRefreshCalled {
		t.Fatal("OnBeforeRefresh was not called")
	}

	// Should dispatch RoleCreated.
	reg.EmitRoleCreated(ctx, &role.Role{ID: id.NewRoleID(), Name: "analyst"})
	if !tp.roleCreatedCalled {
		t.Fatal("OnRoleCreated was not called")
	}

	// Should not panic on hooks with no listeners.
	reg.EmitAfterRefresh(ctx, nil)
	reg.EmitRoleDeleted(ctx, id.NewRoleID())
	reg.EmitShutdown(ctx)
}

func TestRegistryHookErrorsAreSwallowed(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(slog.Default())
	reg.Register(&failingPlugin{})

	// Must not panic or propagate.
	reg.EmitAfterRefresh(ctx, &userperm.Document{UserID: "user_x"})
}
