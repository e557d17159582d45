package workflow

import (
	"context"
	"errors"
	"testing"

	"loandesk-cli/internal/model"
)

type fakePermSource struct {
	perms *model.Permissions
	err   error
	calls int
}

func (f *fakePermSource) GetUserPermissions(ctx context.Context, name string) (*model.Permissions, error) {
	f.calls++
	return f.perms, f.err
}

func TestResolveActorContext_ServerWins(t *testing.T) {
	src := &fakePermSource{perms: &model.Permissions{
		Role:            "Branch Manager/Approver",
		Level:           3,
		AllowedStages:   []string{"2nd Review"},
		AllowedStatuses: []string{"PENDING"},
	}}
	a := ResolveActorContext(context.Background(), src, "jane", "Credit Officer", 1)
	if a.Source != model.ContextServer {
		t.Fatalf("expected server source, got %s", a.Source)
	}
	if a.Role != "Branch Manager/Approver" || a.Level != 3 {
		t.Fatalf("expected server role/level, got %q/%d", a.Role, a.Level)
	}
	if len(a.AllowedStages) != 1 || a.AllowedStages[0] != "2nd Review" {
		t.Fatalf("expected server stage override carried, got %v", a.AllowedStages)
	}
}

func TestResolveActorContext_FallbackOnError(t *testing.T) {
	src := &fakePermSource{err: errors.New("boom")}
	a := ResolveActorContext(context.Background(), src, "jane", "Head of Credit", 0)
	if a.Source != model.ContextCached {
		t.Fatalf("expected cached source, got %s", a.Source)
	}
	if a.Role != "Head of Credit" || a.Level != 2 {
		t.Fatalf("expected static table fallback, got %q/%d", a.Role, a.Level)
	}
	if len(a.AllowedStages) != 0 || len(a.AllowedStatuses) != 0 {
		t.Fatalf("cached context must not carry overrides")
	}
}

func TestResolveActorContext_FallbackOnEmptyServerRole(t *testing.T) {
	src := &fakePermSource{perms: &model.Permissions{Role: "  "}}
	a := ResolveActorContext(context.Background(), src, "jane", "AMLRO", 0)
	if a.Source != model.ContextCached || a.Level != 2 {
		t.Fatalf("expected cached fallback for empty server role, got %+v", a)
	}
}

func TestResolveActorContext_IsAdminFlagPromotesLevel(t *testing.T) {
	src := &fakePermSource{perms: &model.Permissions{Role: "Auditor", IsAdmin: true}}
	a := ResolveActorContext(context.Background(), src, "root", "", 0)
	if a.Level != model.AdminLevel || !a.IsAdmin() {
		t.Fatalf("expected isAdmin to yield level 5, got %+v", a)
	}
}

func TestResolveActorContext_NilSource(t *testing.T) {
	a := ResolveActorContext(context.Background(), nil, "jane", "Approver", 0)
	if a.Source != model.ContextCached || a.Level != 4 {
		t.Fatalf("expected cached context with static level, got %+v", a)
	}
}
