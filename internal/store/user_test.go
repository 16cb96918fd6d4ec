// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/msnandhis/vibepress-sub000/internal/models"
)

func newTestUser(t *testing.T, s *UserStore, email, username string) *models.User {
	t.Helper()
	u, err := s.Create(context.Background(), UserInput{
		Email:    email,
		Username: username,
		Password: "longenough",
	})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func TestUserCreateNormalizesEmail(t *testing.T) {
	s := NewUserStore(testKV(t))
	u, err := s.Create(context.Background(), UserInput{
		Email:    "  Mixed@Example.COM ",
		Username: "mixed",
		Password: "longenough",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Email != "mixed@example.com" {
		t.Errorf("email = %q", u.Email)
	}
	if u.Status != models.UserStatusActive {
		t.Errorf("default status = %q", u.Status)
	}
	if u.PasswordHash == "longenough" || u.PasswordHash == "" {
		t.Error("password must be hashed")
	}
}

func TestUserCreateValidation(t *testing.T) {
	s := NewUserStore(testKV(t))
	ctx := context.Background()

	tests := []struct {
		name string
		in   UserInput
	}{
		{"bad email", UserInput{Email: "nope", Username: "okname", Password: "longenough"}},
		{"bad username", UserInput{Email: "a@b.co", Username: "NO CAPS", Password: "longenough"}},
		{"short username", UserInput{Email: "a@b.co", Username: "ab", Password: "longenough"}},
		{"short password", UserInput{Email: "a@b.co", Username: "okname", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Create(ctx, tt.in); !IsValidation(err) {
				t.Errorf("got %v, want validation error", err)
			}
		})
	}
}

func TestUserDuplicateEmailRejected(t *testing.T) {
	s := NewUserStore(testKV(t))
	ctx := context.Background()

	newTestUser(t, s, "dup@example.com", "original")

	_, err := s.Create(ctx, UserInput{
		Email:    "DUP@example.com", // case-insensitive collision
		Username: "different",
		Password: "longenough",
	})
	if !IsValidation(err) {
		t.Errorf("got %v, want validation error", err)
	}
	if n, _ := s.Count(ctx); n != 1 {
		t.Errorf("count = %d after rejected duplicate, want 1", n)
	}
}

func TestUserCheckPassword(t *testing.T) {
	s := NewUserStore(testKV(t))
	u := newTestUser(t, s, "pw@example.com", "pwuser")

	if !s.CheckPassword(u, "longenough") {
		t.Error("correct password rejected")
	}
	if s.CheckPassword(u, "wrong-password") {
		t.Error("wrong password accepted")
	}
}

func TestUserLastAdminGuards(t *testing.T) {
	kv := testKV(t)
	users := NewUserStore(kv)
	roles := NewRoleStore(kv)
	ctx := context.Background()

	admin, err := roles.Create(ctx, RoleInput{Name: "Administrator", Permissions: []string{"*"}})
	if err != nil {
		t.Fatalf("create role: %v", err)
	}
	if admin.Slug != models.AdminRoleSlug {
		t.Fatalf("admin role slug = %q", admin.Slug)
	}

	only, _ := users.Create(ctx, UserInput{
		Email: "root@example.com", Username: "root", Password: "longenough", RoleID: admin.ID,
	})

	// Deleting the only active administrator is blocked.
	if err := users.Delete(ctx, only.ID); !IsIntegrity(err) {
		t.Errorf("delete last admin: got %v", err)
	}

	// Deactivating them is blocked too.
	inactive := models.UserStatusInactive
	if _, err := users.Update(ctx, only.ID, UserPatch{Status: &inactive}); !IsIntegrity(err) {
		t.Errorf("deactivate last admin: got %v", err)
	}

	// So is moving them to another role.
	editor, err := roles.Create(ctx, RoleInput{Name: "Editor"})
	if err != nil {
		t.Fatalf("create role: %v", err)
	}
	if _, err := users.Update(ctx, only.ID, UserPatch{RoleID: &editor.ID}); !IsIntegrity(err) {
		t.Errorf("demote last admin: got %v", err)
	}
	if found, _ := users.Find(ctx, only.ID); found.RoleID != admin.ID {
		t.Errorf("blocked demotion must leave the role unchanged, got %q", found.RoleID)
	}

	// With a second active administrator the first can be demoted or removed.
	users.Create(ctx, UserInput{
		Email: "backup@example.com", Username: "backup", Password: "longenough", RoleID: admin.ID,
	})
	if _, err := users.Update(ctx, only.ID, UserPatch{RoleID: &editor.ID}); err != nil {
		t.Errorf("demote with backup admin present: %v", err)
	}
	if err := users.Delete(ctx, only.ID); err != nil {
		t.Errorf("delete with backup admin present: %v", err)
	}
}

func TestUserListFiltersAndEnrichesRole(t *testing.T) {
	kv := testKV(t)
	users := NewUserStore(kv)
	roles := NewRoleStore(kv)
	ctx := context.Background()

	editor, _ := roles.Create(ctx, RoleInput{Name: "Editor"})
	users.Create(ctx, UserInput{Email: "ed@example.com", Username: "editor1", Password: "longenough", RoleID: editor.ID})
	newTestUser(t, users, "other@example.com", "other")

	result, err := users.List(ctx, models.UserFilters{RoleID: editor.ID}, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(result.Items))
	}
	if result.Items[0].Role == nil || result.Items[0].Role.Name != "Editor" {
		t.Error("role not enriched")
	}
}

func TestUserTOTPLifecycle(t *testing.T) {
	s := NewUserStore(testKV(t))
	ctx := context.Background()
	u := newTestUser(t, s, "totp@example.com", "totpuser")

	if err := s.SetTOTPSecret(ctx, u.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("set secret: %v", err)
	}
	got, _ := s.Find(ctx, u.ID)
	if got.TOTPSecret != "JBSWY3DPEHPK3PXP" || got.TOTPEnabled {
		t.Error("secret must be staged without enabling")
	}

	if err := s.EnableTOTP(ctx, u.ID); err != nil {
		t.Fatalf("enable: %v", err)
	}
	got, _ = s.Find(ctx, u.ID)
	if !got.TOTPEnabled {
		t.Error("totp not enabled")
	}

	if err := s.ResetTOTP(ctx, u.ID); err != nil {
		t.Fatalf("reset: %v", err)
	}
	got, _ = s.Find(ctx, u.ID)
	if got.TOTPEnabled || got.TOTPSecret != "" {
		t.Error("reset must clear secret and flag")
	}
}

func TestUserTouchLogin(t *testing.T) {
	s := NewUserStore(testKV(t))
	ctx := context.Background()
	u := newTestUser(t, s, "login@example.com", "loginuser")

	if u.LastLoginAt != nil {
		t.Fatal("fresh user must have no login timestamp")
	}
	if err := s.TouchLogin(ctx, u.ID); err != nil {
		t.Fatalf("touch: %v", err)
	}
	got, _ := s.Find(ctx, u.ID)
	if got.LastLoginAt == nil {
		t.Error("login timestamp not set")
	}
}

func TestUserFindByEmail(t *testing.T) {
	s := NewUserStore(testKV(t))
	u := newTestUser(t, s, "findme@example.com", "findme")

	got, err := s.FindByEmail(context.Background(), "findme@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Errorf("got %+v", got)
	}

	if missing, _ := s.FindByEmail(context.Background(), "ghost@example.com"); missing != nil {
		t.Error("unknown email must resolve to nil")
	}
}
