// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/msnandhis/vibepress-sub000/internal/models"
)

func TestRoleSystemGuards(t *testing.T) {
	s := NewRoleStore(testKV(t))
	ctx := context.Background()

	r, err := s.Create(ctx, RoleInput{Name: "Administrator", Permissions: []string{"*"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.MarkSystem(ctx, r.ID); err != nil {
		t.Fatalf("mark system: %v", err)
	}

	// System roles cannot be renamed.
	name := "Overlord"
	if _, err := s.Update(ctx, r.ID, RolePatch{Name: &name}); !IsIntegrity(err) {
		t.Errorf("rename system role: got %v", err)
	}

	// But their description and permissions stay editable.
	desc := "Full access"
	updated, err := s.Update(ctx, r.ID, RolePatch{Description: &desc})
	if err != nil {
		t.Fatalf("update description: %v", err)
	}
	if updated.Description != "Full access" {
		t.Errorf("description = %q", updated.Description)
	}

	// System roles cannot be deleted.
	if err := s.Delete(ctx, r.ID); !IsIntegrity(err) {
		t.Errorf("delete system role: got %v", err)
	}
}

func TestRoleDeleteAssignedBlocked(t *testing.T) {
	kv := testKV(t)
	roles := NewRoleStore(kv)
	users := NewUserStore(kv)
	ctx := context.Background()

	r, _ := roles.Create(ctx, RoleInput{Name: "Writer"})
	users.Create(ctx, UserInput{
		Email: "w@example.com", Username: "writer", Password: "longenough", RoleID: r.ID,
	})

	if err := roles.Delete(ctx, r.ID); !IsIntegrity(err) {
		t.Errorf("delete assigned role: got %v", err)
	}

	unassigned, _ := roles.Create(ctx, RoleInput{Name: "Ghost"})
	if err := roles.Delete(ctx, unassigned.ID); err != nil {
		t.Errorf("delete unassigned role: %v", err)
	}
}

func TestRoleHasPermission(t *testing.T) {
	wildcard := models.Role{Permissions: []string{"*"}}
	if !wildcard.HasPermission("posts.delete") {
		t.Error("wildcard must grant everything")
	}

	scoped := models.Role{Permissions: []string{"posts.read"}}
	if !scoped.HasPermission("posts.read") || scoped.HasPermission("posts.delete") {
		t.Error("scoped permissions wrong")
	}
}

func TestRoleListUserCounts(t *testing.T) {
	kv := testKV(t)
	roles := NewRoleStore(kv)
	users := NewUserStore(kv)
	ctx := context.Background()

	r, _ := roles.Create(ctx, RoleInput{Name: "Counted"})
	users.Create(ctx, UserInput{Email: "a@example.com", Username: "usera", Password: "longenough", RoleID: r.ID})
	users.Create(ctx, UserInput{Email: "b@example.com", Username: "userb", Password: "longenough", RoleID: r.ID})

	result, err := roles.List(ctx, models.TaxonomyFilters{}, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Items[0].UserCount != 2 {
		t.Errorf("user count = %d, want 2", result.Items[0].UserCount)
	}
}

func TestRoleFindBySlug(t *testing.T) {
	s := NewRoleStore(testKV(t))
	ctx := context.Background()

	s.Create(ctx, RoleInput{Name: "Site Editor"})
	got, err := s.FindBySlug(ctx, "site-editor")
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if got == nil || got.Name != "Site Editor" {
		t.Errorf("got %+v", got)
	}
}
