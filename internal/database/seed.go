package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/msnandhis/vibepress-sub000/internal/kvstore"
	"github.com/msnandhis/vibepress-sub000/internal/models"
	"github.com/msnandhis/vibepress-sub000/internal/store"
)

// Seed populates a fresh installation with the system roles and a
// default admin user. It is a no-op when any user already exists.
func Seed(ctx context.Context, kv *kvstore.Store) error {
	users := store.NewUserStore(kv)
	roles := store.NewRoleStore(kv)

	count, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	system := []store.RoleInput{
		{Name: "Administrator", Description: "Full access to every part of the site", Permissions: []string{"*"}},
		{Name: "Editor", Description: "Manage and publish all content", Permissions: []string{"posts.manage", "pages.manage", "media.manage", "taxonomy.manage"}},
		{Name: "Author", Description: "Write and publish their own posts", Permissions: []string{"posts.own"}},
	}

	var adminRole *models.Role
	for _, in := range system {
		role, err := roles.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("seed role %q: %w", in.Name, err)
		}
		if err := roles.MarkSystem(ctx, role.ID); err != nil {
			return fmt.Errorf("seed role %q: %w", in.Name, err)
		}
		if role.Slug == models.AdminRoleSlug {
			adminRole = role
		}
	}
	if adminRole == nil {
		return fmt.Errorf("seed: administrator role missing after creation")
	}

	// Default admin credentials for development installs only.
	admin, err := users.Create(ctx, store.UserInput{
		Email:       "admin@vibepress.local",
		Username:    "admin",
		DisplayName: "Admin",
		Password:    "changeme123",
		RoleID:      adminRole.ID,
	})
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	slog.Info("database seeded with system roles and default admin user",
		"email", admin.Email,
		"password", "changeme123",
	)
	return nil
}
