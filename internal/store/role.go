// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/msnandhis/vibepress-sub000/internal/kvstore"
	"github.com/msnandhis/vibepress-sub000/internal/models"
	"github.com/msnandhis/vibepress-sub000/internal/query"
	"github.com/msnandhis/vibepress-sub000/internal/slug"
)

// RoleStore manages the roles collection. System roles are seeded at
// install time; they cannot be renamed or deleted.
type RoleStore struct {
	kv *kvstore.Store
}

// NewRoleStore returns a new RoleStore.
func NewRoleStore(kv *kvstore.Store) *RoleStore {
	return &RoleStore{kv: kv}
}

// RoleInput carries the fields accepted when creating a role.
type RoleInput struct {
	Name        string
	Description string
	Permissions []string
}

// RolePatch carries a partial update. Nil fields are left untouched.
type RolePatch struct {
	Name        *string
	Description *string
	Permissions *[]string
}

// Create validates the input, assigns an id, a unique slug, and
// timestamps, then persists the role.
func (s *RoleStore) Create(ctx context.Context, in RoleInput) (*models.Role, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r := models.Role{
		ID:          newID("role"),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Permissions: in.Permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.Slug = s.assignSlug(ctx, slug.Generate(r.Name), r.ID)

	if err := s.kv.Set(ctx, rolesCollection, r.ID, &r); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	return &r, nil
}

// Update merges the patch into the stored role and refreshes UpdatedAt.
// Renaming a system role is rejected; descriptions and permissions of
// system roles remain editable.
func (s *RoleStore) Update(ctx context.Context, id string, patch RolePatch) (*models.Role, error) {
	r, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, notFound("role", id)
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) != r.Name {
		if r.System {
			return nil, integrityf("role", "system role %q cannot be renamed", r.Slug)
		}
		if err := validateName(*patch.Name); err != nil {
			return nil, err
		}
		r.Name = strings.TrimSpace(*patch.Name)
		r.Slug = s.assignSlug(ctx, slug.Generate(r.Name), r.ID)
	}
	if patch.Description != nil {
		r.Description = *patch.Description
	}
	if patch.Permissions != nil {
		r.Permissions = *patch.Permissions
	}

	r.UpdatedAt = time.Now().UTC()
	if err := s.kv.Set(ctx, rolesCollection, r.ID, r); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	return r, nil
}

// Delete removes a role. System roles and roles still assigned to users
// cannot be deleted; the guards leave the store unchanged.
func (s *RoleStore) Delete(ctx context.Context, id string) error {
	r, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return notFound("role", id)
	}
	if r.System {
		return integrityf("role", "system role %q cannot be deleted", r.Slug)
	}

	users, err := getAll[models.User](ctx, s.kv, usersCollection)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	count := 0
	for _, u := range users {
		if u.RoleID == id {
			count++
		}
	}
	if count > 0 {
		return integrityf("role", "cannot delete role assigned to %d user(s)", count)
	}

	if err := s.kv.Remove(ctx, rolesCollection, id); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return nil
}

// MarkSystem flags a role as a seeded system role, making it immutable
// to rename and delete. Used only during installation seeding.
func (s *RoleStore) MarkSystem(ctx context.Context, id string) error {
	r, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return notFound("role", id)
	}
	r.System = true
	r.UpdatedAt = time.Now().UTC()
	if err := s.kv.Set(ctx, rolesCollection, r.ID, r); err != nil {
		return fmt.Errorf("mark system role: %w", err)
	}
	return nil
}

// Find retrieves a role by id. Returns nil if not found.
func (s *RoleStore) Find(ctx context.Context, id string) (*models.Role, error) {
	return getOne[models.Role](ctx, s.kv, rolesCollection, id)
}

// FindBySlug retrieves a role by slug. Returns nil if not found.
func (s *RoleStore) FindBySlug(ctx context.Context, sl string) (*models.Role, error) {
	roles, err := getAll[models.Role](ctx, s.kv, rolesCollection)
	if err != nil {
		return nil, err
	}
	for i := range roles {
		if roles[i].Slug == sl {
			return &roles[i], nil
		}
	}
	return nil, nil
}

// List applies the taxonomy filters, sorts, and paginates, with each
// role's user count attached.
func (s *RoleStore) List(ctx context.Context, f models.TaxonomyFilters, page, limit int) (query.Result[models.Role], error) {
	roles, err := getAll[models.Role](ctx, s.kv, rolesCollection)
	if err != nil {
		return query.Result[models.Role]{}, fmt.Errorf("list roles: %w", err)
	}
	users, err := getAll[models.User](ctx, s.kv, usersCollection)
	if err != nil {
		return query.Result[models.Role]{}, fmt.Errorf("list roles: %w", err)
	}

	counts := make(map[string]int, len(roles))
	for _, u := range users {
		counts[u.RoleID]++
	}
	for i := range roles {
		roles[i].UserCount = counts[roles[i].ID]
	}

	var filters []func(models.Role) bool
	if f.Search != "" {
		filters = append(filters, func(r models.Role) bool { return query.Contains(r.Name, f.Search) })
	}

	return query.Run(roles, query.Options[models.Role]{
		Filters: filters,
		Less:    roleLess(f.SortBy),
		Order:   query.ParseOrder(f.SortOrder),
		Page:    page,
		Limit:   limit,
	}), nil
}

func roleLess(sortBy string) func(a, b models.Role) bool {
	switch sortBy {
	case "name":
		return func(a, b models.Role) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	default:
		return func(a, b models.Role) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

// assignSlug derives a unique slug within the roles collection.
func (s *RoleStore) assignSlug(ctx context.Context, base, selfID string) string {
	return uniqueSlug(ctx, s.kv, rolesCollection, base, selfID, func(r models.Role) (string, string) {
		return r.ID, r.Slug
	})
}
