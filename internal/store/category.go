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

// CategoryStore manages the hierarchical category collection.
type CategoryStore struct {
	kv *kvstore.Store
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(kv *kvstore.Store) *CategoryStore {
	return &CategoryStore{kv: kv}
}

// CategoryInput carries the fields accepted when creating a category.
type CategoryInput struct {
	Name        string
	Description string
	ParentID    string
}

// CategoryPatch carries a partial update. Nil fields are left untouched.
type CategoryPatch struct {
	Name        *string
	Description *string
	ParentID    *string
}

// Create validates the input, assigns an id, a unique slug, and
// timestamps, then persists the category.
func (s *CategoryStore) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := models.Category{
		ID:          newID("cat"),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ParentID:    in.ParentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	c.Slug = s.assignSlug(ctx, slug.Generate(c.Name), c.ID)

	if err := s.kv.Set(ctx, categoriesCollection, c.ID, &c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &c, nil
}

// Update merges the patch into the stored category and refreshes
// UpdatedAt. A name change re-derives the slug.
func (s *CategoryStore) Update(ctx context.Context, id string, patch CategoryPatch) (*models.Category, error) {
	c, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("category", id)
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) != c.Name {
		if err := validateName(*patch.Name); err != nil {
			return nil, err
		}
		c.Name = strings.TrimSpace(*patch.Name)
		c.Slug = s.assignSlug(ctx, slug.Generate(c.Name), c.ID)
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.ParentID != nil {
		if *patch.ParentID == c.ID {
			return nil, validationf("parent_id", "a category cannot be its own parent")
		}
		c.ParentID = *patch.ParentID
	}

	c.UpdatedAt = time.Now().UTC()
	if err := s.kv.Set(ctx, categoriesCollection, c.ID, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// Delete removes a category. A category with children cannot be deleted;
// the guard counts children first and leaves the store unchanged on
// failure. Posts referencing the category keep a dangling id that
// resolves to nil at read time.
func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	c, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return notFound("category", id)
	}

	cats, err := getAll[models.Category](ctx, s.kv, categoriesCollection)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	children := 0
	for _, other := range cats {
		if other.ParentID == id {
			children++
		}
	}
	if children > 0 {
		return integrityf("category", "cannot delete category with %d child categor(ies)", children)
	}

	if err := s.kv.Remove(ctx, categoriesCollection, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Find retrieves a category by id. Returns nil if not found.
func (s *CategoryStore) Find(ctx context.Context, id string) (*models.Category, error) {
	return getOne[models.Category](ctx, s.kv, categoriesCollection, id)
}

// List applies the taxonomy filters, sorts, and paginates, with each
// category's post count attached.
func (s *CategoryStore) List(ctx context.Context, f models.TaxonomyFilters, page, limit int) (query.Result[models.Category], error) {
	cats, err := s.withPostCounts(ctx)
	if err != nil {
		return query.Result[models.Category]{}, fmt.Errorf("list categories: %w", err)
	}

	var filters []func(models.Category) bool
	if f.Search != "" {
		filters = append(filters, func(c models.Category) bool { return query.Contains(c.Name, f.Search) })
	}
	if f.ParentID != "" {
		filters = append(filters, func(c models.Category) bool { return c.ParentID == f.ParentID })
	}

	return query.Run(cats, query.Options[models.Category]{
		Filters: filters,
		Less:    categoryLess(f.SortBy),
		Order:   query.ParseOrder(f.SortOrder),
		Page:    page,
		Limit:   limit,
	}), nil
}

func categoryLess(sortBy string) func(a, b models.Category) bool {
	switch sortBy {
	case "name":
		return func(a, b models.Category) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case "post_count":
		return func(a, b models.Category) bool { return a.PostCount < b.PostCount }
	default:
		return func(a, b models.Category) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

// Tree returns all categories as a nested tree structure.
func (s *CategoryStore) Tree(ctx context.Context) ([]models.Category, error) {
	flat, err := s.withPostCounts(ctx)
	if err != nil {
		return nil, err
	}
	return buildTree(flat, "", 0), nil
}

// buildTree recursively builds a tree from a flat list.
func buildTree(flat []models.Category, parentID string, depth int) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if c.ParentID == parentID {
			c.Depth = depth
			c.Children = buildTree(flat, c.ID, depth+1)
			result = append(result, c)
		}
	}
	return result
}

// FlatTree returns categories as a flat list ordered for display, with
// Depth set for indentation. Useful for <select> dropdowns.
func (s *CategoryStore) FlatTree(ctx context.Context) ([]models.Category, error) {
	tree, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	var result []models.Category
	flattenTree(tree, &result)
	return result, nil
}

// flattenTree walks a category tree depth-first, appending to result.
func flattenTree(cats []models.Category, result *[]models.Category) {
	for _, c := range cats {
		*result = append(*result, c)
		if len(c.Children) > 0 {
			flattenTree(c.Children, result)
		}
	}
}

// withPostCounts loads all categories with the number of posts assigned
// to each.
func (s *CategoryStore) withPostCounts(ctx context.Context) ([]models.Category, error) {
	cats, err := getAll[models.Category](ctx, s.kv, categoriesCollection)
	if err != nil {
		return nil, err
	}
	posts, err := getAll[models.Post](ctx, s.kv, postsCollection)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(cats))
	for _, p := range posts {
		counts[p.CategoryID]++
	}
	for i := range cats {
		cats[i].PostCount = counts[cats[i].ID]
	}
	return cats, nil
}

// assignSlug derives a unique slug within the categories collection.
func (s *CategoryStore) assignSlug(ctx context.Context, base, selfID string) string {
	return uniqueSlug(ctx, s.kv, categoriesCollection, base, selfID, func(c models.Category) (string, string) {
		return c.ID, c.Slug
	})
}
