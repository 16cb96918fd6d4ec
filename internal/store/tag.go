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

// TagStore manages the flat tag collection.
type TagStore struct {
	kv *kvstore.Store
}

// NewTagStore returns a new TagStore.
func NewTagStore(kv *kvstore.Store) *TagStore {
	return &TagStore{kv: kv}
}

// TagPatch carries a partial update. Nil fields are left untouched.
type TagPatch struct {
	Name *string
}

// Create validates the name, assigns an id, a unique slug, and
// timestamps, then persists the tag.
func (s *TagStore) Create(ctx context.Context, name string) (*models.Tag, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := models.Tag{
		ID:        newID("tag"),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.Slug = s.assignSlug(ctx, slug.Generate(t.Name), t.ID)

	if err := s.kv.Set(ctx, tagsCollection, t.ID, &t); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &t, nil
}

// Update merges the patch into the stored tag and refreshes UpdatedAt.
func (s *TagStore) Update(ctx context.Context, id string, patch TagPatch) (*models.Tag, error) {
	t, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFound("tag", id)
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) != t.Name {
		if err := validateName(*patch.Name); err != nil {
			return nil, err
		}
		t.Name = strings.TrimSpace(*patch.Name)
		t.Slug = s.assignSlug(ctx, slug.Generate(t.Name), t.ID)
	}

	t.UpdatedAt = time.Now().UTC()
	if err := s.kv.Set(ctx, tagsCollection, t.ID, t); err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}
	return t, nil
}

// Delete removes a tag. Posts referencing it keep a dangling id that
// resolves to nothing at read time.
func (s *TagStore) Delete(ctx context.Context, id string) error {
	t, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return notFound("tag", id)
	}
	if err := s.kv.Remove(ctx, tagsCollection, id); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

// Find retrieves a tag by id. Returns nil if not found.
func (s *TagStore) Find(ctx context.Context, id string) (*models.Tag, error) {
	return getOne[models.Tag](ctx, s.kv, tagsCollection, id)
}

// List applies the taxonomy filters, sorts, and paginates, with each
// tag's post count attached.
func (s *TagStore) List(ctx context.Context, f models.TaxonomyFilters, page, limit int) (query.Result[models.Tag], error) {
	tags, err := getAll[models.Tag](ctx, s.kv, tagsCollection)
	if err != nil {
		return query.Result[models.Tag]{}, fmt.Errorf("list tags: %w", err)
	}
	posts, err := getAll[models.Post](ctx, s.kv, postsCollection)
	if err != nil {
		return query.Result[models.Tag]{}, fmt.Errorf("list tags: %w", err)
	}

	counts := make(map[string]int, len(tags))
	for _, p := range posts {
		for _, tagID := range p.TagIDs {
			counts[tagID]++
		}
	}
	for i := range tags {
		tags[i].PostCount = counts[tags[i].ID]
	}

	var filters []func(models.Tag) bool
	if f.Search != "" {
		filters = append(filters, func(t models.Tag) bool { return query.Contains(t.Name, f.Search) })
	}

	return query.Run(tags, query.Options[models.Tag]{
		Filters: filters,
		Less:    tagLess(f.SortBy),
		Order:   query.ParseOrder(f.SortOrder),
		Page:    page,
		Limit:   limit,
	}), nil
}

func tagLess(sortBy string) func(a, b models.Tag) bool {
	switch sortBy {
	case "name":
		return func(a, b models.Tag) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case "post_count":
		return func(a, b models.Tag) bool { return a.PostCount < b.PostCount }
	default:
		return func(a, b models.Tag) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

// BulkDelete removes each id independently and reports per-id outcomes.
func (s *TagStore) BulkDelete(ctx context.Context, ids []string) []BulkResult {
	return bulkApply(ctx, ids, s.Delete)
}

// assignSlug derives a unique slug within the tags collection.
func (s *TagStore) assignSlug(ctx context.Context, base, selfID string) string {
	return uniqueSlug(ctx, s.kv, tagsCollection, base, selfID, func(t models.Tag) (string, string) {
		return t.ID, t.Slug
	})
}
