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

// PageStore handles all page operations over the pages collection.
// Pages form a tree through ParentID.
type PageStore struct {
	kv *kvstore.Store
}

// NewPageStore creates a new PageStore with the given key-value store.
func NewPageStore(kv *kvstore.Store) *PageStore {
	return &PageStore{kv: kv}
}

// PageInput carries the fields accepted when creating a page.
type PageInput struct {
	Title           string
	Body            string
	Status          models.PageStatus
	ParentID        string
	AuthorID        string
	Template        string
	ShowInNav       bool
	MetaDescription string
}

// PagePatch carries a partial update. Nil fields are left untouched.
type PagePatch struct {
	Title           *string
	Body            *string
	Status          *models.PageStatus
	ParentID        *string
	Template        *string
	ShowInNav       *bool
	MetaDescription *string
}

// Create validates the input, assigns an id, a unique slug, and
// timestamps, then persists the page.
func (s *PageStore) Create(ctx context.Context, in PageInput) (*models.Page, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateBody(in.Body); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.PageStatusDraft
	}
	if !status.Valid() {
		return nil, validationf("status", "unknown page status %q", status)
	}

	now := time.Now().UTC()
	p := models.Page{
		ID:              newID("page"),
		Title:           strings.TrimSpace(in.Title),
		Body:            in.Body,
		Status:          status,
		ParentID:        in.ParentID,
		AuthorID:        in.AuthorID,
		Template:        in.Template,
		ShowInNav:       in.ShowInNav,
		MetaDescription: in.MetaDescription,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	p.Slug = s.assignSlug(ctx, slug.Generate(p.Title), p.ID)

	if p.Status == models.PageStatusPublished {
		p.PublishedAt = &now
	}

	if err := s.kv.Set(ctx, pagesCollection, p.ID, &p); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return &p, nil
}

// Update merges the patch into the stored page and refreshes UpdatedAt.
func (s *PageStore) Update(ctx context.Context, id string, patch PagePatch) (*models.Page, error) {
	p, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound("page", id)
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) != p.Title {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
		p.Title = strings.TrimSpace(*patch.Title)
		p.Slug = s.assignSlug(ctx, slug.Generate(p.Title), p.ID)
	}
	if patch.Body != nil {
		if err := validateBody(*patch.Body); err != nil {
			return nil, err
		}
		p.Body = *patch.Body
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, validationf("status", "unknown page status %q", *patch.Status)
		}
		p.Status = *patch.Status
	}
	if patch.ParentID != nil {
		if *patch.ParentID == p.ID {
			return nil, validationf("parent_id", "a page cannot be its own parent")
		}
		p.ParentID = *patch.ParentID
	}
	if patch.Template != nil {
		p.Template = *patch.Template
	}
	if patch.ShowInNav != nil {
		p.ShowInNav = *patch.ShowInNav
	}
	if patch.MetaDescription != nil {
		p.MetaDescription = *patch.MetaDescription
	}

	if p.Status == models.PageStatusPublished && p.PublishedAt == nil {
		now := time.Now().UTC()
		p.PublishedAt = &now
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.kv.Set(ctx, pagesCollection, p.ID, p); err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}
	return p, nil
}

// Delete removes a page. A page with children cannot be deleted; the
// guard counts children first and leaves the store unchanged on failure.
func (s *PageStore) Delete(ctx context.Context, id string) error {
	p, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return notFound("page", id)
	}

	children, err := s.childCount(ctx, id)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	if children > 0 {
		return integrityf("page", "cannot delete page with %d child page(s)", children)
	}

	if err := s.kv.Remove(ctx, pagesCollection, id); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	return nil
}

// Find retrieves a page by id. Returns nil if not found.
func (s *PageStore) Find(ctx context.Context, id string) (*models.Page, error) {
	return getOne[models.Page](ctx, s.kv, pagesCollection, id)
}

// List loads the full collection, applies the typed filters, sorts,
// paginates, and enriches the resulting page window with authors and
// parents.
func (s *PageStore) List(ctx context.Context, f models.PageFilters, page, limit int) (query.Result[models.EnrichedPage], error) {
	pages, err := getAll[models.Page](ctx, s.kv, pagesCollection)
	if err != nil {
		return query.Result[models.EnrichedPage]{}, fmt.Errorf("list pages: %w", err)
	}

	var filters []func(models.Page) bool
	if f.Search != "" {
		filters = append(filters, func(p models.Page) bool { return query.Contains(p.Title, f.Search) })
	}
	if f.Status != "" {
		filters = append(filters, func(p models.Page) bool { return p.Status == f.Status })
	}
	if f.ParentID != "" {
		filters = append(filters, func(p models.Page) bool { return p.ParentID == f.ParentID })
	}

	result := query.Run(pages, query.Options[models.Page]{
		Filters: filters,
		Less:    pageLess(f.SortBy),
		Order:   query.ParseOrder(f.SortOrder),
		Page:    page,
		Limit:   limit,
	})

	enriched := query.Result[models.EnrichedPage]{Pagination: result.Pagination}
	enriched.Items = make([]models.EnrichedPage, 0, len(result.Items))
	for _, p := range result.Items {
		item := models.EnrichedPage{Page: p}
		if item.Author, err = lookup[models.User](ctx, s.kv, usersCollection, p.AuthorID); err != nil {
			return enriched, fmt.Errorf("enrich page author: %w", err)
		}
		if item.Parent, err = lookup[models.Page](ctx, s.kv, pagesCollection, p.ParentID); err != nil {
			return enriched, fmt.Errorf("enrich page parent: %w", err)
		}
		enriched.Items = append(enriched.Items, item)
	}
	return enriched, nil
}

func pageLess(sortBy string) func(a, b models.Page) bool {
	switch sortBy {
	case "title":
		return func(a, b models.Page) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case "status":
		return func(a, b models.Page) bool { return a.Status < b.Status }
	case "updated_at":
		return func(a, b models.Page) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	default:
		return func(a, b models.Page) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

// Count returns the number of pages.
func (s *PageStore) Count(ctx context.Context) (int, error) {
	return s.kv.Count(ctx, pagesCollection)
}

// BulkDelete removes each id independently and reports per-id outcomes.
// Pages with children fail their own entry and leave the rest untouched.
func (s *PageStore) BulkDelete(ctx context.Context, ids []string) []BulkResult {
	return bulkApply(ctx, ids, s.Delete)
}

// childCount counts pages whose ParentID is the given id.
func (s *PageStore) childCount(ctx context.Context, id string) (int, error) {
	pages, err := getAll[models.Page](ctx, s.kv, pagesCollection)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, p := range pages {
		if p.ParentID == id {
			count++
		}
	}
	return count, nil
}

// assignSlug derives a unique slug within the pages collection.
func (s *PageStore) assignSlug(ctx context.Context, base, selfID string) string {
	return uniqueSlug(ctx, s.kv, pagesCollection, base, selfID, func(p models.Page) (string, string) {
		return p.ID, p.Slug
	})
}
