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

// PostStore handles all post operations over the posts collection.
type PostStore struct {
	kv *kvstore.Store
}

// NewPostStore creates a new PostStore with the given key-value store.
func NewPostStore(kv *kvstore.Store) *PostStore {
	return &PostStore{kv: kv}
}

// PostInput carries the fields accepted when creating a post.
type PostInput struct {
	Title           string
	Body            string
	Excerpt         string
	Status          models.PostStatus
	AuthorID        string
	CategoryID      string
	FeaturedMediaID string
	TagIDs          []string
	MetaDescription string
	PublishedAt     *time.Time
}

// PostPatch carries a partial update. Nil fields are left untouched.
type PostPatch struct {
	Title           *string
	Body            *string
	Excerpt         *string
	Status          *models.PostStatus
	AuthorID        *string
	CategoryID      *string
	FeaturedMediaID *string
	TagIDs          *[]string
	MetaDescription *string
	PublishedAt     *time.Time
}

// Create validates the input, assigns an id, a unique slug, and
// timestamps, then persists the post.
func (s *PostStore) Create(ctx context.Context, in PostInput) (*models.Post, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateBody(in.Body); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if !status.Valid() {
		return nil, validationf("status", "unknown post status %q", status)
	}

	now := time.Now().UTC()
	p := models.Post{
		ID:              newID("post"),
		Title:           strings.TrimSpace(in.Title),
		Body:            in.Body,
		Excerpt:         in.Excerpt,
		Status:          status,
		AuthorID:        in.AuthorID,
		CategoryID:      in.CategoryID,
		FeaturedMediaID: in.FeaturedMediaID,
		TagIDs:          in.TagIDs,
		MetaDescription: in.MetaDescription,
		PublishedAt:     in.PublishedAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	p.Slug = s.assignSlug(ctx, slug.Generate(p.Title), p.ID)

	// If publishing, set the published_at timestamp.
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		p.PublishedAt = &now
	}

	if err := s.kv.Set(ctx, postsCollection, p.ID, &p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &p, nil
}

// Update merges the patch into the stored post and refreshes UpdatedAt.
// An empty patch touches only UpdatedAt. A title change re-derives the
// slug, keeping it unique while excluding the post's own id.
func (s *PostStore) Update(ctx context.Context, id string, patch PostPatch) (*models.Post, error) {
	p, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound("post", id)
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
	if patch.Excerpt != nil {
		p.Excerpt = *patch.Excerpt
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, validationf("status", "unknown post status %q", *patch.Status)
		}
		p.Status = *patch.Status
	}
	if patch.AuthorID != nil {
		p.AuthorID = *patch.AuthorID
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	if patch.FeaturedMediaID != nil {
		p.FeaturedMediaID = *patch.FeaturedMediaID
	}
	if patch.TagIDs != nil {
		p.TagIDs = *patch.TagIDs
	}
	if patch.MetaDescription != nil {
		p.MetaDescription = *patch.MetaDescription
	}
	if patch.PublishedAt != nil {
		p.PublishedAt = patch.PublishedAt
	}

	// Transitioning to published without a publish date sets it now.
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now().UTC()
		p.PublishedAt = &now
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.kv.Set(ctx, postsCollection, p.ID, p); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

// Delete removes a post. Removal is immediate and permanent.
func (s *PostStore) Delete(ctx context.Context, id string) error {
	p, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return notFound("post", id)
	}
	if err := s.kv.Remove(ctx, postsCollection, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// Find retrieves a post by id. Returns nil if not found.
func (s *PostStore) Find(ctx context.Context, id string) (*models.Post, error) {
	return getOne[models.Post](ctx, s.kv, postsCollection, id)
}

// FindBySlug retrieves a post by slug. Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, sl string) (*models.Post, error) {
	posts, err := getAll[models.Post](ctx, s.kv, postsCollection)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].Slug == sl {
			return &posts[i], nil
		}
	}
	return nil, nil
}

// List loads the full collection, applies the typed filters, sorts,
// paginates, and enriches the resulting page with its authors,
// categories, featured media, and tags. Dangling references come back nil.
func (s *PostStore) List(ctx context.Context, f models.PostFilters, page, limit int) (query.Result[models.EnrichedPost], error) {
	posts, err := getAll[models.Post](ctx, s.kv, postsCollection)
	if err != nil {
		return query.Result[models.EnrichedPost]{}, fmt.Errorf("list posts: %w", err)
	}

	var filters []func(models.Post) bool
	if f.Search != "" {
		filters = append(filters, func(p models.Post) bool {
			return query.Contains(p.Title, f.Search) || query.Contains(p.Excerpt, f.Search)
		})
	}
	if f.Status != "" {
		filters = append(filters, func(p models.Post) bool { return p.Status == f.Status })
	}
	if f.AuthorID != "" {
		filters = append(filters, func(p models.Post) bool { return p.AuthorID == f.AuthorID })
	}
	if f.CategoryID != "" {
		filters = append(filters, func(p models.Post) bool { return p.CategoryID == f.CategoryID })
	}
	if len(f.TagIDs) > 0 {
		filters = append(filters, func(p models.Post) bool { return query.Intersects(p.TagIDs, f.TagIDs) })
	}
	if f.CreatedAfter != nil || f.CreatedBefore != nil {
		filters = append(filters, func(p models.Post) bool {
			return query.WithinRange(p.CreatedAt, f.CreatedAfter, f.CreatedBefore)
		})
	}

	result := query.Run(posts, query.Options[models.Post]{
		Filters: filters,
		Less:    postLess(f.SortBy),
		Order:   query.ParseOrder(f.SortOrder),
		Page:    page,
		Limit:   limit,
	})

	return s.enrich(ctx, result)
}

// postLess returns the ascending comparator for the given sort key.
// Unknown keys fall back to creation date.
func postLess(sortBy string) func(a, b models.Post) bool {
	switch sortBy {
	case "title":
		return func(a, b models.Post) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case "status":
		return func(a, b models.Post) bool { return a.Status < b.Status }
	case "updated_at":
		return func(a, b models.Post) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case "published_at":
		return func(a, b models.Post) bool { return query.CompareTimes(a.PublishedAt, b.PublishedAt) }
	default:
		return func(a, b models.Post) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

// enrich resolves foreign keys for each post on the page. Running after
// pagination keeps the lookup cost bounded by page size.
func (s *PostStore) enrich(ctx context.Context, r query.Result[models.Post]) (query.Result[models.EnrichedPost], error) {
	enriched := query.Result[models.EnrichedPost]{Pagination: r.Pagination}
	enriched.Items = make([]models.EnrichedPost, 0, len(r.Items))

	for _, p := range r.Items {
		item := models.EnrichedPost{Post: p}

		var err error
		if item.Author, err = lookup[models.User](ctx, s.kv, usersCollection, p.AuthorID); err != nil {
			return enriched, fmt.Errorf("enrich post author: %w", err)
		}
		if item.Category, err = lookup[models.Category](ctx, s.kv, categoriesCollection, p.CategoryID); err != nil {
			return enriched, fmt.Errorf("enrich post category: %w", err)
		}
		if item.FeaturedMedia, err = lookup[models.MediaItem](ctx, s.kv, mediaCollection, p.FeaturedMediaID); err != nil {
			return enriched, fmt.Errorf("enrich post media: %w", err)
		}
		for _, tagID := range p.TagIDs {
			tag, err := lookup[models.Tag](ctx, s.kv, tagsCollection, tagID)
			if err != nil {
				return enriched, fmt.Errorf("enrich post tags: %w", err)
			}
			if tag != nil {
				item.Tags = append(item.Tags, *tag)
			}
		}

		enriched.Items = append(enriched.Items, item)
	}
	return enriched, nil
}

// Count returns the number of posts.
func (s *PostStore) Count(ctx context.Context) (int, error) {
	return s.kv.Count(ctx, postsCollection)
}

// BulkDelete removes each id independently and reports per-id outcomes.
func (s *PostStore) BulkDelete(ctx context.Context, ids []string) []BulkResult {
	return bulkApply(ctx, ids, s.Delete)
}

// BulkSetStatus applies one status to each id independently and reports
// per-id outcomes.
func (s *PostStore) BulkSetStatus(ctx context.Context, ids []string, status models.PostStatus) []BulkResult {
	return bulkApply(ctx, ids, func(ctx context.Context, id string) error {
		_, err := s.Update(ctx, id, PostPatch{Status: &status})
		return err
	})
}

// assignSlug derives a unique slug within the posts collection.
func (s *PostStore) assignSlug(ctx context.Context, base, selfID string) string {
	return uniqueSlug(ctx, s.kv, postsCollection, base, selfID, func(p models.Post) (string, string) {
		return p.ID, p.Slug
	})
}
