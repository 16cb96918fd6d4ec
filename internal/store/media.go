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
)

// MediaStore manages media item metadata in the media collection.
type MediaStore struct {
	kv *kvstore.Store
}

// NewMediaStore creates a new MediaStore with the given key-value store.
func NewMediaStore(kv *kvstore.Store) *MediaStore {
	return &MediaStore{kv: kv}
}

// MediaInput carries the fields accepted when registering a media item.
type MediaInput struct {
	Filename     string
	OriginalName string
	ContentType  string
	SizeBytes    int64
	URL          string
	AltText      string
	Caption      string
	FolderID     string
	UploaderID   string
}

// MediaPatch carries a partial update. Nil fields are left untouched.
type MediaPatch struct {
	AltText  *string
	Caption  *string
	FolderID *string
}

// Create validates the input, assigns an id and timestamps, then
// persists the media item.
func (s *MediaStore) Create(ctx context.Context, in MediaInput) (*models.MediaItem, error) {
	if strings.TrimSpace(in.Filename) == "" {
		return nil, validationf("filename", "filename is required")
	}
	if in.ContentType == "" {
		return nil, validationf("content_type", "content type is required")
	}
	if in.SizeBytes < 0 {
		return nil, validationf("size_bytes", "size must not be negative")
	}

	now := time.Now().UTC()
	m := models.MediaItem{
		ID:           newID("media"),
		Filename:     strings.TrimSpace(in.Filename),
		OriginalName: in.OriginalName,
		ContentType:  in.ContentType,
		SizeBytes:    in.SizeBytes,
		URL:          in.URL,
		AltText:      in.AltText,
		Caption:      in.Caption,
		FolderID:     in.FolderID,
		UploaderID:   in.UploaderID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.kv.Set(ctx, mediaCollection, m.ID, &m); err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return &m, nil
}

// Update merges the patch into the stored item and refreshes UpdatedAt.
func (s *MediaStore) Update(ctx context.Context, id string, patch MediaPatch) (*models.MediaItem, error) {
	m, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, notFound("media", id)
	}

	if patch.AltText != nil {
		m.AltText = *patch.AltText
	}
	if patch.Caption != nil {
		m.Caption = *patch.Caption
	}
	if patch.FolderID != nil {
		m.FolderID = *patch.FolderID
	}

	m.UpdatedAt = time.Now().UTC()
	if err := s.kv.Set(ctx, mediaCollection, m.ID, m); err != nil {
		return nil, fmt.Errorf("update media: %w", err)
	}
	return m, nil
}

// Delete removes a media item's metadata. Content referencing it keeps a
// dangling id that resolves to nil at read time.
func (s *MediaStore) Delete(ctx context.Context, id string) error {
	m, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return notFound("media", id)
	}
	if err := s.kv.Remove(ctx, mediaCollection, id); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}

// Find retrieves a media item by id. Returns nil if not found.
func (s *MediaStore) Find(ctx context.Context, id string) (*models.MediaItem, error) {
	return getOne[models.MediaItem](ctx, s.kv, mediaCollection, id)
}

// List loads the full collection, applies the typed filters, sorts,
// paginates, and enriches each item with its folder and uploader.
func (s *MediaStore) List(ctx context.Context, f models.MediaFilters, page, limit int) (query.Result[models.EnrichedMediaItem], error) {
	items, err := getAll[models.MediaItem](ctx, s.kv, mediaCollection)
	if err != nil {
		return query.Result[models.EnrichedMediaItem]{}, fmt.Errorf("list media: %w", err)
	}

	var filters []func(models.MediaItem) bool
	if f.Search != "" {
		filters = append(filters, func(m models.MediaItem) bool {
			return query.Contains(m.Filename, f.Search) ||
				query.Contains(m.OriginalName, f.Search) ||
				query.Contains(m.AltText, f.Search)
		})
	}
	if f.Type != "" {
		filters = append(filters, func(m models.MediaItem) bool {
			return strings.HasPrefix(m.ContentType, f.Type)
		})
	}
	if f.FolderID != "" {
		filters = append(filters, func(m models.MediaItem) bool { return m.FolderID == f.FolderID })
	}

	result := query.Run(items, query.Options[models.MediaItem]{
		Filters: filters,
		Less:    mediaLess(f.SortBy),
		Order:   query.ParseOrder(f.SortOrder),
		Page:    page,
		Limit:   limit,
	})

	enriched := query.Result[models.EnrichedMediaItem]{Pagination: result.Pagination}
	enriched.Items = make([]models.EnrichedMediaItem, 0, len(result.Items))
	for _, m := range result.Items {
		item := models.EnrichedMediaItem{MediaItem: m}
		if item.Folder, err = lookup[models.MediaFolder](ctx, s.kv, mediaFoldersCollection, m.FolderID); err != nil {
			return enriched, fmt.Errorf("enrich media folder: %w", err)
		}
		if item.Uploader, err = lookup[models.User](ctx, s.kv, usersCollection, m.UploaderID); err != nil {
			return enriched, fmt.Errorf("enrich media uploader: %w", err)
		}
		enriched.Items = append(enriched.Items, item)
	}
	return enriched, nil
}

func mediaLess(sortBy string) func(a, b models.MediaItem) bool {
	switch sortBy {
	case "filename":
		return func(a, b models.MediaItem) bool {
			return strings.ToLower(a.Filename) < strings.ToLower(b.Filename)
		}
	case "size_bytes":
		return func(a, b models.MediaItem) bool { return a.SizeBytes < b.SizeBytes }
	case "updated_at":
		return func(a, b models.MediaItem) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	default:
		return func(a, b models.MediaItem) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

// Count returns the number of media items.
func (s *MediaStore) Count(ctx context.Context) (int, error) {
	return s.kv.Count(ctx, mediaCollection)
}

// BulkDelete removes each id independently and reports per-id outcomes.
func (s *MediaStore) BulkDelete(ctx context.Context, ids []string) []BulkResult {
	return bulkApply(ctx, ids, s.Delete)
}

// BulkMove re-parents each item into the target folder independently and
// reports per-id outcomes.
func (s *MediaStore) BulkMove(ctx context.Context, ids []string, folderID string) []BulkResult {
	return bulkApply(ctx, ids, func(ctx context.Context, id string) error {
		_, err := s.Update(ctx, id, MediaPatch{FolderID: &folderID})
		return err
	})
}
