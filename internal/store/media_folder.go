// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/msnandhis/vibepress-sub000/internal/kvstore"
	"github.com/msnandhis/vibepress-sub000/internal/models"
	"github.com/msnandhis/vibepress-sub000/internal/slug"
)

// MediaFolderStore manages the media folder tree.
type MediaFolderStore struct {
	kv *kvstore.Store
}

// NewMediaFolderStore returns a new MediaFolderStore.
func NewMediaFolderStore(kv *kvstore.Store) *MediaFolderStore {
	return &MediaFolderStore{kv: kv}
}

// FolderPatch carries a partial update. Nil fields are left untouched.
type FolderPatch struct {
	Name     *string
	ParentID *string
}

// Create validates the name, assigns an id, a unique slug, and
// timestamps, then persists the folder.
func (s *MediaFolderStore) Create(ctx context.Context, name, parentID string) (*models.MediaFolder, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	f := models.MediaFolder{
		ID:        newID("folder"),
		Name:      strings.TrimSpace(name),
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.Slug = s.assignSlug(ctx, slug.Generate(f.Name), f.ID)

	if err := s.kv.Set(ctx, mediaFoldersCollection, f.ID, &f); err != nil {
		return nil, fmt.Errorf("create media folder: %w", err)
	}
	return &f, nil
}

// Update merges the patch into the stored folder and refreshes UpdatedAt.
func (s *MediaFolderStore) Update(ctx context.Context, id string, patch FolderPatch) (*models.MediaFolder, error) {
	f, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, notFound("media folder", id)
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) != f.Name {
		if err := validateName(*patch.Name); err != nil {
			return nil, err
		}
		f.Name = strings.TrimSpace(*patch.Name)
		f.Slug = s.assignSlug(ctx, slug.Generate(f.Name), f.ID)
	}
	if patch.ParentID != nil {
		if *patch.ParentID == f.ID {
			return nil, validationf("parent_id", "a folder cannot be its own parent")
		}
		f.ParentID = *patch.ParentID
	}

	f.UpdatedAt = time.Now().UTC()
	if err := s.kv.Set(ctx, mediaFoldersCollection, f.ID, f); err != nil {
		return nil, fmt.Errorf("update media folder: %w", err)
	}
	return f, nil
}

// Delete removes a folder. A folder containing items or child folders
// cannot be deleted; the guards count dependents first and leave the
// store unchanged on failure.
func (s *MediaFolderStore) Delete(ctx context.Context, id string) error {
	f, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if f == nil {
		return notFound("media folder", id)
	}

	folders, err := getAll[models.MediaFolder](ctx, s.kv, mediaFoldersCollection)
	if err != nil {
		return fmt.Errorf("delete media folder: %w", err)
	}
	for _, other := range folders {
		if other.ParentID == id {
			return integrityf("media folder", "cannot delete folder with child folders")
		}
	}

	items, err := getAll[models.MediaItem](ctx, s.kv, mediaCollection)
	if err != nil {
		return fmt.Errorf("delete media folder: %w", err)
	}
	count := 0
	for _, m := range items {
		if m.FolderID == id {
			count++
		}
	}
	if count > 0 {
		return integrityf("media folder", "cannot delete folder containing %d item(s)", count)
	}

	if err := s.kv.Remove(ctx, mediaFoldersCollection, id); err != nil {
		return fmt.Errorf("delete media folder: %w", err)
	}
	return nil
}

// Find retrieves a folder by id. Returns nil if not found.
func (s *MediaFolderStore) Find(ctx context.Context, id string) (*models.MediaFolder, error) {
	return getOne[models.MediaFolder](ctx, s.kv, mediaFoldersCollection, id)
}

// List returns every folder ordered by name.
func (s *MediaFolderStore) List(ctx context.Context) ([]models.MediaFolder, error) {
	folders, err := getAll[models.MediaFolder](ctx, s.kv, mediaFoldersCollection)
	if err != nil {
		return nil, fmt.Errorf("list media folders: %w", err)
	}
	sort.Slice(folders, func(i, j int) bool {
		return strings.ToLower(folders[i].Name) < strings.ToLower(folders[j].Name)
	})
	return folders, nil
}

// assignSlug derives a unique slug within the media folders collection.
func (s *MediaFolderStore) assignSlug(ctx context.Context, base, selfID string) string {
	return uniqueSlug(ctx, s.kv, mediaFoldersCollection, base, selfID, func(f models.MediaFolder) (string, string) {
		return f.ID, f.Slug
	})
}
