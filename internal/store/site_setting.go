// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/msnandhis/vibepress-sub000/internal/kvstore"
	"github.com/msnandhis/vibepress-sub000/internal/models"
)

// SiteSettingStore manages the singleton site settings row, with an
// optional Valkey read-through cache in front of the durable store.
type SiteSettingStore struct {
	kv    *kvstore.Store
	cache *kvstore.BlobCache
}

// NewSiteSettingStore returns a new SiteSettingStore. cache may be nil.
func NewSiteSettingStore(kv *kvstore.Store, cache *kvstore.BlobCache) *SiteSettingStore {
	return &SiteSettingStore{kv: kv, cache: cache}
}

// SettingsPatch carries a partial settings update. Nil fields are left
// untouched.
type SettingsPatch struct {
	SiteTitle    *string
	Tagline      *string
	BaseURL      *string
	Language     *string
	Timezone     *string
	PostsPerPage *int
	AllowSignups *bool
}

// Get returns the current settings, from cache when possible, falling
// back to defaults if nothing has been saved yet.
func (s *SiteSettingStore) Get(ctx context.Context) (models.SiteSettings, error) {
	var cached models.SiteSettings
	if s.cache.Get(ctx, models.SiteSettingsKey, &cached) {
		return cached, nil
	}

	stored, err := getOne[models.SiteSettings](ctx, s.kv, settingsCollection, models.SiteSettingsKey)
	if err != nil {
		return models.SiteSettings{}, fmt.Errorf("get settings: %w", err)
	}
	if stored == nil {
		return models.DefaultSiteSettings(), nil
	}

	s.cache.Set(ctx, models.SiteSettingsKey, stored)
	return *stored, nil
}

// Update merges the patch into the stored settings, restamps the version
// and UpdatedAt, persists, and invalidates the cache.
func (s *SiteSettingStore) Update(ctx context.Context, patch SettingsPatch) (models.SiteSettings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return models.SiteSettings{}, err
	}

	if patch.SiteTitle != nil {
		if *patch.SiteTitle == "" {
			return models.SiteSettings{}, validationf("site_title", "site title is required")
		}
		current.SiteTitle = *patch.SiteTitle
	}
	if patch.Tagline != nil {
		current.Tagline = *patch.Tagline
	}
	if patch.BaseURL != nil {
		current.BaseURL = *patch.BaseURL
	}
	if patch.Language != nil {
		current.Language = *patch.Language
	}
	if patch.Timezone != nil {
		current.Timezone = *patch.Timezone
	}
	if patch.PostsPerPage != nil {
		if *patch.PostsPerPage < 1 {
			return models.SiteSettings{}, validationf("posts_per_page", "posts per page must be positive")
		}
		current.PostsPerPage = *patch.PostsPerPage
	}
	if patch.AllowSignups != nil {
		current.AllowSignups = *patch.AllowSignups
	}

	current.Version = models.SiteSettingsVersion
	current.UpdatedAt = time.Now().UTC()

	if err := s.kv.Set(ctx, settingsCollection, models.SiteSettingsKey, &current); err != nil {
		return models.SiteSettings{}, fmt.Errorf("update settings: %w", err)
	}
	s.cache.Invalidate(ctx, models.SiteSettingsKey)

	return current, nil
}
