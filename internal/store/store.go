// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides the typed entity services. Each store struct
// wraps the injected key-value store and implements validation, slug
// assignment, the filter/sort/paginate query pipeline, enrichment of
// foreign keys, and integrity guards for its entity type.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/msnandhis/vibepress-sub000/internal/kvstore"
	"github.com/msnandhis/vibepress-sub000/internal/slug"
)

// Collection names. Each is an independent logical table in the
// key-value store, keyed by entity id.
const (
	postsCollection        = "posts"
	pagesCollection        = "pages"
	mediaCollection        = "media"
	mediaFoldersCollection = "media_folders"
	categoriesCollection   = "categories"
	tagsCollection         = "tags"
	usersCollection        = "users"
	rolesCollection        = "roles"
	sessionsCollection     = "user_sessions"
	invitesCollection      = "user_invites"
	settingsCollection     = "settings"
)

// newID assigns an entity id of the form <type>_<ulid>. The ULID embeds
// the creation timestamp plus randomness, so ids sort by creation order.
func newID(prefix string) string {
	return prefix + "_" + ulid.Make().String()
}

// ulidPart returns the ULID portion of an entity id. Used as the slug
// fallback suffix when the uniqueness check cannot consult storage.
func ulidPart(id string) string {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		return id[i+1:]
	}
	return id
}

// getAll loads and decodes every document in a collection.
func getAll[T any](ctx context.Context, kv *kvstore.Store, collection string) ([]T, error) {
	raws, err := kv.GetAll(ctx, collection)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(raws))
	for _, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", collection, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// getOne loads and decodes a single document. Returns nil if absent.
func getOne[T any](ctx context.Context, kv *kvstore.Store, collection, id string) (*T, error) {
	if id == "" {
		return nil, nil
	}
	raw, err := kv.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return &item, nil
}

// lookup resolves a foreign key to its referent for enrichment. A missing
// or empty id resolves to nil, never an error; only storage failures
// propagate.
func lookup[T any](ctx context.Context, kv *kvstore.Store, collection, id string) (*T, error) {
	return getOne[T](ctx, kv, collection, id)
}

// uniqueSlug loads the collection's live slugs (excluding selfID when
// renaming) and returns the first free variant of base, suffixing -2, -3,
// ... on collision. If the collection cannot be loaded, the entity's own
// ULID is appended instead so the slug stays unique.
func uniqueSlug[T any](ctx context.Context, kv *kvstore.Store, collection, base, selfID string, keys func(T) (id, sl string)) string {
	items, err := getAll[T](ctx, kv, collection)
	if err != nil {
		return slug.Unique(base, ulidPart(selfID), func(string) (bool, error) { return false, err })
	}
	existing := make(map[string]bool, len(items))
	for _, it := range items {
		id, sl := keys(it)
		if id != selfID {
			existing[sl] = true
		}
	}
	return slug.Unique(base, ulidPart(selfID), func(candidate string) (bool, error) {
		return existing[candidate], nil
	})
}
