// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/msnandhis/vibepress-sub000/internal/models"
)

func TestTagCreateSlugCollision(t *testing.T) {
	s := NewTagStore(testKV(t))
	ctx := context.Background()

	first, err := s.Create(ctx, "Go")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, _ := s.Create(ctx, "GO")

	if first.Slug != "go" || second.Slug != "go-2" {
		t.Errorf("slugs = %q, %q", first.Slug, second.Slug)
	}
}

func TestTagCreateValidation(t *testing.T) {
	s := NewTagStore(testKV(t))
	if _, err := s.Create(context.Background(), "  "); !IsValidation(err) {
		t.Errorf("got %v, want validation error", err)
	}
}

func TestTagListPostCounts(t *testing.T) {
	kv := testKV(t)
	tags := NewTagStore(kv)
	posts := NewPostStore(kv)
	ctx := context.Background()

	a, _ := tags.Create(ctx, "alpha")
	b, _ := tags.Create(ctx, "beta")
	posts.Create(ctx, PostInput{Title: "One", TagIDs: []string{a.ID, b.ID}})
	posts.Create(ctx, PostInput{Title: "Two", TagIDs: []string{a.ID}})

	result, err := tags.List(ctx, models.TaxonomyFilters{SortBy: "post_count", SortOrder: "desc"}, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Items[0].ID != a.ID || result.Items[0].PostCount != 2 {
		t.Errorf("first tag: %+v", result.Items[0])
	}
	if result.Items[1].PostCount != 1 {
		t.Errorf("second tag: %+v", result.Items[1])
	}
}

func TestTagBulkDeletePerID(t *testing.T) {
	s := NewTagStore(testKV(t))
	ctx := context.Background()

	a, _ := s.Create(ctx, "keep-not")
	results := s.BulkDelete(ctx, []string{a.ID, "tag_ghost"})

	if !results[0].Ok() {
		t.Errorf("existing id failed: %v", results[0].Err)
	}
	if !IsNotFound(results[1].Err) {
		t.Errorf("missing id: got %v, want not-found", results[1].Err)
	}
}
