// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/msnandhis/vibepress-sub000/internal/models"
)

func TestMediaCreateValidation(t *testing.T) {
	s := NewMediaStore(testKV(t))
	ctx := context.Background()

	if _, err := s.Create(ctx, MediaInput{ContentType: "image/png"}); !IsValidation(err) {
		t.Errorf("missing filename: got %v", err)
	}
	if _, err := s.Create(ctx, MediaInput{Filename: "a.png"}); !IsValidation(err) {
		t.Errorf("missing content type: got %v", err)
	}
	if _, err := s.Create(ctx, MediaInput{Filename: "a.png", ContentType: "image/png", SizeBytes: -1}); !IsValidation(err) {
		t.Errorf("negative size: got %v", err)
	}

	m, err := s.Create(ctx, MediaInput{Filename: "a.png", ContentType: "image/png", SizeBytes: 1024})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !m.IsImage() {
		t.Error("image/png must report as image")
	}
}

func TestMediaListTypePrefixFilter(t *testing.T) {
	s := NewMediaStore(testKV(t))
	ctx := context.Background()

	s.Create(ctx, MediaInput{Filename: "a.png", ContentType: "image/png"})
	s.Create(ctx, MediaInput{Filename: "b.jpg", ContentType: "image/jpeg"})
	s.Create(ctx, MediaInput{Filename: "c.pdf", ContentType: "application/pdf"})

	result, err := s.List(ctx, models.MediaFilters{Type: "image"}, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Pagination.Total != 2 {
		t.Errorf("image filter total = %d, want 2", result.Pagination.Total)
	}
}

func TestMediaListFolderEnrichment(t *testing.T) {
	kv := testKV(t)
	media := NewMediaStore(kv)
	folders := NewMediaFolderStore(kv)
	ctx := context.Background()

	folder, _ := folders.Create(ctx, "Screenshots", "")
	media.Create(ctx, MediaInput{Filename: "shot.png", ContentType: "image/png", FolderID: folder.ID})
	media.Create(ctx, MediaInput{Filename: "loose.png", ContentType: "image/png"})

	result, err := media.List(ctx, models.MediaFilters{FolderID: folder.ID}, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(result.Items))
	}
	if result.Items[0].Folder == nil || result.Items[0].Folder.Name != "Screenshots" {
		t.Error("folder not enriched")
	}
}

func TestMediaBulkMove(t *testing.T) {
	kv := testKV(t)
	media := NewMediaStore(kv)
	folders := NewMediaFolderStore(kv)
	ctx := context.Background()

	folder, _ := folders.Create(ctx, "Target", "")
	a, _ := media.Create(ctx, MediaInput{Filename: "a.png", ContentType: "image/png"})
	b, _ := media.Create(ctx, MediaInput{Filename: "b.png", ContentType: "image/png"})

	results := media.BulkMove(ctx, []string{a.ID, "media_ghost", b.ID}, folder.ID)
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if !results[0].Ok() || !results[2].Ok() {
		t.Error("existing items must move")
	}
	if !IsNotFound(results[1].Err) {
		t.Errorf("ghost id: got %v", results[1].Err)
	}

	moved, _ := media.Find(ctx, a.ID)
	if moved.FolderID != folder.ID {
		t.Errorf("folder id = %q", moved.FolderID)
	}
}

func TestFolderDeleteGuards(t *testing.T) {
	kv := testKV(t)
	media := NewMediaStore(kv)
	folders := NewMediaFolderStore(kv)
	ctx := context.Background()

	parent, _ := folders.Create(ctx, "Parent", "")
	child, _ := folders.Create(ctx, "Child", parent.ID)

	// Child folders block deletion.
	if err := folders.Delete(ctx, parent.ID); !IsIntegrity(err) {
		t.Errorf("child folder guard: got %v", err)
	}

	// Contained items block deletion too.
	item, _ := media.Create(ctx, MediaInput{Filename: "x.png", ContentType: "image/png", FolderID: child.ID})
	if err := folders.Delete(ctx, child.ID); !IsIntegrity(err) {
		t.Errorf("contained item guard: got %v", err)
	}

	// Empty the folder, then deletion succeeds bottom-up.
	if err := media.Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if err := folders.Delete(ctx, child.ID); err != nil {
		t.Fatalf("delete child: %v", err)
	}
	if err := folders.Delete(ctx, parent.ID); err != nil {
		t.Fatalf("delete parent: %v", err)
	}
}

func TestFolderSelfParentRejected(t *testing.T) {
	s := NewMediaFolderStore(testKV(t))
	ctx := context.Background()

	f, _ := s.Create(ctx, "Loop", "")
	if _, err := s.Update(ctx, f.ID, FolderPatch{ParentID: &f.ID}); !IsValidation(err) {
		t.Errorf("got %v, want validation error", err)
	}
}

func TestFolderListSortedByName(t *testing.T) {
	s := NewMediaFolderStore(testKV(t))
	ctx := context.Background()

	s.Create(ctx, "zebra", "")
	s.Create(ctx, "Apple", "")
	s.Create(ctx, "mango", "")

	folders, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Apple", "mango", "zebra"}
	for i, f := range folders {
		if f.Name != want[i] {
			t.Fatalf("position %d: %q, want %q", i, f.Name, want[i])
		}
	}
}
