// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package kvstore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testStore opens a throwaway SQLite database with the kv_entries schema.
func testStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "kvstore_test.db")
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE kv_entries (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			data       TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (collection, id)
		)
	`)
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return New(db)
}

type testDoc struct {
	Name string `json:"name"`
}

func TestSetGetRoundTrip(t *testing.T) {
	kv := testStore(t)
	ctx := context.Background()

	if err := kv.Set(ctx, "things", "thing_1", testDoc{Name: "first"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	raw, err := kv.Get(ctx, "things", "thing_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if raw == nil {
		t.Fatal("expected a document, got nil")
	}
	if string(raw) != `{"name":"first"}` {
		t.Errorf("unexpected document: %s", raw)
	}
}

func TestGetAbsentReturnsNil(t *testing.T) {
	kv := testStore(t)

	raw, err := kv.Get(context.Background(), "things", "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if raw != nil {
		t.Errorf("expected nil for absent id, got %s", raw)
	}
}

func TestSetUpserts(t *testing.T) {
	kv := testStore(t)
	ctx := context.Background()

	if err := kv.Set(ctx, "things", "thing_1", testDoc{Name: "old"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "things", "thing_1", testDoc{Name: "new"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	raw, _ := kv.Get(ctx, "things", "thing_1")
	if string(raw) != `{"name":"new"}` {
		t.Errorf("expected last write to win, got %s", raw)
	}
	count, _ := kv.Count(ctx, "things")
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestGetAllOrderedByID(t *testing.T) {
	kv := testStore(t)
	ctx := context.Background()

	// Inserted out of order; GetAll returns id order.
	for _, id := range []string{"thing_c", "thing_a", "thing_b"} {
		if err := kv.Set(ctx, "things", id, testDoc{Name: id}); err != nil {
			t.Fatalf("set %s: %v", id, err)
		}
	}

	docs, err := kv.GetAll(ctx, "things")
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d docs, want 3", len(docs))
	}
	if string(docs[0]) != `{"name":"thing_a"}` {
		t.Errorf("first doc out of order: %s", docs[0])
	}
}

func TestCollectionsAreIsolated(t *testing.T) {
	kv := testStore(t)
	ctx := context.Background()

	kv.Set(ctx, "posts", "x", testDoc{Name: "post"})
	kv.Set(ctx, "pages", "x", testDoc{Name: "page"})

	raw, _ := kv.Get(ctx, "posts", "x")
	if string(raw) != `{"name":"post"}` {
		t.Errorf("collection bleed: %s", raw)
	}

	if err := kv.Clear(ctx, "posts"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n, _ := kv.Count(ctx, "posts"); n != 0 {
		t.Errorf("posts count after clear = %d", n)
	}
	if n, _ := kv.Count(ctx, "pages"); n != 1 {
		t.Errorf("pages count after clearing posts = %d", n)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	kv := testStore(t)
	if err := kv.Remove(context.Background(), "things", "ghost"); err != nil {
		t.Errorf("remove absent id: %v", err)
	}
}
