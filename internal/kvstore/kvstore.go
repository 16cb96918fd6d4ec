// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package kvstore provides durable per-collection storage of JSON entity
// documents keyed by id, backed by a single kv_entries table. The store is
// explicitly constructed and injected into each entity store; there is no
// package-level singleton. Writers to the same id apply last-write-wins.
package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Store wraps a *sql.DB and exposes collection/id document operations.
type Store struct {
	db *sql.DB
}

// New creates a Store over the given database connection.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get returns the raw document for the given collection and id.
// Returns nil with no error if the id is absent.
func (s *Store) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM kv_entries WHERE collection = $1 AND id = $2
	`, collection, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore get %s/%s: %w", collection, id, err)
	}
	return json.RawMessage(data), nil
}

// GetAll returns every document in the collection, ordered by id. Entity
// ids embed a ULID, so this order doubles as creation order and gives the
// query engine a stable snapshot.
func (s *Store) GetAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT data FROM kv_entries WHERE collection = $1 ORDER BY id
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("kvstore get all %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("kvstore scan %s: %w", collection, err)
		}
		docs = append(docs, json.RawMessage(data))
	}
	return docs, rows.Err()
}

// Set upserts the document under the given collection and id. The value
// is marshaled to JSON; no validation happens at this layer.
func (s *Store) Set(ctx context.Context, collection, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("kvstore marshal %s/%s: %w", collection, id, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv_entries (collection, id, data, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (collection, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`, collection, id, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("kvstore set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Remove hard-deletes the document. Removing an absent id is a no-op.
func (s *Store) Remove(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM kv_entries WHERE collection = $1 AND id = $2
	`, collection, id)
	if err != nil {
		return fmt.Errorf("kvstore remove %s/%s: %w", collection, id, err)
	}
	return nil
}

// Clear removes every document in the collection.
func (s *Store) Clear(ctx context.Context, collection string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM kv_entries WHERE collection = $1
	`, collection)
	if err != nil {
		return fmt.Errorf("kvstore clear %s: %w", collection, err)
	}
	return nil
}

// Count returns the number of documents in the collection.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM kv_entries WHERE collection = $1
	`, collection).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("kvstore count %s: %w", collection, err)
	}
	return count, nil
}
