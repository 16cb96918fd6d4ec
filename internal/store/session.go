// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/msnandhis/vibepress-sub000/internal/kvstore"
	"github.com/msnandhis/vibepress-sub000/internal/models"
)

// SessionTTL is how long a session lives before automatic expiry.
const SessionTTL = 24 * time.Hour

// SessionStore manages browser sessions in the user_sessions collection.
type SessionStore struct {
	kv *kvstore.Store
}

// NewSessionStore returns a new SessionStore.
func NewSessionStore(kv *kvstore.Store) *SessionStore {
	return &SessionStore{kv: kv}
}

// Create issues a new session token for the user and persists it.
func (s *SessionStore) Create(ctx context.Context, userID, userAgent string) (*models.Session, error) {
	now := time.Now().UTC()
	sess := models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		UserAgent: userAgent,
		ExpiresAt: now.Add(SessionTTL),
		CreatedAt: now,
	}
	if err := s.kv.Set(ctx, sessionsCollection, sess.Token, &sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &sess, nil
}

// Find retrieves a live session by token. Expired sessions are removed
// on sight and reported as absent.
func (s *SessionStore) Find(ctx context.Context, token string) (*models.Session, error) {
	sess, err := getOne[models.Session](ctx, s.kv, sessionsCollection, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	if sess.Expired(time.Now().UTC()) {
		if err := s.kv.Remove(ctx, sessionsCollection, token); err != nil {
			return nil, fmt.Errorf("drop expired session: %w", err)
		}
		return nil, nil
	}
	return sess, nil
}

// Revoke removes a session. Revoking an unknown token is a no-op.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	if err := s.kv.Remove(ctx, sessionsCollection, token); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RevokeUser removes every session belonging to the user.
func (s *SessionStore) RevokeUser(ctx context.Context, userID string) error {
	sessions, err := getAll[models.Session](ctx, s.kv, sessionsCollection)
	if err != nil {
		return fmt.Errorf("revoke user sessions: %w", err)
	}
	for _, sess := range sessions {
		if sess.UserID != userID {
			continue
		}
		if err := s.kv.Remove(ctx, sessionsCollection, sess.Token); err != nil {
			return fmt.Errorf("revoke user sessions: %w", err)
		}
	}
	return nil
}

// PurgeExpired removes every expired session and returns how many were
// dropped.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int, error) {
	sessions, err := getAll[models.Session](ctx, s.kv, sessionsCollection)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	now := time.Now().UTC()
	purged := 0
	for _, sess := range sessions {
		if !sess.Expired(now) {
			continue
		}
		if err := s.kv.Remove(ctx, sessionsCollection, sess.Token); err != nil {
			return purged, fmt.Errorf("purge sessions: %w", err)
		}
		purged++
	}
	return purged, nil
}
