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

	"github.com/google/uuid"

	"github.com/msnandhis/vibepress-sub000/internal/kvstore"
	"github.com/msnandhis/vibepress-sub000/internal/models"
)

// InviteTTL is how long an invitation stays redeemable.
const InviteTTL = 7 * 24 * time.Hour

// InviteStore manages pending invitations in the user_invites collection.
type InviteStore struct {
	kv *kvstore.Store
}

// NewInviteStore returns a new InviteStore.
func NewInviteStore(kv *kvstore.Store) *InviteStore {
	return &InviteStore{kv: kv}
}

// Create validates the email, rejects addresses that already belong to a
// user or a pending invite, and persists a new single-use invitation.
func (s *InviteStore) Create(ctx context.Context, email, roleID, inviterID string) (*models.Invite, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	users, err := getAll[models.User](ctx, s.kv, usersCollection)
	if err != nil {
		return nil, fmt.Errorf("create invite: %w", err)
	}
	for _, u := range users {
		if u.Email == email {
			return nil, validationf("email", "a user with email %q already exists", email)
		}
	}

	now := time.Now().UTC()
	invites, err := getAll[models.Invite](ctx, s.kv, invitesCollection)
	if err != nil {
		return nil, fmt.Errorf("create invite: %w", err)
	}
	for _, inv := range invites {
		if inv.Email == email && inv.Usable(now) {
			return nil, validationf("email", "an invite for %q is already pending", email)
		}
	}

	inv := models.Invite{
		Token:     uuid.NewString(),
		Email:     email,
		RoleID:    roleID,
		InviterID: inviterID,
		ExpiresAt: now.Add(InviteTTL),
		CreatedAt: now,
	}
	if err := s.kv.Set(ctx, invitesCollection, inv.Token, &inv); err != nil {
		return nil, fmt.Errorf("create invite: %w", err)
	}
	return &inv, nil
}

// Find retrieves an invite by token. Returns nil if not found.
func (s *InviteStore) Find(ctx context.Context, token string) (*models.Invite, error) {
	return getOne[models.Invite](ctx, s.kv, invitesCollection, token)
}

// Redeemable returns the invite if it can still be redeemed, without
// consuming it. Callers that need to run further checks before burning
// the token (account creation, say) use this first and Accept after.
func (s *InviteStore) Redeemable(ctx context.Context, token string) (*models.Invite, error) {
	inv, err := s.Find(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, notFound("invite", token)
	}
	if !inv.Usable(time.Now().UTC()) {
		return nil, validationf("token", "invite is expired or already used")
	}
	return inv, nil
}

// Accept marks an invite redeemed. Expired or already-accepted invites
// are rejected.
func (s *InviteStore) Accept(ctx context.Context, token string) (*models.Invite, error) {
	inv, err := s.Redeemable(ctx, token)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv.AcceptedAt = &now
	if err := s.kv.Set(ctx, invitesCollection, inv.Token, inv); err != nil {
		return nil, fmt.Errorf("accept invite: %w", err)
	}
	return inv, nil
}

// Revoke removes a pending invite.
func (s *InviteStore) Revoke(ctx context.Context, token string) error {
	inv, err := s.Find(ctx, token)
	if err != nil {
		return err
	}
	if inv == nil {
		return notFound("invite", token)
	}
	if err := s.kv.Remove(ctx, invitesCollection, token); err != nil {
		return fmt.Errorf("revoke invite: %w", err)
	}
	return nil
}

// List returns every invite, newest first.
func (s *InviteStore) List(ctx context.Context) ([]models.Invite, error) {
	invites, err := getAll[models.Invite](ctx, s.kv, invitesCollection)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	// Invite tokens are UUIDs, so snapshot order is arbitrary; order by
	// creation time descending for display.
	sort.Slice(invites, func(i, j int) bool {
		return invites[i].CreatedAt.After(invites[j].CreatedAt)
	})
	return invites, nil
}
