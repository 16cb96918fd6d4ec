// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Session represents an authenticated browser session. Sessions are
// persisted in the user_sessions collection keyed by token and expire
// after a fixed TTL.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	UserAgent string    `json:"user_agent,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session has passed its expiry time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Invite represents a pending invitation for a new user. The token is
// single-use; AcceptedAt is set when the invite is redeemed.
type Invite struct {
	Token      string     `json:"token"`
	Email      string     `json:"email"`
	RoleID     string     `json:"role_id,omitempty"`
	InviterID  string     `json:"inviter_id,omitempty"`
	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Usable reports whether the invite can still be redeemed.
func (i *Invite) Usable(now time.Time) bool {
	return i.AcceptedAt == nil && now.Before(i.ExpiresAt)
}
