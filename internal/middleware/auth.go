// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"

	"github.com/msnandhis/vibepress-sub000/internal/models"
	"github.com/msnandhis/vibepress-sub000/internal/store"
)

// SessionCookie is the name of the session cookie sent to the browser.
const SessionCookie = "vp_session"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the loaded session.
	SessionKey contextKey = "session"
)

// LoadSession looks up the session referenced by the request cookie and
// stores it in the request context. Downstream handlers can access it via
// SessionFromCtx(). This middleware does NOT enforce authentication — it
// just loads the session if a live one exists.
func LoadSession(sessions *store.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := sessions.Find(r.Context(), cookie.Value)
			if err != nil {
				// Log-free pass-through: treat as unauthenticated.
				next.ServeHTTP(w, r)
				return
			}

			if sess != nil {
				ctx := context.WithValue(r.Context(), SessionKey, sess)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth is the admin access-control gate. It is currently a
// placeholder that allows every request through; the session (when one
// exists) is already loaded by LoadSession for handlers that want it.
// TODO: enforce authentication here once the hosted backend defines the
// login flow for non-local deployments.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
	})
}

// SessionFromCtx extracts the session from the request context.
// Returns nil if no session is loaded (user is not authenticated).
func SessionFromCtx(ctx context.Context) *models.Session {
	sess, _ := ctx.Value(SessionKey).(*models.Session)
	return sess
}
