// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/msnandhis/vibepress-sub000/internal/middleware"
	"github.com/msnandhis/vibepress-sub000/internal/store"
)

// totpIssuer is the issuer label shown in authenticator apps.
const totpIssuer = "VibePress"

// Auth groups the authentication handlers: login, logout, two-factor
// enrollment, and invite redemption.
type Auth struct {
	users    *store.UserStore
	sessions *store.SessionStore
	invites  *store.InviteStore
}

// NewAuth creates a new Auth handler group with the given stores.
func NewAuth(users *store.UserStore, sessions *store.SessionStore, invites *store.InviteStore) *Auth {
	return &Auth{users: users, sessions: sessions, invites: invites}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"`
}

// Login verifies credentials and issues a session cookie. Accounts with
// two-factor enabled must also supply a valid TOTP code.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var p loginPayload
	if err := decodeJSON(r, &p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user, err := h.users.FindByEmail(r.Context(), strings.ToLower(strings.TrimSpace(p.Email)))
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if user == nil || !h.users.CheckPassword(user, p.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
		return
	}
	if !user.IsActive() {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "account is deactivated"})
		return
	}

	if user.TOTPEnabled {
		if p.TOTPCode == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":         "two-factor code required",
				"totp_required": "true",
			})
			return
		}
		if !totp.Validate(p.TOTPCode, user.TOTPSecret) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid two-factor code"})
			return
		}
	}

	sess, err := h.sessions.Create(r.Context(), user.ID, r.UserAgent())
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if err := h.users.TouchLogin(r.Context(), user.ID); err != nil {
		slog.Warn("touch login failed", "user", user.ID, "error", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, user)
}

// Logout revokes the current session and clears the cookie.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		if err := h.sessions.Revoke(r.Context(), cookie.Value); err != nil {
			slog.Warn("session revoke failed", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// TwoFASetup generates a fresh TOTP secret for the current user and
// returns it with a QR code PNG, base64 encoded for inline display.
// The secret only takes effect once confirmed through TwoFAVerify.
func (h *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	user, err := h.users.Find(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("2fa setup user lookup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	if err := h.users.SetTOTPSecret(r.Context(), user.ID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret":  key.Secret(),
		"qr_code": base64.StdEncoding.EncodeToString(qrPNG),
	})
}

type totpVerifyPayload struct {
	Code string `json:"code"`
}

// TwoFAVerify confirms the pending TOTP secret with a code from the
// authenticator app and switches two-factor on for the account.
func (h *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var p totpVerifyPayload
	if err := decodeJSON(r, &p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user, err := h.users.Find(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("2fa verify user lookup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if user.TOTPSecret == "" {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "two-factor setup has not been started"})
		return
	}

	if !totp.Validate(p.Code, user.TOTPSecret) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid two-factor code"})
		return
	}

	if err := h.users.EnableTOTP(r.Context(), user.ID); err != nil {
		slog.Error("enable totp failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"totp_enabled": true})
}

// TwoFAReset switches two-factor off and discards the secret for the
// current user.
func (h *Auth) TwoFAReset(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if err := h.users.ResetTOTP(r.Context(), sess.UserID); err != nil {
		slog.Error("reset totp failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"totp_enabled": false})
}

type acceptInvitePayload struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Password    string `json:"password"`
}

// AcceptInvite redeems an invite token and creates the account it was
// issued for, signing the new user in.
func (h *Auth) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	var p acceptInvitePayload
	if err := decodeJSON(r, &p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// The invite is only consumed once the account exists: a rejected
	// username or password must leave the token redeemable for a retry.
	invite, err := h.invites.Redeemable(r.Context(), token)
	if err != nil {
		writeErrorStatus(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), store.UserInput{
		Email:       invite.Email,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Password:    p.Password,
		RoleID:      invite.RoleID,
	})
	if err != nil {
		writeErrorStatus(w, err)
		return
	}
	if _, err := h.invites.Accept(r.Context(), token); err != nil {
		slog.Warn("invite accept after account creation failed", "token", token, "error", err)
	}

	sess, err := h.sessions.Create(r.Context(), user.ID, r.UserAgent())
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusCreated, user)
}

// writeJSON writes v as JSON with the given status, for handlers that
// do not hang off the Admin group.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeErrorStatus maps a store error onto the shared taxonomy.
func writeErrorStatus(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case store.IsValidation(err):
		status = http.StatusUnprocessableEntity
	case store.IsNotFound(err):
		status = http.StatusNotFound
	case store.IsIntegrity(err):
		status = http.StatusConflict
	default:
		slog.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
