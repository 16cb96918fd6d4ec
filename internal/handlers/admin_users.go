// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/msnandhis/vibepress-sub000/internal/middleware"
	"github.com/msnandhis/vibepress-sub000/internal/models"
	"github.com/msnandhis/vibepress-sub000/internal/store"
)

type userPayload struct {
	Email       *string            `json:"email,omitempty"`
	Username    *string            `json:"username,omitempty"`
	DisplayName *string            `json:"display_name,omitempty"`
	Password    *string            `json:"password,omitempty"`
	RoleID      *string            `json:"role_id,omitempty"`
	Status      *models.UserStatus `json:"status,omitempty"`
}

// UsersList returns one page of users matching the query-string filters.
func (a *Admin) UsersList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := allowParams(q, "search", "role_id", "status", "sort_by", "sort_order"); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	filters := models.UserFilters{
		Search:    q.Get("search"),
		RoleID:    q.Get("role_id"),
		Status:    models.UserStatus(q.Get("status")),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	page, limit := pageParams(q)
	result, err := a.users.List(r.Context(), filters, page, limit)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, result)
}

// UserCreate creates a new user account.
func (a *Admin) UserCreate(w http.ResponseWriter, r *http.Request) {
	var p userPayload
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	in := store.UserInput{}
	if p.Email != nil {
		in.Email = *p.Email
	}
	if p.Username != nil {
		in.Username = *p.Username
	}
	if p.DisplayName != nil {
		in.DisplayName = *p.DisplayName
	}
	if p.Password != nil {
		in.Password = *p.Password
	}
	if p.RoleID != nil {
		in.RoleID = *p.RoleID
	}
	if p.Status != nil {
		in.Status = *p.Status
	}

	user, err := a.users.Create(r.Context(), in)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusCreated, user)
}

// UserGet returns a single user by id.
func (a *Admin) UserGet(w http.ResponseWriter, r *http.Request) {
	user, err := a.users.Find(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.respondError(w, err)
		return
	}
	if user == nil {
		a.respond(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}
	a.respond(w, http.StatusOK, user)
}

// UserUpdate applies a partial update to a user. Deactivating the last
// active administrator fails with a conflict.
func (a *Admin) UserUpdate(w http.ResponseWriter, r *http.Request) {
	var p userPayload
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	user, err := a.users.Update(r.Context(), chi.URLParam(r, "id"), store.UserPatch{
		Email:       p.Email,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Password:    p.Password,
		RoleID:      p.RoleID,
		Status:      p.Status,
	})
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, user)
}

// UserDelete removes a user and revokes their sessions. Deleting the
// last active administrator fails with a conflict.
func (a *Admin) UserDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.users.Delete(r.Context(), id); err != nil {
		a.respondError(w, err)
		return
	}
	if err := a.sessions.RevokeUser(r.Context(), id); err != nil {
		// The account is already gone; orphan sessions expire on their own.
		a.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UsersBulkDelete removes a set of users, reporting per-id outcomes.
// The last-administrator guard applies per entry.
func (a *Admin) UsersBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		a.badRequest(w, err.Error())
		return
	}
	if len(req.IDs) == 0 {
		a.badRequest(w, "ids is required")
		return
	}
	a.respond(w, http.StatusOK, renderBulk(a.users.BulkDelete(r.Context(), req.IDs)))
}

type invitePayload struct {
	Email  string `json:"email"`
	RoleID string `json:"role_id"`
}

// InvitesList returns all invites, newest first.
func (a *Admin) InvitesList(w http.ResponseWriter, r *http.Request) {
	invites, err := a.invites.List(r.Context())
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, invites)
}

// InviteCreate issues an invite for a new user. The inviter is taken
// from the current session when one exists.
func (a *Admin) InviteCreate(w http.ResponseWriter, r *http.Request) {
	var p invitePayload
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	inviterID := ""
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		inviterID = sess.UserID
	}

	invite, err := a.invites.Create(r.Context(), p.Email, p.RoleID, inviterID)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusCreated, invite)
}

// InviteRevoke withdraws a pending invite.
func (a *Admin) InviteRevoke(w http.ResponseWriter, r *http.Request) {
	if err := a.invites.Revoke(r.Context(), chi.URLParam(r, "token")); err != nil {
		a.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
