// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/msnandhis/vibepress-sub000/internal/models"
	"github.com/msnandhis/vibepress-sub000/internal/store"
)

type rolePayload struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Permissions *[]string `json:"permissions,omitempty"`
}

// RolesList returns one page of roles with per-role user counts.
func (a *Admin) RolesList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := allowParams(q, "search", "sort_by", "sort_order"); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	filters := models.TaxonomyFilters{
		Search:    q.Get("search"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	page, limit := pageParams(q)
	result, err := a.roles.List(r.Context(), filters, page, limit)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, result)
}

// RoleCreate creates a custom role.
func (a *Admin) RoleCreate(w http.ResponseWriter, r *http.Request) {
	var p rolePayload
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	in := store.RoleInput{}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Permissions != nil {
		in.Permissions = *p.Permissions
	}

	role, err := a.roles.Create(r.Context(), in)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusCreated, role)
}

// RoleGet returns a single role by id.
func (a *Admin) RoleGet(w http.ResponseWriter, r *http.Request) {
	role, err := a.roles.Find(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.respondError(w, err)
		return
	}
	if role == nil {
		a.respond(w, http.StatusNotFound, map[string]string{"error": "role not found"})
		return
	}
	a.respond(w, http.StatusOK, role)
}

// RoleUpdate edits a role. Renaming a system role fails with a conflict;
// description and permissions stay editable.
func (a *Admin) RoleUpdate(w http.ResponseWriter, r *http.Request) {
	var p rolePayload
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	role, err := a.roles.Update(r.Context(), chi.URLParam(r, "id"), store.RolePatch{
		Name:        p.Name,
		Description: p.Description,
		Permissions: p.Permissions,
	})
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, role)
}

// RoleDelete removes a custom role. System roles and roles still
// assigned to users fail with a conflict.
func (a *Admin) RoleDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.roles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
