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

type pagePayload struct {
	Title           *string            `json:"title,omitempty"`
	Body            *string            `json:"body,omitempty"`
	Status          *models.PageStatus `json:"status,omitempty"`
	ParentID        *string            `json:"parent_id,omitempty"`
	AuthorID        *string            `json:"author_id,omitempty"`
	Template        *string            `json:"template,omitempty"`
	ShowInNav       *bool              `json:"show_in_nav,omitempty"`
	MetaDescription *string            `json:"meta_description,omitempty"`
}

// PagesList returns one page of CMS pages matching the query-string filters.
func (a *Admin) PagesList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := allowParams(q, "search", "status", "parent_id", "sort_by", "sort_order"); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	filters := models.PageFilters{
		Search:    q.Get("search"),
		Status:    models.PageStatus(q.Get("status")),
		ParentID:  q.Get("parent_id"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	page, limit := pageParams(q)
	result, err := a.pages.List(r.Context(), filters, page, limit)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, result)
}

// PageCreate creates a new page from the JSON body.
func (a *Admin) PageCreate(w http.ResponseWriter, r *http.Request) {
	var p pagePayload
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	in := store.PageInput{}
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Body != nil {
		in.Body = *p.Body
	}
	if p.Status != nil {
		in.Status = *p.Status
	}
	if p.ParentID != nil {
		in.ParentID = *p.ParentID
	}
	if p.AuthorID != nil {
		in.AuthorID = *p.AuthorID
	}
	if p.Template != nil {
		in.Template = *p.Template
	}
	if p.ShowInNav != nil {
		in.ShowInNav = *p.ShowInNav
	}
	if p.MetaDescription != nil {
		in.MetaDescription = *p.MetaDescription
	}

	pg, err := a.pages.Create(r.Context(), in)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusCreated, pg)
}

// PageGet returns a single page by id.
func (a *Admin) PageGet(w http.ResponseWriter, r *http.Request) {
	pg, err := a.pages.Find(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.respondError(w, err)
		return
	}
	if pg == nil {
		a.respond(w, http.StatusNotFound, map[string]string{"error": "page not found"})
		return
	}
	a.respond(w, http.StatusOK, pg)
}

// PageUpdate applies a partial update to a page.
func (a *Admin) PageUpdate(w http.ResponseWriter, r *http.Request) {
	var p pagePayload
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	patch := store.PagePatch{
		Title:           p.Title,
		Body:            p.Body,
		Status:          p.Status,
		ParentID:        p.ParentID,
		Template:        p.Template,
		ShowInNav:       p.ShowInNav,
		MetaDescription: p.MetaDescription,
	}

	pg, err := a.pages.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, pg)
}

// PageDelete removes a page. Deleting a page that still has children
// fails with a conflict.
func (a *Admin) PageDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.pages.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PagesBulkDelete removes a set of pages, reporting per-id outcomes.
func (a *Admin) PagesBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		a.badRequest(w, err.Error())
		return
	}
	if len(req.IDs) == 0 {
		a.badRequest(w, "ids is required")
		return
	}
	a.respond(w, http.StatusOK, renderBulk(a.pages.BulkDelete(r.Context(), req.IDs)))
}
