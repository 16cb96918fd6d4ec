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

type categoryPayload struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"`
}

// taxonomyFilters parses the query params shared by category and tag
// listings.
func taxonomyFilters(r *http.Request) (models.TaxonomyFilters, int, int, error) {
	q := r.URL.Query()
	if err := allowParams(q, "search", "parent_id", "sort_by", "sort_order"); err != nil {
		return models.TaxonomyFilters{}, 0, 0, err
	}
	page, limit := pageParams(q)
	return models.TaxonomyFilters{
		Search:    q.Get("search"),
		ParentID:  q.Get("parent_id"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}, page, limit, nil
}

// CategoriesList returns one page of categories with post counts.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	filters, page, limit, err := taxonomyFilters(r)
	if err != nil {
		a.badRequest(w, err.Error())
		return
	}
	result, err := a.cats.List(r.Context(), filters, page, limit)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, result)
}

// CategoriesTree returns the full category hierarchy as nested nodes.
func (a *Admin) CategoriesTree(w http.ResponseWriter, r *http.Request) {
	tree, err := a.cats.Tree(r.Context())
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, tree)
}

// CategoryCreate creates a category.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var p categoryPayload
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	in := store.CategoryInput{}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.ParentID != nil {
		in.ParentID = *p.ParentID
	}

	cat, err := a.cats.Create(r.Context(), in)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusCreated, cat)
}

// CategoryUpdate renames, moves, or re-describes a category.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	var p categoryPayload
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	cat, err := a.cats.Update(r.Context(), chi.URLParam(r, "id"), store.CategoryPatch{
		Name:        p.Name,
		Description: p.Description,
		ParentID:    p.ParentID,
	})
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, cat)
}

// CategoryDelete removes a category. A category with child categories
// fails with a conflict.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.cats.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type tagPayload struct {
	Name string `json:"name"`
}

// TagsList returns one page of tags with post counts.
func (a *Admin) TagsList(w http.ResponseWriter, r *http.Request) {
	filters, page, limit, err := taxonomyFilters(r)
	if err != nil {
		a.badRequest(w, err.Error())
		return
	}
	result, err := a.tags.List(r.Context(), filters, page, limit)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, result)
}

// TagCreate creates a tag.
func (a *Admin) TagCreate(w http.ResponseWriter, r *http.Request) {
	var p tagPayload
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	tag, err := a.tags.Create(r.Context(), p.Name)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusCreated, tag)
}

// TagUpdate renames a tag.
func (a *Admin) TagUpdate(w http.ResponseWriter, r *http.Request) {
	var p struct {
		Name *string `json:"name,omitempty"`
	}
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	tag, err := a.tags.Update(r.Context(), chi.URLParam(r, "id"), store.TagPatch{Name: p.Name})
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, tag)
}

// TagDelete removes a tag. Posts that referenced it keep the dangling
// id, which is skipped at read time.
func (a *Admin) TagDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.tags.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TagsBulkDelete removes a set of tags, reporting per-id outcomes.
func (a *Admin) TagsBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		a.badRequest(w, err.Error())
		return
	}
	if len(req.IDs) == 0 {
		a.badRequest(w, "ids is required")
		return
	}
	a.respond(w, http.StatusOK, renderBulk(a.tags.BulkDelete(r.Context(), req.IDs)))
}
