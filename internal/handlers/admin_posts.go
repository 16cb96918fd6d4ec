// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/msnandhis/vibepress-sub000/internal/models"
	"github.com/msnandhis/vibepress-sub000/internal/store"
)

// postPayload is the JSON body for post create and update requests.
// Update treats absent fields as "leave unchanged".
type postPayload struct {
	Title           *string            `json:"title,omitempty"`
	Body            *string            `json:"body,omitempty"`
	Excerpt         *string            `json:"excerpt,omitempty"`
	Status          *models.PostStatus `json:"status,omitempty"`
	AuthorID        *string            `json:"author_id,omitempty"`
	CategoryID      *string            `json:"category_id,omitempty"`
	FeaturedMediaID *string            `json:"featured_media_id,omitempty"`
	TagIDs          *[]string          `json:"tag_ids,omitempty"`
	MetaDescription *string            `json:"meta_description,omitempty"`
	PublishedAt     *time.Time         `json:"published_at,omitempty"`
}

// PostsList returns one page of posts matching the query-string filters.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := allowParams(q, "search", "status", "author_id", "category_id", "tag_ids",
		"created_after", "created_before", "sort_by", "sort_order"); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	filters := models.PostFilters{
		Search:     q.Get("search"),
		Status:     models.PostStatus(q.Get("status")),
		AuthorID:   q.Get("author_id"),
		CategoryID: q.Get("category_id"),
		TagIDs:     q["tag_ids"],
		SortBy:     q.Get("sort_by"),
		SortOrder:  q.Get("sort_order"),
	}
	if v := q.Get("created_after"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			a.badRequest(w, "created_after must be RFC 3339")
			return
		}
		filters.CreatedAfter = &t
	}
	if v := q.Get("created_before"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			a.badRequest(w, "created_before must be RFC 3339")
			return
		}
		filters.CreatedBefore = &t
	}

	page, limit := pageParams(q)
	result, err := a.posts.List(r.Context(), filters, page, limit)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, result)
}

// PostCreate creates a new post from the JSON body.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	var p postPayload
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	in := store.PostInput{}
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Body != nil {
		in.Body = *p.Body
	}
	if p.Excerpt != nil {
		in.Excerpt = *p.Excerpt
	}
	if p.Status != nil {
		in.Status = *p.Status
	}
	if p.AuthorID != nil {
		in.AuthorID = *p.AuthorID
	}
	if p.CategoryID != nil {
		in.CategoryID = *p.CategoryID
	}
	if p.FeaturedMediaID != nil {
		in.FeaturedMediaID = *p.FeaturedMediaID
	}
	if p.TagIDs != nil {
		in.TagIDs = *p.TagIDs
	}
	if p.MetaDescription != nil {
		in.MetaDescription = *p.MetaDescription
	}
	in.PublishedAt = p.PublishedAt

	post, err := a.posts.Create(r.Context(), in)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusCreated, post)
}

// PostGet returns a single post by id.
func (a *Admin) PostGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := a.posts.Find(r.Context(), id)
	if err != nil {
		a.respondError(w, err)
		return
	}
	if post == nil {
		a.respond(w, http.StatusNotFound, map[string]string{"error": "post not found"})
		return
	}
	a.respond(w, http.StatusOK, post)
}

// PostUpdate applies a partial update to a post.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	var p postPayload
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	patch := store.PostPatch{
		Title:           p.Title,
		Body:            p.Body,
		Excerpt:         p.Excerpt,
		Status:          p.Status,
		AuthorID:        p.AuthorID,
		CategoryID:      p.CategoryID,
		FeaturedMediaID: p.FeaturedMediaID,
		TagIDs:          p.TagIDs,
		MetaDescription: p.MetaDescription,
		PublishedAt:     p.PublishedAt,
	}

	post, err := a.posts.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, post)
}

// PostDelete removes a post.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.posts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostsBulkDelete removes a set of posts, reporting per-id outcomes.
func (a *Admin) PostsBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		a.badRequest(w, err.Error())
		return
	}
	if len(req.IDs) == 0 {
		a.badRequest(w, "ids is required")
		return
	}
	a.respond(w, http.StatusOK, renderBulk(a.posts.BulkDelete(r.Context(), req.IDs)))
}

// PostsBulkStatus sets one status on a set of posts, reporting per-id
// outcomes.
func (a *Admin) PostsBulkStatus(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		a.badRequest(w, err.Error())
		return
	}
	if len(req.IDs) == 0 {
		a.badRequest(w, "ids is required")
		return
	}
	status := models.PostStatus(req.Status)
	if !status.Valid() {
		a.badRequest(w, "status must be a valid post status")
		return
	}
	a.respond(w, http.StatusOK, renderBulk(a.posts.BulkSetStatus(r.Context(), req.IDs, status)))
}
