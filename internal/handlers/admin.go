// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers for the VibePress
// admin API. Handlers are grouped by concern and receive their
// dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/msnandhis/vibepress-sub000/internal/store"
)

// Admin groups all admin API handlers and their dependencies.
type Admin struct {
	posts    *store.PostStore
	pages    *store.PageStore
	media    *store.MediaStore
	folders  *store.MediaFolderStore
	cats     *store.CategoryStore
	tags     *store.TagStore
	users    *store.UserStore
	roles    *store.RoleStore
	sessions *store.SessionStore
	invites  *store.InviteStore
	settings *store.SiteSettingStore
}

// NewAdmin creates a new Admin handler group with the given stores.
func NewAdmin(
	posts *store.PostStore,
	pages *store.PageStore,
	media *store.MediaStore,
	folders *store.MediaFolderStore,
	cats *store.CategoryStore,
	tags *store.TagStore,
	users *store.UserStore,
	roles *store.RoleStore,
	sessions *store.SessionStore,
	invites *store.InviteStore,
	settings *store.SiteSettingStore,
) *Admin {
	return &Admin{
		posts:    posts,
		pages:    pages,
		media:    media,
		folders:  folders,
		cats:     cats,
		tags:     tags,
		users:    users,
		roles:    roles,
		sessions: sessions,
		invites:  invites,
		settings: settings,
	}
}

// Dashboard returns collection counts for the admin landing page.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	postCount, err := a.posts.Count(ctx)
	if err != nil {
		a.respondError(w, err)
		return
	}
	pageCount, err := a.pages.Count(ctx)
	if err != nil {
		a.respondError(w, err)
		return
	}
	mediaCount, err := a.media.Count(ctx)
	if err != nil {
		a.respondError(w, err)
		return
	}
	userCount, err := a.users.Count(ctx)
	if err != nil {
		a.respondError(w, err)
		return
	}

	a.respond(w, http.StatusOK, map[string]int{
		"posts": postCount,
		"pages": pageCount,
		"media": mediaCount,
		"users": userCount,
	})
}

// respond writes v as a JSON response with the given status code.
func (a *Admin) respond(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, v)
}

// respondError maps a store error to its HTTP status: validation 422,
// not-found 404, integrity-guard 409, anything else 500.
func (a *Admin) respondError(w http.ResponseWriter, err error) {
	writeErrorStatus(w, err)
}

// decodeJSON decodes the request body into dst, rejecting unknown fields
// so malformed payloads fail at the boundary instead of half-applying.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// badRequest writes a 400 with the given message.
func (a *Admin) badRequest(w http.ResponseWriter, msg string) {
	a.respond(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// pageParams reads the 1-based page number and page size from the query
// string. Absent values fall back to the query engine defaults.
func pageParams(q url.Values) (page, limit int) {
	page, _ = strconv.Atoi(q.Get("page"))
	limit, _ = strconv.Atoi(q.Get("limit"))
	return page, limit
}

// allowParams rejects query-string keys outside the recognized set, so
// misspelled filters fail loudly instead of silently matching everything.
func allowParams(q url.Values, allowed ...string) error {
	ok := make(map[string]bool, len(allowed)+2)
	ok["page"] = true
	ok["limit"] = true
	for _, key := range allowed {
		ok[key] = true
	}
	for key := range q {
		if !ok[key] {
			return fmt.Errorf("unknown query parameter %q", key)
		}
	}
	return nil
}

// bulkRequest is the shared payload for bulk operations.
type bulkRequest struct {
	IDs []string `json:"ids"`

	// Optional per-operation arguments.
	Status   string `json:"status,omitempty"`
	FolderID string `json:"folder_id,omitempty"`
}

// bulkResponse renders per-id outcomes for a bulk operation.
type bulkResponse struct {
	Results []bulkOutcome `json:"results"`
	Failed  int           `json:"failed"`
}

type bulkOutcome struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// renderBulk converts store bulk results into the API response shape.
func renderBulk(results []store.BulkResult) bulkResponse {
	resp := bulkResponse{Results: make([]bulkOutcome, len(results))}
	for i, res := range results {
		out := bulkOutcome{ID: res.ID, OK: res.Ok()}
		if res.Err != nil {
			out.Error = res.Err.Error()
			resp.Failed++
		}
		resp.Results[i] = out
	}
	return resp
}
