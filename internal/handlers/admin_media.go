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

type mediaPayload struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name,omitempty"`
	ContentType  string `json:"content_type"`
	SizeBytes    int64  `json:"size_bytes"`
	URL          string `json:"url,omitempty"`
	AltText      string `json:"alt_text,omitempty"`
	Caption      string `json:"caption,omitempty"`
	FolderID     string `json:"folder_id,omitempty"`
	UploaderID   string `json:"uploader_id,omitempty"`
}

type mediaPatchPayload struct {
	AltText  *string `json:"alt_text,omitempty"`
	Caption  *string `json:"caption,omitempty"`
	FolderID *string `json:"folder_id,omitempty"`
}

// MediaList returns one page of media items matching the query-string
// filters.
func (a *Admin) MediaList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := allowParams(q, "search", "type", "folder_id", "sort_by", "sort_order"); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	filters := models.MediaFilters{
		Search:    q.Get("search"),
		Type:      q.Get("type"),
		FolderID:  q.Get("folder_id"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	page, limit := pageParams(q)
	result, err := a.media.List(r.Context(), filters, page, limit)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, result)
}

// MediaCreate registers a media item's metadata. The file bytes are
// handled by the upload pipeline; this layer records the result.
func (a *Admin) MediaCreate(w http.ResponseWriter, r *http.Request) {
	var p mediaPayload
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	item, err := a.media.Create(r.Context(), store.MediaInput{
		Filename:     p.Filename,
		OriginalName: p.OriginalName,
		ContentType:  p.ContentType,
		SizeBytes:    p.SizeBytes,
		URL:          p.URL,
		AltText:      p.AltText,
		Caption:      p.Caption,
		FolderID:     p.FolderID,
		UploaderID:   p.UploaderID,
	})
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusCreated, item)
}

// MediaGet returns a single media item by id.
func (a *Admin) MediaGet(w http.ResponseWriter, r *http.Request) {
	item, err := a.media.Find(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.respondError(w, err)
		return
	}
	if item == nil {
		a.respond(w, http.StatusNotFound, map[string]string{"error": "media item not found"})
		return
	}
	a.respond(w, http.StatusOK, item)
}

// MediaUpdate edits a media item's alt text, caption, or folder.
func (a *Admin) MediaUpdate(w http.ResponseWriter, r *http.Request) {
	var p mediaPatchPayload
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	item, err := a.media.Update(r.Context(), chi.URLParam(r, "id"), store.MediaPatch{
		AltText:  p.AltText,
		Caption:  p.Caption,
		FolderID: p.FolderID,
	})
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, item)
}

// MediaDelete removes a media item.
func (a *Admin) MediaDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.media.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MediaBulkDelete removes a set of media items, reporting per-id outcomes.
func (a *Admin) MediaBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		a.badRequest(w, err.Error())
		return
	}
	if len(req.IDs) == 0 {
		a.badRequest(w, "ids is required")
		return
	}
	a.respond(w, http.StatusOK, renderBulk(a.media.BulkDelete(r.Context(), req.IDs)))
}

// MediaBulkMove moves a set of media items into one folder, reporting
// per-id outcomes. An empty folder_id moves items to the library root.
func (a *Admin) MediaBulkMove(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		a.badRequest(w, err.Error())
		return
	}
	if len(req.IDs) == 0 {
		a.badRequest(w, "ids is required")
		return
	}
	a.respond(w, http.StatusOK, renderBulk(a.media.BulkMove(r.Context(), req.IDs, req.FolderID)))
}

type folderPayload struct {
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
}

type folderPatchPayload struct {
	Name     *string `json:"name,omitempty"`
	ParentID *string `json:"parent_id,omitempty"`
}

// FoldersList returns every media folder, sorted by name.
func (a *Admin) FoldersList(w http.ResponseWriter, r *http.Request) {
	folders, err := a.folders.List(r.Context())
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, folders)
}

// FolderCreate creates a media folder.
func (a *Admin) FolderCreate(w http.ResponseWriter, r *http.Request) {
	var p folderPayload
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	folder, err := a.folders.Create(r.Context(), p.Name, p.ParentID)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusCreated, folder)
}

// FolderUpdate renames or moves a media folder.
func (a *Admin) FolderUpdate(w http.ResponseWriter, r *http.Request) {
	var p folderPatchPayload
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	folder, err := a.folders.Update(r.Context(), chi.URLParam(r, "id"), store.FolderPatch{
		Name:     p.Name,
		ParentID: p.ParentID,
	})
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, folder)
}

// FolderDelete removes a media folder. Folders that still contain items
// or child folders fail with a conflict.
func (a *Admin) FolderDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.folders.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
