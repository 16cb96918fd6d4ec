// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"
)

// MediaItem represents a file in the media library. Only metadata lives
// here; the bytes themselves are outside this layer's concern.
type MediaItem struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	URL          string    `json:"url,omitempty"`
	AltText      string    `json:"alt_text,omitempty"`
	Caption      string    `json:"caption,omitempty"`
	FolderID     string    `json:"folder_id,omitempty"`
	UploaderID   string    `json:"uploader_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsImage returns true if the media item is an image type.
func (m *MediaItem) IsImage() bool {
	return strings.HasPrefix(m.ContentType, "image/")
}

// HumanSize returns a human-readable file size string.
func (m *MediaItem) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case m.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(m.SizeBytes)/float64(mb))
	case m.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(m.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", m.SizeBytes)
	}
}

// MediaFolder organizes media items into a tree through ParentID.
// A folder may not be deleted while it contains items or child folders.
type MediaFolder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ParentID  string    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EnrichedMediaItem is a media item with its folder and uploader resolved.
type EnrichedMediaItem struct {
	MediaItem
	Folder   *MediaFolder `json:"folder,omitempty"`
	Uploader *User        `json:"uploader,omitempty"`
}

// MediaFilters enumerates every recognized list option for media items.
type MediaFilters struct {
	Search    string // case-insensitive substring over filename, original name, alt text
	Type      string // content type prefix: "image", "video", "application", ...
	FolderID  string // exact match
	SortBy    string // "filename", "size_bytes", "created_at", "updated_at"
	SortOrder string // "asc" or "desc"
}
