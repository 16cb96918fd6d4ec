// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// PageStatus is the lifecycle state of a page.
type PageStatus string

const (
	PageStatusDraft     PageStatus = "draft"
	PageStatusPublished PageStatus = "published"
	PageStatusArchived  PageStatus = "archived"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s PageStatus) Valid() bool {
	switch s {
	case PageStatusDraft, PageStatusPublished, PageStatusArchived:
		return true
	}
	return false
}

// Page represents a static page. Pages form a tree through ParentID;
// a page with children cannot be deleted.
type Page struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Body            string     `json:"body"`
	Status          PageStatus `json:"status"`
	ParentID        string     `json:"parent_id,omitempty"`
	AuthorID        string     `json:"author_id,omitempty"`
	Template        string     `json:"template,omitempty"`
	ShowInNav       bool       `json:"show_in_nav"`
	MetaDescription string     `json:"meta_description,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// EnrichedPage is a page with its author and parent resolved for display.
type EnrichedPage struct {
	Page
	Author *User `json:"author,omitempty"`
	Parent *Page `json:"parent,omitempty"`
}

// PageFilters enumerates every recognized list option for pages.
type PageFilters struct {
	Search    string     // case-insensitive substring over title
	Status    PageStatus // exact match
	ParentID  string     // exact match
	SortBy    string     // "title", "status", "created_at", "updated_at"
	SortOrder string     // "asc" or "desc"
}
