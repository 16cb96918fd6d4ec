// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the persisted entities of the VibePress data
// layer and the typed filter sets their stores accept.
package models

import "time"

// PostStatus is the lifecycle state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusArchived  PostStatus = "archived"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusScheduled, PostStatusArchived:
		return true
	}
	return false
}

// Post represents a blog post. AuthorID, CategoryID, FeaturedMediaID and
// TagIDs reference other collections; references are resolved at read
// time and may dangle after the target is deleted.
type Post struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Body            string     `json:"body"`
	Excerpt         string     `json:"excerpt,omitempty"`
	Status          PostStatus `json:"status"`
	AuthorID        string     `json:"author_id,omitempty"`
	CategoryID      string     `json:"category_id,omitempty"`
	FeaturedMediaID string     `json:"featured_media_id,omitempty"`
	TagIDs          []string   `json:"tag_ids,omitempty"`
	MetaDescription string     `json:"meta_description,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsPublished returns true once the post is live.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// EnrichedPost is a post with its references resolved for display.
// A reference whose target no longer exists stays nil.
type EnrichedPost struct {
	Post
	Author        *User      `json:"author,omitempty"`
	Category      *Category  `json:"category,omitempty"`
	FeaturedMedia *MediaItem `json:"featured_media,omitempty"`
	Tags          []Tag      `json:"tags,omitempty"`
}

// PostFilters enumerates every recognized list option for posts.
// Multiple filters combine with AND.
type PostFilters struct {
	Search        string     // case-insensitive substring over title and excerpt
	Status        PostStatus // exact match
	AuthorID      string     // exact match
	CategoryID    string     // exact match
	TagIDs        []string   // match posts carrying any of these tags
	CreatedAfter  *time.Time // inclusive lower bound on CreatedAt
	CreatedBefore *time.Time // inclusive upper bound on CreatedAt
	SortBy        string     // "title", "status", "created_at", "updated_at", "published_at"
	SortOrder     string     // "asc" or "desc"
}
