// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Category represents a hierarchical content category.
// Posts can have at most one category assigned.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ParentID    string    `json:"parent_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual fields populated by store methods.
	Children  []Category `json:"children,omitempty"`
	Depth     int        `json:"depth,omitempty"`
	PostCount int        `json:"post_count"`
}

// Tag represents a flat content label. Posts may carry any number of tags.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Virtual field populated by store methods.
	PostCount int `json:"post_count"`
}

// TaxonomyFilters enumerates the list options shared by categories and tags.
type TaxonomyFilters struct {
	Search    string // case-insensitive substring over name
	ParentID  string // categories only; exact match
	SortBy    string // "name", "created_at", "post_count"
	SortOrder string // "asc" or "desc"
}
