// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// SiteSettingsVersion stamps the stored settings blob so future releases
// can migrate it in place. Bump when the shape of SiteSettings changes.
const SiteSettingsVersion = 1

// SiteSettingsKey is the fixed id of the singleton settings row in the
// settings collection.
const SiteSettingsKey = "site_settings"

// SiteSettings is the singleton site configuration blob.
type SiteSettings struct {
	Version      int       `json:"version"`
	SiteTitle    string    `json:"site_title"`
	Tagline      string    `json:"tagline,omitempty"`
	BaseURL      string    `json:"base_url,omitempty"`
	Language     string    `json:"language"`
	Timezone     string    `json:"timezone"`
	PostsPerPage int       `json:"posts_per_page"`
	AllowSignups bool      `json:"allow_signups"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultSiteSettings returns the settings used before any have been saved.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		Version:      SiteSettingsVersion,
		SiteTitle:    "My Site",
		Language:     "en",
		Timezone:     "UTC",
		PostsPerPage: 10,
	}
}
