// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/msnandhis/vibepress-sub000/internal/store"
)

type settingsPayload struct {
	SiteTitle    *string `json:"site_title,omitempty"`
	Tagline      *string `json:"tagline,omitempty"`
	BaseURL      *string `json:"base_url,omitempty"`
	Language     *string `json:"language,omitempty"`
	Timezone     *string `json:"timezone,omitempty"`
	PostsPerPage *int    `json:"posts_per_page,omitempty"`
	AllowSignups *bool   `json:"allow_signups,omitempty"`
}

// SettingsGet returns the site settings, falling back to defaults when
// none have been saved yet.
func (a *Admin) SettingsGet(w http.ResponseWriter, r *http.Request) {
	settings, err := a.settings.Get(r.Context())
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, settings)
}

// SettingsUpdate merges a partial update into the site settings.
func (a *Admin) SettingsUpdate(w http.ResponseWriter, r *http.Request) {
	var p settingsPayload
	if err := decodeJSON(r, &p); err != nil {
		a.badRequest(w, err.Error())
		return
	}

	settings, err := a.settings.Update(r.Context(), store.SettingsPatch{
		SiteTitle:    p.SiteTitle,
		Tagline:      p.Tagline,
		BaseURL:      p.BaseURL,
		Language:     p.Language,
		Timezone:     p.Timezone,
		PostsPerPage: p.PostsPerPage,
		AllowSignups: p.AllowSignups,
	})
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respond(w, http.StatusOK, settings)
}
