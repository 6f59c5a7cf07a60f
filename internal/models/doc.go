// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the entities persisted by the documentation site.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"bumodocs/internal/locale"
	"bumodocs/internal/slug"
)

// Doc is one markdown documentation page in one locale. Slug is the doc id
// used in URLs ("/docs/<slug>" or "/cn/docs/<slug>").
type Doc struct {
	ID           uuid.UUID     `json:"id"`
	Locale       locale.Locale `json:"locale"`
	Slug         string        `json:"slug"`
	Title        string        `json:"title"`
	SidebarLabel *string       `json:"sidebar_label,omitempty"`
	Body         string        `json:"body"`
	SourcePath   string        `json:"source_path"`
	Checksum     string        `json:"checksum"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Key identifies the doc across locales, e.g. "cn/introduction_to_bumo".
// It names the page in caches and visitor tab state.
func (d *Doc) Key() string {
	return PageKey(d.Locale, d.Slug)
}

// Label returns the sidebar label, falling back to the title.
func (d *Doc) Label() string {
	if d.SidebarLabel != nil && *d.SidebarLabel != "" {
		return *d.SidebarLabel
	}
	return d.Title
}

// PageKey builds the key of the doc page slug in locale loc.
func PageKey(loc locale.Locale, slug string) string {
	return string(loc) + "/" + slug
}

// ParsePageKey splits a page key back into locale and slug.
func ParsePageKey(key string) (locale.Locale, string, bool) {
	code, id, ok := strings.Cut(key, "/")
	if !ok || !slug.Valid(id) {
		return "", "", false
	}
	switch locale.Locale(code) {
	case locale.English, locale.Chinese:
		return locale.Locale(code), id, true
	}
	return "", "", false
}
