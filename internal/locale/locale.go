// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package locale implements the two-locale toggle of the documentation site.
// English pages live at the site root and Chinese pages under a single "cn"
// path segment; switching language is a pure rewrite of the current path.
package locale

import (
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a site locale, identified by its path prefix.
type Locale string

const (
	// English is the primary locale, served without a prefix.
	English Locale = "en"
	// Chinese is the secondary locale, served under Prefix.
	Chinese Locale = "cn"
)

// Prefix is the path segment that marks the secondary locale.
const Prefix = string(Chinese)

// SwitchPath is the endpoint that performs the locale redirect.
const SwitchPath = "/_locale"

// Tag returns the BCP 47 tag used for lang attributes and headers.
func (l Locale) Tag() language.Tag {
	if l == Chinese {
		return language.SimplifiedChinese
	}
	return language.English
}

// Path returns p as served in locale l.
func (l Locale) Path(p string) string {
	p = normalize(p)
	if l == Chinese && !IsSecondary(p) {
		return "/" + Prefix + p
	}
	if l == English && IsSecondary(p) {
		return Toggle(p)
	}
	return p
}

// FromPath reports the locale a path belongs to.
func FromPath(p string) Locale {
	if IsSecondary(p) {
		return Chinese
	}
	return English
}

// IsSecondary reports whether the first segment of p is exactly Prefix.
// Later segments are never inspected, so "/docs/cn" or "/cnx" stay primary.
func IsSecondary(p string) bool {
	return firstSegment(normalize(p)) == Prefix
}

// Toggle returns the equivalent path in the other locale: a leading "cn"
// segment is stripped, otherwise one is prepended. "/cn" maps to "/".
func Toggle(p string) string {
	p = normalize(p)
	if IsSecondary(p) {
		rest := p[len("/"+Prefix):]
		if rest == "" {
			return "/"
		}
		return rest
	}
	return "/" + Prefix + p
}

// Target returns the absolute URL the locale switch navigates to.
func Target(origin, p string) string {
	return strings.TrimSuffix(origin, "/") + Toggle(p)
}

// SwitchURL returns the switch endpoint URL for a page at path from.
func SwitchURL(from string) string {
	return SwitchPath + "?from=" + url.QueryEscape(normalize(from))
}

func normalize(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}

func firstSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}
