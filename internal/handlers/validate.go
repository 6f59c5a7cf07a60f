package handlers

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"bumodocs/internal/models"
)

// Validation limits for tab click inputs.
const (
	maxPageKeyLen = 300
	maxGroupLen   = 200
	maxLinkLen    = 200
)

// clickInput is a tab click as posted by htmx (form values) or datastar
// (signals).
type clickInput struct {
	Page  string `json:"page"`
	Group string `json:"group"`
	Link  string `json:"link"`
}

// validateClick checks click inputs and returns the first error found.
func validateClick(in clickInput) string {
	if strings.TrimSpace(in.Page) == "" {
		return "Page is required."
	}
	if utf8.RuneCountInString(in.Page) > maxPageKeyLen {
		return "Page is too long (max 300 characters)."
	}
	if _, _, ok := models.ParsePageKey(in.Page); !ok {
		return "Page is not a valid doc page."
	}
	// An empty group or link is not an error: it resolves to nothing and
	// the click is ignored like any other unknown group.
	if utf8.RuneCountInString(in.Group) > maxGroupLen {
		return "Group is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(in.Link) > maxLinkLen {
		return "Link is too long (max 200 characters)."
	}
	return ""
}

// switchSource returns the path the locale switch toggles. It prefers the
// from parameter, then the path of a same-host referer, then "/". Only
// local paths are accepted.
func switchSource(from, referer, host string) string {
	if p, ok := localPath(from, ""); ok {
		return p
	}
	if p, ok := localPath(referer, host); ok {
		return p
	}
	return "/"
}

func localPath(raw, host string) (string, bool) {
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if u.Host != "" && u.Host != host {
		return "", false
	}
	if u.Host == "" && u.Scheme != "" {
		return "", false
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "", false
	}
	// Keep the escaping so "%23" or "%3F" survive the redirect.
	return u.EscapedPath(), true
}
