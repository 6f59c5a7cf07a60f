// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug validates and derives the doc ids used in page URLs.
package slug

import (
	"path"
	"regexp"
	"strings"
)

// MaxLen bounds a doc id.
const MaxLen = 200

// valid matches ids made of ASCII letters, digits, "_", "-" and ".",
// starting with a letter or digit.
var valid = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Valid reports whether s can be used as a doc id in a URL.
// Example: "introduction_to_bumo" is valid, "../etc" is not.
func Valid(s string) bool {
	return len(s) <= MaxLen && valid.MatchString(s)
}

// FromPath derives a doc id from a slash-separated file path by dropping
// the directory and the extension: "cn/api_http.md" → "api_http".
func FromPath(p string) string {
	base := path.Base(strings.ReplaceAll(p, `\`, "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
