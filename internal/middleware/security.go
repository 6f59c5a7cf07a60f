// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// baseScriptSources are the script origins every page loads: htmx and the
// DocSearch widget.
var baseScriptSources = []string{"https://unpkg.com", "https://cdn.jsdelivr.net"}

// ContentSecurityPolicy builds the policy for the site pages. Origins of
// extra configured scripts are allowed alongside the base ones.
func ContentSecurityPolicy(scripts []string) string {
	seen := make(map[string]bool)
	for _, s := range baseScriptSources {
		seen[s] = true
	}
	for _, s := range scripts {
		u, err := url.Parse(s)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			continue
		}
		seen[u.Scheme+"://"+u.Host] = true
	}
	origins := make([]string, 0, len(seen))
	for o := range seen {
		origins = append(origins, o)
	}
	sort.Strings(origins)

	src := strings.Join(origins, " ")
	return strings.Join([]string{
		"default-src 'self'",
		"script-src 'self' 'unsafe-inline' " + src,
		"style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net",
		"img-src 'self' data: https:",
		"connect-src 'self' https://*.algolia.net https://*.algolianet.com",
		"frame-ancestors 'self'",
	}, "; ")
}

// SecureHeaders adds security-related HTTP headers to every response,
// including the given Content-Security-Policy when it is not empty.
func SecureHeaders(csp string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			h.Set("X-XSS-Protection", "0")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "interest-cohort=()")
			if csp != "" {
				h.Set("Content-Security-Policy", csp)
			}

			next.ServeHTTP(w, r)
		})
	}
}
