// Package web provides the embedded static assets of the documentation
// site, served under /static/ and /img/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree: the site stylesheet in
// css/ and site images in img/.
//
//go:embed all:static
var StaticFS embed.FS
