// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides the HTML templates of the public documentation
// site. It supports full-page and HTMX partial rendering, automatically
// detecting the request type via the HX-Request header. Full pages get their
// language switch bound before they are written.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bumodocs/internal/locale"
	"bumodocs/internal/site"
)

//go:embed templates/site/*.html
var siteFS embed.FS

// PageData holds all data passed to site templates.
type PageData struct {
	Site   *site.Config
	Locale locale.Locale
	Path   string // request path; the language switch toggles it
	Title  string
	Year   int
	Home   *HomeView
	Doc    *DocView
}

// HomeView is the data of the home page splash and feature cards.
type HomeView struct {
	GetStartedURL   string
	GetStartedLabel string
	MoreLabel       string
	Cards           []CardView
}

// CardView is a feature card resolved for one locale.
type CardView struct {
	Name    string
	Image   string
	Links   []LinkView
	MoreURL string // empty unless the card has more links than it shows
}

// LinkView is a resolved link.
type LinkView struct {
	Label string
	URL   string
}

// DocView is the data of a doc page. Body holds the bound tab document.
type DocView struct {
	Slug    string
	Title   string
	Body    template.HTML
	EditURL string
	Sidebar []SidebarLink
}

// SidebarLink is one entry of the docs sidebar.
type SidebarLink struct {
	Label   string
	URL     string
	Current bool
}

// Lang returns the BCP 47 tag of the page language.
func (d *PageData) Lang() string {
	return d.Locale.Tag().String()
}

// Nav returns the header links for the page locale.
func (d *PageData) Nav() []site.NavItem {
	return d.Site.Nav(d.Locale)
}

// HomeURL returns the home page of the page locale.
func (d *PageData) HomeURL() string {
	return d.Site.HomeURL(d.Locale)
}

// Copyright returns the footer copyright line.
func (d *PageData) Copyright() string {
	return d.Site.CopyrightFor(d.Year)
}

// FacetFilters returns the search facet filters.
func (d *PageData) FacetFilters() []string {
	return d.Site.Algolia.FacetFilters
}

// Renderer handles template parsing and execution for site pages.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
	now       func() time.Time
}

// New creates a Renderer by parsing all site templates from the embedded
// filesystem. Each page template is paired with the base layout.
func New(cfg *site.Config) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		now:       time.Now,
		funcMap: template.FuncMap{
			// asset resolves a static file against the site base URL.
			"asset": cfg.Asset,
			// navHref marks configured header hrefs as trusted; the
			// language switch placeholder would otherwise be filtered.
			"navHref": func(item site.NavItem) template.URL {
				return template.URL(item.Href)
			},
		},
	}

	entries, err := fs.ReadDir(siteFS, "templates/site")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" {
			continue
		}
		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			siteFS, "templates/site/base.html", "templates/site/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}

	return r, nil
}

// Render executes a full page and binds its language switch.
func (rn *Renderer) Render(name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	if data.Year == 0 {
		data.Year = rn.now().Year()
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}

	page, bound, err := locale.BindHTML(buf.Bytes(), data.Path)
	if err != nil {
		return nil, err
	}
	slog.Debug("page rendered", "template", name, "path", data.Path, "locale_links", bound)
	return page, nil
}

// Page renders a full page or an HTMX partial, depending on the request
// headers. For HTMX requests, only the "content" block is sent.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	var (
		out []byte
		err error
	)
	if IsHTMX(r) {
		out, err = rn.partial(name, data)
	} else {
		out, err = rn.Render(name, data)
	}
	if err != nil {
		slog.Error("render page", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", data.Lang())
	w.WriteHeader(status)
	w.Write(out)
}

func (rn *Renderer) partial(name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "content", data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// IsHTMX returns true if the request was made by HTMX (has HX-Request header).
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
