// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine turns stored docs into pages. A doc's Markdown is
// converted once (L1 in memory, L2 in Valkey); every request then parses
// the converted HTML into a tab document, applies the visitor's tab state
// and binds the tab links to the click endpoint.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"

	"bumodocs/internal/cache"
	"bumodocs/internal/locale"
	"bumodocs/internal/markdown"
	"bumodocs/internal/models"
	"bumodocs/internal/render"
	"bumodocs/internal/site"
	"bumodocs/internal/tabs"
)

const (
	// ClickEndpoint receives tab link clicks.
	ClickEndpoint = "/_tabs"
	// BodyID is the id of the element wrapping a doc body. Tab clicks
	// replace it.
	BodyID = "doc-body"
)

// DocFinder looks up stored docs and lists a locale's docs for the sidebar.
type DocFinder interface {
	FindBySlug(loc locale.Locale, slug string) (*models.Doc, error)
	ListByLocale(loc locale.Locale) ([]models.Doc, error)
}

// PageCache is the shared cache of converted doc bodies.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
	InvalidateDocs(ctx context.Context, docs []models.Doc)
	InvalidateAll(ctx context.Context)
}

// Page is a doc with tab state applied.
type Page struct {
	Key    string
	Locale locale.Locale
	Slug   string
	Title  string
	Body   template.HTML // bound tab document wrapped in #doc-body
	State  tabs.State

	// Ignored is set when a click did not resolve and left State unchanged.
	Ignored error

	// Sidebar lists the docs of the page locale ordered by slug. Only
	// full page renders fill it.
	Sidebar []models.Doc
}

// View converts the page for the doc template.
func (p *Page) View(cfg *site.Config) *render.DocView {
	v := &render.DocView{
		Slug:    p.Slug,
		Title:   p.Title,
		Body:    p.Body,
		EditURL: cfg.EditLink(p.Locale, p.Slug),
	}
	for i := range p.Sidebar {
		d := &p.Sidebar[i]
		v.Sidebar = append(v.Sidebar, render.SidebarLink{
			Label:   d.Label(),
			URL:     cfg.DocURL(d.Locale, d.Slug),
			Current: d.Slug == p.Slug,
		})
	}
	return v
}

// cachedDoc is the L2 cache entry of a converted doc.
type cachedDoc struct {
	Locale locale.Locale `json:"locale"`
	Slug   string        `json:"slug"`
	Title  string        `json:"title"`
	HTML   string        `json:"html"`
}

// Engine renders doc pages.
type Engine struct {
	docs  DocFinder
	md    *markdown.Converter
	cache *bodyCache

	// Optional L2 cache. Nil when Valkey is not configured.
	pages PageCache
}

// New creates an engine reading docs from finder.
func New(docs DocFinder, md *markdown.Converter) *Engine {
	return &Engine{
		docs:  docs,
		md:    md,
		cache: newBodyCache(),
	}
}

// SetPageCache configures the shared L2 cache.
func (e *Engine) SetPageCache(pc PageCache) {
	e.pages = pc
}

// Doc renders the doc loc/slug with the visitor's stored tab state and the
// locale's sidebar. Returns nil when the doc does not exist. A failed
// sidebar lookup only drops the sidebar.
func (e *Engine) Doc(ctx context.Context, loc locale.Locale, slug string, stored tabs.State) (*Page, error) {
	entry, err := e.load(ctx, loc, slug)
	if err != nil || entry == nil {
		return nil, err
	}
	page, err := e.build(entry, stored, nil)
	if err != nil {
		return nil, err
	}
	if page.Sidebar, err = e.docs.ListByLocale(loc); err != nil {
		slog.Warn("list sidebar docs failed", "error", err, "locale", loc)
		page.Sidebar = nil
	}
	return page, nil
}

// Click renders the doc after applying one tab click on top of the stored
// state. A click that does not resolve leaves the state unchanged; the page
// is still returned with Ignored set.
func (e *Engine) Click(ctx context.Context, loc locale.Locale, slug string, stored tabs.State, click tabs.Click) (*Page, error) {
	entry, err := e.load(ctx, loc, slug)
	if err != nil || entry == nil {
		return nil, err
	}
	return e.build(entry, stored, &click)
}

// Invalidate drops cached bodies of the given docs. It is the change
// handler of the docs watcher.
func (e *Engine) Invalidate(ctx context.Context, docs []models.Doc) {
	for _, d := range docs {
		e.cache.invalidate(d.Key())
	}
	if e.pages != nil {
		e.pages.InvalidateDocs(ctx, docs)
	}
}

// InvalidateAll drops every cached body. Bodies depend on the highlight
// style, so a server start with a new site config must not reuse them.
func (e *Engine) InvalidateAll(ctx context.Context) {
	e.cache.invalidateAll()
	if e.pages != nil {
		e.pages.InvalidateAll(ctx)
	}
}

func (e *Engine) load(ctx context.Context, loc locale.Locale, slug string) (*cachedDoc, error) {
	key := cache.DocKey(loc, slug)
	if e.pages != nil {
		if raw, ok := e.pages.Get(ctx, key); ok {
			var entry cachedDoc
			if err := json.Unmarshal(raw, &entry); err == nil {
				return &entry, nil
			}
			slog.Warn("discarding malformed page cache entry", "key", key)
		}
	}

	doc, err := e.docs.FindBySlug(loc, slug)
	if err != nil {
		return nil, fmt.Errorf("load doc: %w", err)
	}
	if doc == nil {
		return nil, nil
	}

	body, ok := e.cache.get(doc.Key(), doc.Checksum)
	if !ok {
		body, err = e.md.ToHTML(doc.Body)
		if err != nil {
			slog.Warn("markdown conversion failed, using raw body", "page", doc.Key(), "error", err)
			body = doc.Body
		}
		e.cache.put(doc.Key(), doc.Checksum, body)
	}

	entry := &cachedDoc{Locale: doc.Locale, Slug: doc.Slug, Title: doc.Title, HTML: body}
	if e.pages != nil {
		if raw, err := json.Marshal(entry); err == nil {
			e.pages.Set(ctx, key, raw)
		}
	}
	return entry, nil
}

func (e *Engine) build(entry *cachedDoc, stored tabs.State, click *tabs.Click) (*Page, error) {
	key := models.PageKey(entry.Locale, entry.Slug)

	doc, err := tabs.ParseString(entry.HTML)
	if err != nil {
		return nil, fmt.Errorf("parse doc %s: %w", key, err)
	}
	ctrl := tabs.NewController(doc, stored)

	var ignored error
	if click != nil {
		if ignored = ctrl.Click(*click); ignored != nil {
			slog.Debug("tab click ignored", "page", key, "group", click.Group, "link", click.Link, "reason", ignored)
		}
	}

	if err := doc.Bind(tabs.Binding{Endpoint: ClickEndpoint, Page: key, Target: "#" + BodyID}); err != nil {
		return nil, err
	}
	out, err := ctrl.Render()
	if err != nil {
		return nil, err
	}

	return &Page{
		Key:     key,
		Locale:  entry.Locale,
		Slug:    entry.Slug,
		Title:   entry.Title,
		Body:    template.HTML(`<div id="` + BodyID + `" class="doc-body">` + string(out) + `</div>`),
		State:   ctrl.State(),
		Ignored: ignored,
	}, nil
}

// Home builds the home page view for a locale.
func Home(cfg *site.Config, loc locale.Locale) *render.HomeView {
	v := &render.HomeView{
		GetStartedURL:   cfg.DocURL(loc, cfg.GetStartedDoc),
		GetStartedLabel: "Get Started",
		MoreLabel:       "More",
	}
	if loc == locale.Chinese {
		v.GetStartedLabel = "开始使用"
		v.MoreLabel = "更多"
	}
	for _, f := range cfg.Features {
		card := render.CardView{Name: f.Name, Image: f.Image}
		for _, l := range f.Visible() {
			card.Links = append(card.Links, render.LinkView{Label: l.Label, URL: cfg.LinkURL(loc, l)})
		}
		if f.HasMore() {
			card.MoreURL = cfg.LinkURL(loc, f.Links[0])
		}
		v.Cards = append(v.Cards, card)
	}
	return v
}
