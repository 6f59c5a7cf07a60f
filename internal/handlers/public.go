// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"bumodocs/internal/engine"
	"bumodocs/internal/locale"
	"bumodocs/internal/models"
	"bumodocs/internal/render"
	"bumodocs/internal/session"
	"bumodocs/internal/site"
	"bumodocs/internal/slug"
	"bumodocs/internal/tabs"
)

// DocRenderer renders doc pages with tab state applied.
type DocRenderer interface {
	Doc(ctx context.Context, loc locale.Locale, slug string, stored tabs.State) (*engine.Page, error)
	Click(ctx context.Context, loc locale.Locale, slug string, stored tabs.State, click tabs.Click) (*engine.Page, error)
}

// TabStates persists per-visitor tab state. SaveTab writes a single group
// so concurrent clicks on other groups of the page are kept.
type TabStates interface {
	TabState(ctx context.Context, visitor, page string) (tabs.State, error)
	SaveTab(ctx context.Context, visitor, page, group string, act tabs.Active) error
}

// Public groups handlers for the public documentation site.
type Public struct {
	site     *site.Config
	engine   DocRenderer
	states   TabStates
	renderer *render.Renderer
	origin   string
}

// NewPublic creates a new Public handler group. origin is the absolute
// origin the locale switch redirects to; when empty it is derived from
// each request.
func NewPublic(cfg *site.Config, eng DocRenderer, states TabStates, rn *render.Renderer, origin string) *Public {
	return &Public{
		site:     cfg,
		engine:   eng,
		states:   states,
		renderer: rn,
		origin:   strings.TrimSuffix(origin, "/"),
	}
}

// Home renders the home page of the locale the path belongs to.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	loc := locale.FromPath(r.URL.Path)
	p.renderer.Page(w, r, http.StatusOK, "home", &render.PageData{
		Site:   p.site,
		Locale: loc,
		Path:   r.URL.EscapedPath(),
		Home:   engine.Home(p.site, loc),
	})
}

// Doc renders a doc page with the visitor's tab state.
func (p *Public) Doc(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loc := locale.FromPath(r.URL.Path)
	id := chi.URLParam(r, "slug")
	if !slug.Valid(id) {
		p.NotFound(w, r)
		return
	}

	stored := p.loadState(ctx, models.PageKey(loc, id))
	page, err := p.engine.Doc(ctx, loc, id, stored)
	if err != nil {
		slog.Error("render doc failed", "error", err, "locale", loc, "slug", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if page == nil {
		p.NotFound(w, r)
		return
	}

	p.renderer.Page(w, r, http.StatusOK, "doc", &render.PageData{
		Site:   p.site,
		Locale: loc,
		Path:   r.URL.EscapedPath(),
		Title:  page.Title,
		Doc:    page.View(p.site),
	})
}

// TabClick applies one tab click for the visitor. htmx requests receive
// the updated doc body, datastar requests an SSE element patch, and plain
// form posts a redirect back to the doc. A click that does not resolve
// leaves the stored state unchanged and returns the unchanged body.
func (p *Public) TabClick(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in clickInput
	if IsDataStar(r) {
		if err := datastar.ReadSignals(r, &in); err != nil {
			http.Error(w, "invalid signals", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		in = clickInput{Page: r.PostForm.Get("page"), Group: r.PostForm.Get("group"), Link: r.PostForm.Get("link")}
	}
	if msg := validateClick(in); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	loc, id, _ := models.ParsePageKey(in.Page)
	stored := p.loadState(ctx, in.Page)

	page, err := p.engine.Click(ctx, loc, id, stored, tabs.Click{Group: in.Group, Link: in.Link})
	if err != nil {
		slog.Error("tab click failed", "error", err, "page", in.Page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if page == nil {
		http.NotFound(w, r)
		return
	}

	if page.Ignored == nil && p.states != nil {
		if visitor := session.VisitorFrom(ctx); visitor != "" {
			if err := p.states.SaveTab(ctx, visitor, page.Key, in.Group, page.State[in.Group]); err != nil {
				slog.Warn("save tab state failed", "error", err, "page", page.Key, "group", in.Group)
			}
		}
	}

	switch {
	case render.IsHTMX(r):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Language", loc.Tag().String())
		w.Write([]byte(page.Body))
	case IsDataStar(r):
		sse := datastar.NewSSE(w, r)
		if err := sse.PatchElements(string(page.Body)); err != nil {
			slog.Warn("patch doc body failed", "error", err, "page", page.Key)
		}
	default:
		http.Redirect(w, r, p.site.DocURL(loc, id), http.StatusSeeOther)
	}
}

// LocaleSwitch redirects to the same page in the other locale. No state is
// stored: the target is computed from the source path alone.
func (p *Public) LocaleSwitch(w http.ResponseWriter, r *http.Request) {
	from := switchSource(r.URL.Query().Get("from"), r.Referer(), r.Host)
	target := locale.Target(p.requestOrigin(r), from)
	slog.Debug("locale switch", "from", from, "to", target)
	http.Redirect(w, r, target, http.StatusFound)
}

// NotFound renders the site's 404 page.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, r, http.StatusNotFound, "not_found", &render.PageData{
		Site:   p.site,
		Locale: locale.FromPath(r.URL.Path),
		Path:   r.URL.EscapedPath(),
		Title:  "Page Not Found",
	})
}

// loadState reads the visitor's stored state for a page. Errors degrade to
// the markup's own state.
func (p *Public) loadState(ctx context.Context, page string) tabs.State {
	visitor := session.VisitorFrom(ctx)
	if visitor == "" || p.states == nil {
		return nil
	}
	st, err := p.states.TabState(ctx, visitor, page)
	if err != nil {
		slog.Warn("load tab state failed", "error", err, "page", page)
		return nil
	}
	return st
}

func (p *Public) requestOrigin(r *http.Request) string {
	if p.origin != "" {
		return p.origin
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// IsDataStar reports whether the request was made by datastar, which
// expects Server-Sent Events.
func IsDataStar(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}
