// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// The default environment runs on in-memory fakes; integration tests that
// need PostgreSQL or Valkey are skipped when they are unavailable.
package handlers

import (
	"context"
	"net/http"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"bumodocs/internal/engine"
	"bumodocs/internal/locale"
	"bumodocs/internal/markdown"
	"bumodocs/internal/models"
	"bumodocs/internal/render"
	"bumodocs/internal/session"
	"bumodocs/internal/site"
	"bumodocs/internal/tabs"
)

const testVisitor = "visitor-1"

const sdkDoc = `# Install

<ul class="nav nav-tabs">
  <li><a class="nav-link active" data-group="sdk" data-tab="sdk-java">Java</a></li>
  <li><a class="nav-link" data-group="sdk" data-tab="sdk-go">Go</a></li>
  <li><a class="nav-link" data-group="sdk" data-tab="sdk-php">PHP</a></li>
</ul>
<div class="tab-content">
  <div class="tab-pane active" data-group="sdk" id="sdk-java">java</div>
  <div class="tab-pane" data-group="sdk" id="sdk-go">go</div>
</div>
`

const twoGroupDoc = `# Connect

<a class="nav-link active" data-group="sdk" data-tab="two-java">Java</a>
<a class="nav-link" data-group="sdk" data-tab="two-go">Go</a>
<div class="tab-pane active" data-group="sdk" id="two-java">java</div>
<div class="tab-pane" data-group="sdk" id="two-go">go</div>

<a class="nav-link active" data-group="net" data-tab="net-main">Mainnet</a>
<a class="nav-link" data-group="net" data-tab="net-test">Testnet</a>
<div class="tab-pane active" data-group="net" id="net-main">main</div>
<div class="tab-pane" data-group="net" id="net-test">test</div>
`

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// memDocs serves docs from memory.
type memDocs map[string]*models.Doc

func (m memDocs) FindBySlug(loc locale.Locale, slug string) (*models.Doc, error) {
	return m[models.PageKey(loc, slug)], nil
}

func (m memDocs) ListByLocale(loc locale.Locale) ([]models.Doc, error) {
	var out []models.Doc
	for _, d := range m {
		if d.Locale == loc {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

// memStates is an in-memory TabStates.
type memStates struct {
	mu    sync.Mutex
	state map[string]tabs.State
	saves int
}

func newMemStates() *memStates {
	return &memStates{state: make(map[string]tabs.State)}
}

func (m *memStates) TabState(_ context.Context, visitor, page string) (tabs.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state[visitor+"|"+page].Clone(), nil
}

func (m *memStates) SaveTab(_ context.Context, visitor, page, group string, act tabs.Active) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	key := visitor + "|" + page
	if m.state[key] == nil {
		m.state[key] = make(tabs.State)
	}
	m.state[key][group] = act
	return nil
}

// testEnv holds everything a handler test needs.
type testEnv struct {
	Site   *site.Config
	States *memStates
	Public *Public
	Router chi.Router
}

// newTestEnv builds handlers over in-memory docs and tab state.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg, err := site.Default()
	if err != nil {
		t.Fatalf("site config: %v", err)
	}
	rn, err := render.New(cfg)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	introLabel := "Introduction"
	docs := memDocs{
		"en/introduction_to_bumo": {Locale: locale.English, Slug: "introduction_to_bumo", Title: "Introduction to BUMO", SidebarLabel: &introLabel, Body: sdkDoc, Checksum: "en1"},
		"cn/introduction_to_bumo": {Locale: locale.Chinese, Slug: "introduction_to_bumo", Title: "BUMO 简介", Body: sdkDoc, Checksum: "cn1"},
		"en/two_groups":           {Locale: locale.English, Slug: "two_groups", Title: "Two groups", Body: twoGroupDoc, Checksum: "en2"},
	}
	states := newMemStates()
	pub := NewPublic(cfg, engine.New(docs, markdown.New("")), states, rn, "https://docs.example.com")

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(session.WithVisitor(r.Context(), testVisitor)))
		})
	})
	r.Get("/", pub.Home)
	r.Get("/cn/", pub.Home)
	r.Get("/docs/{slug}", pub.Doc)
	r.Get("/cn/docs/{slug}", pub.Doc)
	r.Post(engine.ClickEndpoint, pub.TabClick)
	r.Get(locale.SwitchPath, pub.LocaleSwitch)
	r.NotFound(pub.NotFound)

	return &testEnv{Site: cfg, States: states, Public: pub, Router: r}
}
