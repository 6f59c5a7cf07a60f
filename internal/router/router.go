// Package router wires the HTTP routes and middleware chain of the
// documentation server.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"bumodocs/internal/engine"
	"bumodocs/internal/handlers"
	"bumodocs/internal/locale"
	"bumodocs/internal/middleware"
)

// Deps are the collaborators the router mounts.
type Deps struct {
	Public  *handlers.Public
	Visitor middleware.VisitorIssuer
	Limiter *middleware.RateLimiter
	Static  fs.FS // rooted at the directory holding css/ and img/
	CSP     string
}

// New creates the chi router with middleware and routes wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware applied to every request.
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(d.CSP))

	r.Get("/health", healthHandler)

	if d.Static != nil {
		files := http.FileServer(http.FS(d.Static))
		r.Handle("/static/*", http.StripPrefix("/static/", files))
		r.Handle("/img/*", http.StripPrefix("/", files))
	}

	// Site pages carry the visitor cookie so tab state can follow them.
	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5, "text/html", "text/event-stream"))
		if d.Visitor != nil {
			r.Use(middleware.Visitor(d.Visitor))
		}

		r.Get("/", d.Public.Home)
		r.Get("/"+locale.Prefix+"/", d.Public.Home)
		r.Get("/"+locale.Prefix, redirectSlash)
		r.Get("/docs/{slug}", d.Public.Doc)
		r.Get("/"+locale.Prefix+"/docs/{slug}", d.Public.Doc)
		r.Get(locale.SwitchPath, d.Public.LocaleSwitch)

		r.Group(func(r chi.Router) {
			if d.Limiter != nil {
				r.Use(d.Limiter.Middleware)
			}
			r.Post(engine.ClickEndpoint, d.Public.TabClick)
		})
	})

	r.NotFound(d.Public.NotFound)

	return r
}

// redirectSlash sends the bare locale prefix to its home page.
func redirectSlash(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
