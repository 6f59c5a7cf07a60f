package middleware

import (
	"log/slog"
	"net/http"

	"bumodocs/internal/session"
)

// VisitorIssuer identifies the visitor of a request, issuing an id when
// the request carries none.
type VisitorIssuer interface {
	Ensure(w http.ResponseWriter, r *http.Request) (string, error)
}

// Visitor stores the visitor id in the request context so handlers can
// load and save the visitor's tab state. Failures are logged and the
// request continues anonymously.
func Visitor(issuer VisitorIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := issuer.Ensure(w, r)
			if err != nil {
				slog.Warn("issue visitor id failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithVisitor(r.Context(), id)))
		})
	}
}
