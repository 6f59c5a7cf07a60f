package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"bumodocs/internal/session"
)

type stubIssuer struct {
	id  string
	err error
}

func (s stubIssuer) Ensure(w http.ResponseWriter, r *http.Request) (string, error) {
	return s.id, s.err
}

func TestVisitor(t *testing.T) {
	t.Run("stores id in context", func(t *testing.T) {
		var got string
		handler := Visitor(stubIssuer{id: "v-123"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = session.VisitorFrom(r.Context())
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "v-123", got)
	})

	t.Run("continues anonymously on error", func(t *testing.T) {
		captureLogs(t)
		called := false
		handler := Visitor(stubIssuer{err: errors.New("no entropy")})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			assert.Empty(t, session.VisitorFrom(r.Context()))
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.True(t, called)
	})
}
