// Package session provides anonymous, Valkey-backed visitor sessions.
// A visitor is identified by a random cookie; the session hash stores the
// tab the visitor picked in every group they clicked, one field per page and
// group ("<page>|<group>"), with automatic TTL expiry. Saving a click writes
// only its own field, so concurrent clicks on other groups are never lost.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"bumodocs/internal/tabs"
)

const (
	// CookieName is the name of the visitor cookie sent to the browser.
	CookieName = "bumo_visitor"

	// DefaultTTL is how long a visitor's tab state lives without activity.
	DefaultTTL = 30 * 24 * time.Hour

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "session:"

	// idLength is the byte length of the random visitor ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Store manages visitor sessions in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store backed by the given Valkey client.
// secure sets the Secure flag on the cookie.
func NewStore(client *redis.Client, ttl time.Duration, secure bool) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl, secure: secure}
}

// Visitor returns the visitor ID carried by the request cookie.
func (s *Store) Visitor(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || !validID(cookie.Value) {
		return "", false
	}
	return cookie.Value, true
}

// Ensure returns the request's visitor ID, issuing a new one with a cookie
// when the request has none. Nothing is written to Valkey until a tab state
// is saved.
func (s *Store) Ensure(w http.ResponseWriter, r *http.Request) (string, error) {
	if id, ok := s.Visitor(r); ok {
		return id, nil
	}
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
	return id, nil
}

// fieldSep joins page key and group key in a hash field. Page keys never
// contain it.
const fieldSep = "|"

func tabField(page, group string) string {
	return page + fieldSep + group
}

// TabState loads the tabs a visitor picked on a page. It returns nil when
// nothing is stored.
func (s *Store) TabState(ctx context.Context, visitor, page string) (tabs.State, error) {
	if visitor == "" {
		return nil, nil
	}
	fields, err := s.client.HGetAll(ctx, keyPrefix+visitor).Result()
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var st tabs.State
	prefix := page + fieldSep
	for field, payload := range fields {
		group, ok := strings.CutPrefix(field, prefix)
		if !ok || group == "" {
			continue
		}
		var act tabs.Active
		if err := json.Unmarshal([]byte(payload), &act); err != nil {
			return nil, fmt.Errorf("session unmarshal %s: %w", field, err)
		}
		if st == nil {
			st = make(tabs.State)
		}
		st[group] = act
	}
	return st, nil
}

// SaveTab stores the tab a visitor picked in one group of a page and
// resets the session TTL. Other groups are not touched.
func (s *Store) SaveTab(ctx context.Context, visitor, page, group string, act tabs.Active) error {
	if visitor == "" {
		return errors.New("session update: no visitor")
	}
	if group == "" {
		return errors.New("session update: no group")
	}
	payload, err := json.Marshal(act)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}

	key := keyPrefix + visitor
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, tabField(page, group), payload)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session update: %w", err)
	}
	return nil
}

type ctxKey struct{}

// WithVisitor returns a copy of ctx carrying the visitor ID.
func WithVisitor(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// VisitorFrom returns the visitor ID stored in ctx, or "".
func VisitorFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// generateID creates a cryptographically random visitor identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func validID(id string) bool {
	if len(id) != idLength*2 {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}
