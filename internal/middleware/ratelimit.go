// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// DefaultSweepInterval is how often Run drops idle clients.
const DefaultSweepInterval = 5 * time.Minute

// window holds the request timestamps of one client. A window is dead once
// sweep removed it from the client map; requests must not be recorded there.
type window struct {
	mu     sync.Mutex
	stamps []time.Time
	dead   bool
}

// RateLimiter limits requests per client address over a sliding window.
// Visitor cookies are not used as the key since a client can drop them.
type RateLimiter struct {
	mu      sync.RWMutex
	clients map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

// NewRateLimiter allows limit requests per period for each client.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Run sweeps idle clients every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// allow records a request for key and reports whether it fits the limit.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	for {
		if ok, wait, live := rl.record(rl.lookup(key)); live {
			return ok, wait
		}
	}
}

// lookup returns the window of key, creating it when missing.
func (rl *RateLimiter) lookup(key string) *window {
	rl.mu.RLock()
	win, ok := rl.clients[key]
	rl.mu.RUnlock()
	if ok {
		return win
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if win, ok = rl.clients[key]; !ok {
		win = &window{}
		rl.clients[key] = win
	}
	return win
}

// record adds a request to win. live is false when sweep dropped win after
// lookup returned it; nothing is recorded then.
func (rl *RateLimiter) record(win *window) (ok bool, wait time.Duration, live bool) {
	now := rl.now()
	cutoff := now.Add(-rl.period)

	win.mu.Lock()
	defer win.mu.Unlock()
	if win.dead {
		return false, 0, false
	}

	kept := win.stamps[:0]
	for _, ts := range win.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	win.stamps = kept

	if len(win.stamps) >= rl.limit {
		return false, win.stamps[0].Add(rl.period).Sub(now), true
	}
	win.stamps = append(win.stamps, now)
	return true, 0, true
}

// sweep drops clients without a request inside the current window. Windows
// held by a request in flight are left for the next sweep.
func (rl *RateLimiter) sweep() {
	cutoff := rl.now().Add(-rl.period)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, win := range rl.clients {
		if !win.mu.TryLock() {
			continue
		}
		if len(win.stamps) == 0 || !win.stamps[len(win.stamps)-1].After(cutoff) {
			win.dead = true
			delete(rl.clients, key)
		}
		win.mu.Unlock()
	}
}

// size reports the number of tracked clients.
func (rl *RateLimiter) size() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.clients)
}

// Middleware rejects requests over the limit with 429 and a Retry-After.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := rl.allow(clientIP(r))
		if !ok {
			secs := int(wait.Seconds())
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr. Proxy headers are resolved
// earlier by chi's RealIP middleware.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
