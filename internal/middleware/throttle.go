// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// loginPeekLimit bounds how much of a login body is read to find the email.
const loginPeekLimit = 64 << 10

// failureWindow counts failed sign-ins until resetAt.
type failureWindow struct {
	count   int
	resetAt time.Time
}

// LoginThrottle slows password guessing on the login endpoint. Failed
// attempts (401 responses) are counted per client IP and per client IP and
// email pair in fixed windows; a successful sign-in clears the pair.
type LoginThrottle struct {
	mu         sync.Mutex
	failures   map[string]*failureWindow
	perAccount int
	perClient  int
	window     time.Duration
	now        func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// NewLoginThrottle allows perAccount failures for one email and perClient
// failures overall from one IP within each window. A janitor goroutine
// drops expired windows until Stop is called.
func NewLoginThrottle(perAccount, perClient int, window time.Duration) *LoginThrottle {
	t := &LoginThrottle{
		failures:   make(map[string]*failureWindow),
		perAccount: perAccount,
		perClient:  perClient,
		window:     window,
		now:        time.Now,
		done:       make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(window)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.sweep()
			case <-t.done:
				return
			}
		}
	}()

	return t
}

// Stop ends the janitor goroutine. It is safe to call more than once.
func (t *LoginThrottle) Stop() {
	t.stopOnce.Do(func() { close(t.done) })
}

func clientKey(ip string) string         { return "client:" + ip }
func accountKey(ip, email string) string { return "account:" + ip + "|" + email }

// blockedFor returns how long the caller must wait, or zero when the
// attempt may proceed.
func (t *LoginThrottle) blockedFor(ip, email string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var wait time.Duration
	check := func(key string, limit int) {
		w, ok := t.failures[key]
		if !ok || !now.Before(w.resetAt) {
			return
		}
		if w.count >= limit {
			wait = max(wait, w.resetAt.Sub(now))
		}
	}
	check(clientKey(ip), t.perClient)
	if email != "" {
		check(accountKey(ip, email), t.perAccount)
	}
	return wait
}

// fail records one failed attempt.
func (t *LoginThrottle) fail(ip, email string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	bump := func(key string) {
		w, ok := t.failures[key]
		if !ok || !now.Before(w.resetAt) {
			w = &failureWindow{resetAt: now.Add(t.window)}
			t.failures[key] = w
		}
		w.count++
	}
	bump(clientKey(ip))
	if email != "" {
		bump(accountKey(ip, email))
	}
}

// succeed forgets the failures of the ip and email pair.
func (t *LoginThrottle) succeed(ip, email string) {
	t.mu.Lock()
	delete(t.failures, accountKey(ip, email))
	t.mu.Unlock()
}

func (t *LoginThrottle) sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for key, w := range t.failures {
		if !now.Before(w.resetAt) {
			delete(t.failures, key)
		}
	}
}

// Middleware guards a login handler. Blocked callers get a JSON 429 with
// Retry-After; the wrapped handler's status decides whether the attempt
// counts as a failure.
func (t *LoginThrottle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		email := peekLoginEmail(r)

		if wait := t.blockedFor(ip, email); wait > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			writeMessage(w, http.StatusTooManyRequests, "Too many attempts. Try again later.")
			return
		}

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		switch {
		case wrapped.statusCode == http.StatusUnauthorized:
			t.fail(ip, email)
		case wrapped.statusCode < 300 && email != "":
			t.succeed(ip, email)
		}
	})
}

// peekLoginEmail reads the email field of a JSON login body and restores
// the body for the handler. Unreadable bodies yield "".
func peekLoginEmail(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	head, err := io.ReadAll(io.LimitReader(r.Body, loginPeekLimit))
	r.Body = readCloser{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
	if err != nil {
		return ""
	}

	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(head, &body) != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}

// readCloser replays a peeked body while closing the original.
type readCloser struct {
	io.Reader
	io.Closer
}

// clientIP extracts the client's IP address, checking X-Forwarded-For
// and X-Real-IP headers for proxied requests.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
