// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"

	"aurelux/internal/auth"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the verified admin session.
	SessionKey contextKey = "session"
)

// LoadSession verifies the session cookie and stores the session in the
// request context. It does not enforce authentication.
func LoadSession(sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess := sessions.FromRequest(r); sess != nil {
				r = r.WithContext(context.WithValue(r.Context(), SessionKey, sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests without an admin session with a JSON 401.
// Must be applied after LoadSession in the middleware chain.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess == nil || sess.Role != "admin" {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFromCtx extracts the admin session from the request context.
// Returns nil if the request is not authenticated.
func SessionFromCtx(ctx context.Context) *auth.Session {
	sess, _ := ctx.Value(SessionKey).(*auth.Session)
	return sess
}
