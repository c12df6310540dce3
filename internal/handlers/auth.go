// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"
	"time"

	"aurelux/internal/auth"
	"aurelux/internal/middleware"
)

// Auth groups the admin login, logout and session endpoints.
type Auth struct {
	authenticator *auth.Authenticator
	sessions      *auth.Sessions
}

// NewAuth creates the auth handler group.
func NewAuth(authenticator *auth.Authenticator, sessions *auth.Sessions) *Auth {
	return &Auth{authenticator: authenticator, sessions: sessions}
}

// loginRequest is the login payload. Code is required only for accounts
// with TOTP enabled.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
	Code     string `json:"code" validate:"omitempty,numeric,len=6"`
}

// sessionResponse describes the signed-in admin.
type sessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	Email         string     `json:"email,omitempty"`
	Role          string     `json:"role,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

// Login verifies credentials and sets the session cookie.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "Login failed.")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Code = strings.TrimSpace(req.Code)
	if err := validatePayload(&req); err != nil {
		writeError(w, r, err, "Login failed.")
		return
	}

	admin, err := a.authenticator.Login(r.Context(), req.Email, req.Password, req.Code)
	if err != nil {
		writeError(w, r, err, "Login failed.")
		return
	}

	token, expires, err := a.sessions.Issue(admin.Email, admin.Role)
	if err != nil {
		writeError(w, r, err, "Login failed.")
		return
	}
	a.sessions.SetCookie(w, token)

	writeJSON(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		Email:         admin.Email,
		Role:          admin.Role,
		ExpiresAt:     utcPtr(expires),
	})
}

// Logout clears the session cookie. It succeeds with or without a session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Session reports the current session.
func (a *Auth) Session(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		Email:         sess.Email,
		Role:          sess.Role,
		ExpiresAt:     utcPtr(sess.ExpiresAt),
	})
}

func utcPtr(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}
