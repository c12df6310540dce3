// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth guards the admin API. Sessions are stateless HS256 tokens
// carried in an HttpOnly cookie; admin passwords are bcrypt hashes, with
// scrypt hashes from the previous system still accepted.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"aurelux/internal/models"
)

const (
	// CookieName is the name of the admin session cookie.
	CookieName = "aurelux_admin_session"

	// DefaultMaxAge is how long a session stays valid.
	DefaultMaxAge = 12 * time.Hour

	// MinMaxAge is the shortest accepted session lifetime.
	MinMaxAge = 60 * time.Second

	// DevSecret signs sessions in development when no secret is configured.
	DevSecret = "dev-admin-session-secret-change-me"

	// FallbackActor is recorded for admin writes without an identity.
	FallbackActor = "admin@aurelux.local"

	// ActorHeader lets trusted callers name the actor explicitly.
	ActorHeader = "X-Admin-User"
)

// ErrInvalidEmail is returned when a session is issued for a blank email.
var ErrInvalidEmail = errors.New("invalid admin email")

// Session is the verified identity carried by a session token.
type Session struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type sessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies admin session tokens.
type Sessions struct {
	secret []byte
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

// NewSessions creates a Sessions signer. maxAge is clamped to MinMaxAge;
// zero selects DefaultMaxAge. secure marks the cookie Secure.
func NewSessions(secret string, maxAge time.Duration, secure bool) *Sessions {
	if maxAge == 0 {
		maxAge = DefaultMaxAge
	}
	if maxAge < MinMaxAge {
		maxAge = MinMaxAge
	}
	return &Sessions{secret: []byte(secret), maxAge: maxAge, secure: secure, now: time.Now}
}

// MaxAge returns the session lifetime.
func (s *Sessions) MaxAge() time.Duration {
	return s.maxAge
}

// Issue signs a token for email. A blank role defaults to admin.
func (s *Sessions) Issue(email, role string) (string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", time.Time{}, ErrInvalidEmail
	}
	if role == "" {
		role = models.RoleAdmin
	}

	now := s.now().Truncate(time.Second)
	expires := now.Add(s.maxAge)
	claims := sessionClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expires, nil
}

// Verify returns the session carried by token, or nil when the token is
// malformed, wrongly signed, expired or not an admin session.
func (s *Sessions) Verify(token string) *Session {
	if token == "" {
		return nil
	}
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil
	}
	if claims.Email == "" || claims.Role != models.RoleAdmin {
		return nil
	}
	return &Session{Email: claims.Email, Role: claims.Role, ExpiresAt: claims.ExpiresAt.Time}
}

// FromRequest verifies the session cookie of r.
func (s *Sessions) FromRequest(r *http.Request) *Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}
	return s.Verify(cookie.Value)
}

// SetCookie writes the session cookie.
func (s *Sessions) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.maxAge.Seconds()),
	})
}

// ClearCookie expires the session cookie immediately.
func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// ActorFor names the identity recorded for an admin write: the
// X-Admin-User header, else the session email, else FallbackActor.
func ActorFor(r *http.Request, sess *Session) string {
	if h := strings.TrimSpace(r.Header.Get(ActorHeader)); h != "" {
		return h
	}
	if sess != nil && sess.Email != "" {
		return sess.Email
	}
	return FallbackActor
}
