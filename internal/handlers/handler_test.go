// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides the stub repository and request helpers shared
// by the handler tests. No database is needed.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"aurelux/internal/auth"
	"aurelux/internal/middleware"
	"aurelux/internal/models"
	"aurelux/internal/repository"
)

const testSecret = "handler-test-secret"

// stubRepo records calls and returns canned results.
type stubRepo struct {
	mu sync.Mutex

	content  models.FullContent
	settings models.Settings
	products []models.Product
	updated  *models.Product
	deleted  bool
	asset    *models.MediaAsset
	entries  []models.ActivityEntry
	err      error

	actors   []string
	raw      []any
	ids      []string
	media    []repository.MediaInput
	removed  []string
	filters  []models.ActivityFilter
	contentN int
}

func (s *stubRepo) record(actor string, raw any) {
	s.actors = append(s.actors, actor)
	s.raw = append(s.raw, raw)
}

func (s *stubRepo) ReadFullContent(context.Context) (models.FullContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contentN++
	return s.content, s.err
}

func (s *stubRepo) WriteFullContent(_ context.Context, raw any, actor string) (models.FullContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(actor, raw)
	return s.content, s.err
}

func (s *stubRepo) ReadSettings(context.Context) (models.Settings, error) {
	return s.settings, s.err
}

func (s *stubRepo) UpdateSettings(_ context.Context, partial any, actor string) (models.FullContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(actor, partial)
	return s.content, s.err
}

func (s *stubRepo) ListProducts(context.Context) ([]models.Product, error) {
	return s.products, s.err
}

func (s *stubRepo) CreateProduct(_ context.Context, raw any, actor string) (*models.Product, []models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(actor, raw)
	if s.err != nil {
		return nil, nil, s.err
	}
	return &s.products[len(s.products)-1], s.products, nil
}

func (s *stubRepo) UpdateProduct(_ context.Context, id string, raw any, actor string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(actor, raw)
	s.ids = append(s.ids, id)
	return s.updated, s.err
}

func (s *stubRepo) DeleteProduct(_ context.Context, id, actor string) ([]models.Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(actor, nil)
	s.ids = append(s.ids, id)
	return s.products, s.deleted, s.err
}

func (s *stubRepo) RegisterMedia(_ context.Context, in repository.MediaInput, actor string) (*models.MediaAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(actor, nil)
	s.media = append(s.media, in)
	return &models.MediaAsset{URL: in.URL, Type: in.Type, Usage: in.Usage}, s.err
}

func (s *stubRepo) RemoveMedia(_ context.Context, url, actor string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(actor, nil)
	s.removed = append(s.removed, url)
	return true, s.err
}

func (s *stubRepo) FindMedia(context.Context, string) (*models.MediaAsset, error) {
	return s.asset, s.err
}

func (s *stubRepo) RecentActivity(_ context.Context, filter models.ActivityFilter) ([]models.ActivityEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = append(s.filters, filter)
	return s.entries, s.err
}

// testSessions returns a signer shared by the request helpers.
func testSessions() *auth.Sessions {
	return auth.NewSessions(testSecret, time.Hour, false)
}

// withSession attaches a signed admin session cookie to r.
func withSession(t *testing.T, r *http.Request, email string) *http.Request {
	t.Helper()
	token, _, err := testSessions().Issue(email, models.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	return r
}

// serve runs r through LoadSession and h.
func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	middleware.LoadSession(testSessions())(h).ServeHTTP(rec, r)
	return rec
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// decodeBody decodes a recorder body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// messageOf returns the {"message"} field of an error response.
func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body messageBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode message %q: %v", rec.Body.String(), err)
	}
	return strings.TrimSpace(body.Message)
}
