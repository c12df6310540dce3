// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"aurelux/internal/cache"
	"aurelux/internal/models"
	"aurelux/internal/render"
)

// homePage is the page-cache key of the marketing page.
const homePage = "home"

// Public serves the marketing page and the public content JSON. Both read
// through the Valkey content cache when one is configured.
type Public struct {
	content  ContentReader
	renderer *render.Renderer
	cache    *cache.ContentCache
}

// NewPublic creates the public handler group. contentCache may be nil.
func NewPublic(content ContentReader, renderer *render.Renderer, contentCache *cache.ContentCache) *Public {
	return &Public{content: content, renderer: renderer, cache: contentCache}
}

// Home renders the marketing page.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := p.cache.Page(ctx, homePage); ok {
		writeHTML(w, cached)
		return
	}

	fc, err := p.fullContent(ctx)
	if err != nil {
		slog.Error("read content for home page failed", "error", err)
		http.Error(w, "Content is temporarily unavailable.", http.StatusInternalServerError)
		return
	}

	page, err := p.renderer.Page(fc)
	if err != nil {
		slog.Error("render home page failed", "error", err)
		http.Error(w, "Page could not be rendered.", http.StatusInternalServerError)
		return
	}

	p.cache.SetPage(ctx, homePage, page)
	writeHTML(w, page)
}

// Content returns the full-content view as JSON.
func (p *Public) Content(w http.ResponseWriter, r *http.Request) {
	fc, err := p.fullContent(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to read content.")
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

func (p *Public) fullContent(ctx context.Context) (models.FullContent, error) {
	if fc, ok := p.cache.Content(ctx); ok {
		return *fc, nil
	}
	fc, err := p.content.ReadFullContent(ctx)
	if err != nil {
		return models.FullContent{}, err
	}
	p.cache.SetContent(ctx, &fc)
	return fc, nil
}

func writeHTML(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(page)
}
