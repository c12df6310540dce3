// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"aurelux/internal/apperr"
	"aurelux/internal/auth"
	"aurelux/internal/cache"
	"aurelux/internal/media"
	"aurelux/internal/middleware"
)

// Admin groups the authenticated content, product, media and activity
// endpoints. Every successful write drops the public content cache.
type Admin struct {
	repo  Repository
	media *media.Manager
	cache *cache.ContentCache
}

// NewAdmin creates the admin handler group. contentCache may be nil.
func NewAdmin(repo Repository, manager *media.Manager, contentCache *cache.ContentCache) *Admin {
	return &Admin{repo: repo, media: manager, cache: contentCache}
}

// actor names the identity recorded for a write made by r.
func actor(r *http.Request) string {
	return auth.ActorFor(r, middleware.SessionFromCtx(r.Context()))
}

// GetContent returns the full-content view.
func (a *Admin) GetContent(w http.ResponseWriter, r *http.Request) {
	fc, err := a.repo.ReadFullContent(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to read content.")
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

// PutContent replaces the whole content document.
func (a *Admin) PutContent(w http.ResponseWriter, r *http.Request) {
	body, err := decodeObject(w, r)
	if err != nil {
		writeError(w, r, err, "Failed to save content.")
		return
	}

	fc, err := a.repo.WriteFullContent(r.Context(), body, actor(r))
	if err != nil {
		writeError(w, r, err, "Failed to save content.")
		return
	}
	a.cache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, fc)
}

// GetSettings returns the settings sections.
func (a *Admin) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := a.repo.ReadSettings(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to read settings.")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// PutSettings merges the supplied sections into the settings and returns
// the resulting full content.
func (a *Admin) PutSettings(w http.ResponseWriter, r *http.Request) {
	body, err := decodeObject(w, r)
	if err != nil {
		writeError(w, r, err, "Failed to save settings.")
		return
	}

	fc, err := a.repo.UpdateSettings(r.Context(), body, actor(r))
	if err != nil {
		writeError(w, r, err, "Failed to save settings.")
		return
	}
	a.cache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, fc)
}

// ListProducts returns the active products in display order.
func (a *Admin) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.repo.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to read products.")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// CreateProduct adds a product and returns the updated product list.
func (a *Admin) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := decodeObject(w, r)
	if err != nil {
		writeError(w, r, err, "Failed to create product.")
		return
	}

	_, products, err := a.repo.CreateProduct(r.Context(), body, actor(r))
	if err != nil {
		writeError(w, r, err, "Failed to create product.")
		return
	}
	a.cache.Invalidate(r.Context())
	writeJSON(w, http.StatusCreated, products)
}

// UpdateProduct merges the supplied fields into a product.
func (a *Admin) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	body, err := decodeObject(w, r)
	if err != nil {
		writeError(w, r, err, "Failed to update product.")
		return
	}

	updated, err := a.repo.UpdateProduct(r.Context(), id, body, actor(r))
	if err != nil {
		writeError(w, r, err, "Failed to update product.")
		return
	}
	if updated == nil {
		writeError(w, r, apperr.NotFound("Product not found."), "")
		return
	}
	a.cache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// DeleteProduct removes a product and returns the remaining list.
func (a *Admin) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	products, ok, err := a.repo.DeleteProduct(r.Context(), id, actor(r))
	if err != nil {
		writeError(w, r, err, "Failed to delete product.")
		return
	}
	if !ok {
		writeError(w, r, apperr.NotFound("Product not found."), "")
		return
	}
	a.cache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, products)
}
