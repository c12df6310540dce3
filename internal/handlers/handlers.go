// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON admin API, the admin auth endpoints
// and the public read endpoints. Handler groups hold only what they need
// and translate typed errors into HTTP statuses with a {"message": ...}
// body.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"aurelux/internal/apperr"
	"aurelux/internal/models"
	"aurelux/internal/repository"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 2 << 20

// ContentReader reads the composed full-content view.
type ContentReader interface {
	ReadFullContent(ctx context.Context) (models.FullContent, error)
}

// Repository is the content API behind the admin endpoints.
// *repository.Repository implements it.
type Repository interface {
	ContentReader
	WriteFullContent(ctx context.Context, raw any, actor string) (models.FullContent, error)
	ReadSettings(ctx context.Context) (models.Settings, error)
	UpdateSettings(ctx context.Context, partial any, actor string) (models.FullContent, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, raw any, actor string) (*models.Product, []models.Product, error)
	UpdateProduct(ctx context.Context, id string, raw any, actor string) (*models.Product, error)
	DeleteProduct(ctx context.Context, id, actor string) ([]models.Product, bool, error)
	RegisterMedia(ctx context.Context, in repository.MediaInput, actor string) (*models.MediaAsset, error)
	RemoveMedia(ctx context.Context, url, actor string) (bool, error)
	FindMedia(ctx context.Context, url string) (*models.MediaAsset, error)
	RecentActivity(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityEntry, error)
}

var _ Repository = (*repository.Repository)(nil)

// messageBody is the error payload shape.
type messageBody struct {
	Message string `json:"message"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeMessage sends a {"message": ...} body.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageBody{Message: message})
}

// writeError maps err to a status. Typed errors keep their message;
// anything else is logged and reported as a generic 500 with fallback.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if e, ok := apperr.As(err); ok {
		writeMessage(w, e.Status, e.Message)
		return
	}
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeMessage(w, http.StatusInternalServerError, fallback)
}

// decodeJSON reads a JSON body into dst. Numbers decode as json.Number so
// product codes and phone numbers keep their exact digits.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperr.TooLarge("Request body is too large.")
		case errors.Is(err, io.EOF):
			return apperr.Validation("Request body is required.")
		default:
			return apperr.Validation("Request body is not valid JSON.")
		}
	}
	return nil
}

// decodeObject reads a JSON object body as a generic map.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	var body any
	if err := decodeJSON(w, r, &body); err != nil {
		return nil, err
	}
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, apperr.Validation("Request body must be a JSON object.")
	}
	return obj, nil
}
