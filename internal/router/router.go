// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Aurelux service. Routes are split into public reads, the auth endpoints
// and the admin API guarded by a session.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"aurelux/internal/auth"
	"aurelux/internal/handlers"
	"aurelux/internal/middleware"
)

// Deps holds everything the route table mounts.
type Deps struct {
	Sessions      *auth.Sessions
	Public        *handlers.Public
	Auth          *handlers.Auth
	Admin         *handlers.Admin
	LoginThrottle *middleware.LoginThrottle

	// UploadsDir is served under /uploads/ when set.
	UploadsDir string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	r.Get("/health", healthHandler)

	r.Get("/", d.Public.Home)
	r.Get("/api/content", d.Public.Content)

	if d.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadsDir)))
		r.Handle("/uploads/*", noDirListing(fs))
	}

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.NoStore)

		r.Route("/auth", func(r chi.Router) {
			if d.LoginThrottle != nil {
				r.With(d.LoginThrottle.Middleware).Post("/login", d.Auth.Login)
			} else {
				r.Post("/login", d.Auth.Login)
			}
			r.Post("/logout", d.Auth.Logout)
			r.Get("/session", d.Auth.Session)
		})

		// Completion notices for direct uploads carry their own signed
		// token; token requests check the session in the handler.
		r.Post("/media/upload", d.Admin.BlobUpload)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/content", d.Admin.GetContent)
			r.Put("/content", d.Admin.PutContent)

			r.Get("/settings", d.Admin.GetSettings)
			r.Put("/settings", d.Admin.PutSettings)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", d.Admin.ListProducts)
				r.Post("/", d.Admin.CreateProduct)
				r.Put("/{id}", d.Admin.UpdateProduct)
				r.Delete("/{id}", d.Admin.DeleteProduct)
			})

			r.Route("/media", func(r chi.Router) {
				r.Get("/", d.Admin.FindMedia)
				r.Post("/", d.Admin.UploadMedia)
				r.Delete("/", d.Admin.DeleteMedia)
			})

			r.Get("/activity", d.Admin.Activity)
		})
	})

	return r
}

// noDirListing hides directory indexes of the uploads tree.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
