// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render produces the public marketing page from the full-content
// view. The page is a single embedded html/template; output is returned as
// bytes so callers can cache it.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"aurelux/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the public page template.
type Renderer struct {
	page *template.Template
}

// New parses the embedded page template.
func New() (*Renderer, error) {
	funcs := template.FuncMap{
		// first returns the first non-blank string.
		"first": func(values ...string) string {
			for _, v := range values {
				if strings.TrimSpace(v) != "" {
					return v
				}
			}
			return ""
		},
		"isVideo": func(url string) bool {
			lower := strings.ToLower(url)
			return strings.Contains(lower, "/videos/") ||
				strings.Contains(lower, "/video/upload/") ||
				strings.HasSuffix(lower, ".mp4") ||
				strings.HasSuffix(lower, ".webm") ||
				strings.HasSuffix(lower, ".mov")
		},
		// whatsappLink turns a phone number into a wa.me link.
		"whatsappLink": func(number string) string {
			digits := strings.Map(func(r rune) rune {
				if r >= '0' && r <= '9' {
					return r
				}
				return -1
			}, number)
			if digits == "" {
				return ""
			}
			return "https://wa.me/" + digits
		},
	}

	tmpl, err := template.New("page.html").Funcs(funcs).ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Renderer{page: tmpl}, nil
}

// Page renders the marketing page for fc.
func (r *Renderer) Page(fc models.FullContent) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.page.Execute(&buf, fc); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}
