// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package repository

import (
	"strings"

	"aurelux/internal/apperr"
	"aurelux/internal/models"
)

// staticMediaPrefixes are asset paths bundled with the site.
var staticMediaPrefixes = []string{"/assets/", "/product/", "/logo/"}

// IsAllowedMediaURL reports whether url may be stored in content: blank,
// issued by the media driver, or a bundled static asset path.
func (r *Repository) IsAllowedMediaURL(url string) bool {
	url = strings.TrimSpace(url)
	if url == "" {
		return true
	}
	if r.urls != nil && r.urls.IsManagedURL(url) {
		return true
	}
	for _, prefix := range staticMediaPrefixes {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

func (r *Repository) checkMediaURL(url, field string) error {
	if r.IsAllowedMediaURL(url) {
		return nil
	}
	return apperr.Validation("%s is not allowed. Upload the file through the admin panel or use a bundled asset path.", field)
}

func (r *Repository) validateProductMedia(p *models.Product) error {
	if err := r.checkMediaURL(p.CardImage, "cardImage"); err != nil {
		return err
	}
	if err := r.checkMediaURL(p.DetailImage, "detailImage"); err != nil {
		return err
	}
	for _, u := range p.DetailImages {
		if err := r.checkMediaURL(u, "detailImages"); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) validateSettingsMedia(s *models.Settings) error {
	checks := []struct{ url, field string }{
		{s.Hero.VideoURL, "hero.videoUrl"},
		{s.Hero.PromoVideoURL, "hero.promoVideoUrl"},
		{s.Hero.PosterImage, "hero.posterImage"},
		{s.Hero.HeroProductImage, "hero.heroProductImage"},
		{s.Brand.LogoImage, "brand.logoImage"},
	}
	for _, c := range checks {
		if err := r.checkMediaURL(c.url, c.field); err != nil {
			return err
		}
	}
	return nil
}
