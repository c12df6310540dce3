// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package repository

import (
	"context"
	"fmt"
	"strings"

	"aurelux/internal/activity"
	"aurelux/internal/apperr"
	"aurelux/internal/media"
	"aurelux/internal/models"
)

// MediaInput describes a freshly stored upload.
type MediaInput struct {
	URL          string
	Type         models.MediaKind
	MimeType     string
	SizeBytes    *int64
	OriginalName string
	Usage        string
}

// RegisterMedia records an upload in the asset registry.
func (r *Repository) RegisterMedia(ctx context.Context, in MediaInput, actor string) (*models.MediaAsset, error) {
	actor = models.NormalizeActor(actor)
	url := strings.TrimSpace(in.URL)
	if url == "" {
		return nil, apperr.Validation("Media URL is required.")
	}

	kind := in.Type
	if kind != models.MediaImage && kind != models.MediaVideo {
		kind = media.KindFromURL(url)
	}

	now := r.stamp()
	asset := &models.MediaAsset{
		URL:          url,
		Type:         kind,
		MimeType:     in.MimeType,
		SizeBytes:    in.SizeBytes,
		OriginalName: in.OriginalName,
		Usage:        media.NormalizeUsage(in.Usage),
		Audit:        models.Audit{CreatedAt: now, CreatedBy: actor, UpdatedAt: now, UpdatedBy: actor},
	}
	if err := r.media.Upsert(ctx, asset, nil); err != nil {
		return nil, fmt.Errorf("register media: %w", err)
	}

	r.recorder.Record(ctx, activity.Entry{
		Actor:  actor,
		Action: models.ActionMediaUpload,
		Target: &models.EntityRef{Collection: r.names.Media, ID: url},
		After:  asset,
		Metadata: map[string]any{
			"type":  string(kind),
			"url":   url,
			"usage": asset.Usage,
		},
	})

	return asset, nil
}

// RemoveMedia soft-deletes an asset record after its file was removed.
// It reports whether a record existed.
func (r *Repository) RemoveMedia(ctx context.Context, url, actor string) (bool, error) {
	actor = models.NormalizeActor(actor)
	url = strings.TrimSpace(url)
	if url == "" {
		return false, nil
	}

	found, err := r.media.MarkDeleted(ctx, url, actor, r.stamp())
	if err != nil {
		return false, fmt.Errorf("mark media deleted: %w", err)
	}

	r.recorder.Record(ctx, activity.Entry{
		Actor:  actor,
		Action: models.ActionMediaDelete,
		Target: &models.EntityRef{Collection: r.names.Media, ID: url},
		Metadata: map[string]any{
			"url":     url,
			"tracked": found,
		},
	})

	return found, nil
}

// FindMedia returns the registry record for url, or nil.
func (r *Repository) FindMedia(ctx context.Context, url string) (*models.MediaAsset, error) {
	asset, err := r.media.FindByURL(ctx, strings.TrimSpace(url))
	if err != nil {
		return nil, fmt.Errorf("find media: %w", err)
	}
	return asset, nil
}

// syncProductLinks back-references every managed image of p from the
// registry. Links are only ever added.
func (r *Repository) syncProductLinks(ctx context.Context, p *models.Product, actor string) error {
	ref := r.productRef(p.ID)
	if err := r.link(ctx, p.CardImage, models.UsageProductCard, ref, actor); err != nil {
		return err
	}
	for _, u := range p.DetailImages {
		if err := r.link(ctx, u, models.UsageProductDetail, ref, actor); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) syncSettingsLinks(ctx context.Context, s *models.Settings, actor string) error {
	ref := r.settingsRef()
	links := []struct{ url, usage string }{
		{s.Hero.VideoURL, models.UsageHeroVideo},
		{s.Hero.PromoVideoURL, models.UsagePromoVideo},
		{s.Hero.PosterImage, models.UsageHeroPoster},
		{s.Hero.HeroProductImage, models.UsageHeroProduct},
		{s.Brand.LogoImage, models.UsageBrandLogo},
	}
	for _, l := range links {
		if err := r.link(ctx, l.url, l.usage, ref, actor); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) link(ctx context.Context, url, usage string, ref *models.EntityRef, actor string) error {
	if url == "" || r.urls == nil || !r.urls.IsManagedURL(url) {
		return nil
	}
	now := r.stamp()
	asset := &models.MediaAsset{
		URL:   url,
		Type:  media.KindFromURL(url),
		Usage: usage,
		Audit: models.Audit{CreatedAt: now, CreatedBy: actor, UpdatedAt: now, UpdatedBy: actor},
	}
	if err := r.media.Upsert(ctx, asset, ref); err != nil {
		return fmt.Errorf("link media %s: %w", url, err)
	}
	return nil
}
