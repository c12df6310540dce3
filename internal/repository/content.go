// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package repository

import (
	"context"
	"fmt"
	"slices"
	"time"

	"aurelux/internal/activity"
	"aurelux/internal/content"
	"aurelux/internal/models"
)

// ReadFullContent composes the settings singleton with the active
// products. With neither stored it returns the all-defaults document.
func (r *Repository) ReadFullContent(ctx context.Context) (models.FullContent, error) {
	rec, err := r.settings.Get(ctx)
	if err != nil {
		return models.FullContent{}, fmt.Errorf("read settings: %w", err)
	}
	products, err := r.ListProducts(ctx)
	if err != nil {
		return models.FullContent{}, err
	}

	if rec == nil && len(products) == 0 {
		return content.DefaultContent(), nil
	}

	doc := models.FullContent{Settings: content.DefaultSettings(), Products: products}
	if rec != nil {
		doc.Settings = rec.Settings
	}
	return content.NormalizeContent(doc), nil
}

// WriteFullContent replaces the whole content document. Every media field
// is checked before anything is written. Products are upserted in input
// order with sort orders 10, 20, ...; stored products missing from the new
// set are removed. The normalized document is returned.
func (r *Repository) WriteFullContent(ctx context.Context, raw any, actor string) (models.FullContent, error) {
	actor = models.NormalizeActor(actor)
	next := content.NormalizeContent(raw)

	if err := r.validateSettingsMedia(&next.Settings); err != nil {
		return models.FullContent{}, err
	}
	for i := range next.Products {
		if err := r.validateProductMedia(&next.Products[i]); err != nil {
			return models.FullContent{}, err
		}
	}

	before, err := r.ReadFullContent(ctx)
	if err != nil {
		return models.FullContent{}, err
	}
	existing, err := r.products.IDs(ctx, true)
	if err != nil {
		return models.FullContent{}, fmt.Errorf("list product ids: %w", err)
	}

	now := r.stamp()
	keep := make([]string, 0, len(next.Products))
	for i, p := range next.Products {
		rec := &models.ProductRecord{
			Product:   p,
			Slug:      p.ID,
			Status:    models.ProductStatusPublished,
			SortOrder: (i + 1) * 10,
			Audit:     models.Audit{CreatedAt: now, CreatedBy: actor, UpdatedAt: now, UpdatedBy: actor},
		}
		if err := r.products.Upsert(ctx, rec); err != nil {
			return models.FullContent{}, fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
		keep = append(keep, p.ID)
	}

	var stale []string
	for _, id := range existing {
		if !slices.Contains(keep, id) {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		if err := r.products.DeleteMany(ctx, stale); err != nil {
			return models.FullContent{}, fmt.Errorf("delete removed products: %w", err)
		}
	}

	if err := r.saveSettings(ctx, next.Settings, actor, now); err != nil {
		return models.FullContent{}, err
	}

	for i := range next.Products {
		if err := r.syncProductLinks(ctx, &next.Products[i], actor); err != nil {
			return models.FullContent{}, err
		}
	}
	if err := r.syncSettingsLinks(ctx, &next.Settings, actor); err != nil {
		return models.FullContent{}, err
	}

	r.recorder.Record(ctx, activity.Entry{
		Actor:  actor,
		Action: models.ActionContentReplace,
		Target: r.settingsRef(),
		Before: before,
		After:  next,
		Metadata: map[string]any{
			"source":       "api/admin/content",
			"productCount": len(next.Products),
			"removedCount": len(stale),
		},
	})

	return next, nil
}

// ReadSettings returns the settings sections, defaults when never written.
func (r *Repository) ReadSettings(ctx context.Context) (models.Settings, error) {
	rec, err := r.settings.Get(ctx)
	if err != nil {
		return models.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	if rec == nil {
		return content.DefaultSettings(), nil
	}
	return content.NormalizeSettings(rec.Settings), nil
}

// UpdateSettings merges the sections present in partial key by key onto
// the current settings. Absent sections are left untouched, as are keys
// a section omits. The refreshed full content is returned.
func (r *Repository) UpdateSettings(ctx context.Context, partial any, actor string) (models.FullContent, error) {
	actor = models.NormalizeActor(actor)

	current, err := r.ReadSettings(ctx)
	if err != nil {
		return models.FullContent{}, err
	}

	merged := mergeSections(content.AsObject(current), content.AsObject(partial))
	next := content.NormalizeSettings(merged)
	if err := r.validateSettingsMedia(&next); err != nil {
		return models.FullContent{}, err
	}

	if err := r.saveSettings(ctx, next, actor, r.stamp()); err != nil {
		return models.FullContent{}, err
	}
	if err := r.syncSettingsLinks(ctx, &next, actor); err != nil {
		return models.FullContent{}, err
	}

	r.recorder.Record(ctx, activity.Entry{
		Actor:  actor,
		Action: models.ActionSettingsUpdate,
		Target: r.settingsRef(),
		Before: current,
		After:  next,
	})

	return r.ReadFullContent(ctx)
}

func (r *Repository) saveSettings(ctx context.Context, s models.Settings, actor string, now time.Time) error {
	rec := &models.SettingsRecord{
		ID:            r.names.SettingsID,
		Settings:      s,
		SchemaVersion: models.SettingsSchemaVersion,
		Audit:         models.Audit{CreatedAt: now, CreatedBy: actor, UpdatedAt: now, UpdatedBy: actor},
	}
	if err := r.settings.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// mergeSections overlays each section object of partial onto current.
// Sections that are missing from partial or are not objects are kept.
func mergeSections(current, partial map[string]any) map[string]any {
	out := make(map[string]any, len(models.SettingsSections))
	for _, section := range models.SettingsSections {
		base := content.AsObject(current[section])
		patch, ok := partial[section].(map[string]any)
		if !ok {
			out[section] = base
			continue
		}
		sec := make(map[string]any, len(base)+len(patch))
		for k, v := range base {
			sec[k] = v
		}
		for k, v := range patch {
			sec[k] = v
		}
		out[section] = sec
	}
	return out
}
