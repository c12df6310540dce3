// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"aurelux/internal/models"
)

// SettingsStore persists the site settings singleton. Each section is a
// JSONB column.
type SettingsStore struct {
	db *sql.DB
	id string
}

// NewSettingsStore creates a SettingsStore addressing the row with id.
func NewSettingsStore(db *sql.DB, id string) *SettingsStore {
	if id == "" {
		id = models.SettingsDocumentID
	}
	return &SettingsStore{db: db, id: id}
}

// Get returns the settings row, or nil if it was never written.
func (s *SettingsStore) Get(ctx context.Context) (*models.SettingsRecord, error) {
	var (
		rec                                          models.SettingsRecord
		hero, about, contact, socials, brand, footer []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, hero, about, contact, socials, brand, footer, schema_version,
			created_at, created_by, updated_at, updated_by
		FROM site_settings WHERE id = $1`, s.id,
	).Scan(
		&rec.ID, &hero, &about, &contact, &socials, &brand, &footer, &rec.SchemaVersion,
		&rec.CreatedAt, &rec.CreatedBy, &rec.UpdatedAt, &rec.UpdatedBy,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	sections := []struct {
		raw []byte
		dst any
	}{
		{hero, &rec.Hero},
		{about, &rec.About},
		{contact, &rec.Contact},
		{socials, &rec.Socials},
		{brand, &rec.Brand},
		{footer, &rec.Footer},
	}
	for _, sec := range sections {
		if err := fromJSONB(sec.raw, sec.dst); err != nil {
			return nil, fmt.Errorf("get settings: %w", err)
		}
	}
	return &rec, nil
}

// Upsert writes the settings row, keeping the original creation stamps.
func (s *SettingsStore) Upsert(ctx context.Context, rec *models.SettingsRecord) error {
	args := []any{s.id}
	for _, section := range []any{rec.Hero, rec.About, rec.Contact, rec.Socials, rec.Brand, rec.Footer} {
		b, err := toJSONB(section)
		if err != nil {
			return err
		}
		args = append(args, b)
	}
	args = append(args, rec.SchemaVersion, rec.CreatedAt, rec.CreatedBy, rec.UpdatedAt, rec.UpdatedBy)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO site_settings (id, hero, about, contact, socials, brand, footer,
			schema_version, created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			hero = EXCLUDED.hero,
			about = EXCLUDED.about,
			contact = EXCLUDED.contact,
			socials = EXCLUDED.socials,
			brand = EXCLUDED.brand,
			footer = EXCLUDED.footer,
			schema_version = EXCLUDED.schema_version,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
