// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"aurelux/internal/models"
)

// MediaAssetStore handles the media asset registry.
type MediaAssetStore struct {
	db *sql.DB
}

// NewMediaAssetStore creates a new MediaAssetStore with the given database connection.
func NewMediaAssetStore(db *sql.DB) *MediaAssetStore {
	return &MediaAssetStore{db: db}
}

const mediaAssetColumns = `url, type, mime_type, size_bytes, original_name, usage,
	linked_entity, linked_entities, is_deleted, created_at, created_by, updated_at, updated_by`

func scanMediaAsset(scanner interface{ Scan(...any) error }) (*models.MediaAsset, error) {
	var (
		m                models.MediaAsset
		size             sql.NullInt64
		linkOne, linkSet []byte
	)
	err := scanner.Scan(
		&m.URL, &m.Type, &m.MimeType, &size, &m.OriginalName, &m.Usage,
		&linkOne, &linkSet, &m.IsDeleted, &m.CreatedAt, &m.CreatedBy, &m.UpdatedAt, &m.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if size.Valid {
		m.SizeBytes = &size.Int64
	}
	if err := fromJSONB(linkOne, &m.LinkedEntity); err != nil {
		return nil, err
	}
	if err := fromJSONB(linkSet, &m.LinkedEntities); err != nil {
		return nil, err
	}
	if m.LinkedEntities == nil {
		m.LinkedEntities = []models.EntityRef{}
	}
	return &m, nil
}

// Upsert writes an asset by URL. Scalar fields and linked_entity take the
// latest values; the link set grows by link when it is not already present.
func (s *MediaAssetStore) Upsert(ctx context.Context, a *models.MediaAsset, link *models.EntityRef) error {
	var linkJSON []byte
	if link != nil {
		b, err := toJSONB(link)
		if err != nil {
			return err
		}
		linkJSON = b
	}
	usage := a.Usage
	if usage == "" {
		usage = models.UsageGeneric
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO media_assets (url, type, mime_type, size_bytes, original_name, usage,
			linked_entity, linked_entities, is_deleted, created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb,
			CASE WHEN $7::jsonb IS NULL THEN '[]'::jsonb ELSE jsonb_build_array($7::jsonb) END,
			FALSE, $8, $9, $10, $11)
		ON CONFLICT (url) DO UPDATE SET
			type = EXCLUDED.type,
			usage = EXCLUDED.usage,
			mime_type = EXCLUDED.mime_type,
			size_bytes = EXCLUDED.size_bytes,
			original_name = EXCLUDED.original_name,
			linked_entity = EXCLUDED.linked_entity,
			linked_entities = CASE
				WHEN EXCLUDED.linked_entity IS NULL
					OR media_assets.linked_entities @> jsonb_build_array(EXCLUDED.linked_entity)
				THEN media_assets.linked_entities
				ELSE media_assets.linked_entities || jsonb_build_array(EXCLUDED.linked_entity)
			END,
			is_deleted = FALSE,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by`,
		a.URL, string(a.Type), a.MimeType, a.SizeBytes, a.OriginalName, usage,
		linkJSON, a.CreatedAt, a.CreatedBy, a.UpdatedAt, a.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("upsert media asset: %w", err)
	}
	return nil
}

// MarkDeleted soft-deletes an asset.
func (s *MediaAssetStore) MarkDeleted(ctx context.Context, url, actor string, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE media_assets SET is_deleted = TRUE, updated_at = $2, updated_by = $3
		WHERE url = $1`, url, at, actor)
	if err != nil {
		return false, fmt.Errorf("mark media deleted: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark media deleted rows: %w", err)
	}
	return n > 0, nil
}

// FindByURL retrieves an asset regardless of its deleted flag.
func (s *MediaAssetStore) FindByURL(ctx context.Context, url string) (*models.MediaAsset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+mediaAssetColumns+` FROM media_assets WHERE url = $1`, url)
	m, err := scanMediaAsset(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media asset: %w", err)
	}
	return m, nil
}
