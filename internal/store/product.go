// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"aurelux/internal/models"
	"aurelux/internal/repository"
)

// ProductStore handles product persistence.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore creates a new ProductStore with the given database connection.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, slug, name, full_name, usp, description, usage,
	short_list, ingredients, card_image_url, detail_image_url, detail_image_urls,
	status, sort_order, is_deleted, created_at, created_by, updated_at, updated_by`

func scanProduct(scanner interface{ Scan(...any) error }) (*models.ProductRecord, error) {
	var (
		p                                    models.ProductRecord
		shortList, ingredients, detailImages []byte
	)
	err := scanner.Scan(
		&p.ID, &p.Slug, &p.Name, &p.FullName, &p.USP, &p.Description, &p.Usage,
		&shortList, &ingredients, &p.CardImage, &p.DetailImage, &detailImages,
		&p.Status, &p.SortOrder, &p.IsDeleted, &p.CreatedAt, &p.CreatedBy, &p.UpdatedAt, &p.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	for _, col := range []struct {
		raw []byte
		dst *[]string
	}{
		{shortList, &p.ShortList},
		{ingredients, &p.Ingredients},
		{detailImages, &p.DetailImages},
	} {
		if err := fromJSONB(col.raw, col.dst); err != nil {
			return nil, err
		}
		*col.dst = strList(*col.dst)
	}
	return &p, nil
}

// productArgs returns the insert/upsert parameters in productColumns order.
func productArgs(p *models.ProductRecord) ([]any, error) {
	shortList, err := toJSONB(p.ShortList)
	if err != nil {
		return nil, err
	}
	ingredients, err := toJSONB(p.Ingredients)
	if err != nil {
		return nil, err
	}
	detailImages, err := toJSONB(p.DetailImages)
	if err != nil {
		return nil, err
	}
	return []any{
		p.ID, p.Slug, p.Name, p.FullName, p.USP, p.Description, p.Usage,
		shortList, ingredients, p.CardImage, p.DetailImage, detailImages,
		p.Status, p.SortOrder, p.IsDeleted, p.CreatedAt, p.CreatedBy, p.UpdatedAt, p.UpdatedBy,
	}, nil
}

const productValues = `$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19`

// ListActive returns non-deleted products by sort order, newest first on ties.
func (s *ProductStore) ListActive(ctx context.Context) ([]models.ProductRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE is_deleted = FALSE
		ORDER BY sort_order ASC, updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	items := []models.ProductRecord{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindActive retrieves a non-deleted product by id.
func (s *ProductStore) FindActive(ctx context.Context, id string) (*models.ProductRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 AND is_deleted = FALSE`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

// IDs lists product ids.
func (s *ProductStore) IDs(ctx context.Context, includeDeleted bool) ([]string, error) {
	query := `SELECT id FROM products WHERE is_deleted = FALSE ORDER BY id`
	if includeDeleted {
		query = `SELECT id FROM products ORDER BY id`
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Exists reports whether a record with id exists, deleted or not.
func (s *ProductStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("product exists: %w", err)
	}
	return exists, nil
}

// Upsert inserts or replaces a product, keeping the original creation stamps.
func (s *ProductStore) Upsert(ctx context.Context, p *models.ProductRecord) error {
	args, err := productArgs(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (`+productValues+`)
		ON CONFLICT (id) DO UPDATE SET
			slug = EXCLUDED.slug,
			name = EXCLUDED.name,
			full_name = EXCLUDED.full_name,
			usp = EXCLUDED.usp,
			description = EXCLUDED.description,
			usage = EXCLUDED.usage,
			short_list = EXCLUDED.short_list,
			ingredients = EXCLUDED.ingredients,
			card_image_url = EXCLUDED.card_image_url,
			detail_image_url = EXCLUDED.detail_image_url,
			detail_image_urls = EXCLUDED.detail_image_urls,
			status = EXCLUDED.status,
			sort_order = EXCLUDED.sort_order,
			is_deleted = FALSE,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// Insert creates a product. A taken id or slug yields
// repository.ErrDuplicateKey.
func (s *ProductStore) Insert(ctx context.Context, p *models.ProductRecord) error {
	args, err := productArgs(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO products (`+productColumns+`) VALUES (`+productValues+`)`, args...)
	if isUniqueViolation(err) {
		return fmt.Errorf("insert product %s: %w", p.ID, repository.ErrDuplicateKey)
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Delete hard-removes a product.
func (s *ProductStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete product rows: %w", err)
	}
	return n > 0, nil
}

// DeleteMany hard-removes every listed product.
func (s *ProductStore) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("delete products: %w", err)
	}
	return nil
}
