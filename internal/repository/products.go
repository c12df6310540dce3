// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"aurelux/internal/activity"
	"aurelux/internal/apperr"
	"aurelux/internal/content"
	"aurelux/internal/models"
)

// maxInsertAttempts bounds id allocation retries when a concurrent create
// takes the probed id first.
const maxInsertAttempts = 5

var productCodePattern = regexp.MustCompile(`(?i)^PROD(\d+)$`)

// ListProducts returns the active products in display order.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	recs, err := r.products.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]models.Product, 0, len(recs))
	for _, rec := range recs {
		out = append(out, content.NormalizeProduct(rec.Product, 0))
	}
	return out, nil
}

// CreateProduct adds a product under the next free PROD<n> code, appended
// after the existing ones. It returns the created product and the updated
// list.
func (r *Repository) CreateProduct(ctx context.Context, raw any, actor string) (*models.Product, []models.Product, error) {
	actor = models.NormalizeActor(actor)
	p := content.NormalizeProduct(raw, 0)

	if err := r.validateProductMedia(&p); err != nil {
		return nil, nil, err
	}
	if p.Name == "" {
		return nil, nil, apperr.Validation("Product name is required.")
	}

	ids, err := r.products.IDs(ctx, false)
	if err != nil {
		return nil, nil, fmt.Errorf("list product ids: %w", err)
	}

	now := r.stamp()
	rec := &models.ProductRecord{
		Product:   p,
		Status:    models.ProductStatusPublished,
		SortOrder: (len(ids) + 1) * 10,
		Audit:     models.Audit{CreatedAt: now, CreatedBy: actor, UpdatedAt: now, UpdatedBy: actor},
	}

	candidate := maxProductCode(ids) + 1
	for attempt := 1; ; attempt++ {
		id, next, err := r.probeProductID(ctx, candidate)
		if err != nil {
			return nil, nil, err
		}
		rec.ID, rec.Slug = id, id

		err = r.products.Insert(ctx, rec)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrDuplicateKey) || attempt == maxInsertAttempts {
			return nil, nil, fmt.Errorf("insert product %s: %w", id, err)
		}
		candidate = next
	}

	created := rec.Product
	if err := r.syncProductLinks(ctx, &created, actor); err != nil {
		return nil, nil, err
	}

	products, err := r.ListProducts(ctx)
	if err != nil {
		return nil, nil, err
	}

	r.recorder.Record(ctx, activity.Entry{
		Actor:  actor,
		Action: models.ActionProductCreate,
		Target: r.productRef(created.ID),
		After:  created,
		Metadata: map[string]any{
			"beforeCount": len(ids),
			"afterCount":  len(products),
		},
	})

	return &created, products, nil
}

// probeProductID returns the first unused PROD<n> with n >= from, and the
// number to continue probing from if that id is lost to a race.
func (r *Repository) probeProductID(ctx context.Context, from int) (string, int, error) {
	for n := from; ; n++ {
		id := "PROD" + strconv.Itoa(n)
		exists, err := r.products.Exists(ctx, id)
		if err != nil {
			return "", 0, fmt.Errorf("probe product id: %w", err)
		}
		if !exists {
			return id, n + 1, nil
		}
	}
}

// maxProductCode returns the highest n among PROD<n> ids, or 0.
func maxProductCode(ids []string) int {
	highest := 0
	for _, id := range ids {
		m := productCodePattern.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return highest
}

// UpdateProduct merges the top-level fields of raw onto the stored
// product. It returns nil without error when id is not an active product.
func (r *Repository) UpdateProduct(ctx context.Context, id string, raw any, actor string) (*models.Product, error) {
	actor = models.NormalizeActor(actor)

	cur, err := r.products.FindActive(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	if cur == nil {
		return nil, nil
	}
	before := content.NormalizeProduct(cur.Product, 0)

	fields := content.AsObject(before)
	patch := content.AsObject(raw)
	for k, v := range patch {
		fields[k] = v
	}
	// The stored detailImage stays in fields, so a new gallery keeps the
	// previous lead image after its own entries.
	fields["id"] = id

	merged := content.NormalizeProduct(fields, 0)
	if err := r.validateProductMedia(&merged); err != nil {
		return nil, err
	}

	rec := &models.ProductRecord{
		Product:   merged,
		Slug:      merged.ID,
		Status:    models.ProductStatusPublished,
		SortOrder: cur.SortOrder,
		Audit: models.Audit{
			CreatedAt: cur.CreatedAt,
			CreatedBy: cur.CreatedBy,
			UpdatedAt: r.stamp(),
			UpdatedBy: actor,
		},
	}
	if err := r.products.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	if err := r.syncProductLinks(ctx, &merged, actor); err != nil {
		return nil, err
	}

	r.recorder.Record(ctx, activity.Entry{
		Actor:  actor,
		Action: models.ActionProductUpdate,
		Target: r.productRef(id),
		Before: before,
		After:  merged,
	})

	return &merged, nil
}

// DeleteProduct hard-removes a product. ok is false when nothing was
// deleted; otherwise the remaining products are returned.
func (r *Repository) DeleteProduct(ctx context.Context, id, actor string) (products []models.Product, ok bool, err error) {
	actor = models.NormalizeActor(actor)

	before, err := r.ListProducts(ctx)
	if err != nil {
		return nil, false, err
	}

	deleted, err := r.products.Delete(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("delete product %s: %w", id, err)
	}
	if !deleted {
		return nil, false, nil
	}

	after, err := r.ListProducts(ctx)
	if err != nil {
		return nil, false, err
	}

	var removed any
	for i := range before {
		if before[i].ID == id {
			removed = before[i]
			break
		}
	}
	r.recorder.Record(ctx, activity.Entry{
		Actor:  actor,
		Action: models.ActionProductDelete,
		Target: r.productRef(id),
		Before: removed,
		Metadata: map[string]any{
			"beforeCount": len(before),
			"afterCount":  len(after),
		},
	})

	return after, true, nil
}
