// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"aurelux/internal/models"
)

// ActivityStore appends and queries the activity log. Rows are never
// updated or deleted.
type ActivityStore struct {
	db *sql.DB
}

// NewActivityStore creates a new ActivityStore with the given database connection.
func NewActivityStore(db *sql.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// Append inserts one entry.
func (s *ActivityStore) Append(ctx context.Context, e *models.ActivityEntry) error {
	var collection, targetID *string
	if e.Target != nil {
		collection, targetID = &e.Target.Collection, &e.Target.ID
	}
	changes, err := toJSONB(e.Changes)
	if err != nil {
		return err
	}
	var metadata []byte
	if e.Metadata != nil {
		if metadata, err = toJSONB(e.Metadata); err != nil {
			return err
		}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO activity_logs (id, actor, action, target_collection, target_id, changes, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Actor, e.Action, collection, targetID, changes, metadata, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

// List returns entries matching filter, newest first.
func (s *ActivityStore) List(ctx context.Context, f models.ActivityFilter) ([]models.ActivityEntry, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Collection != "" {
		add("target_collection = $%d", f.Collection)
	}
	if f.TargetID != "" {
		add("target_id = $%d", f.TargetID)
	}
	if f.Actor != "" {
		add("actor = $%d", f.Actor)
	}

	query := `SELECT id, actor, action, target_collection, target_id, changes, metadata, created_at FROM activity_logs`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	items := []models.ActivityEntry{}
	for rows.Next() {
		var (
			e                 models.ActivityEntry
			collection, id    sql.NullString
			changes, metadata []byte
		)
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &collection, &id, &changes, &metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if collection.Valid || id.Valid {
			e.Target = &models.EntityRef{Collection: collection.String, ID: id.String}
		}
		if err := fromJSONB(changes, &e.Changes); err != nil {
			return nil, err
		}
		if err := fromJSONB(metadata, &e.Metadata); err != nil {
			return nil, err
		}
		if e.Changes == nil {
			e.Changes = []models.ChangeEntry{}
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
