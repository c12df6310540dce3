// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package activity builds structural before/after diffs and appends audit
// entries for admin actions. Recording is best-effort: a failing store is
// logged and never reported to the caller.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"aurelux/internal/models"
)

// DefaultListLimit bounds activity listings when no limit is given.
const DefaultListLimit = 50

// MaxListLimit is the largest accepted listing limit.
const MaxListLimit = 500

// Store persists activity entries.
type Store interface {
	Append(ctx context.Context, entry *models.ActivityEntry) error
	List(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityEntry, error)
}

// Entry describes one admin action to record.
type Entry struct {
	Actor    string
	Action   string
	Target   *models.EntityRef
	Before   any
	After    any
	Metadata map[string]any
}

// Recorder appends activity entries to a Store.
type Recorder struct {
	store Store
	now   func() time.Time
}

// NewRecorder creates a Recorder. A nil store makes Record a no-op.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// Record computes the diff for e and appends it. It never fails: store
// errors and panics are logged and dropped.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil || r.store == nil {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Warn("activity log panic recovered", "action", e.Action, "error", fmt.Sprint(rec))
		}
	}()

	action := e.Action
	if action == "" {
		action = "unknown.action"
	}

	entry := &models.ActivityEntry{
		ID:        uuid.New(),
		Actor:     models.NormalizeActor(e.Actor),
		Action:    action,
		Target:    e.Target,
		Changes:   BuildChangeDiff(e.Before, e.After),
		Metadata:  e.Metadata,
		CreatedAt: r.now().UTC(),
	}

	if err := r.store.Append(ctx, entry); err != nil {
		slog.Warn("activity log append failed",
			"action", entry.Action,
			"actor", entry.Actor,
			"error", err,
		)
	}
}

// Recent lists entries newest first, clamping the limit.
func (r *Recorder) Recent(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityEntry, error) {
	if r == nil || r.store == nil {
		return []models.ActivityEntry{}, nil
	}
	filter.Limit = ClampLimit(filter.Limit)
	entries, err := r.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return entries, nil
}

// ClampLimit maps non-positive limits to DefaultListLimit and caps large
// ones at MaxListLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
