// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package activity

import (
	"context"
	"errors"
	"testing"

	"aurelux/internal/models"
)

type memStore struct {
	entries []models.ActivityEntry
	err     error
	panics  bool
	filter  models.ActivityFilter
}

func (m *memStore) Append(_ context.Context, e *models.ActivityEntry) error {
	if m.panics {
		panic("store exploded")
	}
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memStore) List(_ context.Context, f models.ActivityFilter) ([]models.ActivityEntry, error) {
	m.filter = f
	return m.entries, m.err
}

func TestRecorder_Record(t *testing.T) {
	store := &memStore{}
	rec := NewRecorder(store)

	rec.Record(context.Background(), Entry{
		Actor:    "  ",
		Action:   models.ActionSettingsUpdate,
		Target:   &models.EntityRef{Collection: models.CollectionSettings, ID: models.SettingsDocumentID},
		Before:   map[string]any{"hero": map[string]any{"title": "A"}},
		After:    map[string]any{"hero": map[string]any{"title": "B"}},
		Metadata: map[string]any{"source": "test"},
	})

	if len(store.entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(store.entries))
	}
	e := store.entries[0]
	if e.Actor != models.DefaultActor {
		t.Errorf("Actor = %q, want default actor", e.Actor)
	}
	if e.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("ID not assigned")
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if len(e.Changes) != 1 || e.Changes[0].Path != "hero.title" {
		t.Errorf("Changes = %+v", e.Changes)
	}
}

func TestRecorder_DefaultAction(t *testing.T) {
	store := &memStore{}
	NewRecorder(store).Record(context.Background(), Entry{})
	if store.entries[0].Action != "unknown.action" {
		t.Errorf("Action = %q", store.entries[0].Action)
	}
}

// TestRecorder_SwallowsFailures verifies that neither store errors nor
// panics escape Record.
func TestRecorder_SwallowsFailures(t *testing.T) {
	NewRecorder(&memStore{err: errors.New("db down")}).Record(context.Background(), Entry{Action: "x"})
	NewRecorder(&memStore{panics: true}).Record(context.Background(), Entry{Action: "x"})
	NewRecorder(nil).Record(context.Background(), Entry{Action: "x"})

	var nilRec *Recorder
	nilRec.Record(context.Background(), Entry{Action: "x"})
}

func TestRecorder_Recent(t *testing.T) {
	store := &memStore{}
	rec := NewRecorder(store)

	if _, err := rec.Recent(context.Background(), models.ActivityFilter{Actor: "a@b.c"}); err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if store.filter.Limit != DefaultListLimit || store.filter.Actor != "a@b.c" {
		t.Errorf("filter = %+v", store.filter)
	}

	store.err = errors.New("db down")
	if _, err := rec.Recent(context.Background(), models.ActivityFilter{}); err == nil {
		t.Error("expected list error to propagate")
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, DefaultListLimit},
		{-3, DefaultListLimit},
		{10, 10},
		{MaxListLimit + 1, MaxListLimit},
	}
	for _, tt := range tests {
		if got := ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
