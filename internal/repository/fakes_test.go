// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"aurelux/internal/models"
)

// memProducts is an in-memory ProductStore.
type memProducts struct {
	mu      sync.Mutex
	records map[string]models.ProductRecord
	failOn  string // Upsert fails for this id
	// raceIDs are claimed by a simulated concurrent writer right before
	// Insert runs.
	raceIDs []string
}

func newMemProducts() *memProducts {
	return &memProducts{records: map[string]models.ProductRecord{}}
}

func (m *memProducts) ListActive(context.Context) ([]models.ProductRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ProductRecord
	for _, rec := range m.records {
		if !rec.IsDeleted {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (m *memProducts) FindActive(_ context.Context, id string) (*models.ProductRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok || rec.IsDeleted {
		return nil, nil
	}
	return &rec, nil
}

func (m *memProducts) IDs(_ context.Context, includeDeleted bool) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, rec := range m.records {
		if includeDeleted || !rec.IsDeleted {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memProducts) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[id]
	return ok, nil
}

func (m *memProducts) Upsert(_ context.Context, rec *models.ProductRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == m.failOn {
		return errors.New("disk full")
	}
	next := *rec
	if prev, ok := m.records[rec.ID]; ok {
		next.CreatedAt, next.CreatedBy = prev.CreatedAt, prev.CreatedBy
	}
	next.IsDeleted = false
	m.records[rec.ID] = next
	return nil
}

func (m *memProducts) Insert(_ context.Context, rec *models.ProductRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.raceIDs) > 0 {
		stolen := m.raceIDs[0]
		m.raceIDs = m.raceIDs[1:]
		m.records[stolen] = models.ProductRecord{Product: models.Product{ID: stolen}}
	}
	if _, ok := m.records[rec.ID]; ok {
		return ErrDuplicateKey
	}
	m.records[rec.ID] = *rec
	return nil
}

func (m *memProducts) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

func (m *memProducts) DeleteMany(_ context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.records, id)
	}
	return nil
}

// memSettings is an in-memory SettingsStore.
type memSettings struct {
	mu     sync.Mutex
	rec    *models.SettingsRecord
	writes int
}

func (m *memSettings) Get(context.Context) (*models.SettingsRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil {
		return nil, nil
	}
	cp := *m.rec
	return &cp, nil
}

func (m *memSettings) Upsert(_ context.Context, rec *models.SettingsRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := *rec
	if m.rec != nil {
		next.CreatedAt, next.CreatedBy = m.rec.CreatedAt, m.rec.CreatedBy
	}
	m.rec = &next
	m.writes++
	return nil
}

// memMedia is an in-memory MediaAssetStore.
type memMedia struct {
	mu     sync.Mutex
	assets map[string]*models.MediaAsset
}

func newMemMedia() *memMedia {
	return &memMedia{assets: map[string]*models.MediaAsset{}}
}

func (m *memMedia) Upsert(_ context.Context, asset *models.MediaAsset, link *models.EntityRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.assets[asset.URL]
	if !ok {
		cp := *asset
		cp.LinkedEntities = nil
		cur = &cp
		m.assets[asset.URL] = cur
	} else {
		cur.Type, cur.Usage = asset.Type, asset.Usage
		cur.MimeType, cur.SizeBytes, cur.OriginalName = asset.MimeType, asset.SizeBytes, asset.OriginalName
		cur.LinkedEntity = nil
		cur.UpdatedAt, cur.UpdatedBy = asset.UpdatedAt, asset.UpdatedBy
	}
	cur.IsDeleted = false
	if link != nil {
		l := *link
		cur.LinkedEntity = &l
		if !cur.HasLink(l) {
			cur.LinkedEntities = append(cur.LinkedEntities, l)
		}
	}
	return nil
}

func (m *memMedia) MarkDeleted(_ context.Context, url, actor string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.assets[url]
	if !ok {
		return false, nil
	}
	cur.IsDeleted = true
	cur.UpdatedAt, cur.UpdatedBy = at, actor
	return true, nil
}

func (m *memMedia) FindByURL(_ context.Context, url string) (*models.MediaAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.assets[url]
	if !ok {
		return nil, nil
	}
	cp := *cur
	return &cp, nil
}

// memActivity is an in-memory activity store.
type memActivity struct {
	mu      sync.Mutex
	entries []models.ActivityEntry
	fail    bool
}

func (m *memActivity) Append(_ context.Context, e *models.ActivityEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("activity store down")
	}
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memActivity) List(_ context.Context, f models.ActivityFilter) ([]models.ActivityEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ActivityEntry
	for i := len(m.entries) - 1; i >= 0 && len(out) < f.Limit; i-- {
		e := m.entries[i]
		if f.Actor != "" && e.Actor != f.Actor {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memActivity) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Action
	}
	return out
}

// uploadsPolicy treats /uploads/ and the fake CDN as managed.
type uploadsPolicy struct{}

func (uploadsPolicy) IsManagedURL(url string) bool {
	return strings.HasPrefix(url, "/uploads/") || strings.HasPrefix(url, "https://cdn.aurelux.test/")
}

type fixture struct {
	repo     *Repository
	products *memProducts
	settings *memSettings
	media    *memMedia
	activity *memActivity
	clock    time.Time
}

func newFixture() *fixture {
	f := &fixture{
		products: newMemProducts(),
		settings: &memSettings{},
		media:    newMemMedia(),
		activity: &memActivity{},
		clock:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.repo = New(Stores{
		Products: f.products,
		Settings: f.settings,
		Media:    f.media,
		Activity: f.activity,
	}, uploadsPolicy{}, WithClock(func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}))
	return f
}
