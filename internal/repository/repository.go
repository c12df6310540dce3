// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package repository is the single authority for reading and writing
// products and site settings. It enforces the managed-media rule on every
// write, keeps the media asset registry's back-references in step with
// content, and records an activity entry for each admin change.
//
// Writes are sequences of independent store calls. There is no
// cross-collection transaction: a failure halfway through a full-content
// replace can leave products written and settings untouched. Concurrent
// writers to the same product or to the settings singleton resolve as
// last write wins.
package repository

import (
	"context"
	"errors"
	"time"

	"aurelux/internal/activity"
	"aurelux/internal/models"
)

// ErrDuplicateKey is returned by ProductStore.Insert when the id is taken.
var ErrDuplicateKey = errors.New("duplicate key")

// ProductStore persists product records.
type ProductStore interface {
	// ListActive returns non-deleted products ordered by sort order
	// ascending, then most recently updated first.
	ListActive(ctx context.Context) ([]models.ProductRecord, error)
	// FindActive returns a non-deleted product, or nil when absent.
	FindActive(ctx context.Context, id string) (*models.ProductRecord, error)
	// IDs lists product ids, optionally including soft-deleted records.
	IDs(ctx context.Context, includeDeleted bool) ([]string, error)
	// Exists reports whether any record, deleted or not, uses id.
	Exists(ctx context.Context, id string) (bool, error)
	// Upsert writes rec by id. On an existing record CreatedAt and
	// CreatedBy are kept.
	Upsert(ctx context.Context, rec *models.ProductRecord) error
	// Insert creates rec and fails with ErrDuplicateKey if the id exists.
	Insert(ctx context.Context, rec *models.ProductRecord) error
	// Delete hard-removes one product and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
	// DeleteMany hard-removes every listed id.
	DeleteMany(ctx context.Context, ids []string) error
}

// SettingsStore persists the settings singleton.
type SettingsStore interface {
	// Get returns the singleton, or nil when it was never written.
	Get(ctx context.Context) (*models.SettingsRecord, error)
	// Upsert writes rec. On an existing record CreatedAt and CreatedBy
	// are kept.
	Upsert(ctx context.Context, rec *models.SettingsRecord) error
}

// MediaAssetStore persists the media asset registry.
type MediaAssetStore interface {
	// Upsert writes asset by URL and clears isDeleted. Type and usage are
	// overwritten; mime type, size and original name are overwritten only
	// when set. A non-nil link becomes linkedEntity and is added to
	// linkedEntities unless already present.
	Upsert(ctx context.Context, asset *models.MediaAsset, link *models.EntityRef) error
	// MarkDeleted soft-deletes the asset and reports whether it existed.
	MarkDeleted(ctx context.Context, url, actor string, at time.Time) (bool, error)
	// FindByURL returns the asset, deleted or not, or nil when absent.
	FindByURL(ctx context.Context, url string) (*models.MediaAsset, error)
}

// URLPolicy tells managed uploads apart from anything else.
type URLPolicy interface {
	IsManagedURL(url string) bool
}

// Stores groups the backends a Repository writes through.
type Stores struct {
	Products ProductStore
	Settings SettingsStore
	Media    MediaAssetStore
	Activity activity.Store
}

// Names are the collection names and settings id used in back-references
// and activity targets.
type Names struct {
	Products   string
	Settings   string
	Media      string
	SettingsID string
}

// DefaultNames returns the standard collection names.
func DefaultNames() Names {
	return Names{
		Products:   models.CollectionProducts,
		Settings:   models.CollectionSettings,
		Media:      models.CollectionMedia,
		SettingsID: models.SettingsDocumentID,
	}
}

// Option configures a Repository.
type Option func(*Repository)

// WithNames overrides collection names. Blank fields keep their defaults.
func WithNames(n Names) Option {
	return func(r *Repository) {
		if n.Products != "" {
			r.names.Products = n.Products
		}
		if n.Settings != "" {
			r.names.Settings = n.Settings
		}
		if n.Media != "" {
			r.names.Media = n.Media
		}
		if n.SettingsID != "" {
			r.names.SettingsID = n.SettingsID
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// Repository reconciles content, media links and the activity log.
type Repository struct {
	products ProductStore
	settings SettingsStore
	media    MediaAssetStore
	recorder *activity.Recorder
	urls     URLPolicy
	names    Names
	now      func() time.Time
}

// New creates a Repository over stores. urls decides which media URLs are
// managed uploads.
func New(stores Stores, urls URLPolicy, opts ...Option) *Repository {
	r := &Repository{
		products: stores.Products,
		settings: stores.Settings,
		media:    stores.Media,
		recorder: activity.NewRecorder(stores.Activity),
		urls:     urls,
		names:    DefaultNames(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Names returns the collection names in use.
func (r *Repository) Names() Names {
	return r.names
}

// RecentActivity lists activity entries newest first.
func (r *Repository) RecentActivity(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityEntry, error) {
	return r.recorder.Recent(ctx, filter)
}

func (r *Repository) stamp() time.Time {
	return r.now().UTC()
}

func (r *Repository) productRef(id string) *models.EntityRef {
	return &models.EntityRef{Collection: r.names.Products, ID: id}
}

func (r *Repository) settingsRef() *models.EntityRef {
	return &models.EntityRef{Collection: r.names.Settings, ID: r.names.SettingsID}
}
