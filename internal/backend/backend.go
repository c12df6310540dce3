// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package backend opens the persistence backend selected by
// CONTENT_STORE_DRIVER and exposes its stores behind the repository and
// auth interfaces, so the binaries never branch on the driver themselves.
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"aurelux/internal/auth"
	"aurelux/internal/config"
	"aurelux/internal/database"
	"aurelux/internal/models"
	"aurelux/internal/mongostore"
	"aurelux/internal/repository"
	"aurelux/internal/store"
)

// AdminStore is the admin account API both backends implement.
type AdminStore interface {
	auth.AdminStore
	Upsert(ctx context.Context, a *models.Admin) error
	Count(ctx context.Context) (int, error)
}

// Backend is an open persistence backend.
type Backend struct {
	Driver string
	Stores repository.Stores
	Names  repository.Names
	Admins AdminStore

	sqlDB   *sql.DB
	mongoDB *mongostore.Database
	client  *mongo.Client
}

// Open connects to the configured backend. Postgres migrations run on
// open; Mongo indexes are left to EnsureIndexes.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.ContentStore {
	case config.StoreMongo:
		return openMongo(ctx, cfg)
	case config.StorePostgres, "":
		return openPostgres(cfg)
	default:
		return nil, fmt.Errorf("backend: unknown content store %q", cfg.ContentStore)
	}
}

func openPostgres(cfg *config.Config) (*Backend, error) {
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	names := repository.DefaultNames()
	names.SettingsID = cfg.SettingsDocumentID
	slog.Info("content store ready", "driver", config.StorePostgres, "host", cfg.DBHost, "database", cfg.DBName)

	return &Backend{
		Driver: config.StorePostgres,
		Stores: repository.Stores{
			Products: store.NewProductStore(db),
			Settings: store.NewSettingsStore(db, cfg.SettingsDocumentID),
			Media:    store.NewMediaAssetStore(db),
			Activity: store.NewActivityStore(db),
		},
		Names:  names,
		Admins: store.NewAdminStore(db),
		sqlDB:  db,
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*Backend, error) {
	client, err := mongostore.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}

	db := mongostore.Open(client.Database(cfg.MongoDBName), mongostore.Names{
		Products: cfg.MongoProductsCollection,
		Settings: cfg.MongoSettingsCollection,
		Media:    cfg.MongoMediaCollection,
		Activity: cfg.MongoActivityCollection,
		Admins:   cfg.MongoAdminsCollection,
	}, cfg.SettingsDocumentID)

	n := db.Names()
	slog.Info("content store ready", "driver", config.StoreMongo, "database", cfg.MongoDBName)

	return &Backend{
		Driver: config.StoreMongo,
		Stores: repository.Stores{
			Products: db.Products,
			Settings: db.Settings,
			Media:    db.Media,
			Activity: db.Activity,
		},
		Names: repository.Names{
			Products:   n.Products,
			Settings:   n.Settings,
			Media:      n.Media,
			SettingsID: cfg.SettingsDocumentID,
		},
		Admins:  db.Admins,
		mongoDB: db,
		client:  client,
	}, nil
}

// Repository builds a content repository over the backend's stores.
func (b *Backend) Repository(urls repository.URLPolicy) *repository.Repository {
	return repository.New(b.Stores, urls, repository.WithNames(b.Names))
}

// EnsureIndexes creates the Mongo indexes. Postgres indexes come from the
// migrations, so it is a no-op there.
func (b *Backend) EnsureIndexes(ctx context.Context) error {
	if b.mongoDB == nil {
		return nil
	}
	return b.mongoDB.EnsureIndexes(ctx)
}

// SeedAdmin creates the development admin when no admin exists yet.
func (b *Backend) SeedAdmin(ctx context.Context) error {
	if b.sqlDB != nil {
		return database.Seed(b.sqlDB)
	}

	count, err := b.Admins.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed count admins: %w", err)
	}
	if count > 0 {
		slog.Info("admins already present, skipping seed")
		return nil
	}

	hash, err := auth.HashPassword(database.SeedAdminPassword)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	err = b.Admins.Upsert(ctx, &models.Admin{
		Email:        database.SeedAdminEmail,
		Role:         models.RoleAdmin,
		PasswordHash: hash,
		IsActive:     true,
		Audit:        models.Audit{CreatedAt: now, CreatedBy: "seed", UpdatedAt: now, UpdatedBy: "seed"},
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	slog.Info("seeded default admin", "email", database.SeedAdminEmail, "password", database.SeedAdminPassword)
	return nil
}

// Close releases the backend's connections.
func (b *Backend) Close(ctx context.Context) error {
	if b.sqlDB != nil {
		return b.sqlDB.Close()
	}
	if b.client != nil {
		return b.client.Disconnect(ctx)
	}
	return nil
}
