// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mongostore implements the repository stores on MongoDB. Each
// store wraps one collection; documents use camelCase field names and
// products are keyed by their id in _id.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aurelux/internal/models"
)

const connectTimeout = 10 * time.Second

// Names holds the collection names of one database.
type Names struct {
	Products string
	Settings string
	Media    string
	Activity string
	Admins   string
}

// DefaultNames returns the standard collection names.
func DefaultNames() Names {
	return Names{
		Products: models.CollectionProducts,
		Settings: models.CollectionSettings,
		Media:    models.CollectionMedia,
		Activity: models.CollectionActivity,
		Admins:   models.CollectionAdmins,
	}
}

// withDefaults fills blank names.
func (n Names) withDefaults() Names {
	d := DefaultNames()
	if n.Products == "" {
		n.Products = d.Products
	}
	if n.Settings == "" {
		n.Settings = d.Settings
	}
	if n.Media == "" {
		n.Media = d.Media
	}
	if n.Activity == "" {
		n.Activity = d.Activity
	}
	if n.Admins == "" {
		n.Admins = d.Admins
	}
	return n
}

// bsonOptions makes the driver honour json tags on shared model types,
// store nil slices as empty arrays and decode nested documents as maps.
func bsonOptions() *options.BSONOptions {
	return &options.BSONOptions{
		UseJSONStructTags: true,
		NilSliceAsEmpty:   true,
		DefaultDocumentM:  true,
	}
}

// Connect opens a client for uri and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetBSONOptions(bsonOptions()))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	slog.Info("mongodb connected")
	return client, nil
}

// Database bundles the stores of one MongoDB database.
type Database struct {
	Products *ProductStore
	Settings *SettingsStore
	Media    *MediaAssetStore
	Activity *ActivityStore
	Admins   *AdminStore

	db    *mongo.Database
	names Names
}

// Open binds stores to the collections of db. settingsID addresses the
// settings singleton.
func Open(db *mongo.Database, names Names, settingsID string) *Database {
	names = names.withDefaults()
	return &Database{
		Products: NewProductStore(db.Collection(names.Products)),
		Settings: NewSettingsStore(db.Collection(names.Settings), settingsID),
		Media:    NewMediaAssetStore(db.Collection(names.Media)),
		Activity: NewActivityStore(db.Collection(names.Activity)),
		Admins:   NewAdminStore(db.Collection(names.Admins)),
		db:       db,
		names:    names,
	}
}

// Names returns the collection names in use.
func (d *Database) Names() Names {
	return d.names
}

func notFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
