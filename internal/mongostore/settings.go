// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aurelux/internal/models"
)

type settingsDoc struct {
	ID            string         `bson:"_id"`
	Hero          models.Hero    `bson:"hero"`
	About         models.About   `bson:"about"`
	Contact       models.Contact `bson:"contact"`
	Socials       models.Socials `bson:"socials"`
	Brand         models.Brand   `bson:"brand"`
	Footer        models.Footer  `bson:"footer"`
	SchemaVersion int            `bson:"schemaVersion"`
	CreatedAt     time.Time      `bson:"createdAt"`
	CreatedBy     string         `bson:"createdBy"`
	UpdatedAt     time.Time      `bson:"updatedAt"`
	UpdatedBy     string         `bson:"updatedBy"`
}

// SettingsStore persists the settings singleton document.
type SettingsStore struct {
	coll *mongo.Collection
	id   string
}

// NewSettingsStore creates a SettingsStore addressing the document with id.
func NewSettingsStore(coll *mongo.Collection, id string) *SettingsStore {
	if id == "" {
		id = models.SettingsDocumentID
	}
	return &SettingsStore{coll: coll, id: id}
}

// Get returns the settings document, or nil if it was never written.
func (s *SettingsStore) Get(ctx context.Context) (*models.SettingsRecord, error) {
	var doc settingsDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": s.id}).Decode(&doc)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &models.SettingsRecord{
		ID: doc.ID,
		Settings: models.Settings{
			Hero:    doc.Hero,
			About:   doc.About,
			Contact: doc.Contact,
			Socials: doc.Socials,
			Brand:   doc.Brand,
			Footer:  doc.Footer,
		},
		SchemaVersion: doc.SchemaVersion,
		Audit: models.Audit{
			CreatedAt: doc.CreatedAt,
			CreatedBy: doc.CreatedBy,
			UpdatedAt: doc.UpdatedAt,
			UpdatedBy: doc.UpdatedBy,
		},
	}, nil
}

// Upsert writes every section. Creation stamps are only set on insert.
func (s *SettingsStore) Upsert(ctx context.Context, rec *models.SettingsRecord) error {
	update := bson.M{
		"$set": bson.M{
			"hero":          rec.Hero,
			"about":         rec.About,
			"contact":       rec.Contact,
			"socials":       rec.Socials,
			"brand":         rec.Brand,
			"footer":        rec.Footer,
			"schemaVersion": rec.SchemaVersion,
			"updatedAt":     rec.UpdatedAt,
			"updatedBy":     rec.UpdatedBy,
		},
		"$setOnInsert": bson.M{
			"createdAt": rec.CreatedAt,
			"createdBy": rec.CreatedBy,
		},
	}
	if _, err := s.coll.UpdateByID(ctx, s.id, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
