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

type mediaAssetDoc struct {
	URL            string             `bson:"url"`
	Type           models.MediaKind   `bson:"type"`
	MimeType       string             `bson:"mimeType"`
	SizeBytes      *int64             `bson:"sizeBytes"`
	OriginalName   string             `bson:"originalName"`
	Usage          string             `bson:"usage"`
	LinkedEntity   *models.EntityRef  `bson:"linkedEntity"`
	LinkedEntities []models.EntityRef `bson:"linkedEntities"`
	IsDeleted      bool               `bson:"isDeleted"`
	CreatedAt      time.Time          `bson:"createdAt"`
	CreatedBy      string             `bson:"createdBy"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
	UpdatedBy      string             `bson:"updatedBy"`
}

// MediaAssetStore persists the media asset registry, one document per URL.
type MediaAssetStore struct {
	coll *mongo.Collection
}

// NewMediaAssetStore creates a MediaAssetStore on coll.
func NewMediaAssetStore(coll *mongo.Collection) *MediaAssetStore {
	return &MediaAssetStore{coll: coll}
}

// Upsert writes an asset by URL. Scalar fields and linkedEntity take the
// latest values; a non-nil link joins linkedEntities through $addToSet, so
// repeated links are stored once.
func (s *MediaAssetStore) Upsert(ctx context.Context, a *models.MediaAsset, link *models.EntityRef) error {
	usage := a.Usage
	if usage == "" {
		usage = models.UsageGeneric
	}

	set := bson.M{
		"type":         a.Type,
		"usage":        usage,
		"mimeType":     a.MimeType,
		"sizeBytes":    a.SizeBytes,
		"originalName": a.OriginalName,
		"linkedEntity": link,
		"isDeleted":    false,
		"updatedAt":    a.UpdatedAt,
		"updatedBy":    a.UpdatedBy,
	}
	onInsert := bson.M{
		"createdAt": a.CreatedAt,
		"createdBy": a.CreatedBy,
	}

	update := bson.M{"$set": set, "$setOnInsert": onInsert}
	if link != nil {
		update["$addToSet"] = bson.M{"linkedEntities": *link}
	} else {
		onInsert["linkedEntities"] = []models.EntityRef{}
	}

	if _, err := s.coll.UpdateOne(ctx, bson.M{"url": a.URL}, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert media asset: %w", err)
	}
	return nil
}

// MarkDeleted soft-deletes an asset.
func (s *MediaAssetStore) MarkDeleted(ctx context.Context, url, actor string, at time.Time) (bool, error) {
	res, err := s.coll.UpdateOne(ctx, bson.M{"url": url}, bson.M{"$set": bson.M{
		"isDeleted": true,
		"updatedAt": at,
		"updatedBy": actor,
	}})
	if err != nil {
		return false, fmt.Errorf("mark media deleted: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// FindByURL retrieves an asset regardless of its deleted flag.
func (s *MediaAssetStore) FindByURL(ctx context.Context, url string) (*models.MediaAsset, error) {
	var doc mediaAssetDoc
	err := s.coll.FindOne(ctx, bson.M{"url": url}).Decode(&doc)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media asset: %w", err)
	}
	links := doc.LinkedEntities
	if links == nil {
		links = []models.EntityRef{}
	}
	return &models.MediaAsset{
		URL:            doc.URL,
		Type:           doc.Type,
		MimeType:       doc.MimeType,
		SizeBytes:      doc.SizeBytes,
		OriginalName:   doc.OriginalName,
		Usage:          doc.Usage,
		LinkedEntity:   doc.LinkedEntity,
		LinkedEntities: links,
		IsDeleted:      doc.IsDeleted,
		Audit: models.Audit{
			CreatedAt: doc.CreatedAt,
			CreatedBy: doc.CreatedBy,
			UpdatedAt: doc.UpdatedAt,
			UpdatedBy: doc.UpdatedBy,
		},
	}, nil
}
