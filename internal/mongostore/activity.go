// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aurelux/internal/models"
)

type activityDoc struct {
	ID        string               `bson:"_id"`
	Actor     string               `bson:"actor"`
	Action    string               `bson:"action"`
	Target    *models.EntityRef    `bson:"target"`
	Changes   []models.ChangeEntry `bson:"changes"`
	Metadata  map[string]any       `bson:"metadata"`
	CreatedAt time.Time            `bson:"createdAt"`
}

// ActivityStore appends and queries the activity log collection.
type ActivityStore struct {
	coll *mongo.Collection
}

// NewActivityStore creates an ActivityStore on coll.
func NewActivityStore(coll *mongo.Collection) *ActivityStore {
	return &ActivityStore{coll: coll}
}

// Append inserts one entry.
func (s *ActivityStore) Append(ctx context.Context, e *models.ActivityEntry) error {
	doc := activityDoc{
		ID:        e.ID.String(),
		Actor:     e.Actor,
		Action:    e.Action,
		Target:    e.Target,
		Changes:   e.Changes,
		Metadata:  e.Metadata,
		CreatedAt: e.CreatedAt,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

// List returns entries matching f, newest first.
func (s *ActivityStore) List(ctx context.Context, f models.ActivityFilter) ([]models.ActivityEntry, error) {
	filter := bson.M{}
	if f.Collection != "" {
		filter["target.collection"] = f.Collection
	}
	if f.TargetID != "" {
		filter["target.id"] = f.TargetID
	}
	if f.Actor != "" {
		filter["actor"] = f.Actor
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(f.Limit))
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	var docs []activityDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}

	items := make([]models.ActivityEntry, 0, len(docs))
	for _, d := range docs {
		id, err := uuid.Parse(d.ID)
		if err != nil {
			return nil, fmt.Errorf("activity id %q: %w", d.ID, err)
		}
		changes := d.Changes
		if changes == nil {
			changes = []models.ChangeEntry{}
		}
		items = append(items, models.ActivityEntry{
			ID:        id,
			Actor:     d.Actor,
			Action:    d.Action,
			Target:    d.Target,
			Changes:   changes,
			Metadata:  d.Metadata,
			CreatedAt: d.CreatedAt,
		})
	}
	return items, nil
}
