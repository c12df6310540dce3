// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mongostore

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func index(name string, keys bson.D, unique bool) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: keys, Options: opts}
}

func asc(field string) bson.E  { return bson.E{Key: field, Value: 1} }
func desc(field string) bson.E { return bson.E{Key: field, Value: -1} }

// indexPlan lists the indexes of every collection, keyed by collection
// name.
func (d *Database) indexPlan() map[string][]mongo.IndexModel {
	n := d.names
	return map[string][]mongo.IndexModel{
		n.Products: {
			index("uniq_slug", bson.D{asc("slug")}, true),
			index("status_sort_order", bson.D{asc("status"), asc("sortOrder")}, false),
			index("deleted_updated", bson.D{asc("isDeleted"), desc("updatedAt")}, false),
		},
		n.Media: {
			index("uniq_url", bson.D{asc("url")}, true),
			index("linked_entity_idx", bson.D{asc("linkedEntity.collection"), asc("linkedEntity.id")}, false),
			index("linked_entities_idx", bson.D{asc("linkedEntities.collection"), asc("linkedEntities.id")}, false),
			index("media_deleted_updated", bson.D{asc("isDeleted"), desc("updatedAt")}, false),
		},
		n.Activity: {
			index("target_createdAt", bson.D{asc("target.collection"), asc("target.id"), desc("createdAt")}, false),
			index("actor_createdAt", bson.D{asc("actor"), desc("createdAt")}, false),
		},
		n.Admins: {
			index("uniq_email", bson.D{asc("email")}, true),
			index("role_active", bson.D{asc("role"), asc("isActive")}, false),
		},
	}
}

// EnsureIndexes creates every index the stores rely on. Existing indexes
// with the same definition are left alone, so it is safe to run on every
// deploy.
func (d *Database) EnsureIndexes(ctx context.Context) error {
	for coll, specs := range d.indexPlan() {
		names, err := d.db.Collection(coll).Indexes().CreateMany(ctx, specs)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
		slog.Info("mongodb indexes ensured", "collection", coll, "indexes", names)
	}
	return nil
}
