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
	"aurelux/internal/repository"
)

type productMedia struct {
	CardImageURL    string   `bson:"cardImageUrl"`
	DetailImageURL  string   `bson:"detailImageUrl"`
	DetailImageURLs []string `bson:"detailImageUrls"`
}

type productDoc struct {
	ID          string       `bson:"_id"`
	Slug        string       `bson:"slug"`
	Name        string       `bson:"name"`
	FullName    string       `bson:"fullName"`
	USP         string       `bson:"usp"`
	Description string       `bson:"description"`
	Usage       string       `bson:"usage"`
	ShortList   []string     `bson:"shortList"`
	Ingredients []string     `bson:"ingredients"`
	Media       productMedia `bson:"media"`
	Status      string       `bson:"status"`
	SortOrder   int          `bson:"sortOrder"`
	IsDeleted   bool         `bson:"isDeleted"`
	CreatedAt   time.Time    `bson:"createdAt"`
	CreatedBy   string       `bson:"createdBy"`
	UpdatedAt   time.Time    `bson:"updatedAt"`
	UpdatedBy   string       `bson:"updatedBy"`
}

func productToDoc(r *models.ProductRecord) productDoc {
	return productDoc{
		ID:          r.ID,
		Slug:        r.Slug,
		Name:        r.Name,
		FullName:    r.FullName,
		USP:         r.USP,
		Description: r.Description,
		Usage:       r.Usage,
		ShortList:   r.ShortList,
		Ingredients: r.Ingredients,
		Media: productMedia{
			CardImageURL:    r.CardImage,
			DetailImageURL:  r.DetailImage,
			DetailImageURLs: r.DetailImages,
		},
		Status:    r.Status,
		SortOrder: r.SortOrder,
		IsDeleted: r.IsDeleted,
		CreatedAt: r.CreatedAt,
		CreatedBy: r.CreatedBy,
		UpdatedAt: r.UpdatedAt,
		UpdatedBy: r.UpdatedBy,
	}
}

func (d *productDoc) record() models.ProductRecord {
	return models.ProductRecord{
		Product: models.Product{
			ID:           d.ID,
			Name:         d.Name,
			FullName:     d.FullName,
			CardImage:    d.Media.CardImageURL,
			DetailImage:  d.Media.DetailImageURL,
			DetailImages: nonNil(d.Media.DetailImageURLs),
			USP:          d.USP,
			ShortList:    nonNil(d.ShortList),
			Description:  d.Description,
			Ingredients:  nonNil(d.Ingredients),
			Usage:        d.Usage,
		},
		Slug:      d.Slug,
		Status:    d.Status,
		SortOrder: d.SortOrder,
		IsDeleted: d.IsDeleted,
		Audit: models.Audit{
			CreatedAt: d.CreatedAt,
			CreatedBy: d.CreatedBy,
			UpdatedAt: d.UpdatedAt,
			UpdatedBy: d.UpdatedBy,
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var activeFilter = bson.M{"isDeleted": bson.M{"$ne": true}}

// ProductStore persists products in one collection.
type ProductStore struct {
	coll *mongo.Collection
}

// NewProductStore creates a ProductStore on coll.
func NewProductStore(coll *mongo.Collection) *ProductStore {
	return &ProductStore{coll: coll}
}

// ListActive returns non-deleted products by sort order, most recently
// updated first within the same order.
func (s *ProductStore) ListActive(ctx context.Context) ([]models.ProductRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "updatedAt", Value: -1}})
	cur, err := s.coll.Find(ctx, activeFilter, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	items := make([]models.ProductRecord, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].record())
	}
	return items, nil
}

// FindActive returns a non-deleted product, or nil when absent.
func (s *ProductStore) FindActive(ctx context.Context, id string) (*models.ProductRecord, error) {
	var doc productDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}}).Decode(&doc)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	rec := doc.record()
	return &rec, nil
}

// IDs lists product ids.
func (s *ProductStore) IDs(ctx context.Context, includeDeleted bool) ([]string, error) {
	filter := bson.M{}
	if !includeDeleted {
		filter = activeFilter
	}
	cur, err := s.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode product ids: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// Exists reports whether any document uses id.
func (s *ProductStore) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check product id: %w", err)
	}
	return n > 0, nil
}

// Upsert writes rec by id. Creation stamps are only set on insert.
func (s *ProductStore) Upsert(ctx context.Context, rec *models.ProductRecord) error {
	doc := productToDoc(rec)
	update := bson.M{
		"$set": bson.M{
			"slug":        doc.Slug,
			"name":        doc.Name,
			"fullName":    doc.FullName,
			"usp":         doc.USP,
			"description": doc.Description,
			"usage":       doc.Usage,
			"shortList":   doc.ShortList,
			"ingredients": doc.Ingredients,
			"media":       doc.Media,
			"status":      doc.Status,
			"sortOrder":   doc.SortOrder,
			"isDeleted":   doc.IsDeleted,
			"updatedAt":   doc.UpdatedAt,
			"updatedBy":   doc.UpdatedBy,
		},
		"$setOnInsert": bson.M{
			"createdAt": doc.CreatedAt,
			"createdBy": doc.CreatedBy,
		},
	}
	if _, err := s.coll.UpdateByID(ctx, doc.ID, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// Insert creates rec, failing with repository.ErrDuplicateKey when the id
// or slug is taken.
func (s *ProductStore) Insert(ctx context.Context, rec *models.ProductRecord) error {
	if _, err := s.coll.InsertOne(ctx, productToDoc(rec)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert product %s: %w", rec.ID, repository.ErrDuplicateKey)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Delete removes one product.
func (s *ProductStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// DeleteMany removes every listed product.
func (s *ProductStore) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("delete products: %w", err)
	}
	return nil
}
