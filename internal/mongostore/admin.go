// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mongostore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aurelux/internal/models"
)

type adminDoc struct {
	Email        string     `bson:"email"`
	Role         string     `bson:"role"`
	PasswordHash string     `bson:"passwordHash"`
	IsActive     bool       `bson:"isActive"`
	TOTPSecret   *string    `bson:"totpSecret"`
	TOTPEnabled  bool       `bson:"totpEnabled"`
	LastLoginAt  *time.Time `bson:"lastLoginAt"`
	CreatedAt    time.Time  `bson:"createdAt"`
	CreatedBy    string     `bson:"createdBy"`
	UpdatedAt    time.Time  `bson:"updatedAt"`
	UpdatedBy    string     `bson:"updatedBy"`
}

// AdminStore persists admin accounts keyed by lower-cased email.
type AdminStore struct {
	coll *mongo.Collection
}

// NewAdminStore creates an AdminStore on coll.
func NewAdminStore(coll *mongo.Collection) *AdminStore {
	return &AdminStore{coll: coll}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail retrieves an admin by email, case-insensitively.
func (s *AdminStore) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var doc adminDoc
	err := s.coll.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&doc)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &models.Admin{
		Email:        doc.Email,
		Role:         doc.Role,
		PasswordHash: doc.PasswordHash,
		IsActive:     doc.IsActive,
		TOTPSecret:   doc.TOTPSecret,
		TOTPEnabled:  doc.TOTPEnabled,
		LastLoginAt:  doc.LastLoginAt,
		Audit: models.Audit{
			CreatedAt: doc.CreatedAt,
			CreatedBy: doc.CreatedBy,
			UpdatedAt: doc.UpdatedAt,
			UpdatedBy: doc.UpdatedBy,
		},
	}, nil
}

// Upsert creates or updates an admin by email, keeping creation stamps
// and the last login time.
func (s *AdminStore) Upsert(ctx context.Context, a *models.Admin) error {
	email := normalizeEmail(a.Email)
	update := bson.M{
		"$set": bson.M{
			"email":        email,
			"role":         a.Role,
			"passwordHash": a.PasswordHash,
			"isActive":     a.IsActive,
			"totpSecret":   a.TOTPSecret,
			"totpEnabled":  a.TOTPEnabled,
			"updatedAt":    a.UpdatedAt,
			"updatedBy":    a.UpdatedBy,
		},
		"$setOnInsert": bson.M{
			"lastLoginAt": nil,
			"createdAt":   a.CreatedAt,
			"createdBy":   a.CreatedBy,
		},
	}
	if _, err := s.coll.UpdateOne(ctx, bson.M{"email": email}, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert admin: %w", err)
	}
	return nil
}

// TouchLogin records a successful sign-in.
func (s *AdminStore) TouchLogin(ctx context.Context, email string, at time.Time) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"email": normalizeEmail(email)},
		bson.M{"$set": bson.M{"lastLoginAt": at}})
	if err != nil {
		return fmt.Errorf("touch admin login: %w", err)
	}
	return nil
}

// Count returns the number of admin accounts.
func (s *AdminStore) Count(ctx context.Context) (int, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return int(n), nil
}
