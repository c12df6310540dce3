// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"aurelux/internal/apperr"
	"aurelux/internal/models"
	"aurelux/internal/storage"
)

// DefaultBlobFolder is the key prefix for blob uploads.
const DefaultBlobFolder = "aurelux-beauty"

// DefaultUploadTTL bounds how long a client upload grant stays valid.
const DefaultUploadTTL = 15 * time.Minute

// ObjectStore is the slice of the storage client the blob driver needs.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Head(ctx context.Context, key string) (*storage.ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	FileURL(key string) string
	ExtractKey(rawURL string) (string, bool)
}

// BlobConfig configures the blob driver.
type BlobConfig struct {
	Folder      string
	TokenSecret []byte
	UploadTTL   time.Duration
}

// BlobDriver stores uploads in an S3-compatible bucket. Besides
// server-side Save it supports direct browser uploads: AuthorizeUpload
// hands out a presigned PUT URL plus a signed completion token, and
// CompleteUpload verifies the object landed before it is registered.
type BlobDriver struct {
	store  ObjectStore
	folder string
	secret []byte
	ttl    time.Duration
}

// NewBlobDriver creates a blob driver on top of store.
func NewBlobDriver(store ObjectStore, cfg BlobConfig) (*BlobDriver, error) {
	if store == nil {
		return nil, fmt.Errorf("blob: object storage is not configured (S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY)")
	}
	if len(cfg.TokenSecret) == 0 {
		return nil, fmt.Errorf("blob: token secret is required")
	}
	folder := strings.Trim(strings.TrimSpace(cfg.Folder), "/")
	if folder == "" {
		folder = DefaultBlobFolder
	}
	ttl := cfg.UploadTTL
	if ttl <= 0 {
		ttl = DefaultUploadTTL
	}
	return &BlobDriver{store: store, folder: folder, secret: cfg.TokenSecret, ttl: ttl}, nil
}

// Name implements Driver.
func (d *BlobDriver) Name() string { return DriverBlob }

// Folder returns the key prefix uploads must live under.
func (d *BlobDriver) Folder() string { return d.folder }

// IsManagedURL implements Driver: the URL must point into the bucket and
// the key must sit under <folder>/images/ or <folder>/videos/.
func (d *BlobDriver) IsManagedURL(rawURL string) bool {
	key, ok := d.store.ExtractKey(rawURL)
	return ok && d.allowedKey(key)
}

func (d *BlobDriver) allowedKey(key string) bool {
	if strings.Contains(key, "..") {
		return false
	}
	return strings.HasPrefix(key, d.folder+"/images/") || strings.HasPrefix(key, d.folder+"/videos/")
}

// Save implements Driver.
func (d *BlobDriver) Save(ctx context.Context, u Upload) (*Result, error) {
	p, err := prepareUpload(u)
	if err != nil {
		return nil, err
	}
	if u.Size <= 0 {
		return nil, apperr.Validation("File is empty.")
	}

	key := d.folder + "/" + p.dir + "/" + p.name
	if err := d.store.Upload(ctx, key, normalizeMIME(u.ContentType), u.Body, u.Size); err != nil {
		return nil, err
	}

	return &Result{
		URL:          d.store.FileURL(key),
		Type:         p.kind,
		OriginalName: u.Filename,
		MimeType:     u.ContentType,
		SizeBytes:    sizePtr(u.Size),
	}, nil
}

// Delete implements Driver.
func (d *BlobDriver) Delete(ctx context.Context, rawURL string) (bool, error) {
	key, ok := d.store.ExtractKey(rawURL)
	if !ok || !d.allowedKey(key) {
		return false, nil
	}
	info, err := d.store.Head(ctx, key)
	if err != nil {
		return false, err
	}
	if info == nil {
		return false, nil
	}
	if err := d.store.Delete(ctx, key); err != nil {
		return false, err
	}
	return true, nil
}

// UploadRequest is a browser's request to upload one file directly.
type UploadRequest struct {
	Pathname     string
	ContentType  string
	Size         int64
	Usage        string
	OriginalName string
}

// UploadGrant authorizes one direct upload.
type UploadGrant struct {
	UploadURL   string    `json:"uploadUrl"`
	URL         string    `json:"url"`
	Pathname    string    `json:"pathname"`
	ContentType string    `json:"contentType"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// UploadClaims travel inside the completion token.
type UploadClaims struct {
	Key          string `json:"key"`
	Actor        string `json:"actor"`
	Usage        string `json:"usage"`
	OriginalName string `json:"originalName"`
	jwt.RegisteredClaims
}

// AuthorizeUpload validates a direct-upload request made by actor and
// returns a presigned PUT URL with a completion token.
func (d *BlobDriver) AuthorizeUpload(ctx context.Context, req UploadRequest, actor string) (*UploadGrant, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, apperr.Unauthorized("Unauthorized.")
	}

	key := strings.TrimLeft(strings.TrimSpace(req.Pathname), "/")
	if key == "" || path.Clean(key) != key || !d.allowedKey(key) {
		return nil, apperr.Validation("Upload path is not allowed. Use %s/images/ or %s/videos/.", d.folder, d.folder)
	}

	contentType := normalizeMIME(req.ContentType)
	if !slices.Contains(AllowedContentTypes, contentType) {
		return nil, ErrUnsupportedMediaType
	}
	if req.Size > MaxUploadBytes {
		return nil, ErrPayloadTooLarge
	}

	uploadURL, err := d.store.PresignPut(ctx, key, contentType, d.ttl)
	if err != nil {
		return nil, err
	}

	now := nowFunc()
	expires := now.Add(d.ttl)
	claims := UploadClaims{
		Key:          key,
		Actor:        models.NormalizeActor(actor),
		Usage:        NormalizeUsage(req.Usage),
		OriginalName: strings.TrimSpace(req.OriginalName),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.secret)
	if err != nil {
		return nil, fmt.Errorf("sign upload token: %w", err)
	}

	return &UploadGrant{
		UploadURL:   uploadURL,
		URL:         d.store.FileURL(key),
		Pathname:    key,
		ContentType: contentType,
		Token:       token,
		ExpiresAt:   expires.UTC(),
	}, nil
}

// CompleteUpload verifies the completion token, checks that the object
// exists and is an accepted media type, and returns its metadata with the
// claims issued at authorization time.
func (d *BlobDriver) CompleteUpload(ctx context.Context, token string) (*Result, *UploadClaims, error) {
	claims := &UploadClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return d.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(nowFunc),
	)
	if err != nil || !d.allowedKey(claims.Key) {
		return nil, nil, apperr.Unauthorized("Upload token is invalid or expired.")
	}

	info, err := d.store.Head(ctx, claims.Key)
	if err != nil {
		return nil, nil, err
	}
	if info == nil {
		return nil, nil, apperr.NotFound("Uploaded file was not found.")
	}

	kind, ok := KindFromMIME(info.ContentType)
	if !ok {
		return nil, nil, ErrUnsupportedMediaType
	}
	if info.Size > MaxUploadBytes {
		if err := d.store.Delete(ctx, claims.Key); err != nil {
			return nil, nil, errors.Join(ErrPayloadTooLarge, err)
		}
		return nil, nil, ErrPayloadTooLarge
	}

	return &Result{
		URL:          d.store.FileURL(claims.Key),
		Type:         kind,
		OriginalName: claims.OriginalName,
		MimeType:     info.ContentType,
		SizeBytes:    sizePtr(info.Size),
	}, claims, nil
}

// NormalizeUsage trims a usage tag and defaults it to "generic".
func NormalizeUsage(usage string) string {
	if u := strings.TrimSpace(usage); u != "" {
		return u
	}
	return models.UsageGeneric
}
