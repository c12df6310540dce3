// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media persists uploaded files behind a common Driver interface.
// Three backends exist: the local public directory, Cloudinary and an
// S3-compatible blob bucket. Each driver owns a strict "is this URL mine"
// predicate that the content layer uses to tell managed uploads apart
// from hotlinked third-party media.
package media

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"aurelux/internal/apperr"
	"aurelux/internal/models"
)

// MaxUploadBytes is the largest accepted upload (25 MiB).
const MaxUploadBytes = 25 << 20

// Driver names as used by MEDIA_STORAGE_DRIVER.
const (
	DriverLocal      = "local"
	DriverCloudinary = "cloudinary"
	DriverBlob       = "blob"
)

// Upload failures. They are apperr values, so handlers map them to
// statuses without knowing about this package.
var (
	ErrUnsupportedMediaType = apperr.UnsupportedMedia("Only image and video files are allowed.")
	ErrPayloadTooLarge      = apperr.TooLarge("File exceeds the 25 MB upload limit.")
	ErrUnsupportedExtension = apperr.Validation("File extension is not supported.")
	ErrEphemeralFilesystem  = apperr.Unavailable("The upload filesystem is not persistent on this deployment. Set MEDIA_STORAGE_DRIVER=cloudinary or MEDIA_STORAGE_DRIVER=blob.")
)

// Driver stores and deletes uploaded files.
type Driver interface {
	// Name returns the driver name.
	Name() string
	// Save stores the upload and returns its canonical URL and metadata.
	Save(ctx context.Context, u Upload) (*Result, error)
	// Delete removes a previously issued URL. It returns false, not an
	// error, for foreign URLs and for objects that no longer exist.
	Delete(ctx context.Context, url string) (bool, error)
	// IsManagedURL reports whether url was issued by this driver.
	IsManagedURL(url string) bool
}

// Upload is a file received from an admin.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Result describes a stored file.
type Result struct {
	URL          string           `json:"url"`
	Type         models.MediaKind `json:"type"`
	OriginalName string           `json:"originalName"`
	MimeType     string           `json:"mimeType"`
	SizeBytes    *int64           `json:"sizeBytes"`
}

// mimeExtensions maps accepted MIME types to the extension used when the
// file name carries none.
var mimeExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/quicktime": ".mov",
}

// AllowedContentTypes lists the types accepted for direct client uploads.
var AllowedContentTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
	"video/mp4",
	"video/webm",
	"video/quicktime",
}

var (
	nonAlnum      = regexp.MustCompile(`[^a-z0-9]+`)
	videoExtRegex = regexp.MustCompile(`(?i)\.(mp4|webm|mov)(\?|$)`)
)

// nowFunc and randN are swapped in tests.
var (
	nowFunc = time.Now
	randN   = rand.IntN
)

// prepared is a validated upload with its generated object name.
type prepared struct {
	kind models.MediaKind
	dir  string // "images" or "videos"
	ext  string
	name string // <unixMillis>-<rand>-<sanitized base><ext>
}

// prepareUpload validates type, size and extension and derives the
// collision-resistant object name shared by all drivers.
func prepareUpload(u Upload) (*prepared, error) {
	kind, ok := KindFromMIME(u.ContentType)
	if !ok {
		return nil, ErrUnsupportedMediaType
	}
	if u.Size > MaxUploadBytes {
		return nil, ErrPayloadTooLarge
	}

	ext := strings.ToLower(filepath.Ext(u.Filename))
	if ext == "" || ext == "." {
		ext = mimeExtensions[normalizeMIME(u.ContentType)]
	}
	if ext == "" {
		return nil, ErrUnsupportedExtension
	}

	base := sanitizeBaseName(strings.TrimSuffix(filepath.Base(u.Filename), filepath.Ext(u.Filename)))
	stem := fmt.Sprintf("%d-%d-%s", nowFunc().UnixMilli(), randN(1_000_000), base)

	return &prepared{
		kind: kind,
		dir:  kindDir(kind),
		ext:  ext,
		name: stem + ext,
	}, nil
}

// stem returns the object name without extension.
func (p *prepared) stem() string {
	return strings.TrimSuffix(p.name, p.ext)
}

// sanitizeBaseName lowercases, collapses non-alphanumerics to "-", trims
// dashes and defaults to "media".
func sanitizeBaseName(name string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "media"
	}
	return s
}

func normalizeMIME(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

// KindFromMIME classifies a MIME type. ok is false for anything that is
// neither image/* nor video/*.
func KindFromMIME(contentType string) (models.MediaKind, bool) {
	ct := normalizeMIME(contentType)
	switch {
	case strings.HasPrefix(ct, "image/"):
		return models.MediaImage, true
	case strings.HasPrefix(ct, "video/"):
		return models.MediaVideo, true
	default:
		return "", false
	}
}

// KindFromURL guesses the media kind of a stored URL from its path.
func KindFromURL(url string) models.MediaKind {
	if strings.Contains(url, "/videos/") ||
		strings.Contains(url, "/video/upload/") ||
		videoExtRegex.MatchString(url) {
		return models.MediaVideo
	}
	return models.MediaImage
}

func kindDir(kind models.MediaKind) string {
	if kind == models.MediaVideo {
		return "videos"
	}
	return "images"
}

// sizePtr returns nil for unknown (negative) sizes.
func sizePtr(n int64) *int64 {
	if n < 0 {
		return nil
	}
	return &n
}
