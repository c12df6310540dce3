// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"aurelux/internal/apperr"
	"aurelux/internal/media"
	"aurelux/internal/middleware"
	"aurelux/internal/repository"
)

const (
	// multipartOverhead leaves room for form fields around the file part.
	multipartOverhead = 1 << 20

	// multipartMemory is how much of a multipart body is kept in memory
	// before spilling to temp files.
	multipartMemory = 8 << 20
)

// Blob upload request types.
const (
	blobGenerateToken   = "blob.generate-client-token"
	blobUploadCompleted = "blob.upload-completed"
)

// deleteMediaRequest names the managed file to remove.
type deleteMediaRequest struct {
	URL string `json:"url" validate:"required,max=2048"`
}

// blobUploadRequest is either a token request for a direct upload or the
// completion notice that follows it.
type blobUploadRequest struct {
	Type         string `json:"type" validate:"required,oneof=blob.generate-client-token blob.upload-completed"`
	Pathname     string `json:"pathname" validate:"required_if=Type blob.generate-client-token,max=512"`
	ContentType  string `json:"contentType" validate:"required_if=Type blob.generate-client-token,max=128"`
	Size         int64  `json:"size" validate:"gte=0"`
	Usage        string `json:"usage" validate:"max=64"`
	OriginalName string `json:"originalName" validate:"max=255"`
	Token        string `json:"token" validate:"required_if=Type blob.upload-completed"`
}

// UploadMedia stores a multipart file through the configured driver and
// registers it in the asset registry.
func (a *Admin) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, media.ErrPayloadTooLarge, "")
			return
		}
		writeMessage(w, http.StatusBadRequest, "Upload must be a multipart form.")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "File upload is missing.")
		return
	}
	defer file.Close()

	ctx := r.Context()
	who := actor(r)

	saved, err := a.media.Save(ctx, media.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		writeError(w, r, err, "Failed to upload media.")
		return
	}

	if _, err := a.repo.RegisterMedia(ctx, repository.MediaInput{
		URL:          saved.URL,
		Type:         saved.Type,
		MimeType:     saved.MimeType,
		SizeBytes:    saved.SizeBytes,
		OriginalName: saved.OriginalName,
		Usage:        r.FormValue("usage"),
	}, who); err != nil {
		writeError(w, r, err, "Failed to register media.")
		return
	}

	slog.Info("media uploaded", "url", saved.URL, "driver", a.media.Name(), "actor", who)
	writeJSON(w, http.StatusCreated, saved)
}

// DeleteMedia removes a managed file and soft-deletes its registry record.
// Foreign or already missing files report deleted=false.
func (a *Admin) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	var req deleteMediaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "Failed to delete media.")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if err := validatePayload(&req); err != nil {
		writeError(w, r, err, "Failed to delete media.")
		return
	}

	ctx := r.Context()
	deleted, err := a.media.Delete(ctx, req.URL)
	if err != nil {
		writeError(w, r, err, "Failed to delete media.")
		return
	}
	if deleted {
		if _, err := a.repo.RemoveMedia(ctx, req.URL, actor(r)); err != nil {
			writeError(w, r, err, "Failed to delete media.")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// FindMedia returns the registry record for ?url=.
func (a *Admin) FindMedia(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		writeMessage(w, http.StatusBadRequest, "url is required.")
		return
	}

	asset, err := a.repo.FindMedia(r.Context(), url)
	if err != nil {
		writeError(w, r, err, "Failed to read media.")
		return
	}
	if asset == nil {
		writeMessage(w, http.StatusNotFound, "Media not found.")
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

// BlobUpload drives direct browser-to-bucket uploads. A token request
// needs an admin session and returns a presigned PUT URL; the completion
// notice is authenticated by the token it carries and registers the file.
func (a *Admin) BlobUpload(w http.ResponseWriter, r *http.Request) {
	var req blobUploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "Failed to process upload.")
		return
	}
	req.Type = strings.TrimSpace(req.Type)
	if err := validatePayload(&req); err != nil {
		writeError(w, r, err, "Failed to process upload.")
		return
	}

	blob, ok := a.media.Blob()
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Direct uploads need MEDIA_STORAGE_DRIVER=blob.")
		return
	}

	switch req.Type {
	case blobGenerateToken:
		a.authorizeBlob(w, r, blob, req)
	case blobUploadCompleted:
		a.completeBlob(w, r, blob, req.Token)
	}
}

func (a *Admin) authorizeBlob(w http.ResponseWriter, r *http.Request, blob *media.BlobDriver, req blobUploadRequest) {
	if middleware.SessionFromCtx(r.Context()) == nil {
		writeError(w, r, apperr.Unauthorized("Unauthorized."), "")
		return
	}

	grant, err := blob.AuthorizeUpload(r.Context(), media.UploadRequest{
		Pathname:     req.Pathname,
		ContentType:  req.ContentType,
		Size:         req.Size,
		Usage:        req.Usage,
		OriginalName: req.OriginalName,
	}, actor(r))
	if err != nil {
		writeError(w, r, err, "Failed to authorize upload.")
		return
	}
	writeJSON(w, http.StatusOK, grant)
}

func (a *Admin) completeBlob(w http.ResponseWriter, r *http.Request, blob *media.BlobDriver, token string) {
	ctx := r.Context()

	saved, claims, err := blob.CompleteUpload(ctx, token)
	if err != nil {
		writeError(w, r, err, "Failed to complete upload.")
		return
	}

	if _, err := a.repo.RegisterMedia(ctx, repository.MediaInput{
		URL:          saved.URL,
		Type:         saved.Type,
		MimeType:     saved.MimeType,
		SizeBytes:    saved.SizeBytes,
		OriginalName: saved.OriginalName,
		Usage:        claims.Usage,
	}, claims.Actor); err != nil {
		writeError(w, r, err, "Failed to register media.")
		return
	}

	slog.Info("media uploaded", "url", saved.URL, "driver", media.DriverBlob, "actor", claims.Actor)
	writeJSON(w, http.StatusCreated, saved)
}
