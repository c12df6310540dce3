// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var localURLPattern = regexp.MustCompile(`^/uploads/(images|videos)/`)

// LocalDriver writes uploads under <publicDir>/uploads and serves them as
// /uploads/... URLs.
type LocalDriver struct {
	publicDir string
	ephemeral bool
}

// NewLocalDriver creates a local driver. When ephemeral is set the runtime
// filesystem does not survive restarts and Save refuses to write.
func NewLocalDriver(publicDir string, ephemeral bool) *LocalDriver {
	return &LocalDriver{publicDir: publicDir, ephemeral: ephemeral}
}

// Name implements Driver.
func (d *LocalDriver) Name() string { return DriverLocal }

// UploadsDir returns the directory served under /uploads.
func (d *LocalDriver) UploadsDir() string {
	return filepath.Join(d.publicDir, "uploads")
}

// IsManagedURL implements Driver.
func (d *LocalDriver) IsManagedURL(url string) bool {
	return localURLPattern.MatchString(url)
}

// Save implements Driver.
func (d *LocalDriver) Save(_ context.Context, u Upload) (*Result, error) {
	p, err := prepareUpload(u)
	if err != nil {
		return nil, err
	}
	if d.ephemeral {
		return nil, ErrEphemeralFilesystem
	}

	dir := filepath.Join(d.UploadsDir(), p.dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	target := filepath.Join(dir, p.name)
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}

	// Read one byte past the limit to detect oversized bodies whose
	// declared size was wrong.
	n, err := io.Copy(f, io.LimitReader(u.Body, MaxUploadBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(target)
		return nil, fmt.Errorf("write upload file: %w", err)
	}
	if n > MaxUploadBytes {
		os.Remove(target)
		return nil, ErrPayloadTooLarge
	}

	return &Result{
		URL:          "/uploads/" + p.dir + "/" + p.name,
		Type:         p.kind,
		OriginalName: u.Filename,
		MimeType:     u.ContentType,
		SizeBytes:    sizePtr(n),
	}, nil
}

// Delete implements Driver. Paths that resolve outside the uploads
// directory are refused.
func (d *LocalDriver) Delete(_ context.Context, url string) (bool, error) {
	if !d.IsManagedURL(url) {
		return false, nil
	}
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}

	root, err := filepath.Abs(d.UploadsDir())
	if err != nil {
		return false, fmt.Errorf("resolve uploads dir: %w", err)
	}
	target, err := filepath.Abs(filepath.Join(d.publicDir, filepath.FromSlash(strings.TrimPrefix(url, "/"))))
	if err != nil {
		return false, fmt.Errorf("resolve upload path: %w", err)
	}
	if !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return false, nil
	}

	if err := os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("delete upload file: %w", err)
	}
	return true, nil
}
