// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"aurelux/internal/models"
)

// FileStore keeps the whole content document in a single JSON file. It is
// the storage the site used before the database backends and is kept as
// the source for content migration.
//
// All operations are serialized through one mutex, so concurrent writers
// never interleave partial files. Writes go to a temp file that is renamed
// over the target.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a FileStore backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Read returns the normalized content, creating the file with defaults
// when it does not exist yet.
func (s *FileStore) Read() (models.FullContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Write normalizes raw and replaces the file contents with it.
func (s *FileStore) Write(raw any) (models.FullContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(NormalizeContent(raw))
}

// Update reads the current content, lets fn mutate a copy, and writes the
// result back. The read and the write happen under the same lock.
func (s *FileStore) Update(fn func(*models.FullContent) error) (models.FullContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return models.FullContent{}, err
	}
	draft := NormalizeContent(current)
	if err := fn(&draft); err != nil {
		return models.FullContent{}, err
	}
	return s.write(NormalizeContent(draft))
}

func (s *FileStore) read() (models.FullContent, error) {
	if err := s.ensure(); err != nil {
		return models.FullContent{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return models.FullContent{}, fmt.Errorf("read content file: %w", err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.FullContent{}, fmt.Errorf("parse content file %s: %w", s.path, err)
	}
	return NormalizeContent(raw), nil
}

func (s *FileStore) write(c models.FullContent) (models.FullContent, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return models.FullContent{}, fmt.Errorf("encode content: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return models.FullContent{}, fmt.Errorf("create content dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".site-content-*.json")
	if err != nil {
		return models.FullContent{}, fmt.Errorf("create temp content file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return models.FullContent{}, fmt.Errorf("write temp content file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return models.FullContent{}, fmt.Errorf("close temp content file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return models.FullContent{}, fmt.Errorf("replace content file: %w", err)
	}
	return c, nil
}

// ensure creates the file with default content if it is missing.
func (s *FileStore) ensure() error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat content file: %w", err)
	}
	_, err = s.write(DefaultContent())
	return err
}
