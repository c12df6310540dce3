// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package activity

import (
	"bytes"
	"encoding/json"
	"sort"

	"aurelux/internal/models"
)

// Diff limits.
const (
	DefaultMaxEntries   = 120
	DefaultMaxTextRunes = 280
	DefaultMaxItems     = 20

	// truncationMarker is appended to truncated previews.
	truncationMarker = "..."
)

type diffConfig struct {
	maxEntries   int
	maxTextRunes int
	maxItems     int
}

// DiffOption adjusts BuildChangeDiff limits.
type DiffOption func(*diffConfig)

// WithMaxEntries caps the number of emitted change entries.
func WithMaxEntries(n int) DiffOption {
	return func(c *diffConfig) { c.maxEntries = n }
}

// WithPreviewLimits sets the rune cap for string previews and the item
// cap for list and object previews.
func WithPreviewLimits(textRunes, items int) DiffOption {
	return func(c *diffConfig) {
		c.maxTextRunes = textRunes
		c.maxItems = items
	}
}

// BuildChangeDiff walks before and after in their JSON data model. Where
// both sides are objects it recurses per union of keys (sorted); anywhere
// else it compares the JSON encodings and emits one entry per mismatch with
// the dotted key path, or "(root)" at the top. Values in entries are
// truncated previews. The walk stops once the entry cap is reached.
func BuildChangeDiff(before, after any, opts ...DiffOption) []models.ChangeEntry {
	cfg := diffConfig{
		maxEntries:   DefaultMaxEntries,
		maxTextRunes: DefaultMaxTextRunes,
		maxItems:     DefaultMaxItems,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	w := &walker{cfg: cfg, changes: []models.ChangeEntry{}}
	w.walk("", toGeneric(before), toGeneric(after))
	return w.changes
}

type walker struct {
	cfg     diffConfig
	changes []models.ChangeEntry
}

func (w *walker) full() bool {
	return len(w.changes) >= w.cfg.maxEntries
}

func (w *walker) walk(path string, before, after any) {
	if w.full() {
		return
	}

	bm, bok := before.(map[string]any)
	am, aok := after.(map[string]any)
	if bok && aok {
		for _, key := range unionKeys(bm, am) {
			next := key
			if path != "" {
				next = path + "." + key
			}
			w.walk(next, bm[key], am[key])
			if w.full() {
				return
			}
		}
		return
	}

	if jsonEqual(before, after) {
		return
	}
	if path == "" {
		path = models.RootPath
	}
	w.changes = append(w.changes, models.ChangeEntry{
		Path:   path,
		Before: w.preview(before),
		After:  w.preview(after),
	})
}

// preview truncates long strings, lists and objects.
func (w *walker) preview(v any) any {
	switch t := v.(type) {
	case string:
		runes := []rune(t)
		if len(runes) > w.cfg.maxTextRunes {
			return string(runes[:w.cfg.maxTextRunes]) + truncationMarker
		}
		return t
	case []any:
		if len(t) > w.cfg.maxItems {
			out := make([]any, 0, w.cfg.maxItems+1)
			out = append(out, t[:w.cfg.maxItems]...)
			return append(out, truncationMarker)
		}
		return t
	case map[string]any:
		if len(t) > w.cfg.maxItems {
			keys := sortedKeys(t)
			out := make(map[string]any, w.cfg.maxItems+1)
			for _, k := range keys[:w.cfg.maxItems] {
				out[k] = t[k]
			}
			out[truncationMarker] = true
			return out
		}
		return t
	default:
		return v
	}
}

func unionKeys(a, b map[string]any) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		set[k] = struct{}{}
	}
	for k := range b {
		set[k] = struct{}{}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func jsonEqual(a, b any) bool {
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

// toGeneric converts v to its JSON data model so structs, typed slices and
// maps compare the same way as decoded JSON.
func toGeneric(v any) any {
	switch v.(type) {
	case nil, string, float64, bool:
		return v
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
