// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"aurelux/internal/models"
)

const (
	// DefaultPrefix namespaces every cache key.
	DefaultPrefix = "aurelux:"

	// DefaultTTL is how long cached content stays valid.
	DefaultTTL = 5 * time.Minute

	contentKey = "content"
	pageKey    = "page:"
)

// ContentCache caches the composed full-content view and rendered public
// pages. A nil *ContentCache is a valid, always-missing cache, so callers
// run unchanged without Valkey. Errors are logged and treated as misses.
type ContentCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewContentCache creates a cache on client. Zero ttl selects DefaultTTL;
// blank prefix selects DefaultPrefix.
func NewContentCache(client *redis.Client, prefix string, ttl time.Duration) *ContentCache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &ContentCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *ContentCache) enabled() bool {
	return c != nil && c.client != nil
}

// Content returns the cached full-content view.
func (c *ContentCache) Content(ctx context.Context) (*models.FullContent, bool) {
	raw, ok := c.get(ctx, contentKey)
	if !ok {
		return nil, false
	}
	var fc models.FullContent
	if err := json.Unmarshal(raw, &fc); err != nil {
		slog.Warn("content cache decode error", "error", err)
		return nil, false
	}
	return &fc, true
}

// SetContent stores the full-content view.
func (c *ContentCache) SetContent(ctx context.Context, fc *models.FullContent) {
	if !c.enabled() {
		return
	}
	raw, err := json.Marshal(fc)
	if err != nil {
		slog.Warn("content cache encode error", "error", err)
		return
	}
	c.set(ctx, contentKey, raw)
}

// Page returns cached rendered HTML for name.
func (c *ContentCache) Page(ctx context.Context, name string) ([]byte, bool) {
	return c.get(ctx, pageKey+name)
}

// SetPage stores rendered HTML for name.
func (c *ContentCache) SetPage(ctx context.Context, name string, html []byte) {
	c.set(ctx, pageKey+name, html)
}

// Invalidate drops every cached entry under the prefix. Admin writes call
// it after each successful change.
func (c *ContentCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 100).Result()
		if err != nil {
			slog.Warn("content cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("content cache delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	slog.Debug("content cache invalidated", "deleted", deleted)
}

func (c *ContentCache) get(ctx context.Context, key string) ([]byte, bool) {
	if !c.enabled() {
		return nil, false
	}
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("content cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

func (c *ContentCache) set(ctx context.Context, key string, val []byte) {
	if !c.enabled() {
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, val, c.ttl).Err(); err != nil {
		slog.Warn("content cache set error", "key", key, "error", err)
	}
}
