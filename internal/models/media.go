// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
)

// MediaKind is the coarse type of an uploaded file.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Usage tags recorded on media assets when content references them.
const (
	UsageGeneric       = "generic"
	UsageProductCard   = "product_card"
	UsageProductDetail = "product_detail"
	UsageHeroVideo     = "hero_video"
	UsagePromoVideo    = "promo_video"
	UsageHeroPoster    = "hero_poster"
	UsageHeroProduct   = "hero_product"
	UsageBrandLogo     = "brand_logo"
)

// EntityRef points at a stored record by collection and id. It is used
// both for media back-references and activity targets.
type EntityRef struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

// MediaAsset is the registry record for one uploaded file, keyed by URL.
type MediaAsset struct {
	URL            string      `json:"url"`
	Type           MediaKind   `json:"type"`
	MimeType       string      `json:"mimeType"`
	SizeBytes      *int64      `json:"sizeBytes"`
	OriginalName   string      `json:"originalName"`
	Usage          string      `json:"usage"`
	LinkedEntity   *EntityRef  `json:"linkedEntity"`
	LinkedEntities []EntityRef `json:"linkedEntities"`
	IsDeleted      bool        `json:"isDeleted"`
	Audit
}

// IsImage returns true if the asset is an image.
func (m *MediaAsset) IsImage() bool {
	if m.Type != "" {
		return m.Type == MediaImage
	}
	return strings.HasPrefix(m.MimeType, "image/")
}

// HasLink reports whether ref is already in the linked-entities set.
func (m *MediaAsset) HasLink(ref EntityRef) bool {
	for _, l := range m.LinkedEntities {
		if l == ref {
			return true
		}
	}
	return false
}

// HumanSize returns a human-readable file size string, or "" when the
// size is unknown.
func (m *MediaAsset) HumanSize() string {
	if m.SizeBytes == nil {
		return ""
	}
	const (
		kb = 1024
		mb = 1024 * kb
	)
	size := *m.SizeBytes
	switch {
	case size >= mb:
		return fmt.Sprintf("%.1f MB", float64(size)/float64(mb))
	case size >= kb:
		return fmt.Sprintf("%.0f KB", float64(size)/float64(kb))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
