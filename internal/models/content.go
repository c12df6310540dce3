// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the domain types shared across the application:
// products, site settings, media assets, activity entries and admins.
package models

import (
	"strings"
	"time"
)

const (
	// MaxDetailImages caps the number of detail images per product.
	MaxDetailImages = 5

	// ProductStatusPublished is the only status products are stored with.
	ProductStatusPublished = "published"

	// SettingsSchemaVersion is stamped on every settings write.
	SettingsSchemaVersion = 1

	// DefaultActor is recorded when a write has no identifiable actor.
	DefaultActor = "system@aurelux.local"
)

// Default collection names. Both storage backends accept overrides.
const (
	CollectionProducts = "products"
	CollectionSettings = "site_settings"
	CollectionMedia    = "media_assets"
	CollectionActivity = "activity_logs"
	CollectionAdmins   = "admins"

	// SettingsDocumentID addresses the singleton settings document.
	SettingsDocumentID = "main"
)

// Audit holds the creation and last-update stamps carried by stored records.
type Audit struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`
}

// Product is the canonical shape of a sellable item as it appears in the
// full-content view and the admin API.
type Product struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	FullName     string   `json:"fullName"`
	CardImage    string   `json:"cardImage"`
	DetailImage  string   `json:"detailImage"`
	DetailImages []string `json:"detailImages"`
	USP          string   `json:"usp"`
	ShortList    []string `json:"shortList"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Usage        string   `json:"usage"`
}

// ProductRecord is the stored form of a product.
type ProductRecord struct {
	Product
	Slug      string `json:"slug"`
	Status    string `json:"status"`
	SortOrder int    `json:"sortOrder"`
	IsDeleted bool   `json:"isDeleted"`
	Audit
}

// Hero is the top-of-page section.
type Hero struct {
	Title            string `json:"title"`
	Subtitle         string `json:"subtitle"`
	VideoURL         string `json:"videoUrl"`
	PromoVideoURL    string `json:"promoVideoUrl"`
	PosterImage      string `json:"posterImage"`
	HeroProductImage string `json:"heroProductImage"`
}

// Highlight is a single {value, label} pair shown in the about section.
type Highlight struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// About describes the brand.
type About struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Highlights  []Highlight `json:"highlights"`
}

// Contact holds the reach-us details.
type Contact struct {
	Headline    string `json:"headline"`
	Description string `json:"description"`
	WhatsApp    string `json:"whatsapp"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	PIC         string `json:"pic"`
	Address     string `json:"address"`
}

// Socials holds social profile URLs.
type Socials struct {
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
	TikTok    string `json:"tiktok"`
}

// Brand holds the logo image and its text fallback.
type Brand struct {
	LogoImage         string `json:"logoImage"`
	LogoTextPrimary   string `json:"logoTextPrimary"`
	LogoTextSecondary string `json:"logoTextSecondary"`
}

// Footer holds the page footer strings.
type Footer struct {
	Tagline   string `json:"tagline"`
	Copyright string `json:"copyright"`
}

// Settings is the site-wide singleton document.
type Settings struct {
	Hero    Hero    `json:"hero"`
	About   About   `json:"about"`
	Contact Contact `json:"contact"`
	Socials Socials `json:"socials"`
	Brand   Brand   `json:"brand"`
	Footer  Footer  `json:"footer"`
}

// SettingsSections lists the top-level section keys accepted by partial
// settings updates, in document order.
var SettingsSections = []string{"hero", "about", "contact", "socials", "brand", "footer"}

// SettingsRecord is the stored form of the settings singleton.
type SettingsRecord struct {
	ID string `json:"id"`
	Settings
	SchemaVersion int `json:"schemaVersion"`
	Audit
}

// FullContent is the denormalized read view: settings plus the ordered
// list of active products. It is composed on every read, never stored.
type FullContent struct {
	Settings
	Products []Product `json:"products"`
}

// NormalizeActor trims the actor identity and substitutes DefaultActor
// for blanks.
func NormalizeActor(actor string) string {
	if a := strings.TrimSpace(actor); a != "" {
		return a
	}
	return DefaultActor
}
