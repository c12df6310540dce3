// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content turns arbitrary, partial or legacy-shaped input into the
// canonical content shape. Every function here is pure and total: malformed
// input degrades to empty defaults instead of failing, and normalizing an
// already-normalized value returns it unchanged.
package content

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"aurelux/internal/models"
)

// prodCodePattern matches loosely typed product codes such as "prod 7",
// "PROD_07" or "Prod-7".
var prodCodePattern = regexp.MustCompile(`(?i)^prod[\s_-]*(\d+)$`)

// DefaultContent returns the all-defaults content document.
func DefaultContent() models.FullContent {
	return models.FullContent{
		Settings: DefaultSettings(),
		Products: []models.Product{},
	}
}

// DefaultSettings returns the all-defaults settings sections.
func DefaultSettings() models.Settings {
	return models.Settings{
		About: models.About{Highlights: []models.Highlight{}},
	}
}

// NormalizeProduct maps raw into a canonical product. index is the
// product's position in its list and seeds the generated id when raw has
// none.
func NormalizeProduct(raw any, index int) models.Product {
	m := AsObject(raw)

	name := Text(m["name"])
	if name == "" {
		name = Text(m["fullName"])
	}
	fullName := Text(m["fullName"])
	if fullName == "" {
		fullName = name
	}

	cardImage := Text(m["cardImage"])
	detailImages := normalizeDetailImages(m, cardImage)
	detailImage := cardImage
	if len(detailImages) > 0 {
		detailImage = detailImages[0]
	}

	return models.Product{
		ID:           NormalizeProductID(m["id"], index),
		Name:         name,
		FullName:     fullName,
		CardImage:    cardImage,
		DetailImage:  detailImage,
		DetailImages: detailImages,
		USP:          Text(m["usp"]),
		ShortList:    TextList(m["shortList"]),
		Description:  Text(m["description"]),
		Ingredients:  TextList(m["ingredients"]),
		Usage:        Text(m["usage"]),
	}
}

// NormalizeProductID strips leading "#" marks, canonicalizes "prod<n>"
// codes to "PROD<n>" and generates "PROD<index+1>" for blanks. Other ids
// pass through trimmed.
func NormalizeProductID(raw any, index int) string {
	id := strings.TrimLeft(Text(raw), "# \t\r\n")
	if id == "" {
		return "PROD" + strconv.Itoa(index+1)
	}
	if match := prodCodePattern.FindStringSubmatch(id); match != nil {
		digits := strings.TrimLeft(match[1], "0")
		if digits == "" {
			digits = "0"
		}
		return "PROD" + digits
	}
	return id
}

// normalizeDetailImages merges the detail image list with the legacy
// single detailImage field, dedupes keeping first occurrence and caps the
// result. An empty result falls back to the card image.
func normalizeDetailImages(m map[string]any, cardImage string) []string {
	merged := TextList(m["detailImages"])
	if legacy := Text(m["detailImage"]); legacy != "" {
		merged = append(merged, legacy)
	}

	seen := make(map[string]bool, len(merged))
	unique := make([]string, 0, models.MaxDetailImages)
	for _, u := range merged {
		if seen[u] {
			continue
		}
		seen[u] = true
		unique = append(unique, u)
		if len(unique) == models.MaxDetailImages {
			break
		}
	}

	if len(unique) > 0 {
		return unique
	}
	if cardImage != "" {
		return []string{cardImage}
	}
	return []string{}
}

// NormalizeContent applies section-wise defaulting and normalizes every
// product with its list index.
func NormalizeContent(raw any) models.FullContent {
	src := AsObject(raw)

	items, _ := asList(src["products"])
	products := make([]models.Product, 0, len(items))
	for i, item := range items {
		products = append(products, NormalizeProduct(item, i))
	}

	return models.FullContent{
		Settings: normalizeSections(src),
		Products: products,
	}
}

// NormalizeSettings normalizes only the settings sections of raw.
func NormalizeSettings(raw any) models.Settings {
	return normalizeSections(AsObject(raw))
}

func normalizeSections(src map[string]any) models.Settings {
	hero := AsObject(src["hero"])
	about := AsObject(src["about"])
	contact := AsObject(src["contact"])
	socials := AsObject(src["socials"])
	brand := AsObject(src["brand"])
	footer := AsObject(src["footer"])

	return models.Settings{
		Hero: models.Hero{
			Title:            Text(hero["title"]),
			Subtitle:         Text(hero["subtitle"]),
			VideoURL:         Text(hero["videoUrl"]),
			PromoVideoURL:    Text(hero["promoVideoUrl"]),
			PosterImage:      Text(hero["posterImage"]),
			HeroProductImage: Text(hero["heroProductImage"]),
		},
		About: models.About{
			Title:       Text(about["title"]),
			Description: Text(about["description"]),
			Highlights:  normalizeHighlights(about["highlights"]),
		},
		Contact: models.Contact{
			Headline:    Text(contact["headline"]),
			Description: Text(contact["description"]),
			WhatsApp:    Text(contact["whatsapp"]),
			Email:       Text(contact["email"]),
			Phone:       Text(contact["phone"]),
			PIC:         Text(contact["pic"]),
			Address:     Text(contact["address"]),
		},
		Socials: models.Socials{
			Instagram: Text(socials["instagram"]),
			Facebook:  Text(socials["facebook"]),
			TikTok:    Text(socials["tiktok"]),
		},
		Brand: models.Brand{
			LogoImage:         Text(brand["logoImage"]),
			LogoTextPrimary:   Text(brand["logoTextPrimary"]),
			LogoTextSecondary: Text(brand["logoTextSecondary"]),
		},
		Footer: models.Footer{
			Tagline:   Text(footer["tagline"]),
			Copyright: Text(footer["copyright"]),
		},
	}
}

// normalizeHighlights keeps {value, label} pairs where at least one side
// is non-blank.
func normalizeHighlights(raw any) []models.Highlight {
	items, _ := asList(raw)
	out := make([]models.Highlight, 0, len(items))
	for _, item := range items {
		m := AsObject(item)
		h := models.Highlight{Value: Text(m["value"]), Label: Text(m["label"])}
		if h.Value == "" && h.Label == "" {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Text coerces v to a trimmed string. Numbers are rendered in their
// shortest form; any other type yields "".
func Text(v any) string {
	return TextOr(v, "")
}

// TextOr is Text with an explicit fallback for non-text values.
func TextOr(v any, fallback string) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return fallback
	default:
		return fallback
	}
}

// TextList coerces every element of a list with Text and drops blanks.
// Non-lists yield an empty slice.
func TextList(v any) []string {
	items, _ := asList(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := Text(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// AsObject returns v as a generic JSON object. Maps are returned as-is;
// structs and other values are converted through their JSON encoding.
// Anything that does not encode to an object yields nil, which reads as
// an empty object.
func AsObject(v any) map[string]any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return t
	case string, float64, bool, []any:
		return nil
	}
	m, _ := Generic(v).(map[string]any)
	return m
}

func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case map[string]any, string, float64, bool:
		return nil, false
	}
	list, ok := Generic(v).([]any)
	return list, ok
}

// Generic converts v into its JSON data model (maps, slices, float64,
// string, bool, nil). Values that cannot be encoded yield nil.
func Generic(v any) any {
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
