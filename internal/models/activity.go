// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity actions.
const (
	ActionContentReplace = "content.replace"
	ActionProductCreate  = "product.create"
	ActionProductUpdate  = "product.update"
	ActionProductDelete  = "product.delete"
	ActionSettingsUpdate = "settings.update"
	ActionMediaUpload    = "media.upload"
	ActionMediaDelete    = "media.delete"
)

// RootPath is the diff path used when the compared values differ at the top.
const RootPath = "(root)"

// ChangeEntry is one changed leaf in a structural diff.
type ChangeEntry struct {
	Path   string `json:"path"`
	Before any    `json:"before"`
	After  any    `json:"after"`
}

// ActivityEntry is an append-only audit record of an admin action.
type ActivityEntry struct {
	ID        uuid.UUID      `json:"id"`
	Actor     string         `json:"actor"`
	Action    string         `json:"action"`
	Target    *EntityRef     `json:"target"`
	Changes   []ChangeEntry  `json:"changes"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ActivityFilter narrows an activity listing. Zero fields match everything.
type ActivityFilter struct {
	Collection string
	TargetID   string
	Actor      string
	Limit      int
}
