// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"aurelux/internal/models"
)

// Activity lists audit entries newest first, filtered by
// ?collection=&id= (target) and ?actor=, capped by ?limit=.
func (a *Admin) Activity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.ActivityFilter{
		Collection: strings.TrimSpace(q.Get("collection")),
		TargetID:   strings.TrimSpace(q.Get("id")),
		Actor:      strings.TrimSpace(q.Get("actor")),
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeMessage(w, http.StatusBadRequest, "limit must be a positive integer.")
			return
		}
		filter.Limit = limit
	}
	if filter.TargetID != "" && filter.Collection == "" {
		writeMessage(w, http.StatusBadRequest, "collection is required when filtering by id.")
		return
	}

	entries, err := a.repo.RecentActivity(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, "Failed to read activity.")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
