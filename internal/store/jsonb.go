// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the content, media, activity and admin stores
// on PostgreSQL. Nested values (lists, settings sections, link sets) live
// in JSONB columns.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

// toJSONB encodes v for a JSONB parameter. Nil slices are stored as [].
func toJSONB(v any) ([]byte, error) {
	switch t := v.(type) {
	case []string:
		if t == nil {
			return []byte("[]"), nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode jsonb: %w", err)
	}
	return b, nil
}

// fromJSONB decodes a JSONB column. NULL leaves dst untouched.
func fromJSONB(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode jsonb: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// strList never returns nil so JSON output stays [] rather than null.
func strList(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
