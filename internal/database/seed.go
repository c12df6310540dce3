// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Development admin credentials created by Seed.
const (
	SeedAdminEmail    = "admin@aurelux.local"
	SeedAdminPassword = "admin"
)

// Seed creates a default admin account when the admins table is empty.
// It is only called in development; production accounts are created with
// aureluxctl.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM admins").Scan(&count); err != nil {
		return fmt.Errorf("seed check admins: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	now := time.Now().UTC()
	_, err = db.Exec(`
		INSERT INTO admins (email, role, password_hash, is_active, totp_enabled,
			created_at, created_by, updated_at, updated_by)
		VALUES ($1, 'admin', $2, TRUE, FALSE, $3, 'seed', $3, 'seed')
		ON CONFLICT (email) DO NOTHING
	`, SeedAdminEmail, string(hash), now)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin",
		"email", SeedAdminEmail,
		"password", SeedAdminPassword,
	)
	return nil
}
