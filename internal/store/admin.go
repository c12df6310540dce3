// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"aurelux/internal/models"
)

// AdminStore handles admin account persistence. Emails are stored
// lower-cased.
type AdminStore struct {
	db *sql.DB
}

// NewAdminStore creates a new AdminStore with the given database connection.
func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

const adminColumns = `email, role, password_hash, is_active, totp_secret, totp_enabled,
	last_login_at, created_at, created_by, updated_at, updated_by`

func scanAdmin(scanner interface{ Scan(...any) error }) (*models.Admin, error) {
	var a models.Admin
	err := scanner.Scan(
		&a.Email, &a.Role, &a.PasswordHash, &a.IsActive, &a.TOTPSecret, &a.TOTPEnabled,
		&a.LastLoginAt, &a.CreatedAt, &a.CreatedBy, &a.UpdatedAt, &a.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByEmail retrieves an admin by email, case-insensitively.
func (s *AdminStore) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	a, err := scanAdmin(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return a, nil
}

// Upsert creates or updates an admin by email, keeping creation stamps
// and the last login time.
func (s *AdminStore) Upsert(ctx context.Context, a *models.Admin) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (email, role, password_hash, is_active, totp_secret, totp_enabled,
			created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (email) DO UPDATE SET
			role = EXCLUDED.role,
			password_hash = EXCLUDED.password_hash,
			is_active = EXCLUDED.is_active,
			totp_secret = EXCLUDED.totp_secret,
			totp_enabled = EXCLUDED.totp_enabled,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by`,
		strings.ToLower(strings.TrimSpace(a.Email)), a.Role, a.PasswordHash, a.IsActive,
		a.TOTPSecret, a.TOTPEnabled, a.CreatedAt, a.CreatedBy, a.UpdatedAt, a.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("upsert admin: %w", err)
	}
	return nil
}

// TouchLogin records a successful sign-in.
func (s *AdminStore) TouchLogin(ctx context.Context, email string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE admins SET last_login_at = $2 WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)), at)
	if err != nil {
		return fmt.Errorf("touch admin login: %w", err)
	}
	return nil
}

// Count returns the number of admin accounts.
func (s *AdminStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}
