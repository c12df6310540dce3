// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// RoleAdmin is the only role allowed into the admin API.
const RoleAdmin = "admin"

// Admin is an account allowed to sign in to the admin API.
type Admin struct {
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	PasswordHash string     `json:"-"` // Never serialize the hash
	IsActive     bool       `json:"isActive"`
	TOTPSecret   *string    `json:"-"` // Nullable; set during enrolment
	TOTPEnabled  bool       `json:"totpEnabled"`
	LastLoginAt  *time.Time `json:"lastLoginAt"`
	Audit
}

// IsAdmin returns true if the account has the admin role.
func (a *Admin) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanSignIn reports whether the account is active and holds the admin role.
func (a *Admin) CanSignIn() bool {
	return a.IsActive && a.IsAdmin()
}

// NeedsTOTP returns true if sign-in requires a one-time code.
func (a *Admin) NeedsTOTP() bool {
	return a.TOTPEnabled && a.TOTPSecret != nil && *a.TOTPSecret != ""
}
