// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"log/slog"
	"time"

	"aurelux/internal/apperr"
	"aurelux/internal/models"
)

// Login failure messages. Unknown accounts and wrong passwords share one
// message.
var (
	ErrBadCredentials = apperr.Unauthorized("Invalid admin email or password.")
	ErrBadCode        = apperr.Unauthorized("Invalid authentication code.")
)

// AdminStore is the account lookup used by Login.
type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	TouchLogin(ctx context.Context, email string, at time.Time) error
}

// Authenticator checks admin credentials.
type Authenticator struct {
	admins AdminStore
	now    func() time.Time
}

// NewAuthenticator creates an Authenticator over admins.
func NewAuthenticator(admins AdminStore) *Authenticator {
	return &Authenticator{admins: admins, now: time.Now}
}

// Login returns the admin for valid credentials. Accounts with TOTP
// enabled also need a valid code. A successful login stamps lastLoginAt.
func (a *Authenticator) Login(ctx context.Context, email, password, code string) (*models.Admin, error) {
	admin, err := a.admins.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if admin == nil || !admin.CanSignIn() || !VerifyPassword(password, admin.PasswordHash) {
		return nil, ErrBadCredentials
	}
	if admin.NeedsTOTP() && !ValidateTOTP(code, *admin.TOTPSecret) {
		return nil, ErrBadCode
	}

	if err := a.admins.TouchLogin(ctx, admin.Email, a.now().UTC()); err != nil {
		slog.Warn("record admin login failed", "email", admin.Email, "error", err)
	}
	return admin, nil
}
