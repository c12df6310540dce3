// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// TOTPIssuer is shown by authenticator apps next to the account.
const TOTPIssuer = "Aurelux"

// GenerateTOTP creates a new TOTP key for email.
func GenerateTOTP(email string) (*otp.Key, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      TOTPIssuer,
		AccountName: email,
	})
	if err != nil {
		return nil, fmt.Errorf("totp generate: %w", err)
	}
	return key, nil
}

// ValidateTOTP checks a one-time code against secret.
func ValidateTOTP(code, secret string) bool {
	if code == "" || secret == "" {
		return false
	}
	return totp.Validate(code, secret)
}

// TOTPQRCode renders the enrolment URL of key as a PNG.
func TOTPQRCode(key *otp.Key, size int) ([]byte, error) {
	png, err := qrcode.Encode(key.URL(), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("totp qr code: %w", err)
	}
	return png, nil
}
