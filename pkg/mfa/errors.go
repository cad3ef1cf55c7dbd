package mfa

import "errors"

var (
	ErrMissingIssuer        = errors.New("issuer must not be empty")
	ErrInvalidQRSize        = errors.New("qr size must not be negative")
	ErrInvalidCode          = errors.New("verification code is invalid or expired")
	ErrMissingAccount       = errors.New("account name must not be empty")
	ErrNoSealer             = errors.New("secret sealing is not configured")
	ErrInvalidRecoveryCodes = errors.New("recovery code count must not be negative")
)
