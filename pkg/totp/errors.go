package totp

import "errors"

var (
	ErrInvalidSecret            = errors.New("invalid secret")
	ErrMissingSecret            = errors.New("missing secret")
	ErrMissingAccountName       = errors.New("missing account name")
	ErrMissingIssuer            = errors.New("missing issuer")
	ErrColonInLabel             = errors.New("issuer and account name must not contain a colon")
	ErrUnsupportedAlgorithm     = errors.New("unsupported TOTP algorithm")
	ErrInvalidDigits            = errors.New("digits must be between 6 and 8")
	ErrInvalidPeriod            = errors.New("period must be positive")
	ErrInvalidRecoveryCodeCount = errors.New("invalid recovery code count, must be greater than 0")
	ErrFailedToGenerateSecret   = errors.New("failed to generate TOTP secret key")
	ErrFailedToGenerateCode     = errors.New("failed to generate recovery code")
)
