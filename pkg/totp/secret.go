package totp

import (
	"errors"
	"regexp"
	"strings"

	"github.com/dmitrymomot/securevault/pkg/keygen"
	"github.com/dmitrymomot/securevault/pkg/vaulterr"
)

// ValidateSecretKeyRegex matches a canonical secret: uppercase A-Z and digits 2-7, no padding.
var ValidateSecretKeyRegex = regexp.MustCompile("^[A-Z2-7]+$")

// GenerateSecretKey returns a new secret of keygen.DefaultSecretLength characters.
func GenerateSecretKey() (string, error) {
	return GenerateSecretKeyWithLength(keygen.DefaultSecretLength)
}

// GenerateSecretKeyWithLength returns a new secret of the given length in Base32 characters.
// The length must be a multiple of 8.
func GenerateSecretKeyWithLength(length int) (string, error) {
	secret, err := keygen.GenerateMFASecret(length)
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateSecret, err)
	}
	return secret, nil
}

// NormalizeSecret returns the canonical form of a user supplied secret:
// whitespace removed, uppercased, trailing padding stripped.
func NormalizeSecret(secret string) string {
	secret = strings.Join(strings.Fields(secret), "")
	secret = strings.ToUpper(secret)
	return strings.TrimRight(secret, "=")
}

// DecodeSecret normalizes and decodes a Base32 secret into key bytes.
func DecodeSecret(secret string) ([]byte, error) {
	secret = NormalizeSecret(secret)
	if secret == "" {
		return nil, errors.Join(vaulterr.ErrInvalidSecretFormat, ErrMissingSecret)
	}
	if !ValidateSecretKeyRegex.MatchString(secret) {
		return nil, errors.Join(vaulterr.ErrInvalidSecretFormat, ErrInvalidSecret)
	}

	key, err := keygen.Base32.DecodeString(secret)
	if err != nil {
		return nil, errors.Join(vaulterr.ErrInvalidSecretFormat, ErrInvalidSecret, err)
	}
	return key, nil
}

// ValidateSecret reports whether secret is usable, for enrollment-time checks.
func ValidateSecret(secret string) error {
	key, err := DecodeSecret(secret)
	keygen.Wipe(key)
	return err
}
