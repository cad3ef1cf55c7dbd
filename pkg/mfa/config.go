package mfa

import (
	"errors"
	"strings"

	"github.com/dmitrymomot/securevault/pkg/keygen"
	"github.com/dmitrymomot/securevault/pkg/totp"
)

// Config is the environment-driven enrollment configuration.
type Config struct {
	Issuer        string `env:"MFA_ISSUER" envDefault:"SecureVault"`
	SecretLength  int    `env:"MFA_SECRET_LENGTH" envDefault:"16"`
	Algorithm     string `env:"MFA_ALGORITHM" envDefault:"SHA1"`
	Digits        int    `env:"MFA_DIGITS" envDefault:"6"`
	Period        int    `env:"MFA_PERIOD" envDefault:"30"`
	QRSize        int    `env:"MFA_QR_SIZE" envDefault:"256"`
	RecoveryCodes int    `env:"MFA_RECOVERY_CODES" envDefault:"8"`
}

// DefaultConfig mirrors the envDefault tags.
func DefaultConfig() Config {
	p := totp.DefaultParams()
	return Config{
		Issuer:        "SecureVault",
		SecretLength:  keygen.DefaultSecretLength,
		Algorithm:     p.Algorithm,
		Digits:        p.Digits,
		Period:        p.Period,
		QRSize:        256,
		RecoveryCodes: 8,
	}
}

// Params returns the TOTP parameters described by the config.
func (c Config) Params() totp.Params {
	return totp.Params{Algorithm: strings.ToUpper(c.Algorithm), Digits: c.Digits, Period: c.Period}
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Issuer) == "" {
		errs = append(errs, ErrMissingIssuer)
	}
	if strings.Contains(c.Issuer, ":") {
		errs = append(errs, totp.ErrColonInLabel)
	}
	if c.SecretLength <= 0 || c.SecretLength%8 != 0 {
		errs = append(errs, keygen.ErrInvalidSecretLength)
	}
	if c.QRSize < 0 {
		errs = append(errs, ErrInvalidQRSize)
	}
	if c.RecoveryCodes < 0 {
		errs = append(errs, ErrInvalidRecoveryCodes)
	}
	if err := c.Params().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
