package totp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// URIParams contains the inputs for an otpauth:// provisioning URI.
type URIParams struct {
	Secret      string // Base32-encoded TOTP secret key (required)
	AccountName string // User identifier like email (required)
	Issuer      string // Service name displayed in authenticator apps (required)
	Params      Params // Must match the parameters used for verification
}

// Validate ensures all required fields are present and valid.
func (p URIParams) Validate() error {
	if strings.TrimSpace(p.Secret) == "" {
		return ErrMissingSecret
	}
	if err := ValidateSecret(p.Secret); err != nil {
		return err
	}
	if p.AccountName == "" {
		return ErrMissingAccountName
	}
	if p.Issuer == "" {
		return ErrMissingIssuer
	}
	if strings.Contains(p.AccountName, ":") || strings.Contains(p.Issuer, ":") {
		return ErrColonInLabel
	}
	return p.Params.Validate()
}

// GetTOTPURI builds the provisioning URI:
//
//	otpauth://totp/{issuer}:{account}?secret=...&issuer=...&algorithm=...&digits=...&period=...
//
// Issuer and account are percent-encoded; the secret is emitted in canonical Base32.
// The result is deterministic for identical inputs.
func GetTOTPURI(p URIParams) (string, error) {
	if err := p.Validate(); err != nil {
		return "", errors.Join(errors.New("failed to build provisioning URI"), err)
	}

	label := url.PathEscape(p.Issuer) + ":" + url.PathEscape(p.AccountName)

	return fmt.Sprintf("otpauth://totp/%s?secret=%s&issuer=%s&algorithm=%s&digits=%d&period=%d",
		label,
		NormalizeSecret(p.Secret),
		queryEscape(p.Issuer),
		strings.ToUpper(p.Params.Algorithm),
		p.Params.Digits,
		p.Params.Period,
	), nil
}

// queryEscape encodes spaces as %20, which authenticator apps decode reliably.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
