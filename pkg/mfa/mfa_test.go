package mfa_test

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/securevault/pkg/keygen"
	"github.com/dmitrymomot/securevault/pkg/mfa"
	"github.com/dmitrymomot/securevault/pkg/secrets"
	"github.com/dmitrymomot/securevault/pkg/totp"
	"github.com/dmitrymomot/securevault/pkg/vaulterr"
)

var fixedNow = time.Unix(1_700_000_000, 0)

func clock() time.Time { return fixedNow }

func TestBegin(t *testing.T) {
	t.Parallel()
	svc, err := mfa.New(mfa.WithClock(clock))
	require.NoError(t, err)

	e, err := svc.Begin("  alice@example.com ")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", e.Account)
	assert.Len(t, e.Secret, keygen.DefaultSecretLength)
	assert.NoError(t, totp.ValidateSecret(e.Secret))
	assert.Equal(t, totp.DefaultParams(), e.Params)
	assert.True(t, strings.HasPrefix(e.QRCode, "data:image/png;base64,"))
	assert.Empty(t, e.SealedSecret)

	u, err := url.Parse(e.URI)
	require.NoError(t, err)
	assert.Equal(t, "otpauth", u.Scheme)
	assert.Equal(t, "totp", u.Host)
	assert.Equal(t, "/SecureVault:alice@example.com", u.Path)
	q := u.Query()
	assert.Equal(t, e.Secret, q.Get("secret"))
	assert.Equal(t, "SecureVault", q.Get("issuer"))
	assert.Equal(t, "6", q.Get("digits"))
	assert.Equal(t, "30", q.Get("period"))

	require.Len(t, e.RecoveryCodes, 8)
	require.Len(t, e.RecoveryHashes, 8)
	for i, c := range e.RecoveryCodes {
		assert.True(t, totp.VerifyRecoveryCode(c, e.RecoveryHashes[i]))
	}
}

func TestBeginRejectsEmptyAccount(t *testing.T) {
	t.Parallel()
	svc, err := mfa.New()
	require.NoError(t, err)

	_, err = svc.Begin("   ")
	assert.ErrorIs(t, err, mfa.ErrMissingAccount)

	_, err = svc.Begin("bad:label")
	assert.ErrorIs(t, err, totp.ErrColonInLabel)
}

func TestConfirmAndVerify(t *testing.T) {
	t.Parallel()
	svc, err := mfa.New(mfa.WithClock(clock))
	require.NoError(t, err)
	e, err := svc.Begin("bob")
	require.NoError(t, err)

	code, err := totp.GenerateCode(e.Secret, e.Params, fixedNow)
	require.NoError(t, err)
	require.NoError(t, svc.Confirm(e.Secret, code))
	assert.True(t, svc.Verify(e.Secret, code))

	own, err := svc.Code(e.Secret)
	require.NoError(t, err)
	assert.Equal(t, code, own)

	old, err := totp.GenerateCode(e.Secret, e.Params, fixedNow.Add(-2*time.Duration(e.Params.Period)*time.Second))
	require.NoError(t, err)
	if old != code {
		assert.ErrorIs(t, svc.Confirm(e.Secret, old), mfa.ErrInvalidCode)
		assert.False(t, svc.Verify(e.Secret, old))
	}

	assert.ErrorIs(t, svc.Confirm(e.Secret, "12ab56"), mfa.ErrInvalidCode)
	assert.False(t, svc.Verify("not base32!", code))
}

func TestSealedEnrollment(t *testing.T) {
	t.Parallel()
	key, err := secrets.GenerateKey()
	require.NoError(t, err)
	sealer, err := secrets.New(key)
	require.NoError(t, err)

	svc, err := mfa.New(mfa.WithClock(clock), mfa.WithSealer(sealer))
	require.NoError(t, err)
	e, err := svc.Begin("carol")
	require.NoError(t, err)
	require.NotEmpty(t, e.SealedSecret)
	assert.NotContains(t, e.SealedSecret, e.Secret)

	code, err := svc.Code(e.Secret)
	require.NoError(t, err)

	ok, err := svc.VerifySealed("carol", e.SealedSecret, code)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.VerifySealed("mallory", e.SealedSecret, code)
	assert.ErrorIs(t, err, vaulterr.ErrDecryptionFailure)

	plain, err := mfa.New()
	require.NoError(t, err)
	_, err = plain.VerifySealed("carol", e.SealedSecret, code)
	assert.ErrorIs(t, err, mfa.ErrNoSealer)
}

func TestDeterministicSecret(t *testing.T) {
	t.Parallel()
	gen := keygen.New(keygen.WithReader(bytes.NewReader([]byte("Hello!\xde\xad\xbe\xef"))))
	cfg := mfa.DefaultConfig()
	cfg.QRSize = 0
	cfg.RecoveryCodes = 0

	svc, err := mfa.NewFromConfig(cfg, mfa.WithGenerator(gen))
	require.NoError(t, err)
	e, err := svc.Begin("alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, "JBSWY3DPEHPK3PXP", e.Secret)
	assert.Empty(t, e.QRCode)
	assert.Empty(t, e.RecoveryCodes)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	mutate := map[string]func(*mfa.Config){
		"empty issuer":      func(c *mfa.Config) { c.Issuer = " " },
		"colon in issuer":   func(c *mfa.Config) { c.Issuer = "a:b" },
		"secret length":     func(c *mfa.Config) { c.SecretLength = 10 },
		"negative qr":       func(c *mfa.Config) { c.QRSize = -1 },
		"negative codes":    func(c *mfa.Config) { c.RecoveryCodes = -1 },
		"zero period":       func(c *mfa.Config) { c.Period = 0 },
		"digits":            func(c *mfa.Config) { c.Digits = 9 },
		"unknown algorithm": func(c *mfa.Config) { c.Algorithm = "MD5" },
	}
	for name, fn := range mutate {
		name := name
		fn := fn
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := mfa.DefaultConfig()
			fn(&cfg)
			_, err := mfa.NewFromConfig(cfg)
			assert.ErrorIs(t, err, vaulterr.ErrConfiguration)
		})
	}

	t.Run("lowercase algorithm accepted", func(t *testing.T) {
		t.Parallel()
		cfg := mfa.DefaultConfig()
		cfg.Algorithm = "sha256"
		svc, err := mfa.NewFromConfig(cfg)
		require.NoError(t, err)
		e, err := svc.Begin("dave")
		require.NoError(t, err)
		assert.Contains(t, e.URI, "algorithm=SHA256")
	})
}

func TestUseRecoveryCode(t *testing.T) {
	t.Parallel()
	codes, err := totp.GenerateRecoveryCodes(3)
	require.NoError(t, err)
	hashes := make([]string, len(codes))
	for i, c := range codes {
		hashes[i] = totp.HashRecoveryCode(c)
	}

	assert.Equal(t, 1, mfa.UseRecoveryCode(strings.ToLower(codes[1]), hashes))
	assert.Equal(t, -1, mfa.UseRecoveryCode("0000-0000-0000-0000", hashes))
}
