package aead_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dmitrymomot/securevault/pkg/aead"
	"github.com/dmitrymomot/securevault/pkg/vaulterr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		algorithm string
		want      string
		nonceSize int
	}{
		{"aes gcm canonical", "AES-256-GCM", aead.AES256GCM, 12},
		{"aes gcm lowercase", "aes-256-gcm", aead.AES256GCM, 12},
		{"chacha", "chacha20-poly1305", aead.ChaCha20Poly1305, 12},
		{"xchacha with spaces", "  XChaCha20-Poly1305 ", aead.XChaCha20Poly1305, 24},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			spec, err := aead.Lookup(tt.algorithm)
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec.Algorithm)
			assert.Equal(t, 32, spec.KeySize)
			assert.Equal(t, tt.nonceSize, spec.NonceSize)
			assert.Equal(t, 16, spec.TagSize)
		})
	}
}

func TestLookupUnsupported(t *testing.T) {
	t.Parallel()

	for _, alg := range []string{"", "AES-128-CBC", "DES", "rot13"} {
		_, err := aead.Lookup(alg)
		require.Error(t, err, alg)
		assert.True(t, errors.Is(err, aead.ErrUnsupportedAlgorithm))
		assert.True(t, errors.Is(err, vaulterr.ErrConfiguration))
		assert.False(t, aead.Supported(alg))
	}
}

func TestAlgorithms(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{aead.AES256GCM, aead.ChaCha20Poly1305, aead.XChaCha20Poly1305}, aead.Algorithms())
}

func TestSealOpen(t *testing.T) {
	t.Parallel()

	for _, alg := range aead.Algorithms() {
		alg := alg
		t.Run(alg, func(t *testing.T) {
			t.Parallel()
			spec, err := aead.Lookup(alg)
			require.NoError(t, err)

			key := bytes.Repeat([]byte{0x42}, spec.KeySize)
			nonce := bytes.Repeat([]byte{0x07}, spec.NonceSize)
			plaintext := []byte("the quick brown fox")

			ct, err := aead.Seal(alg, key, nonce, plaintext, nil)
			require.NoError(t, err)
			assert.Len(t, ct, len(plaintext)+spec.TagSize)
			assert.NotEqual(t, plaintext, ct[:len(plaintext)])

			pt, err := aead.Open(alg, key, nonce, ct, nil)
			require.NoError(t, err)
			assert.Equal(t, plaintext, pt)

			// Tampering with the blob must be detected.
			ct[0] ^= 0xff
			_, err = aead.Open(alg, key, nonce, ct, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, aead.ErrOpenFailed))
		})
	}
}

func TestSealRejectsBadSizes(t *testing.T) {
	t.Parallel()

	_, err := aead.Seal(aead.AES256GCM, make([]byte, 16), make([]byte, 12), []byte("x"), nil)
	assert.True(t, errors.Is(err, aead.ErrInvalidKeySize))

	_, err = aead.Seal(aead.AES256GCM, make([]byte, 32), make([]byte, 8), []byte("x"), nil)
	assert.True(t, errors.Is(err, aead.ErrInvalidNonceSize))

	_, err = aead.Open(aead.AES256GCM, make([]byte, 32), make([]byte, 12), []byte("short"), nil)
	assert.True(t, errors.Is(err, aead.ErrCiphertextTooShort))
}
