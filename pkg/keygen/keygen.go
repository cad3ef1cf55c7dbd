package keygen

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/dmitrymomot/securevault/pkg/aead"
	"github.com/dmitrymomot/securevault/pkg/vaulterr"
)

const (
	// DefaultSecretLength is 16 Base32 characters, i.e. 80 bits of entropy.
	DefaultSecretLength = 16

	// charsPerBlock Base32 characters encode exactly bytesPerBlock bytes.
	charsPerBlock = 8
	bytesPerBlock = 5
)

// Base32 is the RFC 4648 encoding used for MFA secrets: standard alphabet, no padding.
var Base32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// Default is the process-wide generator backed by crypto/rand.
var Default = New()

// KeyMaterial is a freshly generated key and nonce for a single encryption.
// It must never be reused for another file.
type KeyMaterial struct {
	Algorithm string
	Key       []byte
	IV        []byte
}

// Wipe zeroes the key and the nonce.
func (km *KeyMaterial) Wipe() {
	if km == nil {
		return
	}
	Wipe(km.Key, km.IV)
}

// Generator draws random bytes from an entropy source.
type Generator struct {
	rand io.Reader
}

// Option configures a Generator.
type Option func(*Generator)

// WithReader replaces the entropy source. The reader must be safe for concurrent use
// if the generator is shared.
func WithReader(r io.Reader) Option {
	return func(g *Generator) {
		if r != nil {
			g.rand = r
		}
	}
}

// New creates a generator reading from crypto/rand unless overridden.
func New(opts ...Option) *Generator {
	g := &Generator{rand: rand.Reader}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Bytes returns n random bytes.
func (g *Generator) Bytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, errors.Join(vaulterr.ErrConfiguration, ErrInvalidByteCount)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(g.rand, b); err != nil {
		Wipe(b)
		return nil, errors.Join(vaulterr.ErrEntropyUnavailable, ErrReadEntropy, err)
	}
	return b, nil
}

// GenerateKeyMaterial returns a key and nonce sized for the given cipher.
func (g *Generator) GenerateKeyMaterial(algorithm string) (*KeyMaterial, error) {
	spec, err := aead.Lookup(algorithm)
	if err != nil {
		return nil, err
	}

	key, err := g.Bytes(spec.KeySize)
	if err != nil {
		return nil, err
	}
	iv, err := g.Bytes(spec.NonceSize)
	if err != nil {
		Wipe(key)
		return nil, err
	}

	return &KeyMaterial{Algorithm: spec.Algorithm, Key: key, IV: iv}, nil
}

// GenerateMFASecret returns a Base32 secret of the given length in characters.
func (g *Generator) GenerateMFASecret(length int) (string, error) {
	if length <= 0 || length%charsPerBlock != 0 {
		return "", errors.Join(vaulterr.ErrConfiguration,
			fmt.Errorf("%w: got %d", ErrInvalidSecretLength, length))
	}

	raw, err := g.Bytes(length / charsPerBlock * bytesPerBlock)
	if err != nil {
		return "", err
	}
	defer Wipe(raw)

	return Base32.EncodeToString(raw), nil
}

// Bytes returns n random bytes from the default generator.
func Bytes(n int) ([]byte, error) {
	return Default.Bytes(n)
}

// GenerateKeyMaterial uses the default generator.
func GenerateKeyMaterial(algorithm string) (*KeyMaterial, error) {
	return Default.GenerateKeyMaterial(algorithm)
}

// GenerateMFASecret uses the default generator.
func GenerateMFASecret(length int) (string, error) {
	return Default.GenerateMFASecret(length)
}

// Wipe overwrites every slice with zeros.
func Wipe(slices ...[]byte) {
	for _, b := range slices {
		clear(b)
		runtime.KeepAlive(b)
	}
}
