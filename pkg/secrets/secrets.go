package secrets

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/dmitrymomot/securevault/pkg/aead"
	"github.com/dmitrymomot/securevault/pkg/keygen"
	"github.com/dmitrymomot/securevault/pkg/vaulterr"
)

const (
	// KeySize is the required application key size.
	KeySize = 32

	// version prefixes every sealed value.
	version byte = 1

	infoPrefix = "securevault-secrets-v1:"
)

// Config holds the application key as standard Base64.
type Config struct {
	AppKey    string `env:"SECRETS_APP_KEY,required"`
	Algorithm string `env:"SECRETS_ALGORITHM" envDefault:"AES-256-GCM"`
}

// Validate checks the key encoding and length and that the cipher is registered.
func (c Config) Validate() error {
	key, err := base64.StdEncoding.DecodeString(c.AppKey)
	if err != nil {
		return errors.Join(ErrInvalidAppKey, err)
	}
	defer keygen.Wipe(key)
	if len(key) != KeySize {
		return ErrInvalidAppKey
	}
	_, err = aead.Lookup(c.Algorithm)
	return err
}

// Sealer encrypts small secrets, such as MFA seeds, under a key derived from the
// application key and a per-record scope (usually the account identifier). A value
// sealed for one scope cannot be opened under another.
type Sealer struct {
	appKey    []byte
	algorithm string
	keys      *keygen.Generator
}

// Option configures a Sealer.
type Option func(*Sealer)

// WithAlgorithm selects the AEAD, see pkg/aead.
func WithAlgorithm(algorithm string) Option {
	return func(s *Sealer) { s.algorithm = algorithm }
}

// WithGenerator replaces the nonce source.
func WithGenerator(g *keygen.Generator) Option {
	return func(s *Sealer) {
		if g != nil {
			s.keys = g
		}
	}
}

// New copies appKey and returns a Sealer. The default cipher is AES-256-GCM.
func New(appKey []byte, opts ...Option) (*Sealer, error) {
	if len(appKey) != KeySize {
		return nil, errors.Join(vaulterr.ErrConfiguration, ErrInvalidAppKey)
	}
	s := &Sealer{
		appKey:    append([]byte(nil), appKey...),
		algorithm: aead.DefaultAlgorithm,
		keys:      keygen.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	spec, err := aead.Lookup(s.algorithm)
	if err != nil {
		return nil, err
	}
	s.algorithm = spec.Algorithm
	return s, nil
}

// NewFromConfig decodes cfg.AppKey and returns a Sealer.
func NewFromConfig(cfg Config, opts ...Option) (*Sealer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Join(vaulterr.ErrConfiguration, err)
	}
	key, _ := base64.StdEncoding.DecodeString(cfg.AppKey)
	defer keygen.Wipe(key)
	return New(key, append([]Option{WithAlgorithm(cfg.Algorithm)}, opts...)...)
}

// GenerateKey returns a fresh application key.
func GenerateKey() ([]byte, error) {
	return keygen.Bytes(KeySize)
}

// Seal encrypts plaintext for scope. Output layout: version | nonce | ciphertext+tag.
func (s *Sealer) Seal(scope, plaintext []byte) ([]byte, error) {
	spec, key, err := s.derive(scope)
	if err != nil {
		return nil, err
	}
	defer keygen.Wipe(key)

	nonce, err := s.keys.Bytes(spec.NonceSize)
	if err != nil {
		return nil, err
	}

	ct, err := aead.Seal(spec.Algorithm, key, nonce, plaintext, []byte{version})
	if err != nil {
		return nil, errors.Join(vaulterr.ErrEncryptionFailure, ErrSealFailed, err)
	}

	out := make([]byte, 0, 1+len(nonce)+len(ct))
	out = append(out, version)
	out = append(out, nonce...)
	return append(out, ct...), nil
}

// Open reverses Seal for the same scope.
func (s *Sealer) Open(scope, sealed []byte) ([]byte, error) {
	spec, key, err := s.derive(scope)
	if err != nil {
		return nil, err
	}
	defer keygen.Wipe(key)

	if len(sealed) < 1+spec.NonceSize+spec.TagSize || sealed[0] != version {
		return nil, errors.Join(vaulterr.ErrDecryptionFailure, ErrInvalidCiphertext)
	}
	nonce := sealed[1 : 1+spec.NonceSize]

	pt, err := aead.Open(spec.Algorithm, key, nonce, sealed[1+spec.NonceSize:], []byte{version})
	if err != nil {
		return nil, errors.Join(vaulterr.ErrDecryptionFailure, ErrOpenFailed, err)
	}
	return pt, nil
}

// SealString seals a string and returns it as standard Base64.
func (s *Sealer) SealString(scope, plaintext string) (string, error) {
	sealed, err := s.Seal([]byte(scope), []byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// OpenString reverses SealString.
func (s *Sealer) OpenString(scope, sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", errors.Join(vaulterr.ErrDecryptionFailure, ErrInvalidCiphertext, err)
	}
	pt, err := s.Open([]byte(scope), raw)
	if err != nil {
		return "", err
	}
	defer keygen.Wipe(pt)
	return string(pt), nil
}

// derive runs HKDF-SHA256 with the app key as secret, scope as salt and the cipher
// identifier in info, so each cipher gets an independent key.
func (s *Sealer) derive(scope []byte) (aead.Spec, []byte, error) {
	if len(scope) == 0 {
		return aead.Spec{}, nil, ErrMissingScope
	}
	spec, err := aead.Lookup(s.algorithm)
	if err != nil {
		return aead.Spec{}, nil, err
	}

	key := make([]byte, spec.KeySize)
	r := hkdf.New(sha256.New, s.appKey, scope, []byte(infoPrefix+spec.Algorithm))
	if _, err := io.ReadFull(r, key); err != nil {
		return aead.Spec{}, nil, errors.Join(ErrKeyDerivationFailed, fmt.Errorf("hkdf: %w", err))
	}
	return spec, key, nil
}
