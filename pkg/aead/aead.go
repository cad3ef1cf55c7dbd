package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrymomot/securevault/pkg/vaulterr"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	AES256GCM         = "AES-256-GCM"
	ChaCha20Poly1305  = "CHACHA20-POLY1305"
	XChaCha20Poly1305 = "XCHACHA20-POLY1305"

	// DefaultAlgorithm is used when no algorithm is configured.
	DefaultAlgorithm = AES256GCM
)

// Spec describes the parameters of a supported authenticated cipher.
type Spec struct {
	Algorithm string
	KeySize   int
	NonceSize int
	TagSize   int

	newAEAD func(key []byte) (cipher.AEAD, error)
}

var registry = map[string]Spec{
	AES256GCM: {
		Algorithm: AES256GCM,
		KeySize:   32,
		NonceSize: 12,
		TagSize:   16,
		newAEAD: func(key []byte) (cipher.AEAD, error) {
			block, err := aes.NewCipher(key)
			if err != nil {
				return nil, err
			}
			return cipher.NewGCM(block)
		},
	},
	ChaCha20Poly1305: {
		Algorithm: ChaCha20Poly1305,
		KeySize:   chacha20poly1305.KeySize,
		NonceSize: chacha20poly1305.NonceSize,
		TagSize:   chacha20poly1305.Overhead,
		newAEAD:   chacha20poly1305.New,
	},
	XChaCha20Poly1305: {
		Algorithm: XChaCha20Poly1305,
		KeySize:   chacha20poly1305.KeySize,
		NonceSize: chacha20poly1305.NonceSizeX,
		TagSize:   chacha20poly1305.Overhead,
		newAEAD:   chacha20poly1305.NewX,
	},
}

// Lookup resolves an algorithm identifier to its Spec.
// An unknown identifier is a configuration error.
func Lookup(algorithm string) (Spec, error) {
	spec, ok := registry[strings.ToUpper(strings.TrimSpace(algorithm))]
	if !ok {
		return Spec{}, errors.Join(vaulterr.ErrConfiguration,
			fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm))
	}
	return spec, nil
}

// Supported reports whether the identifier names a registered cipher.
func Supported(algorithm string) bool {
	_, err := Lookup(algorithm)
	return err == nil
}

// Algorithms returns the registered identifiers in lexical order.
func Algorithms() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns a cipher.AEAD for the algorithm keyed with key.
func New(algorithm string, key []byte) (cipher.AEAD, error) {
	spec, err := Lookup(algorithm)
	if err != nil {
		return nil, err
	}
	return spec.New(key)
}

// New returns a cipher.AEAD keyed with key.
func (s Spec) New(key []byte) (cipher.AEAD, error) {
	if s.newAEAD == nil {
		return nil, errors.Join(vaulterr.ErrConfiguration, ErrUnsupportedAlgorithm)
	}
	if len(key) != s.KeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), s.KeySize)
	}
	return s.newAEAD(key)
}

// Seal encrypts and authenticates plaintext. The tag is appended to the returned ciphertext.
func Seal(algorithm string, key, nonce, plaintext, additionalData []byte) ([]byte, error) {
	spec, err := Lookup(algorithm)
	if err != nil {
		return nil, err
	}
	if len(nonce) != spec.NonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), spec.NonceSize)
	}

	c, err := spec.New(key)
	if err != nil {
		return nil, err
	}

	return c.Seal(nil, nonce, plaintext, additionalData), nil
}

// Open authenticates and decrypts ciphertext produced by Seal.
func Open(algorithm string, key, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	spec, err := Lookup(algorithm)
	if err != nil {
		return nil, err
	}
	if len(nonce) != spec.NonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), spec.NonceSize)
	}
	if len(ciphertext) < spec.TagSize {
		return nil, ErrCiphertextTooShort
	}

	c, err := spec.New(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := c.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, errors.Join(ErrOpenFailed, err)
	}
	return plaintext, nil
}
