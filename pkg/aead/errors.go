package aead

import "errors"

var (
	ErrUnsupportedAlgorithm = errors.New("unsupported cipher algorithm")
	ErrInvalidKeySize       = errors.New("invalid key size")
	ErrInvalidNonceSize     = errors.New("invalid nonce size")
	ErrCiphertextTooShort   = errors.New("ciphertext shorter than authentication tag")
	ErrOpenFailed           = errors.New("message authentication failed")
)
