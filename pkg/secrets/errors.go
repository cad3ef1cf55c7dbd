package secrets

import "errors"

var (
	ErrInvalidAppKey       = errors.New("invalid app key: must be 32 bytes")
	ErrMissingScope        = errors.New("scope must not be empty")
	ErrSealFailed          = errors.New("failed to seal secret")
	ErrOpenFailed          = errors.New("failed to open sealed secret")
	ErrInvalidCiphertext   = errors.New("invalid sealed secret format")
	ErrKeyDerivationFailed = errors.New("key derivation failed")
)
