package keygen

import "errors"

var (
	ErrInvalidSecretLength = errors.New("MFA secret length must be a positive multiple of 8 characters")
	ErrInvalidByteCount    = errors.New("byte count must be positive")
	ErrReadEntropy         = errors.New("failed to read from entropy source")
)
