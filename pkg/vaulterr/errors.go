// Package vaulterr defines the error taxonomy shared by every securevault package.
//
// Package level errors are joined with one of these categories using errors.Join,
// so callers can branch on the category with errors.Is without knowing which
// package produced the failure:
//
//	res, err := pipeline.Encrypt(data, name, mime)
//	switch {
//	case errors.Is(err, vaulterr.ErrConfiguration):
//	    // fatal, fix configuration
//	case errors.Is(err, vaulterr.ErrEntropyUnavailable):
//	    // fatal, do not retry
//	case errors.Is(err, vaulterr.ErrEncryptionFailure):
//	    // reject the file
//	}
//
// A failed TOTP verification is not an error; Verify returns false.
package vaulterr

import "errors"

var (
	// ErrConfiguration marks bad cipher, TOTP or pipeline parameters. Callers must not proceed.
	ErrConfiguration = errors.New("configuration error")

	// ErrEntropyUnavailable marks a failure of the secure random source. Never retried.
	ErrEntropyUnavailable = errors.New("entropy unavailable")

	// ErrEncryptionFailure marks a failed cipher operation. No partial container is returned.
	ErrEncryptionFailure = errors.New("encryption failure")

	// ErrInvalidSecretFormat marks an MFA secret that is not valid RFC 4648 Base32.
	ErrInvalidSecretFormat = errors.New("invalid secret format")

	// ErrMalformedContainer marks a corrupt or unsupported serialized container.
	ErrMalformedContainer = errors.New("malformed container")

	// ErrDecryptionFailure marks an authentication failure while opening a container.
	ErrDecryptionFailure = errors.New("decryption failure")

	// ErrIntegrityMismatch marks decrypted content whose digest differs from the stored checksum.
	ErrIntegrityMismatch = errors.New("integrity mismatch")
)
