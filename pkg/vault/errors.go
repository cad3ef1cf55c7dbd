package vault

import "errors"

var (
	ErrUnsupportedAlgorithm = errors.New("unsupported cipher algorithm")
	ErrInvalidSuffix        = errors.New("encrypted file suffix must start with a dot")
	ErrInvalidMaxFileSize   = errors.New("max file size must not be negative")
	ErrInvalidConcurrency   = errors.New("batch concurrency must be positive")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrSealFailed           = errors.New("failed to seal file")
	ErrChecksumMismatch     = errors.New("checksum does not match decrypted content")
	ErrInvalidKeyEncoding   = errors.New("key or iv is not valid base64")
	ErrIVMismatch           = errors.New("iv does not match container")
	ErrOpenFailed           = errors.New("failed to open container")
)
