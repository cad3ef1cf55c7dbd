package container

import "errors"

var (
	ErrBadMagic            = errors.New("not a securevault container")
	ErrUnsupportedVersion  = errors.New("unsupported container version")
	ErrTruncated           = errors.New("container is truncated")
	ErrTrailingData        = errors.New("unexpected data after container payload")
	ErrInvalidIV           = errors.New("IV length does not match algorithm")
	ErrInvalidChecksum     = errors.New("checksum must be 64 lowercase hex characters")
	ErrInvalidFilename     = errors.New("filename must be non-empty UTF-8")
	ErrInvalidMIMEType     = errors.New("invalid MIME type")
	ErrPayloadTooShort     = errors.New("payload shorter than authentication tag")
	ErrSizeMismatch        = errors.New("declared size does not match payload length")
	ErrFieldTooLong        = errors.New("field exceeds maximum encoded length")
	ErrUnsupportedCipherID = errors.New("unsupported algorithm identifier")
)
