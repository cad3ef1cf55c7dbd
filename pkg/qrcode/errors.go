package qrcode

import "errors"

var (
	// ErrEmptyContent is returned when content string is empty or only whitespace.
	ErrEmptyContent = errors.New("content cannot be empty")
	// ErrFailedToGenerateQRCode is returned when the QR code generation fails.
	ErrFailedToGenerateQRCode = errors.New("failed to generate QR code")
	// ErrNotProvisioningURI is returned when enrollment content is not an otpauth URI.
	ErrNotProvisioningURI = errors.New("content is not an otpauth provisioning URI")
)
