package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the image size in pixels used when no size is specified.
const DefaultSize = 256

const provisioningScheme = "otpauth://"

// Generate creates a PNG QR code for content. A non-positive size selects DefaultSize.
func Generate(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerateQRCode, err)
	}
	return png, nil
}

// GenerateBase64Image returns the PNG QR code as a data URI suitable for an <img> src.
//
//	uri, err := qrcode.GenerateBase64Image(enrollment.URI, 256)
//	// <img src="{{.QRCode}}">
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// ProvisioningImage renders an otpauth:// URI as a data URI. Anything else is
// rejected so a secret is never rendered through the wrong path.
func ProvisioningImage(uri string, size int) (string, error) {
	if !strings.HasPrefix(uri, provisioningScheme) {
		return "", ErrNotProvisioningURI
	}
	return GenerateBase64Image(uri, size)
}

// Terminal renders content as block characters for display in a terminal.
func Terminal(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	q, err := skipqrcode.New(content, skipqrcode.Medium)
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateQRCode, err)
	}
	return q.ToSmallString(false), nil
}
