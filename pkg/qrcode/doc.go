// Package qrcode renders QR codes with github.com/skip2/go-qrcode, mainly for
// handing TOTP provisioning URIs to authenticator apps.
//
// Generate returns PNG bytes, GenerateBase64Image a data URI for HTML, and
// Terminal a block-character rendering used by vaultctl. ProvisioningImage only
// accepts otpauth:// URIs.
package qrcode
