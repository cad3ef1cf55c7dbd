// Package totp implements RFC 6238 time-based one-time passwords for multi-factor
// authentication: secret handling, code generation, windowed verification,
// otpauth:// provisioning URIs and single-use recovery codes.
//
// The package has no dependency on third-party TOTP libraries. HMAC computation
// and RFC 4226 dynamic truncation are implemented in otp.go, secrets are drawn
// from pkg/keygen, and every operation is a pure function of its inputs.
//
// # Architecture
//
//   - secret.go   – Base32 normalization and decoding (NormalizeSecret, DecodeSecret).
//   - otp.go      – Params, GenerateHOTP, GenerateCode, Verify and the Engine wrapper
//     with an injectable clock.
//   - uri.go      – GetTOTPURI builds the otpauth:// URI consumed by QR renderers.
//   - recovery.go – backup codes, their SHA-256 storage form and constant-time checks.
//
// Verification accepts the current time step and one step on either side, never more.
// Candidate codes are compared in constant time and all three are always computed.
//
// # Usage
//
//	secret, _ := totp.GenerateSecretKey()
//
//	uri, _ := totp.GetTOTPURI(totp.URIParams{
//	    Secret:      secret,
//	    AccountName: "alice@example.com",
//	    Issuer:      "SecureVault",
//	    Params:      totp.DefaultParams(),
//	})
//
//	// at login
//	ok := totp.Validate(userInput, secret)
//
// # Error Handling
//
// Bad parameters are joined with vaulterr.ErrConfiguration and bad secrets with
// vaulterr.ErrInvalidSecretFormat. Verify and Validate never return errors: any
// malformed input simply fails verification.
//
// # See Also
//
//   - RFC 4226 – HMAC-Based One-Time Password (HOTP) Algorithm
//   - RFC 6238 – Time-Based One-Time Password (TOTP) Algorithm
//   - https://github.com/google/google-authenticator/wiki/Key-Uri-Format
package totp
