// Package mfa wires pkg/totp, pkg/keygen, pkg/qrcode and pkg/secrets into an
// enrollment service for authenticator apps.
//
// Begin generates a Base32 secret, the otpauth:// provisioning URI, a QR code data
// URI and a set of recovery codes. Confirm validates the first code the user
// enters; Verify is the per-login check. Neither persists anything: storing the
// (optionally sealed) secret and the recovery hashes is the caller's job.
//
//	svc, err := mfa.NewFromConfig(cfg, mfa.WithSealer(sealer))
//	e, err := svc.Begin("alice@example.com")
//	// render e.QRCode, show e.RecoveryCodes once
//	if err := svc.Confirm(e.Secret, userInput); err != nil {
//	    // errors.Is(err, mfa.ErrInvalidCode)
//	}
package mfa
