// Package secrets seals small values, typically TOTP seeds, before they are handed
// to an identity store.
//
// A Sealer holds a 32-byte application key. For every call it derives a fresh
// cipher key with HKDF-SHA-256 (golang.org/x/crypto/hkdf), using the caller's scope
// (for example the account ID) as salt, and seals with an AEAD from pkg/aead.
// Sealed values are self-contained: a version byte, the nonce, then ciphertext and tag.
// Opening with a different scope or application key fails.
//
//	s, err := secrets.NewFromConfig(cfg) // SECRETS_APP_KEY, base64
//	sealed, err := s.SealString(userID, mfaSecret)
//	secret, err := s.OpenString(userID, sealed)
//
// Derived keys are wiped after each call.
package secrets
