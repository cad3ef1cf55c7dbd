// Package aead is the registry of authenticated ciphers the vault can be configured with.
//
// Each supported algorithm is described by a Spec carrying the key, nonce and tag sizes
// required by the cipher. Callers resolve an identifier with Lookup and obtain a ready
// cipher.AEAD with New. Identifiers are case-insensitive on input and canonical uppercase
// on output.
//
// Supported algorithms:
//
//   - AES-256-GCM         (default) 32-byte key, 12-byte nonce, 16-byte tag
//   - CHACHA20-POLY1305   32-byte key, 12-byte nonce, 16-byte tag
//   - XCHACHA20-POLY1305  32-byte key, 24-byte nonce, 16-byte tag
//
// # Usage
//
//	spec, err := aead.Lookup("aes-256-gcm")
//	if err != nil {
//	    // errors.Is(err, vaulterr.ErrConfiguration) == true
//	}
//	ct, err := aead.Seal(spec.Algorithm, key, nonce, plaintext, nil)
//	pt, err := aead.Open(spec.Algorithm, key, nonce, ct, nil)
//
// Seal returns ciphertext with the authentication tag appended; the pair is meant to travel
// as one opaque blob.
package aead
