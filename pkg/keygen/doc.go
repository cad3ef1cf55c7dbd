// Package keygen produces unpredictable key material for the vault: per-file
// cipher keys and nonces, raw random bytes, and Base32 MFA secrets.
//
// All randomness comes from a single entropy source, crypto/rand by default,
// which is safe for concurrent use. A read failure is fatal: it is reported as
// vaulterr.ErrEntropyUnavailable and never retried.
//
// # Usage
//
//	km, err := keygen.GenerateKeyMaterial(aead.AES256GCM)
//	if err != nil {
//	    return err
//	}
//	defer km.Wipe()
//
//	secret, err := keygen.GenerateMFASecret(keygen.DefaultSecretLength) // "JBSWY3DPEHPK3PXP"
package keygen
