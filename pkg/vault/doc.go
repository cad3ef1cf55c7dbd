// Package vault is the file encryption pipeline.
//
// Encrypt takes file bytes, draws a fresh key and nonce from pkg/keygen, seals the
// plaintext with the configured AEAD (AES-256-GCM unless configured otherwise) and
// packs the result into a pkg/container blob named "<original><suffix>". The key and
// nonce are returned Base64 encoded for one-time display and are wiped from memory
// before Encrypt returns. The container carries a SHA-256 checksum of the plaintext
// that Decrypt recomputes after opening, and its metadata is authenticated as AEAD
// additional data.
//
//	p, err := vault.New(vault.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	res, err := p.Encrypt(data, "report.pdf", "application/pdf")
//	if err != nil {
//	    return err
//	}
//	// store res.File.Data, show res.Key and res.IV to the user once
//
//	f, err := p.Decrypt(res.File.Data, res.Key, res.IV)
//
// Failures are joined with the vaulterr taxonomy: ErrConfiguration for bad
// settings, ErrEntropyUnavailable when the random source fails,
// ErrEncryptionFailure for rejected files, and ErrMalformedContainer,
// ErrDecryptionFailure or ErrIntegrityMismatch on the decrypt side.
package vault
