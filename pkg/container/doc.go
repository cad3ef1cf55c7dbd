// Package container serializes encrypted files into a self-describing binary blob
// and parses them back.
//
// A Container carries everything needed to decrypt and verify a file except the key:
// the cipher identifier, the nonce, the AEAD ciphertext (tag included), a hex SHA-256
// checksum of the plaintext, and the original filename, MIME type and size.
//
// # Format
//
// All integers are big-endian:
//
//	magic    "SVLT"     4 bytes
//	version  uint8      currently 1
//	alg      uint8 length + bytes
//	iv       uint8 length + bytes
//	checksum uint8 length + bytes (64 lowercase hex characters)
//	filename uint16 length + bytes (UTF-8)
//	mimetype uint16 length + bytes
//	size     uint64     plaintext size in bytes
//	payload  uint64 length + bytes (ciphertext || tag)
//
// The encoding is canonical: any blob accepted by Unmarshal re-encodes to the same
// bytes with Marshal. Trailing data is rejected.
//
// # Error Handling
//
// Every parse failure is joined with vaulterr.ErrMalformedContainer. The codec never
// attempts decryption, so a container with a wrong key or tampered payload still parses.
package container
