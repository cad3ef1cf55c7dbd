package container

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/dmitrymomot/securevault/pkg/aead"
	"github.com/dmitrymomot/securevault/pkg/vaulterr"
)

const (
	// Version is the layout version written by Marshal.
	Version uint8 = 1

	// ChecksumLength is the hex length of a SHA-256 digest.
	ChecksumLength = 64

	// DefaultSuffix marks encrypted file names.
	DefaultSuffix = ".svault"

	// MIMEType is the media type of a serialized container.
	MIMEType = "application/vnd.securevault"
)

// Magic opens every serialized container.
var Magic = [4]byte{'S', 'V', 'L', 'T'}

// Container is an encrypted file plus the metadata needed to decrypt and verify it.
// The key is never part of a container.
type Container struct {
	Algorithm  string // canonical cipher identifier, see pkg/aead
	IV         []byte // nonce used for encryption
	Checksum   string // lowercase hex SHA-256 of the plaintext
	Filename   string // original file name
	MIMEType   string // original MIME type
	Size       uint64 // original plaintext size in bytes
	Ciphertext []byte // AEAD output, tag appended
}

// Validate checks the container's structural invariants.
func (c *Container) Validate() error {
	if c == nil {
		return ErrTruncated
	}

	spec, err := aead.Lookup(c.Algorithm)
	if err != nil || spec.Algorithm != c.Algorithm {
		return fmt.Errorf("%w: %q", ErrUnsupportedCipherID, c.Algorithm)
	}
	if len(c.IV) != spec.NonceSize {
		return fmt.Errorf("%w: got %d, want %d", ErrInvalidIV, len(c.IV), spec.NonceSize)
	}
	if !isLowerHex(c.Checksum, ChecksumLength) {
		return ErrInvalidChecksum
	}
	if c.Filename == "" || !utf8.ValidString(c.Filename) {
		return ErrInvalidFilename
	}
	if len(c.Filename) > math.MaxUint16 {
		return fmt.Errorf("%w: filename", ErrFieldTooLong)
	}
	if len(c.MIMEType) > math.MaxUint16 {
		return fmt.Errorf("%w: mime type", ErrFieldTooLong)
	}
	if _, _, err := mime.ParseMediaType(c.MIMEType); err != nil {
		return errors.Join(ErrInvalidMIMEType, err)
	}
	if len(c.Ciphertext) < spec.TagSize {
		return ErrPayloadTooShort
	}
	if uint64(len(c.Ciphertext)-spec.TagSize) != c.Size {
		return fmt.Errorf("%w: size %d, payload %d", ErrSizeMismatch, c.Size, len(c.Ciphertext))
	}
	return nil
}

// Marshal encodes the container. Invalid containers are rejected so that
// everything Marshal produces is accepted by Unmarshal.
func Marshal(c *Container) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, errors.Join(vaulterr.ErrMalformedContainer, err)
	}

	n := len(Magic) + 1 +
		1 + len(c.Algorithm) +
		1 + len(c.IV) +
		1 + len(c.Checksum) +
		2 + len(c.Filename) +
		2 + len(c.MIMEType) +
		8 + 8 + len(c.Ciphertext)

	buf := make([]byte, 0, n)
	buf = append(buf, Magic[:]...)
	buf = append(buf, Version)
	buf = appendShort(buf, c.Algorithm)
	buf = appendShort(buf, string(c.IV))
	buf = appendShort(buf, c.Checksum)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(c.Filename)))
	buf = append(buf, c.Filename...)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(c.MIMEType)))
	buf = append(buf, c.MIMEType...)
	buf = binary.BigEndian.AppendUint64(buf, c.Size)
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(c.Ciphertext)))
	buf = append(buf, c.Ciphertext...)

	return buf, nil
}

// AssociatedData returns the bytes authenticated alongside the ciphertext:
// magic, version, algorithm, filename, MIME type and size. Editing any of them
// in a serialized container makes decryption fail.
func (c *Container) AssociatedData() []byte {
	buf := make([]byte, 0, len(Magic)+1+1+len(c.Algorithm)+2+len(c.Filename)+2+len(c.MIMEType)+8)
	buf = append(buf, Magic[:]...)
	buf = append(buf, Version)
	buf = appendShort(buf, c.Algorithm)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(c.Filename)))
	buf = append(buf, c.Filename...)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(c.MIMEType)))
	buf = append(buf, c.MIMEType...)
	return binary.BigEndian.AppendUint64(buf, c.Size)
}

func appendShort(buf []byte, s string) []byte {
	buf = append(buf, uint8(len(s)))
	return append(buf, s...)
}

// Unmarshal parses a serialized container. The returned container does not
// alias data.
func Unmarshal(data []byte) (*Container, error) {
	c, err := unmarshal(data)
	if err != nil {
		return nil, errors.Join(vaulterr.ErrMalformedContainer, err)
	}
	return c, nil
}

func unmarshal(data []byte) (*Container, error) {
	r := reader{buf: data}

	magic, err := r.next(len(Magic))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, Magic[:]) {
		return nil, ErrBadMagic
	}

	version, err := r.u8()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	c := &Container{}
	alg, err := r.field8()
	if err != nil {
		return nil, err
	}
	c.Algorithm = string(alg)

	iv, err := r.field8()
	if err != nil {
		return nil, err
	}
	c.IV = bytes.Clone(iv)

	checksum, err := r.field8()
	if err != nil {
		return nil, err
	}
	c.Checksum = string(checksum)

	filename, err := r.field16()
	if err != nil {
		return nil, err
	}
	c.Filename = string(filename)

	mimeType, err := r.field16()
	if err != nil {
		return nil, err
	}
	c.MIMEType = string(mimeType)

	if c.Size, err = r.u64(); err != nil {
		return nil, err
	}

	payloadLen, err := r.u64()
	if err != nil {
		return nil, err
	}
	if payloadLen > uint64(r.remaining()) {
		return nil, ErrTruncated
	}
	payload, err := r.next(int(payloadLen))
	if err != nil {
		return nil, err
	}
	c.Ciphertext = bytes.Clone(payload)

	if r.remaining() != 0 {
		return nil, ErrTrailingData
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// EncryptedName appends suffix to a file name.
func EncryptedName(name, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return name + suffix
}

// OriginalName strips suffix from an encrypted file name if present.
func OriginalName(name, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return strings.TrimSuffix(name, suffix)
}

func isLowerHex(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) remaining() int { return len(r.buf) - r.off }

func (r *reader) next(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, ErrTruncated
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) u8() (uint8, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *reader) field8() ([]byte, error) {
	n, err := r.u8()
	if err != nil {
		return nil, err
	}
	return r.next(int(n))
}

func (r *reader) field16() ([]byte, error) {
	n, err := r.u16()
	if err != nil {
		return nil, err
	}
	return r.next(int(n))
}
