package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"math"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxFilenameLength is the longest name, in bytes, a container can record.
const MaxFilenameLength = math.MaxUint16

// DefaultMIMEType is used when content sniffing and the extension give nothing better.
const DefaultMIMEType = "application/octet-stream"

// sniffLen is the maximum number of bytes http.DetectContentType looks at.
const sniffLen = 512

// File represents stored file metadata.
type File struct {
	Filename     string
	Size         int64
	MIMEType     string
	Extension    string
	AbsolutePath string // empty for object storage
	RelativePath string
}

// Storage persists encrypted container blobs.
type Storage interface {
	// Save writes data at path, replacing any existing object.
	Save(ctx context.Context, path string, data []byte, mimeType string) (*File, error)
	// Open reads the object at path.
	Open(ctx context.Context, path string) ([]byte, error)
	// Delete removes a single object.
	Delete(ctx context.Context, path string) error
	// Exists checks if an object exists.
	Exists(ctx context.Context, path string) bool
	// URL returns the public URL for an object.
	URL(path string) string
}

// DetectMIMEType sniffs the content type from the first bytes of data.
// When sniffing only yields the generic type, the filename extension is consulted.
func DetectMIMEType(data []byte, filename string) string {
	mimeType := http.DetectContentType(data[:min(len(data), sniffLen)])
	if mimeType != DefaultMIMEType && !strings.HasPrefix(mimeType, "text/plain") {
		return mimeType
	}

	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		return byExt
	}
	return mimeType
}

// Hash returns the hex digest of everything read from r. SHA-256 is used when h is nil.
//
// Example:
//
//	sum, err := file.Hash(bytes.NewReader(data), nil)
func Hash(r io.Reader, h hash.Hash) (string, error) {
	if h == nil {
		h = sha256.New()
	}
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToHashFile, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SanitizeFilename removes any path components and dangerous characters from a filename
// to prevent path traversal attacks, and normalizes it to Unicode NFC so visually equal
// names encode to the same bytes.
// Returns "unnamed" for empty or special directory references.
//
// Example:
//
//	safe := file.SanitizeFilename("../../../etc/passwd") // Returns "passwd"
//	safe = file.SanitizeFilename("C:\\Windows\\file.txt") // Returns "file.txt"
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, filename)
	filename = norm.NFC.String(strings.ToValidUTF8(filename, ""))
	filename = strings.TrimSpace(filename)

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}

	return truncateFilename(filename, MaxFilenameLength)
}

// truncateFilename shortens name to at most limit bytes on a rune boundary,
// keeping the extension when it is short enough to matter.
func truncateFilename(name string, limit int) string {
	if len(name) <= limit {
		return name
	}

	ext := filepath.Ext(name)
	if len(ext) > limit/2 {
		ext = ""
	}
	base := name[:len(name)-len(ext)]

	n := limit - len(ext)
	for n > 0 && !utf8.RuneStart(base[n]) {
		n--
	}
	return base[:n] + ext
}

// cleanKey normalizes an object key and rejects "." and ".." segments.
// Dots inside a segment, as in "q1..q2.pdf", are fine.
func cleanKey(path string) (string, error) {
	path = strings.TrimPrefix(filepath.ToSlash(path), "/")
	if path == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
		}
	}
	return path, nil
}
