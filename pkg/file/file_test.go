package file_test

import (
	"bytes"
	"crypto/sha1"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/securevault/pkg/file"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "report.pdf", "report.pdf"},
		{"unix traversal", "../../../etc/passwd", "passwd"},
		{"windows path", "C:\\Windows\\file.txt", "file.txt"},
		{"control characters", "bad\x00na\x1fme.txt", "badname.txt"},
		{"empty", "", "unnamed"},
		{"dot", ".", "unnamed"},
		{"dot dot", "..", "unnamed"},
		{"nfd normalized to nfc", "cafe\u0301.txt", "caf\u00e9.txt"},
		{"surrounding spaces", "  notes.md  ", "notes.md"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, file.SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	t.Parallel()

	t.Run("keeps extension", func(t *testing.T) {
		t.Parallel()
		got := file.SanitizeFilename(strings.Repeat("a", 70000) + ".txt")
		assert.Len(t, got, file.MaxFilenameLength)
		assert.True(t, strings.HasSuffix(got, ".txt"))
	})

	t.Run("cuts on a rune boundary", func(t *testing.T) {
		t.Parallel()
		// 65531 bytes of room is not a multiple of the 3-byte rune
		got := file.SanitizeFilename(strings.Repeat("€", 30000) + ".pdf")
		assert.LessOrEqual(t, len(got), file.MaxFilenameLength)
		assert.True(t, utf8.ValidString(got))
		assert.True(t, strings.HasSuffix(got, "€.pdf"))
	})

	t.Run("huge extension is dropped", func(t *testing.T) {
		t.Parallel()
		got := file.SanitizeFilename("a." + strings.Repeat("x", 70000))
		assert.Len(t, got, file.MaxFilenameLength)
		assert.True(t, utf8.ValidString(got))
	})

	t.Run("short names untouched", func(t *testing.T) {
		t.Parallel()
		name := strings.Repeat("b", file.MaxFilenameLength)
		assert.Equal(t, name, file.SanitizeFilename(name))
	})
}

func TestDetectMIMEType(t *testing.T) {
	t.Parallel()

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	assert.Equal(t, "image/png", file.DetectMIMEType(png, "anything.bin"))
	assert.Equal(t, "application/pdf", file.DetectMIMEType([]byte("%PDF-1.7\n"), "doc"))
	assert.Equal(t, "application/json", file.DetectMIMEType([]byte(`{"a":1}`), "data.json"))
	assert.Equal(t, file.DefaultMIMEType, file.DetectMIMEType([]byte{0x00, 0x01, 0x02}, "blob"))
	assert.Equal(t, "text/plain; charset=utf-8", file.DetectMIMEType([]byte("hello"), "README"))
}

func TestHash(t *testing.T) {
	t.Parallel()

	sum, err := file.Hash(bytes.NewReader([]byte("abc")), nil)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sum)

	sum, err = file.Hash(bytes.NewReader([]byte("abc")), sha1.New())
	require.NoError(t, err)
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", sum)
}
