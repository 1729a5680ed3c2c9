package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		content []byte
		want    Encoding
	}{
		{[]byte("plain"), EncodingUTF8},
		{[]byte{0xEF, 0xBB, 0xBF, 'a'}, EncodingUTF8BOM},
		{[]byte{0xFF, 0xFE, 0x41, 0x00}, EncodingUTF16LE},
		{[]byte{0xFE, 0xFF, 0x00, 0x41}, EncodingUTF16BE},
		{nil, EncodingUTF8},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectEncoding(tt.content), "%x", tt.content)
	}
}

func TestDecodeUTF16LE(t *testing.T) {
	got, err := decode([]byte{0xFF, 0xFE, 0x41, 0x00, 0x0D, 0x00, 0x0A, 0x00}, EncodingUTF16LE)
	require.NoError(t, err)
	assert.Equal(t, "A\r\n", got)
}

func TestLooksBinary(t *testing.T) {
	assert.False(t, LooksBinary("notes.md", []byte("# title\n")))
	assert.False(t, LooksBinary("notes.md", nil))
	assert.True(t, LooksBinary("photo.PNG", []byte("text")))
	assert.True(t, LooksBinary("notes.md", []byte{'a', 0x00}))
	assert.False(t, LooksBinary("latin1.md", []byte("caf\xe9 cr\xe8me")), "stray high bytes are still text")
	assert.True(t, LooksBinary("blob.md", []byte{0xff, 0x01, 0x02, 0x03}))
}

func TestLoadDocumentNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	// "e" followed by a combining acute accent, CRLF line endings.
	require.NoError(t, os.WriteFile(path, []byte("caf\x65\xcc\x81\r\nline\r\n"), 0o644))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "café\nline\n", string(doc.Text))
	assert.True(t, doc.CRLF)
	assert.Equal(t, EncodingUTF8, doc.Encoding)
	assert.False(t, doc.ModTime.IsZero())
}

func TestLoadDocumentMissingFile(t *testing.T) {
	doc, err := LoadDocument(filepath.Join(t.TempDir(), "new.md"))
	require.NoError(t, err)
	assert.Empty(t, doc.Text)
}

func TestLoadDocumentRejectsBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.md")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x01, 0x02, 'a'}, 0o644))
	_, err := LoadDocument(path)
	assert.True(t, errors.Is(err, ErrBinary))
}

func TestSaveDocumentRestoresFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	original := []byte{0xFF, 0xFE, 'a', 0x00, '\r', 0x00, '\n', 0x00}
	require.NoError(t, os.WriteFile(path, original, 0o600))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	require.Equal(t, "a\n", string(doc.Text))

	require.NoError(t, SaveDocument(doc, []byte("a\n")))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNormalizePaste(t *testing.T) {
	assert.Equal(t, "é\nx", NormalizePaste("é\r\nx"))
}
