// Package fs loads and saves documents.
package fs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

const (
	sniffSize = 4096
	// Share of control bytes, in percent, above which undecodable content
	// is treated as binary.
	maxControlPercent = 30
)

// ErrBinary is returned when a file does not look like text.
var ErrBinary = errors.New("not a text file")

// Encoding is the byte encoding a document was stored in.
type Encoding int

const (
	EncodingUTF8 Encoding = iota
	EncodingUTF8BOM
	EncodingUTF16LE
	EncodingUTF16BE
)

var binaryExtensions = map[string]struct{}{
	".7z": {}, ".bin": {}, ".bmp": {}, ".class": {}, ".dll": {}, ".doc": {},
	".docx": {}, ".exe": {}, ".gif": {}, ".gz": {}, ".ico": {}, ".jpeg": {},
	".jpg": {}, ".mp3": {}, ".mp4": {}, ".pdf": {}, ".png": {}, ".so": {},
	".tar": {}, ".wasm": {}, ".webp": {}, ".xz": {}, ".zip": {},
}

// Document is a loaded text file. Text always holds NFC-normalized UTF-8
// with "\n" line endings; the other fields describe how to write it back.
type Document struct {
	Path     string
	Text     []byte
	Encoding Encoding
	CRLF     bool
	ModTime  time.Time
}

// LoadDocument reads path as a document. A missing file yields an empty
// document so new files can be created by saving.
func LoadDocument(path string) (*Document, error) {
	doc := &Document{Path: path}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc.Encoding = DetectEncoding(content)
	if doc.Encoding == EncodingUTF8 && LooksBinary(path, content) {
		return nil, fmt.Errorf("%s: %w", path, ErrBinary)
	}
	if info, err := os.Stat(path); err == nil {
		doc.ModTime = info.ModTime()
	}
	text, err := decode(content, doc.Encoding)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if strings.Contains(text, "\r\n") {
		doc.CRLF = true
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	doc.Text = norm.NFC.Bytes([]byte(text))
	return doc, nil
}

// SaveDocument writes text to doc.Path in the document's encoding and line
// endings. The file is replaced atomically through a temporary file in the
// same directory.
func SaveDocument(doc *Document, text []byte) error {
	out := text
	if doc.CRLF {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte("\r\n"))
	}
	out, err := encode(out, doc.Encoding)
	if err != nil {
		return fmt.Errorf("encode %s: %w", doc.Path, err)
	}

	dir := filepath.Dir(doc.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(doc.Path)+".*")
	if err != nil {
		return fmt.Errorf("save %s: %w", doc.Path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()
	if _, err := tmp.Write(out); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("save %s: %w", doc.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", doc.Path, err)
	}
	if info, err := os.Stat(doc.Path); err == nil {
		_ = os.Chmod(tmpName, info.Mode().Perm())
	}
	if err := os.Rename(tmpName, doc.Path); err != nil {
		return fmt.Errorf("save %s: %w", doc.Path, err)
	}
	if info, err := os.Stat(doc.Path); err == nil {
		doc.ModTime = info.ModTime()
	}
	return nil
}

var boms = []struct {
	prefix []byte
	enc    Encoding
}{
	{[]byte{0xEF, 0xBB, 0xBF}, EncodingUTF8BOM},
	{[]byte{0xFF, 0xFE}, EncodingUTF16LE},
	{[]byte{0xFE, 0xFF}, EncodingUTF16BE},
}

// DetectEncoding reports the encoding announced by a byte order mark.
// Content without one is taken as UTF-8.
func DetectEncoding(content []byte) Encoding {
	for _, b := range boms {
		if bytes.HasPrefix(content, b.prefix) {
			return b.enc
		}
	}
	return EncodingUTF8
}

// codec returns the x/text encoding that strips the BOM on decode and
// writes it back on encode; nil for plain UTF-8.
func (e Encoding) codec() encoding.Encoding {
	switch e {
	case EncodingUTF8BOM:
		return unicode.UTF8BOM
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	}
	return nil
}

func decode(content []byte, enc Encoding) (string, error) {
	c := enc.codec()
	if c == nil {
		return string(content), nil
	}
	out, err := c.NewDecoder().Bytes(content)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func encode(text []byte, enc Encoding) ([]byte, error) {
	c := enc.codec()
	if c == nil {
		return text, nil
	}
	return c.NewEncoder().Bytes(text)
}

// LooksBinary reports whether BOM-less content should be refused as a
// document. Known binary extensions are refused without looking at the
// bytes; otherwise the first sniffSize bytes decide.
func LooksBinary(path string, content []byte) bool {
	if _, ok := binaryExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return true
	}
	sample := content[:min(len(content), sniffSize)]
	switch {
	case len(sample) == 0:
		return false
	case bytes.IndexByte(sample, 0) >= 0:
		return true
	case utf8.Valid(sample):
		return false
	}
	controls := 0
	for _, b := range sample {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != '\f' || b == 0x7f {
			controls++
		}
	}
	return controls*100/len(sample) >= maxControlPercent
}

// NormalizePaste prepares text from the clipboard for insertion.
func NormalizePaste(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return norm.NFC.String(text)
}
