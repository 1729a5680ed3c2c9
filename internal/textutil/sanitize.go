package textutil

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Short names for the invisible format characters most likely to show up
// in pasted text. Others are labeled by code point.
var invisibleNames = map[rune]string{
	0x00AD: "SHY", 0x061C: "ALM", 0x180E: "MVS",
	0x200B: "ZWSP", 0x200C: "ZWNJ", 0x200D: "ZWJ", 0x200E: "LRM", 0x200F: "RLM",
	0x202A: "LRE", 0x202B: "RLE", 0x202C: "PDF", 0x202D: "LRO", 0x202E: "RLO",
	0x2028: "LSEP", 0x2029: "PSEP", 0x2060: "WJ",
	0x2066: "LRI", 0x2067: "RLI", 0x2068: "FSI", 0x2069: "PDI",
	0xFEFF: "BOM",
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0)
}

func isInvisible(r rune) bool {
	return r == 0x2028 || r == 0x2029 || unicode.Is(unicode.Cf, r)
}

func invisibleLabel(r rune) string {
	if name, ok := invisibleNames[r]; ok {
		return "⟪" + name + "⟫"
	}
	return fmt.Sprintf("⟪U+%04X⟫", r)
}

// SanitizeCluster returns the text to draw for a single grapheme cluster.
// Control characters become "?" and lone format characters draw nothing, so
// document bytes can never reach the terminal as escape sequences.
func SanitizeCluster(cluster string) string {
	if len(cluster) == 1 {
		c := rune(cluster[0])
		switch {
		case c >= 0xa0:
			// Stray byte of malformed UTF-8, shown as Latin-1.
			return string(c)
		case isControl(c):
			return "?"
		}
		return cluster
	}
	if cluster == "\r\n" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(cluster)
	if size != len(cluster) {
		return cluster
	}
	switch {
	case isInvisible(r):
		return ""
	case isControl(r):
		return "?"
	}
	return cluster
}

// SanitizeTerminalText makes a single line of chrome text safe to draw:
// line breaks and tabs become spaces, controls become "?" and format
// characters are spelled out.
func SanitizeTerminalText(text string) string {
	if strings.IndexFunc(text, needsSanitizing) < 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteByte(' ')
		case isControl(r):
			b.WriteByte('?')
		case isInvisible(r):
			b.WriteString(invisibleLabel(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsSanitizing(r rune) bool {
	return r != '\t' && (isControl(r) || isInvisible(r))
}
