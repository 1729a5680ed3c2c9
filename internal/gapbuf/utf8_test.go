package gapbuf

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestUTF8NavigationClosure(t *testing.T) {
	text := "aé日👍b́z"
	buf := NewString(text)
	for p := 1; p < buf.Len(); p++ {
		if !utf8.RuneStart(text[p]) {
			continue
		}
		assert.Equal(t, p, buf.Next(buf.Prev(p)), "pos %d", p)
	}
}

func TestUTF8NeverLandsInsideSequence(t *testing.T) {
	text := "日本語"
	buf := NewString(text)
	pos := 0
	var stops []int
	for pos < buf.Len() {
		pos = buf.Next(pos)
		stops = append(stops, pos)
	}
	assert.Equal(t, []int{3, 6, 9}, stops)

	assert.Equal(t, 3, buf.Prev(6))
	assert.Equal(t, 3, buf.Snap(4))
	assert.Equal(t, 3, buf.Snap(5))
	assert.Equal(t, 9, buf.Snap(9))
}

func TestDecodeMalformedAsLatin1(t *testing.T) {
	buf := New([]byte{'a', 0xE9, 'b', 0xC3})
	r, size := buf.DecodeAt(1)
	assert.Equal(t, rune(0xE9), r)
	assert.Equal(t, 1, size)

	r, size = buf.DecodeAt(3)
	assert.Equal(t, rune(0xC3), r)
	assert.Equal(t, 1, size)

	pos, steps := 0, 0
	for pos < buf.Len() {
		pos = buf.Next(pos)
		steps++
	}
	assert.Equal(t, 4, steps)
}

func TestGraphemeNavigationIsStateful(t *testing.T) {
	family := "👨‍👩‍👧"
	flags := "🇵🇱🇺🇸"
	text := "a" + family + flags + "é"
	buf := NewString(text)

	var stops []int
	for pos := 0; pos < buf.Len(); {
		pos = buf.GraphemeNext(pos)
		stops = append(stops, pos)
	}
	want := []int{
		1,
		1 + len(family),
		1 + len(family) + 8,
		1 + len(family) + 16,
		len(text),
	}
	assert.Equal(t, want, stops)

	var back []int
	for pos := buf.Len(); pos > 0; {
		pos = buf.GraphemePrev(pos)
		back = append(back, pos)
	}
	assert.Equal(t, []int{want[3], want[2], want[1], want[0], 0}, back)
}

func TestGraphemePrevCRLF(t *testing.T) {
	buf := NewString("ab\r\ncd")
	assert.Equal(t, 2, buf.GraphemePrev(4))
	assert.Equal(t, 4, buf.GraphemeNext(2))
	assert.Equal(t, 4, buf.GraphemePrev(5))
}
