package gapbuf

import "unicode/utf8"

// seqLen maps the high nibble of a leading byte to its sequence length.
// Continuation bytes map to 0.
var seqLen = [16]int{1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 2, 2, 3, 4}

func isContinuation(c byte) bool {
	return c&0xC0 == 0x80
}

// DecodeAt decodes one scalar value at pos. Malformed input decodes as the
// Latin-1 interpretation of the byte with size 1. At or past the end it
// returns (utf8.RuneError, 0).
func (b *Buffer) DecodeAt(pos int) (rune, int) {
	n := b.Len()
	if pos < 0 || pos >= n {
		return utf8.RuneError, 0
	}
	lead := b.ByteAt(pos)
	if lead < utf8.RuneSelf {
		return rune(lead), 1
	}
	want := seqLen[lead>>4]
	if lead >= 0xF8 || want == 0 || pos+want > n {
		return rune(lead), 1
	}
	var buf [utf8.UTFMax]byte
	b.CopyInto(pos, want, buf[:want])
	r, size := utf8.DecodeRune(buf[:want])
	if r == utf8.RuneError && size <= 1 {
		return rune(lead), 1
	}
	return r, size
}

// Next returns the position of the scalar value after the one at pos.
func (b *Buffer) Next(pos int) int {
	pos = b.clamp(pos)
	if pos >= b.Len() {
		return pos
	}
	_, size := b.DecodeAt(pos)
	return pos + size
}

// Prev returns the start of the scalar value ending at pos.
func (b *Buffer) Prev(pos int) int {
	pos = b.clamp(pos)
	if pos == 0 {
		return 0
	}
	start := pos - 1
	for i := 0; i < utf8.UTFMax-1 && start > 0 && isContinuation(b.ByteAt(start)); i++ {
		start--
	}
	if _, size := b.DecodeAt(start); start+size == pos {
		return start
	}
	return pos - 1
}

// Snap moves pos back to the start of the scalar value containing it.
func (b *Buffer) Snap(pos int) int {
	pos = b.clamp(pos)
	if pos == 0 || pos == b.Len() || !isContinuation(b.ByteAt(pos)) {
		return pos
	}
	start := pos
	for i := 0; i < utf8.UTFMax-1 && start > 0 && isContinuation(b.ByteAt(start)); i++ {
		start--
	}
	if _, size := b.DecodeAt(start); start+size > pos {
		return start
	}
	return pos
}
