package gapbuf

// minGap is the slack added whenever the gap has to grow.
const minGap = 64

// Buffer stores document bytes with a movable gap at [gapStart, gapEnd).
type Buffer struct {
	data     []byte
	gapStart int
	gapEnd   int
}

// New creates a buffer holding a copy of initial with the gap at the end.
func New(initial []byte) *Buffer {
	data := make([]byte, len(initial)+minGap)
	copy(data, initial)
	return &Buffer{data: data, gapStart: len(initial), gapEnd: len(data)}
}

// NewString is New for string input.
func NewString(s string) *Buffer {
	return New([]byte(s))
}

// Len returns the logical length in bytes.
func (b *Buffer) Len() int {
	return len(b.data) - (b.gapEnd - b.gapStart)
}

func (b *Buffer) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if n := b.Len(); pos > n {
		return n
	}
	return pos
}

func (b *Buffer) moveGap(pos int) {
	pos = b.clamp(pos)
	if pos == b.gapStart {
		return
	}
	if pos < b.gapStart {
		delta := b.gapStart - pos
		copy(b.data[b.gapEnd-delta:b.gapEnd], b.data[pos:b.gapStart])
		b.gapStart -= delta
		b.gapEnd -= delta
		return
	}
	delta := pos - b.gapStart
	copy(b.data[b.gapStart:b.gapStart+delta], b.data[b.gapEnd:b.gapEnd+delta])
	b.gapStart += delta
	b.gapEnd += delta
}

func (b *Buffer) ensureGap(n int) {
	if n <= b.gapEnd-b.gapStart {
		return
	}
	extra := n + minGap
	grown := make([]byte, len(b.data)+extra)
	copy(grown, b.data[:b.gapStart])
	tail := len(b.data) - b.gapEnd
	newGapEnd := len(grown) - tail
	copy(grown[newGapEnd:], b.data[b.gapEnd:])
	b.data = grown
	b.gapEnd = newGapEnd
}

// Insert writes p at pos. pos is clamped to [0, Len()].
func (b *Buffer) Insert(pos int, p []byte) {
	if len(p) == 0 {
		return
	}
	b.moveGap(pos)
	b.ensureGap(len(p))
	copy(b.data[b.gapStart:], p)
	b.gapStart += len(p)
}

// InsertString is Insert for string input.
func (b *Buffer) InsertString(pos int, s string) {
	b.Insert(pos, []byte(s))
}

// Delete removes up to n bytes starting at pos.
func (b *Buffer) Delete(pos, n int) {
	pos = b.clamp(pos)
	if n <= 0 {
		return
	}
	if rest := b.Len() - pos; n > rest {
		n = rest
	}
	if n == 0 {
		return
	}
	b.moveGap(pos)
	b.gapEnd += n
}

// ByteAt returns the byte at pos, or 0 when pos is out of range.
func (b *Buffer) ByteAt(pos int) byte {
	if pos < 0 || pos >= b.Len() {
		return 0
	}
	if pos < b.gapStart {
		return b.data[pos]
	}
	return b.data[pos+(b.gapEnd-b.gapStart)]
}

// CopyInto copies up to n bytes starting at start into dst and returns the
// number of bytes copied.
func (b *Buffer) CopyInto(start, n int, dst []byte) int {
	start = b.clamp(start)
	if n > len(dst) {
		n = len(dst)
	}
	if rest := b.Len() - start; n > rest {
		n = rest
	}
	if n <= 0 {
		return 0
	}
	copied := 0
	if start < b.gapStart {
		copied = copy(dst[:n], b.data[start:b.gapStart])
	}
	if copied < n {
		from := start + copied + (b.gapEnd - b.gapStart)
		copied += copy(dst[copied:n], b.data[from:])
	}
	return copied
}

// Bytes returns a copy of [start, end).
func (b *Buffer) Bytes(start, end int) []byte {
	start, end = b.clamp(start), b.clamp(end)
	if end <= start {
		return nil
	}
	out := make([]byte, end-start)
	b.CopyInto(start, end-start, out)
	return out
}

// Substr returns [start, end) as a string.
func (b *Buffer) Substr(start, end int) string {
	return string(b.Bytes(start, end))
}

// String returns the whole document.
func (b *Buffer) String() string {
	return b.Substr(0, b.Len())
}

// Reset replaces the whole content.
func (b *Buffer) Reset(content []byte) {
	*b = *New(content)
}
