package markdown

// Text is the read-only view of the document the classifier works on.
// *gapbuf.Buffer satisfies it.
type Text interface {
	Len() int
	ByteAt(pos int) byte
}

type byteRanger interface {
	Bytes(start, end int) []byte
}

// StringText adapts a string to Text.
type StringText string

func (s StringText) Len() int { return len(s) }

func (s StringText) ByteAt(pos int) byte {
	if pos < 0 || pos >= len(s) {
		return 0
	}
	return s[pos]
}

func (s StringText) Bytes(start, end int) []byte {
	start, end = clampRange(len(s), start, end)
	return []byte(s[start:end])
}

func clampRange(n, start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if end < start {
		end = start
	}
	return start, end
}

// Slice returns [start, end) of t as bytes.
func Slice(t Text, start, end int) []byte {
	start, end = clampRange(t.Len(), start, end)
	if r, ok := t.(byteRanger); ok {
		return r.Bytes(start, end)
	}
	out := make([]byte, end-start)
	for i := range out {
		out[i] = t.ByteAt(start + i)
	}
	return out
}

// LineEnd returns the offset of the newline ending the line at pos, or
// t.Len() for the last line.
func LineEnd(t Text, pos int) int {
	n := t.Len()
	for pos < n && t.ByteAt(pos) != '\n' {
		pos++
	}
	return pos
}

// NextLine returns the start of the line after the one containing pos.
func NextLine(t Text, pos int) int {
	end := LineEnd(t, pos)
	if end < t.Len() {
		return end + 1
	}
	return end
}

// LineStart returns the start of the line containing pos.
func LineStart(t Text, pos int) int {
	if pos > t.Len() {
		pos = t.Len()
	}
	for pos > 0 && t.ByteAt(pos-1) != '\n' {
		pos--
	}
	return pos
}

// IsBlankLine reports whether the line at pos holds only whitespace.
func IsBlankLine(t Text, pos int) bool {
	n := t.Len()
	for ; pos < n; pos++ {
		switch t.ByteAt(pos) {
		case ' ', '\t', '\r':
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

func isSpaceOrTab(c byte) bool { return c == ' ' || c == '\t' }

func isLineEnd(t Text, pos int) bool {
	if pos >= t.Len() {
		return true
	}
	c := t.ByteAt(pos)
	return c == '\n' || c == '\r'
}

// skipIndent skips up to max spaces and reports the position after them
// and how many were skipped.
func skipIndent(t Text, pos, max int) (int, int) {
	n := 0
	for n < max && t.ByteAt(pos) == ' ' {
		pos++
		n++
	}
	return pos, n
}

func skipSpaces(t Text, pos, end int) int {
	for pos < end && isSpaceOrTab(t.ByteAt(pos)) {
		pos++
	}
	return pos
}

// trimLineEnd returns end moved back over trailing whitespace and '\r'.
func trimLineEnd(t Text, start, end int) int {
	for end > start {
		c := t.ByteAt(end - 1)
		if c != ' ' && c != '\t' && c != '\r' {
			break
		}
		end--
	}
	return end
}

func hasPrefixAt(t Text, pos int, prefix string) bool {
	if pos < 0 || pos+len(prefix) > t.Len() {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if t.ByteAt(pos+i) != prefix[i] {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isASCIIAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
