package markdown

const (
	maxBlockIndent = 3
	maxHeaderLevel = 6
)

// DetectThematicBreak matches "***", "---", "___" (spaces allowed between
// markers) and returns the start of the next line.
func DetectThematicBreak(t Text, pos int) (int, bool) {
	p, _ := skipIndent(t, pos, maxBlockIndent)
	marker := t.ByteAt(p)
	if marker != '-' && marker != '*' && marker != '_' {
		return 0, false
	}
	end := LineEnd(t, p)
	count := 0
	for ; p < end; p++ {
		switch c := t.ByteAt(p); {
		case c == marker:
			count++
		case c == ' ' || c == '\t' || c == '\r':
		default:
			return 0, false
		}
	}
	if count < 3 {
		return 0, false
	}
	return NextLine(t, pos), true
}

// DetectSetextUnderline matches a line of '=' (level 1) or '-' (level 2).
func DetectSetextUnderline(t Text, pos int) (int, bool) {
	p, _ := skipIndent(t, pos, maxBlockIndent)
	marker := t.ByteAt(p)
	level := 0
	switch marker {
	case '=':
		level = 1
	case '-':
		level = 2
	default:
		return 0, false
	}
	end := LineEnd(t, p)
	for p < end && t.ByteAt(p) == marker {
		p++
	}
	if trimLineEnd(t, p, end) > p {
		return 0, false
	}
	return level, true
}

// HeaderMatch describes an ATX header line.
type HeaderMatch struct {
	Level        int
	ContentStart int
	End          int
}

// DetectHeader matches an ATX header: up to three spaces, one to six '#',
// then whitespace or end of line.
func DetectHeader(t Text, pos int) (HeaderMatch, bool) {
	p, _ := skipIndent(t, pos, maxBlockIndent)
	if t.ByteAt(p) == ' ' {
		return HeaderMatch{}, false
	}
	level := 0
	for t.ByteAt(p+level) == '#' && p+level < t.Len() {
		level++
	}
	if level == 0 || level > maxHeaderLevel {
		return HeaderMatch{}, false
	}
	after := p + level
	if !isLineEnd(t, after) && !isSpaceOrTab(t.ByteAt(after)) {
		return HeaderMatch{}, false
	}
	lineEnd := LineEnd(t, after)
	content := skipSpaces(t, after, lineEnd)
	return HeaderMatch{Level: level, ContentStart: content, End: NextLine(t, pos)}, true
}

// FenceMatch describes a fenced code block.
type FenceMatch struct {
	Lang    Span
	Content Span
	Closed  bool
	End     int
}

func fenceAt(t Text, pos int) (int, bool) {
	p, _ := skipIndent(t, pos, maxBlockIndent)
	if !hasPrefixAt(t, p, "```") {
		return 0, false
	}
	return p, true
}

// DetectFence matches a block opened by three backticks. The closing fence
// is the next line that, after optional whitespace, starts with three
// backticks. An unclosed fence runs to the end of the document.
func DetectFence(t Text, pos int) (FenceMatch, bool) {
	p, ok := fenceAt(t, pos)
	if !ok {
		return FenceMatch{}, false
	}
	lineEnd := LineEnd(t, p)
	langStart := p + 3
	langEnd := langStart
	for langEnd < lineEnd {
		c := t.ByteAt(langEnd)
		if c == ' ' || c == '\t' || c == '\r' {
			break
		}
		langEnd++
	}
	m := FenceMatch{Lang: Span{langStart, langEnd}}
	contentStart := NextLine(t, pos)
	line := contentStart
	n := t.Len()
	for line < n {
		q := skipSpaces(t, line, LineEnd(t, line))
		if hasPrefixAt(t, q, "```") {
			m.Content = Span{contentStart, line}
			m.Closed = true
			m.End = NextLine(t, line)
			return m, true
		}
		next := NextLine(t, line)
		if next == line {
			break
		}
		line = next
	}
	m.Content = Span{contentStart, n}
	m.End = n
	return m, true
}

// MathMatch describes a "$$" display math block.
type MathMatch struct {
	Content Span
	End     int
}

// DetectBlockMath matches "$$ ... $$", on one line or across lines.
// Unterminated blocks are not math.
func DetectBlockMath(t Text, pos int) (MathMatch, bool) {
	p, _ := skipIndent(t, pos, maxBlockIndent)
	if !hasPrefixAt(t, p, "$$") {
		return MathMatch{}, false
	}
	lineEnd := LineEnd(t, p)
	open := p + 2
	for q := open; q+1 < lineEnd; q++ {
		if t.ByteAt(q) == '$' && t.ByteAt(q+1) == '$' {
			if trimLineEnd(t, q+2, lineEnd) != q+2 {
				return MathMatch{}, false
			}
			return MathMatch{Content: Span{open, q}, End: NextLine(t, pos)}, true
		}
	}
	line := NextLine(t, pos)
	n := t.Len()
	for line < n {
		end := LineEnd(t, line)
		trimmed := trimLineEnd(t, line, end)
		if trimmed-line >= 2 && t.ByteAt(trimmed-1) == '$' && t.ByteAt(trimmed-2) == '$' {
			return MathMatch{Content: Span{open, trimmed - 2}, End: NextLine(t, line)}, true
		}
		if IsBlankLine(t, line) {
			return MathMatch{}, false
		}
		next := NextLine(t, line)
		if next == line {
			break
		}
		line = next
	}
	return MathMatch{}, false
}

// FootnoteMatch describes a "[^id]: text" definition.
type FootnoteMatch struct {
	ID           Span
	ContentStart int
}

// DetectFootnoteDef matches "[^id]:" at a line start.
func DetectFootnoteDef(t Text, pos int) (FootnoteMatch, bool) {
	p, _ := skipIndent(t, pos, maxBlockIndent)
	if !hasPrefixAt(t, p, "[^") {
		return FootnoteMatch{}, false
	}
	idStart := p + 2
	lineEnd := LineEnd(t, p)
	q := idStart
	for q < lineEnd {
		c := t.ByteAt(q)
		if c == ']' {
			break
		}
		if c == ' ' || c == '\t' || c == '[' {
			return FootnoteMatch{}, false
		}
		q++
	}
	if q == idStart || q >= lineEnd || t.ByteAt(q+1) != ':' {
		return FootnoteMatch{}, false
	}
	content := skipSpaces(t, q+2, lineEnd)
	return FootnoteMatch{ID: Span{idStart, q}, ContentStart: content}, true
}

// DetectBlockquote matches '>' markers and returns the nesting level.
func DetectBlockquote(t Text, pos int) (int, bool) {
	level, _ := quotePrefix(t, pos)
	return level, level > 0
}

// quotePrefix returns the quote level of the line at pos and the offset
// just past its markers.
func quotePrefix(t Text, pos int) (int, int) {
	p, _ := skipIndent(t, pos, maxBlockIndent)
	level := 0
	for t.ByteAt(p) == '>' && p < t.Len() {
		level++
		p++
		if t.ByteAt(p) == ' ' {
			p++
		}
	}
	if level == 0 {
		return 0, pos
	}
	return level, p
}

// QuotePrefixEnd returns the offset after the '>' markers of the line at
// pos, or pos when the line is not quoted.
func QuotePrefixEnd(t Text, pos int) int {
	_, end := quotePrefix(t, pos)
	return end
}

// ListMatch describes a list item marker.
type ListMatch struct {
	Indent       int
	ContentStart int
	Ordered      bool
	Number       int
	Task         TaskState
	Marker       Span
	Checkbox     Span
}

// DetectListItem matches "-", "+", "*" or "1." / "1)" markers followed by
// whitespace, and recognizes task checkboxes "[ ]", "[x]", "[X]".
func DetectListItem(t Text, pos int) (ListMatch, bool) {
	lineEnd := LineEnd(t, pos)
	p := pos
	for p < lineEnd && t.ByteAt(p) == ' ' {
		p++
	}
	m := ListMatch{Indent: p - pos}
	c := t.ByteAt(p)
	switch {
	case c == '-' || c == '+' || c == '*':
		m.Marker = Span{p, p + 1}
		p++
	case isDigit(c):
		q := p
		num := 0
		for q < lineEnd && isDigit(t.ByteAt(q)) && q-p < 9 {
			num = num*10 + int(t.ByteAt(q)-'0')
			q++
		}
		if d := t.ByteAt(q); q >= lineEnd || (d != '.' && d != ')') {
			return ListMatch{}, false
		}
		m.Ordered = true
		m.Number = num
		m.Marker = Span{p, q + 1}
		p = q + 1
	default:
		return ListMatch{}, false
	}
	if p < lineEnd && !isSpaceOrTab(t.ByteAt(p)) {
		return ListMatch{}, false
	}
	if p >= lineEnd && !m.Ordered {
		return ListMatch{}, false
	}
	p = skipSpaces(t, p, lineEnd)
	if p+2 < lineEnd && t.ByteAt(p) == '[' && t.ByteAt(p+2) == ']' {
		state := TaskNone
		switch t.ByteAt(p + 1) {
		case ' ':
			state = TaskUnchecked
		case 'x', 'X':
			state = TaskChecked
		}
		after := p + 3
		if state != TaskNone && (after >= lineEnd || isSpaceOrTab(t.ByteAt(after)) || t.ByteAt(after) == '\r') {
			m.Task = state
			m.Checkbox = Span{p, after}
			p = skipSpaces(t, after, lineEnd)
		}
	}
	m.ContentStart = p
	return m, true
}

// ImageMatch describes an image-only line.
type ImageMatch struct {
	Alt    Span
	Path   Span
	Title  Span
	Width  int
	Height int
	End    int
}

// DetectImage matches a line consisting of ![alt](path "title") with an
// optional { width=Wpx height=H% } attribute block.
func DetectImage(t Text, pos int) (ImageMatch, bool) {
	p, _ := skipIndent(t, pos, maxBlockIndent)
	lineEnd := LineEnd(t, p)
	if !hasPrefixAt(t, p, "![") {
		return ImageMatch{}, false
	}
	line := Slice(t, p, lineEnd)
	base := p
	altEnd := matchBracket(line, 2)
	if altEnd < 0 || altEnd+1 >= len(line) || line[altEnd+1] != '(' {
		return ImageMatch{}, false
	}
	parenEnd := matchParen(line, altEnd+2)
	if parenEnd < 0 {
		return ImageMatch{}, false
	}
	m := ImageMatch{Alt: Span{base + 2, base + altEnd}}

	inner := altEnd + 2
	for inner < parenEnd && isSpaceOrTab(line[inner]) {
		inner++
	}
	pathEnd := inner
	for pathEnd < parenEnd && !isSpaceOrTab(line[pathEnd]) {
		pathEnd++
	}
	if pathEnd == inner {
		return ImageMatch{}, false
	}
	m.Path = Span{base + inner, base + pathEnd}
	rest := pathEnd
	for rest < parenEnd && isSpaceOrTab(line[rest]) {
		rest++
	}
	if rest < parenEnd {
		if line[rest] != '"' || line[parenEnd-1] != '"' || parenEnd-1 <= rest {
			return ImageMatch{}, false
		}
		m.Title = Span{base + rest + 1, base + parenEnd - 1}
	}

	q := parenEnd + 1
	for q < len(line) && isSpaceOrTab(line[q]) {
		q++
	}
	if q < len(line) && line[q] == '{' {
		close := q + 1
		for close < len(line) && line[close] != '}' {
			close++
		}
		if close >= len(line) {
			return ImageMatch{}, false
		}
		m.Width, m.Height = parseImageAttrs(line[q+1 : close])
		q = close + 1
	}
	for q < len(line) {
		if c := line[q]; c != ' ' && c != '\t' && c != '\r' {
			return ImageMatch{}, false
		}
		q++
	}
	m.End = NextLine(t, pos)
	return m, true
}

// parseImageAttrs reads width=/height= values. "%" values are stored as a
// negative magnitude, "px" (or bare numbers) as positive cells.
func parseImageAttrs(attrs []byte) (int, int) {
	width, height := 0, 0
	i := 0
	for i < len(attrs) {
		for i < len(attrs) && (isSpaceOrTab(attrs[i]) || attrs[i] == ',') {
			i++
		}
		keyStart := i
		for i < len(attrs) && attrs[i] != '=' && !isSpaceOrTab(attrs[i]) {
			i++
		}
		key := string(attrs[keyStart:i])
		if i >= len(attrs) || attrs[i] != '=' {
			continue
		}
		i++
		valStart := i
		for i < len(attrs) && !isSpaceOrTab(attrs[i]) && attrs[i] != ',' {
			i++
		}
		val := parseDimension(attrs[valStart:i])
		switch key {
		case "width", "w":
			width = val
		case "height", "h":
			height = val
		}
	}
	return width, height
}

func parseDimension(v []byte) int {
	n := 0
	i := 0
	for i < len(v) && isDigit(v[i]) && n < 1_000_000 {
		n = n*10 + int(v[i]-'0')
		i++
	}
	if i == 0 {
		return 0
	}
	switch suffix := string(v[i:]); suffix {
	case "%":
		return -n
	case "", "px":
		return n
	default:
		return 0
	}
}

// matchBracket returns the index of the ']' closing the '[' before from.
func matchBracket(b []byte, from int) int {
	depth := 0
	for i := from; i < len(b); i++ {
		switch b[i] {
		case '\\':
			i++
		case '\n':
			return -1
		case '[':
			depth++
		case ']':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// matchParen returns the index of the ')' closing the '(' before from.
func matchParen(b []byte, from int) int {
	depth := 0
	for i := from; i < len(b); i++ {
		switch b[i] {
		case '\\':
			i++
		case '\n':
			return -1
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}
