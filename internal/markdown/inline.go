package markdown

import (
	"html"
	"strings"
)

const (
	maxInlineDepth  = 32
	maxEntityLength = 32
	maxSchemeLength = 32
)

type inlineParser struct {
	src  []byte
	base int
	runs []InlineRun
}

// ParseInline returns the inline runs of [start, end). Runs are ordered,
// never overlap, and together with the text runs between them tile the
// range.
func ParseInline(t Text, start, end int) []InlineRun {
	return parseInline(t, start, end, false)
}

// parseInline optionally recognizes a trailing "{#id}" heading ID.
func parseInline(t Text, start, end int, headingID bool) []InlineRun {
	start, end = clampRange(t.Len(), start, end)
	if start == end {
		return nil
	}
	p := &inlineParser{src: Slice(t, start, end), base: start}
	hi := len(p.src)
	if headingID {
		if open, close, ok := findHeadingID(p.src); ok {
			p.parse(0, open, 0)
			p.emit(open, close, HeadingID{ID: Span{p.base + open + 2, p.base + close - 1}})
			p.text(close, hi)
			return p.runs
		}
	}
	p.parse(0, hi, 0)
	return p.runs
}

// findHeadingID locates "{#id}" at the end of a header line, ignoring
// trailing whitespace.
func findHeadingID(src []byte) (int, int, bool) {
	end := len(src)
	for end > 0 && (src[end-1] == ' ' || src[end-1] == '\t' || src[end-1] == '\r' || src[end-1] == '\n') {
		end--
	}
	if end < 4 || src[end-1] != '}' {
		return 0, 0, false
	}
	i := end - 2
	for i >= 0 && isIDChar(src[i]) {
		i--
	}
	if i < 1 || src[i] != '#' || src[i-1] != '{' || i == end-2 {
		return 0, 0, false
	}
	return i - 1, end, true
}

func isIDChar(c byte) bool {
	return isASCIIAlnum(c) || c == '-' || c == '_' || c == ':' || c == '.'
}

func (p *inlineParser) emit(start, end int, data RunData) {
	p.runs = append(p.runs, InlineRun{Start: p.base + start, End: p.base + end, Data: data})
}

// text emits [start, end) as plain text, merging with a preceding text run.
func (p *inlineParser) text(start, end int) {
	if end <= start {
		return
	}
	if n := len(p.runs); n > 0 {
		last := &p.runs[n-1]
		if last.Kind() == RunText && last.End == p.base+start {
			last.End = p.base + end
			return
		}
	}
	p.emit(start, end, TextRun{})
}

func (p *inlineParser) parse(lo, hi, depth int) {
	if depth >= maxInlineDepth {
		p.text(lo, hi)
		return
	}
	textStart := lo
	i := lo
	for i < hi {
		next, ok := p.construct(i, hi, depth, textStart)
		if !ok {
			i++
			continue
		}
		i = next
		textStart = next
	}
	p.text(textStart, hi)
}

// construct tries every inline rule at i. On success it flushes the pending
// text [textStart, i), emits the construct and returns the offset after it.
func (p *inlineParser) construct(i, hi, depth, textStart int) (int, bool) {
	src := p.src
	switch c := src[i]; c {
	case '\\':
		if i+1 < hi && isASCIIPunct(src[i+1]) {
			p.text(textStart, i)
			p.emit(i, i+2, Escape{Char: src[i+1]})
			return i + 2, true
		}
	case '`':
		return p.codeSpan(i, hi, textStart)
	case '*', '_':
		return p.emphasis(i, hi, depth, textStart)
	case '~':
		return p.pair(i, hi, depth, textStart, '~', StyleStrike)
	case '=':
		return p.pair(i, hi, depth, textStart, '=', StyleHighlight)
	case '!':
		if i+1 < hi && src[i+1] == '[' {
			return p.link(i, i+1, hi, textStart, true)
		}
	case '[':
		if i+1 < hi && src[i+1] == '^' {
			if end, ok := p.footnoteRef(i, hi, textStart); ok {
				return end, true
			}
		}
		return p.link(i, i, hi, textStart, false)
	case '<':
		if end, ok := p.autolink(i, hi, textStart); ok {
			return end, true
		}
		return p.typography(i, hi, textStart)
	case '&':
		return p.entity(i, hi, textStart)
	case ':':
		return p.emoji(i, hi, textStart)
	case '$':
		return p.inlineMath(i, hi, textStart)
	case '-', '.', '(', '+':
		return p.typography(i, hi, textStart)
	}
	return 0, false
}

func isASCIIPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') || (c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func runLength(src []byte, i, hi int, c byte) int {
	n := 0
	for i+n < hi && src[i+n] == c {
		n++
	}
	return n
}

// codeSpan handles backtick runs. Runs of three or more backticks are
// literal text; otherwise the closer is the next run of equal length on the
// same line, and the content is not parsed further.
func (p *inlineParser) codeSpan(i, hi, textStart int) (int, bool) {
	n := runLength(p.src, i, hi, '`')
	if n >= 3 {
		p.text(textStart, i+n)
		return i + n, true
	}
	close, ok := p.findCodeCloser(i+n, hi, n)
	if !ok {
		p.text(textStart, i+n)
		return i + n, true
	}
	p.text(textStart, i)
	p.emit(i, i+n, Delimiter{Open: true, Style: StyleCode, Len: n})
	if close > i+n {
		p.emit(i+n, close, TextRun{})
	}
	p.emit(close, close+n, Delimiter{Style: StyleCode, Len: n})
	return close + n, true
}

func (p *inlineParser) findCodeCloser(from, hi, n int) (int, bool) {
	for j := from; j < hi; {
		switch p.src[j] {
		case '\n':
			return 0, false
		case '`':
			l := runLength(p.src, j, hi, '`')
			if l == n {
				return j, true
			}
			j += l
		default:
			j++
		}
	}
	return 0, false
}

// skipCodeSpan returns the offset after a code span starting at i, or after
// the backtick run when no span closes.
func (p *inlineParser) skipCodeSpan(i, hi int) int {
	n := runLength(p.src, i, hi, '`')
	if n >= 3 {
		return i + n
	}
	if close, ok := p.findCodeCloser(i+n, hi, n); ok {
		return close + n
	}
	return i + n
}

// emphasis handles '*' and '_'. "**" binds before "*": a run of two or
// more opens bold, and a single-char closer never matches a run of exactly
// two.
func (p *inlineParser) emphasis(i, hi, depth, textStart int) (int, bool) {
	src := p.src
	c := src[i]
	l := runLength(src, i, hi, c)
	if c == '_' && i > 0 && isASCIIAlnum(src[i-1]) {
		p.text(textStart, i+l)
		return i + l, true
	}
	n := 1
	if l >= 2 {
		n = 2
	}
	if i+n >= hi || isSpaceByte(src[i+n]) {
		p.text(textStart, i+l)
		return i + l, true
	}
	close, ok := p.findEmphasisCloser(c, n, i+n, hi)
	if !ok {
		// Retry the rest of the run with one delimiter fewer.
		p.text(textStart, i+1)
		return i + 1, true
	}
	style := StyleItalic
	if n == 2 {
		style = StyleBold
	}
	p.text(textStart, i)
	p.emit(i, i+n, Delimiter{Open: true, Style: style, Len: n})
	p.parse(i+n, close, depth+1)
	p.emit(close, close+n, Delimiter{Style: style, Len: n})
	return close + n, true
}

func (p *inlineParser) findEmphasisCloser(c byte, n, from, hi int) (int, bool) {
	src := p.src
	for j := from; j < hi; {
		switch src[j] {
		case '\\':
			j += 2
			continue
		case '`':
			j = p.skipCodeSpan(j, hi)
			continue
		case c:
		default:
			j++
			continue
		}
		k := j + runLength(src, j, hi, c)
		l := k - j
		if isSpaceByte(src[j-1]) || (c == '_' && k < hi && isASCIIAlnum(src[k])) {
			j = k
			continue
		}
		use := -1
		switch {
		case n == 2 && l >= 2:
			use = k - 2
		case n == 1 && l != 2:
			use = k - 1
		}
		if use > from {
			return use, true
		}
		j = k
	}
	return 0, false
}

// pair handles the doubled delimiters "~~" and "==".
func (p *inlineParser) pair(i, hi, depth, textStart int, c byte, style Style) (int, bool) {
	src := p.src
	if i+2 >= hi || src[i+1] != c || isSpaceByte(src[i+2]) || src[i+2] == c {
		return p.typography(i, hi, textStart)
	}
	for j := i + 3; j+1 < hi; j++ {
		switch src[j] {
		case '\\':
			j++
		case '`':
			j = p.skipCodeSpan(j, hi) - 1
		case c:
			if src[j+1] == c && !isSpaceByte(src[j-1]) {
				p.text(textStart, i)
				p.emit(i, i+2, Delimiter{Open: true, Style: style, Len: 2})
				p.parse(i+2, j, depth+1)
				p.emit(j, j+2, Delimiter{Style: style, Len: 2})
				return j + 2, true
			}
		}
	}
	return 0, false
}

// link handles [text](url) and ![alt](url). open is the offset of '['.
func (p *inlineParser) link(i, open, hi, textStart int, image bool) (int, bool) {
	src := p.src[:hi]
	close := matchBracket(src, open+1)
	if close < 0 || close+1 >= hi || src[close+1] != '(' {
		return 0, false
	}
	paren := matchParen(src, close+2)
	if paren < 0 {
		return 0, false
	}
	urlStart, urlEnd := close+2, paren
	for urlStart < urlEnd && isSpaceOrTab(src[urlStart]) {
		urlStart++
	}
	for urlEnd > urlStart && isSpaceOrTab(src[urlEnd-1]) {
		urlEnd--
	}
	p.text(textStart, i)
	p.emit(i, paren+1, Link{
		Text:  Span{p.base + open + 1, p.base + close},
		URL:   Span{p.base + urlStart, p.base + urlEnd},
		Image: image,
	})
	return paren + 1, true
}

func (p *inlineParser) footnoteRef(i, hi, textStart int) (int, bool) {
	src := p.src
	j := i + 2
	for j < hi && src[j] != ']' {
		if isSpaceByte(src[j]) || src[j] == '[' {
			return 0, false
		}
		j++
	}
	if j >= hi || j == i+2 {
		return 0, false
	}
	p.text(textStart, i)
	p.emit(i, j+1, FootnoteRef{ID: Span{p.base + i + 2, p.base + j}})
	return j + 1, true
}

// autolink handles <scheme:rest> and <local@domain>.
func (p *inlineParser) autolink(i, hi, textStart int) (int, bool) {
	src := p.src
	j := i + 1
	for j < hi && src[j] != '>' {
		if isSpaceByte(src[j]) || src[j] == '<' {
			return 0, false
		}
		j++
	}
	if j >= hi || j == i+1 {
		return 0, false
	}
	body := src[i+1 : j]
	var email bool
	switch {
	case isURIAutolink(body):
	case isEmailAutolink(body):
		email = true
	default:
		return 0, false
	}
	p.text(textStart, i)
	p.emit(i, j+1, Autolink{URL: Span{p.base + i + 1, p.base + j}, Email: email})
	return j + 1, true
}

func isURIAutolink(body []byte) bool {
	colon := -1
	for k, c := range body {
		if c == ':' {
			colon = k
			break
		}
		if k == 0 && !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			return false
		}
		if !isASCIIAlnum(c) && c != '+' && c != '.' && c != '-' {
			return false
		}
	}
	return colon >= 2 && colon <= maxSchemeLength && colon+1 < len(body)
}

func isEmailAutolink(body []byte) bool {
	at := -1
	for k, c := range body {
		if c == '@' {
			if at >= 0 {
				return false
			}
			at = k
			continue
		}
		if at < 0 {
			if !isASCIIAlnum(c) && !strings.ContainsRune(".!#$%&'*+/=?^_`{|}~-", rune(c)) {
				return false
			}
		} else if !isASCIIAlnum(c) && c != '.' && c != '-' {
			return false
		}
	}
	if at <= 0 || at == len(body)-1 {
		return false
	}
	domain := body[at+1:]
	last := domain[len(domain)-1]
	return strings.IndexByte(string(domain), '.') >= 0 && last != '.' && last != '-'
}

func (p *inlineParser) entity(i, hi, textStart int) (int, bool) {
	src := p.src
	j := i + 1
	for j < hi && j-i <= maxEntityLength {
		c := src[j]
		if c == ';' {
			break
		}
		if !isASCIIAlnum(c) && c != '#' {
			return 0, false
		}
		j++
	}
	if j >= hi || src[j] != ';' || j == i+1 {
		return 0, false
	}
	raw := string(src[i : j+1])
	decoded := html.UnescapeString(raw)
	if decoded == raw {
		return 0, false
	}
	p.text(textStart, i)
	p.emit(i, j+1, Entity{Decoded: decoded, Len: j + 1 - i})
	return j + 1, true
}

func (p *inlineParser) emoji(i, hi, textStart int) (int, bool) {
	src := p.src
	j := i + 1
	for j < hi && j-i <= maxEmojiName {
		c := src[j]
		if c == ':' {
			break
		}
		if !isASCIIAlnum(c) && c != '_' && c != '+' && c != '-' {
			return 0, false
		}
		j++
	}
	if j >= hi || src[j] != ':' || j == i+1 {
		return 0, false
	}
	repl, ok := LookupEmoji(string(src[i+1 : j]))
	if !ok {
		return 0, false
	}
	p.text(textStart, i)
	p.emit(i, j+1, Emoji{Replacement: repl})
	return j + 1, true
}

// inlineMath handles $...$: the content starts and ends with a non-space,
// stays on one line, and the closing '$' is not followed by a digit.
func (p *inlineParser) inlineMath(i, hi, textStart int) (int, bool) {
	src := p.src
	if i+1 >= hi || src[i+1] == '$' || isSpaceByte(src[i+1]) {
		return 0, false
	}
	for j := i + 1; j < hi; j++ {
		switch src[j] {
		case '\n':
			return 0, false
		case '\\':
			j++
		case '$':
			if isSpaceByte(src[j-1]) || (j+1 < hi && isDigit(src[j+1])) {
				continue
			}
			p.text(textStart, i)
			p.emit(i, j+1, &InlineMath{Content: Span{p.base + i + 1, p.base + j}})
			return j + 1, true
		}
	}
	return 0, false
}

var typographyRules = []struct {
	from string
	to   string
}{
	{"---", "—"},
	{"--", "–"},
	{"...", "…"},
	{"(c)", "©"},
	{"(C)", "©"},
	{"(r)", "®"},
	{"(R)", "®"},
	{"(tm)", "™"},
	{"(TM)", "™"},
	{"+-", "±"},
	{"->", "→"},
	{"<-", "←"},
}

func (p *inlineParser) typography(i, hi, textStart int) (int, bool) {
	src := p.src[i:hi]
	for _, rule := range typographyRules {
		if len(src) >= len(rule.from) && string(src[:len(rule.from)]) == rule.from {
			n := len(rule.from)
			p.text(textStart, i)
			p.emit(i, i+n, Entity{Decoded: rule.to, Len: n})
			return i + n, true
		}
	}
	return 0, false
}
