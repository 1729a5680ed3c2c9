package layout

import (
	"strings"

	"github.com/kk-code-lab/mdwrite/internal/markdown"
)

// sgrMark is an escape sequence found before byte off of highlighted code.
type sgrMark struct {
	off int
	seq string
}

// parseSGR separates the escape sequences of highlighted output from its
// text. It fails when the text differs from code.
func parseSGR(out, code string) ([]sgrMark, bool) {
	var marks []sgrMark
	off := 0
	for i := 0; i < len(out); {
		if out[i] == 0x1b && i+1 < len(out) && out[i+1] == '[' {
			j := i + 2
			for j < len(out) && (out[j] == ';' || (out[j] >= '0' && out[j] <= '9')) {
				j++
			}
			if j >= len(out) || out[j] != 'm' {
				return nil, false
			}
			marks = append(marks, sgrMark{off: off, seq: out[i : j+1]})
			i = j + 1
			continue
		}
		if off >= len(code) || out[i] != code[off] {
			return nil, false
		}
		off++
		i++
	}
	if off != len(code) {
		return nil, false
	}
	return marks, true
}

// highlightMarks returns the escape sequences for the content of a code block,
// computed once per cache.
func (l *blockLayout) highlightMarks(b *markdown.Block, c markdown.CodeBlock) []sgrMark {
	if l.memo == nil || l.env.Highlighter == nil || c.Content.Empty() {
		return nil
	}
	if marks, ok := l.memo[b.Start]; ok {
		return marks
	}
	code := string(markdown.Slice(l.t, c.Content.Start, c.Content.End))
	lang := string(markdown.Slice(l.t, c.Lang.Start, c.Lang.End))
	var marks []sgrMark
	if out, err := l.env.Highlighter.Highlight(code, strings.ToLower(lang)); err == nil {
		if m, ok := parseSGR(out, code); ok {
			marks = m
		}
	}
	l.memo[b.Start] = marks
	return marks
}

// codeRows draws fences in syntax style and the content verbatim. Code
// never trims the whitespace at a soft break.
func (l *blockLayout) codeRows(b *markdown.Block, c markdown.CodeBlock) []Row {
	fence := Attr{Block: markdown.BlockCode, Style: markdown.StyleSyntax}
	body := Attr{Block: markdown.BlockCode, Style: markdown.StyleCode}
	content := c.Content
	if content.Start > b.End {
		content.Start = b.End
	}
	if content.End < content.Start {
		content.End = content.Start
	}

	var gs []Glyph
	gs = appendClusters(gs, markdown.Slice(l.t, b.Start, content.Start), b.Start, fence)
	first := len(gs)
	gs = appendClusters(gs, markdown.Slice(l.t, content.Start, content.End), content.Start, body)
	if marks := l.highlightMarks(b, c); len(marks) > 0 {
		applyMarks(gs[first:], marks, content.Start)
	}
	gs = appendClusters(gs, markdown.Slice(l.t, content.End, b.End), content.End, fence)

	cfg := l.env.Wrap
	cfg.TrimWhitespace = false
	return l.wrapLines(splitLines(gs, b.Start, nil, nil, false), 1, cfg)
}

// applyMarks attaches each escape sequence to the first glyph starting at
// or after its offset.
func applyMarks(gs []Glyph, marks []sgrMark, base int) {
	gi := 0
	for _, m := range marks {
		pos := base + m.off
		for gi < len(gs) && gs[gi].Start < pos {
			gi++
		}
		if gi >= len(gs) {
			return
		}
		gs[gi].SGR += m.seq
	}
}
