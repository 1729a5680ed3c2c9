package layout

import (
	"strconv"
	"strings"

	"github.com/kk-code-lab/mdwrite/internal/markdown"
	"github.com/kk-code-lab/mdwrite/internal/textutil"
	"github.com/kk-code-lab/mdwrite/internal/wrap"
)

// Row is one laid out row of a block.
type Row struct {
	Glyphs []Glyph
	// Start is the first source byte of the row; End is one past the
	// last. A row standing for no source has Start == End.
	Start int
	End   int
	// Hard is set when the row ends at a newline of the source.
	Hard  bool
	Scale int
}

// Height is the number of virtual rows the row occupies.
func (r *Row) Height() int {
	if r.Scale > 1 {
		return r.Scale
	}
	return 1
}

// Width is the number of cells the row's glyphs occupy before scaling.
func (r *Row) Width() int {
	w := 0
	for i := range r.Glyphs {
		w += r.Glyphs[i].Width
	}
	return w
}

type logicalLine struct {
	prefix []Glyph
	cont   []Glyph
	glyphs []Glyph
	pos    int
}

func glyphsWidth(gs []Glyph) int {
	w := 0
	for i := range gs {
		w += gs[i].Width
	}
	return w
}

// blockLayout lays out the rows of one block. raw reveals the markdown
// syntax of the block. memo holds code highlighting per block start; it is
// nil while counting rows, since highlighting never changes them.
type blockLayout struct {
	t    markdown.Text
	env  *Env
	raw  bool
	memo map[int][]sgrMark
}

func (l *blockLayout) rows(b *markdown.Block) []Row {
	if l.raw {
		return l.rawRows(b)
	}
	switch d := b.Data.(type) {
	case markdown.Header:
		return l.headerRows(b, d)
	case markdown.ListItem:
		return l.listRows(b, d)
	case markdown.Blockquote:
		return l.quoteRows(b, d)
	case markdown.CodeBlock:
		return l.codeRows(b, d)
	case *markdown.Table:
		return l.tableRows(b, d)
	case markdown.Image:
		return l.imageRows(b, d)
	case markdown.ThematicBreak:
		return l.ruleRows(b)
	case *markdown.BlockMath:
		return l.mathRows(b, d)
	case markdown.FootnoteDef:
		return l.footnoteRows(b, d)
	}
	rg := newRunGlyphs(l.t, b.Runs, Attr{Block: markdown.BlockParagraph}, false, l.env)
	gs := rg.emit(nil, b.Start, b.End, 0)
	return l.wrapLines(splitLines(gs, b.Start, nil, nil, false), 1, l.env.Wrap)
}

// splitLines cuts a glyph stream after each newline. Continuation lines get
// their leading whitespace hidden when hideIndent is set.
func splitLines(gs []Glyph, pos int, prefix, cont []Glyph, hideIndent bool) []logicalLine {
	var lines []logicalLine
	start := 0
	for i := range gs {
		if gs[i].Class != wrap.ClassNewline {
			continue
		}
		lines = append(lines, logicalLine{glyphs: gs[start : i+1]})
		start = i + 1
	}
	if start < len(gs) || len(lines) == 0 {
		lines = append(lines, logicalLine{glyphs: gs[start:]})
	}
	for i := range lines {
		lines[i].pos = pos
		if len(lines[i].glyphs) > 0 {
			lines[i].pos = lines[i].glyphs[0].Start
		}
		lines[i].prefix = cont
		lines[i].cont = cont
		if i == 0 {
			lines[i].prefix = prefix
			continue
		}
		if hideIndent {
			for j := range lines[i].glyphs {
				g := &lines[i].glyphs[j]
				if g.Class != wrap.ClassSpace && g.Class != wrap.ClassTab {
					break
				}
				*g = hiddenGlyph(g.Start, g.End, g.Attr)
			}
		}
	}
	return lines
}

// wrapLines wraps each logical line into rows. The first row of a line
// gets its prefix; later rows get the continuation prefix. Both shrink the
// width available to the text.
func (l *blockLayout) wrapLines(lines []logicalLine, scale int, cfg wrap.Config) []Row {
	var rows []Row
	for _, line := range lines {
		width := l.env.width()
		prefixWidth := glyphsWidth(line.prefix)
		if cw := glyphsWidth(line.cont); cw > prefixWidth {
			prefixWidth = cw
		}
		avail := (width - prefixWidth) / scale
		if avail < 1 {
			avail = 1
		}
		src := make(wrap.Slice, len(line.glyphs))
		for i := range line.glyphs {
			src[i] = wrap.Cluster{Width: line.glyphs[i].Width, Class: line.glyphs[i].Class}
		}
		for i, wl := range wrap.Wrap(src, 0, len(src), avail, cfg) {
			prefix := line.cont
			if i == 0 {
				prefix = line.prefix
			}
			row := Row{Scale: scale, Hard: wl.HardBreak}
			row.Glyphs = append(row.Glyphs, prefix...)
			body := line.glyphs[wl.Start:wl.End]
			row.Glyphs = append(row.Glyphs, body...)
			if wl.Hyphen && len(body) > 0 {
				row.Glyphs = append(row.Glyphs, decoration("-", body[len(body)-1].Attr))
			}
			expandTabs(row.Glyphs[len(prefix):], cfg.TabSize)
			trimTrailingSpaces(row.Glyphs[len(prefix):], wl.Width)
			row.Start, row.End = sourceSpan(row.Glyphs, line.pos)
			rows = append(rows, row)
		}
	}
	return rows
}

// endsLine reports whether the byte before end is a newline.
func endsLine(t markdown.Text, end int) bool {
	return end > 0 && end <= t.Len() && t.ByteAt(end-1) == '\n'
}

func sourceSpan(gs []Glyph, pos int) (int, int) {
	start, end := -1, -1
	for i := range gs {
		if !gs[i].sourced() {
			continue
		}
		if start < 0 || gs[i].Start < start {
			start = gs[i].Start
		}
		if gs[i].End > end {
			end = gs[i].End
		}
	}
	if start < 0 {
		return pos, pos
	}
	return start, end
}

// expandTabs sets the width of tab glyphs from their column relative to
// the first glyph.
func expandTabs(gs []Glyph, tabSize int) {
	col := 0
	for i := range gs {
		if gs[i].Class == wrap.ClassTab {
			gs[i].Width = textutil.TabAdvance(col, tabSize)
			gs[i].Text = strings.Repeat(" ", gs[i].Width)
		}
		col += gs[i].Width
	}
}

// rawRows shows every byte of the block with markup in syntax style.
func (l *blockLayout) rawRows(b *markdown.Block) []Row {
	base := Attr{Block: b.Kind()}
	scale := 1
	outside := markdown.StyleSyntax
	runs := b.Runs
	switch d := b.Data.(type) {
	case markdown.Header:
		base.Level = d.Level
		base.Style = markdown.StyleBold
		scale = l.env.headerScale(d.Level)
	case markdown.CodeBlock:
		return l.codeRows(b, d)
	case *markdown.Table:
		runs = tableRuns(d)
	case *markdown.BlockMath:
		outside = markdown.StyleMath
	case markdown.Paragraph:
		outside = 0
	}
	rg := newRunGlyphs(l.t, runs, base, true, l.env)
	gs := rg.emit(nil, b.Start, b.End, outside)
	return l.wrapLines(splitLines(gs, b.Start, nil, nil, false), scale, l.env.Wrap)
}

func tableRuns(t *markdown.Table) []markdown.InlineRun {
	var runs []markdown.InlineRun
	for _, row := range t.Cells {
		for _, c := range row {
			runs = append(runs, c.Runs...)
		}
	}
	return runs
}

func (l *blockLayout) headerRows(b *markdown.Block, h markdown.Header) []Row {
	base := Attr{Block: markdown.BlockHeader, Level: h.Level, Style: markdown.StyleBold}
	lineEnd := markdown.LineEnd(l.t, b.Start)
	var gs []Glyph
	if !h.Setext {
		marker := strings.Repeat("#", h.Level) + " "
		gs = append(gs, atomGlyph(marker, b.Start, h.ContentStart, Attr{Block: markdown.BlockHeader, Level: h.Level, Style: markdown.StyleSyntax}))
	} else if h.ContentStart > b.Start {
		gs = append(gs, hiddenGlyph(b.Start, h.ContentStart, base))
	}
	rg := newRunGlyphs(l.t, b.Runs, base, false, l.env)
	gs = rg.emit(gs, h.ContentStart, lineEnd, 0)
	if h.Setext {
		gs = append(gs, hiddenGlyph(lineEnd, b.End, base))
	} else if lineEnd < b.End {
		gs = append(gs, clusterGlyph([]byte{'\n'}, lineEnd, base))
	}
	return l.wrapLines([]logicalLine{{glyphs: gs, pos: b.Start}}, l.env.headerScale(h.Level), l.env.Wrap)
}

func (l *blockLayout) listRows(b *markdown.Block, li markdown.ListItem) []Row {
	base := Attr{Block: markdown.BlockListItem}
	marker := "• "
	switch {
	case li.Task == markdown.TaskChecked:
		marker = "☑ "
	case li.Task == markdown.TaskUnchecked:
		marker = "☐ "
	case li.Ordered:
		marker = strconv.Itoa(li.Number) + string(markdown.Slice(l.t, li.Marker.End-1, li.Marker.End)) + " "
	}
	if li.Task != markdown.TaskNone && li.Ordered {
		marker = strconv.Itoa(li.Number) + ". " + marker
	}
	marker = strings.Repeat(" ", li.Indent) + marker
	prefixAttr := Attr{Block: markdown.BlockListItem, Style: markdown.StyleSyntax}
	prefix := []Glyph{atomGlyph(marker, b.Start, li.ContentStart, prefixAttr)}
	cont := []Glyph{decoration(strings.Repeat(" ", prefix[0].Width), base)}

	if li.Task == markdown.TaskChecked {
		base.Style |= markdown.StyleStrike
	}
	rg := newRunGlyphs(l.t, b.Runs, base, false, l.env)
	gs := rg.emit(nil, li.ContentStart, b.End, 0)
	return l.wrapLines(splitLines(gs, li.ContentStart, prefix, cont, true), 1, l.env.Wrap)
}

func quoteBar(level int) string {
	return strings.Repeat("│ ", level)
}

func (l *blockLayout) quoteRows(b *markdown.Block, q markdown.Blockquote) []Row {
	base := Attr{Block: markdown.BlockBlockquote, Level: q.Level}
	barAttr := base
	barAttr.Style = markdown.StyleSyntax
	rg := newRunGlyphs(l.t, b.Runs, base, false, l.env)
	var lines []logicalLine
	for line := b.Start; line < b.End; {
		next := markdown.NextLine(l.t, line)
		if next > b.End {
			next = b.End
		}
		content := markdown.QuotePrefixEnd(l.t, line)
		level, _ := markdown.DetectBlockquote(l.t, line)
		if level == 0 {
			level = q.Level
		}
		prefix := []Glyph{atomGlyph(quoteBar(level), line, content, barAttr)}
		if content == line {
			prefix[0] = decoration(quoteBar(level), barAttr)
		}
		cont := []Glyph{decoration(quoteBar(level), barAttr)}
		gs := rg.emit(nil, content, next, 0)
		lines = append(lines, logicalLine{prefix: prefix, cont: cont, glyphs: gs, pos: content})
		if next == line {
			break
		}
		line = next
	}
	return l.wrapLines(lines, 1, l.env.Wrap)
}

func (l *blockLayout) footnoteRows(b *markdown.Block, fn markdown.FootnoteDef) []Row {
	base := Attr{Block: markdown.BlockFootnoteDef}
	id := string(markdown.Slice(l.t, fn.ID.Start, fn.ID.End))
	label := "[" + id + "] "
	prefix := []Glyph{atomGlyph(label, b.Start, fn.ContentStart, Attr{Block: markdown.BlockFootnoteDef, Style: markdown.StyleFootnote})}
	cont := []Glyph{decoration(strings.Repeat(" ", prefix[0].Width), base)}
	rg := newRunGlyphs(l.t, b.Runs, base, false, l.env)
	gs := rg.emit(nil, fn.ContentStart, b.End, 0)
	return l.wrapLines(splitLines(gs, fn.ContentStart, prefix, cont, true), 1, l.env.Wrap)
}

func (l *blockLayout) ruleRows(b *markdown.Block) []Row {
	width := l.env.width()
	g := atomGlyph(strings.Repeat("─", width), b.Start, b.End, Attr{Block: markdown.BlockThematicBreak, Style: markdown.StyleSyntax})
	g.Width = width
	return []Row{{Glyphs: []Glyph{g}, Start: b.Start, End: b.End, Scale: 1, Hard: endsLine(l.t, b.End)}}
}

func (l *blockLayout) mathRows(b *markdown.Block, m *markdown.BlockMath) []Row {
	attr := Attr{Block: markdown.BlockKindMath, Style: markdown.StyleMath}
	if sk := l.blockSketch(m); sk != nil && len(sk.Rows) > 0 {
		rows := make([]Row, 0, len(sk.Rows))
		for i, text := range sk.Rows {
			start, end := b.Start, b.Start
			if i == len(sk.Rows)-1 {
				end = b.End
			}
			g := atomGlyph(text, start, end, attr)
			if i < len(sk.Rows)-1 {
				g.Start, g.End = -1, -1
			}
			rows = append(rows, Row{Glyphs: []Glyph{g}, Start: start, End: end, Scale: 1})
		}
		rows[len(rows)-1].Hard = endsLine(l.t, b.End)
		return rows
	}
	start, end := m.Content.Start, m.Content.End
	if start < end && l.t.ByteAt(start) == '\n' {
		start++
	}
	if end > start && l.t.ByteAt(end-1) == '\n' {
		end--
	}
	rg := newRunGlyphs(l.t, nil, attr, false, l.env)
	gs := []Glyph{hiddenGlyph(b.Start, start, attr)}
	gs = rg.emit(gs, start, end, 0)
	gs = append(gs, hiddenGlyph(end, b.End, attr))
	return l.wrapLines(splitLines(gs, b.Start, nil, nil, true), 1, l.env.Wrap)
}

func (l *blockLayout) blockSketch(m *markdown.BlockMath) *markdown.Sketch {
	if m.Sketch != nil {
		return m.Sketch
	}
	if l.env.Math == nil {
		return nil
	}
	latex := strings.TrimSpace(string(markdown.Slice(l.t, m.Content.Start, m.Content.End)))
	sk, err := l.env.Math.Render(latex, true)
	if err != nil || sk == nil {
		return nil
	}
	m.Sketch = sk
	return sk
}
