package layout

import (
	"github.com/kk-code-lab/mdwrite/internal/markdown"
	"github.com/kk-code-lab/mdwrite/internal/textutil"
	"github.com/kk-code-lab/mdwrite/internal/wrap"
	"github.com/rivo/uniseg"
)

// maxScrollPasses bounds the scroll corrections of Render.
const maxScrollPasses = 3

type cursorMatch int

const (
	cursorNone cursorMatch = iota
	// cursorAtEnd: the cursor sits right after the row's last byte.
	cursorAtEnd
	cursorInside
)

type walker struct {
	t     markdown.Text
	view  View
	frame *Frame
	vrow  int
	rows  int
	width int

	match cursorMatch
	// sgr is the last highlighter sequence seen in the current block.
	sgr string
}

// Walk lays out the rows around the viewport. Every walked row gets a row
// map and takes part in cursor tracking; only rows inside the viewport
// produce paint operations. The block holding the cursor shows its
// markdown syntax. A nil cache or View.Plain draws the text unstructured.
func Walk(t markdown.Text, c *Cache, v View) *Frame {
	w := &walker{t: t, view: v, frame: &Frame{Scroll: v.Scroll}}
	w.rows = v.textRows()
	w.width = v.Width - v.LeftMargin
	if w.width < 1 {
		w.width = 1
	}
	if v.Plain || c == nil {
		w.walkPlain()
	} else {
		w.walkBlocks(c)
	}
	return w.frame
}

// done reports whether the walk has passed the viewport by at least one
// row and placed the cursor, so vertical motion always finds a row below.
func (w *walker) done() bool {
	return w.vrow > w.view.Scroll+w.rows && w.match == cursorInside
}

func (w *walker) walkBlocks(c *Cache) {
	cursorIdx := c.blockIndexFor(w.view.Cursor)
	raw := -1
	if cursorIdx < len(c.Blocks) && c.Blocks[cursorIdx].Start <= w.view.Cursor {
		raw = cursorIdx
	} else if n := len(c.Blocks); n > 0 && w.view.Cursor == c.Blocks[n-1].End && !endsLine(w.t, c.Blocks[n-1].End) {
		raw = n - 1
	}

	start := c.firstBlockFrom(w.view.Scroll)
	if cursorIdx < start {
		start = cursorIdx
	}
	if raw >= 0 && raw < start {
		start = raw
	}
	if start > 0 {
		start--
	}

	env := c.env
	l := blockLayout{t: w.t, env: &env, memo: c.memo}
	delta := 0
	if start < len(c.Blocks) {
		b := &c.Blocks[start]
		w.vrow = b.VRowStart - b.LeadingBlankLines
	} else {
		w.vrow = c.TotalRows - c.TrailingBlankLines
	}
	for i := start; i < len(c.Blocks); i++ {
		b := &c.Blocks[i]
		w.blankRows(b.BlankStart, b.LeadingBlankLines)
		l.raw = i == raw
		w.sgr = ""
		rows := l.rows(b)
		n := 0
		for r := range rows {
			w.row(&rows[r])
			n += rows[r].Height()
		}
		if l.raw {
			delta = n - b.VRowCount
		}
		if w.done() {
			w.frame.TotalRows = c.TotalRows + delta
			return
		}
	}
	w.blankRows(c.TrailingBlankStart, c.TrailingBlankLines)
	w.frame.TotalRows = c.TotalRows + delta
}

// blankRows walks a run of n blank lines starting at pos. Each takes one
// row; the empty line after a final newline has no bytes.
func (w *walker) blankRows(pos, n int) {
	for k := 0; k < n; k++ {
		end := markdown.NextLine(w.t, pos)
		row := Row{Start: pos, End: end, Scale: 1, Hard: endsLine(w.t, end) && end > pos}
		row.Glyphs = appendClusters(nil, markdown.Slice(w.t, pos, end), pos, Attr{})
		w.row(&row)
		pos = end
	}
}

func (w *walker) walkPlain() {
	width := w.view.TextWidth
	if width < 1 {
		width = w.width
	}
	cfg := wrap.DefaultConfig()
	n := w.t.Len()
	src := wrap.NewTextSource(markdown.Slice(w.t, 0, n), 0)
	lines := wrap.Wrap(src, 0, n, width, cfg)
	if last := lines[len(lines)-1]; last.HardBreak {
		lines = append(lines, wrap.Line{Start: n, End: n})
	}
	for _, line := range lines {
		row := Row{Start: line.Start, End: line.End, Scale: 1, Hard: line.HardBreak}
		row.Glyphs = appendClusters(nil, markdown.Slice(w.t, line.Start, line.End), line.Start, Attr{})
		expandTabs(row.Glyphs, cfg.TabSize)
		trimTrailingSpaces(row.Glyphs, line.Width)
		w.row(&row)
	}
	w.frame.TotalRows = len(lines)
}

// row records the row map of one laid out row, tracks the cursor and
// emits paint operations when the row is visible.
func (w *walker) row(r *Row) {
	scale := r.Height()
	rm := RowMap{VRow: w.vrow, Start: r.Start, EndPos: r.Start}
	col := 0
	lastStart := -1
	for i := range r.Glyphs {
		g := &r.Glyphs[i]
		if g.sourced() {
			rm.add(col, g.Start, g.End)
			lastStart = g.Start
		}
		col += g.Width * scale
	}
	rm.Width = col
	switch {
	case !r.Hard && r.End == w.t.Len():
		rm.EndPos = r.End
	case lastStart >= 0:
		rm.EndPos = lastStart
	}
	for k := 0; k < scale; k++ {
		m := rm
		m.VRow = w.vrow + k
		m.Part = k
		w.frame.Rows = append(w.frame.Rows, m)
	}

	w.trackCursor(r, &rm)
	if w.vrow >= w.view.Scroll && w.vrow < w.view.Scroll+w.rows {
		w.paint(r, scale)
	} else {
		for i := range r.Glyphs {
			if r.Glyphs[i].SGR != "" {
				w.sgr = r.Glyphs[i].SGR
			}
		}
	}
	w.vrow += scale
}

func (w *walker) trackCursor(r *Row, rm *RowMap) {
	if w.match == cursorInside {
		return
	}
	c := w.view.Cursor
	var m cursorMatch
	switch {
	case c >= r.Start && c < r.End:
		m = cursorInside
	case c == r.End && !r.Hard:
		m = cursorAtEnd
	default:
		return
	}
	w.match = m
	f := w.frame
	f.cursorFound = true
	f.CursorVRow = w.vrow
	f.CursorCol = rm.ColAt(c)
	if m == cursorAtEnd {
		f.CursorCol = rm.Width
	}
	f.CursorRow = w.vrow - w.view.Scroll + w.view.TopMargin
	f.CursorCol += w.view.LeftMargin
	f.CursorVisible = w.vrow >= w.view.Scroll && w.vrow < w.view.Scroll+w.rows
}

func (w *walker) paint(r *Row, scale int) {
	f := w.frame
	screenRow := w.vrow - w.view.Scroll + w.view.TopMargin
	f.Ops = append(f.Ops, PaintOp{Kind: OpMove, Row: screenRow, Col: w.view.LeftMargin})
	col := 0
	first := true
	var cur Attr
	for i := range r.Glyphs {
		g := &r.Glyphs[i]
		if g.Width == 0 || g.Text == "" {
			if g.SGR != "" {
				w.sgr = g.SGR
			}
			continue
		}
		attr := g.Attr
		attr.Selected = g.sourced() && w.view.selected(g.Start, g.End)
		text, width := g.Text, g.Width*scale
		if col+width > w.width {
			if g.Class != wrap.ClassPunct || scale > 1 {
				break
			}
			text, width = truncate(text, w.width-col)
			if width == 0 {
				break
			}
		}
		if first || attr != cur {
			f.Ops = append(f.Ops, PaintOp{Kind: OpStyle, Row: screenRow, Col: w.view.LeftMargin + col, Attr: attr})
			cur = attr
			if first && w.sgr != "" && g.SGR == "" && g.Attr.Style&markdown.StyleCode != 0 {
				f.Ops = append(f.Ops, PaintOp{Kind: OpSGR, Row: screenRow, Col: w.view.LeftMargin + col, Text: w.sgr})
			}
			first = false
		}
		if g.SGR != "" {
			w.sgr = g.SGR
			f.Ops = append(f.Ops, PaintOp{Kind: OpSGR, Row: screenRow, Col: w.view.LeftMargin + col, Text: g.SGR})
		}
		f.Ops = append(f.Ops, PaintOp{
			Kind:  OpGlyph,
			Row:   screenRow,
			Col:   w.view.LeftMargin + col,
			Attr:  attr,
			Text:  text,
			Width: width / scale,
			Scale: scale,
		})
		col += width
	}
}

// truncate cuts text to at most width cells at a grapheme boundary.
func truncate(text string, width int) (string, int) {
	used := 0
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		cw := textutil.ClusterWidth(cluster)
		if used+cw > width {
			return text[:len(text)-len(rest)-len(cluster)], used
		}
		used += cw
	}
	return text, used
}

// Render walks the document with the scroll offset adjusted so the cursor
// stays a margin away from the viewport edges. The offset is first taken
// from the cached row estimate, then corrected from the rendered cursor
// row, since revealing syntax around the cursor can change row counts.
func Render(t markdown.Text, c *Cache, v View) *Frame {
	rows := v.textRows()
	margin := 1
	if rows > 10 {
		margin = 3
	}
	if 2*margin >= rows {
		margin = (rows - 1) / 2
	}
	if !v.Plain && c != nil {
		v.Scroll = adjustScroll(v.Scroll, c.EstimateVRow(t, v.Cursor), rows, margin, c.TotalRows)
	}
	var f *Frame
	for pass := 0; pass < maxScrollPasses; pass++ {
		f = Walk(t, c, v)
		if !f.cursorFound {
			return f
		}
		scroll := adjustScroll(v.Scroll, f.CursorVRow, rows, margin, f.TotalRows)
		if scroll == v.Scroll {
			return f
		}
		v.Scroll = scroll
	}
	return f
}

func adjustScroll(scroll, cursor, rows, margin, total int) int {
	if cursor < scroll+margin {
		scroll = cursor - margin
	}
	if cursor >= scroll+rows-margin {
		scroll = cursor - rows + margin + 1
	}
	if limit := total - rows; scroll > limit {
		scroll = limit
	}
	if scroll < 0 {
		scroll = 0
	}
	return scroll
}
