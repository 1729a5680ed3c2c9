package editor

import (
	"unicode"
	"unicode/utf8"

	"github.com/kk-code-lab/mdwrite/internal/layout"
	"github.com/kk-code-lab/mdwrite/internal/markdown"
	"github.com/rivo/uniseg"
)

// textWidth returns the wrap width for a screen of the given width,
// leaving one column of padding on each side.
func (s *Session) textWidth(width int) int {
	tw := width - 2
	if s.opts.TextWidth > 0 && s.opts.TextWidth < tw {
		tw = s.opts.TextWidth
	}
	if tw < 1 {
		tw = 1
	}
	return tw
}

func (s *Session) env(width, height int) layout.Env {
	return layout.Env{
		Width:           width,
		ViewportHeight:  height,
		ScaleHeaders:    s.opts.ScaleHeaders,
		Wrap:            s.opts.Wrap,
		Highlighter:     s.opts.Highlighter,
		Math:            s.opts.Math,
		Images:          s.opts.Images,
		CellPixelWidth:  s.opts.CellPixelWidth,
		CellPixelHeight: s.opts.CellPixelHeight,
	}
}

// Frame lays out the document for a screen of width x height cells,
// rebuilding the layout cache when the text or the size changed, and
// keeps the scroll offset the frame settled on.
func (s *Session) Frame(width, height int) *layout.Frame {
	tw := s.textWidth(width)
	s.leftMargin = (width - tw) / 2
	if s.leftMargin < 0 {
		s.leftMargin = 0
	}
	if !s.opts.Plain && (s.stale || !s.cache.Valid(s.buf.Len(), tw, height)) {
		s.cache = layout.Build(s.buf, s.env(tw, height))
		s.stale = false
	}
	start, end, _ := s.Selection()
	v := layout.View{
		Cursor:     s.cursor,
		SelStart:   start,
		SelEnd:     end,
		Scroll:     s.scroll,
		Width:      s.leftMargin + tw,
		Height:     height,
		LeftMargin: s.leftMargin,
		Plain:      s.opts.Plain,
		TextWidth:  tw,
	}
	f := layout.Render(s.buf, s.cache, v)
	s.scroll = f.Scroll
	s.frame = f
	s.frameCursor = s.cursor
	s.cursorVRow = f.CursorVRow
	s.width = width
	s.height = height
	return f
}

// Scroll returns the first virtual row of the last frame.
func (s *Session) Scroll() int { return s.scroll }

// LeftMargin returns the screen column text starts at in the last frame.
func (s *Session) LeftMargin() int { return s.leftMargin }

// currentFrame returns the last frame and the cursor's row in it, or nil
// when the cursor moved other than vertically since it was drawn.
func (s *Session) currentFrame() (*layout.Frame, int) {
	if s.frame == nil || s.frameCursor != s.cursor {
		return nil, 0
	}
	return s.frame, s.cursorVRow
}

// Up moves to the previous visual row, keeping the column the vertical
// motion started from.
func (s *Session) Up(extend bool) { s.vertical(-1, extend) }

// Down moves to the next visual row.
func (s *Session) Down(extend bool) { s.vertical(1, extend) }

// PageUp moves up by one screen of rows.
func (s *Session) PageUp(extend bool) {
	for i := 0; i < s.pageRows(); i++ {
		s.vertical(-1, extend)
	}
}

// PageDown moves down by one screen of rows.
func (s *Session) PageDown(extend bool) {
	for i := 0; i < s.pageRows(); i++ {
		s.vertical(1, extend)
	}
}

func (s *Session) pageRows() int {
	if s.height > 2 {
		return s.height - 1
	}
	return 1
}

func (s *Session) vertical(dir int, extend bool) {
	f, vrow := s.currentFrame()
	if f == nil {
		s.verticalByLine(dir, extend)
		return
	}
	goal := s.goalCol
	if goal < 0 {
		goal = f.CursorCol - s.leftMargin
	}
	r, ok := f.Step(vrow, dir)
	if !ok && s.width > 0 {
		// Walk again around the cursor to reach rows past the last frame.
		f = s.Frame(s.width, s.height)
		r, ok = f.Step(f.CursorVRow, dir)
	}
	var pos int
	switch {
	case ok:
		pos = r.PosAt(goal)
	case dir < 0:
		pos = 0
	default:
		pos = s.buf.Len()
	}
	s.SetCursor(pos, extend)
	s.goalCol = goal
	if ok {
		s.frameCursor = s.cursor
		s.cursorVRow = r.VRow
	}
}

// verticalByLine moves by source lines, used before anything was drawn.
func (s *Session) verticalByLine(dir int, extend bool) {
	lineStart := markdown.LineStart(s.buf, s.cursor)
	goal := s.goalCol
	if goal < 0 {
		goal = s.cursor - lineStart
	}
	var target int
	if dir < 0 {
		if lineStart == 0 {
			s.SetCursor(0, extend)
			return
		}
		target = markdown.LineStart(s.buf, lineStart-1)
	} else {
		next := markdown.NextLine(s.buf, s.cursor)
		if next == markdown.LineEnd(s.buf, s.cursor) {
			s.SetCursor(s.buf.Len(), extend)
			return
		}
		target = next
	}
	pos := target + goal
	if end := markdown.LineEnd(s.buf, target); pos > end {
		pos = end
	}
	s.SetCursor(pos, extend)
	s.goalCol = goal
}

// Home moves to the start of the visual row.
func (s *Session) Home(extend bool) {
	if f, vrow := s.currentFrame(); f != nil {
		if r, ok := f.Row(vrow); ok {
			s.SetCursor(r.Start, extend)
			return
		}
	}
	s.SetCursor(markdown.LineStart(s.buf, s.cursor), extend)
}

// End moves to the end of the visual row.
func (s *Session) End(extend bool) {
	if f, vrow := s.currentFrame(); f != nil {
		if r, ok := f.Row(vrow); ok {
			s.SetCursor(r.EndPos, extend)
			return
		}
	}
	s.SetCursor(markdown.LineEnd(s.buf, s.cursor), extend)
}

// Click places the cursor at a screen cell of the last frame.
func (s *Session) Click(row, col int, extend bool) bool {
	if s.frame == nil {
		return false
	}
	pos, ok := s.frame.ScreenPosAt(row, col, 0, s.leftMargin)
	if !ok {
		return false
	}
	s.SetCursor(pos, extend)
	return true
}

// WordCount counts the words of the document.
func (s *Session) WordCount() int {
	return CountWords(s.buf.String())
}

// CountWords counts Unicode words that contain a letter or a digit.
func CountWords(text string) int {
	n := 0
	state := -1
	var word string
	for len(text) > 0 {
		word, text, state = uniseg.FirstWordInString(text, state)
		if isWord(word) {
			n++
		}
	}
	return n
}

func isWord(w string) bool {
	for len(w) > 0 {
		r, size := utf8.DecodeRuneInString(w)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
		w = w[size:]
	}
	return false
}

// Position returns the 1-based line and grapheme column of the cursor.
func (s *Session) Position() (line, col int) {
	line = 1
	for i := 0; i < s.cursor; i++ {
		if s.buf.ByteAt(i) == '\n' {
			line++
		}
	}
	col = 1
	for p := markdown.LineStart(s.buf, s.cursor); p < s.cursor; p = s.buf.GraphemeNext(p) {
		col++
	}
	return line, col
}
