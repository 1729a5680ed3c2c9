// Package editor holds the editing session: the text store, cursor and
// selection, and the layout cache with its scroll offset.
package editor

import (
	"github.com/kk-code-lab/mdwrite/internal/gapbuf"
	"github.com/kk-code-lab/mdwrite/internal/layout"
	"github.com/kk-code-lab/mdwrite/internal/markdown"
	"github.com/kk-code-lab/mdwrite/internal/wrap"
)

// Options configure layout for a session.
type Options struct {
	// TextWidth caps the wrap width; zero uses the whole screen.
	TextWidth    int
	Wrap         wrap.Config
	ScaleHeaders bool
	Plain        bool

	Highlighter layout.Highlighter
	Math        layout.MathRenderer
	Images      layout.ImageResolver

	CellPixelWidth  int
	CellPixelHeight int
}

// DefaultOptions returns the options used when no configuration exists.
func DefaultOptions() Options {
	return Options{
		TextWidth:       80,
		Wrap:            wrap.DefaultConfig(),
		ScaleHeaders:    true,
		CellPixelWidth:  8,
		CellPixelHeight: 16,
	}
}

// Session is one open document.
type Session struct {
	buf  *gapbuf.Buffer
	opts Options

	cursor    int
	anchor    int
	hasAnchor bool

	// preferred column for vertical motion, -1 when unset
	goalCol int

	doc    *markdown.Document
	cache  *layout.Cache
	stale  bool
	scroll int

	// frame is the last rendered frame; frameCursor the cursor it was
	// rendered for.
	frame       *layout.Frame
	frameCursor int
	cursorVRow  int
	leftMargin  int
	width       int
	height      int

	modified bool
	version  uint64
}

// New opens a session on text with the cursor at the start.
func New(text []byte, opts Options) *Session {
	return &Session{
		buf:     gapbuf.New(text),
		opts:    opts,
		goalCol: -1,
		stale:   true,
	}
}

// Text returns the document as read-only text for the layout packages.
func (s *Session) Text() markdown.Text { return s.buf }

// String returns the whole document.
func (s *Session) String() string { return s.buf.String() }

func (s *Session) Len() int { return s.buf.Len() }

func (s *Session) Cursor() int { return s.cursor }

// Modified reports whether the text changed since it was loaded or saved.
func (s *Session) Modified() bool { return s.modified }

// Version increases with every change to the text.
func (s *Session) Version() uint64 { return s.version }

// MarkSaved clears the modified flag.
func (s *Session) MarkSaved() { s.modified = false }

// Options returns the layout options.
func (s *Session) Options() Options { return s.opts }

// SetOptions replaces the layout options and drops the cache.
func (s *Session) SetOptions(opts Options) {
	s.opts = opts
	s.stale = true
}

// SetText replaces the whole document, keeping the cursor as close to its
// old offset as the new text allows.
func (s *Session) SetText(text []byte) {
	s.buf.Reset(text)
	s.hasAnchor = false
	s.setCursor(s.cursor)
	s.changed()
	s.modified = false
}

// SetCursor moves the cursor to pos, snapped to a code point boundary.
// extend keeps or starts a selection anchored at the old cursor.
func (s *Session) SetCursor(pos int, extend bool) {
	s.beginMove(extend)
	s.setCursor(pos)
	s.goalCol = -1
}

func (s *Session) setCursor(pos int) {
	s.cursor = s.buf.Snap(pos)
}

func (s *Session) beginMove(extend bool) {
	switch {
	case extend && !s.hasAnchor:
		s.anchor = s.cursor
		s.hasAnchor = true
	case !extend:
		s.hasAnchor = false
	}
}

// Selection returns the ordered selection bounds. ok is false when nothing
// is selected.
func (s *Session) Selection() (start, end int, ok bool) {
	if !s.hasAnchor || s.anchor == s.cursor {
		return s.cursor, s.cursor, false
	}
	if s.anchor < s.cursor {
		return s.anchor, s.cursor, true
	}
	return s.cursor, s.anchor, true
}

// SelectedText returns the selected bytes as a string.
func (s *Session) SelectedText() string {
	start, end, ok := s.Selection()
	if !ok {
		return ""
	}
	return s.buf.Substr(start, end)
}

// SelectAll selects the whole document.
func (s *Session) SelectAll() {
	s.anchor = 0
	s.hasAnchor = true
	s.cursor = s.buf.Len()
	s.goalCol = -1
}

// ClearSelection drops the selection anchor.
func (s *Session) ClearSelection() { s.hasAnchor = false }

// changed records a text mutation.
func (s *Session) changed() {
	s.doc = nil
	s.stale = true
	s.modified = true
	s.goalCol = -1
	s.frame = nil
	s.version++
}

// deleteSelection removes the selected text and reports whether there was
// any.
func (s *Session) deleteSelection() bool {
	start, end, ok := s.Selection()
	s.hasAnchor = false
	if !ok {
		return false
	}
	s.buf.Delete(start, end-start)
	s.cursor = start
	s.changed()
	return true
}

// Insert replaces the selection, if any, with text.
func (s *Session) Insert(text string) {
	s.deleteSelection()
	if text == "" {
		return
	}
	s.buf.InsertString(s.cursor, text)
	s.setCursor(s.cursor + len(text))
	s.changed()
}

// DeleteSelection removes the selected text.
func (s *Session) DeleteSelection() bool { return s.deleteSelection() }

// DeleteForward removes the selection or the grapheme after the cursor.
func (s *Session) DeleteForward() {
	if s.deleteSelection() {
		return
	}
	next := s.buf.GraphemeNext(s.cursor)
	if next <= s.cursor {
		return
	}
	s.buf.Delete(s.cursor, next-s.cursor)
	s.changed()
}

// Left moves one grapheme back. Without extend an active selection
// collapses to its start instead.
func (s *Session) Left(extend bool) {
	if start, _, ok := s.Selection(); ok && !extend {
		s.SetCursor(start, false)
		return
	}
	s.SetCursor(s.buf.GraphemePrev(s.cursor), extend)
}

// Right moves one grapheme forward. Without extend an active selection
// collapses to its end instead.
func (s *Session) Right(extend bool) {
	if _, end, ok := s.Selection(); ok && !extend {
		s.SetCursor(end, false)
		return
	}
	s.SetCursor(s.buf.GraphemeNext(s.cursor), extend)
}
