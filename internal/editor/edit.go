package editor

import (
	"sort"
	"strconv"
	"strings"

	"github.com/kk-code-lab/mdwrite/internal/markdown"
)

// document returns the block tokenization of the current text, parsed once
// per mutation.
func (s *Session) document() *markdown.Document {
	if s.doc == nil {
		s.doc = markdown.Parse(s.buf)
	}
	return s.doc
}

// blockAt returns the block containing pos, or nil inside blank lines.
func (s *Session) blockAt(pos int) *markdown.Block {
	blocks := s.document().Blocks
	i := sort.Search(len(blocks), func(i int) bool { return blocks[i].End > pos })
	if i < len(blocks) && blocks[i].Start <= pos {
		return &blocks[i]
	}
	return nil
}

// Backspace deletes the selection or the grapheme before the cursor.
// Inside a styled span's delimiters both delimiters go at once, and at the
// start of a list item's text the list marker goes.
func (s *Session) Backspace() {
	if s.deleteSelection() {
		return
	}
	c := s.cursor
	if c == 0 {
		return
	}
	if b := s.blockAt(c - 1); b != nil {
		if s.unwrapDelimiters(b, c) || s.removeListMarker(b, c) {
			return
		}
	}
	prev := s.buf.GraphemePrev(c)
	s.buf.Delete(prev, c-prev)
	s.cursor = prev
	s.changed()
}

// unwrapDelimiters removes the delimiter pair around a styled span when c
// sits inside or right after one of its delimiters.
func (s *Session) unwrapDelimiters(b *markdown.Block, c int) bool {
	for i := range b.Runs {
		r := &b.Runs[i]
		d, ok := r.Data.(markdown.Delimiter)
		if !ok || c <= r.Start || c > r.End {
			continue
		}
		var open, close *markdown.InlineRun
		if d.Open {
			open, close = r, matchDelimiter(b.Runs, i, 1)
		} else {
			open, close = matchDelimiter(b.Runs, i, -1), r
		}
		if open == nil || close == nil {
			return false
		}
		openStart, openLen := open.Start, open.End-open.Start
		s.buf.Delete(close.Start, close.End-close.Start)
		s.buf.Delete(openStart, openLen)
		if d.Open {
			s.cursor = openStart
		} else {
			s.cursor = close.Start - openLen
		}
		s.changed()
		return true
	}
	return false
}

// matchDelimiter finds the partner of the delimiter run at i, searching in
// direction dir and skipping nested pairs of the same style.
func matchDelimiter(runs []markdown.InlineRun, i, dir int) *markdown.InlineRun {
	want := runs[i].Data.(markdown.Delimiter)
	depth := 0
	for j := i + dir; j >= 0 && j < len(runs); j += dir {
		d, ok := runs[j].Data.(markdown.Delimiter)
		if !ok || d.Style != want.Style {
			continue
		}
		if d.Open == want.Open {
			depth++
			continue
		}
		if depth == 0 {
			return &runs[j]
		}
		depth--
	}
	return nil
}

// removeListMarker turns a list item back into plain text when c sits at
// the start of its text.
func (s *Session) removeListMarker(b *markdown.Block, c int) bool {
	item, ok := b.Data.(markdown.ListItem)
	if !ok || c != item.ContentStart {
		return false
	}
	start := item.Marker.Start
	s.buf.Delete(start, c-start)
	s.cursor = start
	s.changed()
	return true
}

// Newline breaks the line at the cursor. On a list item or quoted line the
// new line repeats its marker; pressing it on an item or quote line
// without text removes the marker instead.
func (s *Session) Newline() {
	s.deleteSelection()
	lineStart := markdown.LineStart(s.buf, s.cursor)
	lineEnd := markdown.LineEnd(s.buf, s.cursor)
	if b := s.blockAt(lineStart); b != nil && b.Kind() == markdown.BlockCode {
		s.Insert("\n")
		return
	}

	if m, ok := markdown.DetectListItem(s.buf, lineStart); ok && s.cursor >= m.ContentStart {
		if s.blank(m.ContentStart, lineEnd) {
			s.clearLine(lineStart, lineEnd)
			return
		}
		s.Insert("\n" + continuePrefix(s.buf, m))
		return
	}
	if _, ok := markdown.DetectBlockquote(s.buf, lineStart); ok {
		prefixEnd := markdown.QuotePrefixEnd(s.buf, lineStart)
		if s.cursor >= prefixEnd {
			if s.blank(prefixEnd, lineEnd) {
				s.clearLine(lineStart, lineEnd)
				return
			}
			s.Insert("\n" + s.buf.Substr(lineStart, prefixEnd))
			return
		}
	}
	s.Insert("\n")
}

func (s *Session) blank(start, end int) bool {
	return strings.TrimSpace(s.buf.Substr(start, end)) == ""
}

func (s *Session) clearLine(start, end int) {
	s.buf.Delete(start, end-start)
	s.cursor = start
	s.changed()
}

// continuePrefix returns the marker text for the item after m.
func continuePrefix(t markdown.Text, m markdown.ListMatch) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", m.Indent))
	if m.Ordered {
		sb.WriteString(strconv.Itoa(m.Number + 1))
		sb.WriteByte(t.ByteAt(m.Marker.End - 1))
	} else {
		sb.WriteByte(t.ByteAt(m.Marker.Start))
	}
	sb.WriteByte(' ')
	if m.Task != markdown.TaskNone {
		sb.WriteString("[ ] ")
	}
	return sb.String()
}

// ToggleTask flips the checkbox of the task item under the cursor. It
// reports whether there was one.
func (s *Session) ToggleTask() bool {
	pos := s.cursor
	if pos == s.buf.Len() && pos > 0 {
		pos--
	}
	b := s.blockAt(pos)
	if b == nil {
		return false
	}
	item, ok := b.Data.(markdown.ListItem)
	if !ok || item.Task == markdown.TaskNone {
		return false
	}
	mark := "x"
	if item.Task == markdown.TaskChecked {
		mark = " "
	}
	at := item.Checkbox.Start + 1
	s.buf.Delete(at, 1)
	s.buf.InsertString(at, mark)
	s.changed()
	return true
}
