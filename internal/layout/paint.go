package layout

import (
	"sort"

	"github.com/kk-code-lab/mdwrite/internal/markdown"
)

// Attr is the drawing style of a glyph.
type Attr struct {
	Style markdown.Style
	Block markdown.BlockKind
	// Level is the header level or the quote depth.
	Level    int
	Selected bool
}

type OpKind uint8

const (
	OpMove OpKind = iota
	OpStyle
	OpGlyph
	// OpSGR carries an ANSI SGR sequence from the code highlighter.
	OpSGR
)

// PaintOp is one instruction for the rendering backend. Coordinates are
// screen cells, already clipped to the view.
type PaintOp struct {
	Kind  OpKind
	Row   int
	Col   int
	Attr  Attr
	Text  string
	Width int
	Scale int
}

type colPos struct {
	col   int
	start int
	end   int
}

// RowMap maps the cells of one virtual row back to byte positions.
type RowMap struct {
	VRow int
	// Part is the index of this virtual row inside a scaled row.
	Part  int
	Start int
	// EndPos is where the cursor lands past the last glyph.
	EndPos int
	// Width is the column after the last glyph.
	Width int
	cols  []colPos
}

func (r *RowMap) add(col, start, end int) {
	r.cols = append(r.cols, colPos{col: col, start: start, end: end})
}

// PosAt returns the position drawn at col, or EndPos past the last glyph.
func (r *RowMap) PosAt(col int) int {
	if col >= r.Width || len(r.cols) == 0 {
		return r.EndPos
	}
	i := sort.Search(len(r.cols), func(i int) bool { return r.cols[i].col > col }) - 1
	if i < 0 {
		i = 0
	}
	return r.cols[i].start
}

// ColAt returns the column pos is drawn at, or Width when pos lies past
// every glyph of the row.
func (r *RowMap) ColAt(pos int) int {
	for _, cp := range r.cols {
		if pos >= cp.start && pos < cp.end {
			return cp.col
		}
	}
	return r.Width
}

// Frame is the result of a walk.
type Frame struct {
	Ops []PaintOp
	// Cursor cell on screen and its virtual row.
	CursorRow  int
	CursorCol  int
	CursorVRow int
	// CursorVisible is false when the cursor row lies outside the view.
	CursorVisible bool
	Scroll        int
	// TotalRows is the number of virtual rows the walk knows about.
	TotalRows int
	Rows      []RowMap

	cursorFound bool
}

// Row returns the row map of vrow if it was walked.
func (f *Frame) Row(vrow int) (*RowMap, bool) {
	lo := sort.Search(len(f.Rows), func(i int) bool { return f.Rows[i].VRow >= vrow })
	if lo < len(f.Rows) && f.Rows[lo].VRow == vrow {
		return &f.Rows[lo], true
	}
	return nil, false
}

// Step returns the row map dir rows away from vrow, skipping the extra
// virtual rows of scaled rows.
func (f *Frame) Step(vrow, dir int) (*RowMap, bool) {
	if dir == 0 {
		return f.Row(vrow)
	}
	for v := vrow + dir; ; v += dir {
		r, ok := f.Row(v)
		if !ok {
			return nil, false
		}
		if r.Part == 0 {
			return r, true
		}
	}
}

// PosAt maps a virtual row and column back to a byte position.
func (f *Frame) PosAt(vrow, col int) (int, bool) {
	r, ok := f.Row(vrow)
	if !ok {
		return 0, false
	}
	return r.PosAt(col), true
}

// ScreenPosAt maps a screen cell back to a byte position.
func (f *Frame) ScreenPosAt(row, col, topMargin, leftMargin int) (int, bool) {
	return f.PosAt(f.Scroll+row-topMargin, col-leftMargin)
}
