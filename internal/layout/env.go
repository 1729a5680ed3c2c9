// Package layout turns parsed blocks into virtual rows. Cache numbers the
// rows of a whole document; Walk lays out the rows around the viewport and
// records paint operations plus the mapping between positions and cells.
package layout

import (
	"github.com/kk-code-lab/mdwrite/internal/markdown"
	"github.com/kk-code-lab/mdwrite/internal/wrap"
)

// Highlighter returns code decorated with ANSI SGR sequences. Apart from
// the escape sequences the output must repeat the input byte for byte;
// anything else is discarded and the code is drawn plain.
type Highlighter interface {
	Highlight(code, lang string) (string, error)
}

// MathRenderer turns LaTeX into a grid of glyph cells.
type MathRenderer interface {
	Render(latex string, block bool) (*markdown.Sketch, error)
}

// ImageResolver reports the pixel size of an image referenced from the
// document.
type ImageResolver interface {
	Resolve(raw string) (path string, width, height int, ok bool)
}

// Env holds everything row counts depend on besides the text.
type Env struct {
	// Width is the wrap width of document text in cells.
	Width          int
	ViewportHeight int
	ScaleHeaders   bool
	Wrap           wrap.Config

	Highlighter Highlighter
	Math        MathRenderer
	Images      ImageResolver

	// Cell size in pixels, used to convert image dimensions to rows.
	CellPixelWidth  int
	CellPixelHeight int
}

// DefaultEnv returns an environment without collaborators.
func DefaultEnv(width, height int) Env {
	return Env{
		Width:           width,
		ViewportHeight:  height,
		ScaleHeaders:    true,
		Wrap:            wrap.DefaultConfig(),
		CellPixelWidth:  8,
		CellPixelHeight: 16,
	}
}

func (e *Env) width() int {
	if e.Width < 1 {
		return 1
	}
	return e.Width
}

// headerScale is the display scale of a header level.
func (e *Env) headerScale(level int) int {
	if e.ScaleHeaders && level == 1 {
		return 2
	}
	return 1
}

// View describes one frame request.
type View struct {
	Cursor int
	// [SelStart, SelEnd) is highlighted when non-empty.
	SelStart int
	SelEnd   int
	// Scroll is the first virtual row shown.
	Scroll int

	// Width and Height bound the drawable area; LeftMargin and TopMargin
	// place the text inside it.
	Width      int
	Height     int
	LeftMargin int
	TopMargin  int

	// Plain draws the raw text without markdown structure.
	Plain bool
	// TextWidth is the wrap width used in plain mode.
	TextWidth int
}

func (v *View) selected(start, end int) bool {
	return v.SelEnd > v.SelStart && start < v.SelEnd && end > v.SelStart
}

func (v *View) textRows() int {
	h := v.Height - v.TopMargin
	if h < 1 {
		return 1
	}
	return h
}
