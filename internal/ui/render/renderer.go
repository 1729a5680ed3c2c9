package render

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdwrite/internal/layout"
	"github.com/kk-code-lab/mdwrite/internal/markdown"
	"github.com/kk-code-lab/mdwrite/internal/textutil"
	"github.com/rivo/uniseg"
)

// Renderer replays layout frames onto a terminal screen.
type Renderer struct {
	screen tcell.Screen
	theme  ColorTheme

	widthMu sync.Mutex
	widths  map[string]int // cluster widths for chrome text
}

// Status is the content of the bottom line.
type Status struct {
	Name     string
	Modified bool
	Plain    bool
	Words    int
	Line     int
	Col      int
	Message  string
	Help     bool
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen, theme ColorTheme) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  theme,
	}
}

// SetTheme replaces the colors used by subsequent draws.
func (r *Renderer) SetTheme(theme ColorTheme) {
	r.theme = theme
}

// Draw paints frame over the whole screen except the last row, which holds
// the status line.
func (r *Renderer) Draw(frame *layout.Frame, status Status) {
	w, h := r.screen.Size()
	base := r.baseStyle()
	r.screen.Fill(' ', base)

	if status.Help {
		r.screen.HideCursor()
		r.drawHelpOverlay(w, h)
		r.screen.Show()
		return
	}

	if frame != nil {
		r.replay(frame.Ops, h-1)
		if frame.CursorVisible && frame.CursorRow < h-1 {
			r.screen.ShowCursor(frame.CursorCol, frame.CursorRow)
		} else {
			r.screen.HideCursor()
		}
	}
	r.drawStatusLine(status, w, h)
	r.screen.Show()
}

// replay executes paint ops. Rows at or past maxRow are not drawn.
func (r *Renderer) replay(ops []layout.PaintOp, maxRow int) {
	var attr layout.Attr
	style := r.baseStyle()
	sgr := ""
	for i := range ops {
		op := &ops[i]
		switch op.Kind {
		case layout.OpMove:
			sgr = ""
		case layout.OpStyle:
			attr = op.Attr
			style = r.styleFor(attr)
		case layout.OpSGR:
			sgr = op.Text
		case layout.OpGlyph:
			if op.Row < 0 || op.Row >= maxRow {
				continue
			}
			st := style
			if op.Attr != attr {
				st = r.styleFor(op.Attr)
			}
			if sgr != "" && op.Attr.Style&markdown.StyleCode != 0 {
				st = applySGR(st, sgr)
				if op.Attr.Selected {
					st = st.Background(r.theme.SelectionBg)
				}
			}
			r.drawGlyph(op, st, maxRow)
		}
	}
}

// drawGlyph draws each grapheme cluster of the glyph text. A scaled glyph
// spreads every cluster over scale cells per unit of width and reserves
// the rows below it.
func (r *Renderer) drawGlyph(op *layout.PaintOp, style tcell.Style, maxRow int) {
	scale := op.Scale
	if scale < 1 {
		scale = 1
	}
	x := op.Col
	rest := op.Text
	state := -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		cw := textutil.ClusterWidth(cluster)
		if cw == 0 {
			continue
		}
		if cluster = textutil.SanitizeCluster(cluster); cluster == "" {
			cluster = " "
		}
		runes := []rune(cluster)
		r.screen.SetContent(x, op.Row, runes[0], runes[1:], style)
		for dx := cw; dx < cw*scale; dx++ {
			r.screen.SetContent(x+dx, op.Row, ' ', nil, style)
		}
		for dy := 1; dy < scale && op.Row+dy < maxRow; dy++ {
			for dx := 0; dx < cw*scale; dx++ {
				r.screen.SetContent(x+dx, op.Row+dy, ' ', nil, style)
			}
		}
		x += cw * scale
	}
}
