package layout

import (
	"github.com/kk-code-lab/mdwrite/internal/markdown"
)

// CalcImageRows returns the virtual rows an image block occupies. Explicit
// heights win; otherwise the pixel size reported by the resolver is scaled
// to the display width. The result is at least 1 and at most the viewport
// height.
func CalcImageRows(t markdown.Text, img markdown.Image, env *Env) int {
	rows := imageRows(t, img, env)
	if env.ViewportHeight > 0 && rows > env.ViewportHeight {
		rows = env.ViewportHeight
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

func imageRows(t markdown.Text, img markdown.Image, env *Env) int {
	switch {
	case img.Height > 0:
		return img.Height
	case img.Height < 0:
		return env.ViewportHeight * -img.Height / 100
	}
	if env.Images == nil {
		return 1
	}
	raw := string(markdown.Slice(t, img.Path.Start, img.Path.End))
	_, pw, ph, ok := env.Images.Resolve(raw)
	if !ok || pw <= 0 || ph <= 0 {
		return 1
	}
	cw, ch := env.CellPixelWidth, env.CellPixelHeight
	if cw <= 0 || ch <= 0 {
		cw, ch = 8, 16
	}
	cols := imageCols(img, pw, cw, env.width())
	// pixels shown per row, keeping the aspect ratio
	return (cols*cw*ph + pw*ch - 1) / (pw * ch)
}

func imageCols(img markdown.Image, pixelWidth, cellWidth, width int) int {
	var cols int
	switch {
	case img.Width > 0:
		cols = img.Width
	case img.Width < 0:
		cols = width * -img.Width / 100
	default:
		cols = (pixelWidth + cellWidth - 1) / cellWidth
	}
	if cols > width {
		cols = width
	}
	if cols < 1 {
		cols = 1
	}
	return cols
}

// imageRows lays out the placeholder of an image block: a caption row
// standing for the whole line, then empty rows reserved for the picture.
func (l *blockLayout) imageRows(b *markdown.Block, img markdown.Image) []Row {
	attr := Attr{Block: markdown.BlockImage, Style: markdown.StyleLink}
	caption := "▣ " + string(markdown.Slice(l.t, img.Alt.Start, img.Alt.End))
	if img.Alt.Empty() {
		caption = "▣ " + string(markdown.Slice(l.t, img.Path.Start, img.Path.End))
	}
	g := atomGlyph(caption, b.Start, b.End, attr)
	if w := l.env.width(); g.Width > w {
		g.Text, g.Width = truncate(g.Text, w)
	}
	n := CalcImageRows(l.t, img, l.env)
	rows := make([]Row, n)
	rows[0] = Row{Glyphs: []Glyph{g}, Start: b.Start, End: b.End, Scale: 1, Hard: endsLine(l.t, b.End)}
	for i := 1; i < n; i++ {
		rows[i] = Row{Start: b.End, End: b.End, Scale: 1}
	}
	return rows
}
