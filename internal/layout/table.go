package layout

import (
	"strings"

	"github.com/kk-code-lab/mdwrite/internal/markdown"
	"github.com/kk-code-lab/mdwrite/internal/wrap"
)

const minColWidth = 3

type tableBorders struct {
	topLeft, topSep, topRight          string
	midLeft, midSep, midRight          string
	bottomLeft, bottomSep, bottomRight string
}

func defaultTableBorders() tableBorders {
	return tableBorders{
		topLeft:     "┌",
		topSep:      "┬",
		topRight:    "┐",
		midLeft:     "├",
		midSep:      "┼",
		midRight:    "┤",
		bottomLeft:  "└",
		bottomSep:   "┴",
		bottomRight: "┘",
	}
}

// cellLines holds the wrapped lines of one cell as glyph slices.
type cellLines [][]Glyph

func (c cellLines) width(i int) int {
	if i >= len(c) {
		return 0
	}
	return glyphsWidth(c[i])
}

func (l *blockLayout) tableRows(b *markdown.Block, tbl *markdown.Table) []Row {
	if tbl.Cols == 0 || len(tbl.Cells) == 0 {
		rg := newRunGlyphs(l.t, nil, Attr{Block: markdown.BlockTable}, false, l.env)
		gs := rg.emit(nil, b.Start, b.End, 0)
		return l.wrapLines(splitLines(gs, b.Start, nil, nil, false), 1, l.env.Wrap)
	}

	glyphs := make([][][]Glyph, len(tbl.Cells))
	for r, row := range tbl.Cells {
		base := Attr{Block: markdown.BlockTable}
		if r == 0 {
			base.Style = markdown.StyleBold
		}
		glyphs[r] = make([][]Glyph, tbl.Cols)
		for c := 0; c < tbl.Cols && c < len(row); c++ {
			rg := newRunGlyphs(l.t, row[c].Runs, base, false, l.env)
			glyphs[r][c] = rg.emit(nil, row[c].Start, row[c].End, 0)
		}
	}

	widths := computeColumnWidths(glyphs, tbl.Cols)
	widths = clampColumnWidths(widths, l.env.width())

	cfg := l.env.Wrap
	wrapped := make([][]cellLines, len(glyphs))
	for r := range glyphs {
		wrapped[r] = make([]cellLines, tbl.Cols)
		for c := range glyphs[r] {
			wrapped[r][c] = wrapCell(glyphs[r][c], widths[c], cfg)
		}
	}

	borders := defaultTableBorders()
	borderAttr := Attr{Block: markdown.BlockTable, Style: markdown.StyleSyntax}
	var rows []Row
	rows = append(rows, borderRow(widths, borders.topLeft, borders.topSep, borders.topRight, borderAttr, b.Start))
	for r := range wrapped {
		lineSpan := tableLine(tbl, r)
		height := 1
		for _, cell := range wrapped[r] {
			if len(cell) > height {
				height = len(cell)
			}
		}
		for i := 0; i < height; i++ {
			row := renderTableRow(wrapped[r], i, widths, tbl.Align, borderAttr)
			row.Start, row.End = sourceSpan(row.Glyphs, lineSpan.Start)
			if i == height-1 {
				end := markdown.NextLine(l.t, lineSpan.Start)
				if end > b.End {
					end = b.End
				}
				if row.End < end {
					row.Glyphs = append(row.Glyphs, hiddenGlyph(max(row.End, lineSpan.Start), end, borderAttr))
					row.End = end
					row.Hard = true
				}
			}
			rows = append(rows, row)
		}
		if r == 0 {
			sep := borderRow(widths, borders.midLeft, borders.midSep, borders.midRight, borderAttr, -1)
			if len(tbl.Lines) > 1 {
				delim := tbl.Lines[1]
				end := markdown.NextLine(l.t, delim.Start)
				if end > b.End {
					end = b.End
				}
				sep.Glyphs = append([]Glyph{hiddenGlyph(delim.Start, end, borderAttr)}, sep.Glyphs...)
				sep.Start, sep.End, sep.Hard = delim.Start, end, true
			}
			rows = append(rows, sep)
		}
	}
	rows = append(rows, borderRow(widths, borders.bottomLeft, borders.bottomSep, borders.bottomRight, borderAttr, b.End))
	return rows
}

// tableLine returns the source line of data row r; the delimiter line is
// skipped.
func tableLine(tbl *markdown.Table, r int) markdown.Span {
	i := r
	if r > 0 {
		i = r + 1
	}
	if i < len(tbl.Lines) {
		return tbl.Lines[i]
	}
	return tbl.Lines[len(tbl.Lines)-1]
}

// borderRow draws a grid line. pos is the position the row stands for, or
// -1 to leave it unset.
func borderRow(widths []int, left, sep, right string, attr Attr, pos int) Row {
	cols := make([]string, len(widths))
	for i, w := range widths {
		cols[i] = strings.Repeat("─", w+2)
	}
	row := Row{Scale: 1, Glyphs: []Glyph{decoration(left+strings.Join(cols, sep)+right, attr)}}
	if pos >= 0 {
		row.Start, row.End = pos, pos
	}
	return row
}

func computeColumnWidths(cells [][][]Glyph, cols int) []int {
	widths := make([]int, cols)
	for _, row := range cells {
		for i := range widths {
			if i < len(row) {
				if w := glyphsWidth(row[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	for i := range widths {
		if widths[i] < 1 {
			widths[i] = 1
		}
	}
	return widths
}

func clampColumnWidths(widths []int, maxWidth int) []int {
	if maxWidth <= 0 || len(widths) == 0 {
		return widths
	}
	total := tableWidth(widths)
	for total > maxWidth {
		idx := widestColumn(widths, minColWidth)
		if idx == -1 {
			break
		}
		widths[idx]--
		total--
	}
	return widths
}

func widestColumn(widths []int, minWidth int) int {
	maxIdx := -1
	maxVal := minWidth
	for i, w := range widths {
		if w > maxVal {
			maxVal = w
			maxIdx = i
		}
	}
	return maxIdx
}

func tableWidth(widths []int) int {
	if len(widths) == 0 {
		return 0
	}
	total := 0
	for _, w := range widths {
		total += w
	}
	// two spaces and a border per column, one closing border
	return total + len(widths)*3 + 1
}

// wrapCell breaks a cell's glyphs into lines with the cell variant of the
// wrapper, which drops the spaces a continuation line would start with.
func wrapCell(gs []Glyph, width int, cfg wrap.Config) cellLines {
	src := make(wrap.Slice, len(gs))
	for i := range gs {
		src[i] = wrap.Cluster{Width: gs[i].Width, Class: gs[i].Class}
	}
	var lines cellLines
	pos := 0
	for pos < len(gs) {
		line, next := wrap.FindCellLineEnd(src, pos, len(gs), width, cfg)
		out := append([]Glyph(nil), gs[line.Start:line.End]...)
		if line.Hyphen && len(out) > 0 {
			out = append(out, decoration("-", out[len(out)-1].Attr))
		}
		trimTrailingSpaces(out, line.Width)
		lines = append(lines, out)
		if next <= pos {
			break
		}
		pos = next
	}
	if len(lines) == 0 {
		lines = cellLines{nil}
	}
	return lines
}

// trimTrailingSpaces zeroes the width of hung spaces so the line occupies
// exactly width cells. Zero-width glyphs after the spaces are skipped.
func trimTrailingSpaces(gs []Glyph, width int) {
	over := glyphsWidth(gs) - width
	for i := len(gs) - 1; i >= 0 && over > 0; i-- {
		if gs[i].Width == 0 {
			continue
		}
		if gs[i].Class != wrap.ClassSpace && gs[i].Class != wrap.ClassTab {
			break
		}
		over -= gs[i].Width
		gs[i].Width = 0
		gs[i].Text = ""
	}
}

func renderTableRow(cells []cellLines, lineIdx int, widths []int, align []markdown.Alignment, border Attr) Row {
	row := Row{Scale: 1}
	row.Glyphs = append(row.Glyphs, decoration("│ ", border))
	for i, cell := range cells {
		var line []Glyph
		if lineIdx < len(cell) {
			line = cell[lineIdx]
		}
		row.Glyphs = alignCell(row.Glyphs, line, cell.width(lineIdx), widths[i], alignAt(i, align))
		if i == len(cells)-1 {
			row.Glyphs = append(row.Glyphs, decoration(" │", border))
		} else {
			row.Glyphs = append(row.Glyphs, decoration(" │ ", border))
		}
	}
	return row
}

func alignCell(out, line []Glyph, lineWidth, width int, alignment markdown.Alignment) []Glyph {
	space := width - lineWidth
	if space < 0 {
		space = 0
	}
	left, right := 0, space
	switch alignment {
	case markdown.AlignCenter:
		left = space / 2
		right = space - left
	case markdown.AlignRight:
		left = space
		right = 0
	}
	pad := Attr{Block: markdown.BlockTable}
	if left > 0 {
		out = append(out, decoration(strings.Repeat(" ", left), pad))
	}
	out = append(out, line...)
	if right > 0 {
		out = append(out, decoration(strings.Repeat(" ", right), pad))
	}
	return out
}

func alignAt(idx int, align []markdown.Alignment) markdown.Alignment {
	if idx < len(align) {
		return align[idx]
	}
	return markdown.AlignDefault
}
