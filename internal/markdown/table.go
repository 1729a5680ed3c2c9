package markdown

// TableMatch is a detected table and the offset after its last row.
type TableMatch struct {
	Table *Table
	End   int
}

// DetectTable matches a header row containing '|', followed by a delimiter
// row with the same number of cells, followed by any number of non-blank
// body rows containing '|'. Body rows with missing cells are padded with
// empty cells; extra cells are dropped.
func DetectTable(t Text, pos int) (TableMatch, bool) {
	headerEnd := LineEnd(t, pos)
	if !lineHasPipe(t, pos, headerEnd) {
		return TableMatch{}, false
	}
	delimStart := NextLine(t, pos)
	if delimStart >= t.Len() || delimStart == pos {
		return TableMatch{}, false
	}
	delimEnd := LineEnd(t, delimStart)
	header := splitRow(t, pos, headerEnd)
	delim := splitRow(t, delimStart, delimEnd)
	if len(header) == 0 || len(header) != len(delim) {
		return TableMatch{}, false
	}
	align, ok := parseAlignment(t, delim)
	if !ok {
		return TableMatch{}, false
	}

	tbl := &Table{
		Cols:  len(header),
		Align: align,
		Lines: []Span{{pos, headerEnd}, {delimStart, delimEnd}},
		Cells: [][]Cell{header},
	}
	end := NextLine(t, delimStart)
	for line := end; line < t.Len(); {
		lineEnd := LineEnd(t, line)
		if IsBlankLine(t, line) || !lineHasPipe(t, line, lineEnd) {
			break
		}
		cells := splitRow(t, line, lineEnd)
		tbl.Cells = append(tbl.Cells, normalizeRow(cells, tbl.Cols, lineEnd))
		tbl.Lines = append(tbl.Lines, Span{line, lineEnd})
		end = NextLine(t, line)
		line = end
	}
	tbl.Rows = len(tbl.Lines)
	return TableMatch{Table: tbl, End: end}, true
}

func lineHasPipe(t Text, start, end int) bool {
	for p := start; p < end; p++ {
		if t.ByteAt(p) == '|' {
			return true
		}
	}
	return false
}

func normalizeRow(cells []Cell, cols, lineEnd int) []Cell {
	if len(cells) > cols {
		return cells[:cols]
	}
	for len(cells) < cols {
		cells = append(cells, Cell{Start: lineEnd, End: lineEnd})
	}
	return cells
}

// splitRow splits a row on unescaped pipes outside code spans. Leading and
// trailing pipes are optional; each cell span is trimmed.
func splitRow(t Text, start, end int) []Cell {
	end = trimLineEnd(t, start, end)
	start = skipSpaces(t, start, end)
	if start < end && t.ByteAt(start) == '|' {
		start++
	}
	if end > start && t.ByteAt(end-1) == '|' && (end-2 < start || t.ByteAt(end-2) != '\\') {
		end--
	}
	var cells []Cell
	cellStart := start
	ticks := 0
	for p := start; p < end; p++ {
		switch t.ByteAt(p) {
		case '\\':
			p++
		case '`':
			n := 1
			for p+n < end && t.ByteAt(p+n) == '`' {
				n++
			}
			switch {
			case ticks == 0:
				ticks = n
			case ticks == n:
				ticks = 0
			}
			p += n - 1
		case '|':
			if ticks == 0 {
				cells = append(cells, trimCell(t, cellStart, p))
				cellStart = p + 1
			}
		}
	}
	cells = append(cells, trimCell(t, cellStart, end))
	return cells
}

func trimCell(t Text, start, end int) Cell {
	start = skipSpaces(t, start, end)
	end = trimLineEnd(t, start, end)
	return Cell{Start: start, End: end}
}

func parseAlignment(t Text, delim []Cell) ([]Alignment, bool) {
	align := make([]Alignment, len(delim))
	for i, c := range delim {
		if c.End <= c.Start {
			return nil, false
		}
		left := t.ByteAt(c.Start) == ':'
		right := t.ByteAt(c.End-1) == ':'
		dashes := 0
		for p := c.Start; p < c.End; p++ {
			switch t.ByteAt(p) {
			case '-':
				dashes++
			case ':':
				if p != c.Start && p != c.End-1 {
					return nil, false
				}
			default:
				return nil, false
			}
		}
		if dashes == 0 {
			return nil, false
		}
		switch {
		case left && right:
			align[i] = AlignCenter
		case right:
			align[i] = AlignRight
		case left:
			align[i] = AlignLeft
		}
	}
	return align, true
}
