package markdown

// Document is the block tokenization of a whole text. Blocks and the blank
// line runs between them tile [0, len).
type Document struct {
	Blocks []Block

	// TrailingBlankLines counts the blank lines after the last block,
	// including the empty line that follows a final newline. An empty
	// document has one.
	TrailingBlankLines int
	TrailingBlankStart int
}

// Parse tokenizes t into blocks with their inline runs.
func Parse(t Text) *Document {
	doc := &Document{}
	n := t.Len()
	pos := 0
	blanks, blankStart := 0, 0
	for pos < n {
		if IsBlankLine(t, pos) {
			if blanks == 0 {
				blankStart = pos
			}
			blanks++
			pos = NextLine(t, pos)
			continue
		}
		block := parseBlock(t, pos)
		if block.End <= pos {
			block.End = NextLine(t, pos)
		}
		block.LeadingBlankLines = blanks
		block.BlankStart = pos
		if blanks > 0 {
			block.BlankStart = blankStart
		}
		doc.Blocks = append(doc.Blocks, block)
		pos = block.End
		blanks = 0
	}
	doc.TrailingBlankLines = blanks
	doc.TrailingBlankStart = n
	if blanks > 0 {
		doc.TrailingBlankStart = blankStart
	}
	if n == 0 || t.ByteAt(n-1) == '\n' {
		doc.TrailingBlankLines++
	}
	return doc
}

// parseBlock detects the block starting at the non-blank line pos, trying
// detectors in priority order.
func parseBlock(t Text, pos int) Block {
	if end, ok := DetectThematicBreak(t, pos); ok {
		return Block{Start: pos, End: end, Data: ThematicBreak{}}
	}
	if b, ok := parseSetext(t, pos); ok {
		return b
	}
	if m, ok := DetectHeader(t, pos); ok {
		lineEnd := LineEnd(t, pos)
		return Block{
			Start: pos,
			End:   m.End,
			Data:  Header{Level: m.Level, ContentStart: m.ContentStart},
			Runs:  parseInline(t, m.ContentStart, lineEnd, true),
		}
	}
	if m, ok := DetectFence(t, pos); ok {
		return Block{Start: pos, End: m.End, Data: CodeBlock{Lang: m.Lang, Content: m.Content, Closed: m.Closed}}
	}
	if m, ok := DetectBlockMath(t, pos); ok {
		return Block{Start: pos, End: m.End, Data: &BlockMath{Content: m.Content}}
	}
	if m, ok := DetectTable(t, pos); ok {
		for r := range m.Table.Cells {
			for c := range m.Table.Cells[r] {
				cell := &m.Table.Cells[r][c]
				cell.Runs = ParseInline(t, cell.Start, cell.End)
			}
		}
		return Block{Start: pos, End: m.End, Data: m.Table}
	}
	if m, ok := DetectFootnoteDef(t, pos); ok {
		end := continuation(t, pos)
		return Block{
			Start: pos,
			End:   end,
			Data:  FootnoteDef{ID: m.ID, ContentStart: m.ContentStart},
			Runs:  ParseInline(t, m.ContentStart, end),
		}
	}
	if level, ok := DetectBlockquote(t, pos); ok {
		return parseBlockquote(t, pos, level)
	}
	if m, ok := DetectListItem(t, pos); ok {
		end := continuation(t, pos)
		return Block{
			Start: pos,
			End:   end,
			Data: ListItem{
				Indent:       m.Indent,
				ContentStart: m.ContentStart,
				Ordered:      m.Ordered,
				Number:       m.Number,
				Task:         m.Task,
				Marker:       m.Marker,
				Checkbox:     m.Checkbox,
			},
			Runs: ParseInline(t, m.ContentStart, end),
		}
	}
	if m, ok := DetectImage(t, pos); ok {
		return Block{
			Start: pos,
			End:   m.End,
			Data:  Image{Path: m.Path, Alt: m.Alt, Title: m.Title, Width: m.Width, Height: m.Height},
		}
	}
	end := continuation(t, pos)
	return Block{Start: pos, End: end, Data: Paragraph{}, Runs: ParseInline(t, pos, end)}
}

// parseSetext matches a single paragraph line followed by a '=' or '-'
// underline.
func parseSetext(t Text, pos int) (Block, bool) {
	next := NextLine(t, pos)
	if next >= t.Len() || next == pos || IsBlankLine(t, next) {
		return Block{}, false
	}
	level, ok := DetectSetextUnderline(t, next)
	if !ok || startsBlock(t, pos) {
		return Block{}, false
	}
	content, _ := skipIndent(t, pos, maxBlockIndent)
	return Block{
		Start: pos,
		End:   NextLine(t, next),
		Data:  Header{Level: level, ContentStart: content, Setext: true},
		Runs:  parseInline(t, content, LineEnd(t, pos), true),
	}, true
}

// startsBlock reports whether the line at pos opens a block other than a
// paragraph, ending any paragraph-like continuation.
func startsBlock(t Text, pos int) bool {
	if _, ok := DetectThematicBreak(t, pos); ok {
		return true
	}
	if _, ok := DetectHeader(t, pos); ok {
		return true
	}
	if _, ok := fenceAt(t, pos); ok {
		return true
	}
	if _, ok := DetectBlockMath(t, pos); ok {
		return true
	}
	if _, ok := DetectTable(t, pos); ok {
		return true
	}
	if _, ok := DetectFootnoteDef(t, pos); ok {
		return true
	}
	if _, ok := DetectBlockquote(t, pos); ok {
		return true
	}
	if _, ok := DetectListItem(t, pos); ok {
		return true
	}
	_, ok := DetectImage(t, pos)
	return ok
}

// continuation returns the end of a paragraph-like block whose first line
// starts at pos: following non-blank lines belong to it until one opens
// another block.
func continuation(t Text, pos int) int {
	end := NextLine(t, pos)
	for end < t.Len() {
		if IsBlankLine(t, end) || startsBlock(t, end) {
			break
		}
		end = NextLine(t, end)
	}
	return end
}

// parseBlockquote collects consecutive quoted lines plus lazy continuation
// lines. Runs are parsed per line after the quote markers.
func parseBlockquote(t Text, pos, level int) Block {
	b := Block{Start: pos, Data: Blockquote{Level: level}}
	line := pos
	for {
		contentStart := QuotePrefixEnd(t, line)
		next := NextLine(t, line)
		b.Runs = append(b.Runs, ParseInline(t, contentStart, next)...)
		b.End = next
		if next >= t.Len() || IsBlankLine(t, next) {
			break
		}
		if _, quoted := DetectBlockquote(t, next); !quoted && startsBlock(t, next) {
			break
		}
		line = next
	}
	return b
}
