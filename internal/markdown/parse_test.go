package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(doc *Document) []BlockKind {
	out := make([]BlockKind, len(doc.Blocks))
	for i := range doc.Blocks {
		out[i] = doc.Blocks[i].Kind()
	}
	return out
}

func TestParseATXHeader(t *testing.T) {
	doc := Parse(StringText("# Hello"))
	require.Len(t, doc.Blocks, 1)
	h, ok := doc.Blocks[0].Data.(Header)
	require.True(t, ok)
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, 2, h.ContentStart)
	assert.False(t, h.Setext)
	assert.Equal(t, 0, doc.TrailingBlankLines)
}

func TestParseHeaderEdgeCases(t *testing.T) {
	tests := []struct {
		input  string
		header bool
		level  int
	}{
		{"###### six", true, 6},
		{"####### seven", false, 0},
		{"#nospace", false, 0},
		{"   # three spaces", true, 1},
		{"    # four spaces", false, 0},
		{"##", true, 2},
		{"#\ttab", true, 1},
	}
	for _, tt := range tests {
		m, ok := DetectHeader(StringText(tt.input), 0)
		assert.Equal(t, tt.header, ok, tt.input)
		if ok {
			assert.Equal(t, tt.level, m.Level, tt.input)
		}
	}
}

func TestParseTaskItems(t *testing.T) {
	doc := Parse(StringText("- [ ] task\n- [x] done\n"))
	require.Len(t, doc.Blocks, 2)
	first := doc.Blocks[0].Data.(ListItem)
	second := doc.Blocks[1].Data.(ListItem)
	assert.Equal(t, TaskUnchecked, first.Task)
	assert.Equal(t, TaskChecked, second.Task)
	assert.Equal(t, Span{2, 5}, first.Checkbox)
	assert.Equal(t, 6, first.ContentStart)
	assert.Equal(t, 1, doc.TrailingBlankLines)
	assert.Equal(t, 22, doc.TrailingBlankStart)
}

func TestParseUppercaseTaskAndOrdered(t *testing.T) {
	doc := Parse(StringText("3) [X] shipped\n10. plain\n"))
	require.Len(t, doc.Blocks, 2)
	a := doc.Blocks[0].Data.(ListItem)
	b := doc.Blocks[1].Data.(ListItem)
	assert.True(t, a.Ordered)
	assert.Equal(t, 3, a.Number)
	assert.Equal(t, TaskChecked, a.Task)
	assert.Equal(t, 10, b.Number)
	assert.Equal(t, TaskNone, b.Task)
}

func TestParseTable(t *testing.T) {
	src := "| a | b |\n|---|---|\n| c | d |\n"
	doc := Parse(StringText(src))
	require.Len(t, doc.Blocks, 1)
	tbl, ok := doc.Blocks[0].Data.(*Table)
	require.True(t, ok)
	assert.Equal(t, 2, tbl.Cols)
	assert.Equal(t, 3, tbl.Rows)
	assert.Equal(t, 2, tbl.DataRows())
	assert.Equal(t, []Alignment{AlignDefault, AlignDefault}, tbl.Align)
	require.Len(t, tbl.Cells, 2)
	c := tbl.Cells[1][0]
	assert.Equal(t, "c", src[c.Start:c.End])
}

func TestParseTableAlignmentAndPadding(t *testing.T) {
	src := "h1 | h2 | h3\n:-- | :-: | --:\nx\\|y | `a|b`\n"
	doc := Parse(StringText(src))
	require.Len(t, doc.Blocks, 1)
	tbl := doc.Blocks[0].Data.(*Table)
	assert.Equal(t, []Alignment{AlignLeft, AlignCenter, AlignRight}, tbl.Align)
	row := tbl.Cells[1]
	require.Len(t, row, 3)
	assert.Equal(t, `x\|y`, src[row[0].Start:row[0].End])
	assert.Equal(t, "`a|b`", src[row[1].Start:row[1].End])
	assert.Equal(t, 0, row[2].End-row[2].Start)
}

func TestParseTableRejectsMismatchedColumns(t *testing.T) {
	_, ok := DetectTable(StringText("a | b\n---\n"), 0)
	assert.False(t, ok)
	_, ok = DetectTable(StringText("a | b\n--- | x\n"), 0)
	assert.False(t, ok)
	_, ok = DetectTable(StringText("a | b\n: | ---\n"), 0)
	assert.False(t, ok)
}

func TestParseFence(t *testing.T) {
	src := "```go\nfmt.Println()\n  ```\nafter\n"
	doc := Parse(StringText(src))
	require.Equal(t, []BlockKind{BlockCode, BlockParagraph}, kinds(doc))
	code := doc.Blocks[0].Data.(CodeBlock)
	assert.Equal(t, "go", src[code.Lang.Start:code.Lang.End])
	assert.Equal(t, "fmt.Println()\n", src[code.Content.Start:code.Content.End])
	assert.True(t, code.Closed)
}

func TestParseUnclosedFenceRunsToEnd(t *testing.T) {
	src := "```\ncode\n\nmore"
	doc := Parse(StringText(src))
	require.Len(t, doc.Blocks, 1)
	assert.False(t, doc.Blocks[0].Data.(CodeBlock).Closed)
	assert.Equal(t, len(src), doc.Blocks[0].End)
}

func TestParseBlockMath(t *testing.T) {
	doc := Parse(StringText("$$\nx^2\n$$\n$$ y $$\n$$ open\n"))
	require.Equal(t, []BlockKind{BlockKindMath, BlockKindMath, BlockParagraph}, kinds(doc))
	assert.Equal(t, "math", doc.Blocks[0].Kind().String())
}

func TestParseSetext(t *testing.T) {
	doc := Parse(StringText("Title\n=====\n\nSub\n---\n"))
	require.Equal(t, []BlockKind{BlockHeader, BlockHeader}, kinds(doc))
	assert.Equal(t, Header{Level: 1, ContentStart: 0, Setext: true}, doc.Blocks[0].Data)
	assert.Equal(t, 2, doc.Blocks[1].Data.(Header).Level)
	assert.Equal(t, 1, doc.Blocks[1].LeadingBlankLines)
}

func TestParseThematicBreakBeatsList(t *testing.T) {
	doc := Parse(StringText("* * *\n- item\n"))
	assert.Equal(t, []BlockKind{BlockThematicBreak, BlockListItem}, kinds(doc))
}

func TestParseBlockquoteLazyContinuation(t *testing.T) {
	doc := Parse(StringText("> quoted\nlazy\n> > deep\n\npara\n"))
	require.Equal(t, []BlockKind{BlockBlockquote, BlockParagraph}, kinds(doc))
	assert.Equal(t, 1, doc.Blocks[0].Data.(Blockquote).Level)
	assert.Equal(t, 1, doc.Blocks[1].LeadingBlankLines)
}

func TestParseFootnoteDefinition(t *testing.T) {
	src := "[^note]: the text\ncontinues\n"
	doc := Parse(StringText(src))
	require.Len(t, doc.Blocks, 1)
	fn := doc.Blocks[0].Data.(FootnoteDef)
	assert.Equal(t, "note", src[fn.ID.Start:fn.ID.End])
	assert.Equal(t, len(src), doc.Blocks[0].End)
}

func TestParseImageBlock(t *testing.T) {
	src := `![cat](img/cat.png "A cat"){ width=50% height=10px }` + "\n"
	doc := Parse(StringText(src))
	require.Len(t, doc.Blocks, 1)
	img, ok := doc.Blocks[0].Data.(Image)
	require.True(t, ok)
	assert.Equal(t, "cat", src[img.Alt.Start:img.Alt.End])
	assert.Equal(t, "img/cat.png", src[img.Path.Start:img.Path.End])
	assert.Equal(t, "A cat", src[img.Title.Start:img.Title.End])
	assert.Equal(t, -50, img.Width)
	assert.Equal(t, 10, img.Height)

	doc = Parse(StringText("![a](b.png) trailing text\n"))
	assert.Equal(t, []BlockKind{BlockParagraph}, kinds(doc))
}

func TestParseParagraphStopsAtBlockStart(t *testing.T) {
	doc := Parse(StringText("one\ntwo\n# three\n- four\n"))
	require.Equal(t, []BlockKind{BlockParagraph, BlockHeader, BlockListItem}, kinds(doc))
	assert.Equal(t, 8, doc.Blocks[0].End)
}

func TestParseBlankLineBookkeeping(t *testing.T) {
	src := "a\n\n  \nb\n\n"
	doc := Parse(StringText(src))
	require.Len(t, doc.Blocks, 2)
	b := doc.Blocks[1]
	assert.Equal(t, 2, b.LeadingBlankLines)
	assert.Equal(t, 2, b.BlankStart)
	assert.Equal(t, 2, doc.TrailingBlankLines)
	assert.Equal(t, 8, doc.TrailingBlankStart)

	empty := Parse(StringText(""))
	assert.Empty(t, empty.Blocks)
	assert.Equal(t, 1, empty.TrailingBlankLines)
}

func TestParseCoverage(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"# h\n\n- a\n- b\n\n> q\n\n```\nx\n```\n\n| a |\n|---|\n| b |\n\n---\n",
		"\n\n\ntext\n\n\n",
		"$$\nx\n$$\n[^1]: foot\n![i](p)\n",
		"é日本\n\t\n**bold**\n",
	}
	for _, in := range inputs {
		doc := Parse(StringText(in))
		pos := 0
		for _, b := range doc.Blocks {
			assert.Equal(t, pos, b.BlankStart, "%q", in)
			for i := 0; i < b.LeadingBlankLines; i++ {
				require.True(t, IsBlankLine(StringText(in), pos), "%q at %d", in, pos)
				pos = NextLine(StringText(in), pos)
			}
			assert.Equal(t, pos, b.Start, "%q", in)
			assert.Greater(t, b.End, b.Start)
			pos = b.End
		}
		assert.Equal(t, pos, doc.TrailingBlankStart, "%q", in)
		lines := 0
		if in != "" {
			lines = strings.Count(in[pos:], "\n")
		}
		if pos < len(in) && !strings.HasSuffix(in, "\n") {
			lines++
		}
		if in == "" || strings.HasSuffix(in, "\n") {
			lines++
		}
		assert.Equal(t, lines, doc.TrailingBlankLines, "%q", in)
	}
}

func TestParseRunsTileBlocks(t *testing.T) {
	src := "A *b* [l](u) `c` &amp; x -- y :smile: $m$\n"
	doc := Parse(StringText(src))
	require.Len(t, doc.Blocks, 1)
	runs := doc.Blocks[0].Runs
	pos := 0
	for _, r := range runs {
		assert.Equal(t, pos, r.Start)
		assert.Greater(t, r.End, r.Start)
		pos = r.End
	}
	assert.Equal(t, len(src), pos)
}
