package markdown

// Span is a half-open byte range into the document.
type Span struct {
	Start int
	End   int
}

// Len returns the span length, never negative.
func (s Span) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool { return s.Len() == 0 }

// Contains reports whether pos lies in [Start, End).
func (s Span) Contains(pos int) bool { return pos >= s.Start && pos < s.End }

// Style is a bitset of inline text attributes.
type Style uint16

const (
	StyleBold Style = 1 << iota
	StyleItalic
	StyleStrike
	StyleCode
	StyleHighlight
	StyleLink
	StyleFootnote
	StyleMath
	// StyleSyntax marks raw markdown markup shown while the block is edited.
	StyleSyntax
)

type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeader
	BlockListItem
	BlockBlockquote
	BlockCode
	BlockTable
	BlockImage
	BlockThematicBreak
	BlockKindMath
	BlockFootnoteDef
)

var blockKindNames = [...]string{
	"paragraph", "header", "list-item", "blockquote", "code", "table",
	"image", "thematic-break", "math", "footnote-def",
}

func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "unknown"
}

// BlockData is the kind-specific payload of a Block.
type BlockData interface {
	blockKind() BlockKind
}

// Block is one structural unit of the document. [Start, End) includes the
// newline that terminates its last line; the blank lines before it are
// described by BlankStart and LeadingBlankLines.
type Block struct {
	Start int
	End   int

	LeadingBlankLines int
	BlankStart        int

	// VRowStart and VRowCount are filled in by the layout cache.
	VRowStart int
	VRowCount int

	Data BlockData
	Runs []InlineRun
}

// Kind returns the block kind.
func (b *Block) Kind() BlockKind {
	if b == nil || b.Data == nil {
		return BlockParagraph
	}
	return b.Data.blockKind()
}

// Contains reports whether pos lies inside the block's byte range.
func (b *Block) Contains(pos int) bool {
	return pos >= b.Start && pos < b.End
}

// VRowEnd returns the first virtual row after the block.
func (b *Block) VRowEnd() int { return b.VRowStart + b.VRowCount }

type Paragraph struct{}

func (Paragraph) blockKind() BlockKind { return BlockParagraph }

type Header struct {
	Level        int
	ContentStart int
	Setext       bool
}

func (Header) blockKind() BlockKind { return BlockHeader }

type TaskState int

const (
	TaskNone TaskState = iota
	TaskUnchecked
	TaskChecked
)

type ListItem struct {
	Indent       int
	ContentStart int
	Ordered      bool
	Number       int
	Task         TaskState
	// Marker covers the bullet or number including its delimiter.
	Marker Span
	// Checkbox covers "[ ]" / "[x]" when Task is set.
	Checkbox Span
}

func (ListItem) blockKind() BlockKind { return BlockListItem }

type Blockquote struct {
	Level int
}

func (Blockquote) blockKind() BlockKind { return BlockBlockquote }

type CodeBlock struct {
	Lang    Span
	Content Span
	Closed  bool
}

func (CodeBlock) blockKind() BlockKind { return BlockCode }

type Alignment int

const (
	AlignDefault Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Cell is one trimmed table cell.
type Cell struct {
	Start int
	End   int
	Runs  []InlineRun
}

// Table keeps the source rows verbatim: row 0 is the header, row 1 the
// delimiter row, the rest are body rows.
type Table struct {
	Cols  int
	Rows  int
	Align []Alignment
	Lines []Span
	Cells [][]Cell
}

func (Table) blockKind() BlockKind { return BlockTable }

// DataRows returns the number of rendered content rows (header + body).
func (t *Table) DataRows() int {
	if t.Rows < 2 {
		return t.Rows
	}
	return t.Rows - 1
}

// Image dimensions: positive values are absolute cells, negative values are
// a percentage of the available width or height, zero means unspecified.
type Image struct {
	Path   Span
	Alt    Span
	Title  Span
	Width  int
	Height int
}

func (Image) blockKind() BlockKind { return BlockImage }

type ThematicBreak struct{}

func (ThematicBreak) blockKind() BlockKind { return BlockThematicBreak }

// Sketch is a pre-rendered grid of glyph cells produced by a TeX renderer.
type Sketch struct {
	Width  int
	Height int
	Rows   []string
}

type BlockMath struct {
	Content Span
	Sketch  *Sketch
}

func (*BlockMath) blockKind() BlockKind { return BlockKindMath }

type FootnoteDef struct {
	ID           Span
	ContentStart int
}

func (FootnoteDef) blockKind() BlockKind { return BlockFootnoteDef }
