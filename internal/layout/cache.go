package layout

import (
	"sort"

	"github.com/kk-code-lab/mdwrite/internal/markdown"
)

type cacheKey struct {
	textLen        int
	wrapWidth      int
	viewportHeight int
}

// Cache is the block list of a document with the virtual rows of every
// block at one wrap width. It is rebuilt whole whenever the text length or
// the layout size changes.
type Cache struct {
	Blocks             []markdown.Block
	TrailingBlankLines int
	TrailingBlankStart int
	TotalRows          int

	key  cacheKey
	env  Env
	memo map[int][]sgrMark
}

// Build parses t and numbers the rows of every block as they render when
// the cursor is elsewhere.
func Build(t markdown.Text, env Env) *Cache {
	doc := markdown.Parse(t)
	c := &Cache{
		Blocks:             doc.Blocks,
		TrailingBlankLines: doc.TrailingBlankLines,
		TrailingBlankStart: doc.TrailingBlankStart,
		key:                cacheKey{textLen: t.Len(), wrapWidth: env.Width, viewportHeight: env.ViewportHeight},
		env:                env,
		memo:               make(map[int][]sgrMark),
	}
	l := blockLayout{t: t, env: &c.env}
	vrow := 0
	for i := range c.Blocks {
		b := &c.Blocks[i]
		vrow += b.LeadingBlankLines
		b.VRowStart = vrow
		b.VRowCount = rowHeight(l.rows(b))
		vrow += b.VRowCount
	}
	c.TotalRows = vrow + c.TrailingBlankLines
	return c
}

func rowHeight(rows []Row) int {
	n := 0
	for i := range rows {
		n += rows[i].Height()
	}
	return n
}

// Valid reports whether the cache still describes a text of textLen bytes
// laid out at wrapWidth with the given viewport height.
func (c *Cache) Valid(textLen, wrapWidth, viewportHeight int) bool {
	if c == nil {
		return false
	}
	return c.key == cacheKey{textLen: textLen, wrapWidth: wrapWidth, viewportHeight: viewportHeight}
}

// Env returns the environment the cache was built with.
func (c *Cache) Env() Env { return c.env }

// BlockAtPos returns the block containing pos and its index, or nil and
// -1 when pos is in a blank run or past the last block.
func (c *Cache) BlockAtPos(pos int) (*markdown.Block, int) {
	i := sort.Search(len(c.Blocks), func(i int) bool { return c.Blocks[i].Start > pos }) - 1
	if i < 0 || !c.Blocks[i].Contains(pos) {
		return nil, -1
	}
	return &c.Blocks[i], i
}

// BlockAtVRow returns the block whose rows include vrow, or nil and -1
// when vrow is a blank row.
func (c *Cache) BlockAtVRow(vrow int) (*markdown.Block, int) {
	i := sort.Search(len(c.Blocks), func(i int) bool { return c.Blocks[i].VRowStart > vrow }) - 1
	if i < 0 || vrow >= c.Blocks[i].VRowEnd() {
		return nil, -1
	}
	return &c.Blocks[i], i
}

// firstBlockFrom returns the index of the first block that ends after vrow.
func (c *Cache) firstBlockFrom(vrow int) int {
	return sort.Search(len(c.Blocks), func(i int) bool { return c.Blocks[i].VRowEnd() > vrow })
}

// blockIndexFor returns the index of the block pos belongs to for walking:
// the block containing it, or the block after the blank run holding it.
func (c *Cache) blockIndexFor(pos int) int {
	return sort.Search(len(c.Blocks), func(i int) bool { return c.Blocks[i].End > pos })
}

// EstimateVRow returns the virtual row of pos from the cached numbering.
// Inside a block the row is interpolated over its bytes.
func (c *Cache) EstimateVRow(t markdown.Text, pos int) int {
	i := c.blockIndexFor(pos)
	if i < len(c.Blocks) && c.Blocks[i].Start <= pos {
		b := &c.Blocks[i]
		if b.End <= b.Start || b.VRowCount <= 1 {
			return b.VRowStart
		}
		return b.VRowStart + (pos-b.Start)*b.VRowCount/(b.End-b.Start)
	}
	blankStart, base := c.TrailingBlankStart, 0
	if i < len(c.Blocks) {
		blankStart = c.Blocks[i].BlankStart
	}
	if i > 0 {
		base = c.Blocks[i-1].VRowEnd()
	}
	for p := blankStart; p < pos && p < t.Len(); p++ {
		if t.ByteAt(p) == '\n' {
			base++
		}
	}
	return base
}
