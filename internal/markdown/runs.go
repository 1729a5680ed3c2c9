package markdown

import "sort"

type RunKind int

const (
	RunText RunKind = iota
	RunDelimiter
	RunLink
	RunFootnoteRef
	RunEmoji
	RunAutolink
	RunEntity
	RunEscape
	RunInlineMath
	RunHeadingID
)

// RunData is the kind-specific payload of an InlineRun.
type RunData interface {
	runKind() RunKind
}

// InlineRun is one inline construct covering [Start, End) of its block.
type InlineRun struct {
	Start int
	End   int
	Data  RunData
}

// Kind returns the run kind.
func (r *InlineRun) Kind() RunKind {
	if r.Data == nil {
		return RunText
	}
	return r.Data.runKind()
}

// Special reports whether the run is anything other than plain text.
func (r *InlineRun) Special() bool { return r.Kind() != RunText }

// TextRun is plain text.
type TextRun struct{}

func (TextRun) runKind() RunKind { return RunText }

type Delimiter struct {
	Open  bool
	Style Style
	Len   int
}

func (Delimiter) runKind() RunKind { return RunDelimiter }

type Link struct {
	Text  Span
	URL   Span
	Image bool
}

func (Link) runKind() RunKind { return RunLink }

type FootnoteRef struct {
	ID Span
}

func (FootnoteRef) runKind() RunKind { return RunFootnoteRef }

type Emoji struct {
	Replacement string
}

func (Emoji) runKind() RunKind { return RunEmoji }

type Autolink struct {
	URL   Span
	Email bool
}

func (Autolink) runKind() RunKind { return RunAutolink }

// Entity covers HTML entities and typographic substitutions.
type Entity struct {
	Decoded string
	Len     int
}

func (Entity) runKind() RunKind { return RunEntity }

type Escape struct {
	Char byte
}

func (Escape) runKind() RunKind { return RunEscape }

type InlineMath struct {
	Content Span
	Sketch  *Sketch
}

func (*InlineMath) runKind() RunKind { return RunInlineMath }

type HeadingID struct {
	ID Span
}

func (HeadingID) runKind() RunKind { return RunHeadingID }

// RunIndexAt returns the index of the first run ending after pos, or
// len(runs) when every run ends at or before pos.
func RunIndexAt(runs []InlineRun, pos int) int {
	return sort.Search(len(runs), func(i int) bool { return runs[i].End > pos })
}
