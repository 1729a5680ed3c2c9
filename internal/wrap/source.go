package wrap

import (
	"unicode"
	"unicode/utf8"

	"github.com/kk-code-lab/mdwrite/internal/textutil"
	"github.com/rivo/uniseg"
)

// Class tells the wrapper how a cluster behaves at a line break.
type Class uint8

const (
	// ClassWord is a letter or number; hyphenation happens only between two
	// word clusters.
	ClassWord Class = iota
	ClassPunct
	ClassSpace
	ClassTab
	// ClassNBSP glues its word: a word containing one is never cut.
	ClassNBSP
	ClassNewline
	ClassDash
	// ClassHidden takes no cells and is never a break opportunity.
	ClassHidden
)

// Cluster is one grapheme cluster of a Source. Start and End are positions
// in the source's own coordinate space.
type Cluster struct {
	Start int
	End   int
	Width int
	Class Class
}

// Source yields the cluster starting at pos.
type Source interface {
	Cluster(pos int) (Cluster, bool)
}

// Classify returns the wrap class of a grapheme cluster.
func Classify(cluster string) Class {
	r, _ := utf8.DecodeRuneInString(cluster)
	switch {
	case r == '\n' || cluster == "\r\n":
		return ClassNewline
	case r == '\t':
		return ClassTab
	case r == '\u00a0' || r == '\u2007' || r == '\u202f':
		return ClassNBSP
	case r == ' ' || r == '\r' || (unicode.IsSpace(r) && r != '\u0085'):
		return ClassSpace
	case r == '-' || r == '\u2010' || r == '\u2012' || r == '\u2013' || r == '\u2014':
		return ClassDash
	case unicode.IsLetter(r) || unicode.IsNumber(r):
		return ClassWord
	default:
		return ClassPunct
	}
}

// ClusterWidth is the cell width the wrapper uses for a cluster of class c.
// Newlines take no cells; tabs are measured by the wrapper from the column.
func ClusterWidth(cluster string, c Class) int {
	switch c {
	case ClassNewline, ClassHidden:
		return 0
	case ClassTab:
		return 1
	}
	return textutil.ClusterWidth(cluster)
}

// TextSource steps raw UTF-8 text; positions are offsets into the text
// plus base.
type TextSource struct {
	text []byte
	base int
}

// NewTextSource wraps text whose first byte sits at position base.
func NewTextSource(text []byte, base int) *TextSource {
	return &TextSource{text: text, base: base}
}

// Cluster implements Source.
func (s *TextSource) Cluster(pos int) (Cluster, bool) {
	off := pos - s.base
	if off < 0 || off >= len(s.text) {
		return Cluster{}, false
	}
	rest := s.text[off:]
	var cluster []byte
	if rest[0] < utf8.RuneSelf && (len(rest) == 1 || rest[1] < utf8.RuneSelf) && rest[0] != '\r' {
		cluster = rest[:1]
	} else {
		cluster, _, _, _ = uniseg.Step(rest, -1)
		if len(cluster) == 0 {
			cluster = rest[:1]
		}
	}
	str := string(cluster)
	class := Classify(str)
	return Cluster{
		Start: pos,
		End:   pos + len(cluster),
		Width: ClusterWidth(str, class),
		Class: class,
	}, true
}

// Slice is an in-memory Source built from explicit clusters, used for
// pre-rendered glyph streams. Positions are cluster indexes.
type Slice []Cluster

// Cluster implements Source.
func (s Slice) Cluster(pos int) (Cluster, bool) {
	if pos < 0 || pos >= len(s) {
		return Cluster{}, false
	}
	c := s[pos]
	c.Start = pos
	c.End = pos + 1
	return c, true
}
