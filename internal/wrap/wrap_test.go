package wrap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wrapString(s string, width int, cfg Config) []Line {
	return Wrap(NewTextSource([]byte(s), 0), 0, len(s), width, cfg)
}

func texts(s string, lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = s[l.Start:l.End]
	}
	return out
}

func TestWrapEmptyInput(t *testing.T) {
	lines := wrapString("", 10, DefaultConfig())
	require.Len(t, lines, 1)
	assert.Equal(t, Line{}, lines[0])
}

func TestWrapDegenerateWidth(t *testing.T) {
	lines := wrapString("abc", 0, DefaultConfig())
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.LessOrEqual(t, l.Width, 1)
	}
}

func TestWrapSplitsLongWordWithHyphen(t *testing.T) {
	s := "a verylongwordthatoverflows"
	lines := wrapString(s, 10, DefaultConfig())
	require.Greater(t, len(lines), 2)
	assert.Equal(t, "a ", texts(s, lines)[0])
	for i, l := range lines {
		assert.LessOrEqual(t, l.Width, 10, "line %d", i)
		if l.Hyphen {
			before := s[l.End-1]
			after := s[l.End]
			assert.True(t, isLetter(before) && isLetter(after), "hyphen between %q and %q", before, after)
		}
	}
	assert.True(t, lines[1].Hyphen)
	assert.Equal(t, 1, lines[1].Segment)
	assert.Equal(t, "verylongw", s[lines[1].Start:lines[1].End])
	assert.Equal(t, 10, lines[1].Width)
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' }

func TestWrapNoHyphenNextToPunctuation(t *testing.T) {
	s := "abcd.efgh"
	lines := wrapString(s, 5, DefaultConfig())
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "abcd.", s[lines[0].Start:lines[0].End])
	assert.False(t, lines[0].Hyphen)
	assert.True(t, lines[0].Split)
}

func TestWrapSplitWordsDisabledCutsWithoutHyphen(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SplitWords = false
	s := "abcdefghij"
	lines := wrapString(s, 4, cfg)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, texts(s, lines))
	for _, l := range lines {
		assert.False(t, l.Hyphen)
	}
}

func TestWrapHardBreaks(t *testing.T) {
	s := "one two\nthree\n"
	lines := wrapString(s, 80, DefaultConfig())
	assert.Equal(t, []string{"one two\n", "three\n"}, texts(s, lines))
	assert.True(t, lines[0].HardBreak)
	assert.Equal(t, 0, lines[1].Segment)
	assert.Equal(t, 7, lines[0].Width)
}

func TestWrapTrimHangsSpaces(t *testing.T) {
	s := "hello     world"
	lines := wrapString(s, 7, DefaultConfig())
	require.Len(t, lines, 2)
	assert.Equal(t, "hello     ", s[lines[0].Start:lines[0].End])
	assert.Equal(t, 5, lines[0].Width)
	assert.Equal(t, "world", s[lines[1].Start:lines[1].End])

	cfg := DefaultConfig()
	cfg.TrimWhitespace = false
	lines = wrapString("ab cd", 3, cfg)
	assert.Equal(t, 3, lines[0].Width)
}

func TestWrapTabsAdvanceToNextStop(t *testing.T) {
	s := "a\tb\tc"
	lines := wrapString(s, 80, DefaultConfig())
	require.Len(t, lines, 1)
	assert.Equal(t, 9, lines[0].Width)

	cfg := DefaultConfig()
	cfg.TabSize = 8
	lines = wrapString("abc\td", 80, cfg)
	assert.Equal(t, 9, lines[0].Width)
}

func TestWrapDashBreak(t *testing.T) {
	s := "well-known thing"
	lines := wrapString(s, 8, DefaultConfig())
	assert.Equal(t, "well-", texts(s, lines)[0])

	cfg := DefaultConfig()
	cfg.KeepDashWithWord = false
	lines = wrapString(s, 8, cfg)
	assert.NotEqual(t, "well-", texts(s, lines)[0])
}

func TestWrapNBSPWordOverflows(t *testing.T) {
	s := "x 100\u00a0kilometers"
	lines := wrapString(s, 6, DefaultConfig())
	require.Len(t, lines, 2)
	assert.Equal(t, "x ", s[lines[0].Start:lines[0].End])
	assert.Equal(t, "100\u00a0kilometers", s[lines[1].Start:lines[1].End])
	assert.False(t, lines[1].Split)
}

func TestWrapWideClusters(t *testing.T) {
	s := "日本語のテキスト"
	lines := wrapString(s, 5, DefaultConfig())
	for _, l := range lines {
		assert.LessOrEqual(t, l.Width, 5)
	}
	joined := strings.Join(texts(s, lines), "")
	assert.Equal(t, s, joined)
}

func TestWrapWidthBoundAndCoverage(t *testing.T) {
	inputs := []string{
		"The quick brown fox jumps over the lazy dog.",
		"short\n\nparagraphs\nhere",
		"supercalifragilisticexpialidocious words",
		"tabs\tin\tthe\tmiddle and 👨‍👩‍👧 emoji 🇵🇱 flags",
		"dash-separated-compound-words-everywhere",
	}
	for _, in := range inputs {
		for width := 1; width <= 20; width++ {
			lines := wrapString(in, width, DefaultConfig())
			pos := 0
			for _, l := range lines {
				assert.Equal(t, pos, l.Start, "%q @%d", in, width)
				assert.Greater(t, l.End, l.Start, "%q @%d", in, width)
				if width >= 2 {
					assert.LessOrEqual(t, l.Width, width, "%q @%d", in, width)
				}
				pos = l.End
			}
			assert.Equal(t, len(in), pos, "%q @%d", in, width)
		}
	}
}

func TestWrapIdempotent(t *testing.T) {
	in := "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod"
	for _, width := range []int{8, 13, 21, 40} {
		lines := wrapString(in, width, DefaultConfig())
		for _, l := range lines {
			piece := strings.TrimRight(in[l.Start:l.End], " ")
			if l.Hyphen || piece == "" {
				continue
			}
			again := wrapString(piece, width, DefaultConfig())
			assert.Len(t, again, 1, "%q @%d", piece, width)
		}
	}
}

func TestFindCellLineEndSkipsLeadingSpaces(t *testing.T) {
	s := "alpha   beta gamma"
	src := NewTextSource([]byte(s), 0)
	line, next := FindCellLineEnd(src, 0, len(s), 6, DefaultConfig())
	assert.Equal(t, "alpha", strings.TrimRight(s[line.Start:line.End], " "))
	assert.Equal(t, 5, line.Width)
	assert.Equal(t, 8, next)

	line, next = FindCellLineEnd(src, next, len(s), 6, DefaultConfig())
	assert.Equal(t, "beta", strings.TrimRight(s[line.Start:line.End], " "))
	assert.Equal(t, 13, next)

	line, next = FindCellLineEnd(src, len(s), len(s), 6, DefaultConfig())
	assert.Equal(t, 0, line.Width)
	assert.Equal(t, len(s), next)
}

func TestSliceSource(t *testing.T) {
	glyphs := Slice{
		{Width: 1, Class: ClassWord},
		{Width: 0, Class: ClassHidden},
		{Width: 1, Class: ClassWord},
		{Width: 1, Class: ClassSpace},
		{Width: 2, Class: ClassWord},
	}
	lines := Wrap(glyphs, 0, len(glyphs), 3, DefaultConfig())
	require.Len(t, lines, 2)
	assert.Equal(t, 4, lines[0].End)
	assert.Equal(t, 2, lines[0].Width)
	assert.Equal(t, 2, lines[1].Width)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ClassWord, Classify("é"))
	assert.Equal(t, ClassWord, Classify("7"))
	assert.Equal(t, ClassPunct, Classify("."))
	assert.Equal(t, ClassSpace, Classify(" "))
	assert.Equal(t, ClassNBSP, Classify("\u00a0"))
	assert.Equal(t, ClassDash, Classify("—"))
	assert.Equal(t, ClassNewline, Classify("\r\n"))
	assert.Equal(t, ClassTab, Classify("\t"))
}
