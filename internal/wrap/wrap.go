package wrap

import "github.com/kk-code-lab/mdwrite/internal/textutil"

// Config controls break placement.
type Config struct {
	TabSize int
	// TrimWhitespace hangs the spaces at a soft break on the end of the
	// line without counting their width.
	TrimWhitespace bool
	// SplitWords cuts words longer than the width; a hyphen cell is added
	// only between two letter or number clusters.
	SplitWords bool
	// KeepDashWithWord makes a dash a break opportunity that stays on the
	// line before the break. When false, dashes never allow a break.
	KeepDashWithWord bool
}

// DefaultConfig is the configuration used for document text.
func DefaultConfig() Config {
	return Config{
		TabSize:          textutil.DefaultTabWidth,
		TrimWhitespace:   true,
		SplitWords:       true,
		KeepDashWithWord: true,
	}
}

// Line is one visual line. [Start, End) covers every source cluster the
// line consumes, including hung spaces and the terminating newline.
type Line struct {
	Start int
	End   int
	Width int
	// Segment counts the soft-wrapped pieces of one logical line, from 0.
	Segment   int
	HardBreak bool
	// Split is set when a word was cut at the end of the line; Hyphen when
	// a hyphen cell was added for it (included in Width).
	Split  bool
	Hyphen bool
}

// Wrap breaks [start, end) of src into lines no wider than width, except
// for single clusters wider than width and words glued by non-breaking
// spaces. Empty input yields one zero-width line.
func Wrap(src Source, start, end, width int, cfg Config) []Line {
	if width < 1 {
		width = 1
	}
	if start >= end {
		return []Line{{Start: start, End: start}}
	}
	var lines []Line
	segment := 0
	pos := start
	for pos < end {
		line, next := nextLine(src, pos, end, width, cfg)
		line.Segment = segment
		lines = append(lines, line)
		if line.HardBreak {
			segment = 0
		} else {
			segment++
		}
		pos = next
	}
	return lines
}

// FindCellLineEnd returns the first line of [start, end) and the position
// the next line starts at. Leading spaces of the next line are skipped, so
// table cells restart cleanly after a break.
func FindCellLineEnd(src Source, start, end, width int, cfg Config) (Line, int) {
	if width < 1 {
		width = 1
	}
	if start >= end {
		return Line{Start: start, End: start}, end
	}
	line, next := nextLine(src, start, end, width, cfg)
	for next < end {
		c, ok := src.Cluster(next)
		if !ok || (c.Class != ClassSpace && c.Class != ClassTab) {
			break
		}
		next = c.End
		line.End = next
	}
	return line, next
}

type breakPoint struct {
	pos   int
	width int
	ok    bool
}

type placed struct {
	c   Cluster
	col int // column after the cluster
}

// nextLine lays out one line starting at pos and returns it with the
// position after it. It always consumes at least one cluster.
func nextLine(src Source, pos, end, width int, cfg Config) (Line, int) {
	tab := cfg.TabSize
	if tab <= 0 {
		tab = textutil.DefaultTabWidth
	}
	line := Line{Start: pos, End: pos}
	col := 0
	var brk breakPoint
	var hist []placed
	p := pos
	for p < end {
		c, ok := src.Cluster(p)
		if !ok || c.End <= p {
			break
		}
		if c.End > end {
			c.End = end
		}
		w := c.Width
		switch c.Class {
		case ClassNewline:
			line.End = c.End
			line.Width = col
			line.HardBreak = true
			return line, c.End
		case ClassHidden:
			w = 0
		case ClassTab:
			w = textutil.TabAdvance(col, tab)
		}

		if c.Class == ClassSpace || c.Class == ClassTab {
			if col+w > width && col > 0 {
				if cfg.TrimWhitespace {
					return hangSpaces(src, line, p, end, brkWidthRun(hist))
				}
				line.End = p
				line.Width = col
				return line, p
			}
			col += w
			p = c.End
			hist = append(hist, placed{c, col})
			if cfg.TrimWhitespace {
				brk = breakPoint{pos: p, width: brkWidthRun(hist), ok: true}
			} else {
				brk = breakPoint{pos: p, width: col, ok: true}
			}
			continue
		}

		if col+w > width && col > 0 && c.Class != ClassHidden {
			if brk.ok && brk.pos > pos {
				line.End = brk.pos
				line.Width = brk.width
				return line, brk.pos
			}
			if !glued(src, hist, p, end) {
				if cfg.SplitWords {
					return splitWord(line, hist, c, width)
				}
				line.End = p
				line.Width = col
				line.Split = true
				return line, p
			}
		}

		col += w
		p = c.End
		hist = append(hist, placed{c, col})
		if c.Class == ClassDash && cfg.KeepDashWithWord {
			brk = breakPoint{pos: p, width: col, ok: true}
		}
	}
	line.End = p
	line.Width = col
	return line, p
}

func isSpaceClass(c Class) bool { return c == ClassSpace || c == ClassTab }

// brkWidthRun returns the column before the trailing run of spaces in hist.
func brkWidthRun(hist []placed) int {
	i := len(hist)
	for i > 0 && isSpaceClass(hist[i-1].c.Class) {
		i--
	}
	if i == 0 {
		return 0
	}
	return hist[i-1].col
}

// hangSpaces ends the line after the run of spaces starting at p, and after
// a directly following newline. width excludes the hung spaces.
func hangSpaces(src Source, line Line, p, end, width int) (Line, int) {
	for p < end {
		c, ok := src.Cluster(p)
		if !ok || c.End <= p {
			break
		}
		switch c.Class {
		case ClassSpace, ClassTab:
			p = c.End
			continue
		case ClassNewline:
			line.HardBreak = true
			p = c.End
		}
		break
	}
	if p > end {
		p = end
	}
	line.End = p
	line.Width = width
	return line, p
}

// glued reports whether the word around p contains a non-breaking space.
func glued(src Source, hist []placed, p, end int) bool {
	for i := len(hist) - 1; i >= 0; i-- {
		switch hist[i].c.Class {
		case ClassNBSP:
			return true
		case ClassSpace, ClassTab, ClassNewline:
			i = 0
		}
	}
	for p < end {
		c, ok := src.Cluster(p)
		if !ok || c.End <= p {
			return false
		}
		switch c.Class {
		case ClassNBSP:
			return true
		case ClassSpace, ClassTab, ClassNewline:
			return false
		}
		p = c.End
	}
	return false
}

// splitWord cuts the overflowing word before next. It prefers a hyphenated
// cut between two word clusters, backing up one cluster when the hyphen
// cell would not fit, and otherwise cuts without a hyphen.
func splitWord(line Line, hist []placed, next Cluster, width int) (Line, int) {
	n := len(hist)
	for m := n; m >= 1 && m >= n-1; m-- {
		left := hist[m-1]
		right := next
		if m < n {
			right = hist[m].c
		}
		if left.c.Class != ClassWord || right.Class != ClassWord {
			if m == n {
				break
			}
			continue
		}
		if left.col+1 <= width {
			line.End = left.c.End
			line.Width = left.col + 1
			line.Split = true
			line.Hyphen = true
			return line, left.c.End
		}
	}
	last := hist[n-1]
	line.End = last.c.End
	line.Width = last.col
	line.Split = true
	return line, last.c.End
}
