package layout

import (
	"math/bits"

	"github.com/kk-code-lab/mdwrite/internal/markdown"
)

const maxStyleDepth = 8

// styleStack tracks nested inline styles. Pushes beyond the depth limit are
// ignored and so are their matching pops; any other pop removes the
// innermost matching entry.
type styleStack struct {
	items   [maxStyleDepth]markdown.Style
	n       int
	dropped [16]int // overflowed pushes per style bit
}

func droppedSlot(st markdown.Style) (int, bool) {
	if st == 0 {
		return 0, false
	}
	return bits.TrailingZeros16(uint16(st)), true
}

func (s *styleStack) push(st markdown.Style) {
	if s.n >= maxStyleDepth {
		if i, ok := droppedSlot(st); ok {
			s.dropped[i]++
		}
		return
	}
	s.items[s.n] = st
	s.n++
}

func (s *styleStack) pop(st markdown.Style) {
	if i, ok := droppedSlot(st); ok && s.dropped[i] > 0 {
		s.dropped[i]--
		return
	}
	for i := s.n - 1; i >= 0; i-- {
		if s.items[i] == st {
			copy(s.items[i:s.n-1], s.items[i+1:s.n])
			s.n--
			return
		}
	}
}

func (s *styleStack) active() markdown.Style {
	var out markdown.Style
	for i := 0; i < s.n; i++ {
		out |= s.items[i]
	}
	return out
}

func (s *styleStack) reset() { *s = styleStack{} }
