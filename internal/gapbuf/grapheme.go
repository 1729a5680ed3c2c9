package gapbuf

import "github.com/rivo/uniseg"

const (
	graphemeWindow = 64
	// maxLineScan bounds how far GraphemePrev looks back for a line start.
	maxLineScan = 1 << 14
)

// GraphemeNext returns the end of the grapheme cluster starting at pos.
func (b *Buffer) GraphemeNext(pos int) int {
	pos = b.Snap(pos)
	n := b.Len()
	if pos >= n {
		return n
	}
	window := graphemeWindow
	for {
		end := pos + window
		if end >= n {
			end = n
		} else {
			end = b.Snap(end)
		}
		chunk := b.Bytes(pos, end)
		cluster, _, _, _ := uniseg.Step(chunk, -1)
		if len(cluster) < len(chunk) || end == n {
			return pos + len(cluster)
		}
		window *= 2
	}
}

// GraphemePrev returns the start of the grapheme cluster that ends at pos.
// Boundaries are recomputed forward from the start of the line so that
// stateful rules (ZWJ sequences, regional indicator pairs) see their context.
func (b *Buffer) GraphemePrev(pos int) int {
	pos = b.Snap(pos)
	if pos == 0 {
		return 0
	}
	if b.ByteAt(pos-1) == '\n' {
		if pos >= 2 && b.ByteAt(pos-2) == '\r' {
			return pos - 2
		}
		return pos - 1
	}
	start := pos - 1
	limit := pos - maxLineScan
	for start > 0 && start > limit && b.ByteAt(start-1) != '\n' {
		start--
	}
	start = b.Snap(start)

	chunk := b.Bytes(start, pos)
	total := len(chunk)
	state := -1
	off := 0
	for len(chunk) > 0 {
		cluster, rest, _, newState := uniseg.Step(chunk, state)
		if off+len(cluster) >= total {
			return start + off
		}
		off += len(cluster)
		chunk = rest
		state = newState
	}
	return b.Prev(pos)
}

// GraphemeCluster returns the cluster starting at pos and its end offset.
func (b *Buffer) GraphemeCluster(pos int) (string, int) {
	end := b.GraphemeNext(pos)
	return b.Substr(pos, end), end
}
