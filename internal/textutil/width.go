package textutil

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// ClusterWidth reports the terminal cells taken by one grapheme cluster.
// Control characters are drawn as a one-cell placeholder.
func ClusterWidth(cluster string) int {
	if cluster == "" {
		return 0
	}
	if len(cluster) == 1 {
		return 1
	}
	return uniseg.StringWidth(cluster)
}

// RuneWidth reports the printable width of a single rune, never negative.
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 0 {
		return 0
	}
	return w
}

// DisplayWidth reports the printable width of text measured per grapheme
// cluster, so ZWJ sequences, flags and keycaps count as one glyph.
func DisplayWidth(text string) int {
	width := 0
	state := -1
	for len(text) > 0 {
		var cluster string
		cluster, text, _, state = uniseg.StepString(text, state)
		width += ClusterWidth(cluster)
	}
	return width
}
