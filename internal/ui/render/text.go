package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdwrite/internal/textutil"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const ellipsis = "…"

// clusterWidth memoizes textutil.ClusterWidth for the status line and the
// help overlay, which redraw the same few clusters on every frame.
func (r *Renderer) clusterWidth(cluster string) int {
	if len(cluster) == 1 {
		return 1
	}
	r.widthMu.Lock()
	defer r.widthMu.Unlock()
	if w, ok := r.widths[cluster]; ok {
		return w
	}
	if r.widths == nil {
		r.widths = make(map[string]int)
	}
	w := textutil.ClusterWidth(cluster)
	r.widths[cluster] = w
	return w
}

// eachCluster calls fn for every grapheme cluster of text until fn
// returns false.
func eachCluster(text string, fn func(cluster string) bool) {
	state := -1
	for text != "" {
		var cluster string
		cluster, text, _, state = uniseg.StepString(text, state)
		if !fn(cluster) {
			return
		}
	}
}

func (r *Renderer) measureTextWidth(text string) int {
	width := 0
	eachCluster(text, func(c string) bool {
		width += r.clusterWidth(c)
		return true
	})
	return width
}

// truncateTextToWidth cuts text at a cluster boundary and marks the cut
// with an ellipsis.
func (r *Renderer) truncateTextToWidth(text string, maxWidth int) string {
	switch {
	case maxWidth <= 0 || text == "":
		return ""
	case r.measureTextWidth(text) <= maxWidth:
		return text
	case maxWidth <= runewidth.StringWidth(ellipsis):
		return ellipsis
	}

	budget := maxWidth - runewidth.StringWidth(ellipsis)
	var b strings.Builder
	eachCluster(text, func(c string) bool {
		cw := r.clusterWidth(c)
		if cw > budget {
			return false
		}
		budget -= cw
		b.WriteString(c)
		return true
	})
	return b.String() + ellipsis
}

// drawTextLine draws text one cluster per cell run starting at startX and
// returns the column after the last cluster drawn. Text must already be
// sanitized.
func (r *Renderer) drawTextLine(startX, y, maxWidth int, text string, style tcell.Style) int {
	x := startX
	eachCluster(text, func(c string) bool {
		cw := r.clusterWidth(c)
		if x-startX+cw > maxWidth {
			return false
		}
		if cw == 0 {
			return true
		}
		runes := []rune(c)
		r.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += cw
		return true
	})
	return x
}
