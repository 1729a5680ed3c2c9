package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdwrite/internal/textutil"
)

func formatStatusLeft(status Status) string {
	name := status.Name
	if name == "" {
		name = "[untitled]"
	}
	parts := []string{statusText(name)}
	if status.Modified {
		parts[0] += " [+]"
	}
	if status.Plain {
		parts = append(parts, "plain")
	}
	if status.Message != "" {
		parts = append(parts, statusText(status.Message))
	}
	return strings.Join(parts, " · ")
}

func statusText(s string) string {
	return textutil.SanitizeTerminalText(textutil.ExpandTabs(s, textutil.DefaultTabWidth))
}

func formatStatusRight(status Status) string {
	words := "words"
	if status.Words == 1 {
		words = "word"
	}
	return fmt.Sprintf("%s %s · Ln %d, Col %d", formatCompactNumber(status.Words), words, status.Line, status.Col)
}

func formatCompactNumber(n int) string {
	switch {
	case n >= 1_000_000:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(n)/1_000_000.0)) + "M"
	case n >= 10_000:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(n)/1_000.0)) + "k"
	default:
		return fmt.Sprintf("%d", n)
	}
}

func trimTrailingZero(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	return strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
}

// drawStatusLine renders the last screen row. The right part is dropped
// when both parts do not fit; the left part is truncated with an ellipsis.
func (r *Renderer) drawStatusLine(status Status, w, h int) {
	if h <= 0 || w <= 0 {
		return
	}
	style := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Reverse(r.theme.FooterBg == tcell.ColorDefault)
	y := h - 1
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}

	left := " " + formatStatusLeft(status)
	right := formatStatusRight(status) + " "
	rightWidth := r.measureTextWidth(right)
	leftWidth := w
	if r.measureTextWidth(left)+1+rightWidth <= w {
		leftWidth = w - rightWidth - 1
		r.drawTextLine(w-rightWidth, y, rightWidth, right, style)
	}
	r.drawTextLine(0, y, leftWidth, r.truncateTextToWidth(left, leftWidth), style)
}
