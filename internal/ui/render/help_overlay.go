package render

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/mdwrite/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

var helpOverlaySections = []helpOverlaySection{
	{
		title: "Editing",
		entries: []helpOverlayEntry{
			{keys: "Enter", desc: "New line, continues lists and quotes"},
			{keys: "Backspace", desc: "Delete, unwraps **bold** from its end"},
			{keys: "Ctrl+T", desc: "Toggle task checkbox"},
		},
	},
	{
		title: "Motion",
		entries: []helpOverlayEntry{
			{keys: "←/→ ↑/↓", desc: "Move by character or visual row"},
			{keys: "Home/End", desc: "Start or end of visual row"},
			{keys: "PgUp/PgDn", desc: "Move by screen"},
			{keys: "Ctrl+Home/End", desc: "Top or bottom of document"},
			{keys: "Shift+motion", desc: "Extend selection"},
		},
	},
	{
		title: "Clipboard",
		entries: []helpOverlayEntry{
			{keys: "Ctrl+A", desc: "Select all"},
			{keys: "Ctrl+C", desc: "Copy selection"},
			{keys: "Ctrl+X", desc: "Cut selection"},
			{keys: "Ctrl+V", desc: "Paste"},
		},
	},
	{
		title: "File",
		entries: []helpOverlayEntry{
			{keys: "Ctrl+S", desc: "Save"},
			{keys: "Ctrl+P", desc: "Toggle plain text view"},
			{keys: "Ctrl+Z", desc: "Suspend to shell"},
			{keys: "Ctrl+Q", desc: "Quit (twice to discard changes)"},
			{keys: "F1", desc: "Close this help"},
		},
	},
}

func buildHelpOverlayLines() []string {
	lines := make([]string, 0, 32)
	for i, section := range helpOverlaySections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}
	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	key := textutil.SanitizeTerminalText(entry.keys)
	desc := textutil.SanitizeTerminalText(entry.desc)
	return fmt.Sprintf("  %-14s %s", key, desc)
}

func (r *Renderer) drawHelpOverlay(w, h int) {
	base := r.baseStyle()
	headerStyle := base.Foreground(r.theme.HeadingFg).Bold(true)

	title := " Help "
	titleStart := 0
	if tw := r.measureTextWidth(title); w > tw {
		titleStart = (w - tw) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	row := 2
	for _, line := range buildHelpOverlayLines() {
		if row >= h-1 {
			break
		}
		text := r.truncateTextToWidth(strings.TrimRight(line, " "), w-4)
		r.drawTextLine(2, row, w-4, text, base)
		row++
	}

	if h > 1 {
		r.drawTextLine(0, h-1, w, r.truncateTextToWidth("F1/Esc close", w), headerStyle)
	}
}
