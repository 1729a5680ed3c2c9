package render

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdwrite/internal/layout"
	"github.com/kk-code-lab/mdwrite/internal/markdown"
)

func (r *Renderer) baseStyle() tcell.Style {
	return tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
}

// styleFor maps a glyph attribute to a terminal style. Block colors come
// first so inline styles can override them.
func (r *Renderer) styleFor(attr layout.Attr) tcell.Style {
	st := r.baseStyle()
	switch attr.Block {
	case markdown.BlockHeader:
		st = st.Foreground(r.theme.HeadingFg).Bold(true)
		if attr.Level == 1 {
			st = st.Underline(true)
		}
	case markdown.BlockBlockquote:
		st = st.Foreground(r.theme.QuoteFg)
	case markdown.BlockCode:
		st = st.Background(r.theme.CodeBlockBg)
	case markdown.BlockKindMath:
		st = st.Foreground(r.theme.MathFg)
	}

	s := attr.Style
	if s&markdown.StyleBold != 0 {
		st = st.Bold(true)
	}
	if s&markdown.StyleItalic != 0 {
		st = st.Italic(true)
	}
	if s&markdown.StyleStrike != 0 {
		st = st.StrikeThrough(true)
	}
	if s&markdown.StyleCode != 0 && attr.Block != markdown.BlockCode {
		st = st.Foreground(r.theme.CodeFg)
	}
	if s&(markdown.StyleLink|markdown.StyleFootnote) != 0 {
		st = st.Foreground(r.theme.LinkFg).Underline(true)
	}
	if s&markdown.StyleMath != 0 {
		st = st.Foreground(r.theme.MathFg)
	}
	if s&markdown.StyleHighlight != 0 {
		st = st.Background(r.theme.HighlightBg).Foreground(r.theme.HighlightFg)
	}
	if s&markdown.StyleSyntax != 0 {
		st = st.Foreground(r.theme.SyntaxFg).Bold(false).Italic(false).Underline(false).StrikeThrough(false)
	}
	if attr.Selected {
		st = st.Background(r.theme.SelectionBg)
	}
	return st
}

// applySGR layers an ANSI select graphic rendition sequence over base.
// A reset returns to base rather than the terminal default.
func applySGR(base tcell.Style, seq string) tcell.Style {
	body, ok := strings.CutPrefix(seq, "\x1b[")
	if !ok {
		return base
	}
	body, ok = strings.CutSuffix(body, "m")
	if !ok {
		return base
	}
	if body == "" {
		return base
	}

	baseFg, baseBg, _ := base.Decompose()
	st := base
	params := strings.Split(body, ";")
	for i := 0; i < len(params); i++ {
		n, err := strconv.Atoi(params[i])
		if err != nil {
			continue
		}
		switch {
		case n == 0:
			st = base
		case n == 1:
			st = st.Bold(true)
		case n == 2:
			st = st.Dim(true)
		case n == 3:
			st = st.Italic(true)
		case n == 4:
			st = st.Underline(true)
		case n == 9:
			st = st.StrikeThrough(true)
		case n == 22:
			st = st.Bold(false).Dim(false)
		case n == 23:
			st = st.Italic(false)
		case n == 24:
			st = st.Underline(false)
		case n == 29:
			st = st.StrikeThrough(false)
		case n >= 30 && n <= 37:
			st = st.Foreground(tcell.PaletteColor(n - 30))
		case n >= 90 && n <= 97:
			st = st.Foreground(tcell.PaletteColor(n - 90 + 8))
		case n == 39:
			st = st.Foreground(baseFg)
		case n >= 40 && n <= 47:
			st = st.Background(tcell.PaletteColor(n - 40))
		case n >= 100 && n <= 107:
			st = st.Background(tcell.PaletteColor(n - 100 + 8))
		case n == 49:
			st = st.Background(baseBg)
		case n == 38 || n == 48:
			color, used := extendedColor(params[i+1:])
			i += used
			if color == tcell.ColorDefault {
				continue
			}
			if n == 38 {
				st = st.Foreground(color)
			} else {
				st = st.Background(color)
			}
		}
	}
	return st
}

// extendedColor parses the arguments after 38 or 48 and reports how many
// parameters it consumed.
func extendedColor(params []string) (tcell.Color, int) {
	if len(params) == 0 {
		return tcell.ColorDefault, 0
	}
	switch params[0] {
	case "5":
		if len(params) < 2 {
			return tcell.ColorDefault, len(params)
		}
		n, err := strconv.Atoi(params[1])
		if err != nil || n < 0 || n > 255 {
			return tcell.ColorDefault, 2
		}
		return tcell.PaletteColor(n), 2
	case "2":
		if len(params) < 4 {
			return tcell.ColorDefault, len(params)
		}
		var rgb [3]int32
		for i := range rgb {
			v, err := strconv.Atoi(params[1+i])
			if err != nil || v < 0 || v > 255 {
				return tcell.ColorDefault, 4
			}
			rgb[i] = int32(v)
		}
		return tcell.NewRGBColor(rgb[0], rgb[1], rgb[2]), 4
	}
	return tcell.ColorDefault, 1
}
