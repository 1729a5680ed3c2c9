package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdwrite/internal/config"
	"github.com/lucasb-eyer/go-colorful"
)

// ColorTheme defines application colors.
type ColorTheme struct {
	Background  tcell.Color
	Foreground  tcell.Color
	SyntaxFg    tcell.Color
	HeadingFg   tcell.Color
	LinkFg      tcell.Color
	CodeFg      tcell.Color
	CodeBlockBg tcell.Color
	QuoteFg     tcell.Color
	HighlightBg tcell.Color
	HighlightFg tcell.Color
	MathFg      tcell.Color
	SelectionBg tcell.Color
	FooterBg    tcell.Color
	FooterFg    tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return NewColorTheme(config.Default().Theme)
}

// NewColorTheme converts configured hex colors. Empty or malformed entries
// fall back to the terminal default.
func NewColorTheme(t config.Theme) ColorTheme {
	theme := ColorTheme{
		Background:  hexColor(t.Background, tcell.ColorDefault),
		Foreground:  hexColor(t.Foreground, tcell.ColorDefault),
		SyntaxFg:    hexColor(t.Syntax, tcell.ColorGray),
		HeadingFg:   hexColor(t.Heading, tcell.Color33),
		LinkFg:      hexColor(t.Link, tcell.Color44),
		CodeFg:      hexColor(t.Code, tcell.Color44),
		CodeBlockBg: hexColor(t.CodeBlock, tcell.Color234),
		QuoteFg:     hexColor(t.Quote, tcell.ColorLightSlateGray),
		HighlightBg: hexColor(t.Highlight, tcell.ColorYellow),
		MathFg:      hexColor(t.Math, tcell.Color141),
		SelectionBg: hexColor(t.Selection, tcell.Color33),
		FooterBg:    hexColor(t.StatusBar, tcell.ColorDefault),
		FooterFg:    tcell.ColorDefault,
	}
	theme.HighlightFg = contrastColor(t.Highlight)
	if t.StatusBar != "" {
		theme.FooterFg = contrastColor(t.StatusBar)
	}
	return theme
}

func hexColor(hex string, fallback tcell.Color) tcell.Color {
	if hex == "" {
		return fallback
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// contrastColor picks black or white text for a background color.
func contrastColor(hex string) tcell.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return tcell.ColorBlack
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return tcell.ColorBlack
	}
	return tcell.ColorWhite
}
