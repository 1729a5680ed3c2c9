// Package texsketch draws a subset of LaTeX math as a grid of text cells:
// symbols become Unicode, scripts use super- and subscript characters and
// fractions stack in display mode.
package texsketch

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kk-code-lab/mdwrite/internal/markdown"
	"github.com/kk-code-lab/mdwrite/internal/textutil"
)

var (
	// ErrSyntax reports unbalanced braces or a command missing arguments.
	ErrSyntax = errors.New("latex syntax error")
	// ErrUnsupported reports a command outside the supported subset.
	ErrUnsupported = errors.New("unsupported latex command")
)

// Renderer renders LaTeX to sketches.
type Renderer struct{}

func New() *Renderer { return &Renderer{} }

// Render draws latex. Inline math is always one row; display math stacks
// fractions.
func (r *Renderer) Render(latex string, block bool) (*markdown.Sketch, error) {
	p := &parser{src: strings.TrimSpace(latex), display: block}
	root, err := p.parseList(false)
	if err != nil {
		return nil, err
	}
	b := root.layout(block)
	return &markdown.Sketch{Width: b.width, Height: len(b.rows), Rows: b.rows}, nil
}

// node is a parsed expression.
type node interface {
	layout(display bool) box
}

type textNode string

type listNode []node

type fracNode struct{ num, den node }

type sqrtNode struct{ body node }

type scriptNode struct {
	base node
	sup  node
	sub  node
}

type parser struct {
	src     string
	pos     int
	display bool
}

// parseList parses atoms until the end of input or, inside a group, the
// closing brace.
func (p *parser) parseList(group bool) (listNode, error) {
	var list listNode
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '}':
			if !group {
				return nil, fmt.Errorf("%w: unexpected '}' at %d", ErrSyntax, p.pos)
			}
			p.pos++
			return list, nil
		case c == '^' || c == '_':
			p.pos++
			arg, err := p.parseArg()
			if err != nil {
				return nil, err
			}
			var base node = textNode("")
			if n := len(list); n > 0 {
				base = list[n-1]
				list = list[:n-1]
			}
			s, ok := base.(*scriptNode)
			if !ok {
				s = &scriptNode{base: base}
			}
			if c == '^' {
				s.sup = arg
			} else {
				s.sub = arg
			}
			list = append(list, s)
		default:
			n, err := p.parseAtom()
			if err != nil {
				return nil, err
			}
			if t, ok := n.(textNode); ok && p.display {
				if op, spaced := spacedOps[string(t)]; spaced {
					n = textNode(op)
				}
			}
			if n != nil {
				list = append(list, n)
			}
		}
	}
	if group {
		return nil, fmt.Errorf("%w: missing '}'", ErrSyntax)
	}
	return list, nil
}

// parseArg parses one argument: a braced group, a command or a single
// character.
func (p *parser) parseArg() (node, error) {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("%w: missing argument", ErrSyntax)
	}
	if p.src[p.pos] == '}' {
		return nil, fmt.Errorf("%w: missing argument at %d", ErrSyntax, p.pos)
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (node, error) {
	c := p.src[p.pos]
	switch c {
	case '{':
		p.pos++
		return p.parseList(true)
	case '\\':
		return p.parseCommand()
	case ' ', '\t', '\n', '\r':
		p.pos++
		return nil, nil
	}
	_, size := utf8.DecodeRuneInString(p.src[p.pos:])
	s := p.src[p.pos : p.pos+size]
	p.pos += size
	return textNode(s), nil
}

func (p *parser) parseCommand() (node, error) {
	p.pos++
	start := p.pos
	for p.pos < len(p.src) && isLetter(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		if p.pos >= len(p.src) {
			return nil, fmt.Errorf("%w: trailing backslash", ErrSyntax)
		}
		// Escaped character such as \{ or \,.
		c := p.src[p.pos]
		p.pos++
		switch c {
		case ',', ';', ':', '!', '\\':
			return textNode(" "), nil
		}
		return textNode(string(c)), nil
	}
	name := p.src[start:p.pos]
	switch name {
	case "frac", "dfrac", "tfrac":
		num, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		den, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		return &fracNode{num: num, den: den}, nil
	case "sqrt":
		body, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		return &sqrtNode{body: body}, nil
	case "text", "mathrm", "operatorname":
		return p.rawGroup()
	case "mathbf", "mathit", "mathbb", "mathcal":
		return p.parseArg()
	case "left", "right", "displaystyle":
		return nil, nil
	}
	if sym, ok := symbols[name]; ok {
		return textNode(sym), nil
	}
	if isFunctionName(name) {
		return textNode(name), nil
	}
	return nil, fmt.Errorf("%w: \\%s", ErrUnsupported, name)
}

// rawGroup reads a braced argument as literal text.
func (p *parser) rawGroup() (node, error) {
	if p.pos >= len(p.src) || p.src[p.pos] != '{' {
		return nil, fmt.Errorf("%w: expected '{' at %d", ErrSyntax, p.pos)
	}
	end := strings.IndexByte(p.src[p.pos:], '}')
	if end < 0 {
		return nil, fmt.Errorf("%w: missing '}'", ErrSyntax)
	}
	text := p.src[p.pos+1 : p.pos+end]
	p.pos += end + 1
	return textNode(text), nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isFunctionName(name string) bool {
	switch name {
	case "sin", "cos", "tan", "log", "ln", "exp", "lim", "max", "min", "det", "deg":
		return true
	}
	return false
}

// box is a laid out expression. baseline is the row the surrounding text
// lines up with.
type box struct {
	rows     []string
	width    int
	baseline int
}

func textBox(s string) box {
	return box{rows: []string{s}, width: textutil.DisplayWidth(s)}
}

func (t textNode) layout(bool) box { return textBox(string(t)) }

func (l listNode) layout(display bool) box {
	out := textBox("")
	for _, n := range l {
		out = hcat(out, n.layout(display))
	}
	return out
}

func (f *fracNode) layout(display bool) box {
	num := f.num.layout(display)
	den := f.den.layout(display)
	if !display {
		return flatFraction(num, den)
	}
	w := max(num.width, den.width) + 2
	rows := make([]string, 0, len(num.rows)+len(den.rows)+1)
	for _, r := range num.rows {
		rows = append(rows, center(r, w))
	}
	rows = append(rows, strings.Repeat("─", w))
	for _, r := range den.rows {
		rows = append(rows, center(r, w))
	}
	return box{rows: rows, width: w, baseline: len(num.rows)}
}

// flatFraction writes a fraction on one row as num/den, parenthesizing
// compound parts.
func flatFraction(num, den box) box {
	n, d := num.rows[num.baseline], den.rows[den.baseline]
	if len(num.rows) > 1 || len(den.rows) > 1 {
		n, d = strings.Join(num.rows, " "), strings.Join(den.rows, " ")
	}
	return textBox(paren(n) + "/" + paren(d))
}

func paren(s string) string {
	if textutil.DisplayWidth(s) <= 1 {
		return s
	}
	return "(" + s + ")"
}

func (s *sqrtNode) layout(display bool) box {
	body := s.body.layout(display)
	if len(body.rows) == 1 {
		inner := body.rows[0]
		if body.width > 1 {
			inner = "(" + inner + ")"
		}
		return textBox("√" + inner)
	}
	return hcat(textBox("√"), body)
}

func (s *scriptNode) layout(display bool) box {
	out := s.base.layout(display)
	if s.sub != nil {
		out = hcat(out, textBox(script(s.sub.layout(display), subscripts, "_")))
	}
	if s.sup != nil {
		out = hcat(out, textBox(script(s.sup.layout(display), superscripts, "^")))
	}
	return out
}

// script converts a one-row box to script characters, falling back to
// marker plus the text in parentheses.
func script(b box, table map[rune]rune, marker string) string {
	text := strings.Join(b.rows, " ")
	var sb strings.Builder
	for _, r := range text {
		m, ok := table[r]
		if !ok || len(b.rows) > 1 {
			if b.width == 1 {
				return marker + text
			}
			return marker + "(" + text + ")"
		}
		sb.WriteRune(m)
	}
	return sb.String()
}

// hcat places b right of a, aligning baselines.
func hcat(a, b box) box {
	above := max(a.baseline, b.baseline)
	below := max(len(a.rows)-a.baseline, len(b.rows)-b.baseline)
	rows := make([]string, above+below)
	for i := range rows {
		rows[i] = cell(a, i-above+a.baseline) + cell(b, i-above+b.baseline)
	}
	return box{rows: rows, width: a.width + b.width, baseline: above}
}

// cell returns row i of b padded to its width, or blanks outside it.
func cell(b box, i int) string {
	if i < 0 || i >= len(b.rows) {
		return strings.Repeat(" ", b.width)
	}
	r := b.rows[i]
	if pad := b.width - textutil.DisplayWidth(r); pad > 0 {
		r += strings.Repeat(" ", pad)
	}
	return r
}

func center(s string, width int) string {
	pad := width - textutil.DisplayWidth(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
