package layout

import (
	"github.com/kk-code-lab/mdwrite/internal/markdown"
	"github.com/kk-code-lab/mdwrite/internal/textutil"
	"github.com/kk-code-lab/mdwrite/internal/wrap"
	"github.com/rivo/uniseg"
)

// Glyph is one drawable cluster and the source bytes it stands for.
// Decorations that stand for no source bytes have Start and End of -1.
type Glyph struct {
	Text  string
	Width int
	Class wrap.Class
	Attr  Attr
	// SGR is emitted before the glyph when set.
	SGR   string
	Start int
	End   int
}

func (g *Glyph) sourced() bool { return g.Start >= 0 }

func hiddenGlyph(start, end int, attr Attr) Glyph {
	return Glyph{Class: wrap.ClassHidden, Attr: attr, Start: start, End: end}
}

func decoration(text string, attr Attr) Glyph {
	return Glyph{
		Text:  text,
		Width: textutil.DisplayWidth(text),
		Class: wrap.ClassPunct,
		Attr:  attr,
		Start: -1,
		End:   -1,
	}
}

// atomGlyph draws text for the whole source range [start, end) as one
// unbreakable glyph.
func atomGlyph(text string, start, end int, attr Attr) Glyph {
	return Glyph{
		Text:  textutil.SanitizeTerminalText(text),
		Width: textutil.DisplayWidth(text),
		Class: wrap.ClassPunct,
		Attr:  attr,
		Start: start,
		End:   end,
	}
}

func clusterGlyph(cluster []byte, start int, attr Attr) Glyph {
	s := string(cluster)
	class := wrap.Classify(s)
	g := Glyph{Class: class, Attr: attr, Start: start, End: start + len(cluster)}
	switch class {
	case wrap.ClassNewline:
	case wrap.ClassTab:
		g.Width = 1
	default:
		g.Text = textutil.SanitizeCluster(s)
		g.Width = wrap.ClusterWidth(s, class)
	}
	return g
}

// appendClusters appends one glyph per grapheme cluster of b, whose first
// byte sits at start.
func appendClusters(out []Glyph, b []byte, start int, attr Attr) []Glyph {
	state := -1
	off := 0
	for len(b) > 0 {
		var cluster []byte
		cluster, b, _, state = uniseg.Step(b, state)
		if len(cluster) == 0 {
			cluster, b = b[:1], b[1:]
		}
		out = append(out, clusterGlyph(cluster, start+off, attr))
		off += len(cluster)
	}
	return out
}

// runGlyphs turns the inline runs of one block into glyphs. The run index
// only moves forward, so consecutive calls must cover increasing ranges.
type runGlyphs struct {
	t     markdown.Text
	runs  []markdown.InlineRun
	idx   int
	stack styleStack
	raw   bool
	base  Attr
	env   *Env
}

func newRunGlyphs(t markdown.Text, runs []markdown.InlineRun, base Attr, raw bool, env *Env) *runGlyphs {
	return &runGlyphs{t: t, runs: runs, base: base, raw: raw, env: env}
}

func (r *runGlyphs) attr(extra markdown.Style) Attr {
	a := r.base
	a.Style |= r.stack.active() | extra
	return a
}

// markup returns the attribute of syntax characters shown in raw mode.
func (r *runGlyphs) markup() Attr {
	return r.attr(markdown.StyleSyntax)
}

// emit appends the glyphs of [from, to). Bytes outside any run are drawn
// with outside.
func (r *runGlyphs) emit(out []Glyph, from, to int, outside markdown.Style) []Glyph {
	pos := from
	for pos < to {
		for r.idx < len(r.runs) && r.runs[r.idx].End <= pos {
			r.idx++
		}
		var run *markdown.InlineRun
		if r.idx < len(r.runs) {
			run = &r.runs[r.idx]
		}
		switch {
		case run == nil || run.Start > pos:
			next := to
			if run != nil && run.Start < next {
				next = run.Start
			}
			out = appendClusters(out, markdown.Slice(r.t, pos, next), pos, r.attr(outside))
			pos = next
		case run.Start < pos || run.End > to || !run.Special():
			next := run.End
			if next > to {
				next = to
			}
			out = appendClusters(out, markdown.Slice(r.t, pos, next), pos, r.attr(0))
			pos = next
		default:
			out = r.special(out, run)
			pos = run.End
			r.idx++
		}
	}
	return out
}

func (r *runGlyphs) text(out []Glyph, start, end int, extra markdown.Style) []Glyph {
	if end <= start {
		return out
	}
	return appendClusters(out, markdown.Slice(r.t, start, end), start, r.attr(extra))
}

// special appends one special run. In rendered mode markup is hidden and
// the run is drawn as its display form; in raw mode every byte is shown.
func (r *runGlyphs) special(out []Glyph, run *markdown.InlineRun) []Glyph {
	switch d := run.Data.(type) {
	case markdown.Delimiter:
		if d.Open {
			if r.raw {
				out = r.text(out, run.Start, run.End, markdown.StyleSyntax)
			} else {
				out = append(out, hiddenGlyph(run.Start, run.End, r.attr(0)))
			}
			r.stack.push(d.Style)
			return out
		}
		if r.raw {
			out = r.text(out, run.Start, run.End, markdown.StyleSyntax)
		} else {
			out = append(out, hiddenGlyph(run.Start, run.End, r.attr(0)))
		}
		r.stack.pop(d.Style)
		return out

	case markdown.Link:
		if r.raw {
			out = r.text(out, run.Start, d.Text.Start, markdown.StyleSyntax)
			out = r.text(out, d.Text.Start, d.Text.End, markdown.StyleLink)
			return r.text(out, d.Text.End, run.End, markdown.StyleSyntax)
		}
		out = append(out, hiddenGlyph(run.Start, d.Text.Start, r.attr(0)))
		if d.Image {
			out = append(out, decoration("▣ ", r.attr(markdown.StyleLink)))
		}
		out = r.text(out, d.Text.Start, d.Text.End, markdown.StyleLink)
		return append(out, hiddenGlyph(d.Text.End, run.End, r.attr(0)))

	case markdown.Autolink:
		if r.raw {
			return r.text(out, run.Start, run.End, markdown.StyleLink)
		}
		out = append(out, hiddenGlyph(run.Start, d.URL.Start, r.attr(0)))
		out = r.text(out, d.URL.Start, d.URL.End, markdown.StyleLink)
		return append(out, hiddenGlyph(d.URL.End, run.End, r.attr(0)))

	case markdown.FootnoteRef:
		if r.raw {
			return r.text(out, run.Start, run.End, markdown.StyleFootnote)
		}
		id := string(markdown.Slice(r.t, d.ID.Start, d.ID.End))
		return append(out, atomGlyph("["+id+"]", run.Start, run.End, r.attr(markdown.StyleFootnote)))

	case markdown.Emoji:
		if r.raw {
			return r.text(out, run.Start, run.End, markdown.StyleSyntax)
		}
		return append(out, atomGlyph(d.Replacement, run.Start, run.End, r.attr(0)))

	case markdown.Entity:
		if r.raw {
			return r.text(out, run.Start, run.End, markdown.StyleSyntax)
		}
		return append(out, atomGlyph(d.Decoded, run.Start, run.End, r.attr(0)))

	case markdown.Escape:
		if r.raw {
			return r.text(out, run.Start, run.End, markdown.StyleSyntax)
		}
		return append(out, atomGlyph(string([]byte{d.Char}), run.Start, run.End, r.attr(0)))

	case *markdown.InlineMath:
		if r.raw {
			return r.text(out, run.Start, run.End, markdown.StyleMath)
		}
		if sk := r.sketch(d); sk != nil && len(sk.Rows) == 1 {
			return append(out, atomGlyph(sk.Rows[0], run.Start, run.End, r.attr(markdown.StyleMath)))
		}
		out = append(out, hiddenGlyph(run.Start, d.Content.Start, r.attr(0)))
		out = r.text(out, d.Content.Start, d.Content.End, markdown.StyleMath)
		return append(out, hiddenGlyph(d.Content.End, run.End, r.attr(0)))

	case markdown.HeadingID:
		if r.raw {
			return r.text(out, run.Start, run.End, markdown.StyleSyntax)
		}
		return append(out, hiddenGlyph(run.Start, run.End, r.attr(0)))
	}
	return r.text(out, run.Start, run.End, 0)
}

// sketch renders inline math once and caches the result on the run.
func (r *runGlyphs) sketch(m *markdown.InlineMath) *markdown.Sketch {
	if m.Sketch != nil {
		return m.Sketch
	}
	if r.env == nil || r.env.Math == nil {
		return nil
	}
	latex := string(markdown.Slice(r.t, m.Content.Start, m.Content.End))
	sk, err := r.env.Math.Render(latex, false)
	if err != nil || sk == nil {
		return nil
	}
	m.Sketch = sk
	return sk
}
