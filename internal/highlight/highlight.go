// Package highlight colors fenced code with chroma and returns the code
// decorated with ANSI SGR sequences.
package highlight

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ErrUnknownLanguage is returned for a language chroma has no lexer for.
var ErrUnknownLanguage = errors.New("unknown language")

// Highlighter tokenizes code with chroma lexers and a chroma style.
type Highlighter struct {
	style *chroma.Style

	mu         sync.Mutex
	lexers     map[string]chroma.Lexer
	styleCache map[chroma.TokenType]string
}

// New creates a highlighter for the named chroma style. Unknown styles use
// chroma's fallback style.
func New(theme string) *Highlighter {
	return &Highlighter{
		style:      styles.Get(theme),
		lexers:     make(map[string]chroma.Lexer),
		styleCache: make(map[chroma.TokenType]string),
	}
}

func (h *Highlighter) lexer(lang string) chroma.Lexer {
	if l, ok := h.lexers[lang]; ok {
		return l
	}
	l := lexers.Get(lang)
	if l != nil {
		l = chroma.Coalesce(l)
	}
	h.lexers[lang] = l
	return l
}

// Highlight returns code with an SGR sequence before every token whose
// style differs from the previous one. The text between sequences is the
// code unchanged.
func (h *Highlighter) Highlight(code, lang string) (string, error) {
	if lang == "" {
		return "", ErrUnknownLanguage
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	lexer := h.lexer(lang)
	if lexer == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownLanguage, lang)
	}
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", lang, err)
	}

	var b strings.Builder
	b.Grow(len(code) * 2)
	last := ""
	n := 0
	for tok := it(); tok != chroma.EOF; tok = it() {
		// Lexers may append a final newline the code does not have.
		if rest := len(code) - n; len(tok.Value) > rest {
			tok.Value = tok.Value[:rest]
		}
		if tok.Value == "" {
			continue
		}
		seq := h.sgr(tok.Type)
		if seq != last {
			b.WriteString(seq)
			last = seq
		}
		b.WriteString(tok.Value)
		n += len(tok.Value)
	}
	if n != len(code) {
		return "", fmt.Errorf("highlight %s: lexer changed the text", lang)
	}
	return b.String(), nil
}

// sgr returns the escape sequence for a token type, always starting with a
// reset so styles never leak between tokens.
func (h *Highlighter) sgr(tt chroma.TokenType) string {
	if seq, ok := h.styleCache[tt]; ok {
		return seq
	}
	entry := h.style.Get(tt)
	params := []string{"0"}
	if entry.Bold == chroma.Yes {
		params = append(params, "1")
	}
	if entry.Italic == chroma.Yes {
		params = append(params, "3")
	}
	if entry.Underline == chroma.Yes {
		params = append(params, "4")
	}
	if entry.Colour.IsSet() {
		params = append(params, fmt.Sprintf("38;2;%d;%d;%d", entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue()))
	}
	seq := "\x1b[" + strings.Join(params, ";") + "m"
	h.styleCache[tt] = seq
	return seq
}
