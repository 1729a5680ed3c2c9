package highlight

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sgrPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

func TestHighlightKeepsText(t *testing.T) {
	h := New("monokai")
	for _, code := range []string{
		"package main\n\nfunc main() {}\n",
		"x := 1",
		"",
	} {
		out, err := h.Highlight(code, "go")
		require.NoError(t, err)
		assert.Equal(t, code, sgrPattern.ReplaceAllString(out, ""))
	}
}

func TestHighlightEmitsColor(t *testing.T) {
	out, err := New("monokai").Highlight("func f() {}\n", "go")
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[0;")
	assert.Contains(t, out, "38;2;")
}

func TestHighlightUnknownLanguage(t *testing.T) {
	h := New("monokai")
	_, err := h.Highlight("x", "no-such-language")
	assert.True(t, errors.Is(err, ErrUnknownLanguage))
	_, err = h.Highlight("x", "")
	assert.True(t, errors.Is(err, ErrUnknownLanguage))
}
