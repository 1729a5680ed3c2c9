package texsketch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderInline(t *testing.T) {
	tests := []struct {
		latex string
		want  string
	}{
		{"x^2", "x²"},
		{"x_i", "xᵢ"},
		{"x^{10}", "x¹⁰"},
		{"x^{q}", "x^q"},
		{"e^{i\\pi}", "e^(iπ)"},
		{"\\alpha + \\beta", "α+β"},
		{"\\frac{1}{2}", "1/2"},
		{"\\frac{a+b}{2}", "(a+b)/2"},
		{"\\sqrt{2}", "√2"},
		{"\\sqrt{x+1}", "√(x+1)"},
		{"\\text{if } x", "if x"},
		{"a \\leq b", "a≤b"},
	}
	r := New()
	for _, tt := range tests {
		t.Run(tt.latex, func(t *testing.T) {
			sk, err := r.Render(tt.latex, false)
			require.NoError(t, err)
			require.Len(t, sk.Rows, 1)
			assert.Equal(t, tt.want, sk.Rows[0])
			assert.Equal(t, 1, sk.Height)
		})
	}
}

func TestRenderDisplayFraction(t *testing.T) {
	sk, err := New().Render("\\frac{a+b}{2}", true)
	require.NoError(t, err)
	assert.Equal(t, []string{" a + b ", "───────", "   2   "}, sk.Rows)
	assert.Equal(t, 7, sk.Width)
	assert.Equal(t, 3, sk.Height)
}

func TestRenderDisplayAlignsBaseline(t *testing.T) {
	sk, err := New().Render("x = \\frac{1}{2}", true)
	require.NoError(t, err)
	require.Len(t, sk.Rows, 3)
	assert.Equal(t, "     1 ", sk.Rows[0])
	assert.Equal(t, "x = ───", sk.Rows[1])
	assert.Equal(t, "     2 ", sk.Rows[2])
}

func TestRenderErrors(t *testing.T) {
	r := New()
	_, err := r.Render("\\foo", false)
	assert.True(t, errors.Is(err, ErrUnsupported))
	_, err = r.Render("\\frac{1}", true)
	assert.True(t, errors.Is(err, ErrSyntax))
	_, err = r.Render("{x", true)
	assert.True(t, errors.Is(err, ErrSyntax))
	_, err = r.Render("x}", true)
	assert.True(t, errors.Is(err, ErrSyntax))
}
