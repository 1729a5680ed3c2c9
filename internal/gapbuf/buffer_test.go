package gapbuf

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertDeleteMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	alphabet := []string{"a", "b", " ", "\n", "é", "日", "👍", "**"}

	buf := NewString("")
	var ref []byte
	for step := 0; step < 2000; step++ {
		if rng.IntN(3) > 0 || len(ref) == 0 {
			pos := rng.IntN(len(ref) + 1)
			s := alphabet[rng.IntN(len(alphabet))]
			buf.InsertString(pos, s)
			ref = append(ref[:pos], append([]byte(s), ref[pos:]...)...)
		} else {
			pos := rng.IntN(len(ref))
			n := rng.IntN(len(ref)-pos) + 1
			buf.Delete(pos, n)
			ref = append(ref[:pos], ref[pos+n:]...)
		}
		require.Equal(t, len(ref), buf.Len(), "step %d", step)
	}
	assert.Equal(t, string(ref), buf.String())
}

func TestPositionsClamp(t *testing.T) {
	buf := NewString("hello")

	buf.InsertString(-5, ">")
	buf.InsertString(100, "<")
	assert.Equal(t, ">hello<", buf.String())

	buf.Delete(5, 100)
	assert.Equal(t, ">hell", buf.String())

	buf.Delete(-3, 0)
	assert.Equal(t, ">hell", buf.String())

	assert.Equal(t, byte(0), buf.ByteAt(-1))
	assert.Equal(t, byte(0), buf.ByteAt(buf.Len()))
	assert.Equal(t, "", buf.Substr(4, 2))
}

func TestGrowthAcrossGap(t *testing.T) {
	buf := NewString("abc")
	big := make([]byte, 3*minGap)
	for i := range big {
		big[i] = 'x'
	}
	buf.Insert(1, big)
	assert.Equal(t, 3+len(big), buf.Len())
	assert.Equal(t, byte('a'), buf.ByteAt(0))
	assert.Equal(t, byte('b'), buf.ByteAt(1+len(big)))

	dst := make([]byte, 4)
	n := buf.CopyInto(len(big)-1, 4, dst)
	assert.Equal(t, 4, n)
	assert.Equal(t, "xxbc", string(dst))
}

func TestCopyIntoStraddlesGap(t *testing.T) {
	buf := NewString("0123456789")
	buf.Delete(4, 2)
	buf.InsertString(4, "ab")

	dst := make([]byte, 6)
	require.Equal(t, 6, buf.CopyInto(2, 6, dst))
	assert.Equal(t, "23ab67", string(dst))
}
