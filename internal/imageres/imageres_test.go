package imageres

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func TestResolveRelativePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "img"), 0o755))
	writePNG(t, filepath.Join(dir, "img", "cat.png"), 32, 16)

	r := New(dir, nil)
	path, w, h, ok := r.Resolve("img/cat.png")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "img", "cat.png"), path)
	assert.Equal(t, 32, w)
	assert.Equal(t, 16, h)
}

func TestResolveCachesUntilInvalidated(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, nil)
	_, _, _, ok := r.Resolve("late.png")
	assert.False(t, ok)

	writePNG(t, filepath.Join(dir, "late.png"), 4, 4)
	_, _, _, ok = r.Resolve("late.png")
	assert.False(t, ok, "cached miss")

	r.Invalidate()
	_, w, _, ok := r.Resolve("late.png")
	assert.True(t, ok)
	assert.Equal(t, 4, w)
}

func TestResolveRejectsRemoteAndGarbage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not an image"), 0o644))
	r := New(dir, nil)

	_, _, _, ok := r.Resolve("https://example.com/a.png")
	assert.False(t, ok)
	path, _, _, ok := r.Resolve("bad.png")
	assert.False(t, ok)
	assert.Equal(t, filepath.Join(dir, "bad.png"), path)
}
