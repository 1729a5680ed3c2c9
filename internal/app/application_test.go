package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdwrite/internal/config"
	"github.com/kk-code-lab/mdwrite/internal/editor"
	fsutil "github.com/kk-code-lab/mdwrite/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.text, c.err }

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func newTestApp(t *testing.T, content string) (*Application, tcell.SimulationScreen, *fakeClipboard) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	doc, err := fsutil.LoadDocument(path)
	require.NoError(t, err)

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(40, 12)

	clip := &fakeClipboard{}
	app := newApplication(screen, doc, config.Default(), zap.NewNop(), clip)
	t.Cleanup(func() { _ = app.Close() })
	return app, screen, clip
}

func screenRow(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		mainc, _, _, _ := s.GetContent(x, y)
		b.WriteRune(mainc)
	}
	return b.String()
}

func TestSaveWritesDocument(t *testing.T) {
	app, _, _ := newTestApp(t, "world\r\n")
	app.handleAction(editor.InsertAction{Text: "hello "})
	require.True(t, app.Modified())

	app.handleAction(editor.SaveAction{})
	assert.False(t, app.Modified())
	assert.Equal(t, "saved", app.message)

	data, err := os.ReadFile(app.doc.Path)
	require.NoError(t, err)
	assert.Equal(t, "hello world\r\n", string(data), "line endings are preserved")
}

func TestQuitAsksAgainWhenModified(t *testing.T) {
	app, _, _ := newTestApp(t, "text")
	app.handleAction(editor.InsertAction{Text: "x"})

	app.handleAction(editor.QuitAction{})
	assert.False(t, app.shouldQuit)
	assert.Contains(t, app.message, "unsaved")

	app.handleAction(editor.MoveAction{Direction: "left"})
	app.handleAction(editor.QuitAction{})
	assert.False(t, app.shouldQuit, "any other action disarms quit")

	app.handleAction(editor.QuitAction{})
	assert.True(t, app.shouldQuit)
}

func TestQuitUnmodifiedIsImmediate(t *testing.T) {
	app, _, _ := newTestApp(t, "text")
	app.handleAction(editor.QuitAction{})
	assert.True(t, app.shouldQuit)
}

func TestCutAndPaste(t *testing.T) {
	app, _, clip := newTestApp(t, "alpha")
	app.handleAction(editor.SelectAllAction{})
	app.handleAction(editor.CutAction{})
	assert.Equal(t, "alpha", clip.text)
	assert.Equal(t, "", app.session.String())

	clip.text = "a\r\nb"
	app.handleAction(editor.PasteAction{})
	assert.Equal(t, "a\nb", app.session.String())
}

func TestCopyKeepsText(t *testing.T) {
	app, _, clip := newTestApp(t, "alpha")
	app.handleAction(editor.SelectAllAction{})
	app.handleAction(editor.CopyAction{})
	assert.Equal(t, "alpha", clip.text)
	assert.Equal(t, "alpha", app.session.String())
}

func TestClipboardFailureReported(t *testing.T) {
	app, _, clip := newTestApp(t, "alpha")
	clip.err = errors.New("no xclip")
	app.handleAction(editor.SelectAllAction{})
	app.handleAction(editor.CutAction{})
	assert.Equal(t, "alpha", app.session.String())
	assert.Equal(t, "clipboard unavailable", app.message)
}

func TestPasteTextIsNormalized(t *testing.T) {
	app, _, _ := newTestApp(t, "")
	app.handleAction(editor.PasteTextAction{Text: "e\u0301\r\n"})
	assert.Equal(t, "\u00e9\n", app.session.String())
}

func TestExternalChangeReloadsCleanBuffer(t *testing.T) {
	app, _, _ := newTestApp(t, "old")
	require.NoError(t, os.WriteFile(app.doc.Path, []byte("new text"), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(app.doc.Path, future, future))

	changed := app.handleFileEvent(fsnotify.Event{Name: app.doc.Path, Op: fsnotify.Write})
	assert.True(t, changed)
	assert.Equal(t, "new text", app.session.String())
	assert.False(t, app.Modified())
	assert.Equal(t, "reloaded", app.message)
}

func TestExternalChangeKeepsEditedBuffer(t *testing.T) {
	app, _, _ := newTestApp(t, "old")
	app.handleAction(editor.InsertAction{Text: "mine "})
	require.NoError(t, os.WriteFile(app.doc.Path, []byte("theirs"), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(app.doc.Path, future, future))

	app.handleFileEvent(fsnotify.Event{Name: app.doc.Path, Op: fsnotify.Write})
	assert.Equal(t, "mine old", app.session.String())
	assert.Contains(t, app.message, "changed on disk")
}

func TestOwnSaveDoesNotReload(t *testing.T) {
	app, _, _ := newTestApp(t, "text")
	app.handleAction(editor.InsertAction{Text: "more "})
	app.handleAction(editor.SaveAction{})

	assert.False(t, app.handleFileEvent(fsnotify.Event{Name: app.doc.Path, Op: fsnotify.Write}))
	assert.Equal(t, "saved", app.message)
}

func TestUnrelatedFileEventsIgnored(t *testing.T) {
	app, _, _ := newTestApp(t, "text")
	other := filepath.Join(filepath.Dir(app.doc.Path), "todo.txt")
	assert.False(t, app.handleFileEvent(fsnotify.Event{Name: other, Op: fsnotify.Write}))

	img := filepath.Join(filepath.Dir(app.doc.Path), "figure.png")
	assert.True(t, app.handleFileEvent(fsnotify.Event{Name: img, Op: fsnotify.Create}))
	assert.False(t, app.handleFileEvent(fsnotify.Event{Name: app.doc.Path, Op: fsnotify.Chmod}))
}

func TestRenderShowsDocumentAndStatus(t *testing.T) {
	app, screen, _ := newTestApp(t, "one two three")
	app.render()

	assert.Contains(t, screenRow(screen, 0), "one two three")
	status := screenRow(screen, 11)
	assert.Contains(t, status, "notes.md")
	assert.Contains(t, status, "3 words")
	assert.Contains(t, status, "Ln 1, Col 1")

	app.handleAction(editor.InsertAction{Text: "zero "})
	app.render()
	status = screenRow(screen, 11)
	assert.Contains(t, status, "notes.md [+]")
	assert.Contains(t, status, "4 words")
	assert.Contains(t, status, "Col 6")
}

func TestHelpToggle(t *testing.T) {
	app, screen, _ := newTestApp(t, "body")
	app.handleAction(editor.HelpToggleAction{})
	require.True(t, app.helpVisible)
	app.render()
	assert.Contains(t, screenRow(screen, 0), "Help")

	app.handleAction(editor.HelpHideAction{})
	assert.False(t, app.helpVisible)
}

func TestEditorOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.TextWidth = 60
	cfg.TabSize = 8
	cfg.SplitWords = false
	cfg.KeepDashWithWord = true
	cfg.ScaleHeaders = false

	opts := EditorOptions(cfg, nil)
	assert.Equal(t, 60, opts.TextWidth)
	assert.Equal(t, 8, opts.Wrap.TabSize)
	assert.False(t, opts.Wrap.SplitWords)
	assert.True(t, opts.Wrap.KeepDashWithWord)
	assert.False(t, opts.ScaleHeaders)
	assert.NotNil(t, opts.Highlighter)
	assert.NotNil(t, opts.Math)
	assert.Nil(t, opts.Images)
}
