package app

import (
	"fmt"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdwrite/internal/config"
	"github.com/kk-code-lab/mdwrite/internal/editor"
	fsutil "github.com/kk-code-lab/mdwrite/internal/fs"
	"github.com/kk-code-lab/mdwrite/internal/highlight"
	"github.com/kk-code-lab/mdwrite/internal/imageres"
	"github.com/kk-code-lab/mdwrite/internal/texsketch"
	inputui "github.com/kk-code-lab/mdwrite/internal/ui/input"
	renderui "github.com/kk-code-lab/mdwrite/internal/ui/render"
	"go.uber.org/zap"
)

// Clipboard is the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Application represents the running app.
type Application struct {
	screen   tcell.Screen
	session  *editor.Session
	doc      *fsutil.Document
	cfg      config.Config
	log      *zap.Logger
	images   *imageres.Resolver
	renderer *renderui.Renderer
	input    *inputui.InputHandler
	actionCh chan editor.Action
	clip     Clipboard
	watcher  *fsnotify.Watcher

	shouldQuit  bool
	quitArmed   bool
	helpVisible bool
	message     string

	words        int
	wordsVersion uint64
	wordsValid   bool
}

// NewApplication opens path on a fresh terminal screen.
func NewApplication(path string, cfg config.Config, log *zap.Logger) (*Application, error) {
	doc, err := fsutil.LoadDocument(path)
	if err != nil {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.EnablePaste()

	if clipboard.Unsupported {
		log.Warn("system clipboard unavailable")
	}
	app := newApplication(screen, doc, cfg, log, systemClipboard{})
	if err := app.watch(); err != nil {
		log.Warn("file watching disabled", zap.String("path", doc.Path), zap.Error(err))
	}
	log.Info("opened document",
		zap.String("path", doc.Path),
		zap.Int("bytes", len(doc.Text)),
		zap.Bool("crlf", doc.CRLF))
	return app, nil
}

func newApplication(screen tcell.Screen, doc *fsutil.Document, cfg config.Config, log *zap.Logger, clip Clipboard) *Application {
	images := imageres.New(filepath.Dir(doc.Path), log)
	actionCh := make(chan editor.Action, 64)
	return &Application{
		screen:   screen,
		session:  editor.New(doc.Text, EditorOptions(cfg, images)),
		doc:      doc,
		cfg:      cfg,
		log:      log,
		images:   images,
		renderer: renderui.NewRenderer(screen, renderui.NewColorTheme(cfg.Theme)),
		input:    inputui.NewInputHandler(actionCh),
		actionCh: actionCh,
		clip:     clip,
	}
}

// EditorOptions translates the configuration into session options.
func EditorOptions(cfg config.Config, images *imageres.Resolver) editor.Options {
	opts := editor.DefaultOptions()
	opts.TextWidth = cfg.TextWidth
	opts.Wrap.TabSize = cfg.TabSize
	opts.Wrap.SplitWords = cfg.SplitWords
	opts.Wrap.KeepDashWithWord = cfg.KeepDashWithWord
	opts.ScaleHeaders = cfg.ScaleHeaders
	opts.CellPixelWidth = cfg.CellPixelWidth
	opts.CellPixelHeight = cfg.CellPixelHeight
	opts.Highlighter = highlight.New(cfg.CodeTheme)
	opts.Math = texsketch.New()
	if images != nil {
		opts.Images = images
	}
	return opts
}

// Close cleans up resources.
func (app *Application) Close() error {
	var err error
	if app.watcher != nil {
		if cerr := app.watcher.Close(); cerr != nil {
			err = fmt.Errorf("close watcher: %w", cerr)
		}
	}
	app.screen.Fini()
	_ = app.log.Sync()
	return err
}

// Modified reports whether the document has unsaved changes.
func (app *Application) Modified() bool {
	return app.session.Modified()
}
