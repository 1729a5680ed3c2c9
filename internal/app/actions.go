package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	fsutil "github.com/kk-code-lab/mdwrite/internal/fs"
	"go.uber.org/zap"
)

var imageExtensions = map[string]struct{}{
	".gif": {}, ".jpeg": {}, ".jpg": {}, ".png": {},
}

func (app *Application) handleQuit() bool {
	if app.session.Modified() && !app.quitArmed {
		app.quitArmed = true
		app.message = "unsaved changes, press Ctrl+Q again to quit"
		return true
	}
	app.shouldQuit = true
	return false
}

func (app *Application) save() {
	if app.doc.Path == "" {
		app.message = "no file name"
		return
	}
	text := []byte(app.session.String())
	if err := fsutil.SaveDocument(app.doc, text); err != nil {
		app.log.Error("save failed", zap.String("path", app.doc.Path), zap.Error(err))
		app.message = fmt.Sprintf("save failed: %v", err)
		return
	}
	app.session.MarkSaved()
	app.message = "saved"
	app.log.Info("saved", zap.String("path", app.doc.Path), zap.Int("bytes", len(text)))
}

func (app *Application) copySelection(cut bool) {
	text := app.session.SelectedText()
	if text == "" {
		return
	}
	if err := app.clip.WriteAll(text); err != nil {
		app.log.Warn("clipboard write", zap.Error(err))
		app.message = "clipboard unavailable"
		return
	}
	if cut {
		app.session.DeleteSelection()
	}
}

func (app *Application) pasteClipboard() {
	text, err := app.clip.ReadAll()
	if err != nil {
		app.log.Warn("clipboard read", zap.Error(err))
		app.message = "clipboard unavailable"
		return
	}
	app.insertPaste(text)
}

func (app *Application) insertPaste(text string) {
	if text = fsutil.NormalizePaste(text); text != "" {
		app.session.Insert(text)
	}
}

func (app *Application) watch() error {
	if app.doc.Path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(app.doc.Path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	app.watcher = w
	return nil
}

// handleFileEvent reacts to a change in the document's directory. The
// directory is watched instead of the file so editors that save by
// renaming a temporary file are still seen.
func (app *Application) handleFileEvent(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if filepath.Clean(ev.Name) != filepath.Clean(app.doc.Path) {
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(ev.Name))]; !ok {
			return false
		}
		app.images.Invalidate()
		app.session.SetOptions(app.session.Options())
		return true
	}
	return app.reloadIfChanged()
}

func (app *Application) reloadIfChanged() bool {
	info, err := os.Stat(app.doc.Path)
	if err != nil {
		return false
	}
	if info.ModTime().Equal(app.doc.ModTime) {
		return false
	}
	if app.session.Modified() {
		app.message = "file changed on disk, Ctrl+S overwrites it"
		return true
	}
	doc, err := fsutil.LoadDocument(app.doc.Path)
	if err != nil {
		if errors.Is(err, fsutil.ErrBinary) {
			app.message = "file on disk is no longer text"
		} else {
			app.message = fmt.Sprintf("reload failed: %v", err)
		}
		app.log.Warn("reload failed", zap.String("path", app.doc.Path), zap.Error(err))
		return true
	}
	app.doc = doc
	app.session.SetText(doc.Text)
	app.message = "reloaded"
	app.log.Info("reloaded", zap.String("path", doc.Path), zap.Int("bytes", len(doc.Text)))
	return true
}
