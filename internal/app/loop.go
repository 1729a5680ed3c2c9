package app

import (
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdwrite/internal/editor"
	"github.com/kk-code-lab/mdwrite/internal/layout"
	renderui "github.com/kk-code-lab/mdwrite/internal/ui/render"
	"go.uber.org/zap"
)

// Run processes events until the user quits.
func (app *Application) Run() {
	app.render()
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	var fileEvents <-chan fsnotify.Event
	var fileErrors <-chan error
	if app.watcher != nil {
		fileEvents = app.watcher.Events
		fileErrors = app.watcher.Errors
	}

	for !app.shouldQuit {
		if renderPending {
			app.render()
			renderPending = false
		}

		select {
		case ev, ok := <-eventChan:
			if !ok {
				return
			}
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case ev := <-fileEvents:
			if app.handleFileEvent(ev) {
				renderPending = true
			}
		case err := <-fileErrors:
			app.log.Warn("file watcher", zap.Error(err))
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev.(type) {
	case *tcell.EventKey, *tcell.EventMouse, *tcell.EventPaste, *tcell.EventResize:
		app.input.SetHelpVisible(app.helpVisible)
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
		return false
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) handleAction(action editor.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case editor.QuitAction:
		return app.handleQuit()
	case editor.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	}

	app.quitArmed = false
	return app.handleAppAction(action)
}

func (app *Application) handleAppAction(action editor.Action) bool {
	switch a := action.(type) {
	case editor.SaveAction:
		app.save()
	case editor.CopyAction:
		app.copySelection(false)
	case editor.CutAction:
		app.copySelection(true)
	case editor.PasteAction:
		app.pasteClipboard()
	case editor.PasteTextAction:
		app.insertPaste(a.Text)
	case editor.HelpToggleAction:
		app.helpVisible = !app.helpVisible
	case editor.HelpHideAction:
		app.helpVisible = false
	case editor.ResizeAction:
		app.screen.Sync()
	default:
		if !app.session.Apply(action) {
			return false
		}
		app.message = ""
	}
	return true
}

func (app *Application) render() {
	w, h := app.screen.Size()
	var frame *layout.Frame
	if !app.helpVisible && h > 1 {
		frame = app.session.Frame(w, h-1)
		app.log.Debug("frame",
			zap.Int("ops", len(frame.Ops)),
			zap.Int("rows", frame.TotalRows),
			zap.Int("scroll", frame.Scroll))
	}
	app.renderer.Draw(frame, app.status())
}

func (app *Application) status() renderui.Status {
	if v := app.session.Version(); !app.wordsValid || v != app.wordsVersion {
		app.words = app.session.WordCount()
		app.wordsVersion = v
		app.wordsValid = true
	}
	line, col := app.session.Position()
	name := ""
	if app.doc.Path != "" {
		name = filepath.Base(app.doc.Path)
	}
	return renderui.Status{
		Name:     name,
		Modified: app.session.Modified(),
		Plain:    app.session.Options().Plain,
		Words:    app.words,
		Line:     line,
		Col:      col,
		Message:  app.message,
		Help:     app.helpVisible,
	}
}
