package input

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdwrite/internal/editor"
)

const wheelRows = 3

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan  chan editor.Action
	helpVisible bool

	pasting  bool
	paste    strings.Builder
	dragging bool
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan editor.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetHelpVisible tells the handler whether keys go to the help overlay.
func (ih *InputHandler) SetHelpVisible(visible bool) {
	ih.helpVisible = visible
}

// ProcessEvent converts a tcell event into Actions. It returns false when
// the application should stop reading events.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventPaste:
		ih.processPaste(ev)
		return true
	case *tcell.EventKey:
		if ih.pasting {
			ih.collectPaste(ev)
			return true
		}
		return ih.processKeyEvent(ev)
	case *tcell.EventMouse:
		ih.processMouseEvent(ev)
		return true
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- editor.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) processPaste(ev *tcell.EventPaste) {
	if ev.Start() {
		ih.pasting = true
		ih.paste.Reset()
		return
	}
	ih.pasting = false
	if ih.paste.Len() > 0 {
		ih.actionChan <- editor.PasteTextAction{Text: ih.paste.String()}
	}
	ih.paste.Reset()
}

func (ih *InputHandler) collectPaste(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		ih.paste.WriteRune(ev.Rune())
	case tcell.KeyEnter, tcell.KeyLF:
		ih.paste.WriteByte('\n')
	case tcell.KeyTab:
		ih.paste.WriteByte('\t')
	}
}

// processKeyEvent handles keyboard input
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if ih.helpVisible {
		switch ev.Key() {
		case tcell.KeyCtrlQ:
			ih.actionChan <- editor.QuitAction{}
		case tcell.KeyEscape, tcell.KeyF1:
			ih.actionChan <- editor.HelpHideAction{}
		case tcell.KeyRune:
			if r := ev.Rune(); r == '?' || r == 'q' {
				ih.actionChan <- editor.HelpHideAction{}
			}
		}
		return true
	}

	extend := ev.Modifiers()&tcell.ModShift != 0
	ctrl := ev.Modifiers()&tcell.ModCtrl != 0

	switch ev.Key() {
	case tcell.KeyF1:
		ih.actionChan <- editor.HelpToggleAction{}
	case tcell.KeyEscape:
		ih.actionChan <- editor.ClearSelectionAction{}

	case tcell.KeyCtrlQ:
		ih.actionChan <- editor.QuitAction{}
	case tcell.KeyCtrlS:
		ih.actionChan <- editor.SaveAction{}
	case tcell.KeyCtrlZ:
		ih.actionChan <- editor.SuspendAction{}
	case tcell.KeyCtrlC:
		ih.actionChan <- editor.CopyAction{}
	case tcell.KeyCtrlX:
		ih.actionChan <- editor.CutAction{}
	case tcell.KeyCtrlV:
		ih.actionChan <- editor.PasteAction{}
	case tcell.KeyCtrlA:
		ih.actionChan <- editor.SelectAllAction{}
	case tcell.KeyCtrlT:
		ih.actionChan <- editor.ToggleTaskAction{}
	case tcell.KeyCtrlP:
		ih.actionChan <- editor.TogglePlainAction{}

	case tcell.KeyLeft:
		ih.move("left", extend)
	case tcell.KeyRight:
		ih.move("right", extend)
	case tcell.KeyUp:
		ih.move("up", extend)
	case tcell.KeyDown:
		ih.move("down", extend)
	case tcell.KeyHome:
		if ctrl {
			ih.move("top", extend)
		} else {
			ih.move("home", extend)
		}
	case tcell.KeyEnd:
		if ctrl {
			ih.move("bottom", extend)
		} else {
			ih.move("end", extend)
		}
	case tcell.KeyPgUp:
		ih.move("pageup", extend)
	case tcell.KeyPgDn:
		ih.move("pagedown", extend)

	case tcell.KeyEnter:
		ih.actionChan <- editor.NewlineAction{}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.actionChan <- editor.BackspaceAction{}
	case tcell.KeyDelete:
		ih.actionChan <- editor.DeleteAction{}
	case tcell.KeyTab:
		ih.actionChan <- editor.InsertAction{Text: "\t"}
	case tcell.KeyRune:
		ih.actionChan <- editor.InsertAction{Text: string(ev.Rune())}
	}
	return true
}

func (ih *InputHandler) move(direction string, extend bool) {
	ih.actionChan <- editor.MoveAction{Direction: direction, Extend: extend}
}

// processMouseEvent turns a left press into a click, motion with the
// button held into a selection drag, and the wheel into row motion.
func (ih *InputHandler) processMouseEvent(ev *tcell.EventMouse) {
	if ih.helpVisible {
		return
	}
	x, y := ev.Position()
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.Button1 != 0:
		extend := ih.dragging || ev.Modifiers()&tcell.ModShift != 0
		ih.dragging = true
		ih.actionChan <- editor.ClickAction{Row: y, Col: x, Extend: extend}
	case buttons&tcell.WheelUp != 0:
		for i := 0; i < wheelRows; i++ {
			ih.move("up", false)
		}
	case buttons&tcell.WheelDown != 0:
		for i := 0; i < wheelRows; i++ {
			ih.move("down", false)
		}
	default:
		ih.dragging = false
	}
}
