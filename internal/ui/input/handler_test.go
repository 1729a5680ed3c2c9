package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdwrite/internal/editor"
)

func drain(ch chan editor.Action) []editor.Action {
	var out []editor.Action
	for {
		select {
		case a := <-ch:
			out = append(out, a)
		default:
			return out
		}
	}
}

func expectOne(t *testing.T, ch chan editor.Action) editor.Action {
	t.Helper()
	actions := drain(ch)
	if len(actions) != 1 {
		t.Fatalf("expected one action, got %v", actions)
	}
	return actions[0]
}

func TestKeyBindings(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want editor.Action
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'é', tcell.ModNone), editor.InsertAction{Text: "é"}},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), editor.InsertAction{Text: "\t"}},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), editor.NewlineAction{}},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), editor.BackspaceAction{}},
		{"delete", tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), editor.DeleteAction{}},
		{"save", tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), editor.SaveAction{}},
		{"suspend", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl), editor.SuspendAction{}},
		{"quit", tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl), editor.QuitAction{}},
		{"copy", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), editor.CopyAction{}},
		{"cut", tcell.NewEventKey(tcell.KeyCtrlX, 0, tcell.ModCtrl), editor.CutAction{}},
		{"paste", tcell.NewEventKey(tcell.KeyCtrlV, 0, tcell.ModCtrl), editor.PasteAction{}},
		{"select all", tcell.NewEventKey(tcell.KeyCtrlA, 0, tcell.ModCtrl), editor.SelectAllAction{}},
		{"toggle task", tcell.NewEventKey(tcell.KeyCtrlT, 0, tcell.ModCtrl), editor.ToggleTaskAction{}},
		{"plain", tcell.NewEventKey(tcell.KeyCtrlP, 0, tcell.ModCtrl), editor.TogglePlainAction{}},
		{"help", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), editor.HelpToggleAction{}},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), editor.ClearSelectionAction{}},
		{"left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), editor.MoveAction{Direction: "left"}},
		{"shift right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModShift), editor.MoveAction{Direction: "right", Extend: true}},
		{"page down", tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone), editor.MoveAction{Direction: "pagedown"}},
		{"home", tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone), editor.MoveAction{Direction: "home"}},
		{"ctrl home", tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModCtrl), editor.MoveAction{Direction: "top"}},
		{"ctrl shift end", tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModCtrl|tcell.ModShift), editor.MoveAction{Direction: "bottom", Extend: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actionChan := make(chan editor.Action, 4)
			handler := NewInputHandler(actionChan)
			if !handler.ProcessEvent(tt.ev) {
				t.Fatal("expected handler to keep running")
			}
			if got := expectOne(t, actionChan); got != tt.want {
				t.Fatalf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestHelpVisibleSwallowsEditingKeys(t *testing.T) {
	actionChan := make(chan editor.Action, 4)
	handler := NewInputHandler(actionChan)
	handler.SetHelpVisible(true)

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone))
	if actions := drain(actionChan); len(actions) != 0 {
		t.Fatalf("expected no actions while help is visible, got %v", actions)
	}

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if _, ok := expectOne(t, actionChan).(editor.HelpHideAction); !ok {
		t.Fatal("expected Escape to hide help")
	}

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl))
	if _, ok := expectOne(t, actionChan).(editor.QuitAction); !ok {
		t.Fatal("expected Ctrl+Q to quit from help")
	}
}

func TestBracketedPasteBecomesOneAction(t *testing.T) {
	actionChan := make(chan editor.Action, 4)
	handler := NewInputHandler(actionChan)

	handler.ProcessEvent(tcell.NewEventPaste(true))
	for _, r := range "ab" {
		handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone))
	handler.ProcessEvent(tcell.NewEventPaste(false))

	got := expectOne(t, actionChan)
	if got != (editor.PasteTextAction{Text: "ab\nc"}) {
		t.Fatalf("expected paste text, got %#v", got)
	}
}

func TestMouseClickAndDrag(t *testing.T) {
	actionChan := make(chan editor.Action, 8)
	handler := NewInputHandler(actionChan)

	handler.ProcessEvent(tcell.NewEventMouse(4, 2, tcell.Button1, tcell.ModNone))
	handler.ProcessEvent(tcell.NewEventMouse(9, 3, tcell.Button1, tcell.ModNone))
	handler.ProcessEvent(tcell.NewEventMouse(9, 3, tcell.ButtonNone, tcell.ModNone))
	handler.ProcessEvent(tcell.NewEventMouse(1, 1, tcell.Button1, tcell.ModNone))

	want := []editor.Action{
		editor.ClickAction{Row: 2, Col: 4},
		editor.ClickAction{Row: 3, Col: 9, Extend: true},
		editor.ClickAction{Row: 1, Col: 1},
	}
	got := drain(actionChan)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("action %d: expected %#v, got %#v", i, want[i], got[i])
		}
	}
}

func TestMouseWheelMovesRows(t *testing.T) {
	actionChan := make(chan editor.Action, 8)
	handler := NewInputHandler(actionChan)

	handler.ProcessEvent(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	got := drain(actionChan)
	if len(got) != wheelRows {
		t.Fatalf("expected %d moves, got %v", wheelRows, got)
	}
	if got[0] != (editor.MoveAction{Direction: "down"}) {
		t.Fatalf("unexpected action %#v", got[0])
	}
}

func TestResizeEmitsAction(t *testing.T) {
	actionChan := make(chan editor.Action, 1)
	handler := NewInputHandler(actionChan)

	handler.ProcessEvent(tcell.NewEventResize(100, 40))
	if got := expectOne(t, actionChan); got != (editor.ResizeAction{Width: 100, Height: 40}) {
		t.Fatalf("unexpected action %#v", got)
	}
}
