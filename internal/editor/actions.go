package editor

// Action is the base interface for all session mutations
type Action interface{}

// ===== EDIT ACTIONS =====

type InsertAction struct {
	Text string
}
type NewlineAction struct{}
type BackspaceAction struct{}
type DeleteAction struct{}
type ToggleTaskAction struct{}

// ===== MOTION ACTIONS =====

// MoveAction moves the cursor; Extend grows the selection.
type MoveAction struct {
	Direction string // "left", "right", "up", "down", "home", "end", "pageup", "pagedown", "top", "bottom"
	Extend    bool
}
type ClickAction struct {
	Row    int
	Col    int
	Extend bool
}
type SelectAllAction struct{}
type ClearSelectionAction struct{}

// ===== APPLICATION ACTIONS =====

type SaveAction struct{}
type QuitAction struct{}
type SuspendAction struct{}
type CopyAction struct{}
type CutAction struct{}
type PasteAction struct{}

// PasteTextAction carries text delivered by a bracketed paste.
type PasteTextAction struct {
	Text string
}
type HelpToggleAction struct{}
type HelpHideAction struct{}
type TogglePlainAction struct{}
type ResizeAction struct {
	Width  int
	Height int
}

// Apply performs an edit or motion action and reports whether it was
// one. Application actions are left to the caller.
func (s *Session) Apply(action Action) bool {
	switch a := action.(type) {
	case InsertAction:
		s.Insert(a.Text)
	case NewlineAction:
		s.Newline()
	case BackspaceAction:
		s.Backspace()
	case DeleteAction:
		s.DeleteForward()
	case ToggleTaskAction:
		s.ToggleTask()
	case MoveAction:
		s.move(a.Direction, a.Extend)
	case ClickAction:
		s.Click(a.Row, a.Col, a.Extend)
	case SelectAllAction:
		s.SelectAll()
	case ClearSelectionAction:
		s.ClearSelection()
	case TogglePlainAction:
		opts := s.opts
		opts.Plain = !opts.Plain
		s.SetOptions(opts)
	default:
		return false
	}
	return true
}

func (s *Session) move(direction string, extend bool) {
	switch direction {
	case "left":
		s.Left(extend)
	case "right":
		s.Right(extend)
	case "up":
		s.Up(extend)
	case "down":
		s.Down(extend)
	case "home":
		s.Home(extend)
	case "end":
		s.End(extend)
	case "pageup":
		s.PageUp(extend)
	case "pagedown":
		s.PageDown(extend)
	case "top":
		s.SetCursor(0, extend)
	case "bottom":
		s.SetCursor(s.buf.Len(), extend)
	}
}
