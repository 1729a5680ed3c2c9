package app

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEditsUntilQuitConfirmed(t *testing.T) {
	app, screen, _ := newTestApp(t, "- item")

	done := make(chan struct{})
	go func() {
		app.Run()
		close(done)
	}()

	screen.InjectKey(tcell.KeyEnd, 0, tcell.ModCtrl)
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'b', tcell.ModNone)
	screen.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	screen.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after confirmed quit")
	}
	require.True(t, app.shouldQuit)
	assert.Equal(t, "- item\n- b", app.session.String())
}

func TestHandleEventRoutesKeysThroughActions(t *testing.T) {
	app, _, _ := newTestApp(t, "")
	app.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone))
	assert.True(t, app.processActions())
	assert.Equal(t, "z", app.session.String())
}

func TestHandleEventHelpSwallowsKeys(t *testing.T) {
	app, _, _ := newTestApp(t, "")
	app.helpVisible = true
	app.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone))
	app.processActions()
	assert.Equal(t, "", app.session.String())

	app.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	app.processActions()
	assert.False(t, app.helpVisible)
}
