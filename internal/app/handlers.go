package app

import (
	"math"

	"github.com/dshills/dragselect/internal/dragselect"
	"github.com/dshills/dragselect/internal/renderer/backend"
	"github.com/dshills/dragselect/internal/renderer/statusline"
	"github.com/dshills/dragselect/internal/trace"
)

// handleKeyEvent processes keyboard input events.
//
//	q, Ctrl-C   quit
//	m           toggle range/path mode
//	c           clear the selection
//	Esc         end the drag-select session
//	PgUp/PgDn   scroll a page
//	Home/End    scroll to the top or bottom
//	Ctrl-L      redraw
func (app *Application) handleKeyEvent(ev backend.Event) error {
	switch ev.Key {
	case backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyEscape:
		app.deactivate()
	case backend.KeyPageUp:
		app.scrollBy(-app.surface.Bounds().Height())
	case backend.KeyPageDown:
		app.scrollBy(app.surface.Bounds().Height())
	case backend.KeyUp:
		app.scrollBy(-app.grid.Layout().CellHeight)
	case backend.KeyDown:
		app.scrollBy(app.grid.Layout().CellHeight)
	case backend.KeyHome:
		app.surface.ScrollTo(0)
		app.mouse.Resample()
	case backend.KeyEnd:
		app.surface.ScrollTo(math.MaxInt32)
		app.mouse.Resample()
	case backend.KeyRune:
		return app.handleRune(ev.Rune)
	}
	return nil
}

func (app *Application) handleRune(r rune) error {
	switch r {
	case 'q':
		return ErrQuit
	case 'm':
		app.toggleMode()
	case 'c':
		app.clear()
	}
	return nil
}

// scrollBy scrolls the grid and lets an active drag follow.
func (app *Application) scrollBy(delta int) {
	app.surface.ScrollBy(delta)
	app.mouse.Resample()
}

// toggleMode flips between range and path mode. An active session ends.
func (app *Application) toggleMode() {
	next := dragselect.ModePath
	if app.engine.Mode() == dragselect.ModePath {
		next = dragselect.ModeRange
	}
	app.engine.SetMode(next)
	app.mouse.Release()
	app.message("mode: "+next.String(), statusline.MessageInfo)
	app.log.Info("selection mode set to %s", next)
}

// deactivate ends the session from the keyboard.
func (app *Application) deactivate() {
	if app.engine.Deactivate() {
		app.message("session ended", statusline.MessageInfo)
	}
	app.mouse.Release()
}

// toggle flips a clicked item.
func (app *Application) toggle(index int) {
	if app.recorder != nil {
		if err := app.recorder.Record(trace.Event{Kind: trace.KindToggle, Index: index}); err != nil {
			app.log.WithError(err).Warn("recording toggle")
		}
	}
	if err := app.set.Toggle(index); err != nil {
		app.log.WithError(err).Warn("toggle %d", index)
	}
}

// clear deselects everything.
func (app *Application) clear() {
	if app.recorder != nil {
		if err := app.recorder.Record(trace.Event{Kind: trace.KindClear}); err != nil {
			app.log.WithError(err).Warn("recording clear")
		}
	}
	app.set.Clear()
	app.message("selection cleared", statusline.MessageInfo)
}

// message shows msg on the status line.
func (app *Application) message(msg string, typ statusline.MessageType) {
	if r := app.Renderer(); r != nil {
		r.StatusLine().SetMessage(msg, typ)
		r.MarkDirty()
	}
}
