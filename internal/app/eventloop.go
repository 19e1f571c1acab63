package app

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/dragselect/internal/input/mouse"
	"github.com/dshills/dragselect/internal/renderer/backend"
)

// eventLoop is the main application loop.
func (app *Application) eventLoop(ctx context.Context) error {
	const (
		targetFPS = 60
		frameTime = time.Second / targetFPS
	)

	events := app.startInputPolling()
	frameTicker := time.NewTicker(frameTime)
	defer frameTicker.Stop()

	app.renderer.RenderNow()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-app.done:
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.handleBackendEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}

		case <-frameTicker.C:
			app.renderer.Render()
		}
	}
}

// startInputPolling starts a goroutine that forwards backend events to the
// returned channel.
//
// PollEvent is blocking, so this goroutine may not exit until the backend is
// shut down.
func (app *Application) startInputPolling() <-chan backend.Event {
	events := make(chan backend.Event, 100)

	go func() {
		defer close(events)

		for app.running.Load() {
			ev := app.backend.PollEvent()
			if !app.running.Load() {
				return
			}
			select {
			case events <- ev:
			case <-app.done:
				return
			}
		}
	}()

	return events
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		app.handleResize(ev)
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventMouse:
		app.handleMouseEvent(ev)
	case backend.EventInterrupt:
		if ev.Func != nil {
			ev.Func()
		}
	default:
		return nil
	}
	app.renderer.MarkDirty()
	return nil
}

// handleResize moves the grid into the new area above the status line.
func (app *Application) handleResize(ev backend.Event) {
	app.renderer.Resize(ev.Width, ev.Height)
	app.surface.Resize(app.renderer.GridBounds())
	app.mouse.Resample()
}

// handleMouseEvent decodes a sampled mouse event and feeds the handler.
// A short click on an item toggles it.
func (app *Application) handleMouseEvent(ev backend.Event) {
	ts := ev.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	me := app.decoder.Decode(
		mouse.Position{X: ev.MouseX, Y: ev.MouseY},
		convertButton(ev.MouseButton),
		convertMods(ev.Mod),
		ts,
	)
	res := app.mouse.Handle(me)
	if res.Outcome == mouse.OutcomeClick {
		app.toggle(res.Index)
	}
}

// convertButton maps a backend button to a mouse button.
func convertButton(b backend.MouseButton) mouse.Button {
	switch b {
	case backend.MouseLeft:
		return mouse.ButtonLeft
	case backend.MouseMiddle:
		return mouse.ButtonMiddle
	case backend.MouseRight:
		return mouse.ButtonRight
	case backend.MouseWheelUp:
		return mouse.ButtonScrollUp
	case backend.MouseWheelDown:
		return mouse.ButtonScrollDown
	case backend.MouseWheelLeft:
		return mouse.ButtonScrollLeft
	case backend.MouseWheelRight:
		return mouse.ButtonScrollRight
	default:
		return mouse.ButtonNone
	}
}

// convertMods maps backend modifiers to mouse modifiers.
func convertMods(m backend.ModMask) mouse.Modifier {
	mods := mouse.ModNone
	if m.Has(backend.ModShift) {
		mods |= mouse.ModShift
	}
	if m.Has(backend.ModCtrl) {
		mods |= mouse.ModCtrl
	}
	if m.Has(backend.ModAlt) {
		mods |= mouse.ModAlt
	}
	if m.Has(backend.ModMeta) {
		mods |= mouse.ModMeta
	}
	return mods
}
