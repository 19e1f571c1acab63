// Package mouse turns raw pointer input into drag-select gestures.
//
// Terminals report mouse state as samples (position plus the button that is
// currently down). Decoder converts those samples into press, drag and
// release events, and Handler turns the events into engine calls:
//
//	dec := &mouse.Decoder{}
//	h := mouse.NewHandler(mouse.DefaultConfig(), engine, grid,
//	    mouse.WithScheduler(sched),
//	    mouse.WithLineHeight(layout.CellHeight+layout.Gap))
//
//	ev := dec.Decode(pos, button, mods, time.Now())
//	res := h.Handle(ev)
//
// # Activation
//
// A left press held within LongPressDistance for LongPressTime starts a
// session at the item under the pointer. Shift+press starts one at once
// when ShiftActivates is set. Once a session is running, drags become
// PointerMove and the release becomes PointerUp.
//
// A short press and release on an item yields OutcomeClick so the host can
// toggle that item.
//
// # Scrolling
//
// Wheel events scroll the container by ScrollLines (ScrollLinesShift with
// Shift) times the line height. When content moves under a stationary
// pointer, during wheel scrolling or engine auto-scroll, the host calls
// Resample so the selection keeps following the pointer.
//
// # Thread Safety
//
// Handler is safe for concurrent use. Long-press timers run through the
// configured scheduler; hosts with a single UI goroutine post them back to
// it.
package mouse
