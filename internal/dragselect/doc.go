// Package dragselect implements drag-to-select for scrollable, virtualized
// grids of items.
//
// A drag session starts when the host calls Activate with the index of the
// item the user long-pressed. From then on every pointer move is resolved to
// an item index through a Container and turned into selection deltas that are
// pushed to a SelectionReceiver. The engine never owns the selection set; it
// only keeps the bookkeeping needed to compute what changed.
//
// # Modes
//
// In ModeRange every index between the anchor (the activation index) and the
// index under the pointer is selected as one contiguous run. Reversing
// direction undoes the tail of the previous sweep:
//
//	anchor 5, drag to 9   -> 5..9 selected
//	retreat to 7          -> 5..7 selected, 8..9 deselected
//	return to 5           -> only 5 selected
//
// In ModePath only the index under the pointer is toggled, once per entry.
//
// # Auto-scroll
//
// When Config.HotspotHeight is not HotspotDisabled the engine captures two
// bands at PointerDown: one along the top of the container and one along the
// bottom. While the pointer is inside a band a repeating tick scrolls the
// container; the speed is highest at the band's outer edge. Ticks are
// scheduled through a Scheduler so hosts can run them on their UI loop.
//
// # Usage
//
//	eng := dragselect.New(selectionSet,
//	    dragselect.WithConfig(cfg),
//	    dragselect.WithLogger(logger),
//	)
//	eng.Activate(longPressedIndex)
//	if eng.PointerDown(grid, pos) {
//	    // claim the gesture
//	}
//	eng.PointerMove(grid, pos)
//	eng.PointerUp()
//
// # Thread Safety
//
// Engine is safe for concurrent use. Listeners are invoked after the
// engine's lock is released. Receiver and Container methods are called with
// the lock held and must not call back into the engine.
package dragselect
