// Package trace records drag gestures to JSON and replays them headlessly.
//
// A Recorder wraps the engine and the grid the host drives, so every call
// that can change the selection is captured: activation, pointer
// movement, release, scrolling (wheel and auto-scroll alike), mode changes,
// clicks, clears and resizes. Replaying the events against a fresh grid and
// selection set with the recorded geometry reproduces the final selection.
//
// Auto-scroll ticks are not timer-driven during replay. The scroll each tick
// applied is recorded as a scroll event and replayed directly.
package trace

import "time"

// Version is the trace format version written by Recorder.
const Version = 1

// Kind identifies a trace event.
type Kind string

// Event kinds.
const (
	KindActivate   Kind = "activate"
	KindDeactivate Kind = "deactivate"
	KindDown       Kind = "down"
	KindMove       Kind = "move"
	KindUp         Kind = "up"
	KindScroll     Kind = "scroll"
	KindMode       Kind = "mode"
	KindToggle     Kind = "toggle"
	KindClear      Kind = "clear"
	KindResize     Kind = "resize"
)

// Event is one recorded call. Fields irrelevant to Kind are zero.
type Event struct {
	// T is the time since the recording started.
	T time.Duration

	Kind Kind

	// X and Y are the pointer position for down and move, and the new
	// right and bottom edges for resize.
	X, Y int

	// Index is the item for activate and toggle.
	Index int

	// Delta is the scroll amount for scroll.
	Delta int

	// Mode is the new mode name for mode.
	Mode string
}
