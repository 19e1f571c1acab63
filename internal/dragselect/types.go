package dragselect

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects how pointer movement is turned into selection changes.
type Mode uint8

const (
	// ModeRange selects the contiguous run between the anchor and the pointer.
	ModeRange Mode = iota
	// ModePath toggles each index the pointer enters.
	ModePath
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeRange:
		return "range"
	case ModePath:
		return "path"
	default:
		return "unknown"
	}
}

// ParseMode parses "range" or "path" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "range", "":
		return ModeRange, nil
	case "path":
		return ModePath, nil
	default:
		return ModeRange, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Point is a pointer position in screen coordinates.
type Point struct {
	X int
	Y int
}

// Rect is a screen rectangle. Top/Left are inclusive, Bottom/Right exclusive.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Width returns the width of the rectangle.
func (r Rect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() int {
	if r.Bottom <= r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// Contains returns true if p is within the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// SelectionReceiver owns the authoritative selection set.
//
// SetSelected may reject some indices (for example ones removed from the
// underlying collection mid-gesture) by returning an error; the engine logs
// the rejection and carries on.
type SelectionReceiver interface {
	SetSelected(indices []int, selected bool) error
	IsSelected(index int) bool
}

// Container is the scrollable, virtualized view the engine hit-tests against.
//
// Geometry is only valid for the duration of the call that reads it; the
// engine never caches rectangles across pointer events.
type Container interface {
	// ChildCount returns the number of items in the collection.
	ChildCount() int

	// Bounds returns the container's own screen rectangle.
	Bounds() Rect

	// ScreenRectOf returns the rectangle of a materialized item, including
	// margins. ok is false for items outside the visible window.
	ScreenRectOf(index int) (r Rect, ok bool)

	// IndexUnderPoint resolves a position to a selectable item index.
	IndexUnderPoint(p Point) (index int, ok bool)

	// ScrollBy scrolls the content by delta pixels (positive is down).
	ScrollBy(delta int)
}

// Scroller reports whether a container can scroll further. Hosts use it to
// decide whether to intercept a gesture; the engine does not.
type Scroller interface {
	CanScrollUp() bool
	CanScrollDown() bool
}

// Timer is a pending scheduled call.
type Timer interface {
	// Stop prevents the call from firing. It reports whether the call was
	// stopped before it fired.
	Stop() bool
}

// Scheduler runs a function after a delay. f must run once after d unless
// the returned Timer is stopped first; auto-scroll stalls if a tick is
// lost.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(d time.Duration, f func()) Timer

// AfterFunc calls fn(d, f).
func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) Timer {
	return fn(d, f)
}

// timeScheduler schedules with time.AfterFunc.
type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Observer receives engine activity for metrics collection.
type Observer interface {
	SessionStarted(mode Mode)
	SessionEnded()
	SelectionApplied(count int, selected bool)
	ReceiverRejected()
	AutoScrollTick(velocity int)
}

type nopObserver struct{}

func (nopObserver) SessionStarted(Mode)        {}
func (nopObserver) SessionEnded()              {}
func (nopObserver) SelectionApplied(int, bool) {}
func (nopObserver) ReceiverRejected()          {}
func (nopObserver) AutoScrollTick(int)         {}
