package mouse

import (
	"time"

	"github.com/dshills/dragselect/internal/dragselect"
)

// pressTracker detects a left button held still long enough to count as
// a long-press.
type pressTracker struct {
	// Configuration
	holdTime    time.Duration
	maxDistance int

	// Pending press state
	pending bool
	pos     Position
	at      time.Time

	// gen invalidates timers armed for earlier presses.
	gen   uint64
	timer dragselect.Timer
}

// newPressTracker creates a new long-press tracker.
func newPressTracker(holdTime time.Duration, maxDistance int) *pressTracker {
	t := &pressTracker{}
	t.configure(holdTime, maxDistance)
	return t
}

// configure updates the thresholds.
func (t *pressTracker) configure(holdTime time.Duration, maxDistance int) {
	if maxDistance < 0 {
		maxDistance = 0
	}
	t.holdTime = holdTime
	t.maxDistance = maxDistance
}

// arm starts tracking a press and returns its generation. Any earlier
// pending press is dropped.
func (t *pressTracker) arm(pos Position, timestamp time.Time) uint64 {
	t.disarm()
	t.pending = true
	t.pos = pos
	t.at = timestamp
	return t.gen
}

// disarm cancels the pending press, if any.
func (t *pressTracker) disarm() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.pending = false
	t.gen++
}

// current reports whether gen belongs to the pending press.
func (t *pressTracker) current(gen uint64) bool {
	return t.pending && gen == t.gen
}

// isPending returns true while a press is waiting to become a long-press.
func (t *pressTracker) isPending() bool {
	return t.pending
}

// origin returns where the pending press started.
func (t *pressTracker) origin() Position {
	return t.pos
}

// within reports whether pos is close enough to the press origin.
func (t *pressTracker) within(pos Position) bool {
	return pos.Distance(t.pos) <= t.maxDistance
}

// elapsed reports whether the hold time has passed at timestamp.
// Zero timestamps never count as elapsed; the timer handles those.
func (t *pressTracker) elapsed(timestamp time.Time) bool {
	if timestamp.IsZero() || t.at.IsZero() {
		return false
	}
	d := timestamp.Sub(t.at)
	return d >= 0 && d >= t.holdTime
}
