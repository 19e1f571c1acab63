package dragselect

import (
	"errors"
	"sort"
	"time"
)

// fakeReceiver is an in-memory selection set that records calls.
type fakeReceiver struct {
	selected map[int]bool
	calls    int
	reject   map[int]bool
}

func newFakeReceiver() *fakeReceiver {
	return &fakeReceiver{selected: make(map[int]bool), reject: make(map[int]bool)}
}

var errRejected = errors.New("rejected")

func (r *fakeReceiver) SetSelected(indices []int, selected bool) error {
	r.calls++
	var err error
	for _, i := range indices {
		if r.reject[i] {
			err = errRejected
			continue
		}
		if selected {
			r.selected[i] = true
		} else {
			delete(r.selected, i)
		}
	}
	return err
}

func (r *fakeReceiver) IsSelected(index int) bool {
	return r.selected[index]
}

func (r *fakeReceiver) list() []int {
	out := make([]int, 0, len(r.selected))
	for i := range r.selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// fakeContainer is a single-column list of rows, each rowHeight tall,
// starting at y=0. Every index < count is hit-testable.
type fakeContainer struct {
	count     int
	rowHeight int
	height    int
	scrolled  []int
	gap       map[int]bool
}

func newFakeContainer(count int) *fakeContainer {
	return &fakeContainer{count: count, rowHeight: 10, height: 400, gap: make(map[int]bool)}
}

func (c *fakeContainer) ChildCount() int { return c.count }

func (c *fakeContainer) Bounds() Rect {
	return Rect{Left: 0, Top: 0, Right: 100, Bottom: c.height}
}

func (c *fakeContainer) ScreenRectOf(index int) (Rect, bool) {
	if index < 0 || index >= c.count {
		return Rect{}, false
	}
	top := index * c.rowHeight
	return Rect{Left: 0, Top: top, Right: 100, Bottom: top + c.rowHeight}, true
}

func (c *fakeContainer) IndexUnderPoint(p Point) (int, bool) {
	if p.Y < 0 {
		return 0, false
	}
	i := p.Y / c.rowHeight
	if i >= c.count || c.gap[i] {
		return 0, false
	}
	return i, true
}

func (c *fakeContainer) ScrollBy(delta int) {
	c.scrolled = append(c.scrolled, delta)
}

// at returns a point in the middle of row index.
func (c *fakeContainer) at(index int) Point {
	return Point{X: 5, Y: index*c.rowHeight + c.rowHeight/2}
}

// manualScheduler records scheduled calls and runs them on demand.
type manualScheduler struct {
	pending []*manualTimer
}

type manualTimer struct {
	fn      func()
	delay   time.Duration
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{fn: f, delay: d}
	s.pending = append(s.pending, t)
	return t
}

// fire runs every live pending timer once and returns how many ran.
func (s *manualScheduler) fire() int {
	pending := s.pending
	s.pending = nil
	n := 0
	for _, t := range pending {
		if t.stopped {
			continue
		}
		t.fired = true
		t.fn()
		n++
	}
	return n
}

// fireIgnoringStop runs every pending timer, including stopped ones, the way
// a host whose timers cannot be cancelled synchronously would.
func (s *manualScheduler) fireIgnoringStop() {
	pending := s.pending
	s.pending = nil
	for _, t := range pending {
		t.fired = true
		t.fn()
	}
}

// countingObserver counts observer callbacks.
type countingObserver struct {
	started, ended, rejected, ticks int
	selected, deselected            int
}

func (o *countingObserver) SessionStarted(Mode) { o.started++ }
func (o *countingObserver) SessionEnded()       { o.ended++ }
func (o *countingObserver) ReceiverRejected()   { o.rejected++ }
func (o *countingObserver) AutoScrollTick(int)  { o.ticks++ }
func (o *countingObserver) SelectionApplied(n int, selected bool) {
	if selected {
		o.selected += n
	} else {
		o.deselected += n
	}
}
