package dragselect

import "time"

// autoScroller is the tick state machine behind auto-scroll.
//
// Each schedule bumps a generation counter; a tick carries the generation it
// was scheduled with and is ignored unless it is still current. This makes a
// tick that fires after cancel (because the host timer could not be stopped
// in time) a no-op.
type autoScroller struct {
	sched    Scheduler
	interval time.Duration

	timer   Timer
	gen     uint64
	running bool
}

// newAutoScroller creates an idle scroller.
func newAutoScroller(sched Scheduler, interval time.Duration) *autoScroller {
	if sched == nil {
		sched = timeScheduler{}
	}
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &autoScroller{sched: sched, interval: interval}
}

// start begins ticking. Returns false if already running.
func (a *autoScroller) start(fire func(gen uint64)) bool {
	if a.running {
		return false
	}
	a.running = true
	a.schedule(fire)
	return true
}

// schedule arms the next tick.
func (a *autoScroller) schedule(fire func(gen uint64)) {
	a.gen++
	gen := a.gen
	a.timer = a.sched.AfterFunc(a.interval, func() { fire(gen) })
}

// cancel stops ticking. Returns false if it was not running.
func (a *autoScroller) cancel() bool {
	if !a.running {
		return false
	}
	a.running = false
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	return true
}

// current reports whether a tick scheduled with gen should run.
func (a *autoScroller) current(gen uint64) bool {
	return a.running && gen == a.gen
}

// isRunning reports whether ticking is active.
func (a *autoScroller) isRunning() bool {
	return a.running
}

// setInterval changes the period used by subsequent ticks.
func (a *autoScroller) setInterval(d time.Duration) {
	if d > 0 {
		a.interval = d
	}
}
