package app

import (
	"sync"
	"time"

	"github.com/dshills/dragselect/internal/dragselect"
	"github.com/dshills/dragselect/internal/renderer/backend"
)

// uiScheduler runs timer callbacks on the event loop by posting them as
// backend interrupts. Auto-scroll ticks and long-press timers both use it,
// so the engine, grid and selection set are only touched from one
// goroutine.
type uiScheduler struct {
	app *Application
}

// AfterFunc waits d, then posts f. After f runs, the mouse handler
// re-samples the pointer so the selection follows content that scrolled
// under it.
//
// If the event queue is full the post is retried every d until it lands or
// the timer is stopped. The engine counts on every scheduled tick reaching
// it; a lost tick would leave auto-scroll marked running with nothing
// armed.
func (s uiScheduler) AfterFunc(d time.Duration, f func()) dragselect.Timer {
	t := &uiTimer{}
	var fire func()
	fire = func() {
		if s.app.post(func() {
			f()
			s.app.afterTimer()
		}) || !s.app.attached() {
			return
		}
		t.rearm(d, fire)
	}

	t.mu.Lock()
	t.timer = time.AfterFunc(d, fire)
	t.mu.Unlock()
	return t
}

// uiTimer is the Timer returned by uiScheduler. It follows the retries of
// a dropped post so Stop always cancels the live one.
type uiTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func (t *uiTimer) rearm(d time.Duration, fire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.stopped {
		t.timer = time.AfterFunc(d, fire)
	}
}

// Stop implements dragselect.Timer.
func (t *uiTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return t.timer.Stop()
}

// post queues fn for the event loop. It reports false when no backend is
// attached or the queue is full.
func (app *Application) post(fn func()) bool {
	app.mu.RLock()
	b := app.backend
	app.mu.RUnlock()
	if b == nil {
		return false
	}
	if !b.PostEvent(backend.Interrupt(fn)) {
		app.log.Debug("event queue full, retrying interrupt")
		return false
	}
	return true
}

// attached reports whether a backend is set.
func (app *Application) attached() bool {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.backend != nil
}

// afterTimer runs on the event loop after a scheduled callback.
func (app *Application) afterTimer() {
	if app.mouse != nil {
		app.mouse.Resample()
	}
	app.markDirty()
}
