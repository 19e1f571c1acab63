package dragselect

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/dragselect/internal/logging"
)

// Session is the bookkeeping state of one drag gesture.
type Session struct {
	// ID identifies the session in logs and traces.
	ID uuid.UUID

	// Mode is the selection mode the session runs in.
	Mode Mode

	// Initial is the anchor index the session started at.
	Initial int

	// Last is the most recently hit-tested index.
	Last int

	// Extremes are the lowest and highest Last values since activation
	// (or since the pointer last returned to the anchor).
	Extremes Extremes

	// Active is true between Activate and the end of the gesture.
	Active bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig sets the engine configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.config = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithScheduler sets the scheduler used for auto-scroll ticks.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.sched = s
		}
	}
}

// WithObserver sets the activity observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// Engine turns pointer movement over a Container into selection changes.
type Engine struct {
	mu sync.Mutex

	config   Config
	receiver SelectionReceiver
	log      *logging.Logger
	sched    Scheduler
	observer Observer

	session Session

	// Auto-scroll state
	hotspots    Hotspots
	hotspotsSet bool
	hotspot     HotspotState
	container   Container
	scroller    *autoScroller

	// Listeners
	onActivation func(active bool)
	onAutoScroll func(scrolling bool)

	// Notifications queued while locked, delivered after unlock.
	pending []func()
}

// New creates an engine that reports selection changes to receiver.
func New(receiver SelectionReceiver, opts ...Option) *Engine {
	e := &Engine{
		config:   DefaultConfig(),
		receiver: receiver,
		log:      logging.Discard(),
		sched:    timeScheduler{},
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithComponent("dragselect")
	e.scroller = newAutoScroller(e.sched, e.config.TickInterval)
	e.session.Mode = e.config.Mode
	return e
}

// OnActivationChanged registers the activation listener. It fires on every
// successful Activate and every deactivation that ends a session.
func (e *Engine) OnActivationChanged(fn func(active bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onActivation = fn
}

// OnAutoScrollChanged registers the auto-scroll listener. It fires only when
// auto-scrolling starts or stops, not on every tick.
func (e *Engine) OnAutoScrollChanged(fn func(scrolling bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onAutoScroll = fn
}

// Activate begins a session anchored at start and marks start selected.
// Returns false, changing nothing, if a session is already active.
func (e *Engine) Activate(start int) bool {
	e.mu.Lock()
	defer e.flush()

	if e.session.Active {
		e.log.Debug("activate(%d) ignored: session %s already active", start, e.session.ID)
		return false
	}

	e.session = Session{
		ID:      uuid.New(),
		Mode:    e.config.Mode,
		Initial: start,
		Last:    start,
		Active:  true,
	}
	e.hotspot = HotspotState{}
	e.apply(Op{Lo: start, Hi: start, Selected: true})

	e.log.WithField("session", e.session.ID).Debug("activated at %d in %s mode", start, e.session.Mode)
	e.observer.SessionStarted(e.session.Mode)
	e.notifyActivation(true)
	return true
}

// Deactivate ends the session. It is idempotent and reports whether a session
// was actually ended.
func (e *Engine) Deactivate() bool {
	e.mu.Lock()
	defer e.flush()
	return e.deactivate("deactivate")
}

// PointerDown claims the gesture if a session is active and the container
// has items. It captures the container's hotspot bands for the rest of the
// gesture.
func (e *Engine) PointerDown(c Container, p Point) bool {
	e.mu.Lock()
	defer e.flush()

	if !e.session.Active || c == nil || c.ChildCount() == 0 {
		return false
	}

	e.container = c
	e.hotspots, e.hotspotsSet = HotspotsFor(c.Bounds(), e.config)
	return true
}

// PointerMove is the per-event tick: hotspot evaluation, hit-testing and
// selection reconciliation. It does nothing without an active session.
func (e *Engine) PointerMove(c Container, p Point) {
	e.mu.Lock()
	defer e.flush()

	if !e.session.Active || c == nil {
		return
	}
	e.container = c

	if e.config.AutoScrollEnabled() {
		if !e.hotspotsSet {
			e.hotspots, e.hotspotsSet = HotspotsFor(c.Bounds(), e.config)
		}
		e.updateHotspot(p.Y)
	}

	index, ok := c.IndexUnderPoint(p)
	if !ok || index == e.session.Last {
		return
	}

	switch e.session.Mode {
	case ModePath:
		e.session.Last = index
		e.apply(Op{Lo: index, Hi: index, Selected: !e.receiver.IsSelected(index)})

	default:
		e.session.Last = index
		e.session.Extremes.Include(index)
		for _, op := range Reconcile(e.session.Initial, index, e.session.Extremes) {
			e.apply(op)
		}
		if index == e.session.Initial {
			e.session.Extremes.CollapseTo(index)
		}
	}
}

// PointerUp ends the gesture.
func (e *Engine) PointerUp() {
	e.mu.Lock()
	defer e.flush()
	e.deactivate("pointer up")
}

// SetMode changes the selection mode. Any active session ends.
func (e *Engine) SetMode(m Mode) {
	e.mu.Lock()
	defer e.flush()

	e.deactivate("mode change")
	e.config.Mode = m
	e.session.Mode = m
	e.log.Debug("mode set to %s", m)
}

// Mode returns the selection mode for new sessions.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config.Mode
}

// SetConfig replaces the configuration. A mode change ends any active
// session, as with SetMode; other changes apply from the next pointer-down.
func (e *Engine) SetConfig(cfg Config) {
	e.mu.Lock()
	defer e.flush()

	if cfg.Mode != e.config.Mode {
		e.deactivate("mode change")
		e.session.Mode = cfg.Mode
	}
	e.config = cfg
	e.scroller.setInterval(cfg.TickInterval)
	if !cfg.AutoScrollEnabled() {
		e.stopAutoScroll()
		e.hotspot = HotspotState{}
		e.hotspotsSet = false
	}
}

// Config returns the current configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config
}

// IsActive returns true if a session is in progress.
func (e *Engine) IsActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Active
}

// IsAutoScrolling returns true while the auto-scroll tick is running.
func (e *Engine) IsAutoScrolling() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scroller.isRunning()
}

// Session returns a copy of the current session state.
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Hotspot returns the most recent hotspot evaluation.
func (e *Engine) Hotspot() HotspotState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hotspot
}

// deactivate ends the session (lock held).
func (e *Engine) deactivate(reason string) bool {
	e.stopAutoScroll()
	e.hotspot = HotspotState{}
	e.hotspotsSet = false
	e.container = nil

	if !e.session.Active {
		return false
	}
	e.session.Active = false
	e.log.WithField("session", e.session.ID).Debug("deactivated: %s", reason)
	e.observer.SessionEnded()
	e.notifyActivation(false)
	return true
}

// updateHotspot evaluates the bands for y and starts or stops ticking
// (lock held).
func (e *Engine) updateHotspot(y int) {
	state := e.hotspots.Evaluate(y)
	was := e.hotspot.Scrolling()
	e.hotspot = state

	switch {
	case state.Scrolling() && !was:
		if e.scroller.start(e.tick) {
			e.log.Debug("auto-scroll started, velocity %d", state.Velocity)
			e.notifyAutoScroll(true)
		}
	case !state.Scrolling() && was:
		e.stopAutoScroll()
	}
}

// stopAutoScroll cancels ticking and notifies if it was running (lock held).
func (e *Engine) stopAutoScroll() {
	if e.scroller.cancel() {
		e.log.Debug("auto-scroll stopped")
		e.notifyAutoScroll(false)
	}
}

// tick is the auto-scroll timer callback.
func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	defer e.flush()

	if !e.scroller.current(gen) {
		return
	}
	if !e.session.Active || !e.hotspot.Scrolling() || e.container == nil {
		e.stopAutoScroll()
		return
	}

	if v := e.hotspot.Velocity; v != 0 {
		e.container.ScrollBy(v)
	}
	e.observer.AutoScrollTick(e.hotspot.Velocity)
	e.scroller.schedule(e.tick)
}

// apply pushes one op to the receiver (lock held).
func (e *Engine) apply(op Op) {
	indices := op.Indices()
	if len(indices) == 0 {
		return
	}
	if err := e.receiver.SetSelected(indices, op.Selected); err != nil {
		e.log.WithError(err).Debug("receiver rejected %d..%d selected=%t", op.Lo, op.Hi, op.Selected)
		e.observer.ReceiverRejected()
		return
	}
	e.observer.SelectionApplied(len(indices), op.Selected)
}

func (e *Engine) notifyActivation(active bool) {
	if fn := e.onActivation; fn != nil {
		e.pending = append(e.pending, func() { fn(active) })
	}
}

func (e *Engine) notifyAutoScroll(scrolling bool) {
	if fn := e.onAutoScroll; fn != nil {
		e.pending = append(e.pending, func() { fn(scrolling) })
	}
}

// flush releases the lock and delivers queued notifications.
func (e *Engine) flush() {
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}
