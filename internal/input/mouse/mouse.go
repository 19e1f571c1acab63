package mouse

import (
	"sync"
	"time"

	"github.com/dshills/dragselect/internal/dragselect"
	"github.com/dshills/dragselect/internal/logging"
)

// Button represents a mouse button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary (left) mouse button.
	ButtonLeft
	// ButtonMiddle is the middle mouse button (scroll wheel click).
	ButtonMiddle
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight
	// ButtonScrollUp indicates scroll wheel up.
	ButtonScrollUp
	// ButtonScrollDown indicates scroll wheel down.
	ButtonScrollDown
	// ButtonScrollLeft indicates horizontal scroll left.
	ButtonScrollLeft
	// ButtonScrollRight indicates horizontal scroll right.
	ButtonScrollRight
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonScrollUp:
		return "scroll-up"
	case ButtonScrollDown:
		return "scroll-down"
	case ButtonScrollLeft:
		return "scroll-left"
	case ButtonScrollRight:
		return "scroll-right"
	default:
		return "none"
	}
}

// IsScroll returns true if this is a scroll button.
func (b Button) IsScroll() bool {
	return b == ButtonScrollUp || b == ButtonScrollDown ||
		b == ButtonScrollLeft || b == ButtonScrollRight
}

// Action represents the type of mouse action.
type Action uint8

const (
	// ActionNone indicates no action.
	ActionNone Action = iota
	// ActionPress indicates a button press.
	ActionPress
	// ActionRelease indicates a button release.
	ActionRelease
	// ActionMove indicates mouse movement (no button held).
	ActionMove
	// ActionDrag indicates mouse movement with a button held.
	ActionDrag
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionMove:
		return "move"
	case ActionDrag:
		return "drag"
	default:
		return "none"
	}
}

// Modifier is a set of keyboard modifiers held during a mouse event.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// HasShift returns true if Shift is held.
func (m Modifier) HasShift() bool { return m&ModShift != 0 }

// HasCtrl returns true if Ctrl is held.
func (m Modifier) HasCtrl() bool { return m&ModCtrl != 0 }

// HasAlt returns true if Alt is held.
func (m Modifier) HasAlt() bool { return m&ModAlt != 0 }

// HasMeta returns true if Meta is held.
func (m Modifier) HasMeta() bool { return m&ModMeta != 0 }

// Position represents a screen coordinate.
type Position struct {
	X int
	Y int
}

// Equal returns true if two positions are equal.
func (p Position) Equal(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// Distance returns the Manhattan distance (|dx| + |dy|) between two positions.
func (p Position) Distance(other Position) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Point converts the position to engine coordinates.
func (p Position) Point() dragselect.Point {
	return dragselect.Point{X: p.X, Y: p.Y}
}

// Event represents a mouse input event.
type Event struct {
	// Position is the screen coordinates.
	Position Position

	// Button is the mouse button involved.
	Button Button

	// Modifiers are any keyboard modifiers held during the event.
	Modifiers Modifier

	// Action is the type of mouse action.
	Action Action

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Config configures mouse handler behavior.
type Config struct {
	// LongPressTime is how long the left button must be held still before
	// a drag-select session starts.
	LongPressTime time.Duration

	// LongPressDistance is how far the pointer may wander during the hold.
	LongPressDistance int

	// ScrollLines is the number of rows to scroll per wheel tick.
	ScrollLines int

	// ScrollLinesShift is the number of rows when Shift is held.
	ScrollLinesShift int

	// EnableDragSelection enables the long-press activation trigger.
	EnableDragSelection bool

	// ShiftActivates starts a session immediately on Shift+press.
	ShiftActivates bool

	// ClickToggles reports a plain click on an item as OutcomeClick.
	ClickToggles bool
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		LongPressTime:       500 * time.Millisecond,
		LongPressDistance:   1,
		ScrollLines:         3,
		ScrollLinesShift:    1,
		EnableDragSelection: true,
		ShiftActivates:      true,
		ClickToggles:        true,
	}
}

// Engine is the part of the drag-select engine the handler drives.
// *dragselect.Engine implements it.
type Engine interface {
	Activate(start int) bool
	Deactivate() bool
	PointerDown(c dragselect.Container, p dragselect.Point) bool
	PointerMove(c dragselect.Container, p dragselect.Point)
	PointerUp()
	IsActive() bool
}

// Outcome describes what a handled event did.
type Outcome uint8

const (
	// OutcomeNone means the event was ignored.
	OutcomeNone Outcome = iota
	// OutcomeArmed means a long-press is pending.
	OutcomeArmed
	// OutcomeActivated means a drag-select session started.
	OutcomeActivated
	// OutcomeMoved means the pointer moved inside a session.
	OutcomeMoved
	// OutcomeReleased means a session ended on release.
	OutcomeReleased
	// OutcomeClick means a short click landed on an item.
	OutcomeClick
	// OutcomeScrolled means the wheel scrolled the container.
	OutcomeScrolled
)

// String returns a string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeArmed:
		return "armed"
	case OutcomeActivated:
		return "activated"
	case OutcomeMoved:
		return "moved"
	case OutcomeReleased:
		return "released"
	case OutcomeClick:
		return "click"
	case OutcomeScrolled:
		return "scrolled"
	default:
		return "none"
	}
}

// Result is the outcome of a handled event.
type Result struct {
	Outcome Outcome
	// Index is the item involved, for OutcomeActivated and OutcomeClick.
	Index int
}

// Option configures a Handler.
type Option func(*Handler)

// WithScheduler sets the scheduler for long-press timers.
func WithScheduler(s dragselect.Scheduler) Option {
	return func(h *Handler) {
		if s != nil {
			h.sched = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithLineHeight sets the wheel scroll unit in screen rows.
func WithLineHeight(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.lineHeight = n
		}
	}
}

// WithActivationListener registers fn to run when a long-press or
// Shift+press starts a session. It runs with the handler unlocked.
func WithActivationListener(fn func(index int)) Option {
	return func(h *Handler) {
		h.onActivate = fn
	}
}

// Handler translates mouse events over a container into engine calls.
type Handler struct {
	mu     sync.Mutex
	config Config

	engine    Engine
	container dragselect.Container
	sched     dragselect.Scheduler
	log       *logging.Logger

	lineHeight int
	onActivate func(index int)

	// Long-press tracking
	press *pressTracker

	// Drag tracking
	drag hold

	// owning is true while the handler drives an engine session.
	owning bool
}

// NewHandler creates a handler driving engine over container.
func NewHandler(config Config, engine Engine, container dragselect.Container, opts ...Option) *Handler {
	h := &Handler{
		config:     config,
		engine:     engine,
		container:  container,
		sched:      dragselect.SchedulerFunc(afterFunc),
		log:        logging.Discard(),
		lineHeight: 1,
		press:      newPressTracker(config.LongPressTime, config.LongPressDistance),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.WithComponent("mouse")
	return h
}

// SetConfig replaces the handler configuration. A pending long-press is
// cancelled.
func (h *Handler) SetConfig(config Config) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.config = config
	h.press.disarm()
	h.press.configure(config.LongPressTime, config.LongPressDistance)
}

// Config returns the handler configuration.
func (h *Handler) Config() Config {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.config
}

// Handle processes a mouse event.
func (h *Handler) Handle(event Event) Result {
	h.mu.Lock()
	var res Result
	switch event.Action {
	case ActionPress:
		res = h.handlePress(event)
	case ActionRelease:
		res = h.handleRelease(event)
	case ActionDrag:
		res = h.handleDrag(event)
	}
	onActivate := h.onActivate
	h.mu.Unlock()

	if res.Outcome == OutcomeActivated && onActivate != nil {
		onActivate(res.Index)
	}
	return res
}

// handlePress handles mouse button press events.
func (h *Handler) handlePress(event Event) Result {
	if event.Button.IsScroll() {
		return h.handleScroll(event)
	}
	if event.Button != ButtonLeft {
		return Result{}
	}

	h.drag.press(event.Position)

	if !h.config.EnableDragSelection {
		return Result{}
	}

	immediate := h.config.LongPressTime <= 0 ||
		(h.config.ShiftActivates && event.Modifiers.HasShift())
	if immediate {
		if index, ok := h.activate(event.Position); ok {
			return Result{Outcome: OutcomeActivated, Index: index}
		}
		return Result{}
	}

	gen := h.press.arm(event.Position, event.Timestamp)
	h.press.timer = h.sched.AfterFunc(h.config.LongPressTime, func() { h.longPress(gen) })
	return Result{Outcome: OutcomeArmed}
}

// handleRelease ends drag tracking and any session the handler owns.
func (h *Handler) handleRelease(event Event) Result {
	if !h.drag.down {
		return Result{}
	}
	wasPending := h.press.isPending()
	start := h.drag.start
	h.press.disarm()
	h.drag.release()

	if h.owning {
		h.owning = false
		h.engine.PointerUp()
		return Result{Outcome: OutcomeReleased}
	}

	if wasPending && h.config.ClickToggles && event.Position.Distance(start) <= h.config.LongPressDistance {
		if index, ok := h.container.IndexUnderPoint(start.Point()); ok {
			return Result{Outcome: OutcomeClick, Index: index}
		}
	}
	return Result{}
}

// handleDrag handles mouse drag (movement with a button held).
func (h *Handler) handleDrag(event Event) Result {
	if !h.drag.down {
		return Result{}
	}
	h.drag.moveTo(event.Position)

	if h.press.isPending() {
		// A late timer may not have fired yet; the hold has already elapsed.
		if h.press.elapsed(event.Timestamp) && h.press.within(event.Position) {
			return h.fire()
		}
		if !h.press.within(event.Position) {
			h.log.Debug("long-press cancelled: moved to %d,%d", event.Position.X, event.Position.Y)
			h.press.disarm()
		}
		return Result{}
	}

	if !h.owning {
		return Result{}
	}
	h.engine.PointerMove(h.container, event.Position.Point())
	return Result{Outcome: OutcomeMoved}
}

// longPress is the long-press timer callback.
func (h *Handler) longPress(gen uint64) {
	h.mu.Lock()
	if !h.press.current(gen) {
		h.mu.Unlock()
		return
	}
	res := h.fire()
	onActivate := h.onActivate
	h.mu.Unlock()

	if res.Outcome == OutcomeActivated && onActivate != nil {
		onActivate(res.Index)
	}
}

// fire completes a pending long-press (lock held).
func (h *Handler) fire() Result {
	h.press.disarm()
	index, ok := h.activate(h.press.origin())
	if !ok {
		return Result{}
	}
	if cur := h.drag.last; !cur.Equal(h.press.origin()) {
		h.engine.PointerMove(h.container, cur.Point())
	}
	return Result{Outcome: OutcomeActivated, Index: index}
}

// activate starts a session at the item under pos (lock held).
func (h *Handler) activate(pos Position) (int, bool) {
	index, ok := h.container.IndexUnderPoint(pos.Point())
	if !ok {
		h.log.Debug("activation at %d,%d missed every item", pos.X, pos.Y)
		return 0, false
	}
	if !h.engine.Activate(index) {
		return 0, false
	}
	if !h.engine.PointerDown(h.container, pos.Point()) {
		h.engine.Deactivate()
		return 0, false
	}
	h.owning = true
	h.log.Debug("activated drag-select at index %d", index)
	return index, true
}

// Resample re-delivers the last pointer position to the engine. Hosts call
// it after content scrolls under a stationary pointer so the selection
// follows.
func (h *Handler) Resample() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.owning || !h.engine.IsActive() {
		return false
	}
	h.engine.PointerMove(h.container, h.drag.last.Point())
	return true
}

// Release abandons the gesture without waiting for a button release, for
// example when the host deactivates the engine from the keyboard.
func (h *Handler) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.press.disarm()
	h.drag.release()
	h.owning = false
}

// Reset clears all handler state.
func (h *Handler) Reset() {
	h.Release()
}

// IsDragging returns true if a button is held.
func (h *Handler) IsDragging() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.drag.down
}

// IsSelecting returns true while the handler drives an engine session.
func (h *Handler) IsSelecting() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.owning
}

// IsArmed returns true while a long-press is pending.
func (h *Handler) IsArmed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.press.isPending()
}

// DragStart returns the starting position of the current drag (if any).
func (h *Handler) DragStart() (Position, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.drag.down {
		return Position{}, false
	}
	return h.drag.start, true
}

// afterFunc adapts time.AfterFunc to dragselect.Timer.
func afterFunc(d time.Duration, f func()) dragselect.Timer {
	return time.AfterFunc(d, f)
}
