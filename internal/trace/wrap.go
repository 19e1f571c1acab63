package trace

import (
	"github.com/dshills/dragselect/internal/dragselect"
	"github.com/dshills/dragselect/internal/grid"
)

// Engine records calls before forwarding them to a dragselect.Engine.
type Engine struct {
	*dragselect.Engine
	rec *Recorder
}

// WrapEngine returns an engine whose gesture calls are recorded to rec.
func (r *Recorder) WrapEngine(e *dragselect.Engine) *Engine {
	return &Engine{Engine: e, rec: r}
}

// Activate records and forwards.
func (e *Engine) Activate(start int) bool {
	e.rec.record(Event{Kind: KindActivate, Index: start})
	return e.Engine.Activate(start)
}

// Deactivate records and forwards.
func (e *Engine) Deactivate() bool {
	e.rec.record(Event{Kind: KindDeactivate})
	return e.Engine.Deactivate()
}

// PointerDown records and forwards.
func (e *Engine) PointerDown(c dragselect.Container, p dragselect.Point) bool {
	e.rec.record(Event{Kind: KindDown, X: p.X, Y: p.Y})
	return e.Engine.PointerDown(c, p)
}

// PointerMove records and forwards.
func (e *Engine) PointerMove(c dragselect.Container, p dragselect.Point) {
	e.rec.record(Event{Kind: KindMove, X: p.X, Y: p.Y})
	e.Engine.PointerMove(c, p)
}

// PointerUp records and forwards.
func (e *Engine) PointerUp() {
	e.rec.record(Event{Kind: KindUp})
	e.Engine.PointerUp()
}

// SetMode records and forwards.
func (e *Engine) SetMode(m dragselect.Mode) {
	e.rec.record(Event{Kind: KindMode, Mode: m.String()})
	e.Engine.SetMode(m)
}

// SetConfig records a mode change, if any, and forwards.
func (e *Engine) SetConfig(cfg dragselect.Config) {
	if cfg.Mode != e.Engine.Mode() {
		e.rec.record(Event{Kind: KindMode, Mode: cfg.Mode.String()})
	}
	e.Engine.SetConfig(cfg)
}

// Grid records scrolling and resizing before forwarding to a grid.Grid.
// Auto-scroll ticks reach it through the engine, so they are captured too.
type Grid struct {
	*grid.Grid
	rec *Recorder
}

// WrapGrid returns a grid whose scroll and resize calls are recorded to rec.
func (r *Recorder) WrapGrid(g *grid.Grid) *Grid {
	return &Grid{Grid: g, rec: r}
}

// ScrollBy records and forwards.
func (g *Grid) ScrollBy(delta int) {
	if delta == 0 {
		return
	}
	g.rec.record(Event{Kind: KindScroll, Delta: delta})
	g.Grid.ScrollBy(delta)
}

// ScrollTo records the change as a relative scroll and forwards.
func (g *Grid) ScrollTo(offset int) {
	g.ScrollBy(offset - g.Grid.Offset())
}

// Resize records and forwards. Only the right and bottom edges are
// recorded; the origin is expected to stay put.
func (g *Grid) Resize(bounds dragselect.Rect) {
	g.rec.record(Event{Kind: KindResize, X: bounds.Right, Y: bounds.Bottom})
	g.Grid.Resize(bounds)
}
