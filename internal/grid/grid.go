// Package grid provides a virtualized, vertically scrolling grid of items.
//
// Grid lays out Count items in fixed-size cells, Columns per row, below an
// optional header band. Only cells whose rows intersect the viewport are
// materialized: geometry queries for anything else report not ok. Grid
// implements dragselect.Container and dragselect.Scroller.
package grid

import (
	"sync"

	"github.com/dshills/dragselect/internal/dragselect"
)

// Layout describes cell geometry. All values are in screen cells.
type Layout struct {
	// Columns is the number of items per row.
	Columns int

	// CellWidth and CellHeight are the item size, padding included.
	CellWidth  int
	CellHeight int

	// Gap is the empty space between cells on both axes.
	Gap int

	// HeaderRows is the height of the non-selectable header above item 0.
	HeaderRows int
}

// DefaultLayout returns a compact terminal layout.
func DefaultLayout() Layout {
	return Layout{
		Columns:    4,
		CellWidth:  14,
		CellHeight: 3,
		Gap:        1,
		HeaderRows: 2,
	}
}

// normalized clamps layout values to usable minimums.
func (l Layout) normalized() Layout {
	if l.Columns < 1 {
		l.Columns = 1
	}
	if l.CellWidth < 1 {
		l.CellWidth = 1
	}
	if l.CellHeight < 1 {
		l.CellHeight = 1
	}
	if l.Gap < 0 {
		l.Gap = 0
	}
	if l.HeaderRows < 0 {
		l.HeaderRows = 0
	}
	return l
}

// Grid is a virtualized grid container.
type Grid struct {
	mu sync.RWMutex

	// Screen rectangle the grid occupies
	bounds dragselect.Rect

	layout Layout
	count  int

	// Scroll offset in content rows from the top
	offset int

	// Optional filter applied during hit-testing
	selectable func(index int) bool
}

// New creates a grid with count items inside bounds.
func New(bounds dragselect.Rect, layout Layout, count int) *Grid {
	if count < 0 {
		count = 0
	}
	return &Grid{
		bounds: bounds,
		layout: layout.normalized(),
		count:  count,
	}
}

// Bounds returns the grid's screen rectangle.
func (g *Grid) Bounds() dragselect.Rect {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.bounds
}

// Layout returns the cell layout.
func (g *Grid) Layout() Layout {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.layout
}

// ChildCount returns the number of items.
func (g *Grid) ChildCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.count
}

// Offset returns the scroll offset.
func (g *Grid) Offset() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.offset
}

// Resize moves the grid to new bounds and re-clamps the scroll offset.
func (g *Grid) Resize(bounds dragselect.Rect) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bounds = bounds
	g.clamp()
}

// SetLayout replaces the layout and re-clamps the scroll offset.
func (g *Grid) SetLayout(layout Layout) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.layout = layout.normalized()
	g.clamp()
}

// SetCount changes the number of items. Shrinking the collection while a
// drag is in progress is allowed; hit-testing simply stops returning the
// removed indices.
func (g *Grid) SetCount(count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if count < 0 {
		count = 0
	}
	g.count = count
	g.clamp()
}

// SetSelectable installs a predicate consulted during hit-testing. Indices
// it rejects are never returned by IndexUnderPoint. A nil predicate accepts
// every index.
func (g *Grid) SetSelectable(fn func(index int) bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selectable = fn
}

// Selectable reports whether the predicate accepts index. Indices outside
// the collection are never selectable.
func (g *Grid) Selectable(index int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if index < 0 || index >= g.count {
		return false
	}
	return g.selectable == nil || g.selectable(index)
}

// rows returns the number of item rows (internal, no lock).
func (g *Grid) rows() int {
	if g.count == 0 {
		return 0
	}
	return (g.count + g.layout.Columns - 1) / g.layout.Columns
}

// rowPitch returns the distance between row tops (internal, no lock).
func (g *Grid) rowPitch() int {
	return g.layout.CellHeight + g.layout.Gap
}

// colPitch returns the distance between column lefts (internal, no lock).
func (g *Grid) colPitch() int {
	return g.layout.CellWidth + g.layout.Gap
}

// contentHeight returns the full scrollable height (internal, no lock).
func (g *Grid) contentHeight() int {
	rows := g.rows()
	if rows == 0 {
		return g.layout.HeaderRows
	}
	return g.layout.HeaderRows + rows*g.rowPitch() - g.layout.Gap
}

// maxOffset returns the largest valid scroll offset (internal, no lock).
func (g *Grid) maxOffset() int {
	m := g.contentHeight() - g.bounds.Height()
	if m < 0 {
		return 0
	}
	return m
}

// clamp keeps the offset in range (internal, no lock).
func (g *Grid) clamp() {
	if max := g.maxOffset(); g.offset > max {
		g.offset = max
	}
	if g.offset < 0 {
		g.offset = 0
	}
}
