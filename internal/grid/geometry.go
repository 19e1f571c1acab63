package grid

import "github.com/dshills/dragselect/internal/dragselect"

// contentRect returns the rectangle of index in content coordinates, with
// x relative to the grid's left edge (internal, no lock).
func (g *Grid) contentRect(index int) dragselect.Rect {
	row := index / g.layout.Columns
	col := index % g.layout.Columns
	top := g.layout.HeaderRows + row*g.rowPitch()
	left := col * g.colPitch()
	return dragselect.Rect{
		Left:   left,
		Top:    top,
		Right:  left + g.layout.CellWidth,
		Bottom: top + g.layout.CellHeight,
	}
}

// screenRect converts a content rectangle to screen coordinates
// (internal, no lock).
func (g *Grid) screenRect(r dragselect.Rect) dragselect.Rect {
	dy := g.bounds.Top - g.offset
	dx := g.bounds.Left
	return dragselect.Rect{
		Left:   r.Left + dx,
		Top:    r.Top + dy,
		Right:  r.Right + dx,
		Bottom: r.Bottom + dy,
	}
}

// materialized reports whether a screen rectangle intersects the viewport
// (internal, no lock).
func (g *Grid) materialized(r dragselect.Rect) bool {
	return r.Top < g.bounds.Bottom && r.Bottom > g.bounds.Top &&
		r.Left < g.bounds.Right && r.Right > g.bounds.Left
}

// ScreenRectOf returns the screen rectangle of a visible item.
func (g *Grid) ScreenRectOf(index int) (dragselect.Rect, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if index < 0 || index >= g.count {
		return dragselect.Rect{}, false
	}
	r := g.screenRect(g.contentRect(index))
	if !g.materialized(r) {
		return dragselect.Rect{}, false
	}
	return r, true
}

// IndexUnderPoint resolves a screen position to a selectable item.
// Gaps, the header, positions outside the grid and indices rejected by the
// selectable predicate report not ok.
func (g *Grid) IndexUnderPoint(p dragselect.Point) (int, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	index, ok := g.indexAt(p)
	if !ok {
		return 0, false
	}
	if g.selectable != nil && !g.selectable(index) {
		return 0, false
	}
	return index, true
}

// indexAt maps a point to an index ignoring the predicate (internal, no lock).
func (g *Grid) indexAt(p dragselect.Point) (int, bool) {
	if !g.bounds.Contains(p) {
		return 0, false
	}

	y := p.Y - g.bounds.Top + g.offset - g.layout.HeaderRows
	if y < 0 {
		return 0, false
	}
	row, rowOff := y/g.rowPitch(), y%g.rowPitch()
	if rowOff >= g.layout.CellHeight {
		return 0, false
	}

	x := p.X - g.bounds.Left
	col, colOff := x/g.colPitch(), x%g.colPitch()
	if col >= g.layout.Columns || colOff >= g.layout.CellWidth {
		return 0, false
	}

	index := row*g.layout.Columns + col
	if index >= g.count {
		return 0, false
	}
	return index, true
}

// VisibleRange returns the first and last materialized indices.
// ok is false when no item is visible.
func (g *Grid) VisibleRange() (first, last int, ok bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rows := g.rows()
	if rows == 0 {
		return 0, 0, false
	}

	top := g.offset - g.layout.HeaderRows
	bottom := top + g.bounds.Height() - 1

	firstRow := 0
	if top > 0 {
		firstRow = top / g.rowPitch()
		if top%g.rowPitch() >= g.layout.CellHeight {
			firstRow++
		}
	}
	if bottom < 0 {
		return 0, 0, false
	}
	lastRow := bottom / g.rowPitch()
	if lastRow >= rows {
		lastRow = rows - 1
	}
	if firstRow > lastRow {
		return 0, 0, false
	}

	first = firstRow * g.layout.Columns
	last = (lastRow+1)*g.layout.Columns - 1
	if last >= g.count {
		last = g.count - 1
	}
	return first, last, true
}

// HeaderRect returns the screen rectangle of the visible part of the header.
// ok is false once the header has scrolled out of view.
func (g *Grid) HeaderRect() (dragselect.Rect, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.layout.HeaderRows == 0 {
		return dragselect.Rect{}, false
	}
	r := g.screenRect(dragselect.Rect{
		Left:   0,
		Top:    0,
		Right:  g.bounds.Width(),
		Bottom: g.layout.HeaderRows,
	})
	if !g.materialized(r) {
		return dragselect.Rect{}, false
	}
	if r.Top < g.bounds.Top {
		r.Top = g.bounds.Top
	}
	return r, true
}
