package grid

// ScrollBy scrolls by delta rows, clamped to the content.
func (g *Grid) ScrollBy(delta int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.offset += delta
	g.clamp()
}

// ScrollTo sets the scroll offset, clamped to the content.
func (g *Grid) ScrollTo(offset int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.offset = offset
	g.clamp()
}

// CanScrollUp reports whether content is hidden above the viewport.
func (g *Grid) CanScrollUp() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.offset > 0
}

// CanScrollDown reports whether content is hidden below the viewport.
func (g *Grid) CanScrollDown() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.offset < g.maxOffset()
}

// EnsureVisible scrolls minimally so the whole cell of index is in view.
// Returns true if scrolling occurred.
func (g *Grid) EnsureVisible(index int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if index < 0 || index >= g.count {
		return false
	}
	r := g.contentRect(index)
	height := g.bounds.Height()
	prev := g.offset

	if r.Top < g.offset {
		g.offset = r.Top
	} else if r.Bottom > g.offset+height {
		g.offset = r.Bottom - height
	}
	g.clamp()
	return g.offset != prev
}

// ScrollPercent returns how far through the content we've scrolled (0.0 to 1.0).
func (g *Grid) ScrollPercent() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	max := g.maxOffset()
	if max == 0 {
		return 0.0
	}
	return float64(g.offset) / float64(max)
}

// ScrollToPercent scrolls to a fraction of the content.
func (g *Grid) ScrollToPercent(percent float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if percent < 0 {
		percent = 0
	}
	if percent > 1 {
		percent = 1
	}
	g.offset = int(float64(g.maxOffset()) * percent)
	g.clamp()
}
