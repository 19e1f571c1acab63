package dragselect

// Band is a vertical screen interval [Start, End], both inclusive.
type Band struct {
	Start int
	End   int
}

// Contains returns true if y falls within the band.
func (b Band) Contains(y int) bool {
	return y >= b.Start && y <= b.End
}

// Height returns the band height.
func (b Band) Height() int {
	return b.End - b.Start
}

// Hotspots holds the two auto-scroll bands captured at pointer-down.
type Hotspots struct {
	Top    Band
	Bottom Band
}

// HotspotsFor computes the auto-scroll bands for a container rectangle.
// ok is false when auto-scroll is disabled.
//
// A band is never taller than half the space between the offsets, so the
// two bands never overlap and the middle of a short container stays
// outside both.
func HotspotsFor(bounds Rect, cfg Config) (h Hotspots, ok bool) {
	if !cfg.AutoScrollEnabled() {
		return Hotspots{}, false
	}
	top := bounds.Top + cfg.HotspotOffsetTop
	bottom := bounds.Bottom - cfg.HotspotOffsetBottom
	height := min(cfg.HotspotHeight, max((bottom-top-1)/2, 0))
	return Hotspots{
		Top:    Band{Start: top, End: top + height},
		Bottom: Band{Start: bottom - height, End: bottom},
	}, true
}

// HotspotState is the per-move auto-scroll evaluation.
type HotspotState struct {
	InTop    bool
	InBottom bool

	// Velocity is the scroll delta per tick. Negative scrolls up.
	Velocity int
}

// Scrolling reports whether the pointer is inside either band.
func (s HotspotState) Scrolling() bool {
	return s.InTop || s.InBottom
}

// Evaluate returns the hotspot state for a pointer at y. The top band wins
// when the bands overlap.
//
// Speed is half the distance from the band's inner edge, so it peaks at the
// outer edge and falls off toward the list center. The halving truncates,
// so speed never decreases toward the outer edge but adjacent rows can
// share a value; it grows strictly every two rows.
func (h Hotspots) Evaluate(y int) HotspotState {
	switch {
	case h.Top.Contains(y):
		return HotspotState{InTop: true, Velocity: -((h.Top.Height() - (y - h.Top.Start)) / 2)}
	case h.Bottom.Contains(y):
		return HotspotState{InBottom: true, Velocity: (y - h.Bottom.Start) / 2}
	default:
		return HotspotState{}
	}
}
