package mouse

// hold is the left button between press and release.
type hold struct {
	down  bool
	start Position
	last  Position
}

func (h *hold) press(pos Position) {
	*h = hold{down: true, start: pos, last: pos}
}

func (h *hold) moveTo(pos Position) {
	if h.down {
		h.last = pos
	}
}

func (h *hold) release() {
	*h = hold{}
}

// DragState is a snapshot of the held-button state.
type DragState struct {
	// Active indicates the left button is held.
	Active bool

	// Selecting indicates the drag drives a selection session.
	Selecting bool

	StartPos   Position
	CurrentPos Position

	// Delta is CurrentPos minus StartPos.
	Delta Position
}

// DragState returns a snapshot of the current drag.
func (h *Handler) DragState() DragState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return DragState{
		Active:     h.drag.down,
		Selecting:  h.owning,
		StartPos:   h.drag.start,
		CurrentPos: h.drag.last,
		Delta:      Position{X: h.drag.last.X - h.drag.start.X, Y: h.drag.last.Y - h.drag.start.Y},
	}
}
