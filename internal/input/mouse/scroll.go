package mouse

// WheelRows returns the signed number of screen rows a wheel event scrolls
// for items lineHeight rows tall: config.ScrollLines items per notch, or
// ScrollLinesShift with Shift held. Non-wheel and horizontal events scroll
// nothing.
func WheelRows(event Event, config Config, lineHeight int) int {
	lines := config.ScrollLines
	if event.Modifiers.HasShift() {
		lines = config.ScrollLinesShift
	}
	switch event.Button {
	case ButtonScrollUp:
		return -lines * lineHeight
	case ButtonScrollDown:
		return lines * lineHeight
	default:
		return 0
	}
}

// handleScroll scrolls the container for wheel events (lock held). While a
// session is active the pointer is re-sampled so the selection follows the
// content.
func (h *Handler) handleScroll(event Event) Result {
	delta := WheelRows(event, h.config, h.lineHeight)
	if delta == 0 {
		return Result{}
	}
	h.container.ScrollBy(delta)

	if h.owning && h.engine.IsActive() {
		h.engine.PointerMove(h.container, h.drag.last.Point())
	}
	return Result{Outcome: OutcomeScrolled}
}
