// Package statusline renders the one-row status bar below the grid.
package statusline

import (
	"fmt"

	"github.com/dshills/dragselect/internal/renderer/backend"
	"github.com/dshills/dragselect/internal/renderer/core"
	"github.com/dshills/dragselect/internal/renderer/style"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// StatusLine shows the drag-select state: mode, whether a session is
// active or auto-scrolling, the selection count and scroll position.
type StatusLine struct {
	mode      string
	active    bool
	scrolling bool
	selected  int
	total     int
	percent   int

	message     string
	messageType MessageType

	width int
}

// New creates a status line in range mode.
func New() *StatusLine {
	return &StatusLine{mode: "range"}
}

// SetMode updates the displayed selection mode.
func (s *StatusLine) SetMode(mode string) {
	s.mode = mode
}

// SetActive updates the session indicator.
func (s *StatusLine) SetActive(active bool) {
	s.active = active
}

// SetScrolling updates the auto-scroll indicator.
func (s *StatusLine) SetScrolling(scrolling bool) {
	s.scrolling = scrolling
}

// SetCount updates the selected and total item counts.
func (s *StatusLine) SetCount(selected, total int) {
	s.selected = selected
	s.total = total
}

// SetScrollPercent updates the scroll position, 0 to 100.
func (s *StatusLine) SetScrollPercent(percent int) {
	s.percent = percent
}

// SetMessage displays a message on the right side until cleared.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message.
func (s *StatusLine) Message() (string, MessageType) {
	return s.message, s.messageType
}

// Resize updates the width.
func (s *StatusLine) Resize(width int) {
	s.width = width
}

// Left returns the left-hand status text.
func (s *StatusLine) Left() string {
	state := "idle"
	switch {
	case s.scrolling:
		state = "scrolling"
	case s.active:
		state = "dragging"
	}
	return fmt.Sprintf(" %s | %s | %d/%d selected", s.mode, state, s.selected, s.total)
}

// Right returns the right-hand text: the message if any, else the position.
func (s *StatusLine) Right() string {
	if s.message != "" {
		return s.message + " "
	}
	switch s.percent {
	case 0:
		return "Top "
	case 100:
		return "Bot "
	default:
		return fmt.Sprintf("%d%% ", s.percent)
	}
}

// Render draws the status line at row.
func (s *StatusLine) Render(b backend.Backend, row int, r *style.Resolver) {
	if s.width <= 0 {
		return
	}
	bar := r.Status()
	b.Fill(core.RectFromSize(row, 0, 1, s.width), core.NewStyledCell(' ', bar))

	left := core.Truncate(s.Left(), s.width, "…")
	drawText(b, 0, row, left, bar.Bold())

	right := s.Right()
	rw := core.StringWidth(right)
	start := s.width - rw
	if start <= core.StringWidth(left) {
		return
	}
	drawText(b, start, row, right, s.messageStyle(r))
}

func (s *StatusLine) messageStyle(r *style.Resolver) core.Style {
	st := r.Status()
	switch s.messageType {
	case MessageError:
		st.Foreground = core.MustHex("#ff5f5f")
		return st.Bold()
	case MessageWarning:
		st.Foreground = r.Theme().Anchor
	}
	return st
}

// drawText writes s starting at x and returns the column after it.
func drawText(b backend.Backend, x, y int, s string, st core.Style) int {
	for _, c := range core.CellsFromString(s, st) {
		b.SetCell(x, y, c)
		x++
	}
	return x
}
