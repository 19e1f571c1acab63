package mouse

import "time"

// Decoder turns sampled button state, as terminals report it, into press,
// drag, move and release events. It is not safe for concurrent use; keep
// one per event loop.
type Decoder struct {
	held Button
}

// Decode converts one sample. button is the button currently down, or
// ButtonNone. Wheel buttons always decode as presses and leave the held
// state alone.
func (d *Decoder) Decode(pos Position, button Button, mods Modifier, ts time.Time) Event {
	ev := Event{
		Position:  pos,
		Button:    button,
		Modifiers: mods,
		Timestamp: ts,
	}

	switch {
	case button.IsScroll():
		ev.Action = ActionPress
	case button == ButtonNone && d.held == ButtonNone:
		ev.Action = ActionMove
	case button == ButtonNone:
		ev.Action = ActionRelease
		ev.Button = d.held
		d.held = ButtonNone
	case button == d.held:
		ev.Action = ActionDrag
	default:
		ev.Action = ActionPress
		d.held = button
	}
	return ev
}

// Held returns the button the decoder believes is down.
func (d *Decoder) Held() Button {
	return d.held
}
