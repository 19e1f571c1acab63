package backend

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/dragselect/internal/renderer/core"
)

func TestNullBackendCells(t *testing.T) {
	b := NewNullBackend(10, 4)
	if err := b.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	style := core.NewStyle(core.MustHex("#ff0000"), core.ColorDefault)
	b.SetCell(2, 1, core.NewStyledCell('X', style))
	if got := b.GetCell(2, 1); got.Rune != 'X' || got.Style != style {
		t.Errorf("GetCell() = %+v", got)
	}

	b.SetCell(-1, 0, core.NewStyledCell('Y', style))
	b.SetCell(10, 0, core.NewStyledCell('Y', style))
	if got := b.GetCell(-1, 0); got != core.EmptyCell() {
		t.Errorf("GetCell(-1, 0) = %+v, want empty", got)
	}

	b.Fill(core.ScreenRect{Top: 2, Left: 8, Bottom: 9, Right: 20}, core.NewStyledCell('.', style))
	if got := b.Row(2); got != "        .." {
		t.Errorf("Row(2) = %q", got)
	}

	b.Clear()
	if got := b.Row(1); got != "          " {
		t.Errorf("Row(1) after Clear = %q", got)
	}
}

func TestNullBackendEvents(t *testing.T) {
	b := NewNullBackend(10, 4)
	b.Init()

	ran := false
	if !b.PostEvent(Interrupt(func() { ran = true })) {
		t.Fatal("PostEvent() = false")
	}
	ev := b.PollEvent()
	if ev.Type != EventInterrupt || ev.Func == nil {
		t.Fatalf("PollEvent() = %+v, want interrupt", ev)
	}
	ev.Func()
	if !ran {
		t.Error("interrupt func did not run")
	}

	b.Resize(20, 5)
	ev = b.PollEvent()
	if ev.Type != EventResize || ev.Width != 20 || ev.Height != 5 {
		t.Errorf("PollEvent() after Resize = %+v", ev)
	}
	if w, h := b.Size(); w != 20 || h != 5 {
		t.Errorf("Size() = %d, %d", w, h)
	}
}

func TestNullBackendQueueFull(t *testing.T) {
	b := NewNullBackend(1, 1)
	for i := 0; i < 100; i++ {
		b.PostEvent(Event{Type: EventKey})
	}
	if b.PostEvent(Event{Type: EventKey}) {
		t.Error("PostEvent() = true on a full queue")
	}
}

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	term := newTerminalWithScreen(sim)
	if err := term.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	sim.SetSize(20, 6)
	t.Cleanup(term.Shutdown)
	return term, sim
}

func pollType(t *testing.T, term *Terminal, want EventType) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		done := make(chan Event, 1)
		go func() { done <- term.PollEvent() }()
		select {
		case ev := <-done:
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("no event of type %d", want)
		}
	}
}

func TestTerminalCellRoundTrip(t *testing.T) {
	term, _ := newSimTerminal(t)

	style := core.NewStyle(core.ColorFromRGB(10, 20, 30), core.ColorFromRGB(200, 100, 50)).Bold()
	term.SetCell(3, 2, core.NewStyledCell('Q', style))
	term.Show()

	got := term.GetCell(3, 2)
	if got.Rune != 'Q' {
		t.Errorf("GetCell().Rune = %q, want Q", got.Rune)
	}
	if got.Style.Foreground != style.Foreground || got.Style.Background != style.Background {
		t.Errorf("GetCell().Style = %+v, want %+v", got.Style, style)
	}
	if !got.Style.Attributes.Has(core.AttrBold) {
		t.Error("bold lost")
	}
}

func TestTerminalMouseEvents(t *testing.T) {
	term, sim := newSimTerminal(t)

	sim.InjectMouse(4, 3, tcell.Button1, tcell.ModShift)
	ev := pollType(t, term, EventMouse)
	if ev.MouseX != 4 || ev.MouseY != 3 || ev.MouseButton != MouseLeft || !ev.Mod.Has(ModShift) {
		t.Errorf("mouse event = %+v", ev)
	}

	sim.InjectMouse(4, 3, tcell.WheelDown, tcell.ModNone)
	ev = pollType(t, term, EventMouse)
	if ev.MouseButton != MouseWheelDown {
		t.Errorf("MouseButton = %d, want wheel down", ev.MouseButton)
	}
}

func TestTerminalInterrupt(t *testing.T) {
	term, _ := newSimTerminal(t)

	ran := make(chan struct{})
	if !term.PostEvent(Interrupt(func() { close(ran) })) {
		t.Fatal("PostEvent() = false")
	}
	ev := pollType(t, term, EventInterrupt)
	ev.Func()
	select {
	case <-ran:
	default:
		t.Error("interrupt func did not run")
	}
}

func TestConvertMouseButton(t *testing.T) {
	tests := []struct {
		in   tcell.ButtonMask
		want MouseButton
	}{
		{tcell.ButtonNone, MouseNone},
		{tcell.Button1, MouseLeft},
		{tcell.Button2, MouseRight},
		{tcell.Button3, MouseMiddle},
		{tcell.WheelUp, MouseWheelUp},
		{tcell.WheelUp | tcell.Button1, MouseWheelUp},
	}
	for _, tt := range tests {
		if got := convertMouseButton(tt.in); got != tt.want {
			t.Errorf("convertMouseButton(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestConvertKeyRoundTrip(t *testing.T) {
	for tk, key := range keyMap {
		if got := convertKey(tk); got != key {
			t.Errorf("convertKey(%v) = %d, want %d", tk, got, key)
		}
		if got := convertToTcellKey(key); got != tk {
			t.Errorf("convertToTcellKey(%d) = %v, want %v", key, got, tk)
		}
	}
	if got := convertKey(tcell.KeyF1); got != KeyNone {
		t.Errorf("convertKey(F1) = %d, want KeyNone", got)
	}
}
