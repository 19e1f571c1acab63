package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/dshills/dragselect/internal/dragselect"
	"github.com/dshills/dragselect/internal/grid"
	"github.com/dshills/dragselect/internal/renderer/backend"
	"github.com/dshills/dragselect/internal/renderer/style"
	"github.com/dshills/dragselect/internal/selection"
)

type stopTimer struct{}

func (stopTimer) Stop() bool { return true }

// idle never fires, so auto-scroll state stays put for assertions.
var idle = dragselect.SchedulerFunc(func(time.Duration, func()) dragselect.Timer { return stopTimer{} })

type fixture struct {
	b      *backend.NullBackend
	grid   *grid.Grid
	set    *selection.Set
	engine *dragselect.Engine
	r      *Renderer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := backend.NewNullBackend(40, 11)
	if err := b.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	layout := grid.Layout{Columns: 3, CellWidth: 12, CellHeight: 1, Gap: 1, HeaderRows: 1}
	g := grid.New(GridBounds(40, 11), layout, 30)
	set := selection.NewSet(30)
	cfg := dragselect.DefaultConfig()
	cfg.HotspotHeight = 2
	e := dragselect.New(set, dragselect.WithConfig(cfg), dragselect.WithScheduler(idle))
	return &fixture{b: b, grid: g, set: set, engine: e, r: New(b, g, set, e, DefaultOptions())}
}

func TestRenderFrame(t *testing.T) {
	f := newFixture(t)
	f.r.RenderNow()

	if got := f.b.Row(0); !strings.HasPrefix(got, " dragselect · 30 items") {
		t.Errorf("header = %q", got)
	}
	if got := f.b.Row(1); !strings.Contains(got, "item 0") || !strings.Contains(got, "item 2") {
		t.Errorf("Row(1) = %q, want items 0..2", got)
	}
	if got := f.b.Row(10); !strings.Contains(got, "range | idle | 0/30 selected") {
		t.Errorf("status = %q", got)
	}
	if f.b.Shows() != 1 || f.r.FrameCount() != 1 {
		t.Errorf("Shows() = %d, FrameCount() = %d, want 1, 1", f.b.Shows(), f.r.FrameCount())
	}
	if f.r.NeedsRedraw() {
		t.Error("NeedsRedraw() after RenderNow")
	}
	f.r.MarkDirty()
	if !f.r.NeedsRedraw() {
		t.Error("NeedsRedraw() false after MarkDirty")
	}
}

func TestRenderSelection(t *testing.T) {
	f := newFixture(t)
	res := style.NewResolver(style.DefaultTheme())
	if err := f.set.SetSelected([]int{1}, true); err != nil {
		t.Fatal(err)
	}
	f.r.RenderNow()

	if got := f.b.Row(1); !strings.Contains(got, "✓ item 1") {
		t.Errorf("Row(1) = %q, want marked item 1", got)
	}
	if got := f.b.GetCell(13, 1).Style.Background; got != res.Resolve(style.State{Selected: true}).Background {
		t.Errorf("item 1 background = %v", got)
	}
	if got := f.b.GetCell(0, 1).Style.Background; got != res.Resolve(style.State{}).Background {
		t.Errorf("item 0 background = %v", got)
	}
	if got := f.b.Row(10); !strings.Contains(got, "1/30 selected") {
		t.Errorf("status = %q", got)
	}
}

func TestRenderAnchor(t *testing.T) {
	f := newFixture(t)
	res := style.NewResolver(style.DefaultTheme())
	f.engine.Activate(0)
	f.r.RenderNow()

	want := res.Resolve(style.State{Selected: true, Anchor: true, Pointer: true})
	got := f.b.GetCell(0, 1).Style
	if got.Background != want.Background || got.Attributes != want.Attributes {
		t.Errorf("anchor style = %+v, want %+v", got, want)
	}
	if row := f.b.Row(10); !strings.Contains(row, "dragging") {
		t.Errorf("status = %q, want dragging", row)
	}
}

func TestRenderDisabled(t *testing.T) {
	f := newFixture(t)
	res := style.NewResolver(style.DefaultTheme())
	f.grid.SetSelectable(func(i int) bool { return i != 2 })
	f.r.RenderNow()

	if got := f.b.GetCell(26, 1).Style.Foreground; got != res.Resolve(style.State{Disabled: true}).Foreground {
		t.Errorf("disabled foreground = %v", got)
	}
}

func TestRenderHotspot(t *testing.T) {
	f := newFixture(t)
	res := style.NewResolver(style.DefaultTheme())
	f.engine.Activate(0)
	f.engine.PointerDown(f.grid, dragselect.Point{X: 0, Y: 1})
	f.engine.PointerMove(f.grid, dragselect.Point{X: 0, Y: 9})
	if !f.engine.IsAutoScrolling() {
		t.Fatal("IsAutoScrolling() = false in bottom band")
	}
	f.r.RenderNow()

	if got := f.b.GetCell(39, 8).Style.Background; got != res.Hotspot().Background {
		t.Errorf("band background = %v, want %v", got, res.Hotspot().Background)
	}
	if got := f.b.GetCell(39, 5).Style.Background; got != res.Screen().Background {
		t.Errorf("outside band background = %v, want screen", got)
	}
	if row := f.b.Row(10); !strings.Contains(row, "scrolling") {
		t.Errorf("status = %q, want scrolling", row)
	}
}

func TestRenderScrolledHeader(t *testing.T) {
	f := newFixture(t)
	f.grid.ScrollBy(1)
	f.r.RenderNow()

	if got := f.b.Row(0); !strings.Contains(got, "item 0") {
		t.Errorf("Row(0) after scroll = %q, want first item row", got)
	}
}

func TestResize(t *testing.T) {
	f := newFixture(t)
	f.r.Resize(20, 5)
	if got := f.r.GridBounds(); got != (dragselect.Rect{Right: 20, Bottom: 4}) {
		t.Errorf("GridBounds() = %+v", got)
	}
	if !f.r.NeedsRedraw() {
		t.Error("NeedsRedraw() false after Resize")
	}
}

func TestGridBounds(t *testing.T) {
	tests := []struct {
		w, h int
		want dragselect.Rect
	}{
		{80, 24, dragselect.Rect{Right: 80, Bottom: 23}},
		{10, 1, dragselect.Rect{Right: 10, Bottom: 0}},
		{0, 0, dragselect.Rect{}},
	}
	for _, tt := range tests {
		if got := GridBounds(tt.w, tt.h); got != tt.want {
			t.Errorf("GridBounds(%d, %d) = %+v, want %+v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestSetTheme(t *testing.T) {
	f := newFixture(t)
	th := style.DefaultTheme()
	th.Item = th.Anchor
	f.r.SetTheme(th)
	f.r.RenderNow()

	if got := f.b.GetCell(0, 1).Style.Background; got != th.Anchor {
		t.Errorf("item background after SetTheme = %v, want %v", got, th.Anchor)
	}
}
