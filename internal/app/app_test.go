package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dshills/dragselect/internal/config"
	"github.com/dshills/dragselect/internal/dragselect"
	"github.com/dshills/dragselect/internal/input/mouse"
	"github.com/dshills/dragselect/internal/renderer/backend"
	"github.com/dshills/dragselect/internal/trace"
)

// testConfig disables auto-scroll so no real timers fire, and activates on
// press so drags need no hold.
func testConfig() config.Config {
	cfg := config.Default()
	cfg.Grid.Items = 40
	cfg.Engine.HotspotHeight = dragselect.HotspotDisabled
	cfg.Mouse.LongPressTime = 0
	return cfg
}

// Item centers for the default layout on a 60x20 screen: item i sits in
// column i%4 (x = 15*col) and row i/4 (y = 2 + 4*row).
var (
	item0 = [2]int{1, 3}
	item1 = [2]int{16, 3}
	item2 = [2]int{31, 3}
	item4 = [2]int{1, 7}
	item6 = [2]int{31, 7}
)

type harness struct {
	t    *testing.T
	app  *Application
	b    *backend.NullBackend
	errc chan error
}

func start(t *testing.T, opts Options) *harness {
	t.Helper()
	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	b := backend.NewNullBackend(60, 20)
	if err := app.SetBackend(b); err != nil {
		t.Fatalf("SetBackend() error = %v", err)
	}
	h := &harness{t: t, app: app, b: b, errc: make(chan error, 1)}
	go func() { h.errc <- app.Run(context.Background()) }()
	return h
}

func (h *harness) post(ev backend.Event) {
	h.t.Helper()
	if !h.b.PostEvent(ev) {
		h.t.Fatal("event queue full")
	}
}

func (h *harness) mouse(button backend.MouseButton, at [2]int) {
	h.post(backend.Event{Type: backend.EventMouse, MouseX: at[0], MouseY: at[1], MouseButton: button})
}

// drag presses at the first point, drags through the rest and releases at
// the last.
func (h *harness) drag(points ...[2]int) {
	for _, p := range points {
		h.mouse(backend.MouseLeft, p)
	}
	h.mouse(backend.MouseNone, points[len(points)-1])
}

func (h *harness) key(k backend.Key, r rune) {
	h.post(backend.Event{Type: backend.EventKey, Key: k, Rune: r})
}

// sync runs fn on the event loop and waits for it.
func (h *harness) sync(fn func()) {
	h.t.Helper()
	done := make(chan struct{})
	h.post(backend.Interrupt(func() {
		if fn != nil {
			fn()
		}
		close(done)
	}))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		h.t.Fatal("event loop did not run interrupt")
	}
}

func (h *harness) quit() error {
	h.t.Helper()
	h.key(backend.KeyRune, 'q')
	select {
	case err := <-h.errc:
		return err
	case <-time.After(2 * time.Second):
		h.t.Fatal("Run() did not return after quit")
		return nil
	}
}

func TestRunRequiresBackend(t *testing.T) {
	app, err := New(Options{Config: testConfig()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := app.Run(context.Background()); !errors.Is(err, ErrNoBackend) {
		t.Errorf("Run() error = %v, want ErrNoBackend", err)
	}
}

func TestRunTwice(t *testing.T) {
	h := start(t, Options{Config: testConfig()})
	h.sync(nil)
	if err := h.app.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() error = %v, want ErrAlreadyRunning", err)
	}
	if err := h.app.SetBackend(backend.NewNullBackend(1, 1)); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("SetBackend() while running error = %v, want ErrAlreadyRunning", err)
	}
	if err := h.quit(); err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestDragSelectsRange(t *testing.T) {
	h := start(t, Options{Config: testConfig()})
	h.drag(item0, item1, item6)
	if err := h.quit(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []int{0, 1, 2, 3, 4, 5, 6}
	if got := h.app.Selection().Selected(); !reflect.DeepEqual(got, want) {
		t.Errorf("Selected() = %v, want %v", got, want)
	}
	if h.app.Engine().IsActive() {
		t.Error("IsActive() after release")
	}
	if got := testutil.ToFloat64(h.app.metrics.SessionsTotal.WithLabelValues("range")); got != 1 {
		t.Errorf("sessions_total{mode=range} = %v, want 1", got)
	}
}

func TestModeKeySwitchesToPath(t *testing.T) {
	h := start(t, Options{Config: testConfig()})
	h.key(backend.KeyRune, 'm')
	h.drag(item0, item1, item6)
	if err := h.quit(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := h.app.Engine().Mode(); got != dragselect.ModePath {
		t.Errorf("Mode() = %v, want path", got)
	}
	want := []int{0, 1, 6}
	if got := h.app.Selection().Selected(); !reflect.DeepEqual(got, want) {
		t.Errorf("Selected() = %v, want %v", got, want)
	}
}

func TestClickToggles(t *testing.T) {
	cfg := testConfig()
	cfg.Mouse.LongPressTime = config.Duration(time.Hour)
	h := start(t, Options{Config: cfg})

	h.drag(item1)
	h.drag(item4)
	var after []int
	h.sync(func() { after = h.app.Selection().Selected() })
	h.drag(item1)
	if err := h.quit(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if want := []int{1, 4}; !reflect.DeepEqual(after, want) {
		t.Errorf("Selected() after two clicks = %v, want %v", after, want)
	}
	if want := []int{4}; !reflect.DeepEqual(h.app.Selection().Selected(), want) {
		t.Errorf("Selected() after re-click = %v, want %v", h.app.Selection().Selected(), want)
	}
}

func TestEscapeEndsSessionAndClear(t *testing.T) {
	h := start(t, Options{Config: testConfig()})
	h.mouse(backend.MouseLeft, item0)
	h.mouse(backend.MouseLeft, item1)
	h.key(backend.KeyEscape, 0)
	h.mouse(backend.MouseLeft, item6)

	var active bool
	var selected []int
	h.sync(func() {
		active = h.app.Engine().IsActive()
		selected = h.app.Selection().Selected()
	})
	h.mouse(backend.MouseNone, item6)
	h.key(backend.KeyRune, 'c')
	if err := h.quit(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if active {
		t.Error("IsActive() after Esc")
	}
	if want := []int{0, 1}; !reflect.DeepEqual(selected, want) {
		t.Errorf("Selected() after Esc = %v, want %v", selected, want)
	}
	if got := h.app.Selection().Count(); got != 0 {
		t.Errorf("Count() after clear = %d, want 0", got)
	}
}

func TestResizeMovesGrid(t *testing.T) {
	h := start(t, Options{Config: testConfig()})
	h.b.Resize(40, 10)
	if err := h.quit(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := h.app.Grid().Bounds(); got != (dragselect.Rect{Right: 40, Bottom: 9}) {
		t.Errorf("Bounds() = %+v, want 40x9", got)
	}
}

func TestAutoScrollExtendsSelection(t *testing.T) {
	cfg := testConfig()
	cfg.Grid.Items = 200
	cfg.Engine.HotspotHeight = config.DefaultHotspotRows
	cfg.Engine.TickInterval = config.Duration(2 * time.Millisecond)
	h := start(t, Options{Config: cfg})

	// Row 18 is the lowest grid row, inside the bottom band.
	bottom := [2]int{1, 18}
	h.mouse(backend.MouseLeft, item0)
	h.mouse(backend.MouseLeft, bottom)

	var (
		offset    int
		selected  []int
		scrolling bool
	)
	snapshot := func() {
		h.sync(func() {
			offset = h.app.Grid().Offset()
			selected = h.app.Selection().Selected()
			scrolling = h.app.Engine().IsAutoScrolling()
		})
	}

	deadline := time.Now().Add(2 * time.Second)
	for snapshot(); offset < 8; snapshot() {
		if time.Now().After(deadline) {
			t.Fatalf("offset = %d after 2s of auto-scroll, want >= 8", offset)
		}
		time.Sleep(2 * time.Millisecond)
	}
	if !scrolling {
		t.Error("IsAutoScrolling() = false while holding in the bottom band")
	}
	if len(selected) == 0 || selected[0] != 0 || selected[len(selected)-1] <= 16 {
		t.Fatalf("selection = %v, want 0 through an item past 16", selected)
	}
	if last := selected[len(selected)-1]; len(selected) != last+1 {
		t.Errorf("selection = %v, want the contiguous range 0..%d", selected, last)
	}

	h.mouse(backend.MouseNone, bottom)
	snapshot()
	if scrolling || h.app.Engine().IsActive() {
		t.Errorf("after release scrolling = %t, active = %t, want both false", scrolling, h.app.Engine().IsActive())
	}
	stopped := offset
	time.Sleep(20 * time.Millisecond)
	snapshot()
	if offset != stopped {
		t.Errorf("offset moved from %d to %d after release", stopped, offset)
	}

	if err := h.quit(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestKeyboardScrolling(t *testing.T) {
	h := start(t, Options{Config: testConfig()})
	var paged, bottom, top int
	h.key(backend.KeyPageDown, 0)
	h.sync(func() { paged = h.app.Grid().Offset() })
	h.key(backend.KeyEnd, 0)
	h.sync(func() { bottom = h.app.Grid().Offset() })
	h.key(backend.KeyHome, 0)
	h.sync(func() { top = h.app.Grid().Offset() })
	if err := h.quit(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if paged != 19 {
		t.Errorf("Offset() after PgDn = %d, want 19", paged)
	}
	// 10 rows of 4 pitch minus the trailing gap, plus the header, minus 19.
	if bottom != 2+40-1-19 {
		t.Errorf("Offset() after End = %d, want %d", bottom, 2+40-1-19)
	}
	if top != 0 {
		t.Errorf("Offset() after Home = %d, want 0", top)
	}
}

func TestRecordAndReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	h := start(t, Options{Config: testConfig(), RecordPath: path})
	h.drag(item0, item1, item6)
	h.key(backend.KeyPageDown, 0)
	h.drag(item2, item1)
	if err := h.quit(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	tr, err := trace.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	res, err := trace.Replay(tr)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if got, want := res.Selected, h.app.Selection().Selected(); !reflect.DeepEqual(got, want) {
		t.Errorf("replayed Selected = %v, live %v", got, want)
	}
	if got, want := res.Offset, h.app.Grid().Offset(); got != want {
		t.Errorf("replayed Offset = %d, live %d", got, want)
	}
}

func TestScriptFiltersActivation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "even.lua")
	code := "function selectable(i) return i % 2 == 0 end\n"
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.Script.Path = path

	h := start(t, Options{Config: cfg})
	h.drag(item1)
	var afterOdd int
	h.sync(func() { afterOdd = h.app.Selection().Count() })
	h.drag(item2)
	if err := h.quit(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if afterOdd != 0 {
		t.Errorf("Count() after pressing odd item = %d, want 0", afterOdd)
	}
	if want := []int{2}; !reflect.DeepEqual(h.app.Selection().Selected(), want) {
		t.Errorf("Selected() = %v, want %v", h.app.Selection().Selected(), want)
	}
}

func TestScriptLoadFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Script.Path = filepath.Join(t.TempDir(), "missing.lua")
	_, err := New(Options{Config: cfg})
	var ie *InitError
	if !errors.As(err, &ie) || ie.Component != "script" {
		t.Errorf("New() error = %v, want script InitError", err)
	}
}

func TestReloadAppliesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dragselect.toml")
	if err := os.WriteFile(path, []byte("[engine]\nhotspot_height = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := start(t, Options{
		Config:         testConfig(),
		ConfigPath:     path,
		LoadOptions:    []config.Option{config.WithEnvPrefix("")},
		ReloadDebounce: 20 * time.Millisecond,
	})
	h.sync(nil)

	edit := "[engine]\nhotspot_height = -1\nmode = \"path\"\n[grid]\nitems = 12\n"
	if err := os.WriteFile(path, []byte(edit), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for h.app.Engine().Mode() != dragselect.ModePath {
		if time.Now().After(deadline) {
			t.Fatal("reload did not switch the engine to path mode")
		}
		time.Sleep(10 * time.Millisecond)
	}
	var items int
	h.sync(func() { items = h.app.Grid().ChildCount() })
	if err := h.quit(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if items != 12 {
		t.Errorf("ChildCount() after reload = %d, want 12", items)
	}
	if got := h.app.Config().Engine.Mode; got != "path" {
		t.Errorf("Config().Engine.Mode = %q, want path", got)
	}
}

func TestSchedulerPostsToEventLoop(t *testing.T) {
	app, err := New(Options{Config: testConfig()})
	if err != nil {
		t.Fatal(err)
	}
	b := backend.NewNullBackend(10, 10)
	if err := app.SetBackend(b); err != nil {
		t.Fatal(err)
	}

	ran := false
	uiScheduler{app: app}.AfterFunc(time.Millisecond, func() { ran = true })

	ev := b.PollEvent()
	if ev.Type != backend.EventInterrupt {
		t.Fatalf("event type = %v, want interrupt", ev.Type)
	}
	if ran {
		t.Fatal("callback ran off the event loop")
	}
	ev.Func()
	if !ran {
		t.Error("interrupt did not run the callback")
	}
}

// droppingBackend refuses interrupts while drop is positive, like a full
// event queue.
type droppingBackend struct {
	*backend.NullBackend
	drop    atomic.Int32
	dropped atomic.Int32
}

func (b *droppingBackend) PostEvent(ev backend.Event) bool {
	if ev.Type == backend.EventInterrupt && b.drop.Add(-1) >= 0 {
		b.dropped.Add(1)
		return false
	}
	return b.NullBackend.PostEvent(ev)
}

func TestSchedulerRetriesDroppedPost(t *testing.T) {
	app, err := New(Options{Config: testConfig()})
	if err != nil {
		t.Fatal(err)
	}
	b := &droppingBackend{NullBackend: backend.NewNullBackend(10, 10)}
	b.drop.Store(1)
	if err := app.SetBackend(b); err != nil {
		t.Fatal(err)
	}

	ran := false
	uiScheduler{app: app}.AfterFunc(time.Millisecond, func() { ran = true })

	events := make(chan backend.Event, 1)
	go func() { events <- b.PollEvent() }()
	select {
	case ev := <-events:
		if ev.Type != backend.EventInterrupt {
			t.Fatalf("event type = %v, want interrupt", ev.Type)
		}
		ev.Func()
	case <-time.After(2 * time.Second):
		t.Fatal("callback was never posted after the queue refused it")
	}
	if !ran {
		t.Error("retried interrupt did not run the callback")
	}
	if got := b.dropped.Load(); got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}
}

func TestSchedulerStopEndsRetries(t *testing.T) {
	app, err := New(Options{Config: testConfig()})
	if err != nil {
		t.Fatal(err)
	}
	b := &droppingBackend{NullBackend: backend.NewNullBackend(10, 10)}
	b.drop.Store(1 << 20)
	if err := app.SetBackend(b); err != nil {
		t.Fatal(err)
	}

	timer := uiScheduler{app: app}.AfterFunc(time.Millisecond, func() {})
	deadline := time.Now().Add(2 * time.Second)
	for b.dropped.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("dropped post was not retried")
		}
		time.Sleep(time.Millisecond)
	}
	timer.Stop()
	time.Sleep(5 * time.Millisecond)
	n := b.dropped.Load()
	time.Sleep(20 * time.Millisecond)
	if got := b.dropped.Load(); got != n {
		t.Errorf("dropped grew from %d to %d after Stop()", n, got)
	}
}

func TestPostWithoutBackend(t *testing.T) {
	app, err := New(Options{Config: testConfig()})
	if err != nil {
		t.Fatal(err)
	}
	if app.post(func() {}) {
		t.Error("post() = true without a backend")
	}
}

func TestConvertButton(t *testing.T) {
	tests := []struct {
		in   backend.MouseButton
		want mouse.Button
	}{
		{backend.MouseNone, mouse.ButtonNone},
		{backend.MouseLeft, mouse.ButtonLeft},
		{backend.MouseMiddle, mouse.ButtonMiddle},
		{backend.MouseRight, mouse.ButtonRight},
		{backend.MouseWheelUp, mouse.ButtonScrollUp},
		{backend.MouseWheelDown, mouse.ButtonScrollDown},
		{backend.MouseWheelLeft, mouse.ButtonScrollLeft},
		{backend.MouseWheelRight, mouse.ButtonScrollRight},
	}
	for _, tt := range tests {
		if got := convertButton(tt.in); got != tt.want {
			t.Errorf("convertButton(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConvertMods(t *testing.T) {
	got := convertMods(backend.ModShift | backend.ModAlt)
	if !got.HasShift() || !got.HasAlt() || got.HasCtrl() || got.HasMeta() {
		t.Errorf("convertMods(shift|alt) = %v", got)
	}
	if convertMods(backend.ModNone) != mouse.ModNone {
		t.Error("convertMods(none) != ModNone")
	}
}
