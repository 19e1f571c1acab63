package trace

import (
	"fmt"
	"os"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/dragselect/internal/dragselect"
	"github.com/dshills/dragselect/internal/grid"
	"github.com/dshills/dragselect/internal/logging"
	"github.com/dshills/dragselect/internal/selection"
)

// Trace is a parsed trace document.
type Trace struct {
	ID       string
	Created  time.Time
	Geometry Geometry
	Engine   dragselect.Config
	Events   []Event
}

// Load reads and parses the trace at path.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a trace document.
func Parse(data []byte) (*Trace, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidTrace)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: document is not an object", ErrInvalidTrace)
	}

	version := doc.Get("version")
	if !version.Exists() {
		return nil, fmt.Errorf("%w: missing version", ErrInvalidTrace)
	}
	if v := version.Int(); v < 1 || v > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	t := &Trace{ID: doc.Get("id").String()}
	if created := doc.Get("created"); created.Exists() {
		t.Created, _ = time.Parse(time.RFC3339Nano, created.String())
	}

	g := doc.Get("grid")
	if !g.Exists() {
		return nil, fmt.Errorf("%w: missing grid", ErrInvalidTrace)
	}
	t.Geometry = Geometry{
		Bounds: dragselect.Rect{
			Left:   int(g.Get("bounds.left").Int()),
			Top:    int(g.Get("bounds.top").Int()),
			Right:  int(g.Get("bounds.right").Int()),
			Bottom: int(g.Get("bounds.bottom").Int()),
		},
		Layout: grid.Layout{
			Columns:    int(g.Get("columns").Int()),
			CellWidth:  int(g.Get("cell_width").Int()),
			CellHeight: int(g.Get("cell_height").Int()),
			Gap:        int(g.Get("gap").Int()),
			HeaderRows: int(g.Get("header_rows").Int()),
		},
		Items:  int(g.Get("items").Int()),
		Offset: int(g.Get("offset").Int()),
	}

	t.Engine = dragselect.DefaultConfig()
	e := doc.Get("engine")
	if mode := e.Get("mode"); mode.Exists() {
		m, err := dragselect.ParseMode(mode.String())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTrace, err)
		}
		t.Engine.Mode = m
	}
	if h := e.Get("hotspot_height"); h.Exists() {
		t.Engine.HotspotHeight = int(h.Int())
	}
	t.Engine.HotspotOffsetTop = int(e.Get("hotspot_offset_top").Int())
	t.Engine.HotspotOffsetBottom = int(e.Get("hotspot_offset_bottom").Int())
	if d, err := time.ParseDuration(e.Get("tick_interval").String()); err == nil && d > 0 {
		t.Engine.TickInterval = d
	}

	events := doc.Get("events")
	if !events.IsArray() {
		return nil, fmt.Errorf("%w: events is not an array", ErrInvalidTrace)
	}

	var parseErr error
	events.ForEach(func(_, value gjson.Result) bool {
		ev, err := parseEvent(len(t.Events), value)
		if err != nil {
			parseErr = err
			return false
		}
		t.Events = append(t.Events, ev)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return t, nil
}

func parseEvent(i int, v gjson.Result) (Event, error) {
	kind := Kind(v.Get("kind").String())
	ev := Event{
		T:    time.Duration(v.Get("t").Int()) * time.Millisecond,
		Kind: kind,
	}

	require := func(fields ...string) error {
		for _, f := range fields {
			if !v.Get(f).Exists() {
				return &EventError{Index: i, Kind: string(kind), Message: "missing " + f}
			}
		}
		return nil
	}

	var err error
	switch kind {
	case KindDown, KindMove, KindResize:
		err = require("x", "y")
		ev.X = int(v.Get("x").Int())
		ev.Y = int(v.Get("y").Int())
	case KindActivate, KindToggle:
		err = require("index")
		ev.Index = int(v.Get("index").Int())
	case KindScroll:
		err = require("delta")
		ev.Delta = int(v.Get("delta").Int())
	case KindMode:
		if err = require("mode"); err == nil {
			ev.Mode = v.Get("mode").String()
			if _, perr := dragselect.ParseMode(ev.Mode); perr != nil {
				err = &EventError{Index: i, Kind: string(kind), Message: perr.Error()}
			}
		}
	case KindDeactivate, KindUp, KindClear:
	default:
		err = &EventError{Index: i, Kind: string(kind), Message: "unknown kind"}
	}
	return ev, err
}

// Result is the outcome of a replay.
type Result struct {
	// Selected is the final selection, sorted.
	Selected []int
	// Ranges is Selected as contiguous runs.
	Ranges []selection.Range
	// Offset is the final scroll offset.
	Offset int
	// Events is the number of events applied.
	Events int
	// Active reports whether the trace ended mid-session.
	Active bool
}

// ReplayOption configures Replay.
type ReplayOption func(*replayConfig)

type replayConfig struct {
	selectable func(int) bool
	log        *logging.Logger
}

// WithSelectable installs the grid's selectable predicate for the replay.
// It must match the predicate used while recording.
func WithSelectable(fn func(index int) bool) ReplayOption {
	return func(c *replayConfig) {
		c.selectable = fn
	}
}

// WithLogger sets the logger handed to the replay engine.
func WithLogger(l *logging.Logger) ReplayOption {
	return func(c *replayConfig) {
		c.log = l
	}
}

// idleTimer is returned by the replay scheduler, which never fires.
type idleTimer struct{}

func (idleTimer) Stop() bool { return true }

// Replay runs t against a fresh grid and selection set.
func Replay(t *Trace, opts ...ReplayOption) (Result, error) {
	rc := replayConfig{log: logging.Discard()}
	for _, opt := range opts {
		opt(&rc)
	}

	geom := t.Geometry
	g := grid.New(geom.Bounds, geom.Layout, geom.Items)
	g.ScrollTo(geom.Offset)
	if rc.selectable != nil {
		g.SetSelectable(rc.selectable)
	}

	set := selection.NewSet(geom.Items)
	never := dragselect.SchedulerFunc(func(time.Duration, func()) dragselect.Timer {
		return idleTimer{}
	})
	eng := dragselect.New(set,
		dragselect.WithConfig(t.Engine),
		dragselect.WithScheduler(never),
		dragselect.WithLogger(rc.log),
	)

	for i, ev := range t.Events {
		switch ev.Kind {
		case KindActivate:
			eng.Activate(ev.Index)
		case KindDeactivate:
			eng.Deactivate()
		case KindDown:
			eng.PointerDown(g, dragselect.Point{X: ev.X, Y: ev.Y})
		case KindMove:
			eng.PointerMove(g, dragselect.Point{X: ev.X, Y: ev.Y})
		case KindUp:
			eng.PointerUp()
		case KindScroll:
			g.ScrollBy(ev.Delta)
		case KindMode:
			m, err := dragselect.ParseMode(ev.Mode)
			if err != nil {
				return Result{}, &EventError{Index: i, Kind: string(ev.Kind), Message: err.Error()}
			}
			eng.SetMode(m)
		case KindToggle:
			// Clicks outside the set are dropped live as well.
			_ = set.Toggle(ev.Index)
		case KindClear:
			set.Clear()
		case KindResize:
			b := g.Bounds()
			g.Resize(dragselect.Rect{Left: b.Left, Top: b.Top, Right: ev.X, Bottom: ev.Y})
		default:
			return Result{}, &EventError{Index: i, Kind: string(ev.Kind), Message: "unknown kind"}
		}
	}

	return Result{
		Selected: set.Selected(),
		Ranges:   set.Ranges(),
		Offset:   g.Offset(),
		Events:   len(t.Events),
		Active:   eng.IsActive(),
	}, nil
}
