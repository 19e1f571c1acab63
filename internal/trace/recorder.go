package trace

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/sjson"

	"github.com/dshills/dragselect/internal/dragselect"
	"github.com/dshills/dragselect/internal/grid"
)

// Geometry is the grid state a trace starts from.
type Geometry struct {
	Bounds dragselect.Rect
	Layout grid.Layout
	Items  int
	Offset int
}

// GeometryOf captures g's current geometry.
func GeometryOf(g *grid.Grid) Geometry {
	return Geometry{
		Bounds: g.Bounds(),
		Layout: g.Layout(),
		Items:  g.ChildCount(),
		Offset: g.Offset(),
	}
}

// Recorder accumulates events into a JSON trace document.
type Recorder struct {
	mu    sync.Mutex
	doc   []byte
	id    uuid.UUID
	start time.Time
	now   func() time.Time
	count int

	// First error from a wrapped call; wrapped calls cannot return one.
	err error
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRecorder starts a trace from geom with engine settings cfg.
func NewRecorder(geom Geometry, cfg dragselect.Config, opts ...RecorderOption) (*Recorder, error) {
	r := &Recorder{
		doc: []byte(`{}`),
		id:  uuid.New(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.start = r.now()

	fields := []struct {
		path  string
		value any
	}{
		{"version", Version},
		{"id", r.id.String()},
		{"created", r.start.UTC().Format(time.RFC3339Nano)},
		{"grid.bounds.left", geom.Bounds.Left},
		{"grid.bounds.top", geom.Bounds.Top},
		{"grid.bounds.right", geom.Bounds.Right},
		{"grid.bounds.bottom", geom.Bounds.Bottom},
		{"grid.columns", geom.Layout.Columns},
		{"grid.cell_width", geom.Layout.CellWidth},
		{"grid.cell_height", geom.Layout.CellHeight},
		{"grid.gap", geom.Layout.Gap},
		{"grid.header_rows", geom.Layout.HeaderRows},
		{"grid.items", geom.Items},
		{"grid.offset", geom.Offset},
		{"engine.mode", cfg.Mode.String()},
		{"engine.hotspot_height", cfg.HotspotHeight},
		{"engine.hotspot_offset_top", cfg.HotspotOffsetTop},
		{"engine.hotspot_offset_bottom", cfg.HotspotOffsetBottom},
		{"engine.tick_interval", cfg.TickInterval.String()},
	}
	var err error
	for _, f := range fields {
		if r.doc, err = sjson.SetBytes(r.doc, f.path, f.value); err != nil {
			return nil, fmt.Errorf("writing trace header %s: %w", f.path, err)
		}
	}
	if r.doc, err = sjson.SetRawBytes(r.doc, "events", []byte(`[]`)); err != nil {
		return nil, fmt.Errorf("writing trace header: %w", err)
	}
	return r, nil
}

// ID returns the trace identifier.
func (r *Recorder) ID() uuid.UUID {
	return r.id
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Record appends ev. A zero T is stamped with the recorder clock.
func (r *Recorder) Record(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ev.T == 0 {
		ev.T = r.now().Sub(r.start)
	}

	raw, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	doc, err := sjson.SetRawBytes(r.doc, "events.-1", raw)
	if err != nil {
		return fmt.Errorf("appending trace event: %w", err)
	}
	r.doc = doc
	r.count++
	return nil
}

// encodeEvent writes only the fields meaningful for the kind.
func encodeEvent(ev Event) ([]byte, error) {
	obj := []byte(`{}`)
	set := func(path string, v any) error {
		var err error
		obj, err = sjson.SetBytes(obj, path, v)
		return err
	}

	if err := set("t", ev.T.Milliseconds()); err != nil {
		return nil, err
	}
	if err := set("kind", string(ev.Kind)); err != nil {
		return nil, err
	}

	var err error
	switch ev.Kind {
	case KindDown, KindMove, KindResize:
		if err = set("x", ev.X); err == nil {
			err = set("y", ev.Y)
		}
	case KindActivate, KindToggle:
		err = set("index", ev.Index)
	case KindScroll:
		err = set("delta", ev.Delta)
	case KindMode:
		err = set("mode", ev.Mode)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s event: %w", ev.Kind, err)
	}
	return obj, nil
}

// record appends ev, keeping the first failure for Err.
func (r *Recorder) record(ev Event) {
	if err := r.Record(ev); err != nil {
		r.mu.Lock()
		if r.err == nil {
			r.err = err
		}
		r.mu.Unlock()
	}
}

// Err returns the first error hit while recording wrapped calls.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Bytes returns a copy of the trace document.
func (r *Recorder) Bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]byte, len(r.doc))
	copy(out, r.doc)
	return out
}

// Save writes the trace document to path.
func (r *Recorder) Save(path string) error {
	if err := os.WriteFile(path, r.Bytes(), 0o644); err != nil {
		return fmt.Errorf("saving trace: %w", err)
	}
	return nil
}
