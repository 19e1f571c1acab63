package renderer

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/dshills/dragselect/internal/dragselect"
	"github.com/dshills/dragselect/internal/renderer/backend"
	"github.com/dshills/dragselect/internal/renderer/core"
	"github.com/dshills/dragselect/internal/renderer/statusline"
	"github.com/dshills/dragselect/internal/renderer/style"
)

// GridSource provides item geometry.
type GridSource interface {
	Bounds() dragselect.Rect
	ChildCount() int
	VisibleRange() (first, last int, ok bool)
	ScreenRectOf(index int) (dragselect.Rect, bool)
	HeaderRect() (dragselect.Rect, bool)
	Selectable(index int) bool
	ScrollPercent() float64
}

// SelectionReader provides selection state.
type SelectionReader interface {
	IsSelected(index int) bool
	Count() int
}

// SessionProvider provides drag state.
type SessionProvider interface {
	Session() dragselect.Session
	Hotspot() dragselect.HotspotState
	Config() dragselect.Config
	IsAutoScrolling() bool
}

// Options configures the renderer.
type Options struct {
	// Label returns the text drawn in an item cell.
	Label func(index int) string

	// Title is drawn in the header band.
	Title string

	// ShowHotspots tints the active auto-scroll band while scrolling.
	ShowHotspots bool

	// MaxFPS limits Render. RenderNow ignores it.
	MaxFPS int
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		Label:        func(index int) string { return fmt.Sprintf("item %d", index) },
		Title:        "dragselect",
		ShowHotspots: true,
		MaxFPS:       60,
	}
}

// Renderer paints the grid, header and status line.
type Renderer struct {
	mu sync.Mutex

	opts    Options
	backend backend.Backend
	grid    GridSource
	sel     SelectionReader
	session SessionProvider

	resolver *style.Resolver
	status   *statusline.StatusLine

	width  int
	height int

	lastFrame    time.Time
	minFrameTime time.Duration
	frameCount   uint64
	needsRedraw  bool
}

// New creates a renderer drawing to b.
func New(b backend.Backend, grid GridSource, sel SelectionReader, session SessionProvider, opts Options) *Renderer {
	if opts.Label == nil {
		opts.Label = DefaultOptions().Label
	}
	if opts.MaxFPS <= 0 {
		opts.MaxFPS = 60
	}
	width, height := b.Size()
	r := &Renderer{
		opts:         opts,
		backend:      b,
		grid:         grid,
		sel:          sel,
		session:      session,
		resolver:     style.NewResolver(style.DefaultTheme()),
		status:       statusline.New(),
		width:        width,
		height:       height,
		minFrameTime: time.Second / time.Duration(opts.MaxFPS),
		needsRedraw:  true,
	}
	r.status.Resize(width)
	return r
}

// SetTheme replaces the palette.
func (r *Renderer) SetTheme(theme style.Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolver = style.NewResolver(theme)
	r.needsRedraw = true
}

// StatusLine returns the status line for messages.
func (r *Renderer) StatusLine() *statusline.StatusLine {
	return r.status
}

// Resize handles terminal resize events.
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width = width
	r.height = height
	r.status.Resize(width)
	r.needsRedraw = true
}

// GridBounds returns the area left for the grid: everything above the
// status line.
func (r *Renderer) GridBounds() dragselect.Rect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return GridBounds(r.width, r.height)
}

// GridBounds returns the grid area of a width×height screen.
func GridBounds(width, height int) dragselect.Rect {
	bottom := height - 1
	if bottom < 0 {
		bottom = 0
	}
	return dragselect.Rect{Left: 0, Top: 0, Right: max(width, 0), Bottom: bottom}
}

// MarkDirty marks the renderer as needing a redraw.
func (r *Renderer) MarkDirty() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.needsRedraw = true
}

// NeedsRedraw returns true if the renderer needs to redraw.
func (r *Renderer) NeedsRedraw() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.needsRedraw
}

// FrameCount returns the number of frames drawn.
func (r *Renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

// Render draws a frame if one is needed and the frame rate allows it.
func (r *Renderer) Render() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if now.Sub(r.lastFrame) < r.minFrameTime || !r.needsRedraw {
		return
	}
	r.render()
	r.lastFrame = now
}

// RenderNow draws a frame immediately.
func (r *Renderer) RenderNow() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.render()
	r.lastFrame = time.Now()
}

// render must hold lock.
func (r *Renderer) render() {
	screen := r.resolver.Screen()
	r.backend.Fill(core.RectFromSize(0, 0, r.height, r.width), core.NewStyledCell(' ', screen))

	bounds := core.FromRect(r.grid.Bounds())
	if r.opts.ShowHotspots && r.session.IsAutoScrolling() {
		r.renderHotspot(bounds)
	}
	r.renderHeader(bounds)
	r.renderItems(bounds)
	r.renderStatus()

	r.backend.Show()
	r.needsRedraw = false
	r.frameCount++
}

func (r *Renderer) renderHotspot(bounds core.ScreenRect) {
	spots, ok := dragselect.HotspotsFor(r.grid.Bounds(), r.session.Config())
	if !ok {
		return
	}
	state := r.session.Hotspot()
	band := spots.Bottom
	if state.InTop {
		band = spots.Top
	}
	rect := core.ScreenRect{Top: band.Start, Bottom: band.End, Left: bounds.Left, Right: bounds.Right}
	r.backend.Fill(rect.Intersection(bounds), core.NewStyledCell(' ', r.resolver.Hotspot()))
}

func (r *Renderer) renderHeader(bounds core.ScreenRect) {
	hr, ok := r.grid.HeaderRect()
	if !ok {
		return
	}
	rect := core.FromRect(hr).Intersection(bounds)
	if rect.IsEmpty() {
		return
	}
	st := r.resolver.Header()
	r.backend.Fill(rect, core.NewStyledCell(' ', st))
	title := fmt.Sprintf(" %s · %d items", r.opts.Title, r.grid.ChildCount())
	drawText(r.backend, rect.Left, rect.Top, core.Truncate(title, rect.Width(), "…"), st)
}

func (r *Renderer) renderItems(bounds core.ScreenRect) {
	first, last, ok := r.grid.VisibleRange()
	if !ok {
		return
	}
	sess := r.session.Session()
	for i := first; i <= last; i++ {
		cr, ok := r.grid.ScreenRectOf(i)
		if !ok {
			continue
		}
		state := style.State{
			Selected: r.sel.IsSelected(i),
			Disabled: !r.grid.Selectable(i),
			Anchor:   sess.Active && sess.Initial == i,
			Pointer:  sess.Active && sess.Last == i,
		}
		r.renderItem(i, core.FromRect(cr), bounds, r.resolver.Resolve(state), state)
	}
}

// renderItem paints one cell. The label sits on the cell's middle row and
// is clipped with the cell.
func (r *Renderer) renderItem(index int, cell, bounds core.ScreenRect, st core.Style, state style.State) {
	visible := cell.Intersection(bounds)
	if visible.IsEmpty() {
		return
	}
	r.backend.Fill(visible, core.NewStyledCell(' ', st))

	row := cell.Top + cell.Height()/2
	if row < visible.Top || row >= visible.Bottom {
		return
	}
	marker := "  "
	if state.Selected {
		marker = "✓ "
	}
	text := core.Truncate(marker+r.opts.Label(index), cell.Width()-1, "…")
	drawText(r.backend, cell.Left+1, row, text, st)
}

func (r *Renderer) renderStatus() {
	if r.height <= 0 {
		return
	}
	sess := r.session.Session()
	r.status.SetMode(sess.Mode.String())
	r.status.SetActive(sess.Active)
	r.status.SetScrolling(r.session.IsAutoScrolling())
	r.status.SetCount(r.sel.Count(), r.grid.ChildCount())
	r.status.SetScrollPercent(int(math.Round(r.grid.ScrollPercent() * 100)))
	r.status.Render(r.backend, r.height-1, r.resolver)
}

func drawText(b backend.Backend, x, y int, s string, st core.Style) {
	for _, c := range core.CellsFromString(s, st) {
		b.SetCell(x, y, c)
		x++
	}
}
