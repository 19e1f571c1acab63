// Package app wires the drag-select host together: terminal backend, grid,
// selection set, engine, mouse handler, renderer, metrics, config reload,
// the selectable script and the optional trace recorder.
//
// Everything that touches the engine, grid or selection runs on the single
// event-loop goroutine. Timers and watchers post backend interrupts to get
// there.
package app

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promcollectors "github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dshills/dragselect/internal/config"
	"github.com/dshills/dragselect/internal/dragselect"
	"github.com/dshills/dragselect/internal/grid"
	"github.com/dshills/dragselect/internal/input/mouse"
	"github.com/dshills/dragselect/internal/logging"
	"github.com/dshills/dragselect/internal/metrics"
	"github.com/dshills/dragselect/internal/renderer"
	"github.com/dshills/dragselect/internal/renderer/backend"
	"github.com/dshills/dragselect/internal/script"
	"github.com/dshills/dragselect/internal/selection"
	"github.com/dshills/dragselect/internal/trace"
)

// selectEngine is the engine surface the app drives. *dragselect.Engine and
// the recording *trace.Engine both satisfy it.
type selectEngine interface {
	mouse.Engine
	renderer.SessionProvider
	Mode() dragselect.Mode
	SetMode(m dragselect.Mode)
	SetConfig(cfg dragselect.Config)
}

// gridSurface is the grid surface input flows through. *grid.Grid and the
// recording *trace.Grid both satisfy it.
type gridSurface interface {
	dragselect.Container
	renderer.GridSource
	Resize(bounds dragselect.Rect)
	ScrollTo(offset int)
}

// Options configures the application.
type Options struct {
	// Config is the effective configuration.
	Config config.Config

	// ConfigPath is watched for live reload when set.
	ConfigPath string

	// LoadOptions are reused when the watched file is reloaded.
	LoadOptions []config.Option

	// ReloadDebounce overrides the reload debounce window.
	ReloadDebounce time.Duration

	// RecordPath, when set, records the session and saves the trace there
	// on exit.
	RecordPath string

	// Logger defaults to a discard logger.
	Logger *logging.Logger

	// Registry receives the metrics. A fresh registry is created when nil.
	Registry *prometheus.Registry
}

// Application is the central coordinator for all host components.
type Application struct {
	mu sync.RWMutex

	opts Options
	cfg  config.Config
	log  *logging.Logger

	// Interaction stack
	backend  backend.Backend
	grid     *grid.Grid
	surface  gridSurface
	set      *selection.Set
	core     *dragselect.Engine
	engine   selectEngine
	mouse    *mouse.Handler
	decoder  mouse.Decoder
	renderer *renderer.Renderer

	// Supporting services
	registry  *prometheus.Registry
	metrics   *metrics.Collectors
	predicate *script.Predicate
	reloader  *config.Reloader
	recorder  *trace.Recorder

	// State
	running atomic.Bool
	done    chan struct{}
}

// New creates an application from opts. The backend is attached with
// SetBackend before Run.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts: opts,
		cfg:  opts.Config,
		log:  opts.Logger,
		done: make(chan struct{}),
	}
	if app.log == nil {
		app.log = logging.Discard()
	}
	app.log = app.log.WithComponent("app")

	if err := app.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Metrics registry and collectors
	app.registry = app.opts.Registry
	if app.registry == nil {
		app.registry = prometheus.NewRegistry()
		app.registry.MustRegister(
			promcollectors.NewGoCollector(),
			promcollectors.NewProcessCollector(promcollectors.ProcessCollectorOpts{}),
		)
	}
	m, err := metrics.New(app.registry)
	if err != nil {
		return &InitError{Component: "metrics", Err: err}
	}
	app.metrics = m

	// 2. Grid and selection
	app.grid = grid.New(dragselect.Rect{}, app.cfg.Grid.Layout(), app.cfg.Grid.Items)
	app.surface = app.grid
	app.set = selection.NewSet(app.cfg.Grid.Items)

	// 3. Selectable script
	if path := app.cfg.Script.Path; path != "" {
		p, err := script.LoadFile(path, script.WithLogger(app.log))
		if err != nil {
			return &InitError{Component: "script", Err: err}
		}
		app.setPredicate(p)
	}

	// 4. Engine; ticks and long-presses run on the event loop
	app.core = dragselect.New(app.set,
		dragselect.WithConfig(app.cfg.Engine.DragSelect()),
		dragselect.WithLogger(app.log),
		dragselect.WithScheduler(uiScheduler{app: app}),
		dragselect.WithObserver(app.metrics),
	)
	app.engine = app.core
	app.core.OnActivationChanged(app.onActivationChanged)
	app.core.OnAutoScrollChanged(app.onAutoScrollChanged)

	return nil
}

// setPredicate installs p as the grid's selectable filter, closing the
// previous one.
func (app *Application) setPredicate(p *script.Predicate) {
	if app.predicate != nil {
		if err := app.predicate.Close(); err != nil {
			app.log.WithError(err).Warn("closing selectable script")
		}
	}
	app.predicate = p
	if p == nil {
		app.grid.SetSelectable(nil)
		return
	}
	app.grid.SetSelectable(p.Selectable)
}

// SetBackend sets the terminal backend. Must be called before Run.
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	return nil
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the current configuration.
func (app *Application) Config() config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.cfg
}

// Engine returns the drag-select engine.
func (app *Application) Engine() *dragselect.Engine {
	return app.core
}

// Grid returns the grid.
func (app *Application) Grid() *grid.Grid {
	return app.grid
}

// Selection returns the selection set.
func (app *Application) Selection() *selection.Set {
	return app.set
}

// Registry returns the metrics registry.
func (app *Application) Registry() *prometheus.Registry {
	return app.registry
}

// Renderer returns the renderer, nil before Run.
func (app *Application) Renderer() *renderer.Renderer {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.renderer
}

// onActivationChanged is the engine's activation listener.
func (app *Application) onActivationChanged(active bool) {
	if active {
		app.log.Debug("drag-select session started")
	} else {
		app.log.Debug("drag-select session ended")
	}
	app.markDirty()
}

// onAutoScrollChanged is the engine's auto-scroll listener.
func (app *Application) onAutoScrollChanged(scrolling bool) {
	app.log.Debug("auto-scroll %t", scrolling)
	app.markDirty()
}

func (app *Application) markDirty() {
	if r := app.Renderer(); r != nil {
		r.MarkDirty()
	}
}
