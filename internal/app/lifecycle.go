package app

import (
	"context"
	"errors"

	"github.com/dshills/dragselect/internal/config"
	"github.com/dshills/dragselect/internal/input/mouse"
	"github.com/dshills/dragselect/internal/metrics"
	"github.com/dshills/dragselect/internal/renderer"
	"github.com/dshills/dragselect/internal/renderer/style"
	"github.com/dshills/dragselect/internal/trace"
)

// Run starts the application main loop. It blocks until the user quits,
// ctx is cancelled or Shutdown is called.
func (app *Application) Run(ctx context.Context) (err error) {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.RLock()
	b := app.backend
	app.mu.RUnlock()
	if b == nil {
		return &InitError{Component: "backend", Err: ErrNoBackend}
	}
	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := app.wire(); err != nil {
		return err
	}
	defer func() {
		if serr := app.shutdown(); serr != nil {
			err = errors.Join(err, serr)
		}
	}()

	if app.cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(ctx, app.cfg.Metrics.Addr, app.registry, app.log); err != nil {
				app.log.WithError(err).Error("metrics endpoint stopped")
			}
		}()
	}
	if app.reloader != nil {
		app.reloader.Start()
	}

	app.log.Info("running with %d items in %s mode", app.grid.ChildCount(), app.engine.Mode())
	return app.eventLoop(ctx)
}

// wire sizes the grid to the screen and builds the components that depend
// on it.
func (app *Application) wire() error {
	width, height := app.backend.Size()
	app.grid.Resize(renderer.GridBounds(width, height))

	if app.opts.RecordPath != "" {
		rec, err := trace.NewRecorder(trace.GeometryOf(app.grid), app.core.Config())
		if err != nil {
			return &InitError{Component: "trace", Err: err}
		}
		app.recorder = rec
		app.engine = rec.WrapEngine(app.core)
		app.surface = rec.WrapGrid(app.grid)
		app.log.Info("recording trace %s to %s", rec.ID(), app.opts.RecordPath)
	}

	layout := app.grid.Layout()
	app.mouse = mouse.NewHandler(app.cfg.Mouse.Handler(), app.engine, app.surface,
		mouse.WithScheduler(uiScheduler{app: app}),
		mouse.WithLogger(app.log),
		mouse.WithLineHeight(layout.CellHeight),
		mouse.WithActivationListener(func(index int) {
			app.log.Debug("long-press activated at %d", index)
			app.markDirty()
		}),
	)

	r := renderer.New(app.backend, app.surface, app.set, app.engine, renderer.DefaultOptions())
	theme, err := style.ThemeFromConfig(app.cfg.Theme)
	if err != nil {
		return &InitError{Component: "theme", Err: err}
	}
	r.SetTheme(theme)
	app.mu.Lock()
	app.renderer = r
	app.mu.Unlock()

	if app.opts.ConfigPath != "" {
		var ropts []config.ReloaderOption
		ropts = append(ropts, config.WithReloadLogger(app.log))
		if app.opts.ReloadDebounce > 0 {
			ropts = append(ropts, config.WithReloadDebounce(app.opts.ReloadDebounce))
		}
		rl, err := config.NewReloader(app.opts.ConfigPath, app.cfg, app.onReload, app.opts.LoadOptions, ropts...)
		if err != nil {
			return &InitError{Component: "config watcher", Err: err}
		}
		app.reloader = rl
	}
	return nil
}

// Shutdown asks a running application to stop.
func (app *Application) Shutdown() {
	if !app.running.Load() {
		return
	}
	select {
	case <-app.done:
	default:
		close(app.done)
	}
}

// shutdown performs cleanup in reverse initialization order. Every step
// runs; failures are collected.
func (app *Application) shutdown() error {
	var errs ErrorList

	if app.reloader != nil {
		app.reloader.Stop()
	}
	app.engine.Deactivate()

	if app.recorder != nil {
		if err := app.recorder.Save(app.opts.RecordPath); err != nil {
			errs.Add(NewComponentError("trace", "save", err))
		} else {
			app.log.Info("saved %d trace events to %s", app.recorder.Len(), app.opts.RecordPath)
		}
	}

	if app.predicate != nil {
		if err := app.predicate.Close(); err != nil {
			errs.Add(NewComponentError("script", "close", err))
		}
	}

	return errs.AsError()
}
