package app

import (
	"github.com/dshills/dragselect/internal/config"
	"github.com/dshills/dragselect/internal/logging"
	"github.com/dshills/dragselect/internal/renderer/statusline"
	"github.com/dshills/dragselect/internal/renderer/style"
	"github.com/dshills/dragselect/internal/script"
)

// onReload is the config watcher callback. It runs on the watcher goroutine
// and hands the result to the event loop.
func (app *Application) onReload(cfg config.Config, err error) {
	if err != nil {
		app.post(func() {
			app.message("config rejected: "+err.Error(), statusline.MessageError)
		})
		return
	}
	app.post(func() { app.applyConfig(cfg) })
}

// applyConfig switches the running components to cfg. A mode change ends
// the active session. While recording, grid geometry stays fixed so the
// trace still replays against the geometry in its header.
func (app *Application) applyConfig(cfg config.Config) {
	old := app.Config()

	app.engine.SetConfig(cfg.Engine.DragSelect())
	if !app.engine.IsActive() {
		app.mouse.Release()
	}
	app.mouse.SetConfig(cfg.Mouse.Handler())

	if cfg.Grid != old.Grid {
		if app.recorder != nil {
			app.log.Warn("grid settings changed while recording; keeping the recorded geometry")
			cfg.Grid = old.Grid
		} else {
			app.grid.SetLayout(cfg.Grid.Layout())
			app.grid.SetCount(cfg.Grid.Items)
			app.set.SetLimit(cfg.Grid.Items)
		}
	}

	if cfg.Theme != old.Theme {
		if theme, err := style.ThemeFromConfig(cfg.Theme); err != nil {
			app.log.WithError(err).Warn("theme rejected")
			cfg.Theme = old.Theme
		} else {
			app.renderer.SetTheme(theme)
		}
	}

	if cfg.Script != old.Script && !app.reloadScript(cfg.Script.Path) {
		cfg.Script = old.Script
	}

	if cfg.Logging.Level != old.Logging.Level {
		app.log.SetLevel(logging.ParseLevel(cfg.Logging.Level))
	}

	app.mu.Lock()
	app.cfg = cfg
	app.mu.Unlock()

	app.message("config reloaded", statusline.MessageInfo)
}

// reloadScript swaps the selectable predicate. A script that fails to load
// leaves the previous one in place and reports false.
func (app *Application) reloadScript(path string) bool {
	if path == "" {
		app.setPredicate(nil)
		return true
	}
	p, err := script.LoadFile(path, script.WithLogger(app.log))
	if err != nil {
		app.log.WithError(err).Warn("selectable script rejected")
		return false
	}
	app.setPredicate(p)
	return true
}
