package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dshills/dragselect/internal/config/watcher"
	"github.com/dshills/dragselect/internal/logging"
)

// ReloadFunc receives the outcome of every reload attempt. On error cfg is
// the zero Config and the caller should keep its current settings.
type ReloadFunc func(cfg Config, err error)

// Reloader reloads configuration when the config file changes on disk.
type Reloader struct {
	mu      sync.Mutex
	path    string
	opts    []Option
	onLoad  ReloadFunc
	log     *logging.Logger
	w       *watcher.Watcher
	current Config
}

// ReloaderOption configures a Reloader.
type ReloaderOption func(*reloaderConfig)

type reloaderConfig struct {
	debounce time.Duration
	log      *logging.Logger
}

// WithReloadDebounce sets how long file events are coalesced.
func WithReloadDebounce(d time.Duration) ReloaderOption {
	return func(c *reloaderConfig) {
		c.debounce = d
	}
}

// WithReloadLogger sets the logger used to report reloads.
func WithReloadLogger(l *logging.Logger) ReloaderOption {
	return func(c *reloaderConfig) {
		c.log = l
	}
}

// NewReloader watches path and calls onLoad after each change. loadOpts are
// passed to Load on every reload, after WithFile(path), so flags and
// environment keep their priority over the edited file.
func NewReloader(path string, current Config, onLoad ReloadFunc, loadOpts []Option, opts ...ReloaderOption) (*Reloader, error) {
	rc := reloaderConfig{
		debounce: 150 * time.Millisecond,
		log:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(&rc)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	r := &Reloader{
		path:    abs,
		opts:    append([]Option{WithFile(abs)}, loadOpts...),
		onLoad:  onLoad,
		log:     rc.log.WithComponent("config"),
		current: current,
	}

	w, err := watcher.New(
		watcher.WithDebounce(rc.debounce),
		watcher.WithErrorHandler(func(err error) {
			r.log.WithError(err).Warn("config watcher error")
		}),
	)
	if err != nil {
		return nil, err
	}
	if err := w.Watch(abs); err != nil {
		w.Stop()
		return nil, err
	}
	w.OnChange(r.handle)
	r.w = w
	return r, nil
}

// Start begins watching.
func (r *Reloader) Start() {
	r.w.Start()
}

// Stop stops watching. The Reloader cannot be restarted.
func (r *Reloader) Stop() {
	r.w.Stop()
}

// Path returns the watched file.
func (r *Reloader) Path() string {
	return r.path
}

// Current returns the last configuration that loaded successfully.
func (r *Reloader) Current() Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Reload loads the file immediately and reports the result.
func (r *Reloader) Reload() (Config, error) {
	cfg, err := Load(r.opts...)
	if err != nil {
		r.log.WithError(err).Warn("config reload rejected, keeping previous settings")
		if r.onLoad != nil {
			r.onLoad(Config{}, err)
		}
		return Config{}, err
	}

	r.mu.Lock()
	changed := Changed(r.current, cfg)
	r.current = cfg
	r.mu.Unlock()

	r.log.WithField("sections", changed).Info("config reloaded")
	if r.onLoad != nil {
		r.onLoad(cfg, nil)
	}
	return cfg, nil
}

func (r *Reloader) handle(ev watcher.Event) {
	if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
		r.log.WithField("op", ev.Op.String()).Debug("config file went away, keeping settings")
		return
	}
	_, _ = r.Reload()
}

// Changed lists the top-level sections that differ between two configs.
func Changed(old, cfg Config) []string {
	var out []string
	if old.Engine != cfg.Engine {
		out = append(out, "engine")
	}
	if old.Grid != cfg.Grid {
		out = append(out, "grid")
	}
	if old.Mouse != cfg.Mouse {
		out = append(out, "mouse")
	}
	if old.Theme != cfg.Theme {
		out = append(out, "theme")
	}
	if old.Logging != cfg.Logging {
		out = append(out, "logging")
	}
	if old.Metrics != cfg.Metrics {
		out = append(out, "metrics")
	}
	if old.Script != cfg.Script {
		out = append(out, "script")
	}
	return out
}
