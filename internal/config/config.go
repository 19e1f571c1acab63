package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/dragselect/internal/dragselect"
	"github.com/dshills/dragselect/internal/grid"
	"github.com/dshills/dragselect/internal/input/mouse"
	"github.com/dshills/dragselect/internal/logging"
)

// Config is the complete application configuration.
type Config struct {
	Engine  EngineConfig  `toml:"engine" yaml:"engine"`
	Grid    GridConfig    `toml:"grid" yaml:"grid"`
	Mouse   MouseConfig   `toml:"mouse" yaml:"mouse"`
	Theme   ThemeConfig   `toml:"theme" yaml:"theme"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
	Script  ScriptConfig  `toml:"script" yaml:"script"`
}

// EngineConfig holds drag-select engine settings.
type EngineConfig struct {
	// Mode is "range" or "path".
	Mode string `toml:"mode" yaml:"mode"`

	// HotspotHeight is the auto-scroll band height; -1 disables auto-scroll.
	HotspotHeight int `toml:"hotspot_height" yaml:"hotspot_height"`

	// HotspotOffsetTop and HotspotOffsetBottom inset the bands.
	HotspotOffsetTop    int `toml:"hotspot_offset_top" yaml:"hotspot_offset_top"`
	HotspotOffsetBottom int `toml:"hotspot_offset_bottom" yaml:"hotspot_offset_bottom"`

	// TickInterval is the auto-scroll period.
	TickInterval Duration `toml:"tick_interval" yaml:"tick_interval"`
}

// GridConfig holds the demo grid's geometry.
type GridConfig struct {
	Items      int `toml:"items" yaml:"items"`
	Columns    int `toml:"columns" yaml:"columns"`
	CellWidth  int `toml:"cell_width" yaml:"cell_width"`
	CellHeight int `toml:"cell_height" yaml:"cell_height"`
	Gap        int `toml:"gap" yaml:"gap"`
	HeaderRows int `toml:"header_rows" yaml:"header_rows"`
}

// MouseConfig holds pointer input settings.
type MouseConfig struct {
	LongPressTime       Duration `toml:"long_press_time" yaml:"long_press_time"`
	LongPressDistance   int      `toml:"long_press_distance" yaml:"long_press_distance"`
	ScrollLines         int      `toml:"scroll_lines" yaml:"scroll_lines"`
	ScrollLinesShift    int      `toml:"scroll_lines_shift" yaml:"scroll_lines_shift"`
	EnableDragSelection bool     `toml:"enable_drag_selection" yaml:"enable_drag_selection"`
	ShiftActivates      bool     `toml:"shift_activates" yaml:"shift_activates"`
	ClickToggles        bool     `toml:"click_toggles" yaml:"click_toggles"`
}

// ThemeConfig holds hex colors ("#rrggbb") for the terminal view.
type ThemeConfig struct {
	Background string `toml:"background" yaml:"background"`
	Foreground string `toml:"foreground" yaml:"foreground"`
	Item       string `toml:"item" yaml:"item"`
	Selected   string `toml:"selected" yaml:"selected"`
	Anchor     string `toml:"anchor" yaml:"anchor"`
	Header     string `toml:"header" yaml:"header"`
	Status     string `toml:"status" yaml:"status"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`
	// File receives log output; empty discards logs while the UI runs.
	File string `toml:"file" yaml:"file"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Addr    string `toml:"addr" yaml:"addr"`
}

// ScriptConfig points at an optional Lua selectable-predicate script.
type ScriptConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// Duration is a time.Duration that reads and writes as "25ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DefaultHotspotRows is the auto-scroll band height for the terminal grid.
// The engine default is sized for pixels; the terminal grid measures rows.
const DefaultHotspotRows = 3

// Default returns the built-in configuration.
func Default() Config {
	engine := dragselect.DefaultConfig()
	layout := grid.DefaultLayout()
	m := mouse.DefaultConfig()

	return Config{
		Engine: EngineConfig{
			Mode:                engine.Mode.String(),
			HotspotHeight:       DefaultHotspotRows,
			HotspotOffsetTop:    engine.HotspotOffsetTop,
			HotspotOffsetBottom: engine.HotspotOffsetBottom,
			TickInterval:        Duration(engine.TickInterval),
		},
		Grid: GridConfig{
			Items:      200,
			Columns:    layout.Columns,
			CellWidth:  layout.CellWidth,
			CellHeight: layout.CellHeight,
			Gap:        layout.Gap,
			HeaderRows: layout.HeaderRows,
		},
		Mouse: MouseConfig{
			LongPressTime:       Duration(m.LongPressTime),
			LongPressDistance:   m.LongPressDistance,
			ScrollLines:         m.ScrollLines,
			ScrollLinesShift:    m.ScrollLinesShift,
			EnableDragSelection: m.EnableDragSelection,
			ShiftActivates:      m.ShiftActivates,
			ClickToggles:        m.ClickToggles,
		},
		Theme: ThemeConfig{
			Background: "#1c1c1c",
			Foreground: "#d0d0d0",
			Item:       "#303030",
			Selected:   "#3a6ea5",
			Anchor:     "#e5a50a",
			Header:     "#5f87af",
			Status:     "#444444",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Addr: "127.0.0.1:9464",
		},
	}
}

// Validate checks every setting and returns all failures joined.
// Each failure is a *ValidationError naming the offending key.
func (c Config) Validate() error {
	var errs []error
	fail := func(path, msg string, value any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
	}

	if _, err := dragselect.ParseMode(c.Engine.Mode); err != nil {
		fail("engine.mode", "must be range or path", c.Engine.Mode)
	}
	if c.Engine.HotspotHeight < dragselect.HotspotDisabled {
		fail("engine.hotspot_height", "must be -1 (disabled) or >= 0", c.Engine.HotspotHeight)
	}
	if c.Engine.HotspotOffsetTop < 0 {
		fail("engine.hotspot_offset_top", "must be >= 0", c.Engine.HotspotOffsetTop)
	}
	if c.Engine.HotspotOffsetBottom < 0 {
		fail("engine.hotspot_offset_bottom", "must be >= 0", c.Engine.HotspotOffsetBottom)
	}
	if c.Engine.TickInterval <= 0 {
		fail("engine.tick_interval", "must be > 0", c.Engine.TickInterval.Std())
	}

	if c.Grid.Items < 0 {
		fail("grid.items", "must be >= 0", c.Grid.Items)
	}
	if c.Grid.Columns < 1 {
		fail("grid.columns", "must be >= 1", c.Grid.Columns)
	}
	if c.Grid.CellWidth < 1 {
		fail("grid.cell_width", "must be >= 1", c.Grid.CellWidth)
	}
	if c.Grid.CellHeight < 1 {
		fail("grid.cell_height", "must be >= 1", c.Grid.CellHeight)
	}
	if c.Grid.Gap < 0 {
		fail("grid.gap", "must be >= 0", c.Grid.Gap)
	}
	if c.Grid.HeaderRows < 0 {
		fail("grid.header_rows", "must be >= 0", c.Grid.HeaderRows)
	}

	if c.Mouse.LongPressTime < 0 {
		fail("mouse.long_press_time", "must be >= 0", c.Mouse.LongPressTime.Std())
	}
	if c.Mouse.LongPressDistance < 0 {
		fail("mouse.long_press_distance", "must be >= 0", c.Mouse.LongPressDistance)
	}
	if c.Mouse.ScrollLines < 0 {
		fail("mouse.scroll_lines", "must be >= 0", c.Mouse.ScrollLines)
	}
	if c.Mouse.ScrollLinesShift < 0 {
		fail("mouse.scroll_lines_shift", "must be >= 0", c.Mouse.ScrollLinesShift)
	}

	for _, color := range []struct{ key, value string }{
		{"theme.background", c.Theme.Background},
		{"theme.foreground", c.Theme.Foreground},
		{"theme.item", c.Theme.Item},
		{"theme.selected", c.Theme.Selected},
		{"theme.anchor", c.Theme.Anchor},
		{"theme.header", c.Theme.Header},
		{"theme.status", c.Theme.Status},
	} {
		if _, err := colorful.Hex(color.value); err != nil {
			fail(color.key, "must be a #rrggbb color", color.value)
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		fail("logging.level", "must be debug, info, warn or error", c.Logging.Level)
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		fail("metrics.addr", "required when metrics are enabled", c.Metrics.Addr)
	}

	return errors.Join(errs...)
}

// DragSelect converts the engine section. Call Validate first; an invalid
// mode falls back to range.
func (e EngineConfig) DragSelect() dragselect.Config {
	mode, _ := dragselect.ParseMode(e.Mode)
	return dragselect.Config{
		HotspotHeight:       e.HotspotHeight,
		HotspotOffsetTop:    e.HotspotOffsetTop,
		HotspotOffsetBottom: e.HotspotOffsetBottom,
		Mode:                mode,
		TickInterval:        e.TickInterval.Std(),
	}
}

// Layout converts the grid section.
func (g GridConfig) Layout() grid.Layout {
	return grid.Layout{
		Columns:    g.Columns,
		CellWidth:  g.CellWidth,
		CellHeight: g.CellHeight,
		Gap:        g.Gap,
		HeaderRows: g.HeaderRows,
	}
}

// Handler converts the mouse section.
func (m MouseConfig) Handler() mouse.Config {
	return mouse.Config{
		LongPressTime:       m.LongPressTime.Std(),
		LongPressDistance:   m.LongPressDistance,
		ScrollLines:         m.ScrollLines,
		ScrollLinesShift:    m.ScrollLinesShift,
		EnableDragSelection: m.EnableDragSelection,
		ShiftActivates:      m.ShiftActivates,
		ClickToggles:        m.ClickToggles,
	}
}

// Logger converts the logging section for output w.
func (l LoggingConfig) Logger(w io.Writer) logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(l.Level)
	cfg.Output = w
	return cfg
}

// String summarizes the configuration for logs.
func (c Config) String() string {
	return fmt.Sprintf("mode=%s items=%d columns=%d hotspot=%d tick=%s",
		c.Engine.Mode, c.Grid.Items, c.Grid.Columns, c.Engine.HotspotHeight, c.Engine.TickInterval.Std())
}
