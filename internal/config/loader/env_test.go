package loader

import "testing"

func TestEnvLoader_Load(t *testing.T) {
	t.Setenv("DRAGSELECT_MODE", "path")
	t.Setenv("DRAGSELECT_ITEMS", "250")
	t.Setenv("DRAGSELECT_LOG_LEVEL", "debug")

	config, err := NewEnvLoader("DRAGSELECT_").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if val, ok := GetPath(config, "engine.mode"); !ok || val != "path" {
		t.Errorf("engine.mode = %v, want 'path'", val)
	}
	if val, ok := GetPath(config, "grid.items"); !ok || val != int64(250) {
		t.Errorf("grid.items = %v (%T), want 250", val, val)
	}
	if val, ok := GetPath(config, "logging.level"); !ok || val != "debug" {
		t.Errorf("logging.level = %v, want 'debug'", val)
	}
	if _, ok := config["log"]; ok {
		t.Error("mapped variable was also scanned as log.level")
	}
}

func TestEnvLoader_LoadUnmapped(t *testing.T) {
	t.Setenv("DRAGSELECT_ENGINE_HOTSPOT_HEIGHT", "-1")
	t.Setenv("DRAGSELECT_MOUSE_SHIFT_ACTIVATES", "off")
	t.Setenv("DRAGSELECT_ENGINE_TICK_INTERVAL", "40ms")
	t.Setenv("DRAGSELECT_CONFIG", "/etc/dragselect.toml")
	t.Setenv("DRAGSELECT_LONELY", "x")

	config, err := NewEnvLoader("DRAGSELECT_").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if val, ok := GetPath(config, "engine.hotspot_height"); !ok || val != int64(-1) {
		t.Errorf("engine.hotspot_height = %v (%T), want -1", val, val)
	}
	if val, ok := GetPath(config, "mouse.shift_activates"); !ok || val != false {
		t.Errorf("mouse.shift_activates = %v, want false", val)
	}
	if val, ok := GetPath(config, "engine.tick_interval"); !ok || val != "40ms" {
		t.Errorf("engine.tick_interval = %v (%T), want string 40ms", val, val)
	}
	if _, ok := config["config"]; ok {
		t.Error("DRAGSELECT_CONFIG was treated as a setting")
	}
	if _, ok := config["lonely"]; ok {
		t.Error("variable without a setting name was loaded")
	}
}

func TestEnvLoader_CustomMapping(t *testing.T) {
	t.Setenv("APP_COLS", "8")

	l := NewEnvLoaderWithMapping("APP_", map[string]string{})
	l.AddMapping("APP_COLS", "grid.columns")
	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if val, ok := GetPath(config, "grid.columns"); !ok || val != int64(8) {
		t.Errorf("grid.columns = %v", val)
	}
}

func TestEnvLoader_ParseValue(t *testing.T) {
	l := NewEnvLoader("X_")
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"Yes", true},
		{"off", false},
		{"1", int64(1)},
		{"0", int64(0)},
		{"-7", int64(-7)},
		{"0.5", 0.5},
		{"25ms", "25ms"},
		{"#ff0000", "#ff0000"},
	}
	for _, tt := range tests {
		if got := l.parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
		}
	}
}
