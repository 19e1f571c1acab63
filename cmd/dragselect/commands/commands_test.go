package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/dragselect/internal/dragselect"
	"github.com/dshills/dragselect/internal/grid"
	"github.com/dshills/dragselect/internal/selection"
	"github.com/dshills/dragselect/internal/trace"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// writeTrace records a range drag over items 0..6 and a click on 20.
func writeTrace(t *testing.T) string {
	t.Helper()
	g := grid.New(dragselect.Rect{Right: 60, Bottom: 19}, grid.DefaultLayout(), 40)
	cfg := dragselect.DefaultConfig()
	cfg.HotspotHeight = dragselect.HotspotDisabled

	rec, err := trace.NewRecorder(trace.GeometryOf(g), cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, ev := range []trace.Event{
		{Kind: trace.KindActivate, Index: 0},
		{Kind: trace.KindDown, X: 1, Y: 3},
		{Kind: trace.KindMove, X: 16, Y: 3},
		{Kind: trace.KindMove, X: 31, Y: 7},
		{Kind: trace.KindUp},
		{Kind: trace.KindToggle, Index: 20},
	} {
		if err := rec.Record(ev); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "trace.json")
	if err := rec.Save(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReplayText(t *testing.T) {
	out, err := execute(t, "replay", writeTrace(t))
	if err != nil {
		t.Fatalf("replay error = %v", err)
	}
	for _, want := range []string{"6 events, range mode", "selected 8: 0-6, 20", "scroll offset 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReplayJSON(t *testing.T) {
	out, err := execute(t, "replay", "--json", writeTrace(t))
	if err != nil {
		t.Fatalf("replay error = %v", err)
	}
	if !gjson.Valid(out) {
		t.Fatalf("output is not JSON:\n%s", out)
	}
	if got := gjson.Get(out, "selected.#").Int(); got != 8 {
		t.Errorf("selected.# = %d, want 8", got)
	}
	r := gjson.Get(out, "ranges.1").Array()
	if len(r) != 2 || r[0].Int() != 20 || r[1].Int() != 20 {
		t.Errorf("ranges.1 = %v, want [20 20]", r)
	}
	if gjson.Get(out, "active").Bool() {
		t.Error("active = true")
	}
}

func TestReplayWithScript(t *testing.T) {
	script := filepath.Join(t.TempDir(), "low.lua")
	if err := os.WriteFile(script, []byte("function selectable(i) return i < 2 end\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "replay", "--script", script, writeTrace(t))
	if err != nil {
		t.Fatalf("replay error = %v", err)
	}
	if !strings.Contains(out, "selected 3: 0-1, 20") {
		t.Errorf("output = %s, want moves past item 1 ignored", out)
	}
}

func TestReplayErrors(t *testing.T) {
	if _, err := execute(t, "replay"); err == nil {
		t.Error("replay without args succeeded")
	}
	if _, err := execute(t, "replay", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("replay of a missing file succeeded")
	}
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("DRAGSELECT_GRID_ITEMS", "77")
	path := filepath.Join(t.TempDir(), "dragselect.toml")
	if err := os.WriteFile(path, []byte("[engine]\nmode = \"path\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "config", "--config", path, "--log-level", "debug")
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	if !strings.Contains(out, "items = 77") {
		t.Errorf("output missing env items:\n%s", out)
	}
	for key, want := range map[string]string{"mode": "path", "level": "debug"} {
		if !hasString(out, key, want) {
			t.Errorf("output missing %s = %q:\n%s", key, want, out)
		}
	}

	out, err = execute(t, "config", "--format", "yaml", "--items", "5")
	if err != nil {
		t.Fatalf("config --format yaml error = %v", err)
	}
	if !strings.Contains(out, "items: 5") {
		t.Errorf("yaml output missing items override:\n%s", out)
	}

	if _, err := execute(t, "config", "--format", "ini"); err == nil {
		t.Error("config --format ini succeeded")
	}
	if _, err := execute(t, "config", "--mode", "lasso"); err == nil {
		t.Error("config --mode lasso succeeded")
	}
}

// hasString reports whether TOML output sets key to value in either quote
// style.
func hasString(out, key, value string) bool {
	return strings.Contains(out, key+" = '"+value+"'") ||
		strings.Contains(out, key+" = \""+value+"\"")
}

func TestConfigEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dragselect.yaml")
	if err := os.WriteFile(path, []byte("grid:\n  columns: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(configEnv, path)

	out, err := execute(t, "config")
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	if !strings.Contains(out, "columns = 7") {
		t.Errorf("output missing columns from %s:\n%s", configEnv, out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "dragselect dev\n") || !strings.Contains(out, "Go: go") {
		t.Errorf("version output = %q", out)
	}
}

func TestFormatRanges(t *testing.T) {
	tests := []struct {
		in   []selection.Range
		want string
	}{
		{nil, "(none)"},
		{[]selection.Range{{Start: 3, End: 3}}, "3"},
		{[]selection.Range{{Start: 0, End: 6}, {Start: 9, End: 9}, {Start: 12, End: 14}}, "0-6, 9, 12-14"},
	}
	for _, tt := range tests {
		if got := formatRanges(tt.in); got != tt.want {
			t.Errorf("formatRanges(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
