package config

import (
	"errors"
	"os"
	"testing"
	"time"
)

func TestReloaderReloadsOnWrite(t *testing.T) {
	path := writeFile(t, "live.toml", "[engine]\nmode = \"range\"\n")

	results := make(chan Config, 4)
	failures := make(chan error, 4)
	r, err := NewReloader(path, Default(), func(cfg Config, err error) {
		if err != nil {
			failures <- err
			return
		}
		results <- cfg
	}, []Option{WithEnvPrefix("")}, WithReloadDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewReloader() error = %v", err)
	}
	r.Start()
	defer r.Stop()

	if err := os.WriteFile(path, []byte("[engine]\nmode = \"path\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-results:
		if cfg.Engine.Mode != "path" {
			t.Errorf("reloaded Engine.Mode = %q, want path", cfg.Engine.Mode)
		}
	case err := <-failures:
		t.Fatalf("reload failed: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no reload within 2s")
	}

	if r.Current().Engine.Mode != "path" {
		t.Errorf("Current().Engine.Mode = %q, want path", r.Current().Engine.Mode)
	}
}

func TestReloaderKeepsPreviousOnError(t *testing.T) {
	path := writeFile(t, "live.toml", "[engine]\nmode = \"path\"\n")

	var gotErr error
	r, err := NewReloader(path, Default(), func(_ Config, err error) { gotErr = err }, []Option{WithEnvPrefix("")})
	if err != nil {
		t.Fatalf("NewReloader() error = %v", err)
	}
	defer r.Stop()

	if _, err := r.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if err := os.WriteFile(path, []byte("[engine]\nmode = \"lasso\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Reload(); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("Reload() error = %v, want ErrValidationFailed", err)
	}
	if !errors.Is(gotErr, ErrValidationFailed) {
		t.Errorf("callback error = %v", gotErr)
	}
	if r.Current().Engine.Mode != "path" {
		t.Errorf("Current().Engine.Mode = %q, want previous path", r.Current().Engine.Mode)
	}
}
