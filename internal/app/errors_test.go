package app

import (
	"errors"
	"testing"
)

func TestComponentError_Error(t *testing.T) {
	inner := errors.New("disk full")
	tests := []struct {
		name string
		err  *ComponentError
		want string
	}{
		{"nil", nil, ""},
		{"component only", &ComponentError{Component: "trace"}, "trace"},
		{"with action", &ComponentError{Component: "trace", Action: "save"}, "trace: save"},
		{"with error", &ComponentError{Component: "trace", Err: inner}, "trace: disk full"},
		{"full", NewComponentError("trace", "save", inner), "trace: save: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComponentError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewComponentError("script", "close", inner)
	if !errors.Is(err, inner) {
		t.Error("errors.Is(err, inner) = false")
	}

	var nilErr *ComponentError
	if nilErr.Unwrap() != nil {
		t.Error("Unwrap() on nil receiver != nil")
	}
}

func TestInitError(t *testing.T) {
	err := &InitError{Component: "backend", Err: ErrNoBackend}
	if got := err.Error(); got != "init backend: no backend" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrNoBackend) {
		t.Error("errors.Is(err, ErrNoBackend) = false")
	}
}

func TestErrorList(t *testing.T) {
	var list ErrorList
	if list.AsError() != nil {
		t.Error("AsError() on empty list != nil")
	}

	list.Add(nil)
	if list.Len() != 0 {
		t.Errorf("Len() after Add(nil) = %d, want 0", list.Len())
	}

	first := errors.New("first")
	list.Add(first)
	if got := list.Error(); got != "first" {
		t.Errorf("Error() = %q, want %q", got, "first")
	}

	list.Add(ErrQuit)
	if got := list.Error(); got != "2 errors: first: first" {
		t.Errorf("Error() = %q", got)
	}
	err := list.AsError()
	if !errors.Is(err, first) || !errors.Is(err, ErrQuit) {
		t.Error("errors.Is does not see collected errors")
	}
}
