// Package script runs a user Lua script that decides which grid items can
// be hit by a drag.
//
// A script defines a global function:
//
//	function selectable(index)
//	    return index % 5 ~= 0
//	end
//
// The Lua state is sandboxed: only the base, table, string and math
// libraries are opened and the loaders (dofile, loadfile, load, loadstring,
// require) are removed. Each call runs under a timeout. A call that fails or
// returns a non-boolean counts as selectable.
package script

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/dragselect/internal/logging"
)

// DefaultCallTimeout bounds a single selectable() call.
const DefaultCallTimeout = 50 * time.Millisecond

const predicateName = "selectable"

// Predicate wraps a sandboxed Lua state holding a selectable function.
//
// gopher-lua states are not goroutine-safe; the mutex serializes calls.
type Predicate struct {
	mu      sync.Mutex
	L       *lua.LState
	fn      *lua.LFunction
	timeout time.Duration
	log     *logging.Logger
	source  string

	// Failed calls are logged once per index to keep hit-testing quiet.
	warned map[int]bool
	closed bool
}

// Option configures a Predicate.
type Option func(*Predicate)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Predicate) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger sets the logger for script errors.
func WithLogger(l *logging.Logger) Option {
	return func(p *Predicate) {
		if l != nil {
			p.log = l
		}
	}
}

// LoadFile loads a predicate script from path.
func LoadFile(path string, opts ...Option) (*Predicate, error) {
	return load(path, func(L *lua.LState) error { return L.DoFile(path) }, opts)
}

// LoadString loads a predicate script from source code. name labels it in
// errors and logs.
func LoadString(name, code string, opts ...Option) (*Predicate, error) {
	return load(name, func(L *lua.LState) error { return L.DoString(code) }, opts)
}

func load(source string, run func(*lua.LState) error, opts []Option) (*Predicate, error) {
	p := &Predicate{
		timeout: DefaultCallTimeout,
		log:     logging.Discard(),
		source:  source,
		warned:  make(map[int]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.WithComponent("script").WithField("script", source)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout*10)
	defer cancel()
	L.SetContext(ctx)
	err := protect(func() error { return run(L) })
	L.RemoveContext()
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("loading script %s: %w", source, err)
	}

	fn, ok := L.GetGlobal(predicateName).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("%s: %w", source, ErrNoPredicate)
	}

	p.L = L
	p.fn = fn
	p.log.Debug("selectable predicate loaded")
	return p, nil
}

// openSafeLibraries opens base, table, string and math, then strips the
// functions that reach the file system or load code.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// protect converts a panic in the Lua VM into an error.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Source returns the script path or name.
func (p *Predicate) Source() string {
	return p.source
}

// Call evaluates selectable(index) and reports errors.
func (p *Predicate) Call(index int) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return true, ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	p.L.SetContext(ctx)
	defer p.L.RemoveContext()

	err := protect(func() error {
		return p.L.CallByParam(lua.P{Fn: p.fn, NRet: 1, Protect: true}, lua.LNumber(index))
	})
	if err != nil {
		return true, fmt.Errorf("selectable(%d): %w", index, err)
	}

	ret := p.L.Get(-1)
	p.L.Pop(1)
	b, ok := ret.(lua.LBool)
	if !ok {
		return true, fmt.Errorf("selectable(%d) returned %s, want boolean", index, ret.Type())
	}
	return bool(b), nil
}

// Selectable reports whether index may be hit. Errors count as selectable.
func (p *Predicate) Selectable(index int) bool {
	ok, err := p.Call(index)
	if err != nil && err != ErrClosed {
		p.mu.Lock()
		first := !p.warned[index]
		p.warned[index] = true
		p.mu.Unlock()
		if first {
			p.log.WithError(err).Warn("selectable predicate failed, treating item as selectable")
		}
	}
	return ok
}

// Close releases the Lua state. Selectable returns true afterwards.
func (p *Predicate) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.L.Close()
	return nil
}
