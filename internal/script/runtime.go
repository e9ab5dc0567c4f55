// Package script provides Lua command actions.
//
// A Runtime owns one sandboxed gopher-lua state. Compile turns a Lua chunk
// into an engine.ExecFunc; when the command runs, the chunk receives the
// editor API table and the command arguments as its varargs, and the same
// table is also bound to the global "editor". Returning false declines the
// key, so the next command bound to it gets a chance.
//
// Only the base, table, string and math libraries are opened. Functions that
// load code from disk or strings are removed.
//
// A Runtime is not safe for concurrent use. Like the editors it drives, it
// belongs to the goroutine that owns them.
package script

import (
	"context"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/editsync/internal/command"
	"github.com/dshills/editsync/internal/engine"
	"github.com/dshills/editsync/internal/logging"
)

// DefaultTimeout bounds a single command execution.
const DefaultTimeout = 2 * time.Second

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger that receives script output and errors.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTimeout bounds each command execution. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		r.timeout = d
	}
}

// WithErrorHandler calls fn for every failed command execution.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Runtime) {
		r.onError = fn
	}
}

// Runtime runs Lua command actions.
type Runtime struct {
	L       *lua.LState
	logger  *logging.Logger
	timeout time.Duration
	onError func(error)

	// depth counts nested executions; a command may run another through
	// editor.exec.
	depth  int
	closed bool
}

// NewRuntime creates a sandboxed runtime.
func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{
		logger:  logging.Default(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("script")

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	r.L.SetGlobal("print", r.L.NewFunction(r.print))
	return r
}

// openSafeLibraries opens the libraries that cannot reach the host.
func openSafeLibraries(L *lua.LState) {
	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (r *Runtime) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	r.logger.Info("%s", strings.Join(parts, "\t"))
	return 0
}

// Compile compiles source into an action for the command called name.
func (r *Runtime) Compile(name, source string) (engine.ExecFunc, error) {
	if r.closed {
		return nil, &Error{Command: name, Err: ErrClosed}
	}
	fn, err := r.L.LoadString(source)
	if err != nil {
		return nil, &Error{Command: name, Err: err}
	}
	return func(ed engine.Editor, args any) bool {
		handled, err := r.run(name, fn, ed, args)
		if err != nil {
			r.logger.WithField("command", name).Warn("%v", err)
			if r.onError != nil {
				r.onError(err)
			}
			return false
		}
		return handled
	}, nil
}

// Command compiles source into a command descriptor.
func (r *Runtime) Command(name string, keys engine.KeyBinding, source string, readOnly bool) (command.Descriptor, error) {
	exec, err := r.Compile(name, source)
	if err != nil {
		return command.Descriptor{}, err
	}
	return command.Descriptor{Name: name, BindKey: keys, Exec: exec, ReadOnly: readOnly}, nil
}

// run calls fn with the editor table and args. The result is false only when
// the chunk returns false.
func (r *Runtime) run(name string, fn *lua.LFunction, ed engine.Editor, args any) (handled bool, err error) {
	if r.closed {
		return false, &Error{Command: name, Err: ErrClosed}
	}
	L := r.L

	if r.depth == 0 && r.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		L.SetContext(ctx)
		defer func() {
			L.RemoveContext()
			cancel()
		}()
	}
	r.depth++
	defer func() { r.depth-- }()

	defer func() {
		if p := recover(); p != nil {
			err = &Error{Command: name, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	api := newEditorTable(L, ed)
	prev := L.GetGlobal("editor")
	L.SetGlobal("editor", api)
	defer L.SetGlobal("editor", prev)

	top := L.GetTop()
	L.Push(fn)
	L.Push(api)
	L.Push(toLua(L, args))
	if err := L.PCall(2, 1, nil); err != nil {
		L.SetTop(top)
		return false, &Error{Command: name, Err: err}
	}
	ret := L.Get(-1)
	L.SetTop(top)
	return ret != lua.LFalse, nil
}

// Close releases the Lua state. Actions compiled earlier decline afterwards.
func (r *Runtime) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}
