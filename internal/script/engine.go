package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/formulary/internal/formula/element"
	"github.com/dshills/formulary/internal/formula/validator"
	"github.com/dshills/formulary/internal/logging"
)

// DefaultTimeout bounds a single predicate evaluation.
const DefaultTimeout = time.Second

// Engine owns one sandboxed Lua state shared by all compiled predicates.
// Lua states are single-threaded, so evaluations are serialized.
type Engine struct {
	mu      sync.Mutex
	L       *lua.LState
	timeout time.Duration
	logger  *logging.Logger
	closed  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the per-evaluation time budget.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger used to report failing scripts.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine with a fresh sandboxed state.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		timeout: DefaultTimeout,
		logger:  logging.Null,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(e.L)
	return e
}

func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	L.SetTop(0)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Compile parses src and returns a predicate running it. name is used in
// error messages and logs. Runtime failures are logged and count as a
// failed rule.
func (e *Engine) Compile(name, src string) (validator.Predicate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}
	fn, err := e.L.Load(strings.NewReader(src), name)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", name, err)
	}

	log := e.logger.WithField("script", name)
	return func(formula string, elems []element.Element) bool {
		ok, err := e.eval(fn, formula, elems)
		if err != nil {
			log.Warn("rule script failed: %v", err)
			return false
		}
		return ok
	}, nil
}

// CompileFile reads and compiles a script file.
func (e *Engine) CompileFile(path string) (validator.Predicate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	return e.Compile(path, string(data))
}

// Eval compiles and runs src once.
func (e *Engine) Eval(src, formula string, elems []element.Element) (bool, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false, ErrEngineClosed
	}
	fn, err := e.L.Load(strings.NewReader(src), "<eval>")
	e.mu.Unlock()
	if err != nil {
		return false, fmt.Errorf("compiling script: %w", err)
	}
	return e.eval(fn, formula, elems)
}

func (e *Engine) eval(fn *lua.LFunction, formula string, elems []element.Element) (ok bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return false, ErrEngineClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()

	top := e.L.GetTop()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		e.L.SetTop(top)
	}()

	e.L.SetGlobal("formula", lua.LString(formula))
	e.L.SetGlobal("elements", elementsTable(e.L, elems))

	e.L.Push(fn)
	if err := e.L.PCall(0, 1, nil); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return false, ErrTimeout
		}
		return false, err
	}
	return lua.LVAsBool(e.L.Get(-1)), nil
}

// Close releases the Lua state. Compiled predicates fail afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.L.Close()
}

func elementsTable(L *lua.LState, elems []element.Element) *lua.LTable {
	t := L.CreateTable(len(elems), 0)
	for _, el := range elems {
		row := L.CreateTable(0, 4)
		row.RawSetString("kind", lua.LString(el.Kind.String()))
		row.RawSetString("value", lua.LString(el.Value))
		row.RawSetString("id", lua.LString(el.ID))
		row.RawSetString("children", elementsTable(L, el.Children))
		t.Append(row)
	}
	return t
}
