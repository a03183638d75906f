package script

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/tessera/internal/diag"
	"github.com/dshills/tessera/internal/engine"
)

// Runner executes Lua scripts against a document engine. Scripts see
// a global doc table whose functions mirror the engine operations.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes
// access from Go code; Lua execution itself is single-threaded.
type Runner struct {
	L *lua.LState

	mu     sync.Mutex
	log    *diag.Logger
	closed bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the diagnostic logger. A nil logger is ignored.
func WithLogger(log *diag.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates a Runner bound to the given engine.
func New(eng *engine.Engine, opts ...Option) (*Runner, error) {
	if eng == nil {
		return nil, ErrNilEngine
	}

	r := &Runner{
		log: diag.NullLogger,
	}

	for _, opt := range opts {
		opt(r)
	}

	// Create the Lua state with limited libraries
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	r.L = L

	openSafeLibraries(L)
	registerDocModule(L, eng)

	return r, nil
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	// Open base library (print, type, pairs, ipairs, etc.)
	lua.OpenBase(L)

	// Open safe libraries
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Note: These are intentionally NOT opened:
	// - io (file system access)
	// - os (system calls, execute)
	// - debug (can reach interpreter internals)
	// - package (can load arbitrary modules)
}

// Run executes the Lua file at path.
// Execution is synchronous - the call blocks until completion or error.
func (r *Runner) Run(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}

	r.log.Debug("running script %s", path)

	return r.doWithRecovery(func() error {
		return r.L.DoFile(path)
	})
}

// RunString executes a Lua chunk.
// Execution is synchronous - the call blocks until completion or error.
func (r *Runner) RunString(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}

	return r.doWithRecovery(func() error {
		return r.L.DoString(code)
	})
}

// doWithRecovery executes a function with panic recovery.
func (r *Runner) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
	}()
	return fn()
}

// IsClosed returns true if the runner has been closed.
func (r *Runner) IsClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Close releases the Lua state.
// After Close is called, Run and RunString return ErrRunnerClosed.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	r.L.Close()
	r.closed = true
	return nil
}
