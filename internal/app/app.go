// Package app wires the Tessera components together and manages the
// application lifecycle: configuration, logging, the document engine,
// and the selected run mode.
package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dshills/tessera/internal/config"
	"github.com/dshills/tessera/internal/diag"
	"github.com/dshills/tessera/internal/engine"
	"github.com/dshills/tessera/internal/script"
	"github.com/dshills/tessera/internal/tui"
)

// DefaultConfigPath is tried when no configuration path is given.
const DefaultConfigPath = "tessera.toml"

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. When empty,
	// DefaultConfigPath is tried and a missing file uses the defaults.
	ConfigPath string

	// ScriptPath runs a Lua script against the document instead of
	// the interactive pad.
	ScriptPath string

	// File is the document to open.
	File string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// ReadOnly rejects mutating operations.
	ReadOnly bool

	// Output receives the final document in script mode.
	// Defaults to standard output.
	Output io.Writer
}

// App is the central coordinator for the Tessera components.
type App struct {
	opts Options

	cfg      config.Config
	log      *diag.Logger
	logFile  *os.File
	eng      *engine.Engine
	watcher  *config.Watcher
	sessions *SessionStore

	// Deferred config warning: raised before the logger exists,
	// reported right after it does.
	configWarning error

	restoredCursor engine.Offset

	running atomic.Bool

	mu     sync.Mutex
	editor *tui.Editor
}

// New creates an App and initializes its components in dependency
// order. On failure the partially built app is released.
func New(opts Options) (*App, error) {
	a := &App{
		opts: opts,
		log:  diag.NullLogger,
	}

	if err := a.bootstrap(); err != nil {
		a.Shutdown()
		return nil, err
	}

	return a, nil
}

// bootstrap initializes all components in dependency order.
func (a *App) bootstrap() error {
	// 1. Configuration
	if err := a.loadConfig(); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	// 2. Logger
	if err := a.openLogger(); err != nil {
		return &InitError{Component: "logger", Err: err}
	}
	if a.configWarning != nil {
		a.log.Warn("config: %v", a.configWarning)
	}

	// 3. Session store
	if path := a.cfg.Session.Path; path != "" {
		a.sessions = NewSessionStore(path, a.log.WithComponent("session"))
	}

	// 4. Engine
	if err := a.openEngine(); err != nil {
		return &InitError{Component: "engine", Err: err}
	}

	// 5. Config watcher (live reload, best effort)
	a.watchConfig()

	return nil
}

// loadConfig resolves the configuration. An explicit path must load;
// the default path is optional and falls back to the defaults.
func (a *App) loadConfig() error {
	if a.opts.ConfigPath != "" {
		cfg, err := config.Load(a.opts.ConfigPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
		return nil
	}

	cfg, err := config.LoadOrDefault(DefaultConfigPath)
	if err != nil {
		// Keep running on the defaults; report once the logger is up.
		a.configWarning = err
	}
	a.cfg = cfg
	return nil
}

// openLogger builds the diagnostic logger from the configuration and
// flag overrides, and installs it as the process default.
func (a *App) openLogger() error {
	level := a.cfg.Log.Level
	if a.opts.LogLevel != "" {
		level = a.opts.LogLevel
	}

	out := io.Writer(os.Stderr)
	switch {
	case a.cfg.Log.File != "":
		f, err := os.OpenFile(a.cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		out = f
	case a.opts.ScriptPath == "":
		// The pad owns the terminal, so without a log file there is
		// nowhere safe to write.
		a.log = diag.NullLogger
		diag.SetDefault(a.log)
		return nil
	}

	a.log = diag.New(diag.ParseLevel(level), out)
	diag.SetDefault(a.log)
	return nil
}

// openEngine builds the document engine, reading the initial content
// from the file argument or, failing that, the restored session.
func (a *App) openEngine() error {
	engOpts := []engine.Option{
		engine.WithLogger(a.log.WithComponent("engine")),
		engine.WithMaxUndoEntries(a.cfg.Engine.MaxUndoEntries),
	}
	if a.opts.ReadOnly || a.cfg.Engine.ReadOnly {
		engOpts = append(engOpts, engine.WithReadOnly())
	}

	if a.opts.File == "" {
		a.restoreSession()
	}

	if a.opts.File == "" {
		a.eng = engine.New(engOpts...)
		return nil
	}

	f, err := os.Open(a.opts.File)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// New file: start empty, created on the first save.
			a.eng = engine.New(engOpts...)
			return nil
		}
		return err
	}
	defer f.Close()

	eng, err := engine.NewFromReader(f, engOpts...)
	if err != nil {
		return err
	}
	a.eng = eng

	a.log.Info("opened %s (%d runes)", a.opts.File, a.eng.Len())
	return nil
}

// restoreSession reopens the previous session's document when session
// restore is enabled.
func (a *App) restoreSession() {
	if a.sessions == nil || !a.cfg.Session.Restore {
		return
	}

	sess, err := a.sessions.Load()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			a.log.Warn("session restore: %v", err)
		}
		return
	}
	if sess.File == "" {
		return
	}

	a.opts.File = sess.File
	a.restoredCursor = sess.Cursor
	a.log.Info("restored session %s on %s", sess.ID, sess.File)
}

// watchConfig starts the live-reload watcher. Failures are logged and
// the app keeps its loaded configuration.
func (a *App) watchConfig() {
	path := a.opts.ConfigPath
	if path == "" {
		path = DefaultConfigPath
		if _, err := os.Stat(path); err != nil {
			return
		}
	}

	w, err := config.NewWatcher(path, a.onConfigReload,
		config.WithWatchLogger(a.log.WithComponent("config")))
	if err != nil {
		a.log.Warn("config watch: %v", err)
		return
	}
	a.watcher = w
}

// onConfigReload applies the hot-reloadable settings. It runs on the
// watcher goroutine, so only goroutine-safe components are touched.
func (a *App) onConfigReload(cfg config.Config) {
	a.eng.SetMaxUndoEntries(cfg.Engine.MaxUndoEntries)

	// A -log-level flag wins over the file for the process lifetime.
	if a.opts.LogLevel == "" {
		a.log.SetLevel(diag.ParseLevel(cfg.Log.Level))
	}

	a.log.Info("configuration reloaded")
}

// Run starts the selected mode: script when a script path is set, the
// interactive pad otherwise. It returns ErrQuit when the user exits
// the pad normally.
func (a *App) Run() error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	if a.opts.ScriptPath != "" {
		return a.runScript()
	}
	return a.runEditor()
}

// runScript executes the Lua script and writes the final document to
// the output.
func (a *App) runScript() error {
	runner, err := script.New(a.eng, script.WithLogger(a.log.WithComponent("script")))
	if err != nil {
		return err
	}
	defer runner.Close()

	if err := runner.Run(a.opts.ScriptPath); err != nil {
		return fmt.Errorf("script %s: %w", a.opts.ScriptPath, err)
	}

	out := a.opts.Output
	if out == nil {
		out = os.Stdout
	}
	if _, err := io.WriteString(out, a.eng.Text()); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	return nil
}

// runEditor runs the interactive pad and records the session when it
// exits cleanly.
func (a *App) runEditor() error {
	ed, err := tui.New(a.eng,
		tui.WithFileName(a.opts.File),
		tui.WithLogger(a.log.WithComponent("tui")),
		tui.WithTabWidth(a.cfg.UI.TabWidth),
		tui.WithShowStatus(a.cfg.UI.ShowStatus),
		tui.WithCursor(a.restoredCursor),
	)
	if err != nil {
		return err
	}

	a.setEditor(ed)
	defer a.setEditor(nil)

	if err := ed.Run(); err != nil {
		return err
	}

	a.saveSession(ed)
	return ErrQuit
}

// saveSession writes the session file after a clean pad exit.
func (a *App) saveSession(ed *tui.Editor) {
	if a.sessions == nil {
		return
	}

	err := a.sessions.Save(Session{
		File:   ed.FileName(),
		Cursor: ed.Cursor(),
	})
	if err != nil {
		a.log.Warn("session save: %v", err)
	}
}

// IsRunning returns true if the application is running.
func (a *App) IsRunning() bool {
	return a.running.Load()
}

// Engine returns the document engine.
func (a *App) Engine() *engine.Engine {
	return a.eng
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

func (a *App) setEditor(ed *tui.Editor) {
	a.mu.Lock()
	a.editor = ed
	a.mu.Unlock()
}

// Shutdown stops a running pad and releases the app's resources.
// Safe to call more than once and from other goroutines.
func (a *App) Shutdown() {
	a.mu.Lock()
	ed := a.editor
	watcher := a.watcher
	logFile := a.logFile
	a.editor = nil
	a.watcher = nil
	a.logFile = nil
	a.mu.Unlock()

	if ed != nil {
		ed.Stop()
	}
	if watcher != nil {
		_ = watcher.Close()
	}
	if logFile != nil {
		_ = logFile.Close()
	}
}
