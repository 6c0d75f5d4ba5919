package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/dshills/excmd/internal/cmds"
	"github.com/dshills/excmd/internal/config"
	"github.com/dshills/excmd/internal/config/watcher"
	"github.com/dshills/excmd/internal/logging"
	"github.com/dshills/excmd/internal/plugin"
	luart "github.com/dshills/excmd/internal/plugin/lua"
)

// app is the command-line host: an engine, the builtins it serves, a Lua
// state and a line extent for ranges to address.
type app struct {
	ctx     context.Context
	cfg     *config.Config
	engine  *cmds.Engine
	logger  *log.Logger
	lua     *luart.State
	plugins *plugin.Manager
	buf     *buffer

	// out and errOut are lockedWriters sharing outMu.
	out    io.Writer
	errOut io.Writer
	outMu  sync.Mutex

	// bg tracks commands started with a trailing '&'.
	bg   sync.WaitGroup
	jobs atomic.Int32

	quit bool

	watcher    *watcher.Watcher
	reload     atomic.Bool
	loadConfig func() (*config.Config, error)
}

func newApp(ctx context.Context, cfg *config.Config, out, errOut io.Writer) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	a := &app{
		ctx: ctx,
		cfg: cfg,
		buf: newBuffer(cfg.Lines),
	}
	a.out = lockedWriter{mu: &a.outMu, w: out}
	a.errOut = lockedWriter{mu: &a.outMu, w: errOut}
	a.logger = logging.New(cfg.Logging, a.errOut)

	a.engine = cmds.New(
		cmds.WithLines(a.buf),
		cmds.WithOutput(a.out),
		cmds.WithLogger(a.logger),
	)
	a.engine.Registry().MustAddBuiltins(a.builtins())

	state, err := luart.NewState(luart.WithOutput(a.out))
	if err != nil {
		return nil, fmt.Errorf("creating lua state: %w", err)
	}
	a.lua = state
	luart.Bind(state, a.engine, a.logger)

	if err := cfg.ApplyCommands(a.engine.Registry()); err != nil {
		a.logger.Warn("some configured commands were not defined", "err", err)
	}
	for _, file := range cfg.Scripts.Files {
		if err := state.DoFile(file); err != nil {
			a.logger.Error("script failed", "file", file, "err", err)
		}
	}

	a.plugins = plugin.NewManager(a.logger, plugin.WithPaths(cfg.Scripts.Dirs...))
	if len(cfg.Scripts.Dirs) > 0 {
		if err := a.plugins.LoadAll(state, a.engine.Registry()); err != nil {
			a.logger.Warn("some plugins were not loaded", "err", err)
		}
	}
	return a, nil
}

// execute runs one command line and reports parse failures on errOut.
func (a *app) execute(line string) int {
	code, err := a.engine.Run(line)
	if err != nil {
		fmt.Fprintf(a.errOut, "E%d: %s: %s\n", -code, cmds.Code(err), line)
	}
	return code
}

// watch reloads the configuration file when it changes. The reload itself
// happens in applyReload, on the goroutine that runs commands.
func (a *app) watch(load func() (*config.Config, error)) {
	if a.cfg.Path == "" {
		return
	}
	w, err := watcher.New(a.cfg.Path, func(ev watcher.Event) {
		a.logger.Debug("configuration changed", "path", ev.Path, "op", ev.Op)
		a.reload.Store(true)
	}, watcher.WithLogger(a.logger))
	if err != nil {
		a.logger.Warn("cannot watch configuration", "path", a.cfg.Path, "err", err)
		return
	}
	a.watcher = w
	a.loadConfig = load
}

func (a *app) applyReload() {
	if !a.reload.Swap(false) || a.loadConfig == nil {
		return
	}

	cfg, err := a.loadConfig()
	if err != nil {
		a.logger.Error("configuration reload failed", "err", err)
		return
	}
	if err := logging.SetLevel(a.logger, cfg.Logging.Level); err != nil {
		a.logger.Warn("keeping log level", "err", err)
	}
	a.cfg.RemoveCommands(a.engine.Registry())
	if err := cfg.ApplyCommands(a.engine.Registry()); err != nil {
		a.logger.Warn("some configured commands were not defined", "err", err)
	}
	if err := a.plugins.ApplyCommands(a.engine.Registry()); err != nil {
		a.logger.Warn("some plugin commands were not defined", "err", err)
	}
	a.cfg = cfg
	a.logger.Info("configuration reloaded", "path", cfg.Path, "commands", len(cfg.Commands))
}

func (a *app) close() {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	a.bg.Wait()
	_ = a.lua.Close()
}
