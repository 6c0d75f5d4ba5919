package cmds

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/dshills/excmd/internal/cmds/linerange"
)

// Engine parses command lines and dispatches them to handlers.
//
// An Engine is single-threaded: Execute runs the handler to completion on the
// caller's goroutine. User commands re-enter Execute recursively and there is
// no cycle detection, so a user command that (directly or indirectly) invokes
// itself recurses until the stack is exhausted.
type Engine struct {
	registry *Registry
	lines    linerange.Lines
	env      func(string) string
	out      io.Writer
	logger   *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLines sets the line source ranges are resolved against.
func WithLines(lines linerange.Lines) Option {
	return func(e *Engine) {
		if lines != nil {
			e.lines = lines
		}
	}
}

// WithEnv sets the variable lookup used for commands flagged HasEnvVars.
func WithEnv(env func(string) string) Option {
	return func(e *Engine) {
		if env != nil {
			e.env = env
		}
	}
}

// WithOutput sets where the engine's own builtins write listings.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		if w != nil {
			e.out = w
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an engine with its own registry. The registry starts with the
// command, delcommand and comclear builtins and replays user commands through
// Execute.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry: NewRegistry(),
		lines:    linerange.Static{},
		env:      os.Getenv,
		out:      io.Discard,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.registry.SetUserHandler(e.replay)
	e.registry.MustAddBuiltins(e.builtins())
	return e
}

// Registry returns the engine's command registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// SetLines replaces the line source.
func (e *Engine) SetLines(lines linerange.Lines) {
	if lines != nil {
		e.lines = lines
	}
}

// Output returns the writer used for listings.
func (e *Engine) Output() io.Writer {
	return e.out
}

// Run parses line and invokes the matched handler. Parse failures are
// returned as *Error together with their negative code, and the handler is
// not called. Otherwise the handler's result is returned unchanged.
func (e *Engine) Run(line string) (int, error) {
	cmd, ctx, err := e.Parse(line)
	if err != nil {
		e.logger.Warn("command rejected", "line", line, "err", err)
		return int(Code(err)), err
	}

	h := cmd.Handler
	if cmd.Kind == User {
		h = e.registry.UserHandler()
	}
	e.logger.Debug("executing command", "name", cmd.Name, "kind", cmd.Kind, "args", ctx.Args,
		"range", ctx.HasRange, "begin", ctx.Begin, "end", ctx.End)
	if h == nil {
		return 0, nil
	}
	return h(ctx), nil
}

// Execute runs line and returns either the handler's result or the negative
// ErrorCode of the parse failure.
func (e *Engine) Execute(line string) int {
	result, _ := e.Run(line)
	return result
}

// replay is the default user-command handler: it executes the stored body
// followed by the text typed after the command name.
func (e *Engine) replay(ctx *Context) int {
	return e.Execute(ctx.Cmd)
}
