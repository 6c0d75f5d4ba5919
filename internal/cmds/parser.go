package cmds

import (
	"fmt"
	"strings"
	"unicode"

	"mvdan.cc/sh/v3/shell"

	"github.com/dshills/excmd/internal/cmds/argsplit"
	"github.com/dshills/excmd/internal/cmds/linerange"
)

// Parse resolves a command line without running it. On success it returns the
// matched command and the context its handler would receive.
func (e *Engine) Parse(line string) (*Command, *Context, error) {
	s := strings.TrimLeftFunc(line, isLeader)

	rng, rest, err := linerange.Parse(s, e.lines)
	if err != nil {
		return nil, nil, newError(line, err)
	}
	rangeText, s := s[:len(s)-len(rest)], rest
	text := s

	cmd, s, err := e.registry.match(s)
	if err != nil {
		return nil, nil, newError(line, err)
	}
	if rng.Given && !cmd.Flags.Has(HasRange) {
		return nil, nil, newError(line, fmt.Errorf("%w: %q", ErrNoRangeAllowed, cmd.Name))
	}

	ctx := &Context{
		Name:     cmd.Name,
		HasRange: rng.Given,
		Cmd:      text,
		UserData: cmd.UserData,
	}
	if rng.Given {
		ctx.Begin, ctx.End = rng.Begin, rng.End
	}
	if cmd.Kind == User {
		if ctx.Cmd, err = e.replayLine(cmd, rangeText, s); err != nil {
			return nil, nil, newError(line, err)
		}
	}

	if cmd.Flags.Has(HasCustSep) {
		// The separator may be '!' or '?', so no modifiers are scanned.
		ctx.RawArgs = s
		ctx.Args, ctx.Sep, err = argsplit.Separated(s, cmd.MaxArgs)
		if err != nil {
			return nil, nil, newError(line, err)
		}
	} else {
		if s, err = scanModifiers(cmd, ctx, s); err != nil {
			return nil, nil, newError(line, err)
		}
		if err = e.splitArgs(cmd, ctx, s); err != nil {
			return nil, nil, newError(line, err)
		}
	}

	if err = checkArgCount(cmd, ctx); err != nil {
		return nil, nil, newError(line, err)
	}
	return cmd, ctx, nil
}

// isLeader reports the runes skipped before a command line.
func isLeader(r rune) bool {
	return r == ':' || unicode.IsSpace(r)
}

// replayLine builds the line a user command replays: the range typed before
// the name, the stored body, then everything typed after the name with its
// modifiers. The parts are joined as they are, so "first!x" with body
// "second" replays "second!x". A body that carries its own range cannot be
// given another one.
func (e *Engine) replayLine(cmd *Command, rangeText, tail string) (string, error) {
	if rangeText == "" {
		return cmd.Body + tail, nil
	}
	body := strings.TrimLeftFunc(cmd.Body, isLeader)
	if rng, _, err := linerange.Parse(body, e.lines); err != nil || rng.Given {
		return "", fmt.Errorf("%w: %q already has a range", ErrNoRangeAllowed, cmd.Name)
	}
	return rangeText + body + tail, nil
}

// scanModifiers consumes the '!' and '?' that directly follow the name.
func scanModifiers(cmd *Command, ctx *Context, s string) (string, error) {
	if strings.HasPrefix(s, "!") {
		if !cmd.Flags.Has(HasEmark) {
			return s, fmt.Errorf("%w: %q", ErrNoBangAllowed, cmd.Name)
		}
		ctx.Emark = true
		s = s[1:]
	}
	if strings.HasPrefix(s, "?") {
		if !cmd.Flags.Has(HasQmarkWithArgs) && !cmd.Flags.Has(HasQmarkNoArgs) {
			return s, fmt.Errorf("%w: %q", ErrNoQmarkAllowed, cmd.Name)
		}
		ctx.Qmark = true
		s = s[1:]
	}
	return s, nil
}

func (e *Engine) splitArgs(cmd *Command, ctx *Context, s string) error {
	raw := strings.TrimSpace(s)
	if cmd.Flags.Has(HasBgFlag) {
		raw, ctx.Bg = cutBg(raw)
	}
	ctx.RawArgs = raw

	var err error
	if cmd.Flags.Has(HasQuotedArgs) {
		ctx.Args, err = argsplit.Quoted(raw, cmd.MaxArgs)
		if err != nil {
			return err
		}
	} else {
		ctx.Args = argsplit.Words(raw, cmd.MaxArgs)
	}

	if cmd.Flags.Has(HasEnvVars) {
		for i, arg := range ctx.Args {
			expanded, err := shell.Expand(arg, e.env)
			if err != nil {
				return fmt.Errorf("%w: expanding %q: %v", ErrInvalidArg, arg, err)
			}
			ctx.Args[i] = expanded
		}
	}
	return nil
}

// cutBg strips a trailing "&" word.
func cutBg(s string) (string, bool) {
	if s == "&" {
		return "", true
	}
	if strings.HasSuffix(s, "&") && len(s) > 1 && unicode.IsSpace(rune(s[len(s)-2])) {
		return strings.TrimRightFunc(s[:len(s)-1], unicode.IsSpace), true
	}
	return s, false
}

func checkArgCount(cmd *Command, ctx *Context) error {
	n := len(ctx.Args)
	if n < cmd.MinArgs || (cmd.MaxArgs != NoLimit && n > cmd.MaxArgs) {
		return fmt.Errorf("%w: %q takes %s, got %d", ErrInvalidArgCount, cmd.Name, argBounds(cmd), n)
	}
	if ctx.Qmark && cmd.Flags.Has(HasQmarkNoArgs) && n > 0 {
		return fmt.Errorf("%w: %q takes no arguments with ?", ErrInvalidArgCount, cmd.Name)
	}
	return nil
}

func argBounds(cmd *Command) string {
	switch {
	case cmd.MaxArgs == NoLimit:
		return fmt.Sprintf("at least %d", cmd.MinArgs)
	case cmd.MinArgs == cmd.MaxArgs:
		return fmt.Sprintf("exactly %d", cmd.MinArgs)
	default:
		return fmt.Sprintf("%d to %d", cmd.MinArgs, cmd.MaxArgs)
	}
}
