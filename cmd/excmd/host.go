package main

import (
	"fmt"
	"regexp"
	"strings"
	"text/tabwriter"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/excmd/internal/cmds"
)

// builtins returns the commands the host provides on top of the engine's own.
func (a *app) builtins() []cmds.Command {
	return []cmds.Command{
		{
			Name:    "",
			Descr:   "go to the last line of the range",
			Flags:   cmds.HasRange,
			Handler: a.gotoCmd,
		},
		{
			Name:    "!",
			Descr:   "run a shell command",
			Flags:   cmds.HasBgFlag,
			MinArgs: 1,
			MaxArgs: 1,
			Handler: a.shellCmd,
		},
		{
			Name:    "delete",
			Abbr:    "d",
			Descr:   "delete lines",
			Flags:   cmds.HasRange | cmds.HasEmark,
			MaxArgs: 1,
			Handler: a.deleteCmd,
		},
		{
			Name:    "echo",
			Abbr:    "ec",
			Descr:   "print arguments",
			Flags:   cmds.HasQuotedArgs | cmds.HasEnvVars,
			MaxArgs: cmds.NoLimit,
			Handler: a.echoCmd,
		},
		{
			Name:    "help",
			Abbr:    "h",
			Descr:   "list builtin commands",
			MaxArgs: 1,
			Handler: a.helpCmd,
		},
		{
			Name:    "lua",
			Descr:   "run a Lua chunk",
			MinArgs: 1,
			MaxArgs: 1,
			Handler: a.luaCmd,
		},
		{
			Name:    "luafile",
			Abbr:    "luaf",
			Descr:   "run a Lua file",
			Flags:   cmds.HasQuotedArgs | cmds.HasEnvVars,
			MinArgs: 1,
			MaxArgs: 1,
			Handler: a.luafileCmd,
		},
		{
			Name:    "mark",
			Abbr:    "ma",
			Descr:   "set a mark at the last line of the range",
			Flags:   cmds.HasRange,
			MinArgs: 1,
			MaxArgs: 1,
			Handler: a.markCmd,
		},
		{
			Name:    "plugins",
			Abbr:    "plug",
			Descr:   "list plugins",
			Handler: a.pluginsCmd,
		},
		{
			Name:    "quit",
			Abbr:    "q",
			Descr:   "leave the prompt",
			Flags:   cmds.HasEmark,
			Handler: a.quitCmd,
		},
		{
			Name:    "substitute",
			Abbr:    "s",
			Descr:   "substitute pattern matches",
			Flags:   cmds.HasRange | cmds.HasRegexpArgs | cmds.HasCustSep,
			MaxArgs: 3,
			Handler: a.substituteCmd,
		},
		{
			Name:    "tr",
			Descr:   "translate characters",
			Flags:   cmds.HasRegexpArgs | cmds.HasCustSep,
			MinArgs: 2,
			MaxArgs: 2,
			Handler: a.trCmd,
		},
	}
}

// lines returns the range of ctx, defaulting to the current line.
func (a *app) lines(ctx *cmds.Context) (int, int) {
	if ctx.HasRange {
		return ctx.Begin, ctx.End
	}
	return a.buf.Current(), a.buf.Current()
}

func (a *app) gotoCmd(ctx *cmds.Context) int {
	if ctx.HasRange {
		a.buf.setCurrent(ctx.End)
	}
	fmt.Fprintf(a.out, "line %d of %d\n", a.buf.Current()+1, a.buf.Last()+1)
	return 0
}

func (a *app) shellCmd(ctx *cmds.Context) int {
	return a.shell(ctx.Args[0], ctx.Bg)
}

func (a *app) deleteCmd(ctx *cmds.Context) int {
	begin, end := a.lines(ctx)
	n := a.buf.deleteLines(begin, end)
	if len(ctx.Args) == 1 {
		fmt.Fprintf(a.out, "%d fewer lines (register %s)\n", n, ctx.Args[0])
	} else {
		fmt.Fprintf(a.out, "%d fewer lines\n", n)
	}
	return 0
}

func (a *app) echoCmd(ctx *cmds.Context) int {
	fmt.Fprintln(a.out, strings.Join(ctx.Args, " "))
	return 0
}

func (a *app) helpCmd(ctx *cmds.Context) int {
	prefix := ""
	if len(ctx.Args) == 1 {
		prefix = ctx.Args[0]
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, c := range a.engine.Registry().Builtins() {
		if c.Name == "" || !strings.HasPrefix(c.Name, prefix) {
			continue
		}
		name := c.Name
		if c.Abbr != "" && c.Abbr != c.Name {
			name = c.Abbr + "[" + c.Name[len(c.Abbr):] + "]"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, c.Flags, c.Descr)
	}
	_ = tw.Flush()
	return 0
}

func (a *app) luaCmd(ctx *cmds.Context) int {
	if err := a.lua.DoString(ctx.Args[0]); err != nil {
		fmt.Fprintf(a.errOut, "lua: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) luafileCmd(ctx *cmds.Context) int {
	if err := a.lua.DoFile(ctx.Args[0]); err != nil {
		fmt.Fprintf(a.errOut, "luafile: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) markCmd(ctx *cmds.Context) int {
	name, size := utf8.DecodeRuneInString(ctx.Args[0])
	if size != len(ctx.Args[0]) || !unicode.IsLetter(name) {
		fmt.Fprintf(a.errOut, "mark: %q is not a letter\n", ctx.Args[0])
		return 1
	}
	_, end := a.lines(ctx)
	a.buf.setMark(name, end)
	return 0
}

func (a *app) pluginsCmd(*cmds.Context) int {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, p := range a.plugins.List() {
		version := ""
		if p.Manifest != nil {
			version = p.Manifest.Version
		}
		status := p.State.String()
		if p.Error != nil {
			status += ": " + p.Error.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, version, status)
	}
	_ = tw.Flush()
	return 0
}

func (a *app) quitCmd(ctx *cmds.Context) int {
	if n := a.jobs.Load(); n > 0 && !ctx.Emark {
		fmt.Fprintf(a.errOut, "%d background commands still running (add ! to quit anyway)\n", n)
		return 1
	}
	a.quit = true
	return 0
}

// substituteCmd checks the pattern and flags and reports what would change.
// The host has no text, so nothing is rewritten.
func (a *app) substituteCmd(ctx *cmds.Context) int {
	var pattern, replacement, flags string
	switch len(ctx.Args) {
	case 3:
		flags = ctx.Args[2]
		fallthrough
	case 2:
		replacement = ctx.Args[1]
		fallthrough
	case 1:
		pattern = ctx.Args[0]
	}
	if pattern == "" {
		fmt.Fprintln(a.errOut, "substitute: no pattern")
		return 1
	}

	if strings.Contains(flags, "i") {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		fmt.Fprintf(a.errOut, "substitute: %v\n", err)
		return 1
	}
	if bad := strings.Trim(flags, "gi&c"); bad != "" {
		fmt.Fprintf(a.errOut, "substitute: unknown flags %q\n", bad)
		return 1
	}

	begin, end := a.lines(ctx)
	fmt.Fprintf(a.out, "substitute /%s/ with %q on lines %d-%d (global=%t)\n",
		re, replacement, begin+1, end+1, strings.Contains(flags, "g"))
	return 0
}

func (a *app) trCmd(ctx *cmds.Context) int {
	from, to := []rune(ctx.Args[0]), []rune(ctx.Args[1])
	if len(from) != len(to) {
		fmt.Fprintf(a.errOut, "tr: %q and %q differ in length\n", ctx.Args[0], ctx.Args[1])
		return 1
	}
	pairs := make([]string, len(from))
	for i := range from {
		pairs[i] = string(from[i]) + "->" + string(to[i])
	}
	fmt.Fprintf(a.out, "tr %s\n", strings.Join(pairs, " "))
	return 0
}
