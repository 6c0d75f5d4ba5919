package cmds

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// builtins returns the commands every engine provides for managing user commands.
func (e *Engine) builtins() []Command {
	return []Command{
		{
			Name:    "command",
			Abbr:    "com",
			Descr:   "define or list user commands",
			Flags:   HasEmark | HasQuotedArgs,
			MinArgs: 0,
			MaxArgs: 2,
			Handler: e.commandCmd,
		},
		{
			Name:    "delcommand",
			Abbr:    "delc",
			Descr:   "remove a user command",
			Flags:   HasEmark,
			MinArgs: 1,
			MaxArgs: 1,
			Handler: e.delcommandCmd,
		},
		{
			Name:    "comclear",
			Abbr:    "comc",
			Descr:   "remove all user commands",
			MinArgs: 0,
			MaxArgs: 0,
			Handler: e.comclearCmd,
		},
	}
}

// commandCmd lists user commands with zero or one argument and defines one
// with two. Redefinition overwrites the previous body.
func (e *Engine) commandCmd(ctx *Context) int {
	switch len(ctx.Args) {
	case 0:
		e.listUser("")
		return 0
	case 1:
		e.listUser(ctx.Args[0])
		return 0
	}

	name, body := ctx.Args[0], ctx.Args[1]
	if err := e.registry.AddUser(name, body); err != nil {
		e.logger.Warn("cannot define command", "name", name, "err", err)
		return int(Code(err))
	}
	e.logger.Debug("defined command", "name", name, "body", body)
	return 0
}

func (e *Engine) delcommandCmd(ctx *Context) int {
	if err := e.registry.RemoveUser(ctx.Args[0]); err != nil {
		return int(Code(err))
	}
	return 0
}

func (e *Engine) comclearCmd(*Context) int {
	e.registry.ClearUser()
	return 0
}

func (e *Engine) listUser(prefix string) {
	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	for _, c := range e.registry.UserCommands() {
		if strings.HasPrefix(c.Name, prefix) {
			fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Body)
		}
	}
	_ = tw.Flush()
}
