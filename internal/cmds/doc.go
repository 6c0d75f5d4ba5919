// Package cmds implements the ex-style command-line engine: command
// registration, name and abbreviation resolution, range parsing, modifier
// handling, argument splitting and dispatch.
//
// # Command lines
//
// A command line has the shape
//
//	[range] name [!] [?] [arguments]
//
// where the range is resolved by package linerange and the arguments are split
// by package argsplit according to the command's Flags. Commands flagged
// HasCustSep take the character after their name as a field separator, as in
// s/pattern/replacement/flags; for them '!' and '?' are separators, not
// modifiers.
//
// # Resolution
//
// A builtin is invoked by any prefix of its Name that is at least as long as
// its Abbr. User commands are invoked by any unique prefix of their name, and
// may carry a trailing '!' or '?' as part of the name ("udf!"). Builtins are
// always consulted first.
//
// # Usage
//
//	engine := cmds.New(cmds.WithLines(lines))
//	engine.Registry().MustAddBuiltins([]cmds.Command{
//	    {Name: "delete", Abbr: "d", Flags: cmds.HasRange | cmds.HasEmark, MaxArgs: 1, Handler: del},
//	})
//
//	if code := engine.Execute("%d!"); code != 0 {
//	    // negative codes are ErrorCode values, others come from the handler
//	}
//
// User commands are defined with the "command" builtin or Registry.AddUser and
// run through the reserved UserCommandName builtin, whose handler replays the
// stored body through Execute.
package cmds
