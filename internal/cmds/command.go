package cmds

import (
	"strings"
)

// Flags is the set of capabilities a command declares.
type Flags uint16

// Command capabilities.
const (
	// HasRange allows a leading line range.
	HasRange Flags = 1 << iota
	// HasEmark allows a trailing '!' modifier.
	HasEmark
	// HasQmarkWithArgs allows a trailing '?' modifier, with or without arguments.
	HasQmarkWithArgs
	// HasQmarkNoArgs allows a trailing '?' modifier only when no arguments follow.
	HasQmarkNoArgs
	// HasRegexpArgs marks arguments that are regular expressions.
	HasRegexpArgs
	// HasCustSep makes the first character after the name a field separator.
	HasCustSep
	// HasQuotedArgs honours quoting when splitting arguments.
	HasQuotedArgs
	// HasEnvVars expands $VAR and ${VAR} in arguments.
	HasEnvVars
	// HasBgFlag accepts a trailing '&' that requests background execution.
	HasBgFlag
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{HasRange, "range"},
	{HasEmark, "emark"},
	{HasQmarkWithArgs, "qmark"},
	{HasQmarkNoArgs, "qmark-noargs"},
	{HasRegexpArgs, "regexp"},
	{HasCustSep, "custsep"},
	{HasQuotedArgs, "quoted"},
	{HasEnvVars, "envvars"},
	{HasBgFlag, "bg"},
}

// Has reports whether all bits of f are set.
func (fs Flags) Has(f Flags) bool {
	return fs&f == f
}

// String returns the flag names joined by '|'.
func (fs Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if fs.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

// NoLimit as MaxArgs removes the upper bound on the argument count.
const NoLimit = -1

// Kind distinguishes builtin commands from user-defined ones.
type Kind uint8

const (
	// Builtin commands are registered by the host application.
	Builtin Kind = iota
	// User commands are aliases defined at runtime.
	User
)

// String returns the kind name.
func (k Kind) String() string {
	if k == User {
		return "user"
	}
	return "builtin"
}

// Handler executes a command. The returned value is passed through to the
// caller of Execute unchanged: 0 means success.
type Handler func(ctx *Context) int

// Command describes a registered command.
type Command struct {
	// Name is the full command name.
	Name string
	// Abbr is the shortest accepted prefix of Name. Empty means only the
	// full name is accepted.
	Abbr string
	// Descr is a one-line description.
	Descr string
	// Kind is set by the registry.
	Kind Kind
	// Flags declares what the command line may contain.
	Flags Flags
	// MinArgs and MaxArgs bound the argument count. MaxArgs may be NoLimit.
	MinArgs int
	MaxArgs int
	// Handler is invoked with the parsed command line.
	Handler Handler
	// Body is the replayed text of a user command.
	Body string
	// UserData is copied into every Context for this command.
	UserData any
}

// minLen is the length of the shortest accepted prefix.
func (c *Command) minLen() int {
	if c.Abbr != "" {
		return len(c.Abbr)
	}
	return len(c.Name)
}

// covers reports whether token invokes c through its abbreviation range.
func (c *Command) covers(token string) bool {
	return token != "" && len(token) >= c.minLen() && strings.HasPrefix(c.Name, token)
}

// overlaps reports whether some token would invoke both c and o.
func (c *Command) overlaps(o *Command) bool {
	common := 0
	for common < len(c.Name) && common < len(o.Name) && c.Name[common] == o.Name[common] {
		common++
	}
	return common > 0 && common >= max(c.minLen(), o.minLen())
}

// Context is built for each invocation and handed to the handler. Handlers
// must not retain it.
type Context struct {
	// Name is the resolved command name.
	Name string
	// Begin and End delimit the resolved range (inclusive, 0-based).
	Begin int
	End   int
	// HasRange reports whether a range was typed. When unset Begin and End
	// are zero and the handler picks its own default.
	HasRange bool
	// Emark is set when '!' followed the name.
	Emark bool
	// Qmark is set when '?' followed the name.
	Qmark bool
	// Bg is set when the arguments ended with '&'.
	Bg bool
	// Args are the split arguments.
	Args []string
	// RawArgs is the argument text before splitting.
	RawArgs string
	// Sep is the custom separator, or 0.
	Sep rune
	// Cmd is the command text after the range. For user commands it is the
	// line to replay: the typed range, the stored body and whatever was typed
	// after the command name, modifiers included, concatenated verbatim.
	Cmd string
	// UserData comes from the command descriptor.
	UserData any
}
