package cmds

import (
	"fmt"
	"sort"
	"strings"
)

// userFlags are the capabilities of every user command.
const userFlags = HasRange | HasEmark | HasQmarkWithArgs

// Registry owns builtin and user command descriptors.
//
// A Registry is not safe for concurrent use. Embedders that register commands
// from several goroutines must serialise those calls themselves.
type Registry struct {
	builtins map[string]*Command
	users    map[string]*Command

	// userCmd is the reserved builtin that every user command dispatches through.
	userCmd *Command
}

// NewRegistry creates a registry holding only the reserved user-command builtin.
func NewRegistry() *Registry {
	r := &Registry{
		builtins: make(map[string]*Command),
		users:    make(map[string]*Command),
	}
	r.userCmd = &Command{
		Name:    UserCommandName,
		Descr:   "runs user-defined commands",
		Kind:    Builtin,
		Flags:   userFlags,
		MaxArgs: NoLimit,
		Handler: func(*Context) int { return 0 },
	}
	r.builtins[UserCommandName] = r.userCmd
	return r
}

// SetUserHandler replaces the handler that runs user commands.
func (r *Registry) SetUserHandler(h Handler) {
	r.userCmd.Handler = h
}

// UserHandler returns the handler that runs user commands.
func (r *Registry) UserHandler() Handler {
	return r.userCmd.Handler
}

// MustAddBuiltins registers a table of builtins. It panics on any invalid or
// colliding entry: builtin tables are part of the program, not user input.
func (r *Registry) MustAddBuiltins(cmds []Command) {
	for _, cmd := range cmds {
		if err := r.AddBuiltin(cmd); err != nil {
			panic(fmt.Sprintf("cmds: registering builtin %q: %v", cmd.Name, err))
		}
	}
}

// AddBuiltin registers a single builtin. It fails when the name is invalid,
// reserved, already registered, or when its abbreviation range overlaps that
// of another builtin or the name of an existing user command.
func (r *Registry) AddBuiltin(cmd Command) error {
	if cmd.Name == UserCommandName {
		return fmt.Errorf("%w: %q is reserved", ErrNameCollision, cmd.Name)
	}
	if !ValidBuiltinName(cmd.Name) {
		return fmt.Errorf("%w: %q", ErrIncorrectName, cmd.Name)
	}
	if err := validateDescriptor(&cmd); err != nil {
		return err
	}
	if _, exists := r.builtins[cmd.Name]; exists {
		return fmt.Errorf("%w: builtin %q already exists", ErrNameCollision, cmd.Name)
	}
	for _, other := range r.builtins {
		if cmd.overlaps(other) {
			return fmt.Errorf("%w: %q overlaps builtin %q", ErrNameCollision, cmd.Name, other.Name)
		}
	}
	for name := range r.users {
		if base, _ := splitUserName(name); cmd.covers(base) {
			return fmt.Errorf("%w: %q shadows user command %q", ErrNameCollision, cmd.Name, name)
		}
	}

	cmd.Kind = Builtin
	r.builtins[cmd.Name] = &cmd
	return nil
}

func validateDescriptor(cmd *Command) error {
	if cmd.Abbr != "" && (len(cmd.Abbr) > len(cmd.Name) || !strings.HasPrefix(cmd.Name, cmd.Abbr)) {
		return fmt.Errorf("%w: abbreviation %q is not a prefix of %q", ErrInvalidDescriptor, cmd.Abbr, cmd.Name)
	}
	if cmd.Flags.Has(HasQmarkWithArgs | HasQmarkNoArgs) {
		return fmt.Errorf("%w: %q declares both qmark variants", ErrInvalidDescriptor, cmd.Name)
	}
	if cmd.Flags.Has(HasCustSep) && cmd.Flags.Has(HasQuotedArgs) {
		return fmt.Errorf("%w: %q combines a custom separator with quoting", ErrInvalidDescriptor, cmd.Name)
	}
	if cmd.MinArgs < 0 || (cmd.MaxArgs != NoLimit && (cmd.MaxArgs < 0 || cmd.MaxArgs < cmd.MinArgs)) {
		return fmt.Errorf("%w: %q has argument bounds [%d, %d]", ErrInvalidDescriptor, cmd.Name, cmd.MinArgs, cmd.MaxArgs)
	}
	return nil
}

// AddUser defines or redefines a user command that replays body. The name must
// satisfy ValidUserName and must not be reachable as a builtin, so "s!" is
// refused while a builtin accepts "s" as its abbreviation.
func (r *Registry) AddUser(name, body string) error {
	if !ValidUserName(name) {
		return fmt.Errorf("%w: %q", ErrIncorrectName, name)
	}
	base, _ := splitUserName(name)
	for _, b := range r.builtins {
		if b.covers(base) {
			return fmt.Errorf("%w: %q is taken by builtin %q", ErrNameCollision, name, b.Name)
		}
	}

	r.users[name] = &Command{
		Name:    name,
		Kind:    User,
		Flags:   userFlags,
		MaxArgs: NoLimit,
		Body:    body,
	}
	return nil
}

// RemoveUser deletes a user command.
func (r *Registry) RemoveUser(name string) error {
	if _, ok := r.users[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNoSuchCommand, name)
	}
	delete(r.users, name)
	return nil
}

// ClearUser deletes every user command.
func (r *Registry) ClearUser() {
	r.users = make(map[string]*Command)
}

// Lookup returns the command registered under exactly name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	if c, ok := r.builtins[name]; ok {
		return c, true
	}
	c, ok := r.users[name]
	return c, ok
}

// UserCommands returns the user commands sorted by name.
func (r *Registry) UserCommands() []*Command {
	list := make([]*Command, 0, len(r.users))
	for _, c := range r.users {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Builtins returns the builtin commands sorted by name, without the reserved
// user-command entry.
func (r *Registry) Builtins() []*Command {
	list := make([]*Command, 0, len(r.builtins))
	for name, c := range r.builtins {
		if name != UserCommandName {
			list = append(list, c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Complete returns the sorted names of commands that start with prefix.
func (r *Registry) Complete(prefix string) []string {
	var names []string
	for name := range r.builtins {
		if name != "" && name != UserCommandName && strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	for name := range r.users {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
