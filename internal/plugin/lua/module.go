package lua

import (
	"io"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/excmd/internal/cmds"
)

// ModuleName is the global and require name of the command module.
const ModuleName = "ex"

// HandlerFailed is what a Lua-defined command returns when its handler
// raises an error or returns something other than a number.
const HandlerFailed = 1

// Module exposes a command engine to Lua scripts:
//
//	ex.execute(line)          -> code, message
//	ex.command(name, body)    -> true | nil, message
//	ex.delcommand(name)       -> true | nil, message
//	ex.register{...}          -> true | nil, message
//	ex.complete(prefix)       -> { names }
//	ex.commands()             -> { name = body }
type Module struct {
	engine *cmds.Engine
	logger *log.Logger
}

// Bind installs the ex module for engine into s.
func Bind(s *State, engine *cmds.Engine, logger *log.Logger) *Module {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &Module{engine: engine, logger: logger}
	s.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"execute":    m.execute,
		"command":    m.command,
		"delcommand": m.delcommand,
		"register":   m.register,
		"complete":   m.complete,
		"commands":   m.commands,
	})
	return m
}

func (m *Module) execute(L *lua.LState) int {
	code, err := m.engine.Run(L.CheckString(1))
	L.Push(lua.LNumber(code))
	if err != nil {
		L.Push(lua.LString(err.Error()))
		return 2
	}
	return 1
}

func (m *Module) command(L *lua.LState) int {
	return pushResult(L, m.engine.Registry().AddUser(L.CheckString(1), L.CheckString(2)))
}

func (m *Module) delcommand(L *lua.LState) int {
	return pushResult(L, m.engine.Registry().RemoveUser(L.CheckString(1)))
}

func (m *Module) complete(L *lua.LState) int {
	names := m.engine.Registry().Complete(L.OptString(1, ""))
	t := L.CreateTable(len(names), 0)
	for _, name := range names {
		t.Append(lua.LString(name))
	}
	L.Push(t)
	return 1
}

func (m *Module) commands(L *lua.LState) int {
	t := L.NewTable()
	for _, c := range m.engine.Registry().UserCommands() {
		t.RawSetString(c.Name, lua.LString(c.Body))
	}
	L.Push(t)
	return 1
}

// register defines a builtin from a descriptor table:
//
//	ex.register{
//	    name = "greet", abbr = "gr", descr = "say hello",
//	    range = false, bang = true, qmark = false, qmark_noargs = false,
//	    regexp = false, sep = false, quoted = true, envvars = false, bg = false,
//	    min = 0, max = -1,
//	    handler = function(ctx) print(ctx.args[1]) return 0 end,
//	}
func (m *Module) register(L *lua.LState) int {
	desc := L.CheckTable(1)

	handler, ok := desc.RawGetString("handler").(*lua.LFunction)
	if !ok {
		L.ArgError(1, "handler must be a function")
		return 0
	}

	cmd := cmds.Command{
		Name:    stringField(desc, "name"),
		Abbr:    stringField(desc, "abbr"),
		Descr:   stringField(desc, "descr"),
		Flags:   descriptorFlags(desc),
		MinArgs: intField(desc, "min", 0),
		MaxArgs: intField(desc, "max", cmds.NoLimit),
	}
	cmd.Handler = m.luaHandler(L, cmd.Name, handler)

	return pushResult(L, m.engine.Registry().AddBuiltin(cmd))
}

var flagFields = []struct {
	field string
	flag  cmds.Flags
}{
	{"range", cmds.HasRange},
	{"bang", cmds.HasEmark},
	{"qmark", cmds.HasQmarkWithArgs},
	{"qmark_noargs", cmds.HasQmarkNoArgs},
	{"regexp", cmds.HasRegexpArgs},
	{"sep", cmds.HasCustSep},
	{"quoted", cmds.HasQuotedArgs},
	{"envvars", cmds.HasEnvVars},
	{"bg", cmds.HasBgFlag},
}

func descriptorFlags(desc *lua.LTable) cmds.Flags {
	var flags cmds.Flags
	for _, ff := range flagFields {
		if lua.LVAsBool(desc.RawGetString(ff.field)) {
			flags |= ff.flag
		}
	}
	return flags
}

// luaHandler adapts a Lua function to cmds.Handler. The function is called on
// L, which is safe because handlers run on the goroutine that drives the
// engine, either from Go or re-entrantly through ex.execute.
func (m *Module) luaHandler(L *lua.LState, name string, fn *lua.LFunction) cmds.Handler {
	return func(ctx *cmds.Context) int {
		err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, contextTable(L, ctx))
		if err != nil {
			m.logger.Warn("lua command failed", "name", name, "err", err)
			return HandlerFailed
		}
		ret := L.Get(-1)
		L.Pop(1)

		switch v := ret.(type) {
		case lua.LNumber:
			return int(v)
		case *lua.LNilType:
			return 0
		default:
			m.logger.Warn("lua command returned a non-number", "name", name, "type", ret.Type().String())
			return HandlerFailed
		}
	}
}

// contextTable converts a command context for a Lua handler. Lines stay
// 0-based.
func contextTable(L *lua.LState, ctx *cmds.Context) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("name", lua.LString(ctx.Name))
	t.RawSetString("begin", lua.LNumber(ctx.Begin))
	t.RawSetString("end", lua.LNumber(ctx.End))
	t.RawSetString("has_range", lua.LBool(ctx.HasRange))
	t.RawSetString("emark", lua.LBool(ctx.Emark))
	t.RawSetString("qmark", lua.LBool(ctx.Qmark))
	t.RawSetString("bg", lua.LBool(ctx.Bg))
	t.RawSetString("raw", lua.LString(ctx.RawArgs))
	t.RawSetString("cmd", lua.LString(ctx.Cmd))
	if ctx.Sep != 0 {
		t.RawSetString("sep", lua.LString(string(ctx.Sep)))
	}

	args := L.CreateTable(len(ctx.Args), 0)
	for _, a := range ctx.Args {
		args.Append(lua.LString(a))
	}
	t.RawSetString("args", args)
	return t
}

func pushResult(L *lua.LState, err error) int {
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func stringField(t *lua.LTable, key string) string {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

func intField(t *lua.LTable, key string, def int) int {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return def
}

