package lua

import (
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// allowedModulesKey is the registry field holding the modules require may load.
const allowedModulesKey = "excmd.allowed_modules"

// openSafeLibraries opens only safe Lua standard libraries. io, os and debug
// stay closed; package is opened for require and then locked down.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
		{lua.CoroutineLibName, lua.OpenCoroutine},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// installSandbox removes the loaders that reach the file system, sends print
// to out and restricts require to registered modules.
func installSandbox(L *lua.LState, out io.Writer) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		fmt.Fprintln(out, strings.Join(parts, "\t"))
		return 0
	}))

	if pkg, ok := L.GetGlobal("package").(*lua.LTable); ok {
		L.SetField(pkg, "path", lua.LString(""))
		L.SetField(pkg, "cpath", lua.LString(""))
	}

	allowed := L.NewTable()
	for _, name := range []string{"string", "table", "math", "coroutine"} {
		allowed.RawSetString(name, lua.LTrue)
	}
	L.SetField(L.Get(lua.RegistryIndex), allowedModulesKey, allowed)

	require := L.GetGlobal("require")
	L.SetGlobal("require", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if allowedModules(L).RawGetString(name) != lua.LTrue {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(require)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}

func allowedModules(L *lua.LState) *lua.LTable {
	return L.GetField(L.Get(lua.RegistryIndex), allowedModulesKey).(*lua.LTable)
}

func allowModule(L *lua.LState, name string) {
	allowedModules(L).RawSetString(name, lua.LTrue)
}
