// Package lua runs Lua scripts against a command engine.
//
// Scripts execute in a sandboxed gopher-lua state: only the base, string,
// table, math and coroutine libraries are loaded, the file loaders (dofile,
// loadfile, load) are removed, print goes to a configurable writer and
// require only reaches modules registered on the State. Every entry point
// runs under an execution timeout enforced through the state's context.
//
// # The ex module
//
// Bind installs the ex module, available both as a global and through
// require("ex"):
//
//	ex.command("ll", "!ls -l")
//	local code, msg = ex.execute("ll")
//
//	ex.register{
//	    name = "greet", abbr = "gr", quoted = true, max = 1,
//	    handler = function(ctx)
//	        print("hello " .. (ctx.args[1] or "world"))
//	        return 0
//	    end,
//	}
//
// A handler receives the parsed command line as a table (name, begin, end,
// has_range, emark, qmark, bg, args, raw, sep, cmd) and returns the command's
// result code.
//
// # Usage
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	lua.Bind(state, engine, logger)
//	if err := state.DoFile("init.lua"); err != nil {
//	    return err
//	}
package lua
