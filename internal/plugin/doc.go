// Package plugin discovers and loads Lua plugins for the excmd host.
//
// A plugin is either a single file or a directory:
//
//	plugins/
//	├── wc.lua              # single-file plugin "wc"
//	├── git-tools/
//	│   ├── plugin.toml     # manifest
//	│   └── init.lua
//	└── notes/
//	    └── init.lua        # directory plugin without a manifest
//
// A manifest names the plugin, its main file, the plugins it depends on and
// the user commands it defines:
//
//	name = "git-tools"
//	version = "1.0.0"
//	main = "init.lua"
//	dependencies = ["notes"]
//
//	[commands]
//	gs = "!git status"
//	gd = "!git diff"
//
// Manager.LoadAll discovers every plugin in the search paths, orders them so
// that dependencies load first, defines the manifest commands in a
// cmds.Registry and runs each main file. Main files usually call the "ex"
// module (see package lua) to register builtins of their own.
//
// Plugin names are unique across search paths; the first path that provides
// a name wins.
package plugin
