// Package config loads the excmd host configuration.
//
// Configuration is layered, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment (EXCMD_*)   │  ← Highest priority
//	├─────────────────────────────┤
//	│  2. Config file             │  ← ~/.config/excmd/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The file may be TOML, YAML or JSON; TOML files may pull in others through
// an include key. An example:
//
//	[logging]
//	level = "debug"
//	format = "logfmt"
//
//	[lines]
//	first = 0
//	current = 10
//	last = 199
//
//	[commands]
//	ll = "!ls -l"
//
//	[scripts]
//	files = ["init.lua"]
//	dirs = ["/home/me/.config/excmd/plugins"]
//
// # Sub-packages
//
//   - loader: file and environment loading, DeepMerge
//   - watcher: fsnotify-based reload
//
// # Usage
//
//	cfg, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    return err
//	}
//	engine := cmds.New(cmds.WithLines(cfg.LineSource()))
//	if err := cfg.ApplyCommands(engine.Registry()); err != nil {
//	    logger.Warn("some commands were not defined", "err", err)
//	}
package config
