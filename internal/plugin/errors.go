package plugin

import "errors"

// Plugin errors.
var (
	// ErrNoEntryPoint is returned when a plugin directory has neither a
	// manifest nor an init.lua.
	ErrNoEntryPoint = errors.New("plugin has no entry point (plugin.toml or init.lua)")

	// ErrDependencyNotFound is returned when a required plugin is missing or broken.
	ErrDependencyNotFound = errors.New("plugin dependency not found")

	// ErrCyclicDependency is returned when plugins depend on each other.
	ErrCyclicDependency = errors.New("cyclic plugin dependency detected")
)
