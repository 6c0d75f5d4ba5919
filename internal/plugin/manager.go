package plugin

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/dshills/excmd/internal/cmds"
)

// Runtime runs plugin code. *lua.State implements it.
type Runtime interface {
	DoFile(path string) error
}

// Manager discovers plugins, loads them in dependency order and keeps the
// user commands they contribute defined.
type Manager struct {
	mu sync.RWMutex

	loader *Loader
	logger *log.Logger

	// plugins in load order, failed ones included.
	plugins []*PluginInfo
}

// NewManager creates a manager that discovers plugins with the given options.
func NewManager(logger *log.Logger, opts ...LoaderOption) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{
		loader: NewLoader(opts...),
		logger: logger,
	}
}

// Loader returns the discovery loader.
func (m *Manager) Loader() *Loader {
	return m.loader
}

// LoadAll discovers every plugin, defines its commands in reg and runs its
// main file with rt. Dependencies load first; a plugin whose dependency is
// missing, broken or part of a cycle is not loaded. LoadAll returns the
// failures joined and is meant to be called once per runtime.
func (m *Manager) LoadAll(rt Runtime, reg *cmds.Registry) error {
	discovered, err := m.loader.Discover()
	if err != nil {
		return err
	}

	ordered := resolveOrder(discovered)

	var errs []error
	loaded := make(map[string]bool, len(ordered))
	for _, p := range ordered {
		if p.Error == nil {
			p.Error = checkLoaded(p.Manifest, loaded)
		}
		if p.Error == nil {
			p.Error = m.load(rt, reg, p)
		}
		if p.Error != nil {
			p.State = StateError
			m.logger.Warn("plugin not loaded", "plugin", p.Name, "err", p.Error)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name, p.Error))
			continue
		}
		p.State = StateLoaded
		loaded[p.Name] = true
		m.logger.Debug("plugin loaded", "plugin", p.Name, "version", p.Manifest.Version,
			"commands", len(p.Manifest.Commands))
	}

	m.mu.Lock()
	m.plugins = ordered
	m.mu.Unlock()

	if len(errs) > 0 {
		return fmt.Errorf("failed to load %d plugins: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

func (m *Manager) load(rt Runtime, reg *cmds.Registry, p *PluginInfo) error {
	if err := defineCommands(reg, p.Manifest); err != nil {
		return err
	}
	if err := rt.DoFile(p.Manifest.MainPath()); err != nil {
		return fmt.Errorf("running %s: %w", p.Manifest.Main, err)
	}
	return nil
}

// ApplyCommands defines the commands of every loaded plugin again, for use
// after the registry's user commands were cleared.
func (m *Manager) ApplyCommands(reg *cmds.Registry) error {
	var errs []error
	for _, p := range m.Loaded() {
		if err := defineCommands(reg, p.Manifest); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
		}
	}
	return errors.Join(errs...)
}

func checkLoaded(manifest *Manifest, loaded map[string]bool) error {
	for _, dep := range manifest.Dependencies {
		if !loaded[dep] {
			return fmt.Errorf("%w: %s failed", ErrDependencyNotFound, dep)
		}
	}
	return nil
}

func defineCommands(reg *cmds.Registry, manifest *Manifest) error {
	for _, name := range manifest.CommandNames() {
		if err := reg.AddUser(name, manifest.Commands[name]); err != nil {
			return fmt.Errorf("defining %q: %w", name, err)
		}
	}
	return nil
}

// List returns every plugin seen by the last LoadAll, in load order.
func (m *Manager) List() []*PluginInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*PluginInfo, len(m.plugins))
	copy(list, m.plugins)
	return list
}

// Loaded returns the plugins that loaded successfully, in load order.
func (m *Manager) Loaded() []*PluginInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var loaded []*PluginInfo
	for _, p := range m.plugins {
		if p.State == StateLoaded {
			loaded = append(loaded, p)
		}
	}
	return loaded
}

// Errors returns the failure of every plugin that did not load.
func (m *Manager) Errors() map[string]error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	errs := make(map[string]error)
	for _, p := range m.plugins {
		if p.Error != nil {
			errs[p.Name] = p.Error
		}
	}
	return errs
}

// resolveOrder sorts plugins so that dependencies come first. Plugins whose
// dependencies cannot be satisfied get Error set and stay in the result.
func resolveOrder(plugins []*PluginInfo) []*PluginInfo {
	const (
		visiting = iota + 1
		done
	)

	byName := make(map[string]*PluginInfo, len(plugins))
	for _, p := range plugins {
		byName[p.Name] = p
	}
	marks := make(map[string]int, len(plugins))
	order := make([]*PluginInfo, 0, len(plugins))

	var visit func(p *PluginInfo) error
	visit = func(p *PluginInfo) error {
		switch marks[p.Name] {
		case done:
			return p.Error
		case visiting:
			return fmt.Errorf("%w: %s", ErrCyclicDependency, p.Name)
		}

		marks[p.Name] = visiting
		if p.Error == nil {
			for _, dep := range p.Manifest.Dependencies {
				d, ok := byName[dep]
				if !ok {
					p.Error = fmt.Errorf("%w: %s", ErrDependencyNotFound, dep)
					break
				}
				if err := visit(d); err != nil {
					if errors.Is(err, ErrCyclicDependency) {
						p.Error = err
					} else {
						p.Error = fmt.Errorf("%w: %s failed", ErrDependencyNotFound, dep)
					}
					break
				}
			}
		}
		marks[p.Name] = done
		order = append(order, p)
		return p.Error
	}

	for _, p := range plugins {
		_ = visit(p)
	}
	return order
}
