package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader discovers plugins in a list of directories.
type Loader struct {
	// Search paths, checked in order. The first plugin of a name wins.
	paths []string

	discovered map[string]*PluginInfo
}

// PluginInfo is what discovery learned about one plugin.
type PluginInfo struct {
	Name     string
	Path     string
	Manifest *Manifest
	State    State
	Error    error
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPaths sets the search paths.
func WithPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.paths = paths
	}
}

// NewLoader creates a loader. Without WithPaths it searches DefaultPluginPaths.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		paths:      DefaultPluginPaths(),
		discovered: make(map[string]*PluginInfo),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DefaultPluginPaths returns the user and project plugin directories.
func DefaultPluginPaths() []string {
	paths := make([]string, 0, 2)

	// User plugins: $XDG_CONFIG_HOME/excmd/plugins/
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "excmd", "plugins"))
	}

	// Project plugins: .excmd/plugins/
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".excmd", "plugins"))
	}

	return paths
}

// Paths returns the search paths.
func (l *Loader) Paths() []string {
	return l.paths
}

// Discover scans every search path and returns the plugins sorted by name.
// Missing directories are skipped. Plugins that cannot be used are returned
// with State set to StateError and Error describing why.
func (l *Loader) Discover() ([]*PluginInfo, error) {
	l.discovered = make(map[string]*PluginInfo)

	for _, basePath := range l.paths {
		if err := l.discoverInPath(basePath); err != nil {
			return nil, err
		}
	}

	plugins := make([]*PluginInfo, 0, len(l.discovered))
	for _, info := range l.discovered {
		plugins = append(plugins, info)
	}
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Name < plugins[j].Name
	})
	return plugins, nil
}

func (l *Loader) discoverInPath(basePath string) error {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("scanning %s: %w", basePath, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			if filepath.Ext(entry.Name()) == ".lua" {
				name := strings.TrimSuffix(entry.Name(), ".lua")
				l.addSingleFilePlugin(name, filepath.Join(basePath, entry.Name()))
			}
			continue
		}

		info := l.inspectPlugin(entry.Name(), filepath.Join(basePath, entry.Name()))
		if _, exists := l.discovered[info.Name]; !exists {
			l.discovered[info.Name] = info
		}
	}
	return nil
}

func (l *Loader) addSingleFilePlugin(name, luaPath string) {
	if _, exists := l.discovered[name]; exists {
		return
	}

	manifest := NewManifestMinimal(name, filepath.Dir(luaPath))
	manifest.Main = filepath.Base(luaPath)
	l.discovered[name] = &PluginInfo{
		Name:     name,
		Path:     filepath.Dir(luaPath),
		Manifest: manifest,
		State:    StateUnloaded,
	}
}

// inspectPlugin examines a plugin directory: plugin.toml first, then init.lua.
func (l *Loader) inspectPlugin(name, path string) *PluginInfo {
	info := &PluginInfo{
		Name:  name,
		Path:  path,
		State: StateUnloaded,
	}

	manifestPath := filepath.Join(path, ManifestFile)
	if _, err := os.Stat(manifestPath); err == nil {
		manifest, err := LoadManifest(manifestPath)
		if err != nil {
			info.Error = fmt.Errorf("invalid manifest: %w", err)
			info.State = StateError
			return info
		}
		info.Manifest = manifest
		info.Name = manifest.Name
		return info
	}

	if _, err := os.Stat(filepath.Join(path, "init.lua")); err == nil {
		info.Manifest = NewManifestMinimal(name, path)
		return info
	}

	info.Error = ErrNoEntryPoint
	info.State = StateError
	return info
}

// Get returns a discovered plugin by name.
func (l *Loader) Get(name string) (*PluginInfo, bool) {
	info, ok := l.discovered[name]
	return info, ok
}
