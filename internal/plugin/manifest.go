package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/excmd/internal/cmds"
)

// ManifestFile is the name of the manifest inside a plugin directory.
const ManifestFile = "plugin.toml"

// Manifest describes a plugin.
type Manifest struct {
	// Name is the unique identifier (e.g. "git-tools").
	Name string `toml:"name"`

	// Version is a semantic version (e.g. "1.2.0").
	Version string `toml:"version"`

	Description string `toml:"description"`
	Author      string `toml:"author"`

	// Main is the Lua file run on load, relative to the plugin directory.
	Main string `toml:"main"`

	// Dependencies are plugins that must be loaded first.
	Dependencies []string `toml:"dependencies"`

	// Commands are user commands the plugin defines, name to body.
	Commands map[string]string `toml:"commands"`

	path string
}

// Validation errors.
var (
	ErrMissingName        = errors.New("manifest: name is required")
	ErrInvalidName        = errors.New("manifest: name must be lowercase alphanumeric with hyphens")
	ErrInvalidVersion     = errors.New("manifest: version must be valid semver")
	ErrInvalidMain        = errors.New("manifest: main must be a .lua file")
	ErrInvalidCommand     = errors.New("manifest: invalid command name")
	ErrSelfDependency     = errors.New("manifest: plugin depends on itself")
	ErrUnknownManifestKey = errors.New("manifest: unknown key")
)

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$|^[a-z]$`)

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)

// LoadManifest reads and validates a plugin.toml. Unknown keys are errors so
// that typos do not silently drop settings.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	defer f.Close()

	var m Manifest
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownManifestKey, strict.String())
		}
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	m.path = filepath.Dir(path)
	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// NewManifestMinimal creates the manifest of a plugin that has none.
func NewManifestMinimal(name, path string) *Manifest {
	return &Manifest{
		Name:    name,
		Version: "0.0.0",
		Main:    "init.lua",
		path:    path,
	}
}

func (m *Manifest) applyDefaults() {
	if m.Main == "" {
		m.Main = "init.lua"
	}
	if m.Version == "" {
		m.Version = "0.0.0"
	}
}

// Validate checks the manifest fields.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return ErrMissingName
	}
	if !namePattern.MatchString(m.Name) {
		return fmt.Errorf("%w: %s", ErrInvalidName, m.Name)
	}
	if !semverPattern.MatchString(m.Version) {
		return fmt.Errorf("%w: %s", ErrInvalidVersion, m.Version)
	}
	if filepath.Ext(m.Main) != ".lua" {
		return fmt.Errorf("%w: %s", ErrInvalidMain, m.Main)
	}
	for _, dep := range m.Dependencies {
		if dep == m.Name {
			return fmt.Errorf("%w: %s", ErrSelfDependency, m.Name)
		}
	}
	for _, name := range m.CommandNames() {
		if !cmds.ValidUserName(name) {
			return fmt.Errorf("%w: %q", ErrInvalidCommand, name)
		}
	}
	return nil
}

// Path returns the plugin directory.
func (m *Manifest) Path() string {
	return m.path
}

// MainPath returns the full path of the main Lua file.
func (m *Manifest) MainPath() string {
	return filepath.Join(m.path, m.Main)
}

// CommandNames returns the contributed command names, sorted.
func (m *Manifest) CommandNames() []string {
	names := make([]string, 0, len(m.Commands))
	for name := range m.Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manifest) String() string {
	return fmt.Sprintf("%s v%s", m.Name, m.Version)
}
