package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/excmd/internal/cmds"
	"github.com/dshills/excmd/internal/cmds/linerange"
	"github.com/dshills/excmd/internal/config/loader"
)

// Log formats accepted in LoggingConfig.Format.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

// Config is the decoded configuration of the excmd host.
type Config struct {
	Logging  LoggingConfig     `toml:"logging"`
	Lines    LinesConfig       `toml:"lines"`
	Commands map[string]string `toml:"commands"`
	Scripts  ScriptsConfig     `toml:"scripts"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-"`
}

// LoggingConfig controls the logger built by package logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error, fatal.
	Level string `toml:"level"`

	// Prefix is printed before every message.
	Prefix string `toml:"prefix"`

	// Format is text, json or logfmt.
	Format string `toml:"format"`

	// Timestamps adds the time to every message.
	Timestamps bool `toml:"timestamps"`
}

// LinesConfig is the line extent ranges are resolved against. Lines are
// 0-based.
type LinesConfig struct {
	First   int `toml:"first"`
	Current int `toml:"current"`
	Last    int `toml:"last"`
}

// ScriptsConfig lists Lua scripts run at startup.
type ScriptsConfig struct {
	Files []string `toml:"files"`

	// Dirs are searched for plugins: single .lua files or directories with
	// a plugin.toml manifest or an init.lua.
	Dirs []string `toml:"dirs"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Prefix: "excmd",
			Format: FormatText,
		},
		Lines: LinesConfig{First: 0, Current: 0, Last: 99},
	}
}

// DefaultPath returns the user configuration file, $XDG_CONFIG_HOME/excmd/config.toml
// or its platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "excmd", "config.toml")
}

// Load reads path (any format loader.ForPath accepts), layers EXCMD_
// environment variables on top and validates the result. A missing file
// yields the defaults plus the environment.
func Load(path string) (*Config, error) {
	return LoadFS(loader.DefaultFS(), path, loader.NewEnvLoader(""))
}

// LoadFS is Load with an explicit file system and environment source. env may
// be nil.
func LoadFS(fsys loader.FileSystem, path string, env loader.Loader) (*Config, error) {
	merged := make(map[string]any)

	if path != "" {
		fl, err := loader.ForPath(fsys, path)
		if err != nil {
			return nil, err
		}
		var data map[string]any
		if tl, ok := fl.(*loader.TOMLLoader); ok {
			data, err = tl.LoadWithIncludes(path, maxIncludeDepth)
		} else {
			data, err = fl.Load()
		}
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	if env != nil {
		data, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg, err := FromMap(merged)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

const maxIncludeDepth = 8

// FromMap decodes a generic configuration map over the defaults.
func FromMap(m map[string]any) (*Config, error) {
	cfg := Default()
	if len(m) == 0 {
		return cfg, nil
	}

	// Loaders produce generic maps; a TOML round trip gives them the same
	// decoding rules as a TOML file.
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error

	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, &ValidationError{Path: "logging.level", Message: "unknown level", Value: c.Logging.Level})
	}
	switch c.Logging.Format {
	case FormatText, FormatJSON, FormatLogfmt:
	default:
		errs = append(errs, &ValidationError{Path: "logging.format", Message: "must be text, json or logfmt", Value: c.Logging.Format})
	}

	l := c.Lines
	if l.First < 0 {
		errs = append(errs, &ValidationError{Path: "lines.first", Message: "must not be negative", Value: l.First})
	}
	if l.Last < l.First {
		errs = append(errs, &ValidationError{Path: "lines.last", Message: "must not precede lines.first", Value: l.Last})
	}
	if l.Current < l.First || l.Current > l.Last {
		errs = append(errs, &ValidationError{Path: "lines.current", Message: "must lie between first and last", Value: l.Current})
	}

	for _, name := range c.commandNames() {
		if !cmds.ValidUserName(name) {
			errs = append(errs, &ValidationError{Path: "commands." + name, Message: "invalid command name", Value: name})
		}
	}

	return errors.Join(errs...)
}

// LineSource returns the configured extent as a range source.
func (c *Config) LineSource() linerange.Static {
	return linerange.Static{
		FirstLine:   c.Lines.First,
		CurrentLine: c.Lines.Current,
		LastLine:    c.Lines.Last,
	}
}

// ApplyCommands defines the [commands] table in reg, overwriting user commands
// of the same name. Other user commands are left alone. Names the registry
// refuses are skipped and reported together.
func (c *Config) ApplyCommands(reg *cmds.Registry) error {
	var errs []error
	for _, name := range c.commandNames() {
		if err := reg.AddUser(name, c.Commands[name]); err != nil {
			errs = append(errs, fmt.Errorf("commands.%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// RemoveCommands undefines the user commands that ApplyCommands defined from
// this configuration. A command redefined since with another body stays.
func (c *Config) RemoveCommands(reg *cmds.Registry) {
	for _, name := range c.commandNames() {
		cmd, ok := reg.Lookup(name)
		if ok && cmd.Kind == cmds.User && cmd.Body == c.Commands[name] {
			_ = reg.RemoveUser(name)
		}
	}
}

func (c *Config) commandNames() []string {
	names := make([]string, 0, len(c.Commands))
	for name := range c.Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
