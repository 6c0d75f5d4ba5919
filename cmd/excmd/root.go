package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/excmd/internal/config"
)

// options holds the flags shared by every subcommand.
type options struct {
	configPath string
	logLevel   string
	lines      string
	noWatch    bool
	noScripts  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "excmd",
		Short: "An ex-style command line",
		Long: `excmd reads ex-style command lines such as ":%d!", ":s/a/b/g" or
":command ll !ls -l" and runs them against a small line-oriented host.

Without a subcommand it starts an interactive prompt. User commands come
from the [commands] table of the configuration file and from Lua scripts.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return runREPL(cmd.Context(), cfg, opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "configuration file (default "+config.DefaultPath()+")")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVar(&opts.lines, "lines", "", "line extent as first,current,last (1-based)")
	flags.BoolVar(&opts.noWatch, "no-watch", false, "do not reload the configuration file when it changes")
	flags.BoolVar(&opts.noScripts, "no-scripts", false, "skip the Lua scripts and plugins listed in the configuration")

	root.AddCommand(newExecCmd(opts), newParseCmd(opts))
	return root
}

// load reads the configuration and applies flag overrides.
func (o *options) load() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.lines != "" {
		lines, err := parseLinesFlag(o.lines)
		if err != nil {
			return nil, err
		}
		cfg.Lines = lines
	}
	if o.noScripts {
		cfg.Scripts.Files = nil
		cfg.Scripts.Dirs = nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseLinesFlag parses "first,current,last" or a bare line count.
func parseLinesFlag(s string) (config.LinesConfig, error) {
	parts := strings.Split(s, ",")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 {
			return config.LinesConfig{}, fmt.Errorf("--lines: %q is not a line number", p)
		}
		nums[i] = n - 1
	}

	switch len(nums) {
	case 1:
		return config.LinesConfig{First: 0, Current: 0, Last: nums[0]}, nil
	case 3:
		return config.LinesConfig{First: nums[0], Current: nums[1], Last: nums[2]}, nil
	default:
		return config.LinesConfig{}, fmt.Errorf("--lines: want N or first,current,last, got %q", s)
	}
}
