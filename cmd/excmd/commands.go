package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/excmd/internal/cmds"
)

func newExecCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "exec LINE...",
		Short: "Run command lines and exit",
		Long: `Run each argument as a command line, in order. Lines after a failing one
still run. The exit status is non-zero when any line failed.`,
		Example: `  excmd exec 'command ll !ls -l' ll
  excmd --lines 1,5,20 exec '3,$d' ''`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()
			return a.executeAll(args)
		},
	}
}

// executeAll runs lines until :quit and joins the failures.
func (a *app) executeAll(lines []string) error {
	var errs []error
	for _, line := range lines {
		if a.quit {
			break
		}
		if code := a.execute(line); code != 0 {
			errs = append(errs, fmt.Errorf("%q exited with status %d", line, code))
		}
	}
	return errors.Join(errs...)
}

func newParseCmd(opts *options) *cobra.Command {
	var indent bool

	cmd := &cobra.Command{
		Use:   "parse LINE",
		Short: "Print how a command line resolves, as JSON",
		Long: `Resolve a command line without running it and print the matched command,
its range, modifiers and arguments as a JSON object. A line that does not
parse prints an object with an "error" member instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()
			return a.writeParse(cmd.OutOrStdout(), args[0], indent)
		},
	}
	cmd.Flags().BoolVar(&indent, "pretty", false, "indent the JSON output")
	return cmd
}

func (a *app) writeParse(w io.Writer, line string, indent bool) error {
	doc, err := a.parseJSON(line)
	if err != nil {
		return err
	}
	out := []byte(doc)
	if indent {
		out = pretty.Pretty(out)
	} else {
		out = append(out, '\n')
	}
	_, err = w.Write(out)
	return err
}

// parseJSON describes the resolution of line as a JSON document.
func (a *app) parseJSON(line string) (string, error) {
	cmd, ctx, perr := a.engine.Parse(line)
	if perr != nil {
		code := cmds.Code(perr)
		return setAll("", []field{
			{"error.code", int(code)},
			{"error.message", code.String()},
			{"error.detail", perr.Error()},
		})
	}

	args := ctx.Args
	if args == nil {
		args = []string{}
	}
	sep := ""
	if ctx.Sep != 0 {
		sep = string(ctx.Sep)
	}
	return setAll("", []field{
		{"name", cmd.Name},
		{"kind", cmd.Kind.String()},
		{"flags", cmd.Flags.String()},
		{"range.given", ctx.HasRange},
		{"range.begin", ctx.Begin},
		{"range.end", ctx.End},
		{"emark", ctx.Emark},
		{"qmark", ctx.Qmark},
		{"bg", ctx.Bg},
		{"args", args},
		{"raw", ctx.RawArgs},
		{"sep", sep},
		{"cmd", ctx.Cmd},
	})
}

type field struct {
	path  string
	value any
}

func setAll(doc string, fields []field) (string, error) {
	var err error
	for _, f := range fields {
		if doc, err = sjson.Set(doc, f.path, f.value); err != nil {
			return "", fmt.Errorf("encoding %s: %w", f.path, err)
		}
	}
	return doc, nil
}
