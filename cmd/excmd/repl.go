package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/term"

	"github.com/dshills/excmd/internal/cmds/linerange"
	"github.com/dshills/excmd/internal/config"
)

// prompt is shown before each line on a terminal.
const prompt = ":"

// runREPL reads command lines from in until EOF or :quit. A terminal gets
// line editing, history and tab completion of command names.
func runREPL(ctx context.Context, cfg *config.Config, opts *options, in io.Reader, out, errOut io.Writer) error {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return runTerminal(ctx, cfg, opts, f, out)
	}

	a, err := newApp(ctx, cfg, out, errOut)
	if err != nil {
		return err
	}
	defer a.close()
	if !opts.noWatch {
		a.watch(opts.load)
	}

	scanner := bufio.NewScanner(in)
	for !a.quit && scanner.Scan() {
		a.applyReload()
		a.execute(scanner.Text())
	}
	return scanner.Err()
}

func runTerminal(ctx context.Context, cfg *config.Config, opts *options, f *os.File, out io.Writer) error {
	fd := int(f.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, state) }()

	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{f, out}, prompt)
	if w, h, err := term.GetSize(fd); err == nil {
		_ = t.SetSize(w, h)
	}

	a, err := newApp(ctx, cfg, t, t)
	if err != nil {
		return err
	}
	defer a.close()
	t.AutoCompleteCallback = a.complete
	if !opts.noWatch {
		a.watch(opts.load)
	}

	for !a.quit {
		line, err := t.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		a.applyReload()
		a.execute(line)
	}
	return nil
}

// complete extends a partial command name on tab. Ranges and leading colons
// before the name are left alone.
func (a *app) complete(line string, pos int, key rune) (string, int, bool) {
	if key != '\t' {
		return "", 0, false
	}

	head := line[:pos]
	s := strings.TrimLeftFunc(head, func(r rune) bool { return r == ':' || unicode.IsSpace(r) })
	_, rest, err := linerange.Parse(s, a.buf)
	if err != nil {
		return "", 0, false
	}
	for _, r := range rest {
		if !unicode.IsLetter(r) {
			return "", 0, false
		}
	}

	names := a.engine.Registry().Complete(rest)
	if len(names) == 0 {
		return "", 0, false
	}
	completion := commonPrefix(names)
	if len(names) == 1 {
		completion += " "
	}

	start := pos - len(rest)
	return line[:start] + completion + line[pos:], start + len(completion), true
}

func commonPrefix(names []string) string {
	prefix := names[0]
	for _, name := range names[1:] {
		for !strings.HasPrefix(name, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
