package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// shellFailed is returned when a shell line cannot be parsed or started.
const shellFailed = 127

// shell runs src with the in-process POSIX interpreter and returns its exit
// status. A background run returns 0 at once and is waited for on close.
func (a *app) shell(src string, background bool) int {
	prog, err := syntax.NewParser().Parse(strings.NewReader(src), "")
	if err != nil {
		fmt.Fprintf(a.errOut, "!: %v\n", err)
		return shellFailed
	}

	runner, err := interp.New(
		interp.StdIO(nil, a.out, a.errOut),
		interp.Env(expand.ListEnviron(os.Environ()...)),
	)
	if err != nil {
		fmt.Fprintf(a.errOut, "!: %v\n", err)
		return shellFailed
	}

	if !background {
		return a.runShell(runner, prog)
	}

	a.bg.Add(1)
	n := a.jobs.Add(1)
	a.logger.Debug("background command started", "cmd", src, "jobs", n)
	go func() {
		defer a.bg.Done()
		defer a.jobs.Add(-1)
		code := a.runShell(runner, prog)
		a.logger.Info("background command finished", "cmd", src, "status", code)
	}()
	return 0
}

func (a *app) runShell(runner *interp.Runner, prog *syntax.File) int {
	err := runner.Run(a.ctx, prog)
	if err == nil {
		return 0
	}
	var status interp.ExitStatus
	if errors.As(err, &status) {
		return int(status)
	}
	fmt.Fprintf(a.errOut, "!: %v\n", err)
	return shellFailed
}
