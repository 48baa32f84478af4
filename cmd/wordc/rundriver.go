package main

import (
	"fmt"
	"os"
)

// runRun implements `wordc run`: compile, link, execute, and propagate
// the child process's exit status (spec.md §6).
func runRun(args []string) int {
	flags, code, ok := parseCommonFlags("run", args)
	if !ok {
		return code
	}
	flags.opts.compile = true

	_, binPath, exitCode, ok := compileAndMaybeLink("Compiling", flags.sourcePath, flags.opts)
	if !ok {
		return exitCode
	}

	status, err := runBinary(binPath, nil)
	if !flags.opts.keep {
		_ = os.Remove(binPath)
	}
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "wordc: running %s: %s\n", binPath, err)
		return 1
	}
	return status
}
