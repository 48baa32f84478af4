package main

import (
	"fmt"
	"os"
)

// runBuild implements `wordc build`: compile to C, optionally invoke
// the host C compiler to produce a binary (spec.md §6).
func runBuild(args []string) int {
	flags, code, ok := parseCommonFlags("build", args)
	if !ok {
		return code
	}

	result, binPath, exitCode, ok := compileAndMaybeLink("Compiling", flags.sourcePath, flags.opts)
	if !ok {
		return exitCode
	}

	if flags.opts.compile {
		_, _ = fmt.Fprintf(os.Stdout, "wrote %s\n", binPath)
	} else {
		_, _ = fmt.Fprintf(os.Stdout, "wrote %s\n", outputPathFor(flags.sourcePath, flags.opts))
	}
	if len(result.warnings) > 0 {
		for _, w := range result.warnings {
			_, _ = fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
	}
	return 0
}

// compileAndMaybeLink runs the shared pipeline (with or without the
// verbose Bubble Tea progress display), writes the emitted C file, and
// when opts.compile is set, invokes the host C compiler. It reports
// its own diagnostics and returns a process exit code via ok=false.
func compileAndMaybeLink(label, path string, opts options) (result *pipelineResult, binPath string, exitCode int, ok bool) {
	var err error
	if opts.verbose {
		result, err = runWithProgress(label, path, opts)
	} else {
		result, err = compile(path, opts, func(phase, string) {})
	}
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "wordc: %s\n", err)
		return nil, "", 1, false
	}
	if result.failed {
		for _, d := range result.diagnostics {
			_, _ = fmt.Fprintln(os.Stderr, d)
		}
		return nil, "", 1, false
	}

	cPath := outputPathFor(path, opts)
	if err := os.WriteFile(cPath, []byte(result.cSource), 0o644); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "wordc: writing %s: %s\n", cPath, err)
		return nil, "", 1, false
	}

	if !opts.compile {
		return result, "", 0, true
	}

	bin := binaryPathFor(cPath)
	if err := invokeCC(cPath, bin); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "wordc: %s\n", err)
		return nil, "", 1, false
	}
	if !opts.keep {
		_ = os.Remove(cPath)
	}
	return result, bin, 0, true
}
