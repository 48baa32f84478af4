// Command wordc compiles Word source files to portable C (spec.md §6
// "External Interfaces") via build, run, and check subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/wordlang/wordc/optimize"
)

const usageText = `wordc — Word-to-C compiler

USAGE:
    wordc <command> [options] <file.word>

COMMANDS:
    build    Compile a Word source file to C (and optionally a binary)
    run      Compile and execute a Word source file
    check    Run the front end and semantic analyzer, report diagnostics only

OPTIONS:
    -o, --output <path>   Emitted C file path (default: basename + .c)
    -O, --optimize <N>    Optimization level 0, 1, or 2 (default 1)
    -c, --compile         Invoke the host C compiler to produce a binary
    -k, --keep            Keep the intermediate C file when compiling
    -v, --verbose         Show phase-by-phase compile progress
        --comments        Emit a build-id comment in the C output (no per-pass annotations)
    -h, --help            Show this help message

EXAMPLES:
    wordc build hello.word
    wordc build -O 2 -c -o hello.c hello.word
    wordc run hello.word
    wordc check hello.word
`

func printUsage() {
	_, _ = fmt.Fprint(os.Stderr, usageText)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the testable entry point: it never calls os.Exit itself, it
// returns the process exit code (spec.md §6: "0 on success; 1 on user
// error or pipeline failure; propagated child-process exit status on
// run").
func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "-h", "--help":
		printUsage()
		return 0
	case "build":
		return runBuild(args[1:])
	case "run":
		return runRun(args[1:])
	case "check":
		return runCheck(args[1:])
	default:
		_, _ = fmt.Fprintf(os.Stderr, "wordc: unknown command %q\n\n", args[0])
		printUsage()
		return 1
	}
}

// parsedFlags holds the values shared by build/run/check after their
// respective flag.FlagSet is parsed.
type parsedFlags struct {
	opts       options
	sourcePath string
}

func parseCommonFlags(cmdName string, args []string) (*parsedFlags, int, bool) {
	fs := newFlagSet(cmdName)

	output := fs.String("output", "", "emitted C file path")
	fs.StringVar(output, "o", "", "emitted C file path (shorthand)")

	optLevel := fs.Int("optimize", 1, "optimization level 0, 1, or 2")
	fs.IntVar(optLevel, "O", 1, "optimization level (shorthand)")

	compile := fs.Bool("compile", false, "invoke the host C compiler")
	fs.BoolVar(compile, "c", false, "invoke the host C compiler (shorthand)")

	keep := fs.Bool("keep", false, "keep the intermediate C file")
	fs.BoolVar(keep, "k", false, "keep the intermediate C file (shorthand)")

	verbose := fs.Bool("verbose", false, "show phase-by-phase progress")
	fs.BoolVar(verbose, "v", false, "show phase-by-phase progress (shorthand)")

	comments := fs.Bool("comments", false, "emit a build-id comment in the C output")

	help := fs.Bool("help", false, "show this help message")
	fs.BoolVar(help, "h", false, "show this help message (shorthand)")

	if err := fs.Parse(args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "wordc %s: %s\n", cmdName, err)
		return nil, 1, false
	}
	if *help {
		printUsage()
		return nil, 0, false
	}

	if *optLevel < 0 || *optLevel > 2 {
		_, _ = fmt.Fprintf(os.Stderr, "wordc: --optimize must be 0, 1, or 2, got %d\n", *optLevel)
		return nil, 1, false
	}

	rest := fs.Args()
	if len(rest) != 1 {
		_, _ = fmt.Fprintf(os.Stderr, "wordc %s: expected exactly one source file, got %d\n", cmdName, len(rest))
		return nil, 1, false
	}

	return &parsedFlags{
		opts: options{
			output:   *output,
			optLevel: optimize.Level(*optLevel),
			compile:  *compile,
			keep:     *keep,
			verbose:  *verbose,
			comments: *comments,
		},
		sourcePath: rest[0],
	}, 0, true
}
