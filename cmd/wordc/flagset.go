package main

import (
	"flag"
	"io"
)

// newFlagSet builds a flag.FlagSet in the teacher's main.go style:
// long/short flag pairs bound to the same variable, errors reported by
// the caller rather than printed twice by the stdlib's default usage.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = printUsage
	return fs
}
