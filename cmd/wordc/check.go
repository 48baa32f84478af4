package main

import (
	"fmt"
	"os"

	"github.com/wordlang/wordc/lexer"
	"github.com/wordlang/wordc/parser"
	"github.com/wordlang/wordc/semantic"
)

// runCheck implements `wordc check`: run the front end and semantic
// analyzer only, reporting diagnostics without emitting C.
func runCheck(args []string) int {
	flags, code, ok := parseCommonFlags("check", args)
	if !ok {
		return code
	}

	src, err := os.ReadFile(flags.sourcePath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "wordc: %s\n", err)
		return 1
	}

	p := parser.New(lexer.New(string(src)))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			_, _ = fmt.Fprintln(os.Stderr, e)
		}
		return 1
	}

	analyzer := semantic.New()
	result := analyzer.Analyze(program)
	for _, w := range analyzer.SymbolTable().Warnings() {
		_, _ = fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if !result.Success {
		for _, e := range analyzer.SymbolTable().Errors() {
			_, _ = fmt.Fprintln(os.Stderr, e)
		}
		return 1
	}

	_, _ = fmt.Fprintf(os.Stdout, "ok: %d warning(s)\n", result.Warnings)
	return 0
}
