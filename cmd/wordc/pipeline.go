package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wordlang/wordc/emitc"
	"github.com/wordlang/wordc/ir"
	"github.com/wordlang/wordc/lexer"
	"github.com/wordlang/wordc/lowering"
	"github.com/wordlang/wordc/optimize"
	"github.com/wordlang/wordc/parser"
	"github.com/wordlang/wordc/semantic"
)

// phase names the six (plus compile/run) stages the progress UI reports
// on; each corresponds to one step of the pipeline below.
type phase int

const (
	phaseLex phase = iota
	phaseParse
	phaseAnalyze
	phaseLower
	phaseOptimize
	phaseEmit
	phaseCompile
	phaseRun
)

func (p phase) String() string {
	switch p {
	case phaseLex:
		return "lex"
	case phaseParse:
		return "parse"
	case phaseAnalyze:
		return "analyze"
	case phaseLower:
		return "lower"
	case phaseOptimize:
		return "optimize"
	case phaseEmit:
		return "emit"
	case phaseCompile:
		return "compile"
	case phaseRun:
		return "run"
	default:
		return "?"
	}
}

// pipelineResult carries everything downstream driver commands need:
// the generated C source, the diagnostics accumulated along the way,
// and the optimizer stats for the verbose/--comments summary.
type pipelineResult struct {
	cSource      string
	buildID      string
	diagnostics  []string
	warnings     []string
	optimizeStat optimize.Stats
	failed       bool
	failedPhase  phase
}

// options mirrors the driver CLI's flags (spec.md §6 "Driver CLI").
type options struct {
	output   string
	optLevel optimize.Level
	compile  bool
	keep     bool
	verbose  bool
	comments bool
}

// compile runs the lex -> parse -> analyze -> lower -> optimize -> emit
// pipeline once, calling notify before each phase starts. It stops at
// the first phase that reports diagnostics rather than cascading
// failures downstream.
func compile(path string, opts options, notify func(phase, string)) (*pipelineResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	res := &pipelineResult{buildID: uuid.NewString()}

	notify(phaseLex, "scanning source")
	l := lexer.New(string(src))

	notify(phaseParse, "parsing")
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		res.diagnostics = append(res.diagnostics, errs...)
		res.failed = true
		res.failedPhase = phaseParse
		return res, nil
	}

	notify(phaseAnalyze, "checking types and scopes")
	analyzer := semantic.New()
	result := analyzer.Analyze(program)
	res.diagnostics = append(res.diagnostics, analyzer.SymbolTable().Errors()...)
	res.warnings = append(res.warnings, analyzer.SymbolTable().Warnings()...)
	if !result.Success {
		res.failed = true
		res.failedPhase = phaseAnalyze
		return res, nil
	}

	notify(phaseLower, "lowering to three-address code")
	irProg := lowering.New().Lower(program)

	notify(phaseOptimize, fmt.Sprintf("running optimizer at level %d", opts.optLevel))
	res.optimizeStat = optimize.NewPipeline(opts.optLevel).Run(irProg)

	notify(phaseEmit, "emitting C")
	emitOpts := emitc.Options{Comments: opts.comments, BuildID: res.buildID}
	cSrc, err := emit(irProg, emitOpts)
	if err != nil {
		res.failed = true
		res.failedPhase = phaseEmit
		res.diagnostics = append(res.diagnostics, err.Error())
		return res, nil
	}
	res.cSource = cSrc

	return res, nil
}

// emit is a thin wrapper around emitc.Emit.
func emit(prog *ir.Program, opts emitc.Options) (string, error) {
	return emitc.Emit(prog, opts)
}

// outputPathFor derives the default emitted-C path from the source
// path (spec.md §6: "-o/--output <path> (default derives basename +
// .c)") unless the user supplied one explicitly.
func outputPathFor(srcPath string, opts options) string {
	if opts.output != "" {
		return opts.output
	}
	base := filepath.Base(srcPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ".c"
}

// binaryPathFor derives the compiled binary's path from the emitted
// C path: same basename, extension stripped.
func binaryPathFor(cPath string) string {
	return strings.TrimSuffix(cPath, filepath.Ext(cPath))
}
