// Package optimize implements Word's six-pass TAC optimizer and its
// fixpoint driver (spec.md §4.4).
//
// The Pass interface and Pipeline driver are grounded on the retrieved
// pack's kanso-lang-kanso internal/ir optimizations file: an
// OptimizationPass interface with Name/Apply/Description, run in sequence
// by a pipeline that reports whether anything changed. Here Apply runs
// per-function (not per-program) and returns a change count rather than a
// bool, since the driver needs per-iteration statistics (spec.md: "each
// pass... returns the number of transformations it made").
package optimize

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/wordlang/wordc/ir"
)

// maxFixpointIterations bounds the driver per spec.md §4.4.
const maxFixpointIterations = 10

// Pass is a single optimization transformation over one function.
type Pass interface {
	Name() string
	Description() string
	Apply(fn *ir.Function) int // returns the number of transformations made
}

// Level selects which passes run (spec.md §4.4 "Pass levels").
type Level int

//nolint:revive
const (
	Level0 Level = iota // no passes run
	Level1              // constant folding + dead code elimination
	Level2              // all six passes
)

// Stats aggregates one optimization run's counters.
type Stats struct {
	PassCounts       map[string]int
	Iterations       int
	InstructionsBefore int
	InstructionsAfter  int
}

// Pipeline runs an ordered list of passes to a fixpoint, then sweeps dead
// instructions.
type Pipeline struct {
	passes []Pass
}

// NewPipeline builds the pipeline for the given optimization level.
func NewPipeline(level Level) *Pipeline {
	p := &Pipeline{}
	switch level {
	case Level0:
		// no passes
	case Level1:
		p.AddPass(&ConstantFolding{})
		p.AddPass(&DeadCodeElimination{})
	case Level2:
		p.AddPass(&ConstantPropagation{})
		p.AddPass(&ConstantFolding{})
		p.AddPass(&AlgebraicSimplification{})
		p.AddPass(&StrengthReduction{})
		p.AddPass(&RedundantLoadElimination{})
		p.AddPass(&DeadCodeElimination{})
	}
	return p
}

// AddPass appends a pass to the pipeline's run order.
func (p *Pipeline) AddPass(pass Pass) { p.passes = append(p.passes, pass) }

// Run optimizes every function in prog to a fixpoint and sweeps dead
// instructions, returning aggregate statistics.
func (p *Pipeline) Run(prog *ir.Program) Stats {
	stats := Stats{PassCounts: make(map[string]int)}
	for _, fn := range prog.AllFunctions() {
		stats.InstructionsBefore += fn.Instrs.Len()
	}

	for iter := 0; iter < maxFixpointIterations; iter++ {
		stats.Iterations++
		sweepChanged := 0
		for _, fn := range prog.AllFunctions() {
			for _, pass := range p.passes {
				n := pass.Apply(fn)
				stats.PassCounts[pass.Name()] += n
				sweepChanged += n
			}
		}
		if sweepChanged == 0 {
			break
		}
	}

	for _, fn := range prog.AllFunctions() {
		Sweep(fn)
	}
	for _, fn := range prog.AllFunctions() {
		stats.InstructionsAfter += fn.Instrs.Len()
	}
	return stats
}

// Summary renders a one-line human-readable report of a Stats value, used
// by the driver's verbose and --comments output.
func (s Stats) Summary() string {
	removed := s.InstructionsBefore - s.InstructionsAfter
	return fmt.Sprintf("%s instructions -> %s (%s removed) over %s iteration(s)",
		humanize.Comma(int64(s.InstructionsBefore)),
		humanize.Comma(int64(s.InstructionsAfter)),
		humanize.Comma(int64(removed)),
		humanize.Comma(int64(s.Iterations)))
}

// Sweep unlinks and discards every instruction marked dead, maintaining
// the doubly linked list (spec.md §4.4 "Sweep pass").
func Sweep(fn *ir.Function) int {
	removed := 0
	for i := fn.Instrs.Head(); i != nil; {
		next := i.Next()
		if i.IsDead {
			fn.Instrs.Unlink(i)
			removed++
		}
		i = next
	}
	return removed
}
