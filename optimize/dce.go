package optimize

import "github.com/wordlang/wordc/ir"

// DeadCodeElimination implements spec.md §4.4 pass 6: an instruction is
// marked dead when its result is a temp with no side effect and that temp
// is not read by any other non-dead instruction in the function. The use
// set is built over the whole function first, so a use on either side of
// a loop back-edge is accounted for.
type DeadCodeElimination struct{}

func (DeadCodeElimination) Name() string { return "dead-code-elimination" }
func (DeadCodeElimination) Description() string {
	return "marks unused, non-side-effecting temp-producing instructions dead"
}

func (DeadCodeElimination) Apply(fn *ir.Function) int {
	used := make(map[int]bool)
	for i := fn.Instrs.Head(); i != nil; i = i.Next() {
		if i.IsDead {
			continue
		}
		for _, arg := range [...]ir.Operand{i.Arg1, i.Arg2, i.Arg3} {
			if arg.Kind == ir.OperandTemp {
				used[arg.TempID] = true
			}
		}
	}

	changed := 0
	for i := fn.Instrs.Head(); i != nil; i = i.Next() {
		if i.IsDead || i.Op.SideEffecting() {
			continue
		}
		if i.Result.Kind != ir.OperandTemp {
			continue
		}
		if !used[i.Result.TempID] {
			i.IsDead = true
			changed++
		}
	}
	return changed
}
