package optimize

import "github.com/wordlang/wordc/ir"

// RedundantLoadElimination implements spec.md §4.4 pass 5: a block-local
// list remembers every load_int/float/bool seen since the last control
// boundary; a later identical load is rewritten to an assign from the
// earlier temp.
type RedundantLoadElimination struct{}

func (RedundantLoadElimination) Name() string { return "redundant-load-elimination" }
func (RedundantLoadElimination) Description() string {
	return "rewrites a repeated literal load to an assign from the earlier temp"
}

type seenLoad struct {
	op    ir.Opcode
	value ir.Operand
	temp  ir.Operand
}

func isControlBoundary(op ir.Opcode) bool {
	switch op {
	case ir.OpLabel, ir.OpFuncBegin, ir.OpFuncEnd, ir.OpCall, ir.OpGoto, ir.OpIfGoto, ir.OpIfFalseGoto:
		return true
	default:
		return false
	}
}

func (RedundantLoadElimination) Apply(fn *ir.Function) int {
	changed := 0
	var seen []seenLoad

	for i := fn.Instrs.Head(); i != nil; i = i.Next() {
		if isControlBoundary(i.Op) {
			seen = nil
			continue
		}
		switch i.Op {
		case ir.OpLoadInt, ir.OpLoadFloat, ir.OpLoadBool:
			var match *seenLoad
			for idx := range seen {
				if seen[idx].op == i.Op && seen[idx].value.Equal(i.Arg1) {
					match = &seen[idx]
					break
				}
			}
			if match != nil {
				setAssign(i, match.temp)
				changed++
			} else if i.Result.Kind == ir.OperandTemp {
				seen = append(seen, seenLoad{op: i.Op, value: i.Arg1, temp: i.Result})
			}
		}
	}
	return changed
}
