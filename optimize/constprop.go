package optimize

import "github.com/wordlang/wordc/ir"

// ConstantPropagation implements spec.md §4.4 pass 1: a block-local table
// mapping temp id to a known constant, invalidated at control boundaries.
type ConstantPropagation struct{}

func (ConstantPropagation) Name() string { return "constant-propagation" }
func (ConstantPropagation) Description() string {
	return "rewrites uses of a temp known to hold a literal with that literal"
}

func (ConstantPropagation) Apply(fn *ir.Function) int {
	changed := 0
	known := make(map[int]ir.Operand)

	isBoundary := func(op ir.Opcode) bool {
		switch op {
		case ir.OpLabel, ir.OpFuncBegin, ir.OpFuncEnd, ir.OpCall:
			return true
		default:
			return false
		}
	}

	substitute := func(arg *ir.Operand) {
		if arg.Kind == ir.OperandTemp {
			if c, ok := known[arg.TempID]; ok {
				*arg = c
				changed++
			}
		}
	}

	for i := fn.Instrs.Head(); i != nil; i = i.Next() {
		if isBoundary(i.Op) {
			known = make(map[int]ir.Operand)
			continue
		}

		substitute(&i.Arg1)
		substitute(&i.Arg2)
		substitute(&i.Arg3)

		if i.Result.Kind == ir.OperandTemp {
			delete(known, i.Result.TempID)
		}

		switch i.Op {
		case ir.OpLoadInt, ir.OpLoadFloat, ir.OpLoadBool:
			if i.Result.Kind == ir.OperandTemp {
				known[i.Result.TempID] = i.Arg1
			}
		}
	}
	return changed
}
