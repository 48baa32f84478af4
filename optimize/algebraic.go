package optimize

import "github.com/wordlang/wordc/ir"

// AlgebraicSimplification implements spec.md §4.4 pass 3: rewrites binary
// ops with an identity operand to a plain assign or a zero/one load.
type AlgebraicSimplification struct{}

func (AlgebraicSimplification) Name() string { return "algebraic-simplification" }
func (AlgebraicSimplification) Description() string {
	return "rewrites x+0, x-0, x*1, x^0 and similar identities"
}

func isNumConst(o ir.Operand, v float64) bool {
	switch o.Kind {
	case ir.OperandInt:
		return float64(o.IntVal) == v
	case ir.OperandFloat:
		return o.FltVal == v
	default:
		return false
	}
}

func setAssign(i *ir.Instruction, src ir.Operand) {
	i.Op = ir.OpAssign
	i.Arg1 = src
	i.Arg2 = ir.None
	i.Arg3 = ir.None
}

func (AlgebraicSimplification) Apply(fn *ir.Function) int {
	changed := 0
	for i := fn.Instrs.Head(); i != nil; i = i.Next() {
		a, b := i.Arg1, i.Arg2
		switch i.Op {
		case ir.OpAdd:
			switch {
			case isNumConst(b, 0):
				setAssign(i, a)
				changed++
			case isNumConst(a, 0):
				setAssign(i, b)
				changed++
			}
		case ir.OpSub:
			switch {
			case isNumConst(b, 0):
				setAssign(i, a)
				changed++
			case a.Kind == b.Kind && a.Equal(b):
				setLoadInt(i, 0)
				changed++
			}
		case ir.OpMul:
			switch {
			case isNumConst(a, 0) || isNumConst(b, 0):
				setLoadInt(i, 0)
				changed++
			case isNumConst(b, 1):
				setAssign(i, a)
				changed++
			case isNumConst(a, 1):
				setAssign(i, b)
				changed++
			}
		case ir.OpDiv:
			if isNumConst(b, 1) {
				setAssign(i, a)
				changed++
			}
		case ir.OpPow:
			switch {
			case isNumConst(b, 0):
				setLoadInt(i, 1)
				changed++
			case isNumConst(b, 1):
				setAssign(i, a)
				changed++
			}
		}
	}
	return changed
}
