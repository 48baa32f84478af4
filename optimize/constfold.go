package optimize

import (
	"math"

	"github.com/wordlang/wordc/ir"
)

// ConstantFolding implements spec.md §4.4 pass 2: binary/unary ops over
// literal operands are evaluated at compile time and rewritten to a load.
type ConstantFolding struct{}

func (ConstantFolding) Name() string { return "constant-folding" }
func (ConstantFolding) Description() string {
	return "evaluates binary/unary ops over literal operands at compile time"
}

func asFloat(o ir.Operand) (float64, bool) {
	switch o.Kind {
	case ir.OperandInt:
		return float64(o.IntVal), true
	case ir.OperandFloat:
		return o.FltVal, true
	default:
		return 0, false
	}
}

func bothInt(a, b ir.Operand) bool {
	return a.Kind == ir.OperandInt && b.Kind == ir.OperandInt
}

func (ConstantFolding) Apply(fn *ir.Function) int {
	changed := 0
	for i := fn.Instrs.Head(); i != nil; i = i.Next() {
		if foldBinary(i) || foldUnary(i) {
			changed++
		}
	}
	return changed
}

func foldBinary(i *ir.Instruction) bool {
	a, b := i.Arg1, i.Arg2
	switch i.Op {
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpMod, ir.OpPow:
		af, aok := asFloat(a)
		bf, bok := asFloat(b)
		if !aok || !bok {
			return false
		}
		if (i.Op == ir.OpDiv || i.Op == ir.OpMod) && bf == 0 {
			return false // safety preserved: never fold a division by zero
		}
		if bothInt(a, b) {
			ai, bi := a.IntVal, b.IntVal
			switch i.Op {
			case ir.OpAdd:
				setLoadInt(i, ai+bi)
			case ir.OpSub:
				setLoadInt(i, ai-bi)
			case ir.OpMul:
				setLoadInt(i, ai*bi)
			case ir.OpDiv:
				setLoadInt(i, ai/bi)
			case ir.OpMod:
				setLoadInt(i, ai%bi)
			case ir.OpPow:
				if bi >= 0 {
					setLoadInt(i, intPow(ai, bi))
				} else {
					setLoadFloat(i, math.Pow(af, bf))
				}
			}
			return true
		}
		switch i.Op {
		case ir.OpAdd:
			setLoadFloat(i, af+bf)
		case ir.OpSub:
			setLoadFloat(i, af-bf)
		case ir.OpMul:
			setLoadFloat(i, af*bf)
		case ir.OpDiv:
			setLoadFloat(i, af/bf)
		case ir.OpMod:
			return false // mod is always integer per the language's type rules
		case ir.OpPow:
			setLoadFloat(i, math.Pow(af, bf))
		}
		return true

	case ir.OpEq, ir.OpNeq, ir.OpLt, ir.OpGt, ir.OpLte, ir.OpGte:
		af, aok := asFloat(a)
		bf, bok := asFloat(b)
		if !aok || !bok {
			return false
		}
		var r bool
		switch i.Op {
		case ir.OpEq:
			r = af == bf
		case ir.OpNeq:
			r = af != bf
		case ir.OpLt:
			r = af < bf
		case ir.OpGt:
			r = af > bf
		case ir.OpLte:
			r = af <= bf
		case ir.OpGte:
			r = af >= bf
		}
		setLoadBool(i, r)
		return true

	case ir.OpAnd, ir.OpOr:
		if a.Kind != ir.OperandBool || b.Kind != ir.OperandBool {
			return false
		}
		var r bool
		if i.Op == ir.OpAnd {
			r = a.Bool && b.Bool
		} else {
			r = a.Bool || b.Bool
		}
		setLoadBool(i, r)
		return true
	}
	return false
}

func foldUnary(i *ir.Instruction) bool {
	switch i.Op {
	case ir.OpNeg:
		switch i.Arg1.Kind {
		case ir.OperandInt:
			setLoadInt(i, -i.Arg1.IntVal)
			return true
		case ir.OperandFloat:
			setLoadFloat(i, -i.Arg1.FltVal)
			return true
		}
	case ir.OpNot:
		if i.Arg1.Kind == ir.OperandBool {
			setLoadBool(i, !i.Arg1.Bool)
			return true
		}
	}
	return false
}

func setLoadInt(i *ir.Instruction, v int64) {
	i.Op = ir.OpLoadInt
	i.Arg1 = ir.Int(v)
	i.Arg2 = ir.None
	i.Arg3 = ir.None
}

func setLoadFloat(i *ir.Instruction, v float64) {
	i.Op = ir.OpLoadFloat
	i.Arg1 = ir.Float(v)
	i.Arg2 = ir.None
	i.Arg3 = ir.None
}

func setLoadBool(i *ir.Instruction, v bool) {
	i.Op = ir.OpLoadBool
	i.Arg1 = ir.Bool(v)
	i.Arg2 = ir.None
	i.Arg3 = ir.None
}

func intPow(base, exp int64) int64 {
	var r int64 = 1
	for ; exp > 0; exp-- {
		r *= base
	}
	return r
}
