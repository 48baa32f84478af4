package optimize

import "github.com/wordlang/wordc/ir"

// StrengthReduction implements spec.md §4.4 pass 4: replaces a multiply by
// two with an add, and a square with a self-multiply.
type StrengthReduction struct{}

func (StrengthReduction) Name() string { return "strength-reduction" }
func (StrengthReduction) Description() string {
	return "rewrites x*2 to x+x and x^2 to x*x"
}

func (StrengthReduction) Apply(fn *ir.Function) int {
	changed := 0
	for i := fn.Instrs.Head(); i != nil; i = i.Next() {
		a, b := i.Arg1, i.Arg2
		switch i.Op {
		case ir.OpMul:
			switch {
			case isNumConst(b, 2):
				i.Op = ir.OpAdd
				i.Arg2 = a
				changed++
			case isNumConst(a, 2):
				i.Op = ir.OpAdd
				i.Arg1 = b
				i.Arg2 = b
				changed++
			}
		case ir.OpPow:
			if isNumConst(b, 2) {
				i.Op = ir.OpMul
				i.Arg2 = a
				changed++
			}
		}
	}
	return changed
}
