package emitc

import (
	"github.com/wordlang/wordc/ir"
	"github.com/wordlang/wordc/types"
)

// typeTable is the result of the type reification pre-pass: a temp_id ->
// Type table and a var_name -> Type table (spec.md §4.5 step 1).
type typeTable struct {
	temps map[int]types.Type
	vars  map[string]types.Type
}

func newTypeTable() *typeTable {
	return &typeTable{temps: make(map[int]types.Type), vars: make(map[string]types.Type)}
}

func (tt *typeTable) set(op ir.Operand, t types.Type) {
	switch op.Kind {
	case ir.OperandTemp:
		tt.temps[op.TempID] = t
	case ir.OperandVar:
		tt.vars[op.Name] = t
	}
}

// typeOf resolves an operand to its Type: a literal carries its type
// directly, a temp/var looks up the table, defaulting (via Go's zero
// Type{Kind: Number}) to Number for a var that was declared but never
// assigned — the same zero-value convention the emitter uses for temps.
func (tt *typeTable) typeOf(op ir.Operand) types.Type {
	switch op.Kind {
	case ir.OperandInt:
		return types.T(types.Number)
	case ir.OperandFloat:
		return types.T(types.Decimal)
	case ir.OperandString:
		return types.T(types.Text)
	case ir.OperandBool:
		return types.T(types.Flag)
	case ir.OperandTemp:
		return tt.temps[op.TempID]
	case ir.OperandVar:
		return tt.vars[op.Name]
	default:
		return types.T(types.Unknown)
	}
}

// reify runs the seed scan plus the assign-propagation scan for one
// function, given the whole program's function return-type table (used to
// type a call's result).
func reify(fn *ir.Function, funcReturns map[string]types.Type) *typeTable {
	tt := newTypeTable()
	for i, name := range fn.ParamNames {
		tt.vars[name] = fn.ParamTypes[i]
	}

	for i := fn.Instrs.Head(); i != nil; i = i.Next() {
		switch i.Op {
		case ir.OpLoadInt:
			tt.set(i.Result, types.T(types.Number))
		case ir.OpLoadFloat:
			tt.set(i.Result, types.T(types.Decimal))
		case ir.OpLoadString:
			tt.set(i.Result, types.T(types.Text))
		case ir.OpLoadBool:
			tt.set(i.Result, types.T(types.Flag))
		case ir.OpConcat, ir.OpAsk, ir.OpRead:
			tt.set(i.Result, types.T(types.Text))
		case ir.OpEq, ir.OpNeq, ir.OpLt, ir.OpGt, ir.OpLte, ir.OpGte,
			ir.OpAnd, ir.OpOr, ir.OpNot, ir.OpBetween:
			tt.set(i.Result, types.T(types.Flag))
		case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpNeg, ir.OpPow:
			tt.set(i.Result, types.Promote(tt.typeOf(i.Arg1), tt.typeOf(i.Arg2)))
		case ir.OpMod:
			tt.set(i.Result, types.T(types.Number))
		case ir.OpListCreate:
			tt.set(i.Result, types.ListOf(types.T(types.Unknown)))
		case ir.OpListAppend:
			listT := tt.typeOf(i.Arg1)
			if listT.Kind == types.List && (listT.Elem == nil || listT.Elem.Kind == types.Unknown) {
				elem := tt.typeOf(i.Arg2)
				tt.set(i.Arg1, types.ListOf(elem))
			}
		case ir.OpListGet:
			listT := tt.typeOf(i.Arg1)
			if listT.Kind == types.List && listT.Elem != nil {
				tt.set(i.Result, *listT.Elem)
			} else {
				tt.set(i.Result, types.T(types.Number))
			}
		case ir.OpCall:
			if rt, ok := funcReturns[i.Arg1.Name]; ok {
				tt.set(i.Result, rt)
			}
		}
	}

	// A second scan propagates a known type through assign instructions;
	// a few iterations cover an assign whose source var is itself typed
	// by an assign later in program order (e.g. inside a loop body).
	for iter := 0; iter < 4; iter++ {
		for i := fn.Instrs.Head(); i != nil; i = i.Next() {
			if i.Op == ir.OpAssign {
				tt.set(i.Result, tt.typeOf(i.Arg1))
			}
		}
	}

	return tt
}

// functionReturnTypes builds the name -> return type table the C emitter
// consults when typing a call result, including the internal
// __list_length helper's Number return.
func functionReturnTypes(prog *ir.Program) map[string]types.Type {
	m := map[string]types.Type{
		"__list_length": types.T(types.Number),
	}
	for _, fn := range prog.Functions {
		m[fn.Name] = fn.ReturnType
	}
	return m
}
