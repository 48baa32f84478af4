// Package lowering implements the AST-to-TAC lowering pass (spec.md
// §4.3): a second top-down walk over the (already semantically
// annotated) AST that emits instructions into a growing ir.Program.
//
// The structure mirrors the teacher's compiler.Compiler.Compile method —
// one recursive switch over node kinds, an emit helper that appends to the
// current function's instruction stream, and a scope/loop-context stack
// pushed and popped around nested constructs — generalized from bytecode
// instructions to TAC instructions and from a VM target to a C target.
package lowering

import (
	"github.com/wordlang/wordc/ast"
	"github.com/wordlang/wordc/ir"
	"github.com/wordlang/wordc/types"
)

// listLengthHelper is the internal pseudo-function name the emitter
// recognizes and rewrites to a direct runtime helper call (spec.md §9).
const listLengthHelper = "__list_length"

// loopContext holds the break/continue target labels for one enclosing loop.
type loopContext struct {
	breakLabel    int
	continueLabel int
}

// Lowerer walks a semantically analyzed AST and builds a TAC Program.
type Lowerer struct {
	prog *ir.Program
	fn   *ir.Function

	loops []loopContext
}

// New creates a Lowerer targeting a fresh, empty Program.
func New() *Lowerer {
	p := ir.NewProgram()
	return &Lowerer{prog: p, fn: p.TopLevel}
}

// Lower lowers every top-level statement into the Program and returns it.
func (l *Lowerer) Lower(program *ast.Program) *ir.Program {
	for _, stmt := range program.Statements {
		l.lowerStatement(stmt)
	}
	return l.prog
}

func (l *Lowerer) emit(op ir.Opcode, result, arg1, arg2, arg3 ir.Operand, line int) *ir.Instruction {
	inst := &ir.Instruction{Op: op, Result: result, Arg1: arg1, Arg2: arg2, Arg3: arg3, Line: line}
	l.fn.Instrs.Append(inst)
	return inst
}

func (l *Lowerer) newTemp() ir.Operand { return ir.Temp(l.prog.NewTemp()) }

func (l *Lowerer) newLabel() int { return l.prog.NewLabel() }

func (l *Lowerer) emitLabel(id int, line int) {
	l.emit(ir.OpLabel, ir.Label(id), ir.None, ir.None, ir.None, line)
}

func (l *Lowerer) pushLoop(breakLabel, continueLabel int) {
	l.loops = append(l.loops, loopContext{breakLabel, continueLabel})
}

func (l *Lowerer) popLoop() { l.loops = l.loops[:len(l.loops)-1] }

func (l *Lowerer) currentLoop() (loopContext, bool) {
	if len(l.loops) == 0 {
		return loopContext{}, false
	}
	return l.loops[len(l.loops)-1], true
}

// ---- statements ----

func (l *Lowerer) lowerStatement(stmt ast.Statement) {
	line := stmt.Pos().Line
	switch s := stmt.(type) {
	case *ast.VariableDecl:
		l.lowerVariableDecl(s)
	case *ast.FunctionDecl:
		l.lowerFunctionDecl(s)
	case *ast.AssignStatement:
		l.lowerAssignStatement(s)
	case *ast.IfStatement:
		l.lowerIfStatement(s)
	case *ast.WhileStatement:
		l.lowerWhileStatement(s)
	case *ast.RepeatStatement:
		l.lowerRepeatStatement(s)
	case *ast.ForEachStatement:
		l.lowerForEachStatement(s)
	case *ast.ReturnStatement:
		l.lowerReturnStatement(s)
	case *ast.BreakStatement:
		if lp, ok := l.currentLoop(); ok {
			l.emit(ir.OpGoto, ir.None, ir.Label(lp.breakLabel), ir.None, ir.None, line)
		}
	case *ast.ContinueStatement:
		if lp, ok := l.currentLoop(); ok {
			l.emit(ir.OpGoto, ir.None, ir.Label(lp.continueLabel), ir.None, ir.None, line)
		}
	case *ast.ExpressionStatement:
		l.lowerExpression(s.Expr)
	case *ast.SecureZoneStatement:
		l.emit(ir.OpSecureBegin, ir.None, ir.None, ir.None, ir.None, line)
		l.lowerBlock(s.Body)
		l.emit(ir.OpSecureEnd, ir.None, ir.None, ir.None, ir.None, line)
	case *ast.DisplayStatement:
		v := l.lowerExpression(s.Value)
		l.emit(ir.OpDisplay, ir.None, v, ir.None, ir.None, line)
	case *ast.AskStatement:
		prompt := l.lowerExpression(s.Prompt)
		l.emit(ir.OpAsk, ir.Var(s.Target.Name), prompt, ir.None, ir.None, line)
	case *ast.ReadStatement:
		l.emit(ir.OpRead, ir.Var(s.Target.Name), ir.None, ir.None, ir.None, line)
	case *ast.Block:
		l.lowerBlock(s)
	default:
		// unreachable: the semantic analyzer rejects unknown node kinds first
	}
}

func (l *Lowerer) lowerBlock(b *ast.Block) {
	line := b.Pos().Line
	l.emit(ir.OpScopeBegin, ir.None, ir.None, ir.None, ir.None, line)
	for _, s := range b.Statements {
		l.lowerStatement(s)
	}
	l.emit(ir.OpScopeEnd, ir.None, ir.None, ir.None, ir.None, line)
}

func (l *Lowerer) lowerVariableDecl(d *ast.VariableDecl) {
	line := d.Pos().Line
	l.emit(ir.OpDecl, ir.Var(d.Name), ir.None, ir.None, ir.None, line)
	if d.Initializer != nil {
		v := l.lowerExpression(d.Initializer)
		l.emit(ir.OpAssign, ir.Var(d.Name), v, ir.None, ir.None, line)
	}
}

func (l *Lowerer) lowerFunctionDecl(f *ast.FunctionDecl) {
	fn := &ir.Function{Name: f.Name, ReturnType: f.ReturnType}
	for _, p := range f.Parameters {
		fn.ParamNames = append(fn.ParamNames, p.Name)
		fn.ParamTypes = append(fn.ParamTypes, p.Type)
	}
	l.prog.AddFunction(fn)

	outer := l.fn
	l.fn = fn
	line := f.Pos().Line
	l.emit(ir.OpFuncBegin, ir.None, ir.Func(f.Name), ir.None, ir.None, line)
	for _, stmt := range f.Body.Statements {
		l.lowerStatement(stmt)
	}
	l.emit(ir.OpFuncEnd, ir.None, ir.Func(f.Name), ir.None, ir.None, line)
	l.fn = outer
}

func (l *Lowerer) lowerAssignTarget(target ast.Expression, value ir.Operand, line int) {
	switch t := target.(type) {
	case *ast.Identifier:
		l.emit(ir.OpAssign, ir.Var(t.Name), value, ir.None, ir.None, line)
	case *ast.IndexExpression:
		arr := l.lowerExpression(t.Array)
		idx := l.lowerExpression(t.Index)
		l.emit(ir.OpListSet, ir.None, arr, idx, value, line)
	}
}

func (l *Lowerer) lowerAssignStatement(s *ast.AssignStatement) {
	v := l.lowerExpression(s.Value)
	l.lowerAssignTarget(s.Target, v, s.Pos().Line)
}

func (l *Lowerer) lowerIfStatement(s *ast.IfStatement) {
	line := s.Pos().Line
	cond := l.lowerExpression(s.Condition)
	endLabel := l.newLabel()

	if s.Alternative == nil {
		l.emit(ir.OpIfFalseGoto, ir.None, cond, ir.Label(endLabel), ir.None, line)
		l.lowerBlock(s.Consequence)
		l.emitLabel(endLabel, line)
		return
	}

	elseLabel := l.newLabel()
	l.emit(ir.OpIfFalseGoto, ir.None, cond, ir.Label(elseLabel), ir.None, line)
	l.lowerBlock(s.Consequence)
	l.emit(ir.OpGoto, ir.None, ir.Label(endLabel), ir.None, ir.None, line)
	l.emitLabel(elseLabel, line)
	l.lowerBlock(s.Alternative)
	l.emitLabel(endLabel, line)
}

func (l *Lowerer) lowerWhileStatement(s *ast.WhileStatement) {
	line := s.Pos().Line
	startLabel := l.newLabel()
	endLabel := l.newLabel()

	l.emitLabel(startLabel, line)
	cond := l.lowerExpression(s.Condition)
	l.emit(ir.OpIfFalseGoto, ir.None, cond, ir.Label(endLabel), ir.None, line)

	l.pushLoop(endLabel, startLabel)
	l.lowerBlock(s.Body)
	l.popLoop()

	l.emit(ir.OpGoto, ir.None, ir.Label(startLabel), ir.None, ir.None, line)
	l.emitLabel(endLabel, line)
}

// lowerRepeatStatement synthesizes an integer counter `i` and a limit temp
// from Count, looping while i < limit (spec.md §9 open question: a
// negative or zero count runs the body zero times).
func (l *Lowerer) lowerRepeatStatement(s *ast.RepeatStatement) {
	line := s.Pos().Line
	limit := l.lowerExpression(s.Count)

	iTemp := l.newTemp()
	l.emit(ir.OpLoadInt, iTemp, ir.Int(0), ir.None, ir.None, line)

	startLabel := l.newLabel()
	incLabel := l.newLabel()
	endLabel := l.newLabel()

	l.emitLabel(startLabel, line)
	cond := l.newTemp()
	l.emit(ir.OpLt, cond, iTemp, limit, ir.None, line)
	l.emit(ir.OpIfFalseGoto, ir.None, cond, ir.Label(endLabel), ir.None, line)

	l.pushLoop(endLabel, incLabel)
	l.lowerBlock(s.Body)
	l.popLoop()

	l.emitLabel(incLabel, line)
	one := l.newTemp()
	l.emit(ir.OpLoadInt, one, ir.Int(1), ir.None, ir.None, line)
	sum := l.newTemp()
	l.emit(ir.OpAdd, sum, iTemp, one, ir.None, line)
	l.emit(ir.OpAssign, iTemp, sum, ir.None, ir.None, line)
	l.emit(ir.OpGoto, ir.None, ir.Label(startLabel), ir.None, ir.None, line)
	l.emitLabel(endLabel, line)
}

// lowerForEachStatement synthesizes an index counter, fetches the
// iterable's length via the __list_length pseudo-function, and fetches
// one element per iteration into the user-named iterator variable.
func (l *Lowerer) lowerForEachStatement(s *ast.ForEachStatement) {
	line := s.Pos().Line
	iterable := l.lowerExpression(s.Iterable)

	iTemp := l.newTemp()
	l.emit(ir.OpLoadInt, iTemp, ir.Int(0), ir.None, ir.None, line)

	lengthTemp := l.newTemp()
	l.emit(ir.OpParam, ir.None, iterable, ir.None, ir.None, line)
	l.emit(ir.OpCall, lengthTemp, ir.Func(listLengthHelper), ir.Int(1), ir.None, line)

	startLabel := l.newLabel()
	incLabel := l.newLabel()
	endLabel := l.newLabel()

	l.emitLabel(startLabel, line)
	cond := l.newTemp()
	l.emit(ir.OpLt, cond, iTemp, lengthTemp, ir.None, line)
	l.emit(ir.OpIfFalseGoto, ir.None, cond, ir.Label(endLabel), ir.None, line)

	l.emit(ir.OpDecl, ir.Var(s.IteratorName), ir.None, ir.None, ir.None, line)
	l.emit(ir.OpListGet, ir.Var(s.IteratorName), iterable, iTemp, ir.None, line)

	l.pushLoop(endLabel, incLabel)
	l.lowerBlock(s.Body)
	l.popLoop()

	l.emitLabel(incLabel, line)
	one := l.newTemp()
	l.emit(ir.OpLoadInt, one, ir.Int(1), ir.None, ir.None, line)
	sum := l.newTemp()
	l.emit(ir.OpAdd, sum, iTemp, one, ir.None, line)
	l.emit(ir.OpAssign, iTemp, sum, ir.None, ir.None, line)
	l.emit(ir.OpGoto, ir.None, ir.Label(startLabel), ir.None, ir.None, line)
	l.emitLabel(endLabel, line)
}

func (l *Lowerer) lowerReturnStatement(s *ast.ReturnStatement) {
	line := s.Pos().Line
	if s.Value == nil {
		l.emit(ir.OpReturn, ir.None, ir.None, ir.None, ir.None, line)
		return
	}
	v := l.lowerExpression(s.Value)
	l.emit(ir.OpReturn, ir.None, v, ir.None, ir.None, line)
}

// ---- expressions ----

// lowerExpression emits the instructions computing expr's value and
// returns the operand naming the result (spec.md §4.3 "Expression
// emission").
func (l *Lowerer) lowerExpression(expr ast.Expression) ir.Operand {
	line := expr.Pos().Line
	switch e := expr.(type) {
	case *ast.Identifier:
		return ir.Var(e.Name)
	case *ast.IntegerLiteral:
		t := l.newTemp()
		l.emit(ir.OpLoadInt, t, ir.Int(e.Value), ir.None, ir.None, line)
		return t
	case *ast.FloatLiteral:
		t := l.newTemp()
		l.emit(ir.OpLoadFloat, t, ir.Float(e.Value), ir.None, ir.None, line)
		return t
	case *ast.StringLiteral:
		t := l.newTemp()
		l.emit(ir.OpLoadString, t, ir.Str(e.Value), ir.None, ir.None, line)
		return t
	case *ast.BoolLiteral:
		t := l.newTemp()
		l.emit(ir.OpLoadBool, t, ir.Bool(e.Value), ir.None, ir.None, line)
		return t
	case *ast.ListLiteral:
		return l.lowerListLiteral(e)
	case *ast.BinaryExpression:
		return l.lowerBinaryExpression(e)
	case *ast.UnaryExpression:
		return l.lowerUnaryExpression(e)
	case *ast.TernaryBetween:
		return l.lowerTernaryBetween(e)
	case *ast.CallExpression:
		return l.lowerCallExpression(e)
	case *ast.IndexExpression:
		return l.lowerIndexExpression(e)
	default:
		return ir.None
	}
}

func (l *Lowerer) lowerListLiteral(lit *ast.ListLiteral) ir.Operand {
	line := lit.Pos().Line
	listTemp := l.newTemp()
	l.emit(ir.OpListCreate, listTemp, ir.Int(int64(len(lit.Elements))), ir.None, ir.None, line)
	for _, el := range lit.Elements {
		v := l.lowerExpression(el)
		l.emit(ir.OpListAppend, ir.None, listTemp, v, ir.None, line)
	}
	return listTemp
}

var binaryOpcodes = map[types.Operator]ir.Opcode{
	types.Add: ir.OpAdd, types.Sub: ir.OpSub, types.Mul: ir.OpMul, types.Div: ir.OpDiv,
	types.Mod: ir.OpMod, types.Pow: ir.OpPow, types.Eq: ir.OpEq, types.Neq: ir.OpNeq,
	types.Lt: ir.OpLt, types.Gt: ir.OpGt, types.Lte: ir.OpLte, types.Gte: ir.OpGte,
	types.And: ir.OpAnd, types.Or: ir.OpOr,
}

func (l *Lowerer) lowerBinaryExpression(b *ast.BinaryExpression) ir.Operand {
	line := b.Pos().Line
	left := l.lowerExpression(b.Left)
	right := l.lowerExpression(b.Right)

	result := l.newTemp()
	if b.Operator == types.Add && b.GetType().Kind == types.Text {
		l.emit(ir.OpConcat, result, left, right, ir.None, line)
		return result
	}
	l.emit(binaryOpcodes[b.Operator], result, left, right, ir.None, line)
	return result
}

func (l *Lowerer) lowerUnaryExpression(u *ast.UnaryExpression) ir.Operand {
	line := u.Pos().Line
	operand := l.lowerExpression(u.Operand)
	result := l.newTemp()
	op := ir.OpNeg
	if u.Operator == types.Not {
		op = ir.OpNot
	}
	l.emit(op, result, operand, ir.None, ir.None, line)
	return result
}

func (l *Lowerer) lowerTernaryBetween(t *ast.TernaryBetween) ir.Operand {
	line := t.Pos().Line
	x := l.lowerExpression(t.X)
	lo := l.lowerExpression(t.Low)
	hi := l.lowerExpression(t.High)
	result := l.newTemp()
	l.emit(ir.OpBetween, result, x, lo, hi, line)
	return result
}

func (l *Lowerer) lowerCallExpression(c *ast.CallExpression) ir.Operand {
	line := c.Pos().Line
	for _, arg := range c.Arguments {
		v := l.lowerExpression(arg)
		l.emit(ir.OpParam, ir.None, v, ir.None, ir.None, line)
	}
	result := l.newTemp()
	l.emit(ir.OpCall, result, ir.Func(c.Function), ir.Int(int64(len(c.Arguments))), ir.None, line)
	return result
}

func (l *Lowerer) lowerIndexExpression(idx *ast.IndexExpression) ir.Operand {
	line := idx.Pos().Line
	arr := l.lowerExpression(idx.Array)
	index := l.lowerExpression(idx.Index)
	result := l.newTemp()
	l.emit(ir.OpListGet, result, arr, index, ir.None, line)
	return result
}
