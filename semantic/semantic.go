// Package semantic implements Word's single top-down semantic analysis
// pass (spec.md §4.2).
//
// The Analyzer walks the AST exactly once, driving symtab scope entry and
// exit, declaring every variable/function/parameter it meets, inferring and
// writing each expression's DataType in place, and accumulating errors and
// warnings on the symbol table. Structurally this mirrors the teacher's
// compiler.Compiler.Compile method: one big switch over node kinds,
// recursing into children before acting on the current node.
package semantic

import (
	"github.com/wordlang/wordc/ast"
	"github.com/wordlang/wordc/symtab"
	"github.com/wordlang/wordc/types"
)

// Result reports the outcome of a full analysis pass.
type Result struct {
	Success  bool
	Errors   int
	Warnings int
}

// Analyzer performs semantic analysis over a parsed Word program.
type Analyzer struct {
	tab *symtab.Table
}

// New creates an Analyzer with a fresh symbol table.
func New() *Analyzer {
	return &Analyzer{tab: symtab.New()}
}

// SymbolTable returns the table populated by Analyze, for later phases
// (IR lowering, C emission) to consume read-only.
func (a *Analyzer) SymbolTable() *symtab.Table { return a.tab }

// Analyze walks prog, annotating every expression's DataType in place and
// returning the pass/fail summary.
func (a *Analyzer) Analyze(prog *ast.Program) *Result {
	for _, stmt := range prog.Statements {
		a.analyzeStatement(stmt)
	}
	return &Result{
		Success:  !a.tab.HasErrors(),
		Errors:   len(a.tab.Errors()),
		Warnings: len(a.tab.Warnings()),
	}
}

func (a *Analyzer) analyzeStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VariableDecl:
		a.analyzeVariableDecl(s)
	case *ast.FunctionDecl:
		a.analyzeFunctionDecl(s)
	case *ast.AssignStatement:
		a.analyzeAssignStatement(s)
	case *ast.IfStatement:
		a.analyzeIfStatement(s)
	case *ast.WhileStatement:
		a.analyzeWhileStatement(s)
	case *ast.RepeatStatement:
		a.analyzeRepeatStatement(s)
	case *ast.ForEachStatement:
		a.analyzeForEachStatement(s)
	case *ast.ReturnStatement:
		a.analyzeReturnStatement(s)
	case *ast.BreakStatement:
		if !a.tab.InLoop() {
			a.tab.Error(s.Pos(), "`stop` used outside a loop")
		}
	case *ast.ContinueStatement:
		if !a.tab.InLoop() {
			a.tab.Error(s.Pos(), "`skip` used outside a loop")
		}
	case *ast.ExpressionStatement:
		a.analyzeExpression(s.Expr)
	case *ast.SecureZoneStatement:
		a.tab.EnterSecureScope()
		a.analyzeBlock(s.Body)
		a.tab.ExitScope()
	case *ast.DisplayStatement:
		a.analyzeExpression(s.Value)
	case *ast.AskStatement:
		a.analyzeExpression(s.Prompt)
		a.analyzeAssignTarget(s.Target)
	case *ast.ReadStatement:
		a.analyzeAssignTarget(s.Target)
	case *ast.Block:
		a.tab.EnterScope()
		a.analyzeBlock(s)
		a.tab.ExitScope()
	default:
		a.tab.Error(stmt.Pos(), "internal: unhandled statement kind %T", stmt)
	}
}

func (a *Analyzer) analyzeBlock(b *ast.Block) {
	for _, s := range b.Statements {
		a.analyzeStatement(s)
	}
}

func (a *Analyzer) analyzeVariableDecl(d *ast.VariableDecl) {
	declType := types.T(types.Unknown)
	initialized := false

	if d.Initializer != nil {
		initType := a.analyzeExpression(d.Initializer)
		declType = initType
		initialized = true
	} else if d.IsConst {
		a.tab.Error(d.Pos(), "constant %q must have an initializer", d.Name)
	}

	if d.IsConst {
		a.tab.DeclareConstant(d.Name, declType, d.Pos())
	} else {
		a.tab.DeclareVariable(d.Name, declType, initialized, d.Pos())
	}
}

func (a *Analyzer) analyzeFunctionDecl(f *ast.FunctionDecl) {
	info := &symtab.FunctionInfo{ReturnType: f.ReturnType}
	for _, p := range f.Parameters {
		info.ParamNames = append(info.ParamNames, p.Name)
		info.ParamTypes = append(info.ParamTypes, p.Type)
	}
	a.tab.DeclareFunction(f.Name, info, f.Pos())

	a.tab.EnterFunctionScope(f.ReturnType)
	for _, p := range f.Parameters {
		a.tab.DeclareParameter(p.Name, p.Type, p.Pos())
	}
	a.analyzeBlock(f.Body)
	a.tab.ExitScope()
}

func (a *Analyzer) analyzeAssignTarget(target ast.Expression) {
	switch t := target.(type) {
	case *ast.Identifier:
		sym, ok := a.tab.Lookup(t.Name)
		if !ok {
			a.tab.Error(t.Pos(), "assignment to undeclared identifier %q", t.Name)
			t.SetType(types.T(types.Unknown))
			return
		}
		if sym.Kind == symtab.ConstantSym {
			a.tab.Error(t.Pos(), "cannot assign to constant %q", t.Name)
		} else if sym.Kind == symtab.FunctionSym {
			a.tab.Error(t.Pos(), "cannot assign to function %q", t.Name)
		}
		sym.IsInitialized = true
		t.SetType(sym.Type)
	case *ast.IndexExpression:
		a.analyzeExpression(t)
	default:
		a.tab.Error(target.Pos(), "invalid assignment target")
	}
}

func (a *Analyzer) analyzeAssignStatement(s *ast.AssignStatement) {
	a.analyzeAssignTarget(s.Target)
	valueType := a.analyzeExpression(s.Value)
	if !types.Compatible(s.Target.GetType(), valueType) {
		a.tab.Error(s.Pos(), "cannot assign %s to target of type %s", valueType, s.Target.GetType())
	}
}

func (a *Analyzer) checkConditionType(loc ast.Pos, t types.Type) {
	if t.Kind == types.Flag {
		return
	}
	if t.IsNumeric() {
		a.tab.Warning(loc, "numeric condition treated as truthiness")
		return
	}
	if t.Kind != types.Unknown {
		a.tab.Error(loc, "condition must be a flag or numeric value, got %s", t)
	}
}

func (a *Analyzer) analyzeIfStatement(s *ast.IfStatement) {
	condType := a.analyzeExpression(s.Condition)
	a.checkConditionType(s.Condition.Pos(), condType)

	a.tab.EnterScope()
	a.analyzeBlock(s.Consequence)
	a.tab.ExitScope()

	if s.Alternative != nil {
		a.tab.EnterScope()
		a.analyzeBlock(s.Alternative)
		a.tab.ExitScope()
	}
}

func (a *Analyzer) analyzeWhileStatement(s *ast.WhileStatement) {
	condType := a.analyzeExpression(s.Condition)
	a.checkConditionType(s.Condition.Pos(), condType)

	a.tab.EnterLoopScope()
	a.analyzeBlock(s.Body)
	a.tab.ExitScope()
}

func (a *Analyzer) analyzeRepeatStatement(s *ast.RepeatStatement) {
	countType := a.analyzeExpression(s.Count)
	if !countType.IsNumeric() && countType.Kind != types.Unknown {
		a.tab.Error(s.Count.Pos(), "`repeat ... times` count must be numeric, got %s", countType)
	}

	a.tab.EnterLoopScope()
	a.analyzeBlock(s.Body)
	a.tab.ExitScope()
}

func (a *Analyzer) analyzeForEachStatement(s *ast.ForEachStatement) {
	iterType := a.analyzeExpression(s.Iterable)
	elemType := types.T(types.Unknown)
	switch {
	case iterType.Kind == types.List:
		if iterType.Elem != nil {
			elemType = *iterType.Elem
		}
	case iterType.Kind == types.Text:
		elemType = types.T(types.Text)
	case iterType.Kind != types.Unknown:
		a.tab.Error(s.Iterable.Pos(), "`for each ... in` requires a list or text value, got %s", iterType)
	}

	a.tab.EnterLoopScope()
	a.tab.DeclareVariable(s.IteratorName, elemType, true, s.Pos())
	a.analyzeBlock(s.Body)
	a.tab.ExitScope()
}

func (a *Analyzer) analyzeReturnStatement(s *ast.ReturnStatement) {
	if !a.tab.InFunction() {
		a.tab.Error(s.Pos(), "`give back` used outside a function")
		if s.Value != nil {
			a.analyzeExpression(s.Value)
		}
		return
	}
	returnType, _ := a.tab.ReturnType()

	if s.Value == nil {
		if returnType.Kind != types.Nothing {
			a.tab.Error(s.Pos(), "function expects a %s return value", returnType)
		}
		return
	}
	valueType := a.analyzeExpression(s.Value)
	if returnType.Kind == types.Nothing {
		a.tab.Error(s.Pos(), "function declared to return nothing but `give back` has a value")
		return
	}
	if !types.Compatible(returnType, valueType) {
		a.tab.Error(s.Pos(), "returned %s does not match declared return type %s", valueType, returnType)
	}
}

// ---- expressions ----

func (a *Analyzer) analyzeExpression(expr ast.Expression) types.Type {
	var result types.Type
	switch e := expr.(type) {
	case *ast.Identifier:
		result = a.analyzeIdentifier(e)
	case *ast.IntegerLiteral:
		result = types.T(types.Number)
	case *ast.FloatLiteral:
		result = types.T(types.Decimal)
	case *ast.StringLiteral:
		result = types.T(types.Text)
	case *ast.BoolLiteral:
		result = types.T(types.Flag)
	case *ast.ListLiteral:
		result = a.analyzeListLiteral(e)
	case *ast.BinaryExpression:
		result = a.analyzeBinaryExpression(e)
	case *ast.UnaryExpression:
		result = a.analyzeUnaryExpression(e)
	case *ast.TernaryBetween:
		result = a.analyzeTernaryBetween(e)
	case *ast.CallExpression:
		result = a.analyzeCallExpression(e)
	case *ast.IndexExpression:
		result = a.analyzeIndexExpression(e)
	default:
		a.tab.Error(expr.Pos(), "internal: unhandled expression kind %T", expr)
		result = types.T(types.Unknown)
	}
	expr.SetType(result)
	return result
}

func (a *Analyzer) analyzeIdentifier(id *ast.Identifier) types.Type {
	sym, ok := a.tab.Lookup(id.Name)
	if !ok {
		a.tab.Error(id.Pos(), "undeclared identifier %q", id.Name)
		return types.T(types.Unknown)
	}
	if !sym.IsInitialized {
		a.tab.Warning(id.Pos(), "%q used before initialization", id.Name)
	}
	return sym.Type
}

func (a *Analyzer) analyzeListLiteral(l *ast.ListLiteral) types.Type {
	elemType := types.T(types.Unknown)
	for i, e := range l.Elements {
		t := a.analyzeExpression(e)
		if i == 0 {
			elemType = t
		}
	}
	return types.ListOf(elemType)
}

func (a *Analyzer) analyzeBinaryExpression(b *ast.BinaryExpression) types.Type {
	leftType := a.analyzeExpression(b.Left)
	rightType := a.analyzeExpression(b.Right)

	switch {
	case b.Operator.IsComparison():
		return types.T(types.Flag)
	case b.Operator.IsLogical():
		a.requireFlag(b.Left.Pos(), leftType)
		a.requireFlag(b.Right.Pos(), rightType)
		return types.T(types.Flag)
	case b.Operator == types.Add && (leftType.Kind == types.Text || rightType.Kind == types.Text):
		return types.T(types.Text)
	case b.Operator == types.Mod:
		a.requireNumeric(b.Left.Pos(), leftType)
		a.requireNumeric(b.Right.Pos(), rightType)
		return types.T(types.Number)
	default:
		a.requireNumeric(b.Left.Pos(), leftType)
		a.requireNumeric(b.Right.Pos(), rightType)
		return types.Promote(leftType, rightType)
	}
}

func (a *Analyzer) requireNumeric(loc ast.Pos, t types.Type) {
	if !t.IsNumeric() && t.Kind != types.Unknown {
		a.tab.Error(loc, "expected a numeric operand, got %s", t)
	}
}

func (a *Analyzer) requireFlag(loc ast.Pos, t types.Type) {
	if t.Kind != types.Flag && t.Kind != types.Unknown {
		a.tab.Error(loc, "expected a flag operand, got %s", t)
	}
}

func (a *Analyzer) analyzeUnaryExpression(u *ast.UnaryExpression) types.Type {
	operandType := a.analyzeExpression(u.Operand)
	if u.Operator == types.Not {
		if operandType.Kind != types.Flag && operandType.Kind != types.Unknown {
			a.tab.Error(u.Pos(), "`not` requires a flag operand, got %s", operandType)
		}
		return types.T(types.Flag)
	}
	a.requireNumeric(u.Pos(), operandType)
	return operandType
}

func (a *Analyzer) analyzeTernaryBetween(t *ast.TernaryBetween) types.Type {
	a.requireNumeric(t.X.Pos(), a.analyzeExpression(t.X))
	a.requireNumeric(t.Low.Pos(), a.analyzeExpression(t.Low))
	a.requireNumeric(t.High.Pos(), a.analyzeExpression(t.High))
	return types.T(types.Flag)
}

func (a *Analyzer) analyzeCallExpression(c *ast.CallExpression) types.Type {
	sym, ok := a.tab.LookupFunction(c.Function)
	argTypes := make([]types.Type, len(c.Arguments))
	for i, arg := range c.Arguments {
		argTypes[i] = a.analyzeExpression(arg)
	}
	if !ok {
		a.tab.Error(c.Pos(), "call to undeclared function %q", c.Function)
		return types.T(types.Unknown)
	}
	if len(argTypes) != len(sym.Function.ParamTypes) {
		a.tab.Error(c.Pos(), "function %q expects %d argument(s), got %d",
			c.Function, len(sym.Function.ParamTypes), len(argTypes))
	} else {
		for i, pt := range sym.Function.ParamTypes {
			if !types.Compatible(pt, argTypes[i]) {
				a.tab.Error(c.Arguments[i].Pos(), "argument %d to %q: expected %s, got %s",
					i+1, c.Function, pt, argTypes[i])
			}
		}
	}
	return sym.Function.ReturnType
}

func (a *Analyzer) analyzeIndexExpression(i *ast.IndexExpression) types.Type {
	arrType := a.analyzeExpression(i.Array)
	idxType := a.analyzeExpression(i.Index)

	if !idxType.IsNumeric() && idxType.Kind != types.Unknown {
		a.tab.Error(i.Index.Pos(), "index must be numeric, got %s", idxType)
	}

	switch arrType.Kind {
	case types.List:
		if arrType.Elem != nil {
			return *arrType.Elem
		}
		return types.T(types.Unknown)
	case types.Text:
		return types.T(types.Text)
	case types.Unknown:
		return types.T(types.Unknown)
	default:
		a.tab.Error(i.Array.Pos(), "cannot index a value of type %s", arrType)
		return types.T(types.Unknown)
	}
}
