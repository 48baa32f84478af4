// Package ast defines the Abstract Syntax Tree (AST) for the Word
// programming language.
//
// The AST represents the structure of a Word program after it has been
// parsed. It consists of nodes that represent different language constructs:
// declarations, statements, and expressions (spec.md §3 "AST"). Each node
// carries a source Pos and, for expressions, a DataType slot that the
// Semantic Analyzer fills in — the AST is treated as read-only by every
// later phase (IR lowering, optimization, C emission).
//
// Ownership: each parent node owns its children; slices of children own
// their elements. Nothing in this package mutates a node after the parser
// hands it to the Semantic Analyzer except the analyzer itself, writing
// DataType.
package ast

import (
	"strconv"
	"strings"

	"github.com/wordlang/wordc/types"
)

// Pos is a source location, attached to every AST node for diagnostics.
type Pos struct {
	Line, Column int
}

func (p Pos) String() string { return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column) }

// Node is the base interface implemented by every AST node.
type Node interface {
	Pos() Pos
	String() string
}

// Statement is implemented by every statement node.
type Statement interface {
	Node
	statementNode()
}

// Expression is implemented by every expression node. GetType/SetType let
// the Semantic Analyzer annotate the node in place without a parallel map.
type Expression interface {
	Node
	expressionNode()
	GetType() types.Type
	SetType(types.Type)
}

// ExprBase factors the DataType slot shared by every expression kind.
type ExprBase struct {
	Position Pos
	DataType types.Type
}

func (e *ExprBase) Pos() Pos             { return e.Position }
func (e *ExprBase) GetType() types.Type  { return e.DataType }
func (e *ExprBase) SetType(t types.Type) { e.DataType = t }
func (*ExprBase) expressionNode()        {}

// Program is the root node: the implicit top-level sequence of statements.
type Program struct {
	Statements []Statement
}

func (p *Program) Pos() Pos { return Pos{1, 1} }
func (p *Program) String() string {
	var b strings.Builder
	for _, s := range p.Statements {
		b.WriteString(s.String())
		b.WriteString("\n")
	}
	return b.String()
}

// ---- Declarations ----

// VariableDecl declares a variable or constant, with an optional initializer.
type VariableDecl struct {
	Position    Pos
	Name        string
	IsConst     bool
	Initializer Expression // nil if uninitialized
}

func (d *VariableDecl) Pos() Pos        { return d.Position }
func (d *VariableDecl) statementNode()  {}
func (d *VariableDecl) String() string {
	kw := "set"
	if d.IsConst {
		kw = "make constant"
	}
	if d.Initializer != nil {
		return kw + " " + d.Name + " to " + d.Initializer.String()
	}
	return kw + " " + d.Name
}

// Parameter is a single function parameter.
type Parameter struct {
	Position Pos
	Name     string
	Type     types.Type
}

func (p *Parameter) Pos() Pos       { return p.Position }
func (p *Parameter) String() string { return p.Name }

// FunctionDecl declares a named function.
type FunctionDecl struct {
	Position   Pos
	Name       string
	Parameters []*Parameter
	ReturnType types.Type
	Body       *Block
}

func (f *FunctionDecl) Pos() Pos       { return f.Position }
func (f *FunctionDecl) statementNode() {}
func (f *FunctionDecl) String() string {
	var b strings.Builder
	b.WriteString("define " + f.Name + "(")
	for i, p := range f.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") returns " + f.ReturnType.String() + ":\n")
	b.WriteString(f.Body.String())
	b.WriteString("end")
	return b.String()
}

// ---- Statements ----

// Block is a sequence of statements enclosed by a scope boundary.
type Block struct {
	Position   Pos
	Statements []Statement
}

func (b *Block) Pos() Pos       { return b.Position }
func (b *Block) statementNode() {}
func (b *Block) String() string {
	var sb strings.Builder
	for _, s := range b.Statements {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// AssignStatement reassigns an existing mutable variable or an index target.
type AssignStatement struct {
	Position Pos
	Target   Expression // *Identifier or *IndexExpression
	Value    Expression
}

func (a *AssignStatement) Pos() Pos       { return a.Position }
func (a *AssignStatement) statementNode() {}
func (a *AssignStatement) String() string {
	return "change " + a.Target.String() + " to " + a.Value.String()
}

// IfStatement is a conditional with an optional else branch.
type IfStatement struct {
	Position    Pos
	Condition   Expression
	Consequence *Block
	Alternative *Block // nil if no else
}

func (i *IfStatement) Pos() Pos       { return i.Position }
func (i *IfStatement) statementNode() {}
func (i *IfStatement) String() string {
	var b strings.Builder
	b.WriteString("if " + i.Condition.String() + ":\n")
	b.WriteString(i.Consequence.String())
	if i.Alternative != nil {
		b.WriteString("else:\n")
		b.WriteString(i.Alternative.String())
	}
	b.WriteString("end")
	return b.String()
}

// WhileStatement is a pre-tested loop.
type WhileStatement struct {
	Position  Pos
	Condition Expression
	Body      *Block
}

func (w *WhileStatement) Pos() Pos       { return w.Position }
func (w *WhileStatement) statementNode() {}
func (w *WhileStatement) String() string {
	return "while " + w.Condition.String() + ":\n" + w.Body.String() + "end"
}

// RepeatStatement runs Body Count times (spec.md §4.3: N<0 runs zero times).
type RepeatStatement struct {
	Position Pos
	Count    Expression
	Body     *Block
}

func (r *RepeatStatement) Pos() Pos       { return r.Position }
func (r *RepeatStatement) statementNode() {}
func (r *RepeatStatement) String() string {
	return "repeat " + r.Count.String() + " times:\n" + r.Body.String() + "end"
}

// ForEachStatement iterates over a List or Text, binding IteratorName.
type ForEachStatement struct {
	Position     Pos
	IteratorName string
	Iterable     Expression
	Body         *Block
}

func (f *ForEachStatement) Pos() Pos       { return f.Position }
func (f *ForEachStatement) statementNode() {}
func (f *ForEachStatement) String() string {
	return "for each " + f.IteratorName + " in " + f.Iterable.String() + ":\n" + f.Body.String() + "end"
}

// ReturnStatement exits the enclosing function, optionally with a value.
type ReturnStatement struct {
	Position Pos
	Value    Expression // nil for a Nothing-returning function
}

func (r *ReturnStatement) Pos() Pos       { return r.Position }
func (r *ReturnStatement) statementNode() {}
func (r *ReturnStatement) String() string {
	if r.Value != nil {
		return "give back " + r.Value.String()
	}
	return "give back"
}

// BreakStatement exits the enclosing loop ("stop").
type BreakStatement struct{ Position Pos }

func (b *BreakStatement) Pos() Pos       { return b.Position }
func (b *BreakStatement) statementNode() {}
func (b *BreakStatement) String() string { return "stop" }

// ContinueStatement jumps to the enclosing loop's next iteration ("skip").
type ContinueStatement struct{ Position Pos }

func (c *ContinueStatement) Pos() Pos       { return c.Position }
func (c *ContinueStatement) statementNode() {}
func (c *ContinueStatement) String() string { return "skip" }

// ExpressionStatement is a statement consisting of a bare expression
// (currently only function calls are useful here).
type ExpressionStatement struct {
	Position Pos
	Expr     Expression
}

func (e *ExpressionStatement) Pos() Pos       { return e.Position }
func (e *ExpressionStatement) statementNode() {}
func (e *ExpressionStatement) String() string { return e.Expr.String() }

// SecureZoneStatement brackets a body with a lexical secure-zone marker
// (spec.md §9: no enforced runtime semantics in the current design).
type SecureZoneStatement struct {
	Position Pos
	Body     *Block
}

func (s *SecureZoneStatement) Pos() Pos       { return s.Position }
func (s *SecureZoneStatement) statementNode() {}
func (s *SecureZoneStatement) String() string {
	return "secure zone:\n" + s.Body.String() + "end"
}

// DisplayStatement prints the value of an expression.
type DisplayStatement struct {
	Position Pos
	Value    Expression
}

func (d *DisplayStatement) Pos() Pos       { return d.Position }
func (d *DisplayStatement) statementNode() {}
func (d *DisplayStatement) String() string { return "display " + d.Value.String() }

// AskStatement prints Prompt then reads a line of input into Target.
type AskStatement struct {
	Position Pos
	Prompt   Expression
	Target   *Identifier
}

func (a *AskStatement) Pos() Pos       { return a.Position }
func (a *AskStatement) statementNode() {}
func (a *AskStatement) String() string {
	return "ask " + a.Prompt.String() + " into " + a.Target.String()
}

// ReadStatement reads a line of input into Target, without a prompt.
type ReadStatement struct {
	Position Pos
	Target   *Identifier
}

func (r *ReadStatement) Pos() Pos       { return r.Position }
func (r *ReadStatement) statementNode() {}
func (r *ReadStatement) String() string { return "read into " + r.Target.String() }

// ---- Expressions ----

// Identifier names a variable, constant, parameter, or function.
type Identifier struct {
	ExprBase
	Name string
}

func (i *Identifier) String() string { return i.Name }

// IntegerLiteral is a Number literal.
type IntegerLiteral struct {
	ExprBase
	Value int64
}

func (l *IntegerLiteral) String() string { return strconv.FormatInt(l.Value, 10) }

// FloatLiteral is a Decimal literal.
type FloatLiteral struct {
	ExprBase
	Value float64
}

func (l *FloatLiteral) String() string { return strconv.FormatFloat(l.Value, 'g', -1, 64) }

// StringLiteral is a Text literal.
type StringLiteral struct {
	ExprBase
	Value string
}

func (l *StringLiteral) String() string { return strconv.Quote(l.Value) }

// BoolLiteral is a Flag literal.
type BoolLiteral struct {
	ExprBase
	Value bool
}

func (l *BoolLiteral) String() string { return strconv.FormatBool(l.Value) }

// ListLiteral builds a List value from its elements.
type ListLiteral struct {
	ExprBase
	Elements []Expression
}

func (l *ListLiteral) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, e := range l.Elements {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteString("]")
	return b.String()
}

// BinaryExpression is an arithmetic, comparison, or logical binary operation.
type BinaryExpression struct {
	ExprBase
	Operator types.Operator
	Left     Expression
	Right    Expression
}

func (b *BinaryExpression) String() string {
	return "(" + b.Left.String() + " " + b.Operator.String() + " " + b.Right.String() + ")"
}

// UnaryExpression is neg or not applied to a single operand.
type UnaryExpression struct {
	ExprBase
	Operator types.Operator
	Operand  Expression
}

func (u *UnaryExpression) String() string {
	return "(" + u.Operator.String() + u.Operand.String() + ")"
}

// TernaryBetween is the between(x, lo, hi) operator.
type TernaryBetween struct {
	ExprBase
	X, Low, High Expression
}

func (t *TernaryBetween) String() string {
	return "between(" + t.X.String() + ", " + t.Low.String() + ", " + t.High.String() + ")"
}

// CallExpression calls a named function with a list of arguments.
type CallExpression struct {
	ExprBase
	Function  string
	Arguments []Expression
}

func (c *CallExpression) String() string {
	var b strings.Builder
	b.WriteString(c.Function + "(")
	for i, a := range c.Arguments {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteString(")")
	return b.String()
}

// IndexExpression indexes a List (or Text) by a numeric expression.
type IndexExpression struct {
	ExprBase
	Array Expression
	Index Expression
}

func (i *IndexExpression) String() string {
	return i.Array.String() + "[" + i.Index.String() + "]"
}
